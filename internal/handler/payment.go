package handler

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/config"
	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/queue"
	"github.com/triply/triply-backend/internal/repository"
	queue_publisher "github.com/triply/triply-backend/internal/service"
)

// PaymentHandler processes deposit notifications from the payment
// provider. The webhook is authenticated with a shared secret header
// and is idempotent by payment reference, so provider retries and
// replays are safe.
type PaymentHandler struct {
	Cfg         config.Config
	BookingRepo *repository.BookingRepo
	Users       *repository.UserRepo
}

func NewPaymentHandler(cfg config.Config, bookings *repository.BookingRepo, users *repository.UserRepo) *PaymentHandler {
	if bookings == nil || users == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{Cfg: cfg, BookingRepo: bookings, Users: users}
}

// depositReplayed reports whether the booking already carries this
// payment reference, meaning an earlier delivery was fully processed.
func depositReplayed(b model.Booking, ref string) bool {
	return b.PaymentRef != nil && *b.PaymentRef == ref
}

// DepositWebhook handles POST /v1/payments/deposit/webhook. On first
// delivery it marks the booking DEPOSIT_PAID, attaches the payment
// reference and opens the 365-day date-selection window. Replays of
// the same reference return 200 without touching anything; a
// reference already bound to a different booking is a 409.
func (h *PaymentHandler) DepositWebhook(c echo.Context) error {
	secret := c.Request().Header.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.Cfg.WebhookSecret)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid webhook secret"})
	}

	var body struct {
		BookingID   uint64 `json:"booking_id"`
		PaymentRef  string `json:"payment_ref"`
		AmountCents uint32 `json:"amount_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingID == 0 || body.PaymentRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id and payment_ref are required"})
	}

	ctx := c.Request().Context()

	// Fast idempotency path: the reference is already recorded.
	if existing, err := h.BookingRepo.GetByPaymentRef(ctx, body.PaymentRef); err == nil {
		if existing.ID != body.BookingID {
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment_ref bound to another booking"})
		}
		return c.JSON(http.StatusOK, echo.Map{"id": existing.ID, "status": existing.Status, "replay": true})
	} else if err != repository.ErrBookingNotFound {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.BookingRepo.GetForUpdateTx(ctx, tx, body.BookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// A concurrent delivery of the same reference may have won the race
	// between the fast path and taking the row lock. That delivery is a
	// replay too, not a conflict.
	if depositReplayed(b, body.PaymentRef) {
		return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": b.Status, "replay": true})
	}
	if !model.CanTransition(b.Status, model.BookingDepositPaid) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "deposit cannot be recorded in current status",
			"status": b.Status,
		})
	}
	if body.AmountCents != b.DepositCents {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":    "amount mismatch",
			"expected": b.DepositCents,
		})
	}

	paidAt := time.Now().UTC()
	winStart, winEnd := model.WindowFor(paidAt)
	if err := h.BookingRepo.MarkDepositPaidTx(ctx, tx, b.ID, body.PaymentRef, winStart, winEnd); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment_ref bound to another booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Receipt email is best effort; the payment is already recorded.
	if email, err := h.Users.EmailByID(ctx, b.UserID); err == nil {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishEmail(bg, h.Cfg.AMQPURL, queue.EmailSendEvent{
			Recipient: email,
			Template:  queue.TemplateDepositReceipt,
			Subject:   "Your Triply deposit was received",
			Body: fmt.Sprintf("We received your deposit of %.2f for booking #%d. Your booking calendar is open until %s.",
				float64(b.DepositCents)/100, b.ID, winEnd.Format("2006-01-02")),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":             b.ID,
		"status":         model.BookingDepositPaid,
		"window_ends_at": winEnd.Format(time.RFC3339),
	})
}
