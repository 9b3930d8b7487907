package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/config"
	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/queue"
	"github.com/triply/triply-backend/internal/repository"
	queue_publisher "github.com/triply/triply-backend/internal/service"
)

// AdminBookingHandler implements the admin's side of the booking flow:
// reviewing the queue of DATES_SELECTED bookings and confirming or
// rejecting them. Confirmation is where affiliate commissions are
// born, inside the same transaction as the status change.
type AdminBookingHandler struct {
	Cfg            config.Config
	BookingRepo    *repository.BookingRepo
	DestRepo       *repository.DestinationRepo
	AvailRepo      *repository.AvailabilityRepo
	AffiliateRepo  *repository.AffiliateRepo
	CommissionRepo *repository.CommissionRepo
	Users          *repository.UserRepo
}

func NewAdminBookingHandler(cfg config.Config, bookings *repository.BookingRepo, dests *repository.DestinationRepo, avail *repository.AvailabilityRepo, codes *repository.AffiliateRepo, commissions *repository.CommissionRepo, users *repository.UserRepo) *AdminBookingHandler {
	if bookings == nil || dests == nil || avail == nil || codes == nil || commissions == nil || users == nil {
		panic("nil repository passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{
		Cfg:            cfg,
		BookingRepo:    bookings,
		DestRepo:       dests,
		AvailRepo:      avail,
		AffiliateRepo:  codes,
		CommissionRepo: commissions,
		Users:          users,
	}
}

// List handles GET /v1/admin/bookings with ?status=, ?destination_id=
// and standard pagination.
func (h *AdminBookingHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	destID, _ := strconv.ParseUint(c.QueryParam("destination_id"), 10, 64)
	items, total, err := h.BookingRepo.ListAdmin(c.Request().Context(), repository.AdminBookingQuery{
		Status:        c.QueryParam("status"),
		DestinationID: destID,
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": total,
		"page":  page,
	})
}

// Confirm handles POST /v1/admin/bookings/:id/confirm. Only bookings
// in DATES_SELECTED can be confirmed. If the booking carries a
// referral, the commission row is created in the same transaction so
// a crash can never confirm without paying the affiliate. After the
// commit, a booking.confirmed event and a decision email go out best
// effort.
func (h *AdminBookingHandler) Confirm(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
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

	b, err := h.BookingRepo.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !model.CanTransition(b.Status, model.BookingConfirmed) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "booking cannot be confirmed in current status",
			"status": b.Status,
		})
	}

	var affiliateCode string
	var commissionCents uint32
	if b.AffiliateCodeID != nil {
		code, err := h.AffiliateRepo.GetByIDTx(ctx, tx, *b.AffiliateCodeID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load affiliate code"})
		}
		dest, err := h.DestRepo.GetByID(ctx, b.DestinationID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load destination"})
		}
		commissionCents = dest.CommissionCents(b.PartySize)
		commission := model.Commission{
			AffiliateID: code.AffiliateID,
			BookingID:   b.ID,
			CodeID:      code.ID,
			AmountCents: commissionCents,
		}
		if err := h.CommissionRepo.CreateTx(ctx, tx, &commission); err != nil && err != repository.ErrConflict {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create commission"})
		}
		affiliateCode = code.Code
	}

	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, model.BookingConfirmed); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.notifyDecision(b, affiliateCode, true)

	return c.JSON(http.StatusOK, echo.Map{
		"id":               b.ID,
		"status":           model.BookingConfirmed,
		"commission_cents": commissionCents,
	})
}

// Reject handles POST /v1/admin/bookings/:id/reject. The nights held
// by the stay are released in the same transaction.
func (h *AdminBookingHandler) Reject(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
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

	b, err := h.BookingRepo.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !model.CanTransition(b.Status, model.BookingRejected) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "booking cannot be rejected in current status",
			"status": b.Status,
		})
	}

	if b.StartDate != nil && b.EndDate != nil {
		dates := model.StayDates(*b.StartDate, *b.EndDate)
		if err := h.AvailRepo.ReleaseSlotsTx(ctx, tx, b.DestinationID, dates); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release slots"})
		}
	}
	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, model.BookingRejected); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.notifyDecision(b, "", false)

	return c.JSON(http.StatusOK, echo.Map{
		"id":     b.ID,
		"status": model.BookingRejected,
	})
}

// notifyDecision publishes the post-decision events. Failures are
// logged inside the publisher and otherwise ignored; the decision
// itself is already durable.
func (h *AdminBookingHandler) notifyDecision(b model.Booking, affiliateCode string, confirmed bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	email, err := h.Users.EmailByID(ctx, b.UserID)
	if err != nil {
		return
	}

	decision := "rejected"
	if confirmed {
		decision = "confirmed"
	}
	var startDate, endDate string
	if b.StartDate != nil && b.EndDate != nil {
		startDate = b.StartDate.UTC().Format("2006-01-02")
		endDate = b.EndDate.UTC().Format("2006-01-02")
	}

	if confirmed {
		dest, err := h.DestRepo.GetByID(ctx, b.DestinationID)
		if err == nil {
			_ = queue_publisher.PublishBookingConfirmed(ctx, h.Cfg.AMQPURL, queue.BookingConfirmedEvent{
				BookingID:       b.ID,
				UserID:          b.UserID,
				UserEmail:       email,
				DestinationID:   dest.ID,
				DestinationName: dest.Name,
				PartySize:       b.PartySize,
				StartDate:       startDate,
				EndDate:         endDate,
				DepositCents:    b.DepositCents,
				TotalPriceCents: b.TotalPriceCents,
				AffiliateCode:   affiliateCode,
				ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	_ = queue_publisher.PublishEmail(ctx, h.Cfg.AMQPURL, queue.EmailSendEvent{
		Recipient: email,
		Template:  queue.TemplateBookingDecision,
		Subject:   fmt.Sprintf("Your Triply booking #%d was %s", b.ID, decision),
		Body:      fmt.Sprintf("Booking #%d (%s to %s) has been %s.", b.ID, startDate, endDate, decision),
	})
}
