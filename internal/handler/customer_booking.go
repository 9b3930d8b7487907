package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/config"
	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/repository"
)

// CustomerHandler groups repositories required to create bookings,
// select travel dates and cancel on behalf of customers. All methods
// assume that JWT authentication and role validation has already been
// performed by middleware. Each method runs critical DB operations
// inside a transaction so booking state and availability counters
// always move together.
type CustomerHandler struct {
	Cfg            config.Config
	BookingRepo    *repository.BookingRepo
	DestRepo       *repository.DestinationRepo
	AvailRepo      *repository.AvailabilityRepo
	AffiliateRepo  *repository.AffiliateRepo
	CommissionRepo *repository.CommissionRepo
}

// NewCustomerHandler constructs a new CustomerHandler with the
// provided repositories. All dependencies must be non-nil.
func NewCustomerHandler(cfg config.Config, bookings *repository.BookingRepo, dests *repository.DestinationRepo, avail *repository.AvailabilityRepo, codes *repository.AffiliateRepo, commissions *repository.CommissionRepo) *CustomerHandler {
	if bookings == nil || dests == nil || avail == nil || codes == nil || commissions == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{
		Cfg:            cfg,
		BookingRepo:    bookings,
		DestRepo:       dests,
		AvailRepo:      avail,
		AffiliateRepo:  codes,
		CommissionRepo: commissions,
	}
}

// CreateBooking handles POST /v1/bookings. The customer reserves a
// destination by committing to its fixed deposit; travel dates come
// later, once the deposit is paid. An optional referral code links the
// booking to an affiliate. Deposit and price are captured from the
// destination at creation so later price changes never affect an open
// booking.
func (h *CustomerHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		DestinationID uint64 `json:"destination_id"`
		PartySize     uint32 `json:"party_size"`
		AffiliateCode string `json:"affiliate_code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.DestinationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "destination_id is required"})
	}
	if body.PartySize == 0 {
		body.PartySize = 1
	}
	if body.PartySize > 20 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size too large"})
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

	dest, err := h.DestRepo.GetActiveByIDTx(ctx, tx, body.DestinationID)
	if err != nil {
		if err == repository.ErrDestinationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	b := model.Booking{
		UserID:          userID,
		DestinationID:   dest.ID,
		PartySize:       body.PartySize,
		Status:          model.BookingPendingDeposit,
		DepositCents:    dest.DepositCents,
		TotalPriceCents: dest.TotalPriceCents,
	}
	if body.AffiliateCode != "" {
		code, err := h.AffiliateRepo.ResolveActiveTx(ctx, tx, body.AffiliateCode)
		if err != nil {
			if err == repository.ErrCodeNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid affiliate code"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		b.AffiliateCodeID = &code.ID
	}

	if err := h.BookingRepo.CreateTx(ctx, tx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"id":            b.ID,
		"status":        b.Status,
		"deposit_cents": b.DepositCents,
	})
}

// SelectDates handles POST /v1/bookings/:id/dates. The customer picks
// a stay [start_date, end_date) inside the 365-day window opened by
// the deposit. One slot per night is claimed with conditional updates;
// losing the race for any night rolls everything back. Re-selecting
// while DATES_SELECTED first releases the previously held nights.
func (h *CustomerHandler) SelectDates(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := parseDate(body.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	end, err := parseDate(body.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}
	nights := model.Nights(start, end)
	if nights < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be after start_date"})
	}
	if nights > 60 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stay too long"})
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
	if b.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !model.CanTransition(b.Status, model.BookingDatesSelected) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "dates cannot be selected in current status",
			"status": b.Status,
		})
	}
	if !b.InWindow(start, end) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "dates outside booking window"})
	}

	// Give back previously held nights before claiming the new ones.
	if b.Status == model.BookingDatesSelected && b.StartDate != nil && b.EndDate != nil {
		old := model.StayDates(*b.StartDate, *b.EndDate)
		if err := h.AvailRepo.ReleaseSlotsTx(ctx, tx, b.DestinationID, old); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release previous dates"})
		}
	}

	if err := h.AvailRepo.ConsumeSlotsTx(ctx, tx, b.DestinationID, model.StayDates(start, end)); err != nil {
		if err == repository.ErrSlotsUnavailable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more dates are unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to claim slots"})
	}
	if err := h.BookingRepo.SetDatesTx(ctx, tx, b.ID, start, end); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store dates"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{
		"id":         b.ID,
		"status":     model.BookingDatesSelected,
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
		"nights":     nights,
	})
}

// CancelBooking handles DELETE /v1/bookings/:id. Customers may cancel
// any of their non-terminal bookings; nights held by a selected stay
// are released and an unpaid commission, if one exists, is cancelled.
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
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
	if b.UserID != userID {
		// Admins may cancel on a customer's behalf.
		if role, _ := c.Get("role").(string); role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	if !model.CanTransition(b.Status, model.BookingCancelled) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "booking cannot be cancelled in current status",
			"status": b.Status,
		})
	}

	if b.StartDate != nil && b.EndDate != nil {
		dates := model.StayDates(*b.StartDate, *b.EndDate)
		if err := h.AvailRepo.ReleaseSlotsTx(ctx, tx, b.DestinationID, dates); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release slots"})
		}
	}
	if err := h.CommissionRepo.CancelForBookingTx(ctx, tx, b.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel commission"})
	}
	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, model.BookingCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{
		"id":     b.ID,
		"status": model.BookingCancelled,
	})
}

// ListBookings handles GET /v1/my-bookings and returns all bookings of
// the current customer with destination details, newest first.
func (h *CustomerHandler) ListBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id for the owning customer.
func (h *CustomerHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.BookingRepo.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	resp := echo.Map{
		"id":                b.ID,
		"destination_id":    b.DestinationID,
		"party_size":        b.PartySize,
		"status":            b.Status,
		"deposit_cents":     b.DepositCents,
		"total_price_cents": b.TotalPriceCents,
	}
	if b.WindowEndsAt != nil {
		resp["window_ends_at"] = b.WindowEndsAt.UTC().Format(time.RFC3339)
	}
	if b.StartDate != nil && b.EndDate != nil {
		resp["start_date"] = b.StartDate.UTC().Format("2006-01-02")
		resp["end_date"] = b.EndDate.UTC().Format("2006-01-02")
	}
	return c.JSON(http.StatusOK, resp)
}
