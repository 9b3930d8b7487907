package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/repository"
)

// AdminDestinationHandler manages the destination catalogue and its
// availability calendar. All routes require the ADMIN role.
type AdminDestinationHandler struct {
	DestRepo  *repository.DestinationRepo
	AvailRepo *repository.AvailabilityRepo
	TransRepo *repository.TranslationRepo
}

func NewAdminDestinationHandler(dests *repository.DestinationRepo, avail *repository.AvailabilityRepo, trans *repository.TranslationRepo) *AdminDestinationHandler {
	if dests == nil || avail == nil || trans == nil {
		panic("nil repository passed to NewAdminDestinationHandler")
	}
	return &AdminDestinationHandler{DestRepo: dests, AvailRepo: avail, TransRepo: trans}
}

type destinationReq struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Country         string `json:"country"`
	Description     string `json:"description"`
	DepositCents    uint32 `json:"deposit_cents"`
	TotalPriceCents uint32 `json:"total_price_cents"`
	DefaultCapacity uint32 `json:"default_capacity"`
	CommissionBps   uint32 `json:"commission_bps"`
	IsActive        *bool  `json:"is_active"`
}

func (r destinationReq) validate() string {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return "name is required"
	case strings.TrimSpace(r.Slug) == "":
		return "slug is required"
	case r.DepositCents == 0:
		return "deposit_cents must be positive"
	case r.TotalPriceCents < r.DepositCents:
		return "total_price_cents must be at least deposit_cents"
	case r.CommissionBps > 10000:
		return "commission_bps must not exceed 10000"
	}
	return ""
}

// Create handles POST /v1/admin/destinations.
func (h *AdminDestinationHandler) Create(c echo.Context) error {
	var req destinationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	d := model.Destination{
		Name:            strings.TrimSpace(req.Name),
		Slug:            strings.ToLower(strings.TrimSpace(req.Slug)),
		Country:         strings.TrimSpace(req.Country),
		Description:     req.Description,
		DepositCents:    req.DepositCents,
		TotalPriceCents: req.TotalPriceCents,
		DefaultCapacity: req.DefaultCapacity,
		CommissionBps:   req.CommissionBps,
		IsActive:        true,
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	if err := h.DestRepo.Create(c.Request().Context(), &d); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create destination"})
	}
	return c.JSON(http.StatusCreated, d)
}

// Update handles PUT /v1/admin/destinations/:id. The full record is
// replaced; partial updates go through the same endpoint with the
// current values filled in.
func (h *AdminDestinationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}
	var req destinationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	d, err := h.DestRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrDestinationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	d.Name = strings.TrimSpace(req.Name)
	d.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	d.Country = strings.TrimSpace(req.Country)
	d.Description = req.Description
	d.DepositCents = req.DepositCents
	d.TotalPriceCents = req.TotalPriceCents
	d.DefaultCapacity = req.DefaultCapacity
	d.CommissionBps = req.CommissionBps
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	if err := h.DestRepo.Update(ctx, &d); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update destination"})
	}
	return c.JSON(http.StatusOK, d)
}

// Deactivate handles DELETE /v1/admin/destinations/:id. Destinations
// are never hard-deleted; bookings keep referencing them.
func (h *AdminDestinationHandler) Deactivate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}
	if err := h.DestRepo.Deactivate(c.Request().Context(), id); err != nil {
		if err == repository.ErrDestinationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate destination"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": false})
}

// List handles GET /v1/admin/destinations, including inactive rows.
func (h *AdminDestinationHandler) List(c echo.Context) error {
	items, err := h.DestRepo.ListAdmin(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

type availabilityUpsertReq struct {
	Entries []availabilityEntryReq `json:"entries"`
	// Range seeding: when From/To are set, every date in [from, to]
	// gets Slots (default the destination's capacity).
	From  string  `json:"from"`
	To    string  `json:"to"`
	Slots *uint32 `json:"slots"`
}

type availabilityEntryReq struct {
	Date           string `json:"date"`
	AvailableSlots uint32 `json:"available_slots"`
	IsBlocked      bool   `json:"is_blocked"`
}

// UpsertAvailability handles PUT /v1/admin/destinations/:id/availability.
// The body either lists explicit per-date entries or a from/to range to
// seed with a uniform slot count. Capacity never drops below slots
// already booked.
func (h *AdminDestinationHandler) UpsertAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}
	var req availabilityUpsertReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	dest, err := h.DestRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrDestinationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var entries []repository.UpsertEntry
	touchBlocked := false
	switch {
	case len(req.Entries) > 0:
		touchBlocked = true
		entries = make([]repository.UpsertEntry, 0, len(req.Entries))
		for _, e := range req.Entries {
			d, err := parseDate(e.Date)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date: " + e.Date})
			}
			entries = append(entries, repository.UpsertEntry{
				Date:           d,
				AvailableSlots: e.AvailableSlots,
				IsBlocked:      e.IsBlocked,
			})
		}
	case req.From != "" && req.To != "":
		from, err := parseDate(req.From)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		to, err := parseDate(req.To)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		if to.Before(from) || to.Sub(from) > 366*24*time.Hour {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "range must be ascending and at most one year"})
		}
		slots := dest.DefaultCapacity
		if req.Slots != nil {
			slots = *req.Slots
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			entries = append(entries, repository.UpsertEntry{Date: d, AvailableSlots: slots})
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide entries or a from/to range"})
	}

	if err := h.AvailRepo.BulkUpsert(ctx, id, entries, touchBlocked); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to write availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{"destination_id": id, "dates": len(entries)})
}

type blockDatesReq struct {
	Dates   []string `json:"dates"`
	Blocked bool     `json:"blocked"`
}

// BlockDates handles POST /v1/admin/destinations/:id/block. Blocked
// dates stop accepting new stays; existing bookings are untouched and
// must be handled through the booking endpoints.
func (h *AdminDestinationHandler) BlockDates(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}
	var req blockDatesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Dates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates is required"})
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, s := range req.Dates {
		d, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date: " + s})
		}
		dates = append(dates, d)
	}

	updated, err := h.AvailRepo.SetBlocked(c.Request().Context(), id, dates, req.Blocked)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update dates"})
	}
	return c.JSON(http.StatusOK, echo.Map{"destination_id": id, "updated": updated, "blocked": req.Blocked})
}

type translationReq struct {
	Locale    string `json:"locale"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// UpsertTranslation handles PUT /v1/admin/translations.
func (h *AdminDestinationHandler) UpsertTranslation(c echo.Context) error {
	var req translationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Locale == "" || req.Namespace == "" || req.Key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locale, namespace and key are required"})
	}
	t := model.Translation{
		Locale:    repository.NormalizeLocale(req.Locale),
		Namespace: req.Namespace,
		Key:       req.Key,
		Value:     req.Value,
	}
	if err := h.TransRepo.Upsert(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save translation"})
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTranslation handles DELETE /v1/admin/translations; the target
// is identified by locale, namespace and key query params.
func (h *AdminDestinationHandler) DeleteTranslation(c echo.Context) error {
	locale := c.QueryParam("locale")
	ns := c.QueryParam("namespace")
	key := c.QueryParam("key")
	if locale == "" || ns == "" || key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locale, namespace and key are required"})
	}
	if err := h.TransRepo.Delete(c.Request().Context(), repository.NormalizeLocale(locale), ns, key); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete translation"})
	}
	return c.NoContent(http.StatusNoContent)
}
