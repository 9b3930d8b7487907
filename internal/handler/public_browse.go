// Package handler exposes HTTP handlers for both authenticated and
// public endpoints. This file defines the public browsing API: guests
// can list and search destinations, inspect availability calendars,
// view approved activities and fetch translation bundles without
// authentication. Sensitive fields (capacity defaults, commission
// rates, inactive rows) are filtered from responses.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing. It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
	DestRepo     *repository.DestinationRepo
	AvailRepo    *repository.AvailabilityRepo
	ActivityRepo *repository.ActivityRepo
	TransRepo    *repository.TranslationRepo
}

// localize overwrites a destination row's name and description with
// translated values when the requested locale has them. Missing keys
// leave the base (English) row untouched.
func (h *PublicHandler) localize(c echo.Context, row *repository.PublicDestinationRow) {
	locale := repository.NormalizeLocale(c.Request().Header.Get("Accept-Language"))
	if locale == model.DefaultLocale {
		return
	}
	ctx := c.Request().Context()
	if v, ok, err := h.TransRepo.Lookup(ctx, locale, "destinations", row.Slug+".name"); err == nil && ok {
		row.Name = v
	}
	if v, ok, err := h.TransRepo.Lookup(ctx, locale, "destinations", row.Slug+".description"); err == nil && ok {
		row.Description = v
	}
}

// SearchDestinations handles GET /v1/destinations. Supports ?q= text
// search, ?country= filter and standard pagination.
func (h *PublicHandler) SearchDestinations(c echo.Context) error {
	page, pageSize := pageParams(c)
	q := repository.DestinationSearchQuery{
		Text:     c.QueryParam("q"),
		Country:  c.QueryParam("country"),
		Page:     page,
		PageSize: pageSize,
	}
	items, total, err := h.DestRepo.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	for i := range items {
		h.localize(c, &items[i])
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": total,
		"page":  page,
	})
}

// GetDestination handles GET /v1/destinations/:slug for public detail
// pages. A numeric value is treated as a destination id. The response
// embeds the destination's approved activities.
func (h *PublicHandler) GetDestination(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	var d model.Destination
	var err error
	if id, convErr := strconv.ParseUint(slug, 10, 64); convErr == nil && id > 0 {
		d, err = h.DestRepo.GetByID(ctx, id)
		if err == nil && !d.IsActive {
			err = repository.ErrDestinationNotFound
		}
	} else {
		d, err = h.DestRepo.GetActiveBySlug(ctx, slug)
	}
	if err != nil {
		if err == repository.ErrDestinationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	row := repository.PublicDestinationRow{
		ID:           d.ID,
		Name:         d.Name,
		Slug:         d.Slug,
		Country:      d.Country,
		Description:  d.Description,
		DepositCents: d.DepositCents,
		Deposit:      float64(d.DepositCents) / 100,
		PriceCents:   d.TotalPriceCents,
		Price:        float64(d.TotalPriceCents) / 100,
	}
	h.localize(c, &row)

	activities, err := h.ActivityRepo.ListApprovedByDestination(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	acts := make([]publicActivity, 0, len(activities))
	for _, a := range activities {
		acts = append(acts, publicActivity{
			ID:              a.ID,
			Title:           a.Title,
			Description:     a.Description,
			PriceCents:      a.PriceCents,
			DurationMinutes: a.DurationMinutes,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"destination": row,
		"activities":  acts,
	})
}

// publicActivity is the sanitized activity shape: merchant identity
// and moderation state are not exposed.
type publicActivity struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	PriceCents      uint32 `json:"price_cents"`
	DurationMinutes uint32 `json:"duration_minutes"`
}

// calendarDay is one date of the public availability calendar.
type calendarDay struct {
	Date      string `json:"date"`
	SlotsLeft uint32 `json:"slots_left"`
	IsBlocked bool   `json:"is_blocked"`
}

// GetCalendar handles GET /v1/destinations/:slug/calendar?month=YYYY-MM.
// The path accepts a slug or a numeric id. It returns the availability
// rows of one calendar month; dates without a row have no capacity and
// are omitted.
func (h *PublicHandler) GetCalendar(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	var d model.Destination
	var err error
	if id, convErr := strconv.ParseUint(slug, 10, 64); convErr == nil && id > 0 {
		d, err = h.DestRepo.GetByID(ctx, id)
		if err == nil && !d.IsActive {
			err = repository.ErrDestinationNotFound
		}
	} else {
		d, err = h.DestRepo.GetActiveBySlug(ctx, slug)
	}
	if err != nil {
		if err == repository.ErrDestinationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	id := d.ID

	month := c.QueryParam("month")
	from, err := time.Parse("2006-01", month)
	if err != nil {
		// default to the current month
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	to := from.AddDate(0, 1, -1)

	rows, err := h.AvailRepo.Calendar(ctx, id, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	days := make([]calendarDay, 0, len(rows))
	for _, a := range rows {
		days = append(days, calendarDay{
			Date:      a.Date.UTC().Format("2006-01-02"),
			SlotsLeft: a.SlotsLeft(),
			IsBlocked: a.IsBlocked,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"month": from.Format("2006-01"),
		"days":  days,
	})
}

// GetTranslations handles GET /v1/translations/:locale/:ns and returns
// an entire namespace as a flat key/value map. Served through the
// response cache.
func (h *PublicHandler) GetTranslations(c echo.Context) error {
	locale := c.Param("locale")
	ns := c.Param("ns")
	if locale == "" || ns == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locale and namespace required"})
	}
	out, err := h.TransRepo.Namespace(c.Request().Context(), locale, ns)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"locale":    repository.NormalizeLocale(locale),
		"namespace": ns,
		"messages":  out,
	})
}
