package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/repository"
)

// ActivityHandler covers the merchant submission flow and the admin
// moderation queue for destination activities.
type ActivityHandler struct {
	ActivityRepo *repository.ActivityRepo
	DestRepo     *repository.DestinationRepo
}

func NewActivityHandler(activities *repository.ActivityRepo, dests *repository.DestinationRepo) *ActivityHandler {
	if activities == nil || dests == nil {
		panic("nil repository passed to NewActivityHandler")
	}
	return &ActivityHandler{ActivityRepo: activities, DestRepo: dests}
}

type activityReq struct {
	DestinationID   uint64 `json:"destination_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	PriceCents      uint32 `json:"price_cents"`
	DurationMinutes uint32 `json:"duration_minutes"`
}

func (r activityReq) validate() string {
	switch {
	case r.DestinationID == 0:
		return "destination_id is required"
	case strings.TrimSpace(r.Title) == "":
		return "title is required"
	case r.PriceCents == 0:
		return "price_cents must be positive"
	}
	return ""
}

// Submit handles POST /v1/merchant/activities. New activities start in
// PENDING and stay invisible to the public until approved.
func (h *ActivityHandler) Submit(c echo.Context) error {
	merchantID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	if _, err := h.DestRepo.GetByID(ctx, req.DestinationID); err != nil {
		if err == repository.ErrDestinationNotFound {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "destination does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	a := model.Activity{
		MerchantID:      merchantID,
		DestinationID:   req.DestinationID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	}
	if err := h.ActivityRepo.Create(ctx, &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit activity"})
	}
	return c.JSON(http.StatusCreated, a)
}

// Update handles PUT /v1/merchant/activities/:id. Edits reset the
// activity to PENDING for re-moderation.
func (h *ActivityHandler) Update(c echo.Context) error {
	merchantID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	a := model.Activity{
		ID:              id,
		MerchantID:      merchantID,
		DestinationID:   req.DestinationID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	}
	if err := h.ActivityRepo.UpdateOwn(c.Request().Context(), &a); err != nil {
		switch err {
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your activity"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update activity"})
	}
	a.Status = model.ActivityPending
	return c.JSON(http.StatusOK, a)
}

// ListOwn handles GET /v1/merchant/activities.
func (h *ActivityHandler) ListOwn(c echo.Context) error {
	merchantID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.ActivityRepo.ListByMerchant(c.Request().Context(), merchantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// ListPending handles GET /v1/admin/activities/pending.
func (h *ActivityHandler) ListPending(c echo.Context) error {
	items, err := h.ActivityRepo.ListPending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

type moderateReq struct {
	Approve bool `json:"approve"`
}

// Moderate handles POST /v1/admin/activities/:id/moderate.
func (h *ActivityHandler) Moderate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	var req moderateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.ActivityRejected
	if req.Approve {
		status = model.ActivityApproved
	}
	if err := h.ActivityRepo.Moderate(c.Request().Context(), id, status); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to moderate activity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
