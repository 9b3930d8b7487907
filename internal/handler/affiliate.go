package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/repository"
)

// AffiliateHandler serves the affiliate portal (referral codes and
// commission statements) plus the admin payout endpoints.
type AffiliateHandler struct {
	AffiliateRepo  *repository.AffiliateRepo
	CommissionRepo *repository.CommissionRepo
}

func NewAffiliateHandler(codes *repository.AffiliateRepo, commissions *repository.CommissionRepo) *AffiliateHandler {
	if codes == nil || commissions == nil {
		panic("nil repository passed to NewAffiliateHandler")
	}
	return &AffiliateHandler{AffiliateRepo: codes, CommissionRepo: commissions}
}

type createCodeReq struct {
	Prefix string `json:"prefix"`
}

// CreateCode handles POST /v1/affiliate/codes. The optional prefix is
// folded into the generated code ("SUMMER-AB12CD34EF").
func (h *AffiliateHandler) CreateCode(c echo.Context) error {
	affiliateID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	prefix := strings.ToUpper(strings.TrimSpace(req.Prefix))
	if len(prefix) > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prefix must be at most 12 characters"})
	}

	code, err := h.AffiliateRepo.CreateCode(c.Request().Context(), affiliateID, prefix)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create code"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":        code.ID,
		"code":      code.Code,
		"is_active": code.IsActive,
	})
}

// ListCodes handles GET /v1/affiliate/codes.
func (h *AffiliateHandler) ListCodes(c echo.Context) error {
	affiliateID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	codes, err := h.AffiliateRepo.ListByAffiliate(c.Request().Context(), affiliateID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": codes, "total": len(codes)})
}

// DeactivateCode handles DELETE /v1/affiliate/codes/:id. Only the
// owning affiliate may deactivate a code; commissions already earned
// through it are unaffected.
func (h *AffiliateHandler) DeactivateCode(c echo.Context) error {
	affiliateID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	codeID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid code id"})
	}
	if err := h.AffiliateRepo.Deactivate(c.Request().Context(), codeID, affiliateID); err != nil {
		switch err {
		case repository.ErrCodeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "code not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate code"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": codeID, "is_active": false})
}

// ListCommissions handles GET /v1/affiliate/commissions.
func (h *AffiliateHandler) ListCommissions(c echo.Context) error {
	affiliateID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.CommissionRepo.ListByAffiliate(c.Request().Context(), affiliateID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// Stats handles GET /v1/affiliate/stats with lifetime totals.
func (h *AffiliateHandler) Stats(c echo.Context) error {
	affiliateID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.CommissionRepo.Summarize(c.Request().Context(), affiliateID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, s)
}

// AdminListCommissions handles GET /v1/admin/commissions with optional
// ?status= and ?affiliate_id= filters.
func (h *AffiliateHandler) AdminListCommissions(c echo.Context) error {
	affiliateID, _ := strconv.ParseUint(c.QueryParam("affiliate_id"), 10, 64)
	items, err := h.CommissionRepo.ListAdmin(c.Request().Context(), c.QueryParam("status"), affiliateID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// MarkCommissionPaid handles POST /v1/admin/commissions/:id/pay.
// Only EARNED commissions can be settled.
func (h *AffiliateHandler) MarkCommissionPaid(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid commission id"})
	}
	if err := h.CommissionRepo.MarkPaid(c.Request().Context(), id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusConflict, echo.Map{"error": "commission not found or not payable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark commission paid"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": "PAID"})
}
