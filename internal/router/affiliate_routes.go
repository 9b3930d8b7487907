package router

import (
	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/handler"
	"github.com/triply/triply-backend/internal/middleware"
)

// RegisterAffiliate registers the affiliate portal under /v1/affiliate.
// Admins are allowed through as well so support can inspect a portal
// on behalf of an affiliate.
func RegisterAffiliate(e *echo.Echo, h *handler.AffiliateHandler, jwtSecret string) {
	g := e.Group("/v1/affiliate")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("AFFILIATE", "ADMIN"))

	g.POST("/codes", h.CreateCode)
	g.GET("/codes", h.ListCodes)
	g.DELETE("/codes/:id", h.DeactivateCode)
	g.GET("/commissions", h.ListCommissions)
	g.GET("/stats", h.Stats)
}
