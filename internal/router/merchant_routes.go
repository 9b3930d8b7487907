package router

import (
	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/handler"
	"github.com/triply/triply-backend/internal/middleware"
)

// RegisterMerchant registers the merchant submission surface under
// /v1/merchant. Submissions land in PENDING and surface publicly only
// after admin approval.
func RegisterMerchant(e *echo.Echo, h *handler.ActivityHandler, jwtSecret string) {
	g := e.Group("/v1/merchant")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("MERCHANT", "ADMIN"))

	g.POST("/activities", h.Submit)
	g.PUT("/activities/:id", h.Update)
	g.GET("/activities", h.ListOwn)
}
