package router

import (
	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/handler"
	"github.com/triply/triply-backend/internal/middleware"
)

// RegisterCustomer registers the authenticated booking flow. Every
// signed-in role may hold bookings of its own, so RequireRole lists
// them all; ownership checks inside the handlers do the real work.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("USER", "AFFILIATE", "MERCHANT", "ADMIN"))

	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings/:id", h.GetBooking)
	g.POST("/bookings/:id/dates", h.SelectDates)
	g.DELETE("/bookings/:id", h.CancelBooking)
	g.GET("/my-bookings", h.ListBookings)
}

// RegisterPayments registers the payment provider webhook. It is not
// behind JWT; the shared webhook secret authenticates the caller.
func RegisterPayments(e *echo.Echo, h *handler.PaymentHandler) {
	e.POST("/v1/payments/deposit/webhook", h.DepositWebhook)
}
