package router

import (
	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/handler"
	"github.com/triply/triply-backend/internal/middleware"
)

// AdminHandlers bundles every handler that serves a /v1/admin route so
// RegisterAdmin does not grow a parameter per feature.
type AdminHandlers struct {
	Destinations *handler.AdminDestinationHandler
	Bookings     *handler.AdminBookingHandler
	Affiliates   *handler.AffiliateHandler
	Activities   *handler.ActivityHandler
	Messages     *handler.MessageHandler
}

// RegisterAdmin registers the back-office surface under /v1/admin.
// Everything here is ADMIN-only.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	// Destination catalogue and availability calendar.
	g.GET("/destinations", h.Destinations.List)
	g.POST("/destinations", h.Destinations.Create)
	g.PUT("/destinations/:id", h.Destinations.Update)
	g.DELETE("/destinations/:id", h.Destinations.Deactivate)
	g.PUT("/destinations/:id/availability", h.Destinations.UpsertAvailability)
	g.POST("/destinations/:id/block", h.Destinations.BlockDates)

	// Booking review queue.
	g.GET("/bookings", h.Bookings.List)
	g.POST("/bookings/:id/confirm", h.Bookings.Confirm)
	g.POST("/bookings/:id/reject", h.Bookings.Reject)

	// Commission payouts.
	g.GET("/commissions", h.Affiliates.AdminListCommissions)
	g.POST("/commissions/:id/pay", h.Affiliates.MarkCommissionPaid)

	// Activity moderation.
	g.GET("/activities/pending", h.Activities.ListPending)
	g.POST("/activities/:id/moderate", h.Activities.Moderate)

	// Contact inbox and the email audit trail.
	g.GET("/messages", h.Messages.List)
	g.POST("/messages/:id/read", h.Messages.MarkRead)
	g.POST("/messages/:id/reply", h.Messages.Reply)
	g.GET("/email-logs", h.Messages.ListEmailLogs)

	// Localized content management.
	g.PUT("/translations", h.Destinations.UpsertTranslation)
	g.DELETE("/translations", h.Destinations.DeleteTranslation)
}
