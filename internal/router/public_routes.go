package router

import (
	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/handler"
)

// RegisterPublic registers the unauthenticated browse surface:
// destination search, destination detail with approved activities, the
// availability calendar, translation bundles and the contact form.
// These are the routes the response cache and the anonymous rate
// limiter are aimed at; both are applied globally in main.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, m *handler.MessageHandler) {
	e.GET("/v1/destinations", p.SearchDestinations)
	e.GET("/v1/destinations/:slug", p.GetDestination)
	e.GET("/v1/destinations/:slug/calendar", p.GetCalendar)
	e.GET("/v1/translations/:locale/:ns", p.GetTranslations)
	e.POST("/v1/messages", m.Create)
}
