// Package router wires handlers and middleware onto the Echo instance.
// Each surface of the API (public, customer, affiliate, merchant,
// admin) gets its own registration function so main stays readable.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/handler"
	"github.com/triply/triply-backend/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication and no
// handler state. Currently that is only the health check, used by load
// balancers and uptime monitors.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login
// and the two refresh variants live under /v1/auth and require no
// session. Logout also requires no JWT middleware: it accepts either a
// bearer token (revoking the whole session family) or a refresh_token
// body (revoking just that token).
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	// /v1/me needs a valid access token but no particular role.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
