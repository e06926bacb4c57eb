package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-rental-booking/internal/handler"
	"github.com/iliyamo/vacation-rental-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT auth; the handler accepts either a
	// bearer access token or a refresh_token in the body.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "GUEST"))
	auth.GET("/me", a.Me)

	// Alias outside the auth group so a refresh token alone suffices.
	e.POST("/v1/logout", a.Logout)
}

// RegisterProperty registers the public listing endpoint. The property
// payload is static per deployment, so the Redis response cache is
// applied here and nowhere else: availability and booking reads must
// always hit the live store.
func RegisterProperty(e *echo.Echo, p *handler.PropertyHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/property", p.Get, cache)
		return
	}
	e.GET("/v1/property", p.Get)
}
