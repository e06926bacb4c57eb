package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-rental-booking/internal/handler"
	"github.com/iliyamo/vacation-rental-booking/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Bookings ----
	g.GET("/bookings", a.ListBookings)
	g.PATCH("/bookings/:id/status", a.UpdateBookingStatus)
	g.DELETE("/bookings/:id", a.CancelBooking)

	// ---- Blocked periods ----
	g.POST("/blocked-periods", a.AddBlockedPeriod)
	g.GET("/blocked-periods", a.ListBlockedPeriods)
	g.DELETE("/blocked-periods/:id", a.RemoveBlockedPeriod)
}
