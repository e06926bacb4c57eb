package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-rental-booking/internal/handler"
)

// RegisterBooking registers the public booking flow under /v1. No auth
// is required: guests check availability and submit bookings before
// they have an account. Every availability answer is computed against
// the live store on each request.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler) {
	e.GET("/v1/availability", b.CheckAvailability)

	e.POST("/v1/bookings", b.CreateBooking)
	e.GET("/v1/bookings", b.ListBookings)
	e.GET("/v1/bookings/:id", b.GetBooking)
	e.POST("/v1/bookings/:id/pay", b.Pay)
}
