package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-rental-booking/internal/booking"
	"github.com/iliyamo/vacation-rental-booking/internal/model"
	"github.com/iliyamo/vacation-rental-booking/internal/payment"
	"github.com/iliyamo/vacation-rental-booking/internal/queue"
	queue_publisher "github.com/iliyamo/vacation-rental-booking/internal/service"
)

// BookingHandler exposes the public booking flow: availability checks,
// booking submission and payment. The availability engine is the sole
// gatekeeper before anything is persisted; this layer only translates
// HTTP to engine calls and engine errors back to HTTP.
type BookingHandler struct {
	Engine       *booking.Engine
	Processor    payment.Processor // nil when payment is not configured
	MaxPartySize int
}

// NewBookingHandler constructs a BookingHandler. The engine must be
// non-nil; the processor may be nil, which disables the pay endpoint.
func NewBookingHandler(engine *booking.Engine, processor payment.Processor, maxPartySize int) *BookingHandler {
	if engine == nil {
		panic("nil engine passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Processor: processor, MaxPartySize: maxPartySize}
}

// CheckAvailability handles GET /v1/availability?start_date=&end_date=.
// It returns {"available": bool} for a valid candidate range. An
// invalid range is a 400; a store failure is a 503 and is never
// reported as "not available".
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	start := c.QueryParam("start_date")
	end := c.QueryParam("end_date")
	available, err := h.Engine.CheckAvailability(c.Request().Context(), start, end)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"available":  available,
		"start_date": start,
		"end_date":   end,
	})
}

// CreateBooking handles POST /v1/bookings. The body is a booking draft
// (dates, guest details, party size); the total price is derived
// server-side from the configured nightly rate. On a date conflict it
// responds 409 before any write or payment action occurs.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var d booking.Draft
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if h.MaxPartySize > 0 && d.PartySize > h.MaxPartySize {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": fmt.Sprintf("the property sleeps at most %d guests", h.MaxPartySize),
		})
	}
	b, err := h.Engine.CreateBooking(c.Request().Context(), d)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.GetBooking(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// ListBookings handles GET /v1/bookings. Without query parameters it
// returns every booking ordered by ascending start date; with both
// start_date and end_date it returns only bookings intersecting that
// range under the same inclusive rule as the availability check.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	items, err := h.Engine.ListBookings(c.Request().Context(),
		c.QueryParam("start_date"), c.QueryParam("end_date"))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Pay handles POST /v1/bookings/:id/pay. It charges the booking's
// total price through the payment collaborator and, on success,
// transitions the booking from pending to confirmed and publishes a
// booking.confirmed event. Only pending bookings can be paid.
func (h *BookingHandler) Pay(c echo.Context) error {
	if h.Processor == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment is not configured"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()

	b, err := h.Engine.GetBooking(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	if b.Status != model.StatusPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not awaiting payment"})
	}

	result, err := h.Processor.Charge(ctx, b)
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment declined"})
		}
		log.Printf("payment: charge failed for booking %d: %v", b.ID, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment failed"})
	}

	confirmed, err := h.Engine.UpdateStatus(ctx, id, model.StatusConfirmed)
	if err != nil {
		// Funds are captured but the status write failed; surface the
		// error so operators can reconcile against the payment ref.
		log.Printf("payment: captured ref=%s but confirm failed for booking %d: %v", result.Reference, id, err)
		return bookingError(c, err)
	}

	ev := queue.BookingConfirmedEvent{
		BookingID:       confirmed.ID,
		GuestName:       confirmed.GuestName,
		GuestEmail:      confirmed.GuestEmail,
		StartDate:       confirmed.StartDate,
		EndDate:         confirmed.EndDate,
		PartySize:       confirmed.PartySize,
		TotalPriceCents: confirmed.TotalPriceCents,
		PaymentRef:      result.Reference,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	// Broker failures are logged inside the publisher and ignored here.
	go func() { _ = queue_publisher.PublishBookingConfirmed(context.Background(), ev) }()

	resp := echo.Map{
		"booking":     confirmed,
		"payment_ref": result.Reference,
	}
	if result.ClientSecret != "" {
		resp["client_secret"] = result.ClientSecret
	}
	return c.JSON(http.StatusOK, resp)
}
