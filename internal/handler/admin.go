package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-rental-booking/internal/booking"
	"github.com/iliyamo/vacation-rental-booking/internal/model"
)

// AdminHandler groups the host-only operations: managing booking
// statuses and maintaining blocked periods. Routes using it must sit
// behind JWT auth plus the ADMIN role middleware.
type AdminHandler struct {
	Engine *booking.Engine
}

func NewAdminHandler(engine *booking.Engine) *AdminHandler {
	if engine == nil {
		panic("nil engine passed to NewAdminHandler")
	}
	return &AdminHandler{Engine: engine}
}

// ListBookings handles GET /v1/admin/bookings with the same optional
// range filter as the public list. Separated so hosts keep access to
// the full calendar even if the public list is ever narrowed.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	items, err := h.Engine.ListBookings(c.Request().Context(),
		c.QueryParam("start_date"), c.QueryParam("end_date"))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PATCH /v1/admin/bookings/:id/status.
// Legal moves are pending->confirmed, pending->cancelled and
// confirmed->cancelled; anything else is rejected with 409.
func (h *AdminHandler) UpdateBookingStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target := model.Status(req.Status)
	if !target.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	b, err := h.Engine.UpdateStatus(c.Request().Context(), id, target)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// CancelBooking handles DELETE /v1/admin/bookings/:id. Cancelling
// frees the booking's dates for new reservations; a booking that is
// already cancelled stays cancelled and the request is rejected.
func (h *AdminHandler) CancelBooking(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

type blockedPeriodRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason"`
}

// AddBlockedPeriod handles POST /v1/admin/blocked-periods. A blocked
// period makes its date range unavailable exactly like an active
// booking would, but carries no guest or price information.
func (h *AdminHandler) AddBlockedPeriod(c echo.Context) error {
	var req blockedPeriodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p, err := h.Engine.AddBlockedPeriod(c.Request().Context(), req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"blocked_period": p})
}

// ListBlockedPeriods handles GET /v1/admin/blocked-periods.
func (h *AdminHandler) ListBlockedPeriods(c echo.Context) error {
	items, err := h.Engine.ListBlockedPeriods(c.Request().Context())
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// RemoveBlockedPeriod handles DELETE /v1/admin/blocked-periods/:id.
func (h *AdminHandler) RemoveBlockedPeriod(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blocked period id"})
	}
	if err := h.Engine.RemoveBlockedPeriod(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "blocked period removed"})
}
