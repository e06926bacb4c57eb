package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-rental-booking/internal/booking"
	"github.com/iliyamo/vacation-rental-booking/internal/middleware"
	"github.com/iliyamo/vacation-rental-booking/internal/model"
	"github.com/iliyamo/vacation-rental-booking/internal/utils"
)

const testJWTSecret = "test-secret"

// newAdminApp wires the admin handler behind the same JWT and role
// middleware stack the server uses, alongside the public routes so
// tests can seed bookings.
func newAdminApp(engine *booking.Engine) *echo.Echo {
	e := newPublicApp(engine, nil)
	a := NewAdminHandler(engine)
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(testJWTSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/bookings", a.ListBookings)
	g.PATCH("/bookings/:id/status", a.UpdateBookingStatus)
	g.DELETE("/bookings/:id", a.CancelBooking)
	g.POST("/blocked-periods", a.AddBlockedPeriod)
	g.GET("/blocked-periods", a.ListBlockedPeriods)
	g.DELETE("/blocked-periods/:id", a.RemoveBlockedPeriod)
	return e
}

func doAdmin(t *testing.T, e *echo.Echo, method, target, body, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if role != "" {
		tok, err := utils.NewAccessToken(testJWTSecret, 1, role, 5)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	e := newAdminApp(newTestEngine())

	// No token at all.
	rec := doAdmin(t, e, http.MethodGet, "/v1/admin/blocked-periods", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	// Authenticated but not an admin.
	rec = doAdmin(t, e, http.MethodGet, "/v1/admin/blocked-periods", "", "GUEST")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("guest: status = %d, want 403", rec.Code)
	}

	rec = doAdmin(t, e, http.MethodGet, "/v1/admin/blocked-periods", "", "ADMIN")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", rec.Code)
	}
}

func TestAdminUpdateBookingStatus(t *testing.T) {
	e := newAdminApp(newTestEngine())

	if rec := doJSON(t, e, http.MethodPost, "/v1/bookings", draftJSON); rec.Code != http.StatusCreated {
		t.Fatalf("seed: status = %d", rec.Code)
	}

	rec := doAdmin(t, e, http.MethodPatch, "/v1/admin/bookings/1/status", `{"status":"confirmed"}`, "ADMIN")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: status = %d (%s)", rec.Code, rec.Body.String())
	}
	if b := decodeBody(t, rec)["booking"].(map[string]any); b["status"] != string(model.StatusConfirmed) {
		t.Fatalf("status = %v, want %s", b["status"], model.StatusConfirmed)
	}

	// confirmed -> pending is not a legal move.
	rec = doAdmin(t, e, http.MethodPatch, "/v1/admin/bookings/1/status", `{"status":"pending"}`, "ADMIN")
	if rec.Code != http.StatusConflict {
		t.Fatalf("confirmed->pending: status = %d, want 409", rec.Code)
	}

	// Unknown status values are a client error.
	rec = doAdmin(t, e, http.MethodPatch, "/v1/admin/bookings/1/status", `{"status":"archived"}`, "ADMIN")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: status = %d, want 400", rec.Code)
	}

	rec = doAdmin(t, e, http.MethodPatch, "/v1/admin/bookings/99/status", `{"status":"confirmed"}`, "ADMIN")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing booking: status = %d, want 404", rec.Code)
	}
}

func TestAdminCancelBookingFreesDates(t *testing.T) {
	e := newAdminApp(newTestEngine())

	if rec := doJSON(t, e, http.MethodPost, "/v1/bookings", draftJSON); rec.Code != http.StatusCreated {
		t.Fatalf("seed: status = %d", rec.Code)
	}

	rec := doAdmin(t, e, http.MethodDelete, "/v1/admin/bookings/1", "", "ADMIN")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d (%s)", rec.Code, rec.Body.String())
	}

	// Cancelling twice is rejected: cancelled is terminal.
	rec = doAdmin(t, e, http.MethodDelete, "/v1/admin/bookings/1", "", "ADMIN")
	if rec.Code != http.StatusConflict {
		t.Fatalf("double cancel: status = %d, want 409", rec.Code)
	}

	// The dates are bookable again.
	rec = doJSON(t, e, http.MethodGet, "/v1/availability?start_date=2024-06-10&end_date=2024-06-14", "")
	if body := decodeBody(t, rec); body["available"] != true {
		t.Fatalf("available = %v, want true after cancellation", body["available"])
	}

	// The cancelled booking is still visible in the admin list.
	rec = doAdmin(t, e, http.MethodGet, "/v1/admin/bookings", "", "ADMIN")
	items := decodeBody(t, rec)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if b := items[0].(map[string]any); b["status"] != string(model.StatusCancelled) {
		t.Fatalf("status = %v, want %s", b["status"], model.StatusCancelled)
	}
}

func TestAdminBlockedPeriods(t *testing.T) {
	e := newAdminApp(newTestEngine())

	rec := doAdmin(t, e, http.MethodPost, "/v1/admin/blocked-periods",
		`{"start_date":"2024-08-01","end_date":"2024-08-10","reason":"maintenance"}`, "ADMIN")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: status = %d (%s)", rec.Code, rec.Body.String())
	}

	// The blocked range now conflicts with overlapping candidates.
	rec = doJSON(t, e, http.MethodGet, "/v1/availability?start_date=2024-08-05&end_date=2024-08-12", "")
	if body := decodeBody(t, rec); body["available"] != false {
		t.Fatalf("available = %v, want false inside blocked period", body["available"])
	}

	rec = doAdmin(t, e, http.MethodGet, "/v1/admin/blocked-periods", "", "ADMIN")
	if items := decodeBody(t, rec)["items"].([]any); len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	rec = doAdmin(t, e, http.MethodDelete, "/v1/admin/blocked-periods/1", "", "ADMIN")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: status = %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/availability?start_date=2024-08-05&end_date=2024-08-12", "")
	if body := decodeBody(t, rec); body["available"] != true {
		t.Fatalf("available = %v, want true after removal", body["available"])
	}

	rec = doAdmin(t, e, http.MethodDelete, "/v1/admin/blocked-periods/1", "", "ADMIN")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("remove missing: status = %d, want 404", rec.Code)
	}

	rec = doAdmin(t, e, http.MethodPost, "/v1/admin/blocked-periods",
		`{"start_date":"2024-08-10","end_date":"2024-08-01"}`, "ADMIN")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reversed range: status = %d, want 400", rec.Code)
	}
}
