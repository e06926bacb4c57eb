package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/iliyamo/vacation-rental-booking/internal/model"
)

// BookingStore is the durable record of bookings. The engine owns no
// state of its own; every check re-reads current store contents.
// GetByID returns sql.ErrNoRows when no booking with the id exists.
// CountOverlapping must exclude cancelled bookings and apply the same
// inclusive-boundary rule as Overlaps. UpdateStatus changes the status
// only when the current value still equals from, and reports the
// number of rows updated so callers can detect concurrent changes.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	List(ctx context.Context, startDate, endDate string) ([]model.Booking, error)
	CountOverlapping(ctx context.Context, startDate, endDate string) (int, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.Status) (int64, error)
}

// BlockedPeriodStore is the durable record of administrator-blocked
// date ranges. Blocked periods have no status; existence alone blocks.
type BlockedPeriodStore interface {
	Create(ctx context.Context, p *model.BlockedPeriod) error
	List(ctx context.Context) ([]model.BlockedPeriod, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	CountOverlapping(ctx context.Context, startDate, endDate string) (int, error)
}

// Draft is a fully-formed booking request as collected by the
// presentation layer. The total price is not part of the draft; the
// engine derives it from the configured nightly rate.
type Draft struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	GuestName  string  `json:"guest_name"`
	GuestEmail string  `json:"guest_email"`
	GuestPhone *string `json:"guest_phone,omitempty"`
	PartySize  int     `json:"party_size"`
}

// Engine decides, for a candidate date range, whether a new booking
// may be created, and is the sole gatekeeper invoked before a booking
// is persisted. Store handles are injected at construction; their
// lifecycle is owned by the process entry point.
type Engine struct {
	bookings BookingStore
	blocked  BlockedPeriodStore

	nightlyRateCents int64

	// createMu serializes booking creation so that two concurrent
	// candidates for overlapping ranges cannot both pass the
	// availability check before either writes.
	createMu sync.Mutex
}

// NewEngine constructs an Engine. All dependencies must be non-nil and
// the nightly rate must be positive.
func NewEngine(bookings BookingStore, blocked BlockedPeriodStore, nightlyRateCents int64) *Engine {
	if bookings == nil || blocked == nil {
		panic("nil store passed to NewEngine")
	}
	if nightlyRateCents <= 0 {
		panic("non-positive nightly rate passed to NewEngine")
	}
	return &Engine{
		bookings:         bookings,
		blocked:          blocked,
		nightlyRateCents: nightlyRateCents,
	}
}

// CheckAvailability reports whether the candidate range conflicts with
// any non-cancelled booking or any blocked period. It returns true
// only when zero overlaps are found in either set. The check is
// read-only and performs no retries; retry policy belongs to the
// caller, and a failed check must never be conflated with "not
// available".
func (e *Engine) CheckAvailability(ctx context.Context, startDate, endDate string) (bool, error) {
	if err := ValidateRange(startDate, endDate); err != nil {
		return false, err
	}
	nBookings, err := e.bookings.CountOverlapping(ctx, startDate, endDate)
	if err != nil {
		return false, fmt.Errorf("%w: counting bookings: %v", ErrStoreUnavailable, err)
	}
	nBlocked, err := e.blocked.CountOverlapping(ctx, startDate, endDate)
	if err != nil {
		return false, fmt.Errorf("%w: counting blocked periods: %v", ErrStoreUnavailable, err)
	}
	return nBookings == 0 && nBlocked == 0, nil
}

// CreateBooking validates the draft, checks availability and persists
// a new booking in pending status. On a date conflict it returns
// ErrConflict before any write or payment action occurs. Creation
// attempts are serialized through a single mutex so the check-then-
// write pair acts as one unit inside this process.
func (e *Engine) CreateBooking(ctx context.Context, d Draft) (*model.Booking, error) {
	if err := validateDraft(&d); err != nil {
		return nil, err
	}
	if err := ValidateRange(d.StartDate, d.EndDate); err != nil {
		return nil, err
	}

	e.createMu.Lock()
	defer e.createMu.Unlock()

	available, err := e.CheckAvailability(ctx, d.StartDate, d.EndDate)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrConflict
	}

	nights := Nights(d.StartDate, d.EndDate)
	b := &model.Booking{
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		GuestName:       d.GuestName,
		GuestEmail:      d.GuestEmail,
		GuestPhone:      d.GuestPhone,
		PartySize:       d.PartySize,
		TotalPriceCents: int64(nights) * e.nightlyRateCents,
		Status:          model.StatusPending,
	}
	if err := e.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("%w: creating booking: %v", ErrStoreUnavailable, err)
	}
	return b, nil
}

// GetBooking loads a single booking by id.
func (e *Engine) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := e.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading booking: %v", ErrStoreUnavailable, err)
	}
	return b, nil
}

// ListBookings returns bookings ordered by ascending start date. With
// both bounds empty it returns every booking; with both set it returns
// only bookings whose range intersects the filter under the same
// inclusive-boundary rule as CheckAvailability. Supplying exactly one
// bound is a caller error. Repeated calls with unchanged store state
// return identical results.
func (e *Engine) ListBookings(ctx context.Context, startDate, endDate string) ([]model.Booking, error) {
	if (startDate == "") != (endDate == "") {
		return nil, fmt.Errorf("%w: both bounds are required for a filtered list", ErrInvalidRange)
	}
	if startDate != "" {
		if err := ValidateRange(startDate, endDate); err != nil {
			return nil, err
		}
	}
	items, err := e.bookings.List(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: listing bookings: %v", ErrStoreUnavailable, err)
	}
	return items, nil
}

// UpdateStatus applies a lifecycle transition to a booking. Only the
// transitions pending→confirmed, pending→cancelled and
// confirmed→cancelled are permitted; a cancelled booking is immutable.
// The store update is conditional on the status the engine read, so a
// concurrent transition surfaces as ErrInvalidTransition rather than a
// silent overwrite.
func (e *Engine) UpdateStatus(ctx context.Context, id uint64, next model.Status) (*model.Booking, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	cur, err := e.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cur.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, cur.Status, next)
	}
	n, err := e.bookings.UpdateStatus(ctx, id, cur.Status, next)
	if err != nil {
		return nil, fmt.Errorf("%w: updating status: %v", ErrStoreUnavailable, err)
	}
	if n == 0 {
		// Status changed under us between the read and the update.
		return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
	}
	return e.GetBooking(ctx, id)
}

// CancelBooking transitions a booking to cancelled, after which it no
// longer participates in availability checks.
func (e *Engine) CancelBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return e.UpdateStatus(ctx, id, model.StatusCancelled)
}

// NightlyRateCents exposes the configured flat rate for presentation.
func (e *Engine) NightlyRateCents() int64 { return e.nightlyRateCents }

// AddBlockedPeriod records an administrator-blocked range after
// validating it, and returns the stored period with its id assigned.
func (e *Engine) AddBlockedPeriod(ctx context.Context, startDate, endDate string, reason *string) (*model.BlockedPeriod, error) {
	if err := ValidateRange(startDate, endDate); err != nil {
		return nil, err
	}
	p := &model.BlockedPeriod{StartDate: startDate, EndDate: endDate, Reason: reason}
	if err := e.blocked.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: creating blocked period: %v", ErrStoreUnavailable, err)
	}
	return p, nil
}

// ListBlockedPeriods returns every blocked period ordered by start date.
func (e *Engine) ListBlockedPeriods(ctx context.Context) ([]model.BlockedPeriod, error) {
	items, err := e.blocked.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing blocked periods: %v", ErrStoreUnavailable, err)
	}
	return items, nil
}

// RemoveBlockedPeriod deletes a blocked period by id.
func (e *Engine) RemoveBlockedPeriod(ctx context.Context, id uint64) error {
	deleted, err := e.blocked.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: deleting blocked period: %v", ErrStoreUnavailable, err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func validateDraft(d *Draft) error {
	d.GuestName = strings.TrimSpace(d.GuestName)
	d.GuestEmail = strings.ToLower(strings.TrimSpace(d.GuestEmail))
	if d.GuestName == "" {
		return &ValidationError{Field: "guest_name", Reason: "required"}
	}
	if d.GuestEmail == "" || !strings.Contains(d.GuestEmail, "@") {
		return &ValidationError{Field: "guest_email", Reason: "a valid email address is required"}
	}
	if d.PartySize < 1 {
		return &ValidationError{Field: "party_size", Reason: "must be at least 1"}
	}
	return nil
}
