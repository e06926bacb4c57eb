// Package booking contains the availability engine: the rule set that
// decides whether a proposed stay may be booked, plus the booking
// lifecycle operations built on top of it. The error values defined
// here let handlers distinguish the failure scenarios and map each to
// a different HTTP response and user-facing message. In particular a
// rejected availability check (ErrConflict) must never look the same
// as a store outage (ErrStoreUnavailable) to the caller.
package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when the caller supplies a malformed or
// non-positive-length date range. Handlers should translate this into
// an HTTP 400 response. It is never worth retrying.
var ErrInvalidRange = errors.New("invalid date range")

// ErrConflict is returned when the requested dates overlap an existing
// non-cancelled booking or a blocked period. Handlers should translate
// this into an HTTP 409 response; the guest must pick different dates.
var ErrConflict = errors.New("dates unavailable")

// ErrStoreUnavailable is returned when the underlying store is
// unreachable or fails. No partial write has occurred, so callers may
// retry with backoff at their discretion. Handlers should translate
// this into an HTTP 503 response.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrNotFound is returned by lifecycle operations on a booking id that
// does not exist. Handlers should translate this into an HTTP 404.
var ErrNotFound = errors.New("booking not found")

// ErrInvalidTransition is returned when a status change is not allowed
// by the booking state machine, e.g. any transition out of cancelled.
// Handlers should translate this into an HTTP 409.
var ErrInvalidTransition = errors.New("invalid status transition")

// ValidationError reports a malformed field in a booking draft. It is
// distinct from ErrInvalidRange, which covers only the date pair.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
