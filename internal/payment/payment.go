// Package payment integrates the external payment collaborator. The
// engine hands it a booking's total price and identifying metadata and
// receives back a success/failure signal; card details never pass
// through this service.
package payment

import (
	"context"
	"errors"

	"github.com/iliyamo/vacation-rental-booking/internal/model"
)

// ErrDeclined is returned when the processor refuses the charge. It is
// a business outcome, not a transport failure: the booking stays
// pending and the guest may retry with another payment method.
var ErrDeclined = errors.New("payment declined")

// Result carries the processor's reference for a successful charge so
// it can be echoed in confirmations and audits. ClientSecret is set by
// processors that finalize collection in the browser and is passed
// through to the presentation layer untouched.
type Result struct {
	Reference    string // processor-side id of the charge or intent
	ClientSecret string // optional; completes collection client-side
}

// Processor authorizes and captures funds for a booking's total price.
// Implementations must be safe for concurrent use.
type Processor interface {
	Charge(ctx context.Context, b *model.Booking) (*Result, error)
}
