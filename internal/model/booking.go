package model

import "time"

// Status is the lifecycle stage of a booking. It forms a small closed
// set of states with an explicit transition table rather than a
// free-form string compared ad hoc at call sites.
type Status string

const (
	StatusPending   Status = "pending"   // awaiting payment
	StatusConfirmed Status = "confirmed" // payment captured
	StatusCancelled Status = "cancelled" // void; ignored by availability checks
)

// transitions encodes the allowed state changes:
// pending→confirmed, pending→cancelled, confirmed→cancelled.
// There is no transition out of cancelled.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// Valid reports whether s is one of the known booking states.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the transition from s to next is
// permitted by the state machine.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Booking records a guest's stay at the property. It corresponds to a
// row in the `bookings` table. Date columns are exchanged everywhere as
// calendar-day strings in YYYY-MM-DD form with no time-of-day component.
//
// Fields:
//  ID              – primary key identifier.
//  StartDate       – check-in day (YYYY-MM-DD).
//  EndDate         – check-out day (YYYY-MM-DD); always after StartDate.
//  GuestName       – full name of the booking guest.
//  GuestEmail      – contact email address.
//  GuestPhone      – optional contact phone (nullable).
//  PartySize       – number of guests staying.
//  TotalPriceCents – nights × nightly rate, in cents.
//  Status          – current lifecycle state.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64    `json:"id"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	GuestPhone      *string   `json:"guest_phone,omitempty"`
	PartySize       int       `json:"party_size"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
