// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after payment capture succeeds and
// the booking transitions to confirmed. It contains enough information
// for downstream consumers to log or notify without querying the
// primary database. Dates stay in YYYY-MM-DD form.
type BookingConfirmedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	PartySize       int    `json:"party_size"`
	TotalPriceCents int64  `json:"total_price_cents"`
	PaymentRef      string `json:"payment_ref"`
	ConfirmedAt     string `json:"confirmed_at"`
}
