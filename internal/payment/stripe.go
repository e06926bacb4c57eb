package payment

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/iliyamo/vacation-rental-booking/internal/model"
)

// StripeProcessor charges bookings through Stripe payment intents.
// The intent metadata mirrors what the booking confirmation email
// echoes back to the guest: booking id, check-in/check-out days in
// YYYY-MM-DD form and the party size.
type StripeProcessor struct {
	api      *client.API
	currency string
}

// NewStripeProcessor builds a processor from the configured secret key.
func NewStripeProcessor(secretKey, currency string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api, currency: currency}
}

// Charge creates and confirms a payment intent for the booking's total
// price. Amounts are already in cents. Each attempt carries a fresh
// idempotency key so a retried HTTP request cannot double-charge.
func (p *StripeProcessor) Charge(ctx context.Context, b *model.Booking) (*Result, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(b.TotalPriceCents),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Params: stripe.Params{
			Context:        ctx,
			IdempotencyKey: stripe.String(uuid.NewString()),
			Metadata: map[string]string{
				"booking_id": strconv.FormatUint(b.ID, 10),
				"check_in":   b.StartDate,
				"check_out":  b.EndDate,
				"guests":     strconv.Itoa(b.PartySize),
			},
		},
	}
	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	if intent.Status == stripe.PaymentIntentStatusCanceled {
		return nil, ErrDeclined
	}
	return &Result{Reference: intent.ID, ClientSecret: intent.ClientSecret}, nil
}
