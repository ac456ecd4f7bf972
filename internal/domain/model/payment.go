package model

import "time"

// MinorUnits converts naira to kobo.
func MinorUnits(amount int64) int64 {
	return amount * 100
}

// PaymentSessionRequest opens a hosted checkout with the provider.
type PaymentSessionRequest struct {
	Email       string
	AmountMinor int64
	Reference   string
	CallbackURL string
	Metadata    map[string]string
}

// PaymentSession is an opened checkout.
type PaymentSession struct {
	Reference        string
	AuthorizationURL string
}

// PaymentVerification is the provider's verdict on a reference.
type PaymentVerification struct {
	Reference   string
	Success     bool
	Status      string
	AmountMinor int64
	PaidAt      *time.Time
}

// Reconciliation reports the outcome of reconciling a reference.
type Reconciliation struct {
	Order       *Order
	AlreadyPaid bool
}

// PaymentEventChargeSuccess is the only webhook event that triggers reconciliation.
const PaymentEventChargeSuccess = "charge.success"

// PaymentEvent is an authenticated provider webhook notification.
type PaymentEvent struct {
	Event     string
	Reference string
}
