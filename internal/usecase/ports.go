package usecase

import (
	"context"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// PaymentProvider opens hosted checkouts and verifies their outcome.
type PaymentProvider interface {
	InitializeSession(ctx context.Context, req model.PaymentSessionRequest) (*model.PaymentSession, error)
	Verify(ctx context.Context, reference string) (*model.PaymentVerification, error)
	// ParseWebhook authenticates the raw body against signature and decodes it.
	ParseWebhook(body []byte, signature string) (*model.PaymentEvent, error)
}

// Geocoder resolves free-text addresses. A nil result without error means no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*model.Coordinates, error)
}

// Notifier accepts notifications for asynchronous delivery and never blocks.
type Notifier interface {
	Notify(n model.Notification)
}
