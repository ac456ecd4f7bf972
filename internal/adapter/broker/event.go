package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// Publisher mirrors notification events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, n model.Notification) error
	Close() error
}

// Event is the JSON document published for every notification.
type Event struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	OrderNumber string    `json:"order_number,omitempty"`
	Recipient   string    `json:"recipient"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

func encode(n model.Notification) ([]byte, error) {
	return json.Marshal(Event{
		ID:          n.ID,
		Kind:        string(n.Kind),
		OrderNumber: n.OrderNumber,
		Recipient:   n.Recipient,
		Text:        n.Text,
		CreatedAt:   n.CreatedAt,
	})
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, model.Notification) error { return nil }

func (Noop) Close() error { return nil }
