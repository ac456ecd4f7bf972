package repository

import (
	"context"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create reserves stock for the order's period and inserts it in one transaction.
	// The number must be unique; a collision returns ErrAlreadyExists.
	Create(ctx context.Context, order *model.Order) error
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	GetByReference(ctx context.Context, reference string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	// UpdateStatus moves the order from one status to another only if it still holds from.
	UpdateStatus(ctx context.Context, number string, from, to model.OrderStatus) (*model.Order, error)
	// Cancel marks the order cancelled and releases its stock exactly once.
	Cancel(ctx context.Context, number string, restoreDiscount bool) (*model.Order, error)
	// MarkPaid flips payment status to paid. The bool is false when it was already paid.
	MarkPaid(ctx context.Context, id int64) (*model.Order, bool, error)
	// SetPaymentSession stores the provider reference unless one is already set.
	SetPaymentSession(ctx context.Context, id int64, reference, authorizationURL string) (bool, error)
}
