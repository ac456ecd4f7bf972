package repository

import (
	"context"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// DiscountRepository stores promotional codes.
type DiscountRepository interface {
	Create(ctx context.Context, code *model.DiscountCode) error
	Update(ctx context.Context, code *model.DiscountCode) error
	Delete(ctx context.Context, code string) error
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	List(ctx context.Context) ([]model.DiscountCode, error)
	// Redeem increments used_count unless max_uses has been reached.
	Redeem(ctx context.Context, code string) error
}
