package repository

import (
	"context"
	"time"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// StockRepository maintains per-period bottle allotments.
type StockRepository interface {
	Reserve(ctx context.Context, period time.Time, quantity int) error
	Release(ctx context.Context, period time.Time, quantity int) error
	ResetPeriod(ctx context.Context, period time.Time, total int) (*model.StockPeriod, error)
	Get(ctx context.Context, period time.Time) (*model.StockPeriod, error)
}
