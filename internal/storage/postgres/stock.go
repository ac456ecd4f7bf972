package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
)

// reserveStock decrements availability only when enough bottles remain.
// A missing period row counts as zero available.
func reserveStock(ctx context.Context, q querier, period time.Time, quantity int) error {
	const query = `UPDATE stock_periods SET sold = sold + $2, updated_at = NOW()
                   WHERE period_start = $1 AND total - sold >= $2`
	tag, err := q.Exec(ctx, query, period, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInsufficientStock
	}
	return nil
}

func releaseStock(ctx context.Context, q querier, period time.Time, quantity int) error {
	const query = `UPDATE stock_periods SET sold = GREATEST(sold - $2, 0), updated_at = NOW()
                   WHERE period_start = $1`
	_, err := q.Exec(ctx, query, period, quantity)
	return err
}

func (r *stockRepository) Reserve(ctx context.Context, period time.Time, quantity int) error {
	if quantity <= 0 {
		return domainErrors.NewValidationError("quantity", "must be at least 1")
	}
	return reserveStock(ctx, r.storage.pool, period, quantity)
}

func (r *stockRepository) Release(ctx context.Context, period time.Time, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	return releaseStock(ctx, r.storage.pool, period, quantity)
}

func (r *stockRepository) ResetPeriod(ctx context.Context, period time.Time, total int) (*model.StockPeriod, error) {
	const query = `INSERT INTO stock_periods (period_start, total, sold, updated_at)
                   VALUES ($1, $2, 0, NOW())
                   ON CONFLICT (period_start) DO UPDATE SET total = EXCLUDED.total, sold = 0, updated_at = NOW()
                   RETURNING period_start, total, sold, updated_at`
	var p model.StockPeriod
	err := r.storage.pool.QueryRow(ctx, query, period, total).Scan(&p.PeriodStart, &p.Total, &p.Sold, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *stockRepository) Get(ctx context.Context, period time.Time) (*model.StockPeriod, error) {
	const query = `SELECT period_start, total, sold, updated_at FROM stock_periods WHERE period_start=$1`
	var p model.StockPeriod
	err := r.storage.pool.QueryRow(ctx, query, period).Scan(&p.PeriodStart, &p.Total, &p.Sold, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
