package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/polkiloo/palmwine/internal/config"
	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/domain/repository"
	"github.com/polkiloo/palmwine/internal/metrics"
)

const (
	PeriodWeek = "week"
	PeriodDay  = "day"
)

// StockUseCase is the stock ledger keyed by inventory period.
type StockUseCase struct {
	stock    repository.StockRepository
	period   string
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewStockUseCase constructs StockUseCase.
func NewStockUseCase(stock repository.StockRepository, cfg *config.Config, logger *slog.Logger) *StockUseCase {
	loc := cfg.StockLocation
	if loc == nil {
		loc = time.UTC
	}
	period := cfg.StockPeriod
	if period != PeriodDay {
		period = PeriodWeek
	}
	return &StockUseCase{stock: stock, period: period, location: loc, now: time.Now, logger: logger}
}

// PeriodFor returns the start of the inventory period containing t.
func (u *StockUseCase) PeriodFor(t time.Time) time.Time {
	local := t.In(u.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, u.location)
	if u.period == PeriodWeek {
		offset := (int(start.Weekday()) + 6) % 7
		start = start.AddDate(0, 0, -offset)
	}
	return start
}

// CurrentPeriod returns the period orders placed now reserve against.
func (u *StockUseCase) CurrentPeriod() time.Time {
	return u.PeriodFor(u.now())
}

// Reserve takes quantity bottles from the current period. It either applies in full or not at all.
func (u *StockUseCase) Reserve(ctx context.Context, quantity int) (time.Time, error) {
	if quantity < 1 {
		return time.Time{}, domainErrors.NewValidationError("quantity", "must be at least 1")
	}
	period := u.CurrentPeriod()
	if err := u.stock.Reserve(ctx, period, quantity); err != nil {
		if errors.Is(err, domainErrors.ErrInsufficientStock) {
			metrics.StockRejections.Inc()
		}
		return time.Time{}, err
	}
	return period, nil
}

// Release returns quantity bottles to the period containing period.
func (u *StockUseCase) Release(ctx context.Context, period time.Time, quantity int) error {
	if quantity < 1 {
		return domainErrors.NewValidationError("quantity", "must be at least 1")
	}
	if period.IsZero() {
		period = u.now()
	}
	return u.stock.Release(ctx, u.PeriodFor(period), quantity)
}

// ResetPeriod replaces the period entry with a fresh allotment.
func (u *StockUseCase) ResetPeriod(ctx context.Context, period time.Time, total int) (*model.StockPeriod, error) {
	if total < 0 {
		return nil, domainErrors.NewValidationError("total", "must not be negative")
	}
	if period.IsZero() {
		period = u.now()
	}
	entry, err := u.stock.ResetPeriod(ctx, u.PeriodFor(period), total)
	if err != nil {
		return nil, err
	}
	u.logger.Info("stock period reset",
		slog.Time("period", entry.PeriodStart),
		slog.Int("total", entry.Total),
	)
	if sameDate(entry.PeriodStart, u.CurrentPeriod()) {
		metrics.StockAvailable.Set(float64(entry.Available()))
	}
	return entry, nil
}

// sameDate compares calendar dates. DATE columns scan as UTC midnight while periods are local midnight.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CurrentAvailable returns the current period snapshot. A missing entry reads as zero stock.
func (u *StockUseCase) CurrentAvailable(ctx context.Context) (*model.StockPeriod, error) {
	entry, err := u.Snapshot(ctx, u.CurrentPeriod())
	if err != nil {
		return nil, err
	}
	metrics.StockAvailable.Set(float64(entry.Available()))
	return entry, nil
}

// Snapshot returns the entry for the period containing at.
func (u *StockUseCase) Snapshot(ctx context.Context, at time.Time) (*model.StockPeriod, error) {
	period := u.PeriodFor(at)
	entry, err := u.stock.Get(ctx, period)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return &model.StockPeriod{PeriodStart: period}, nil
		}
		return nil, err
	}
	return entry, nil
}

// EnsureCurrentPeriod creates the current period with total bottles when it does not exist yet.
func (u *StockUseCase) EnsureCurrentPeriod(ctx context.Context, total int) (bool, error) {
	period := u.CurrentPeriod()
	_, err := u.stock.Get(ctx, period)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return false, err
	}
	if _, err := u.ResetPeriod(ctx, period, total); err != nil {
		return false, err
	}
	return true, nil
}
