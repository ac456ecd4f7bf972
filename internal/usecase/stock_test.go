package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/domain/repository"
	"github.com/polkiloo/palmwine/internal/metrics"
	testhelpers "github.com/polkiloo/palmwine/internal/test"
)

func TestStockPeriodFor(t *testing.T) {
	wat := time.FixedZone("WAT", 3600)

	cases := []struct {
		name   string
		period string
		loc    *time.Location
		at     time.Time
		want   time.Time
	}{
		{"monday itself", PeriodWeek, time.UTC, testPeriod, testPeriod},
		{"sunday night", PeriodWeek, time.UTC, time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC), testPeriod},
		{"wednesday", PeriodWeek, time.UTC, time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC), testPeriod},
		{"local monday starts before utc", PeriodWeek, wat, time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC), time.Date(2024, 6, 10, 0, 0, 0, 0, wat)},
		{"day period", PeriodDay, time.UTC, time.Date(2024, 6, 5, 18, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.stock.period = tc.period
			h.stock.location = tc.loc
			got := h.stock.PeriodFor(tc.at)
			assert.True(t, got.Equal(tc.want), "got %s want %s", got, tc.want)
		})
	}
}

func TestNewStockUseCaseDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.StockPeriod = "fortnight"
	cfg.StockLocation = nil
	uc := NewStockUseCase(nil, cfg, discardLogger())
	assert.Equal(t, PeriodWeek, uc.period)
	assert.Equal(t, time.UTC, uc.location)
}

func TestStockReserveAndRelease(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.SeedPeriod(testPeriod, 10, 0)

	period, err := h.stock.Reserve(ctx, 4)
	require.NoError(t, err)
	assert.True(t, period.Equal(testPeriod))

	snapshot, err := h.stock.CurrentAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, snapshot.Available())
	assert.Equal(t, 10, snapshot.Total)

	_, err = h.stock.Reserve(ctx, 7)
	assert.ErrorIs(t, err, domainErrors.ErrInsufficientStock)
	assert.Equal(t, 4, h.store.Period(testPeriod).Sold, "failed reservation must not partially apply")

	require.NoError(t, h.stock.Release(ctx, period, 4))
	assert.Equal(t, 0, h.store.Period(testPeriod).Sold)
}

func TestStockAdjustmentRejectsNonPositiveQuantity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.SeedPeriod(testPeriod, 10, 5)

	for _, qty := range []int{0, -3} {
		_, err := h.stock.Reserve(ctx, qty)
		var vErr *domainErrors.ValidationError
		assert.ErrorAs(t, err, &vErr, "reserve %d", qty)

		err = h.stock.Release(ctx, testPeriod, qty)
		assert.ErrorAs(t, err, &vErr, "release %d", qty)
	}
	assert.Equal(t, 5, h.store.Period(testPeriod).Sold)
}

func TestStockReleaseNormalisesPeriod(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.SeedPeriod(testPeriod, 10, 5)

	require.NoError(t, h.stock.Release(ctx, testPeriod.Add(15*time.Hour), 2))
	assert.Equal(t, 3, h.store.Period(testPeriod).Sold)

	require.NoError(t, h.stock.Release(ctx, time.Time{}, 1))
	assert.Equal(t, 2, h.store.Period(testPeriod).Sold)
}

func TestStockMissingPeriodReadsAsEmpty(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	snapshot, err := h.stock.CurrentAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Available())
	assert.True(t, snapshot.PeriodStart.Equal(testPeriod))

	_, err = h.stock.Reserve(ctx, 1)
	assert.ErrorIs(t, err, domainErrors.ErrInsufficientStock)
}

func TestStockResetPeriod(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.SeedPeriod(testPeriod, 10, 8)

	entry, err := h.stock.ResetPeriod(ctx, time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC), 24)
	require.NoError(t, err)
	assert.True(t, entry.PeriodStart.Equal(testPeriod), "reset must normalise to the period start")
	assert.Equal(t, 24, entry.Total)
	assert.Equal(t, 0, entry.Sold)
	assert.Equal(t, 24, entry.Available())

	_, err = h.stock.ResetPeriod(ctx, testPeriod, -1)
	assert.True(t, domainErrors.IsValidation(err))
}

// dateColumnStock returns period starts the way a DATE column scans: UTC midnight.
type dateColumnStock struct {
	repository.StockRepository
}

func (s dateColumnStock) ResetPeriod(ctx context.Context, period time.Time, total int) (*model.StockPeriod, error) {
	entry, err := s.StockRepository.ResetPeriod(ctx, period, total)
	if err != nil {
		return nil, err
	}
	y, m, d := entry.PeriodStart.Date()
	entry.PeriodStart = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return entry, nil
}

func TestStockResetPeriodRefreshesGaugeAcrossZones(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	cfg := testConfig()
	cfg.StockLocation = lagos
	store := testhelpers.NewMemoryStore()
	stock := NewStockUseCase(dateColumnStock{store.Stock()}, cfg, discardLogger())
	stock.now = func() time.Time { return testNow }

	metrics.StockAvailable.Set(-1)
	entry, err := stock.ResetPeriod(context.Background(), time.Time{}, 42)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, entry.PeriodStart.Location())
	assert.Equal(t, 42.0, testutil.ToFloat64(metrics.StockAvailable))

	_, err = stock.ResetPeriod(context.Background(), testNow.AddDate(0, 0, -14), 7)
	require.NoError(t, err)
	assert.Equal(t, 42.0, testutil.ToFloat64(metrics.StockAvailable), "past periods leave the gauge alone")
}

func TestSameDate(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	assert.True(t, sameDate(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, lagos)))
	assert.False(t, sameDate(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, lagos)))
}

func TestStockEnsureCurrentPeriod(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.stock.EnsureCurrentPeriod(ctx, 30)
	require.NoError(t, err)
	assert.True(t, created)

	h.store.SeedPeriod(testPeriod, 30, 5)
	created, err = h.stock.EnsureCurrentPeriod(ctx, 30)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 5, h.store.Period(testPeriod).Sold, "existing period must be left alone")

	h.store.Err = errors.New("db down")
	_, err = h.stock.EnsureCurrentPeriod(ctx, 30)
	assert.Error(t, err)
}

func TestStockNoOversellingUnderConcurrency(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const available = 5
	h.store.SeedPeriod(testPeriod, available, 0)

	var (
		wg        sync.WaitGroup
		succeeded int32
		rejected  int32
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.stock.Reserve(ctx, 1)
			switch {
			case err == nil:
				atomic.AddInt32(&succeeded, 1)
			case errors.Is(err, domainErrors.ErrInsufficientStock):
				atomic.AddInt32(&rejected, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, available, succeeded)
	assert.EqualValues(t, 40-available, rejected)
	assert.Equal(t, available, h.store.Period(testPeriod).Sold)
}
