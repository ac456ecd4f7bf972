package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PeriodEnsurer opens the current stock period when it does not exist yet.
type PeriodEnsurer interface {
	EnsureCurrentPeriod(ctx context.Context, total int) (bool, error)
}

// StockResetter opens each new stock period with the configured allotment.
type StockResetter struct {
	stock     PeriodEnsurer
	allotment int
	interval  time.Duration
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStockResetter constructs the resetter.
func NewStockResetter(stock PeriodEnsurer, allotment int, interval time.Duration, logger *slog.Logger) *StockResetter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StockResetter{stock: stock, allotment: allotment, interval: interval, logger: logger}
}

// Start checks the current period immediately and then on every tick.
func (r *StockResetter) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(runCtx)
}

// Stop waits for the loop to finish.
func (r *StockResetter) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *StockResetter) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.check(ctx)
		}
	}
}

func (r *StockResetter) check(ctx context.Context) {
	opened, err := r.stock.EnsureCurrentPeriod(ctx, r.allotment)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("stock period check failed", slog.String("error", err.Error()))
		}
		return
	}
	if opened {
		r.logger.Info("stock period opened", slog.Int("total", r.allotment))
	}
}
