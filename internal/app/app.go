package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/palmwine/internal/adapter/broker"
	"github.com/polkiloo/palmwine/internal/adapter/whatsapp"
	"github.com/polkiloo/palmwine/internal/config"
	"github.com/polkiloo/palmwine/internal/usecase"
	"github.com/polkiloo/palmwine/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newShopFacade,
		newHTTPServer,
		newDispatcher,
		func(d *worker.NotificationDispatcher) usecase.Notifier { return d },
		newStockResetter,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

type dispatcherParams struct {
	fx.In

	Sink      whatsapp.Sink
	Publisher broker.Publisher
	Config    *config.Config
	Logger    *slog.Logger
}

func newDispatcher(p dispatcherParams) *worker.NotificationDispatcher {
	return worker.NewNotificationDispatcher(p.Sink, p.Publisher, p.Config.NotifyWorkers, p.Config.NotifyQueueSize, p.Logger)
}

type resetterParams struct {
	fx.In

	Stock  *usecase.StockUseCase
	Config *config.Config
	Logger *slog.Logger
}

// newStockResetter returns nil when scheduled resets are disabled.
func newStockResetter(p resetterParams) *worker.StockResetter {
	if !p.Config.StockAutoReset {
		return nil
	}
	return worker.NewStockResetter(p.Stock, p.Config.WeeklyAllotment, p.Config.StockResetInterval, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.NotificationDispatcher
	Resetter   *worker.StockResetter
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting palmwine", slog.String("addr", p.Server.Addr))
			// fx cancels the start context once OnStart returns.
			runCtx := context.WithoutCancel(ctx)
			p.Dispatcher.Start(runCtx)
			if p.Resetter != nil {
				p.Resetter.Start(runCtx)
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			if p.Resetter != nil {
				p.Resetter.Stop()
			}
			p.Dispatcher.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("palmwine stopped")
			return nil
		},
	})
}
