package paystack

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/palmwine/internal/config"
	"github.com/polkiloo/palmwine/internal/usecase"
)

// Module exposes the Paystack payment provider to fx graph.
var Module = fx.Provide(newProvider)

type providerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newProvider(p providerParams) (usecase.PaymentProvider, error) {
	return NewClient(p.Config.PaystackBaseURL, p.Config.PaystackSecretKey, p.Config.ProviderTimeout, p.Logger)
}
