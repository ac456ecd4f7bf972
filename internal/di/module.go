package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/palmwine/internal/adapter/broker"
	"github.com/polkiloo/palmwine/internal/adapter/geocoding"
	"github.com/polkiloo/palmwine/internal/adapter/paystack"
	"github.com/polkiloo/palmwine/internal/adapter/whatsapp"
	"github.com/polkiloo/palmwine/internal/app"
	"github.com/polkiloo/palmwine/internal/config"
	"github.com/polkiloo/palmwine/internal/logger"
	"github.com/polkiloo/palmwine/internal/pkg/auth"
	"github.com/polkiloo/palmwine/internal/server/http/handlers"
	"github.com/polkiloo/palmwine/internal/server/http/router"
	"github.com/polkiloo/palmwine/internal/storage/postgres"
	"github.com/polkiloo/palmwine/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		paystack.Module,
		geocoding.Module,
		whatsapp.Module,
		broker.Module,
		usecase.Module,
		fx.Provide(func(f *app.ShopFacade) handlers.ShopFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
