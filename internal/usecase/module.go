package usecase

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"

	"github.com/polkiloo/palmwine/internal/config"
	"github.com/polkiloo/palmwine/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewValidator,
	NewAuthUseCase,
	NewStockUseCase,
	NewDiscountUseCase,
	NewDeliveryUseCase,
	NewInvoiceUseCase,
	NewPaymentUseCase,
	newOrderUseCase,
)

type orderParams struct {
	fx.In

	Orders    repository.OrderRepository
	Stock     *StockUseCase
	Discounts *DiscountUseCase
	Delivery  *DeliveryUseCase
	Notifier  Notifier
	Validator *validator.Validate
	Config    *config.Config
	Logger    *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(OrderDeps{
		Orders:    p.Orders,
		Stock:     p.Stock,
		Discounts: p.Discounts,
		Delivery:  p.Delivery,
		Notifier:  p.Notifier,
		Validator: p.Validator,
	}, p.Config, p.Logger)
}
