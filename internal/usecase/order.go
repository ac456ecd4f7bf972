package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/polkiloo/palmwine/internal/config"
	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/domain/repository"
	"github.com/polkiloo/palmwine/internal/metrics"
)

const tracerName = "github.com/polkiloo/palmwine/internal/usecase"

// OrderItemInput is one requested bottle size.
type OrderItemInput struct {
	Size     string `validate:"required"`
	Quantity int    `validate:"min=1,max=500"`
}

// CreateOrderInput is the checkout form. Prices are never taken from the client.
type CreateOrderInput struct {
	Name          string              `validate:"required,max=100"`
	Phone         string              `validate:"required,phone"`
	Email         string              `validate:"omitempty,email"`
	Items         []OrderItemInput    `validate:"required,min=1,dive"`
	DeliveryType  model.DeliveryType  `validate:"required,oneof=pickup delivery"`
	Address       string              `validate:"required_if=DeliveryType delivery,max=300"`
	Zone          string              `validate:"max=64"`
	PaymentMethod model.PaymentMethod `validate:"required,oneof=cash_on_delivery online"`
	DiscountCode  string              `validate:"max=32"`
	Notes         string              `validate:"max=500"`
}

// CreateOrderResult carries the persisted order and the discount outcome, if a code was given.
type CreateOrderResult struct {
	Order    *model.Order
	Discount *model.DiscountResult
}

// OrderUseCase owns the order state machine.
type OrderUseCase struct {
	orders          repository.OrderRepository
	stock           *StockUseCase
	discounts       *DiscountUseCase
	delivery        *DeliveryUseCase
	notify          notifications
	validate        *validator.Validate
	prices          map[string]int64
	restoreDiscount bool
	newNumber       func() (string, error)
	tracer          trace.Tracer
	logger          *slog.Logger
}

// OrderDeps groups OrderUseCase collaborators.
type OrderDeps struct {
	Orders    repository.OrderRepository
	Stock     *StockUseCase
	Discounts *DiscountUseCase
	Delivery  *DeliveryUseCase
	Notifier  Notifier
	Validator *validator.Validate
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(deps OrderDeps, cfg *config.Config, logger *slog.Logger) *OrderUseCase {
	v := deps.Validator
	if v == nil {
		v = NewValidator()
	}
	return &OrderUseCase{
		orders:          deps.Orders,
		stock:           deps.Stock,
		discounts:       deps.Discounts,
		delivery:        deps.Delivery,
		notify:          notifications{notifier: deps.Notifier, adminPhone: cfg.AdminPhone},
		validate:        v,
		prices:          cfg.UnitPrices,
		restoreDiscount: cfg.RestoreDiscountOnCancel,
		newNumber:       NewOrderNumber,
		tracer:          otel.Tracer(tracerName),
		logger:          logger,
	}
}

// Create prices, reserves and persists a new order.
func (u *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (result *CreateOrderResult, err error) {
	ctx, span := u.tracer.Start(ctx, "OrderUseCase.Create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := validateInput(u.validate, in); err != nil {
		return nil, err
	}
	if in.PaymentMethod == model.PaymentMethodOnline && strings.TrimSpace(in.Email) == "" {
		return nil, domainErrors.NewValidationError("email", "is required for online payment")
	}

	items, err := u.priceItems(in.Items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		Customer: model.Customer{
			Name:  strings.TrimSpace(in.Name),
			Phone: strings.TrimSpace(in.Phone),
			Email: strings.TrimSpace(in.Email),
		},
		Items:         items,
		DeliveryType:  in.DeliveryType,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: model.PaymentStatusPending,
		Status:        model.OrderStatusPending,
		Notes:         strings.TrimSpace(in.Notes),
		StockPeriod:   u.stock.CurrentPeriod(),
	}
	order.Subtotal = order.ItemsSubtotal()

	if in.DeliveryType == model.DeliveryTypeDelivery {
		quote := u.delivery.Quote(ctx, in.Zone, in.Address)
		order.Address = strings.TrimSpace(in.Address)
		order.Zone = quote.Zone
		order.DeliveryFee = quote.Fee
	}

	var discount *model.DiscountResult
	if code := NormalizeCode(in.DiscountCode); code != "" {
		discount = u.applyDiscount(ctx, order, code)
	}
	order.TotalAmount = model.ComputeTotal(order.Subtotal, order.DeliveryFee, order.DiscountAmount)

	span.SetAttributes(
		attribute.Int("order.quantity", order.Quantity()),
		attribute.String("order.payment_method", string(order.PaymentMethod)),
		attribute.Int64("order.total", order.TotalAmount),
	)

	if err := u.persist(ctx, order); err != nil {
		if errors.Is(err, domainErrors.ErrInsufficientStock) {
			metrics.StockRejections.Inc()
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", order.Number))

	if order.DiscountCode != nil {
		if err := u.discounts.Redeem(ctx, *order.DiscountCode); err != nil {
			u.logger.Error("discount redemption failed after order placement",
				slog.String("order", order.Number),
				slog.String("code", *order.DiscountCode),
				slog.String("error", err.Error()),
			)
		}
	}

	metrics.OrdersCreated.WithLabelValues(string(order.PaymentMethod)).Inc()
	u.logger.Info("order placed",
		slog.String("order", order.Number),
		slog.Int("quantity", order.Quantity()),
		slog.Int64("total", order.TotalAmount),
	)
	u.notify.orderPlaced(order)

	return &CreateOrderResult{Order: order, Discount: discount}, nil
}

func (u *OrderUseCase) priceItems(in []OrderItemInput) ([]model.LineItem, error) {
	items := make([]model.LineItem, 0, len(in))
	for _, item := range in {
		size := strings.ToLower(strings.TrimSpace(item.Size))
		price, ok := u.prices[size]
		if !ok {
			return nil, domainErrors.NewValidationError("size", fmt.Sprintf("%q is not available", item.Size))
		}
		items = append(items, model.LineItem{Size: size, Quantity: item.Quantity, UnitPrice: price})
	}
	return items, nil
}

// applyDiscount never fails the order: an unusable code leaves the order at full price.
func (u *OrderUseCase) applyDiscount(ctx context.Context, order *model.Order, code string) *model.DiscountResult {
	result, err := u.discounts.Validate(ctx, code, order.Subtotal+order.DeliveryFee)
	if err != nil {
		u.logger.Warn("discount validation failed, continuing without discount",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		return &model.DiscountResult{Code: code}
	}
	if !result.Valid {
		u.logger.Info("discount code not applied",
			slog.String("code", code),
			slog.String("reason", string(result.Reason)),
		)
		return &result
	}
	order.DiscountCode = &result.Code
	order.DiscountAmount = result.Amount
	return &result
}

func (u *OrderUseCase) persist(ctx context.Context, order *model.Order) error {
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		if order.Number, err = u.newNumber(); err != nil {
			return fmt.Errorf("generate order number: %w", err)
		}
		err = u.orders.Create(ctx, order)
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			return err
		}
		u.logger.Warn("order number collision, regenerating", slog.String("order", order.Number))
	}
	return err
}

// Get returns the order by number, case-insensitively.
func (u *OrderUseCase) Get(ctx context.Context, number string) (*model.Order, error) {
	return u.orders.GetByNumber(ctx, normalizeNumber(number))
}

// List returns orders for the admin dashboard.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainErrors.NewValidationError("status", "is invalid")
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, domainErrors.NewValidationError("payment_status", "is invalid")
	}
	return u.orders.List(ctx, filter)
}

// Cancel marks the order cancelled and returns its bottles to the period it reserved from.
// A second cancel fails with ErrAlreadyCancelled and releases nothing.
func (u *OrderUseCase) Cancel(ctx context.Context, number string) (*model.Order, error) {
	order, err := u.orders.Cancel(ctx, normalizeNumber(number), u.restoreDiscount)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCancelled.Inc()
	u.logger.Info("order cancelled",
		slog.String("order", order.Number),
		slog.Int("released", order.Quantity()),
	)
	u.notify.orderCancelled(order)
	return order, nil
}

// UpdateStatus moves the order forward along pending, confirmed, completed, delivered.
// Moving to cancelled goes through Cancel so stock is released.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, number string, to model.OrderStatus) (*model.Order, error) {
	if !to.Valid() {
		return nil, domainErrors.NewValidationError("status", "is invalid")
	}
	if to == model.OrderStatusCancelled {
		return u.Cancel(ctx, number)
	}

	current, err := u.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	if current.Status == to {
		return current, nil
	}
	if !current.Status.CanAdvanceTo(to) {
		return nil, domainErrors.ErrInvalidTransition
	}

	updated, err := u.orders.UpdateStatus(ctx, current.Number, current.Status, to)
	if err != nil {
		return nil, err
	}
	u.logger.Info("order status updated",
		slog.String("order", updated.Number),
		slog.String("from", string(current.Status)),
		slog.String("to", string(to)),
	)
	return updated, nil
}

// UpdatePaymentStatus records a manual payment. Payment status never moves back to pending.
func (u *OrderUseCase) UpdatePaymentStatus(ctx context.Context, number string, to model.PaymentStatus) (*model.Order, error) {
	if !to.Valid() {
		return nil, domainErrors.NewValidationError("payment_status", "is invalid")
	}

	current, err := u.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	if to == model.PaymentStatusPending {
		if current.PaymentStatus == model.PaymentStatusPaid {
			return nil, domainErrors.ErrInvalidTransition
		}
		return current, nil
	}

	updated, transitioned, err := u.orders.MarkPaid(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, domainErrors.ErrAlreadyPaid
	}
	u.logger.Info("order marked paid", slog.String("order", updated.Number))
	return updated, nil
}

func normalizeNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
