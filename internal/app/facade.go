package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/palmwine/internal/config"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/usecase"
)

// ShopFacade exposes the use cases to the HTTP layer.
type ShopFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	payments  *usecase.PaymentUseCase
	stock     *usecase.StockUseCase
	discounts *usecase.DiscountUseCase
	delivery  *usecase.DeliveryUseCase
	invoices  *usecase.InvoiceUseCase
	prices    map[string]int64
}

type facadeParams struct {
	fx.In

	Auth      *usecase.AuthUseCase
	Orders    *usecase.OrderUseCase
	Payments  *usecase.PaymentUseCase
	Stock     *usecase.StockUseCase
	Discounts *usecase.DiscountUseCase
	Delivery  *usecase.DeliveryUseCase
	Invoices  *usecase.InvoiceUseCase
	Config    *config.Config
}

func newShopFacade(p facadeParams) *ShopFacade {
	return &ShopFacade{
		auth:      p.Auth,
		orders:    p.Orders,
		payments:  p.Payments,
		stock:     p.Stock,
		discounts: p.Discounts,
		delivery:  p.Delivery,
		invoices:  p.Invoices,
		prices:    p.Config.UnitPrices,
	}
}

func (f *ShopFacade) Login(ctx context.Context, username, password string) (string, error) {
	return f.auth.Login(ctx, username, password)
}

func (f *ShopFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *ShopFacade) CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*usecase.CreateOrderResult, error) {
	return f.orders.Create(ctx, in)
}

func (f *ShopFacade) Order(ctx context.Context, number string) (*model.Order, error) {
	return f.orders.Get(ctx, number)
}

func (f *ShopFacade) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, filter)
}

func (f *ShopFacade) CancelOrder(ctx context.Context, number string) (*model.Order, error) {
	return f.orders.Cancel(ctx, number)
}

func (f *ShopFacade) UpdateOrderStatus(ctx context.Context, number string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, number, status)
}

func (f *ShopFacade) UpdatePaymentStatus(ctx context.Context, number string, status model.PaymentStatus) (*model.Order, error) {
	return f.orders.UpdatePaymentStatus(ctx, number, status)
}

func (f *ShopFacade) InitializePayment(ctx context.Context, number string) (*model.PaymentSession, error) {
	return f.payments.InitializePayment(ctx, number)
}

// VerifyPayment is the browser callback entry point.
func (f *ShopFacade) VerifyPayment(ctx context.Context, reference string) (*model.Reconciliation, error) {
	return f.payments.Reconcile(ctx, reference)
}

func (f *ShopFacade) HandleWebhook(ctx context.Context, body []byte, signature string) (*model.Reconciliation, error) {
	return f.payments.HandleWebhook(ctx, body, signature)
}

func (f *ShopFacade) CurrentStock(ctx context.Context) (*model.StockPeriod, error) {
	return f.stock.CurrentAvailable(ctx)
}

func (f *ShopFacade) StockSnapshot(ctx context.Context, at time.Time) (*model.StockPeriod, error) {
	return f.stock.Snapshot(ctx, at)
}

func (f *ShopFacade) ResetStock(ctx context.Context, period time.Time, total int) (*model.StockPeriod, error) {
	return f.stock.ResetPeriod(ctx, period, total)
}

// ReserveStock takes quantity bottles off the current period for sales made outside the shop.
func (f *ShopFacade) ReserveStock(ctx context.Context, quantity int) (*model.StockPeriod, error) {
	period, err := f.stock.Reserve(ctx, quantity)
	if err != nil {
		return nil, err
	}
	return f.stock.Snapshot(ctx, period)
}

// ReleaseStock puts quantity bottles back into the period containing period.
func (f *ShopFacade) ReleaseStock(ctx context.Context, period time.Time, quantity int) (*model.StockPeriod, error) {
	if period.IsZero() {
		period = f.stock.CurrentPeriod()
	}
	if err := f.stock.Release(ctx, period, quantity); err != nil {
		return nil, err
	}
	return f.stock.Snapshot(ctx, period)
}

// Prices returns a copy of the unit price table.
func (f *ShopFacade) Prices() map[string]int64 {
	out := make(map[string]int64, len(f.prices))
	for size, price := range f.prices {
		out[size] = price
	}
	return out
}

func (f *ShopFacade) QuoteDelivery(ctx context.Context, zone, address string) model.DeliveryQuote {
	return f.delivery.Quote(ctx, zone, address)
}

func (f *ShopFacade) ValidateDiscount(ctx context.Context, code string, orderTotal int64) (model.DiscountResult, error) {
	return f.discounts.Validate(ctx, code, orderTotal)
}

func (f *ShopFacade) Discounts(ctx context.Context) ([]model.DiscountCode, error) {
	return f.discounts.List(ctx)
}

func (f *ShopFacade) Discount(ctx context.Context, code string) (*model.DiscountCode, error) {
	return f.discounts.Get(ctx, code)
}

func (f *ShopFacade) CreateDiscount(ctx context.Context, d *model.DiscountCode) error {
	return f.discounts.Create(ctx, d)
}

func (f *ShopFacade) UpdateDiscount(ctx context.Context, d *model.DiscountCode) error {
	return f.discounts.Update(ctx, d)
}

func (f *ShopFacade) DeleteDiscount(ctx context.Context, code string) error {
	return f.discounts.Delete(ctx, code)
}

func (f *ShopFacade) Invoices(ctx context.Context) ([]model.Invoice, error) {
	return f.invoices.List(ctx)
}

func (f *ShopFacade) Invoice(ctx context.Context, id int64) (*model.Invoice, error) {
	return f.invoices.Get(ctx, id)
}

func (f *ShopFacade) CreateInvoice(ctx context.Context, in usecase.InvoiceInput) (*model.Invoice, error) {
	return f.invoices.Create(ctx, in)
}

func (f *ShopFacade) UpdateInvoice(ctx context.Context, id int64, in usecase.InvoiceInput) (*model.Invoice, error) {
	return f.invoices.Update(ctx, id, in)
}

func (f *ShopFacade) UpdateInvoiceStatus(ctx context.Context, id int64, status model.InvoiceStatus) (*model.Invoice, error) {
	return f.invoices.UpdateStatus(ctx, id, status)
}
