// Package facadestub provides a configurable ShopFacade for HTTP tests.
package facadestub

import (
	"context"
	"time"

	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/usecase"
)

// ShopFacadeStub provides controllable behaviour for every HTTP endpoint.
// Unset functions fall back to a fixed happy-path answer.
type ShopFacadeStub struct {
	LoginFn               func(context.Context, string, string) (string, error)
	ParseTokenFn          func(string) (string, error)
	CreateOrderFn         func(context.Context, usecase.CreateOrderInput) (*usecase.CreateOrderResult, error)
	OrderFn               func(context.Context, string) (*model.Order, error)
	OrdersFn              func(context.Context, model.OrderFilter) ([]model.Order, error)
	CancelOrderFn         func(context.Context, string) (*model.Order, error)
	UpdateOrderStatusFn   func(context.Context, string, model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatusFn func(context.Context, string, model.PaymentStatus) (*model.Order, error)
	InitializePaymentFn   func(context.Context, string) (*model.PaymentSession, error)
	VerifyPaymentFn       func(context.Context, string) (*model.Reconciliation, error)
	HandleWebhookFn       func(context.Context, []byte, string) (*model.Reconciliation, error)
	CurrentStockFn        func(context.Context) (*model.StockPeriod, error)
	StockSnapshotFn       func(context.Context, time.Time) (*model.StockPeriod, error)
	ResetStockFn          func(context.Context, time.Time, int) (*model.StockPeriod, error)
	ReserveStockFn        func(context.Context, int) (*model.StockPeriod, error)
	ReleaseStockFn        func(context.Context, time.Time, int) (*model.StockPeriod, error)
	PriceTable            map[string]int64
	QuoteFn               func(context.Context, string, string) model.DeliveryQuote
	ValidateDiscountFn    func(context.Context, string, int64) (model.DiscountResult, error)
	DiscountsFn           func(context.Context) ([]model.DiscountCode, error)
	DiscountFn            func(context.Context, string) (*model.DiscountCode, error)
	CreateDiscountFn      func(context.Context, *model.DiscountCode) error
	UpdateDiscountFn      func(context.Context, *model.DiscountCode) error
	DeleteDiscountFn      func(context.Context, string) error
	InvoicesFn            func(context.Context) ([]model.Invoice, error)
	InvoiceFn             func(context.Context, int64) (*model.Invoice, error)
	CreateInvoiceFn       func(context.Context, usecase.InvoiceInput) (*model.Invoice, error)
	UpdateInvoiceFn       func(context.Context, int64, usecase.InvoiceInput) (*model.Invoice, error)
	UpdateInvoiceStatusFn func(context.Context, int64, model.InvoiceStatus) (*model.Invoice, error)
}

// SampleOrder returns a pending pickup order with one line.
func SampleOrder(number string) *model.Order {
	return &model.Order{
		ID:            1,
		Number:        number,
		Customer:      model.Customer{Name: "Ada Obi", Phone: "08031234567"},
		Items:         []model.LineItem{{Size: "1L", Quantity: 2, UnitPrice: 2000}},
		DeliveryType:  model.DeliveryTypePickup,
		Subtotal:      4000,
		TotalAmount:   4000,
		PaymentMethod: model.PaymentMethodCashOnDelivery,
		PaymentStatus: model.PaymentStatusPending,
		Status:        model.OrderStatusPending,
		CreatedAt:     time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
	}
}

func (s ShopFacadeStub) Login(ctx context.Context, username, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, username, password)
	}
	return "token", nil
}

func (s ShopFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return "admin", nil
}

func (s ShopFacadeStub) CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*usecase.CreateOrderResult, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, in)
	}
	return &usecase.CreateOrderResult{Order: SampleOrder("PW-K7QX3M")}, nil
}

func (s ShopFacadeStub) Order(ctx context.Context, number string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, number)
	}
	return SampleOrder(number), nil
}

func (s ShopFacadeStub) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter)
	}
	return []model.Order{*SampleOrder("PW-K7QX3M")}, nil
}

func (s ShopFacadeStub) CancelOrder(ctx context.Context, number string) (*model.Order, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, number)
	}
	order := SampleOrder(number)
	order.Status = model.OrderStatusCancelled
	return order, nil
}

func (s ShopFacadeStub) UpdateOrderStatus(ctx context.Context, number string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateOrderStatusFn != nil {
		return s.UpdateOrderStatusFn(ctx, number, status)
	}
	order := SampleOrder(number)
	order.Status = status
	return order, nil
}

func (s ShopFacadeStub) UpdatePaymentStatus(ctx context.Context, number string, status model.PaymentStatus) (*model.Order, error) {
	if s.UpdatePaymentStatusFn != nil {
		return s.UpdatePaymentStatusFn(ctx, number, status)
	}
	order := SampleOrder(number)
	order.PaymentStatus = status
	return order, nil
}

func (s ShopFacadeStub) InitializePayment(ctx context.Context, number string) (*model.PaymentSession, error) {
	if s.InitializePaymentFn != nil {
		return s.InitializePaymentFn(ctx, number)
	}
	return &model.PaymentSession{Reference: number + "-0a1b2c3d", AuthorizationURL: "https://checkout.example/" + number}, nil
}

func (s ShopFacadeStub) VerifyPayment(ctx context.Context, reference string) (*model.Reconciliation, error) {
	if s.VerifyPaymentFn != nil {
		return s.VerifyPaymentFn(ctx, reference)
	}
	order := SampleOrder("PW-K7QX3M")
	order.PaymentStatus = model.PaymentStatusPaid
	return &model.Reconciliation{Order: order}, nil
}

func (s ShopFacadeStub) HandleWebhook(ctx context.Context, body []byte, signature string) (*model.Reconciliation, error) {
	if s.HandleWebhookFn != nil {
		return s.HandleWebhookFn(ctx, body, signature)
	}
	return nil, nil
}

func (s ShopFacadeStub) CurrentStock(ctx context.Context) (*model.StockPeriod, error) {
	if s.CurrentStockFn != nil {
		return s.CurrentStockFn(ctx)
	}
	return &model.StockPeriod{PeriodStart: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Total: 100, Sold: 40}, nil
}

func (s ShopFacadeStub) StockSnapshot(ctx context.Context, at time.Time) (*model.StockPeriod, error) {
	if s.StockSnapshotFn != nil {
		return s.StockSnapshotFn(ctx, at)
	}
	return &model.StockPeriod{PeriodStart: at, Total: 100}, nil
}

func (s ShopFacadeStub) ResetStock(ctx context.Context, period time.Time, total int) (*model.StockPeriod, error) {
	if s.ResetStockFn != nil {
		return s.ResetStockFn(ctx, period, total)
	}
	return &model.StockPeriod{PeriodStart: period, Total: total}, nil
}

func (s ShopFacadeStub) ReserveStock(ctx context.Context, quantity int) (*model.StockPeriod, error) {
	if s.ReserveStockFn != nil {
		return s.ReserveStockFn(ctx, quantity)
	}
	return &model.StockPeriod{PeriodStart: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Total: 100, Sold: 40 + quantity}, nil
}

func (s ShopFacadeStub) ReleaseStock(ctx context.Context, period time.Time, quantity int) (*model.StockPeriod, error) {
	if s.ReleaseStockFn != nil {
		return s.ReleaseStockFn(ctx, period, quantity)
	}
	return &model.StockPeriod{PeriodStart: period, Total: 100, Sold: 40 - quantity}, nil
}

func (s ShopFacadeStub) Prices() map[string]int64 {
	if s.PriceTable != nil {
		return s.PriceTable
	}
	return map[string]int64{"1L": 2000}
}

func (s ShopFacadeStub) QuoteDelivery(ctx context.Context, zone, address string) model.DeliveryQuote {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, zone, address)
	}
	return model.DeliveryQuote{Fee: 1500, Zone: zone}
}

func (s ShopFacadeStub) ValidateDiscount(ctx context.Context, code string, orderTotal int64) (model.DiscountResult, error) {
	if s.ValidateDiscountFn != nil {
		return s.ValidateDiscountFn(ctx, code, orderTotal)
	}
	return model.DiscountResult{Code: code, Valid: true, Amount: orderTotal / 10}, nil
}

func (s ShopFacadeStub) Discounts(ctx context.Context) ([]model.DiscountCode, error) {
	if s.DiscountsFn != nil {
		return s.DiscountsFn(ctx)
	}
	return []model.DiscountCode{{Code: "PALM10", Type: model.DiscountTypePercentage, Value: 10, IsActive: true}}, nil
}

func (s ShopFacadeStub) Discount(ctx context.Context, code string) (*model.DiscountCode, error) {
	if s.DiscountFn != nil {
		return s.DiscountFn(ctx, code)
	}
	return &model.DiscountCode{Code: code, Type: model.DiscountTypeFixed, Value: 500, IsActive: true}, nil
}

func (s ShopFacadeStub) CreateDiscount(ctx context.Context, d *model.DiscountCode) error {
	if s.CreateDiscountFn != nil {
		return s.CreateDiscountFn(ctx, d)
	}
	return nil
}

func (s ShopFacadeStub) UpdateDiscount(ctx context.Context, d *model.DiscountCode) error {
	if s.UpdateDiscountFn != nil {
		return s.UpdateDiscountFn(ctx, d)
	}
	return nil
}

func (s ShopFacadeStub) DeleteDiscount(ctx context.Context, code string) error {
	if s.DeleteDiscountFn != nil {
		return s.DeleteDiscountFn(ctx, code)
	}
	return nil
}

func (s ShopFacadeStub) Invoices(ctx context.Context) ([]model.Invoice, error) {
	if s.InvoicesFn != nil {
		return s.InvoicesFn(ctx)
	}
	return []model.Invoice{{ID: 1, Number: "INV-20240603-0001", CustomerName: "Ada Obi", Quantity: 1, Status: model.InvoiceStatusDraft}}, nil
}

func (s ShopFacadeStub) Invoice(ctx context.Context, id int64) (*model.Invoice, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, id)
	}
	return &model.Invoice{ID: id, Number: "INV-20240603-0001", CustomerName: "Ada Obi", Quantity: 1, Status: model.InvoiceStatusDraft}, nil
}

func (s ShopFacadeStub) CreateInvoice(ctx context.Context, in usecase.InvoiceInput) (*model.Invoice, error) {
	if s.CreateInvoiceFn != nil {
		return s.CreateInvoiceFn(ctx, in)
	}
	return &model.Invoice{ID: 1, Number: "INV-20240603-0001", CustomerName: in.CustomerName, Quantity: in.Quantity, UnitPrice: in.UnitPrice, Status: model.InvoiceStatusDraft}, nil
}

func (s ShopFacadeStub) UpdateInvoice(ctx context.Context, id int64, in usecase.InvoiceInput) (*model.Invoice, error) {
	if s.UpdateInvoiceFn != nil {
		return s.UpdateInvoiceFn(ctx, id, in)
	}
	return &model.Invoice{ID: id, CustomerName: in.CustomerName, Quantity: in.Quantity, Status: model.InvoiceStatusDraft}, nil
}

func (s ShopFacadeStub) UpdateInvoiceStatus(ctx context.Context, id int64, status model.InvoiceStatus) (*model.Invoice, error) {
	if s.UpdateInvoiceStatusFn != nil {
		return s.UpdateInvoiceStatusFn(ctx, id, status)
	}
	return &model.Invoice{ID: id, Status: status}, nil
}
