package handlers

import (
	"context"
	"time"

	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/usecase"
)

// AuthFacade describes admin authentication required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, username, password string) (string, error)
	ParseToken(token string) (string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*usecase.CreateOrderResult, error)
	Order(ctx context.Context, number string) (*model.Order, error)
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	CancelOrder(ctx context.Context, number string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, number string, status model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, number string, status model.PaymentStatus) (*model.Order, error)
}

// PaymentFacade opens checkouts and reconciles their outcome.
type PaymentFacade interface {
	InitializePayment(ctx context.Context, number string) (*model.PaymentSession, error)
	VerifyPayment(ctx context.Context, reference string) (*model.Reconciliation, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) (*model.Reconciliation, error)
}

// CatalogFacade covers stock, prices and delivery quotes.
type CatalogFacade interface {
	CurrentStock(ctx context.Context) (*model.StockPeriod, error)
	StockSnapshot(ctx context.Context, at time.Time) (*model.StockPeriod, error)
	ResetStock(ctx context.Context, period time.Time, total int) (*model.StockPeriod, error)
	ReserveStock(ctx context.Context, quantity int) (*model.StockPeriod, error)
	ReleaseStock(ctx context.Context, period time.Time, quantity int) (*model.StockPeriod, error)
	Prices() map[string]int64
	QuoteDelivery(ctx context.Context, zone, address string) model.DeliveryQuote
}

// DiscountFacade validates and manages discount codes.
type DiscountFacade interface {
	ValidateDiscount(ctx context.Context, code string, orderTotal int64) (model.DiscountResult, error)
	Discounts(ctx context.Context) ([]model.DiscountCode, error)
	Discount(ctx context.Context, code string) (*model.DiscountCode, error)
	CreateDiscount(ctx context.Context, d *model.DiscountCode) error
	UpdateDiscount(ctx context.Context, d *model.DiscountCode) error
	DeleteDiscount(ctx context.Context, code string) error
}

// InvoiceFacade manages manual invoices.
type InvoiceFacade interface {
	Invoices(ctx context.Context) ([]model.Invoice, error)
	Invoice(ctx context.Context, id int64) (*model.Invoice, error)
	CreateInvoice(ctx context.Context, in usecase.InvoiceInput) (*model.Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, in usecase.InvoiceInput) (*model.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id int64, status model.InvoiceStatus) (*model.Invoice, error)
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	AuthFacade
	OrderFacade
	PaymentFacade
	CatalogFacade
	DiscountFacade
	InvoiceFacade
}
