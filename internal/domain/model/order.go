package model

import "time"

// OrderStatus describes fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus moves only from pending to paid.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// DeliveryType selects how the order leaves the shop.
type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// PaymentMethod selects how the customer settles the order.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodOnline         PaymentMethod = "online"
)

var fulfillmentRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusCompleted: 2,
	OrderStatusDelivered: 3,
}

// Valid reports whether status is known.
func (s OrderStatus) Valid() bool {
	_, ok := fulfillmentRank[s]
	return ok || s == OrderStatusCancelled
}

// CanAdvanceTo reports whether a forward move along the fulfillment path is allowed.
// Cancellation is not an advance; see Cancellable.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, ok := fulfillmentRank[s]
	if !ok {
		return false
	}
	to, ok := fulfillmentRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Cancellable reports whether the order may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// Valid reports whether payment status is known.
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

// Valid reports whether delivery type is known.
func (d DeliveryType) Valid() bool {
	return d == DeliveryTypePickup || d == DeliveryTypeDelivery
}

// Valid reports whether payment method is known.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCashOnDelivery || m == PaymentMethodOnline
}

// Customer holds contact details captured at checkout.
type Customer struct {
	Name  string
	Phone string
	Email string
}

// LineItem is one bottle size in the cart.
type LineItem struct {
	Size      string
	Quantity  int
	UnitPrice int64
}

// Subtotal returns quantity times unit price.
func (i LineItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Order describes a customer purchase. Amounts are whole naira.
type Order struct {
	ID               int64
	Number           string
	Customer         Customer
	Items            []LineItem
	DeliveryType     DeliveryType
	Address          string
	Zone             string
	DeliveryFee      int64
	DiscountCode     *string
	DiscountAmount   int64
	Subtotal         int64
	TotalAmount      int64
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	PaymentReference *string
	AuthorizationURL *string
	Status           OrderStatus
	StockPeriod      time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Quantity returns the number of bottles across all items.
func (o *Order) Quantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// ItemsSubtotal sums line item subtotals.
func (o *Order) ItemsSubtotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// ComputeTotal returns subtotal + fee - discount clamped at zero.
func ComputeTotal(subtotal, deliveryFee, discount int64) int64 {
	total := subtotal + deliveryFee - discount
	if total < 0 {
		return 0
	}
	return total
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Limit         int
	Offset        int
}
