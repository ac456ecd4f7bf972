package dto

import "time"

// OrderItemRequest is one cart line. Prices come from the catalog.
type OrderItemRequest struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest describes checkout payload.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerEmail string             `json:"customer_email"`
	Items         []OrderItemRequest `json:"items"`
	DeliveryType  string             `json:"delivery_type"`
	Address       string             `json:"delivery_address"`
	Zone          string             `json:"delivery_zone"`
	PaymentMethod string             `json:"payment_method"`
	DiscountCode  string             `json:"discount_code"`
	Notes         string             `json:"notes"`
}

// OrderItemResponse is a priced cart line.
type OrderItemResponse struct {
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	Number           string              `json:"order_number"`
	CustomerName     string              `json:"customer_name"`
	CustomerPhone    string              `json:"customer_phone"`
	CustomerEmail    string              `json:"customer_email,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	DeliveryType     string              `json:"delivery_type"`
	Address          string              `json:"delivery_address,omitempty"`
	Zone             string              `json:"delivery_zone,omitempty"`
	Subtotal         int64               `json:"subtotal"`
	DeliveryFee      int64               `json:"delivery_fee"`
	DiscountCode     *string             `json:"discount_code,omitempty"`
	DiscountAmount   int64               `json:"discount_amount"`
	TotalAmount      int64               `json:"total_amount"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentReference *string             `json:"payment_reference,omitempty"`
	Status           string              `json:"status"`
	Notes            string              `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// CreateOrderResponse adds the discount outcome to the created order.
type CreateOrderResponse struct {
	Order    OrderResponse     `json:"order"`
	Discount *DiscountResponse `json:"discount,omitempty"`
}

// StatusRequest carries a target order, payment or invoice status.
type StatusRequest struct {
	Status string `json:"status"`
}
