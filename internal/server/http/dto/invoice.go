package dto

import "time"

// InvoiceRequest creates or edits an invoice.
type InvoiceRequest struct {
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	CustomerEmail string     `json:"customer_email"`
	Description   string     `json:"description"`
	Quantity      int        `json:"quantity"`
	UnitPrice     int64      `json:"unit_price"`
	DeliveryFee   int64      `json:"delivery_fee"`
	Discount      int64      `json:"discount"`
	DueDate       *time.Time `json:"due_date"`
}

// InvoiceResponse is the admin view of an invoice.
type InvoiceResponse struct {
	ID            int64      `json:"id"`
	Number        string     `json:"invoice_number"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	CustomerEmail string     `json:"customer_email,omitempty"`
	Description   string     `json:"description,omitempty"`
	Quantity      int        `json:"quantity"`
	UnitPrice     int64      `json:"unit_price"`
	DeliveryFee   int64      `json:"delivery_fee"`
	Discount      int64      `json:"discount"`
	Total         int64      `json:"total"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
