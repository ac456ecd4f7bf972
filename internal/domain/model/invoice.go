package model

import "time"

// InvoiceStatus describes invoice billing lifecycle.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft: {InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusSent:  {InvoiceStatusPaid, InvoiceStatusCancelled},
}

// Valid reports whether status is known.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanMoveTo reports whether the invoice may change to next.
func (s InvoiceStatus) CanMoveTo(next InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Invoice is a manually issued bill that does not touch stock.
type Invoice struct {
	ID            int64
	Number        string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Description   string
	Quantity      int
	UnitPrice     int64
	DeliveryFee   int64
	Discount      int64
	Total         int64
	Status        InvoiceStatus
	DueDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Recalculate refreshes Total from the billed fields.
func (i *Invoice) Recalculate() {
	i.Total = ComputeTotal(int64(i.Quantity)*i.UnitPrice, i.DeliveryFee, i.Discount)
}
