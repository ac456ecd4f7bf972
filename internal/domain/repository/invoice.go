package repository

import (
	"context"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// InvoiceRepository stores manually issued invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Update(ctx context.Context, invoice *model.Invoice) error
	GetByID(ctx context.Context, id int64) (*model.Invoice, error)
	List(ctx context.Context) ([]model.Invoice, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.InvoiceStatus) (*model.Invoice, error)
}
