package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/domain/repository"
)

// InvoiceInput holds the editable invoice fields.
type InvoiceInput struct {
	CustomerName  string     `validate:"required,max=100"`
	CustomerPhone string     `validate:"omitempty,phone"`
	CustomerEmail string     `validate:"omitempty,email"`
	Description   string     `validate:"max=500"`
	Quantity      int        `validate:"min=1,max=100000"`
	UnitPrice     int64      `validate:"gte=0,max=100000000"`
	DeliveryFee   int64      `validate:"gte=0,max=10000000"`
	Discount      int64      `validate:"gte=0,max=10000000000000"`
	DueDate       *time.Time `validate:"-"`
}

// InvoiceUseCase manages manually issued invoices. Invoices never touch stock.
type InvoiceUseCase struct {
	invoices  repository.InvoiceRepository
	validate  *validator.Validate
	now       func() time.Time
	newNumber func(time.Time) (string, error)
	logger    *slog.Logger
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(invoices repository.InvoiceRepository, v *validator.Validate, logger *slog.Logger) *InvoiceUseCase {
	if v == nil {
		v = NewValidator()
	}
	return &InvoiceUseCase{invoices: invoices, validate: v, now: time.Now, newNumber: NewInvoiceNumber, logger: logger}
}

// Create issues a draft invoice.
func (u *InvoiceUseCase) Create(ctx context.Context, in InvoiceInput) (*model.Invoice, error) {
	inv := &model.Invoice{Status: model.InvoiceStatusDraft}
	if err := u.apply(inv, in); err != nil {
		return nil, err
	}

	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		if inv.Number, err = u.newNumber(u.now()); err != nil {
			return nil, fmt.Errorf("generate invoice number: %w", err)
		}
		err = u.invoices.Create(ctx, inv)
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	u.logger.Info("invoice created", slog.String("invoice", inv.Number), slog.Int64("total", inv.Total))
	return inv, nil
}

// Update edits a draft or sent invoice.
func (u *InvoiceUseCase) Update(ctx context.Context, id int64, in InvoiceInput) (*model.Invoice, error) {
	inv, err := u.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceStatusPaid || inv.Status == model.InvoiceStatusCancelled {
		return nil, domainErrors.ErrInvalidTransition
	}
	if err := u.apply(inv, in); err != nil {
		return nil, err
	}
	if err := u.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateStatus moves the invoice along draft, sent, paid or to cancelled.
func (u *InvoiceUseCase) UpdateStatus(ctx context.Context, id int64, to model.InvoiceStatus) (*model.Invoice, error) {
	if !to.Valid() {
		return nil, domainErrors.NewValidationError("status", "is invalid")
	}
	current, err := u.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == to {
		return current, nil
	}
	if !current.Status.CanMoveTo(to) {
		return nil, domainErrors.ErrInvalidTransition
	}
	return u.invoices.UpdateStatus(ctx, id, current.Status, to)
}

// Get returns an invoice by id.
func (u *InvoiceUseCase) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	return u.invoices.GetByID(ctx, id)
}

// List returns invoices, newest first.
func (u *InvoiceUseCase) List(ctx context.Context) ([]model.Invoice, error) {
	return u.invoices.List(ctx)
}

func (u *InvoiceUseCase) apply(inv *model.Invoice, in InvoiceInput) error {
	if err := validateInput(u.validate, in); err != nil {
		return err
	}
	gross := int64(in.Quantity)*in.UnitPrice + in.DeliveryFee
	if in.Discount > gross {
		return domainErrors.NewValidationError("discount", "must not exceed the invoice amount")
	}
	inv.CustomerName = strings.TrimSpace(in.CustomerName)
	inv.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	inv.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	inv.Description = strings.TrimSpace(in.Description)
	inv.Quantity = in.Quantity
	inv.UnitPrice = in.UnitPrice
	inv.DeliveryFee = in.DeliveryFee
	inv.Discount = in.Discount
	inv.DueDate = in.DueDate
	inv.Recalculate()
	return nil
}
