package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
)

const invoiceColumns = `id, number, customer_name, customer_phone, customer_email, description, quantity,
       unit_price, delivery_fee, discount, total, status, due_date, created_at, updated_at`

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var inv model.Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.CustomerName, &inv.CustomerPhone, &inv.CustomerEmail, &inv.Description,
		&inv.Quantity, &inv.UnitPrice, &inv.DeliveryFee, &inv.Discount, &inv.Total, &inv.Status, &inv.DueDate,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	const query = `INSERT INTO invoices (number, customer_name, customer_phone, customer_email, description, quantity,
                       unit_price, delivery_fee, discount, total, status, due_date)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING id, created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		inv.Number, inv.CustomerName, inv.CustomerPhone, inv.CustomerEmail, inv.Description, inv.Quantity,
		inv.UnitPrice, inv.DeliveryFee, inv.Discount, inv.Total, inv.Status, inv.DueDate,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *model.Invoice) error {
	const query = `UPDATE invoices
                   SET customer_name=$2, customer_phone=$3, customer_email=$4, description=$5, quantity=$6,
                       unit_price=$7, delivery_fee=$8, discount=$9, total=$10, due_date=$11, updated_at=NOW()
                   WHERE id=$1
                   RETURNING number, status, created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		inv.ID, inv.CustomerName, inv.CustomerPhone, inv.CustomerEmail, inv.Description, inv.Quantity,
		inv.UnitPrice, inv.DeliveryFee, inv.Discount, inv.Total, inv.DueDate,
	).Scan(&inv.Number, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id=$1`
	inv, err := scanInvoice(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]model.Invoice, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id int64, from, to model.InvoiceStatus) (*model.Invoice, error) {
	query := `UPDATE invoices SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2 RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.storage.pool.QueryRow(ctx, query, id, from, to))
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domainErrors.ErrConcurrentUpdate
}
