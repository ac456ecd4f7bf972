package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
)

const orderColumns = `id, number, customer_name, customer_phone, customer_email, items, delivery_type,
       address, zone, delivery_fee, discount_code, discount_amount, subtotal, total_amount,
       payment_method, payment_status, payment_reference, authorization_url, status,
       stock_period, notes, created_at, updated_at`

type itemRecord struct {
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

func encodeItems(items []model.LineItem) ([]byte, error) {
	records := make([]itemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, itemRecord{Size: item.Size, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	return json.Marshal(records)
}

func decodeItems(raw []byte) ([]model.LineItem, error) {
	var records []itemRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	items := make([]model.LineItem, 0, len(records))
	for _, r := range records {
		items = append(items, model.LineItem{Size: r.Size, Quantity: r.Quantity, UnitPrice: r.UnitPrice})
	}
	return items, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o     model.Order
		items []byte
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Email, &items, &o.DeliveryType,
		&o.Address, &o.Zone, &o.DeliveryFee, &o.DiscountCode, &o.DiscountAmount, &o.Subtotal, &o.TotalAmount,
		&o.PaymentMethod, &o.PaymentStatus, &o.PaymentReference, &o.AuthorizationURL, &o.Status,
		&o.StockPeriod, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if o.Items, err = decodeItems(items); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}

	const insert = `INSERT INTO orders (number, customer_name, customer_phone, customer_email, items, delivery_type,
                        address, zone, delivery_fee, discount_code, discount_amount, subtotal, total_amount,
                        payment_method, payment_status, status, stock_period, notes)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
                    RETURNING id, created_at, updated_at`

	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := reserveStock(ctx, tx, order.StockPeriod, order.Quantity()); err != nil {
			return err
		}
		return tx.QueryRow(ctx, insert,
			order.Number, order.Customer.Name, order.Customer.Phone, order.Customer.Email, items, order.DeliveryType,
			order.Address, order.Zone, order.DeliveryFee, order.DiscountCode, order.DiscountAmount, order.Subtotal, order.TotalAmount,
			order.PaymentMethod, order.PaymentStatus, order.Status, order.StockPeriod, order.Notes,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number=UPPER($1)`
	return r.getOne(ctx, r.storage.pool, query, number)
}

func (r *orderRepository) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_reference=$1`
	return r.getOne(ctx, r.storage.pool, query, reference)
}

func (r *orderRepository) getByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return r.getOne(ctx, r.storage.pool, query, id)
}

func (r *orderRepository) getOne(ctx context.Context, q querier, query string, arg any) (*model.Order, error) {
	order, err := scanOrder(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		conditions = append(conditions, fmt.Sprintf("payment_status=$%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, number string, from, to model.OrderStatus) (*model.Order, error) {
	query := `UPDATE orders SET status=$3, updated_at=NOW()
              WHERE number=UPPER($1) AND status=$2
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, number, from, to))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := r.GetByNumber(ctx, number); err != nil {
		return nil, err
	}
	return nil, domainErrors.ErrConcurrentUpdate
}

func (r *orderRepository) Cancel(ctx context.Context, number string, restoreDiscount bool) (*model.Order, error) {
	var cancelled *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE number=UPPER($1) FOR UPDATE`
		order, err := r.getOne(ctx, tx, query, number)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusCancelled {
			return domainErrors.ErrAlreadyCancelled
		}
		if !order.Status.Cancellable() {
			return domainErrors.ErrInvalidTransition
		}

		const update = `UPDATE orders SET status='cancelled', updated_at=NOW() WHERE id=$1 RETURNING updated_at`
		if err := tx.QueryRow(ctx, update, order.ID).Scan(&order.UpdatedAt); err != nil {
			return err
		}
		if err := releaseStock(ctx, tx, order.StockPeriod, order.Quantity()); err != nil {
			return err
		}
		if restoreDiscount && order.DiscountCode != nil {
			const restore = `UPDATE discount_codes SET used_count = GREATEST(used_count - 1, 0), updated_at=NOW() WHERE code=$1`
			if _, err := tx.Exec(ctx, restore, *order.DiscountCode); err != nil {
				return err
			}
		}
		order.Status = model.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id int64) (*model.Order, bool, error) {
	query := `UPDATE orders SET payment_status='paid', updated_at=NOW()
              WHERE id=$1 AND payment_status <> 'paid'
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	current, err := r.getByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *orderRepository) SetPaymentSession(ctx context.Context, id int64, reference, authorizationURL string) (bool, error) {
	const query = `UPDATE orders SET payment_reference=$2, authorization_url=$3, updated_at=NOW()
                   WHERE id=$1 AND payment_reference IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, id, reference, authorizationURL)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domainErrors.ErrAlreadyExists
		}
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
