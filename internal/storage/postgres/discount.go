package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
)

const discountColumns = `id, code, discount_type, value, min_order_amount, max_uses, used_count,
       expires_at, is_active, description, created_at, updated_at`

func scanDiscount(row pgx.Row) (*model.DiscountCode, error) {
	var d model.DiscountCode
	err := row.Scan(&d.ID, &d.Code, &d.Type, &d.Value, &d.MinOrderAmount, &d.MaxUses, &d.UsedCount,
		&d.ExpiresAt, &d.IsActive, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *discountRepository) Create(ctx context.Context, code *model.DiscountCode) error {
	const query = `INSERT INTO discount_codes (code, discount_type, value, min_order_amount, max_uses, expires_at, is_active, description)
                   VALUES (UPPER($1), $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, code, used_count, created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		code.Code, code.Type, code.Value, code.MinOrderAmount, code.MaxUses, code.ExpiresAt, code.IsActive, code.Description,
	).Scan(&code.ID, &code.Code, &code.UsedCount, &code.CreatedAt, &code.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *discountRepository) Update(ctx context.Context, code *model.DiscountCode) error {
	const query = `UPDATE discount_codes
                   SET discount_type=$2, value=$3, min_order_amount=$4, max_uses=$5, expires_at=$6,
                       is_active=$7, description=$8, updated_at=NOW()
                   WHERE code=UPPER($1)
                   RETURNING id, used_count, created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		code.Code, code.Type, code.Value, code.MinOrderAmount, code.MaxUses, code.ExpiresAt, code.IsActive, code.Description,
	).Scan(&code.ID, &code.UsedCount, &code.CreatedAt, &code.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *discountRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM discount_codes WHERE code=UPPER($1)`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE code=UPPER($1)`
	d, err := scanDiscount(r.storage.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *discountRepository) List(ctx context.Context) ([]model.DiscountCode, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+discountColumns+` FROM discount_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DiscountCode
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *discountRepository) Redeem(ctx context.Context, code string) error {
	const query = `UPDATE discount_codes SET used_count = used_count + 1, updated_at=NOW()
                   WHERE code=UPPER($1) AND (max_uses IS NULL OR used_count < max_uses)`
	tag, err := r.storage.pool.Exec(ctx, query, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByCode(ctx, code); err != nil {
			return err
		}
		return domainErrors.ErrDiscountExhausted
	}
	return nil
}
