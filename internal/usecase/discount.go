package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/domain/repository"
	"github.com/polkiloo/palmwine/internal/metrics"
)

// DiscountUseCase validates, redeems and administers discount codes.
type DiscountUseCase struct {
	discounts repository.DiscountRepository
	now       func() time.Time
	logger    *slog.Logger
}

// NewDiscountUseCase constructs DiscountUseCase.
func NewDiscountUseCase(discounts repository.DiscountRepository, logger *slog.Logger) *DiscountUseCase {
	return &DiscountUseCase{discounts: discounts, now: time.Now, logger: logger}
}

// NormalizeCode canonicalizes a discount code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate evaluates code against orderTotal. Ineligibility is reported in the result, not as an error.
func (u *DiscountUseCase) Validate(ctx context.Context, code string, orderTotal int64) (model.DiscountResult, error) {
	code = NormalizeCode(code)
	if code == "" {
		return model.DiscountResult{Reason: model.DiscountReasonNotFound}, nil
	}

	d, err := u.discounts.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			metrics.DiscountOutcomes.WithLabelValues(string(model.DiscountReasonNotFound)).Inc()
			return model.DiscountResult{Code: code, Reason: model.DiscountReasonNotFound}, nil
		}
		return model.DiscountResult{}, err
	}

	result := d.Evaluate(orderTotal, u.now())
	outcome := "valid"
	if !result.Valid {
		outcome = string(result.Reason)
	}
	metrics.DiscountOutcomes.WithLabelValues(outcome).Inc()
	return result, nil
}

// Redeem counts one use of code. It fails with ErrDiscountExhausted when max uses is reached.
func (u *DiscountUseCase) Redeem(ctx context.Context, code string) error {
	return u.discounts.Redeem(ctx, NormalizeCode(code))
}

// Create stores a new discount code.
func (u *DiscountUseCase) Create(ctx context.Context, d *model.DiscountCode) error {
	d.Code = NormalizeCode(d.Code)
	if err := checkDiscount(d); err != nil {
		return err
	}
	if err := u.discounts.Create(ctx, d); err != nil {
		return err
	}
	u.logger.Info("discount code created", slog.String("code", d.Code))
	return nil
}

// Update replaces the rule fields of an existing code. Usage counters are kept.
func (u *DiscountUseCase) Update(ctx context.Context, d *model.DiscountCode) error {
	d.Code = NormalizeCode(d.Code)
	if err := checkDiscount(d); err != nil {
		return err
	}
	return u.discounts.Update(ctx, d)
}

// Delete removes code.
func (u *DiscountUseCase) Delete(ctx context.Context, code string) error {
	return u.discounts.Delete(ctx, NormalizeCode(code))
}

// Get returns code.
func (u *DiscountUseCase) Get(ctx context.Context, code string) (*model.DiscountCode, error) {
	return u.discounts.GetByCode(ctx, NormalizeCode(code))
}

// List returns all codes, newest first.
func (u *DiscountUseCase) List(ctx context.Context) ([]model.DiscountCode, error) {
	return u.discounts.List(ctx)
}

func checkDiscount(d *model.DiscountCode) error {
	switch {
	case d.Code == "":
		return domainErrors.NewValidationError("code", "is required")
	case len(d.Code) > 32:
		return domainErrors.NewValidationError("code", "must be at most 32 characters")
	case !d.Type.Valid():
		return domainErrors.NewValidationError("discount_type", "must be one of: percentage, fixed")
	case d.Value <= 0:
		return domainErrors.NewValidationError("value", "must be greater than 0")
	case d.Type == model.DiscountTypePercentage && d.Value > 100:
		return domainErrors.NewValidationError("value", "must be at most 100 for percentage codes")
	case d.MinOrderAmount != nil && *d.MinOrderAmount < 0:
		return domainErrors.NewValidationError("min_order_amount", "must not be negative")
	case d.MaxUses != nil && *d.MaxUses < 1:
		return domainErrors.NewValidationError("max_uses", "must be at least 1")
	}
	return nil
}
