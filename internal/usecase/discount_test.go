package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	testhelpers "github.com/polkiloo/palmwine/internal/test"
)

func TestDiscountValidate(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	cases := []struct {
		name       string
		code       model.DiscountCode
		total      int64
		wantValid  bool
		wantAmount int64
		wantReason model.DiscountReason
	}{
		{
			name:       "fixed with minimum met",
			code:       model.DiscountCode{Code: "SAVE1500", Type: model.DiscountTypeFixed, Value: 1500, MinOrderAmount: ptr(int64(5000)), IsActive: true},
			total:      10000,
			wantValid:  true,
			wantAmount: 1500,
		},
		{
			name:       "below minimum",
			code:       model.DiscountCode{Code: "SAVE1500", Type: model.DiscountTypeFixed, Value: 1500, MinOrderAmount: ptr(int64(5000)), IsActive: true},
			total:      3000,
			wantReason: model.DiscountReasonBelowMinimum,
		},
		{
			name:       "fixed larger than total is capped",
			code:       model.DiscountCode{Code: "BIG", Type: model.DiscountTypeFixed, Value: 9000, IsActive: true},
			total:      4000,
			wantValid:  true,
			wantAmount: 4000,
		},
		{
			name:       "percentage rounds",
			code:       model.DiscountCode{Code: "TEN", Type: model.DiscountTypePercentage, Value: 10, IsActive: true},
			total:      4005,
			wantValid:  true,
			wantAmount: 401,
		},
		{
			name:       "inactive",
			code:       model.DiscountCode{Code: "OFF", Type: model.DiscountTypeFixed, Value: 100},
			total:      4000,
			wantReason: model.DiscountReasonInactive,
		},
		{
			name:       "expired",
			code:       model.DiscountCode{Code: "OLD", Type: model.DiscountTypeFixed, Value: 100, IsActive: true, ExpiresAt: &past},
			total:      4000,
			wantReason: model.DiscountReasonExpired,
		},
		{
			name:       "not yet expired",
			code:       model.DiscountCode{Code: "NEW", Type: model.DiscountTypeFixed, Value: 100, IsActive: true, ExpiresAt: &future},
			total:      4000,
			wantValid:  true,
			wantAmount: 100,
		},
		{
			name:       "max uses reached",
			code:       model.DiscountCode{Code: "ONCE", Type: model.DiscountTypeFixed, Value: 100, IsActive: true, MaxUses: ptr(1), UsedCount: 1},
			total:      4000,
			wantReason: model.DiscountReasonMaxUsesReached,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.store.SeedDiscount(tc.code)

			result, err := h.discounts.Validate(context.Background(), " "+tc.code.Code+" ", tc.total)
			require.NoError(t, err)
			assert.Equal(t, tc.wantValid, result.Valid)
			assert.Equal(t, tc.wantAmount, result.Amount)
			assert.Equal(t, tc.wantReason, result.Reason)
			assert.LessOrEqual(t, result.Amount, tc.total)
		})
	}
}

func TestDiscountValidateUnknownAndCaseInsensitive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.SeedDiscount(model.DiscountCode{Code: "WELCOME", Type: model.DiscountTypePercentage, Value: 15, IsActive: true})

	result, err := h.discounts.Validate(ctx, "nope", 1000)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, model.DiscountReasonNotFound, result.Reason)

	result, err = h.discounts.Validate(ctx, "", 1000)
	require.NoError(t, err)
	assert.Equal(t, model.DiscountReasonNotFound, result.Reason)

	result, err = h.discounts.Validate(ctx, "welcome", 3333)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "WELCOME", result.Code)
	assert.Equal(t, int64(500), result.Amount)
}

func TestDiscountValidatePropagatesStorageErrors(t *testing.T) {
	h := newHarness(t)
	h.store.Err = assert.AnError
	_, err := h.discounts.Validate(context.Background(), "WELCOME", 1000)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDiscountRedeemRespectsMaxUses(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.store.SeedDiscount(model.DiscountCode{Code: "TWICE", Type: model.DiscountTypeFixed, Value: 100, IsActive: true, MaxUses: ptr(2)})

	require.NoError(t, h.discounts.Redeem(ctx, "twice"))
	require.NoError(t, h.discounts.Redeem(ctx, "TWICE"))
	assert.ErrorIs(t, h.discounts.Redeem(ctx, "twice"), domainErrors.ErrDiscountExhausted)
	assert.Equal(t, 2, h.store.Discount("TWICE").UsedCount)
}

func TestDiscountAdminLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	code := testhelpers.FakeCode()

	d := &model.DiscountCode{Code: " " + code + " ", Type: model.DiscountTypePercentage, Value: 20, IsActive: true}
	require.NoError(t, h.discounts.Create(ctx, d))
	assert.Equal(t, code, d.Code)

	assert.ErrorIs(t, h.discounts.Create(ctx, &model.DiscountCode{Code: code, Type: model.DiscountTypeFixed, Value: 1}), domainErrors.ErrAlreadyExists)

	require.NoError(t, h.discounts.Redeem(ctx, code))
	update := &model.DiscountCode{Code: code, Type: model.DiscountTypeFixed, Value: 700, IsActive: false, Description: "paused"}
	require.NoError(t, h.discounts.Update(ctx, update))
	assert.Equal(t, 1, update.UsedCount, "update must keep the usage counter")

	got, err := h.discounts.Get(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, int64(700), got.Value)
	assert.False(t, got.IsActive)

	list, err := h.discounts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, h.discounts.Delete(ctx, code))
	assert.ErrorIs(t, h.discounts.Delete(ctx, code), domainErrors.ErrNotFound)
}

func TestDiscountRuleValidation(t *testing.T) {
	cases := map[string]struct {
		code  model.DiscountCode
		field string
	}{
		"missing code":        {model.DiscountCode{Type: model.DiscountTypeFixed, Value: 1}, "code"},
		"long code":           {model.DiscountCode{Code: "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", Type: model.DiscountTypeFixed, Value: 1}, "code"},
		"unknown type":        {model.DiscountCode{Code: "X", Type: "bogo", Value: 1}, "discount_type"},
		"zero value":          {model.DiscountCode{Code: "X", Type: model.DiscountTypeFixed}, "value"},
		"percentage over 100": {model.DiscountCode{Code: "X", Type: model.DiscountTypePercentage, Value: 101}, "value"},
		"negative minimum":    {model.DiscountCode{Code: "X", Type: model.DiscountTypeFixed, Value: 1, MinOrderAmount: ptr(int64(-1))}, "min_order_amount"},
		"zero max uses":       {model.DiscountCode{Code: "X", Type: model.DiscountTypeFixed, Value: 1, MaxUses: ptr(0)}, "max_uses"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			code := tc.code
			err := h.discounts.Create(context.Background(), &code)
			var verr *domainErrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
