package model

import "time"

// DiscountType selects how the discount value is applied.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Valid reports whether discount type is known.
func (t DiscountType) Valid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// DiscountReason explains why a code was rejected.
type DiscountReason string

const (
	DiscountReasonNotFound       DiscountReason = "not_found"
	DiscountReasonInactive       DiscountReason = "inactive"
	DiscountReasonExpired        DiscountReason = "expired"
	DiscountReasonMaxUsesReached DiscountReason = "max_uses_reached"
	DiscountReasonBelowMinimum   DiscountReason = "below_minimum"
)

// DiscountCode is a promotional rule stored upper-cased.
type DiscountCode struct {
	ID             int64
	Code           string
	Type           DiscountType
	Value          int64
	MinOrderAmount *int64
	MaxUses        *int
	UsedCount      int
	ExpiresAt      *time.Time
	IsActive       bool
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DiscountResult is the outcome of validating a code against an order total.
type DiscountResult struct {
	Code   string
	Valid  bool
	Amount int64
	Reason DiscountReason
}

// Evaluate checks eligibility at now and computes the discount for orderTotal.
func (d *DiscountCode) Evaluate(orderTotal int64, now time.Time) DiscountResult {
	result := DiscountResult{Code: d.Code}
	switch {
	case !d.IsActive:
		result.Reason = DiscountReasonInactive
	case d.ExpiresAt != nil && !now.Before(*d.ExpiresAt):
		result.Reason = DiscountReasonExpired
	case d.MaxUses != nil && d.UsedCount >= *d.MaxUses:
		result.Reason = DiscountReasonMaxUsesReached
	case d.MinOrderAmount != nil && orderTotal < *d.MinOrderAmount:
		result.Reason = DiscountReasonBelowMinimum
	default:
		result.Valid = true
		result.Amount = d.Amount(orderTotal)
	}
	return result
}

// Amount computes the discount for orderTotal without eligibility checks.
func (d *DiscountCode) Amount(orderTotal int64) int64 {
	if orderTotal <= 0 {
		return 0
	}
	var amount int64
	switch d.Type {
	case DiscountTypePercentage:
		amount = (orderTotal*d.Value + 50) / 100
	case DiscountTypeFixed:
		amount = d.Value
	}
	if amount > orderTotal {
		amount = orderTotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}
