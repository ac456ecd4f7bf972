package dto

import "time"

// DiscountValidateRequest checks a code against an order total.
type DiscountValidateRequest struct {
	Code       string `json:"code"`
	OrderTotal int64  `json:"order_total"`
}

// DiscountResponse is the outcome of validating a code.
type DiscountResponse struct {
	Code   string `json:"code"`
	Valid  bool   `json:"valid"`
	Amount int64  `json:"discount_amount"`
	Reason string `json:"reason,omitempty"`
}

// DiscountCodeRequest creates or replaces a discount rule.
type DiscountCodeRequest struct {
	Code           string     `json:"code"`
	Type           string     `json:"type"`
	Value          int64      `json:"value"`
	MinOrderAmount *int64     `json:"min_order_amount"`
	MaxUses        *int       `json:"max_uses"`
	ExpiresAt      *time.Time `json:"expires_at"`
	IsActive       *bool      `json:"is_active"`
	Description    string     `json:"description"`
}

// DiscountCodeResponse is the admin view of a discount rule.
type DiscountCodeResponse struct {
	Code           string     `json:"code"`
	Type           string     `json:"type"`
	Value          int64      `json:"value"`
	MinOrderAmount *int64     `json:"min_order_amount,omitempty"`
	MaxUses        *int       `json:"max_uses,omitempty"`
	UsedCount      int        `json:"used_count"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	IsActive       bool       `json:"is_active"`
	Description    string     `json:"description,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
