package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount is a percentage-off code with an optional expiry and usage cap.
type Discount struct {
	Code       string          `json:"code" db:"code"`
	Percentage decimal.Decimal `json:"percentage" db:"percentage"`
	MaxUses    int             `json:"max_uses" db:"max_uses"`
	UsedCount  int             `json:"used_count" db:"used_count"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty" db:"expires_at"`
	IsActive   bool            `json:"is_active" db:"is_active"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// Usable reports whether the discount may still be applied at time now.
func (d *Discount) Usable(now time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
		return false
	}
	if d.MaxUses > 0 && d.UsedCount >= d.MaxUses {
		return false
	}
	return true
}

// CreateDiscountRequest represents the admin payload for creating a discount.
type CreateDiscountRequest struct {
	Code       string          `json:"code"`
	Percentage decimal.Decimal `json:"percentage"`
	MaxUses    int             `json:"max_uses"`
	ExpiresAt  *time.Time      `json:"expires_at"`
}

// ImportDiscountsRequest represents the admin payload for a bulk code import.
// Each file is a gzipped list of codes, one per line; all imported codes share
// the given percentage and usage cap.
type ImportDiscountsRequest struct {
	Files      []string        `json:"files"`
	Percentage decimal.Decimal `json:"percentage"`
	MaxUses    int             `json:"max_uses"`
}

// ImportDiscountsResponse reports how many codes a bulk import wrote.
type ImportDiscountsResponse struct {
	Imported int `json:"imported"`
}
