package models

import "time"

// PromoCode maps a code to a percentage discount with a minimum-order
// constraint. Codes are matched case-insensitively; the stored Code is
// the upper-cased canonical form.
type PromoCode struct {
	Code      string     `bson:"code" json:"code"`
	Discount  float64    `bson:"discount" json:"discount"` // fraction, 0-1
	MinAmount float64    `bson:"minAmount" json:"minAmount"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	MaxUses   int        `bson:"maxUses,omitempty" json:"maxUses,omitempty"` // zero means unlimited
	Uses      int        `bson:"uses" json:"uses"`
	Active    bool       `bson:"active" json:"active"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
}
