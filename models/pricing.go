package models

// CartItem is a priced line in a quote request: a service or add-on
// name with a quantity. Quantity defaults to 1 when zero.
type CartItem struct {
	Name     string `bson:"name" json:"name"`
	Quantity int    `bson:"quantity,omitempty" json:"quantity,omitempty"`
}

// PriceBreakdown is the full output of a total-price calculation.
// Every component is rounded to cents independently; Total is the
// authoritative charge amount and must be persisted, not recomputed.
type PriceBreakdown struct {
	Subtotal           float64   `bson:"subtotal" json:"subtotal"`
	FrequencyDiscount  float64   `bson:"frequencyDiscount" json:"frequencyDiscount"`
	DiscountedSubtotal float64   `bson:"discountedSubtotal" json:"discountedSubtotal"`
	Tax                float64   `bson:"tax" json:"tax"`
	Total              float64   `bson:"total" json:"total"`
	Frequency          Frequency `bson:"frequency" json:"frequency"`
	PromoCode          string    `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
	PromoDiscount      float64   `bson:"promoDiscount,omitempty" json:"promoDiscount,omitempty"`
	Warnings           []string  `bson:"warnings,omitempty" json:"warnings,omitempty"` // unknown-item lookups
}

// PromoResult is the outcome of validating a promo code against a subtotal.
type PromoResult struct {
	Valid          bool    `json:"valid"`
	Message        string  `json:"message"`
	DiscountAmount float64 `json:"discountAmount,omitempty"`
	FinalAmount    float64 `json:"finalAmount,omitempty"`
}
