package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	catalogRepo "autoshine/database/repository/catalog"
	"autoshine/models"
)

// Catalog is the read-only lookup the engine needs. Satisfied by the
// catalog repository and by in-memory fakes in tests.
type Catalog interface {
	FindByName(name string) (*models.ServiceOffering, error)
}

// Engine computes price breakdowns for carts. It is pure: same inputs
// always yield the same breakdown, and it performs no persistence.
type Engine struct {
	rules   Rules
	catalog Catalog
	logger  *zap.Logger
}

// NewEngine constructs a pricing engine over the given rules and catalog.
func NewEngine(rules Rules, catalog Catalog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{rules: rules, catalog: catalog, logger: logger}
}

// Rules returns the injected rule set.
func (e *Engine) Rules() Rules {
	return e.rules
}

// RoundCents rounds to two decimals using round-half-up semantics on
// cents, the rounding used everywhere money is derived.
func RoundCents(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// CalculateBasePrice returns the catalog base price for an offering.
// The per-vehicle-type surcharge is deliberately not applied here: the
// catalog defines it but the total-price path has never consumed it,
// and that behavior is preserved until product confirms the intent.
// Unknown offerings contribute zero and return catalogRepo.ErrNotFound
// so the caller can surface a warning.
func (e *Engine) CalculateBasePrice(name string) (float64, error) {
	offering, err := e.catalog.FindByName(name)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return 0, catalogRepo.ErrNotFound
		}
		return 0, fmt.Errorf("catalog lookup for %q: %w", name, err)
	}
	return offering.BasePrice, nil
}

// CalculateSeasonalPrice applies the two-band seasonal multiplier to
// the base price: peak months get PeakMultiplier, every other month
// OffPeakMultiplier. The result is rounded to cents.
func (e *Engine) CalculateSeasonalPrice(name string, at time.Time) (float64, error) {
	base, err := e.CalculateBasePrice(name)
	if err != nil {
		return 0, err
	}
	multiplier := e.rules.OffPeakMultiplier
	if e.rules.InPeakSeason(at) {
		multiplier = e.rules.PeakMultiplier
	}
	return RoundCents(base * multiplier), nil
}

// CalculateFrequencyPrice applies the recurrence discount to a
// subtotal. Unknown frequencies fall back to the one-time multiplier.
func (e *Engine) CalculateFrequencyPrice(subtotal float64, f models.Frequency) float64 {
	return RoundCents(subtotal * e.rules.FrequencyMultiplier(f))
}

// CalculateTotalPrice prices a cart of services and add-ons for the
// given frequency, with seasonality evaluated at the given instant.
//
// Each component of the breakdown is rounded to cents independently
// rather than re-derived from rounded upstream values; callers must
// persist Total as the authoritative charge amount.
//
// An item absent from the catalog contributes zero to the subtotal and
// is reported in Warnings rather than failing the calculation: pricing
// must always produce a number for the caller even when data is stale.
func (e *Engine) CalculateTotalPrice(services, addons []models.CartItem, f models.Frequency, at time.Time) models.PriceBreakdown {
	var subtotal float64
	var warnings []string

	for _, item := range append(append([]models.CartItem{}, services...), addons...) {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		unit, err := e.CalculateSeasonalPrice(item.Name, at)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNotFound) {
				e.logger.Warn("pricing: unknown catalog item, contributing zero",
					zap.String("item", item.Name))
				warnings = append(warnings, fmt.Sprintf("unknown service or add-on %q priced at 0.00", item.Name))
				continue
			}
			e.logger.Warn("pricing: catalog lookup failed, contributing zero",
				zap.String("item", item.Name), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("lookup failed for %q, priced at 0.00", item.Name))
			continue
		}
		subtotal += unit * float64(qty)
	}

	multiplier := e.rules.FrequencyMultiplier(f)
	discountedSubtotal := subtotal * multiplier
	tax := discountedSubtotal * e.rules.TaxRate
	total := discountedSubtotal + tax

	return models.PriceBreakdown{
		Subtotal:           RoundCents(subtotal),
		FrequencyDiscount:  RoundCents(subtotal - discountedSubtotal),
		DiscountedSubtotal: RoundCents(discountedSubtotal),
		Tax:                RoundCents(tax),
		Total:              RoundCents(total),
		Frequency:          f,
		Warnings:           warnings,
	}
}

// ApplyPromo folds a validated promo discount into a breakdown. The
// discount applies to the already frequency-discounted subtotal, never
// the raw subtotal, so frequency savings are not counted twice. Tax
// and total are re-derived from the post-promo amount.
func (e *Engine) ApplyPromo(b models.PriceBreakdown, code string, discountAmount float64) models.PriceBreakdown {
	if discountAmount <= 0 {
		return b
	}
	if discountAmount > b.DiscountedSubtotal {
		discountAmount = b.DiscountedSubtotal
	}
	effective := b.DiscountedSubtotal - discountAmount
	b.PromoCode = code
	b.PromoDiscount = RoundCents(discountAmount)
	b.Tax = RoundCents(effective * e.rules.TaxRate)
	b.Total = RoundCents(effective * (1 + e.rules.TaxRate))
	return b
}

// UnitPriceAt returns the seasonal unit price used when freezing a
// cart item onto a booking. Unknown items freeze at zero.
func (e *Engine) UnitPriceAt(name string, at time.Time) float64 {
	unit, err := e.CalculateSeasonalPrice(name, at)
	if err != nil {
		return 0
	}
	return unit
}
