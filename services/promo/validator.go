package promo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	promoRepo "autoshine/database/repository/promo"
	"autoshine/models"
	"autoshine/services/pricing"
)

// Validator checks promo codes against order subtotals.
//
// Promo validation is independent of the frequency and seasonal
// discounts: when both apply, the caller applies the promo to the
// already frequency-discounted subtotal (see pricing.Engine.ApplyPromo).
type Validator interface {
	// ValidatePromoCode validates code against subtotal. The lookup is
	// case-insensitive. An invalid result carries a user-facing message;
	// a valid one carries the discount and final amounts.
	ValidatePromoCode(code string, subtotal float64) (models.PromoResult, error)
	// RecordUse bumps the usage counter after a code was redeemed on a
	// booking. Best-effort: the booking does not depend on it.
	RecordUse(code string)
}

// DefaultValidator is the production implementation over the promo repository.
type DefaultValidator struct {
	Repo   promoRepo.PromoRepository
	Now    func() time.Time
	Logger *zap.Logger
}

func NewDefaultValidator(repo promoRepo.PromoRepository, logger *zap.Logger) *DefaultValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultValidator{Repo: repo, Now: time.Now, Logger: logger}
}

func (v *DefaultValidator) ValidatePromoCode(code string, subtotal float64) (models.PromoResult, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))
	if canonical == "" {
		return models.PromoResult{Valid: false, Message: "Invalid promo code"}, nil
	}

	p, err := v.Repo.FindByCode(canonical)
	if err != nil {
		if errors.Is(err, promoRepo.ErrNotFound) {
			return models.PromoResult{Valid: false, Message: "Invalid promo code"}, nil
		}
		return models.PromoResult{}, fmt.Errorf("promo lookup for %q: %w", canonical, err)
	}

	now := v.Now()
	if !p.Active {
		return models.PromoResult{Valid: false, Message: "Invalid promo code"}, nil
	}
	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return models.PromoResult{Valid: false, Message: "This promo code has expired"}, nil
	}
	if p.MaxUses > 0 && p.Uses >= p.MaxUses {
		return models.PromoResult{Valid: false, Message: "This promo code has reached its usage limit"}, nil
	}
	if subtotal < p.MinAmount {
		return models.PromoResult{
			Valid:   false,
			Message: fmt.Sprintf("Minimum order amount of %.2f required for this promo code", p.MinAmount),
		}, nil
	}

	discountAmount := pricing.RoundCents(subtotal * p.Discount)
	return models.PromoResult{
		Valid:          true,
		Message:        fmt.Sprintf("Promo code applied: %.0f%% off", p.Discount*100),
		DiscountAmount: discountAmount,
		FinalAmount:    pricing.RoundCents(subtotal - discountAmount),
	}, nil
}

func (v *DefaultValidator) RecordUse(code string) {
	if err := v.Repo.IncrementUses(code); err != nil {
		v.Logger.Warn("promo: failed to record use", zap.String("code", code), zap.Error(err))
	}
}
