package promo

import (
	promoRepo "autoshine/database/repository/promo"
	"autoshine/models"
)

// DefaultCodes are the stock promo codes seeded on startup when absent.
var DefaultCodes = []models.PromoCode{
	{Code: "WELCOME10", Discount: 0.10, MinAmount: 50, Active: true},
	{Code: "SHINE20", Discount: 0.20, MinAmount: 150, Active: true},
	{Code: "FLEET15", Discount: 0.15, MinAmount: 300, Active: true},
}

// EnsureSeeded upserts the stock codes. Existing documents keep their
// usage counters since Upsert matches on the canonical code.
func EnsureSeeded(repo promoRepo.PromoRepository) error {
	for i := range DefaultCodes {
		code := DefaultCodes[i]
		if _, err := repo.FindByCode(code.Code); err == nil {
			continue
		}
		if err := repo.Upsert(&code); err != nil {
			return err
		}
	}
	return nil
}
