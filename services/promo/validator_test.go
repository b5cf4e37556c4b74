package promo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	promoRepo "autoshine/database/repository/promo"
	"autoshine/models"
)

type fakePromoRepo struct {
	codes map[string]*models.PromoCode
	uses  map[string]int
}

func newFakePromoRepo(codes ...*models.PromoCode) *fakePromoRepo {
	r := &fakePromoRepo{codes: map[string]*models.PromoCode{}, uses: map[string]int{}}
	for _, c := range codes {
		r.codes[strings.ToUpper(c.Code)] = c
	}
	return r
}

func (r *fakePromoRepo) FindByCode(code string) (*models.PromoCode, error) {
	if c, ok := r.codes[strings.ToUpper(code)]; ok {
		return c, nil
	}
	return nil, promoRepo.ErrNotFound
}

func (r *fakePromoRepo) Upsert(promo *models.PromoCode) error {
	r.codes[strings.ToUpper(promo.Code)] = promo
	return nil
}

func (r *fakePromoRepo) IncrementUses(code string) error {
	r.uses[strings.ToUpper(code)]++
	return nil
}

func testValidator(t *testing.T, now time.Time, codes ...*models.PromoCode) (*DefaultValidator, *fakePromoRepo) {
	t.Helper()
	repo := newFakePromoRepo(codes...)
	v := NewDefaultValidator(repo, nil)
	v.Now = func() time.Time { return now }
	return v, repo
}

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func welcome10() *models.PromoCode {
	return &models.PromoCode{Code: "WELCOME10", Discount: 0.10, MinAmount: 50, Active: true}
}

func TestValidatePromoCodeHappyPath(t *testing.T) {
	t.Parallel()
	v, _ := testValidator(t, fixedNow, welcome10())

	result, err := v.ValidatePromoCode("WELCOME10", 50.00)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, 5.00, result.DiscountAmount)
	require.Equal(t, 45.00, result.FinalAmount)
	require.Equal(t, "Promo code applied: 10% off", result.Message)
}

func TestValidatePromoCodeCaseInsensitive(t *testing.T) {
	t.Parallel()
	v, _ := testValidator(t, fixedNow, welcome10())

	result, err := v.ValidatePromoCode("  welcome10 ", 100.00)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, 10.00, result.DiscountAmount)
}

func TestValidatePromoCodeBelowMinimum(t *testing.T) {
	t.Parallel()
	v, _ := testValidator(t, fixedNow, welcome10())

	result, err := v.ValidatePromoCode("WELCOME10", 49.00)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "Minimum order amount of 50.00 required for this promo code", result.Message)
	require.Zero(t, result.DiscountAmount)
}

func TestValidatePromoCodeUnknown(t *testing.T) {
	t.Parallel()
	v, _ := testValidator(t, fixedNow)

	result, err := v.ValidatePromoCode("NOPE", 100.00)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "Invalid promo code", result.Message)
}

func TestValidatePromoCodeEmpty(t *testing.T) {
	t.Parallel()
	v, _ := testValidator(t, fixedNow)

	result, err := v.ValidatePromoCode("   ", 100.00)
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestValidatePromoCodeExpired(t *testing.T) {
	t.Parallel()
	expiry := fixedNow.Add(-time.Hour)
	code := welcome10()
	code.ExpiresAt = &expiry
	v, _ := testValidator(t, fixedNow, code)

	result, err := v.ValidatePromoCode("WELCOME10", 100.00)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "This promo code has expired", result.Message)
}

func TestValidatePromoCodeNotYetExpired(t *testing.T) {
	t.Parallel()
	expiry := fixedNow.Add(time.Hour)
	code := welcome10()
	code.ExpiresAt = &expiry
	v, _ := testValidator(t, fixedNow, code)

	result, err := v.ValidatePromoCode("WELCOME10", 100.00)
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestValidatePromoCodeUsageCap(t *testing.T) {
	t.Parallel()
	code := welcome10()
	code.MaxUses = 3
	code.Uses = 3
	v, _ := testValidator(t, fixedNow, code)

	result, err := v.ValidatePromoCode("WELCOME10", 100.00)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "This promo code has reached its usage limit", result.Message)
}

func TestValidatePromoCodeInactive(t *testing.T) {
	t.Parallel()
	code := welcome10()
	code.Active = false
	v, _ := testValidator(t, fixedNow, code)

	result, err := v.ValidatePromoCode("WELCOME10", 100.00)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "Invalid promo code", result.Message)
}

func TestRecordUseIncrements(t *testing.T) {
	t.Parallel()
	v, repo := testValidator(t, fixedNow, welcome10())

	v.RecordUse("WELCOME10")
	v.RecordUse("WELCOME10")
	require.Equal(t, 2, repo.uses["WELCOME10"])
}
