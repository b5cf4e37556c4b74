package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	catalogRepo "autoshine/database/repository/catalog"
	"autoshine/models"
)

type fakeCatalog struct {
	offerings map[string]*models.ServiceOffering
}

func (f *fakeCatalog) FindByName(name string) (*models.ServiceOffering, error) {
	if o, ok := f.offerings[name]; ok {
		return o, nil
	}
	return nil, catalogRepo.ErrNotFound
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cat := &fakeCatalog{offerings: map[string]*models.ServiceOffering{
		"full-detail": {
			Name:      "full-detail",
			BasePrice: 100.00,
			Category:  models.CategoryFull,
			VehicleTypePricing: map[string]float64{
				"suv":   25.00,
				"truck": 40.00,
			},
			IsActive: true,
		},
		"exterior-wash": {
			Name:      "exterior-wash",
			BasePrice: 40.00,
			Category:  models.CategoryExterior,
			IsActive:  true,
		},
		"ceramic-coating": {
			Name:      "ceramic-coating",
			BasePrice: 20.00,
			Category:  models.CategoryAddon,
			IsActive:  true,
		},
	}}
	return NewEngine(DefaultRules(), cat, nil)
}

var (
	julyDate    = time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)
	januaryDate = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
)

func TestRoundCentsHalfUp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.13, RoundCents(0.125))
	require.Equal(t, 0.38, RoundCents(0.375))
	require.Equal(t, 2.63, RoundCents(2.625))
	require.Equal(t, 0.12, RoundCents(0.1249))
	require.Equal(t, 10.00, RoundCents(10.0))
}

func TestCalculateBasePriceIgnoresVehicleSurcharge(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	// full-detail carries SUV and truck surcharges in the catalog, but
	// the price path returns the flat base price regardless.
	price, err := e.CalculateBasePrice("full-detail")
	require.NoError(t, err)
	require.Equal(t, 100.00, price)
}

func TestCalculateBasePriceUnknown(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	price, err := e.CalculateBasePrice("no-such-service")
	require.ErrorIs(t, err, catalogRepo.ErrNotFound)
	require.Zero(t, price)
}

func TestSeasonalBands(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	peak, err := e.CalculateSeasonalPrice("full-detail", julyDate)
	require.NoError(t, err)
	require.Equal(t, 110.00, peak)

	offPeak, err := e.CalculateSeasonalPrice("full-detail", januaryDate)
	require.NoError(t, err)
	require.Equal(t, 90.00, offPeak)
}

func TestSeasonalBandBoundaries(t *testing.T) {
	t.Parallel()
	r := DefaultRules()

	require.False(t, r.InPeakSeason(time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC)))
	require.True(t, r.InPeakSeason(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, r.InPeakSeason(time.Date(2025, time.September, 30, 23, 0, 0, 0, time.UTC)))
	require.False(t, r.InPeakSeason(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFrequencyMultipliers(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	require.Equal(t, 100.00, e.CalculateFrequencyPrice(100.00, models.FrequencyOneTime))
	require.Equal(t, 80.00, e.CalculateFrequencyPrice(100.00, models.FrequencyWeekly))
	require.Equal(t, 85.00, e.CalculateFrequencyPrice(100.00, models.FrequencyBiWeekly))
	require.Equal(t, 95.00, e.CalculateFrequencyPrice(100.00, models.FrequencyMonthly))

	// Unknown cadences fall back to the one-time rate.
	require.Equal(t, 100.00, e.CalculateFrequencyPrice(100.00, models.Frequency("yearly")))
}

func TestCalculateTotalPricePeakWeekly(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	services := []models.CartItem{{Name: "full-detail", Quantity: 1}}
	addons := []models.CartItem{{Name: "ceramic-coating", Quantity: 2}}

	b := e.CalculateTotalPrice(services, addons, models.FrequencyWeekly, julyDate)

	// units: 110.00 and 22.00; subtotal 110 + 2*22 = 154.00
	require.Equal(t, 154.00, b.Subtotal)
	require.Equal(t, 30.80, b.FrequencyDiscount)
	require.Equal(t, 123.20, b.DiscountedSubtotal)
	require.Equal(t, 9.86, b.Tax)
	require.Equal(t, 133.06, b.Total)
	require.Equal(t, models.FrequencyWeekly, b.Frequency)
	require.Empty(t, b.Warnings)
}

func TestCalculateTotalPriceQuantityScalesLinearly(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	one := e.CalculateTotalPrice([]models.CartItem{{Name: "exterior-wash", Quantity: 1}}, nil, models.FrequencyOneTime, januaryDate)
	three := e.CalculateTotalPrice([]models.CartItem{{Name: "exterior-wash", Quantity: 3}}, nil, models.FrequencyOneTime, januaryDate)

	require.Equal(t, 36.00, one.Subtotal)
	require.Equal(t, 108.00, three.Subtotal)
	require.Greater(t, three.Total, one.Total)
}

func TestCalculateTotalPriceZeroQuantityCountsAsOne(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	b := e.CalculateTotalPrice([]models.CartItem{{Name: "exterior-wash"}}, nil, models.FrequencyOneTime, januaryDate)
	require.Equal(t, 36.00, b.Subtotal)
}

func TestCalculateTotalPriceUnknownItemWarns(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	b := e.CalculateTotalPrice(
		[]models.CartItem{{Name: "exterior-wash", Quantity: 1}, {Name: "undercoating", Quantity: 1}},
		nil, models.FrequencyOneTime, januaryDate)

	// The unknown item contributes zero instead of failing the quote.
	require.Equal(t, 36.00, b.Subtotal)
	require.Len(t, b.Warnings, 1)
	require.Contains(t, b.Warnings[0], "undercoating")
}

func TestCalculateTotalPriceEmptyCart(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	b := e.CalculateTotalPrice(nil, nil, models.FrequencyOneTime, januaryDate)
	require.Zero(t, b.Subtotal)
	require.Zero(t, b.Total)
}

func TestApplyPromoDiscountsTheDiscountedSubtotal(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	b := models.PriceBreakdown{
		Subtotal:           100.00,
		FrequencyDiscount:  20.00,
		DiscountedSubtotal: 80.00,
		Tax:                6.40,
		Total:              86.40,
		Frequency:          models.FrequencyWeekly,
	}

	out := e.ApplyPromo(b, "WELCOME10", 10.00)
	require.Equal(t, "WELCOME10", out.PromoCode)
	require.Equal(t, 10.00, out.PromoDiscount)
	require.Equal(t, 5.60, out.Tax)
	require.Equal(t, 75.60, out.Total)
	// Upstream components are untouched.
	require.Equal(t, 100.00, out.Subtotal)
	require.Equal(t, 80.00, out.DiscountedSubtotal)
}

func TestApplyPromoCapsAtDiscountedSubtotal(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	b := models.PriceBreakdown{Subtotal: 50.00, DiscountedSubtotal: 50.00, Tax: 4.00, Total: 54.00}
	out := e.ApplyPromo(b, "BIG", 120.00)
	require.Equal(t, 50.00, out.PromoDiscount)
	require.Zero(t, out.Tax)
	require.Zero(t, out.Total)
}

func TestApplyPromoZeroDiscountIsNoop(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	b := models.PriceBreakdown{Subtotal: 50.00, DiscountedSubtotal: 50.00, Tax: 4.00, Total: 54.00}
	out := e.ApplyPromo(b, "NOOP", 0)
	require.Equal(t, b, out)
}
