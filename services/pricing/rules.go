package pricing

import (
	"time"

	"autoshine/config"
	"autoshine/models"
)

// Rules is the immutable pricing and cancellation policy injected into
// the engines. Tests supply alternate rule sets; production builds one
// from the loaded config.
type Rules struct {
	TaxRate           float64
	PeakMultiplier    float64
	OffPeakMultiplier float64
	// Peak season bounds, inclusive.
	PeakStart time.Month
	PeakEnd   time.Month

	FrequencyMultipliers map[models.Frequency]float64

	// Cancellation refund tiers, in hours before the scheduled slot.
	FullRefundHours float64
	HalfRefundHours float64
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		TaxRate:           0.08,
		PeakMultiplier:    1.10,
		OffPeakMultiplier: 0.90,
		PeakStart:         time.April,
		PeakEnd:           time.September,
		FrequencyMultipliers: map[models.Frequency]float64{
			models.FrequencyOneTime:  1.00,
			models.FrequencyWeekly:   0.80,
			models.FrequencyBiWeekly: 0.85,
			models.FrequencyMonthly:  0.95,
		},
		FullRefundHours: 24,
		HalfRefundHours: 12,
	}
}

// RulesFromConfig builds the rule set from the loaded application config.
func RulesFromConfig() Rules {
	r := DefaultRules()
	cfg := config.AppConfig
	if cfg.TaxRate > 0 {
		r.TaxRate = cfg.TaxRate
	}
	if cfg.PeakMultiplier > 0 {
		r.PeakMultiplier = cfg.PeakMultiplier
	}
	if cfg.OffPeakMultiplier > 0 {
		r.OffPeakMultiplier = cfg.OffPeakMultiplier
	}
	if cfg.FullRefundHours > 0 {
		r.FullRefundHours = cfg.FullRefundHours
	}
	if cfg.HalfRefundHours > 0 {
		r.HalfRefundHours = cfg.HalfRefundHours
	}
	return r
}

// FrequencyMultiplier returns the cadence multiplier, defaulting to
// the one-time rate for unknown cadences.
func (r Rules) FrequencyMultiplier(f models.Frequency) float64 {
	if m, ok := r.FrequencyMultipliers[f]; ok {
		return m
	}
	return r.FrequencyMultipliers[models.FrequencyOneTime]
}

// InPeakSeason reports whether the month of t falls in the peak band.
func (r Rules) InPeakSeason(t time.Time) bool {
	m := t.Month()
	return m >= r.PeakStart && m <= r.PeakEnd
}

// seasonWindow is the legacy four-season multiplier table. It is kept
// as configuration only: the active calculation path uses the two-band
// peak/off-peak rule above, and nothing reads this table.
type seasonWindow struct {
	Name       string
	StartMonth time.Month
	StartDay   int
	EndMonth   time.Month
	EndDay     int
	Multiplier float64
}

var legacySeasonTable = []seasonWindow{
	{Name: "spring", StartMonth: time.March, StartDay: 20, EndMonth: time.June, EndDay: 20, Multiplier: 1.05},
	{Name: "summer", StartMonth: time.June, StartDay: 21, EndMonth: time.September, EndDay: 22, Multiplier: 1.15},
	{Name: "fall", StartMonth: time.September, StartDay: 23, EndMonth: time.December, EndDay: 20, Multiplier: 0.95},
	{Name: "winter", StartMonth: time.December, StartDay: 21, EndMonth: time.March, EndDay: 19, Multiplier: 0.85},
}
