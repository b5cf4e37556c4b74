package models

// Frequency is the recurrence cadence of a booking or subscription.
type Frequency string

const (
	FrequencyOneTime  Frequency = "one-time"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiWeekly Frequency = "bi-weekly"
	FrequencyMonthly  Frequency = "monthly"
)

// KnownFrequencies lists every cadence the engine accepts.
var KnownFrequencies = []Frequency{
	FrequencyOneTime,
	FrequencyWeekly,
	FrequencyBiWeekly,
	FrequencyMonthly,
}

// IsValidFrequency reports whether f is one of the supported cadences.
func IsValidFrequency(f Frequency) bool {
	for _, k := range KnownFrequencies {
		if f == k {
			return true
		}
	}
	return false
}

// Vehicle describes the car a booking is for.
type Vehicle struct {
	Make  string `bson:"make" json:"make"`
	Model string `bson:"model" json:"model"`
	Year  int    `bson:"year" json:"year"`
	Color string `bson:"color,omitempty" json:"color,omitempty"`
	Type  string `bson:"type" json:"type"` // e.g. "sedan", "suv", "truck", "van"
}

// KnownVehicleTypes lists the vehicle types the catalog carries surcharges for.
var KnownVehicleTypes = []string{"sedan", "suv", "truck", "van", "coupe", "hatchback"}

// IsValidVehicleType reports whether t is a recognised vehicle type.
func IsValidVehicleType(t string) bool {
	for _, k := range KnownVehicleTypes {
		if t == k {
			return true
		}
	}
	return false
}
