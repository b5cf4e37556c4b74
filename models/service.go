package models

import "time"

// Service categories.
const (
	CategoryInterior = "interior"
	CategoryExterior = "exterior"
	CategoryFull     = "full"
	CategoryAddon    = "addon"
)

// ServiceOffering is a detailing service or add-on in the catalog.
// Bookings copy the unit price at booking time; later catalog edits
// never touch existing bookings.
type ServiceOffering struct {
	Name               string             `bson:"name" json:"name"` // unique
	BasePrice          float64            `bson:"basePrice" json:"basePrice"`
	Duration           int                `bson:"duration" json:"duration"` // minutes
	Category           string             `bson:"category" json:"category"`
	VehicleTypePricing map[string]float64 `bson:"vehicleTypePricing,omitempty" json:"vehicleTypePricing,omitempty"`
	CanCombineWith     []string           `bson:"canCombineWith,omitempty" json:"canCombineWith,omitempty"` // add-ons only
	IsActive           bool               `bson:"isActive" json:"isActive"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAddon reports whether the offering is an add-on rather than a standalone service.
func (s *ServiceOffering) IsAddon() bool {
	return s.Category == CategoryAddon
}

// CanAttachTo reports whether this add-on may be combined with the named service.
func (s *ServiceOffering) CanAttachTo(serviceName string) bool {
	if !s.IsAddon() {
		return false
	}
	for _, name := range s.CanCombineWith {
		if name == serviceName {
			return true
		}
	}
	return false
}
