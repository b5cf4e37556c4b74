package catalog

import "autoshine/models"

// CatalogService exposes the service/add-on catalog to the booking and
// pricing paths. Lookups never mutate offerings; bookings freeze unit
// prices at booking time.
type CatalogService interface {
	// GetServiceDetails retrieves one offering by name. Unknown names
	// surface catalogRepo.ErrNotFound, never a fatal error: pricing
	// treats the miss as a zero-contribution warning.
	GetServiceDetails(name string) (*models.ServiceOffering, error)
	// ListActive returns all active offerings.
	ListActive() ([]models.ServiceOffering, error)
	// CanAttach reports whether the named add-on may combine with the
	// named service.
	CanAttach(addonName, serviceName string) (bool, error)
	// UpsertOffering creates or updates a catalog entry (admin).
	UpsertOffering(offering *models.ServiceOffering) error
}
