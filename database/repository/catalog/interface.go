package catalogRepo

import (
	"errors"

	"autoshine/models"
)

// ErrNotFound is returned when no offering with the requested name exists.
var ErrNotFound = errors.New("service offering not found")

// CatalogRepository provides access to the service/add-on catalog.
type CatalogRepository interface {
	// FindByName retrieves an offering by its unique name.
	// Returns ErrNotFound when the offering does not exist.
	FindByName(name string) (*models.ServiceOffering, error)
	// List returns catalog offerings, optionally restricted to active ones.
	List(activeOnly bool) ([]models.ServiceOffering, error)
	// Upsert creates or replaces an offering keyed by name.
	Upsert(offering *models.ServiceOffering) error
}
