package catalog

import (
	catalogRepo "autoshine/database/repository/catalog"
	"autoshine/models"
)

// DefaultOfferings is the stock detailing catalog seeded on first run.
var DefaultOfferings = []models.ServiceOffering{
	{
		Name:      "interior-detail",
		BasePrice: 89.99,
		Duration:  90,
		Category:  models.CategoryInterior,
		VehicleTypePricing: map[string]float64{
			"suv": 20, "truck": 25, "van": 30,
		},
		IsActive: true,
	},
	{
		Name:      "exterior-wash",
		BasePrice: 49.99,
		Duration:  45,
		Category:  models.CategoryExterior,
		VehicleTypePricing: map[string]float64{
			"suv": 10, "truck": 15, "van": 15,
		},
		IsActive: true,
	},
	{
		Name:      "full-detail",
		BasePrice: 179.99,
		Duration:  180,
		Category:  models.CategoryFull,
		VehicleTypePricing: map[string]float64{
			"suv": 30, "truck": 40, "van": 45,
		},
		IsActive: true,
	},
	{
		Name:           "pet-hair-removal",
		BasePrice:      30,
		Duration:       30,
		Category:       models.CategoryAddon,
		CanCombineWith: []string{"interior-detail", "full-detail"},
		IsActive:       true,
	},
	{
		Name:           "engine-bay-cleaning",
		BasePrice:      45,
		Duration:       40,
		Category:       models.CategoryAddon,
		CanCombineWith: []string{"exterior-wash", "full-detail"},
		IsActive:       true,
	},
	{
		Name:           "ceramic-coating",
		BasePrice:      250,
		Duration:       120,
		Category:       models.CategoryAddon,
		CanCombineWith: []string{"exterior-wash", "full-detail"},
		IsActive:       true,
	},
	{
		Name:           "odor-treatment",
		BasePrice:      35,
		Duration:       25,
		Category:       models.CategoryAddon,
		CanCombineWith: []string{"interior-detail", "full-detail"},
		IsActive:       true,
	},
}

// EnsureSeeded inserts the stock offerings that do not exist yet.
// Existing documents are left untouched so admin price edits survive
// restarts.
func EnsureSeeded(repo catalogRepo.CatalogRepository) error {
	for i := range DefaultOfferings {
		offering := DefaultOfferings[i]
		if _, err := repo.FindByName(offering.Name); err == nil {
			continue
		}
		if err := repo.Upsert(&offering); err != nil {
			return err
		}
	}
	return nil
}
