package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"autoshine/database"
	"autoshine/models"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	coll *mongo.Collection
}

// NewMongoCatalogRepo constructs a new instance of MongoCatalogRepo.
func NewMongoCatalogRepo() CatalogRepository {
	return &MongoCatalogRepo{
		coll: database.DB().Collection("catalog"),
	}
}

func (repo *MongoCatalogRepo) FindByName(name string) (*models.ServiceOffering, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var offering models.ServiceOffering
	filter := bson.M{"name": name}
	if err := repo.coll.FindOne(ctx, filter).Decode(&offering); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching offering %q: %w", name, err)
	}
	return &offering, nil
}

func (repo *MongoCatalogRepo) List(activeOnly bool) ([]models.ServiceOffering, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("error listing catalog: %w", err)
	}
	defer cursor.Close(ctx)

	var offerings []models.ServiceOffering
	if err := cursor.All(ctx, &offerings); err != nil {
		return nil, fmt.Errorf("error decoding catalog offerings: %w", err)
	}
	return offerings, nil
}

func (repo *MongoCatalogRepo) Upsert(offering *models.ServiceOffering) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	offering.UpdatedAt = time.Now()
	if offering.CreatedAt.IsZero() {
		offering.CreatedAt = offering.UpdatedAt
	}

	filter := bson.M{"name": offering.Name}
	update := bson.M{"$set": offering}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error upserting offering %q: %w", offering.Name, err)
	}
	return nil
}
