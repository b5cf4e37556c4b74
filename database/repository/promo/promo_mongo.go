package promoRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"autoshine/database"
	"autoshine/models"
)

// ErrNotFound is returned when no promo code matches.
var ErrNotFound = errors.New("promo code not found")

// PromoRepository provides lookup and mutation of promo codes.
type PromoRepository interface {
	// FindByCode retrieves a promo code, matching case-insensitively.
	FindByCode(code string) (*models.PromoCode, error)
	Upsert(promo *models.PromoCode) error
	// IncrementUses bumps the usage counter after a code is redeemed.
	IncrementUses(code string) error
}

// MongoPromoRepo implements PromoRepository using MongoDB.
type MongoPromoRepo struct {
	coll *mongo.Collection
}

// NewMongoPromoRepo constructs a new instance of MongoPromoRepo.
func NewMongoPromoRepo() PromoRepository {
	return &MongoPromoRepo{
		coll: database.DB().Collection("promo_codes"),
	}
}

func (repo *MongoPromoRepo) FindByCode(code string) (*models.PromoCode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var promo models.PromoCode
	filter := bson.M{"code": strings.ToUpper(code)}
	if err := repo.coll.FindOne(ctx, filter).Decode(&promo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching promo code %q: %w", code, err)
	}
	return &promo, nil
}

func (repo *MongoPromoRepo) Upsert(promo *models.PromoCode) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	promo.Code = strings.ToUpper(promo.Code)
	if promo.CreatedAt.IsZero() {
		promo.CreatedAt = time.Now()
	}

	filter := bson.M{"code": promo.Code}
	update := bson.M{"$set": promo}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error upserting promo code %q: %w", promo.Code, err)
	}
	return nil
}

func (repo *MongoPromoRepo) IncrementUses(code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"code": strings.ToUpper(code)}
	if _, err := repo.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"uses": 1}}); err != nil {
		return fmt.Errorf("error incrementing uses for promo code %q: %w", code, err)
	}
	return nil
}
