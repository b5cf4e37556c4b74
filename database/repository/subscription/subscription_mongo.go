package subscriptionRepo

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

// MongoSubscriptionRepo implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepo struct {
	coll    *mongo.Collection
	runColl *mongo.Collection
}

// NewMongoSubscriptionRepo constructs a new instance of MongoSubscriptionRepo.
func NewMongoSubscriptionRepo() SubscriptionRepository {
	db := database.DB()
	return &MongoSubscriptionRepo{
		coll:    db.Collection("subscriptions"),
		runColl: db.Collection("subscription_runs"),
	}
}

func (repo *MongoSubscriptionRepo) Create(sub *models.Subscription) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.Version = 1

	if _, err := repo.coll.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("error inserting subscription %s: %w", sub.ID, err)
	}
	return nil
}

func (repo *MongoSubscriptionRepo) GetByID(id string) (*models.Subscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sub models.Subscription
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching subscription %s: %w", id, err)
	}
	return &sub, nil
}

func (repo *MongoSubscriptionRepo) UpdateWithVersion(sub *models.Subscription, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub.Version = expectedVersion + 1
	sub.UpdatedAt = time.Now()

	filter := bson.M{"id": sub.ID, "version": expectedVersion}
	res, err := repo.coll.ReplaceOne(ctx, filter, sub)
	if err != nil {
		sub.Version = expectedVersion
		return fmt.Errorf("error updating subscription %s: %w", sub.ID, err)
	}
	if res.MatchedCount == 0 {
		sub.Version = expectedVersion
		count, countErr := repo.coll.CountDocuments(ctx, bson.M{"id": sub.ID})
		if countErr == nil && count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (repo *MongoSubscriptionRepo) ListByUser(userID string) ([]models.Subscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := repo.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing subscriptions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error decoding subscriptions: %w", err)
	}
	return subs, nil
}

func (repo *MongoSubscriptionRepo) ListDue(now time.Time) ([]models.Subscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":      models.SubscriptionActive,
		"nextDueDate": bson.M{"$lte": now},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing due subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error decoding due subscriptions: %w", err)
	}
	return subs, nil
}

// TryMarkRun relies on the unique (subscriptionId, dueDate) index: the
// first sweep to insert wins, any concurrent or repeated sweep sees a
// duplicate-key error and backs off silently.
func (repo *MongoSubscriptionRepo) TryMarkRun(subscriptionID, dueDate, bookingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	run := models.SubscriptionRun{
		SubscriptionID: subscriptionID,
		DueDate:        dueDate,
		BookingID:      bookingID,
		CreatedAt:      time.Now(),
	}
	if _, err := repo.runColl.InsertOne(ctx, run); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("error marking subscription run %s/%s: %w", subscriptionID, dueDate, err)
	}
	return true, nil
}

// EnsureIndexes creates subscription indexes, including the unique run
// marker that guarantees at-most-once materialization per due date.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.DB()
	if _, err := db.Collection("subscriptions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "nextDueDate", Value: 1}},
		},
	}); err != nil {
		return fmt.Errorf("failed to create subscription indexes: %w", err)
	}

	if _, err := db.Collection("subscription_runs").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subscriptionId", Value: 1}, {Key: "dueDate", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create subscription run index: %w", err)
	}
	return nil
}
