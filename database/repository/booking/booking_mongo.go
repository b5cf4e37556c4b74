package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	return &MongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}

func (repo *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error inserting booking %s: %w", booking.ID, err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// UpdateWithVersion is the optimistic-concurrency write path: the
// filter matches on both id and the expected version, so a racing
// transition loses cleanly instead of silently overwriting.
func (repo *MongoBookingRepo) UpdateWithVersion(booking *models.Booking, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	booking.Version = expectedVersion + 1
	booking.UpdatedAt = time.Now()

	filter := bson.M{"id": booking.ID, "version": expectedVersion}
	res, err := repo.coll.ReplaceOne(ctx, filter, booking)
	if err != nil {
		booking.Version = expectedVersion
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		booking.Version = expectedVersion
		// Distinguish a missing booking from a lost CAS race.
		count, countErr := repo.coll.CountDocuments(ctx, bson.M{"id": booking.ID})
		if countErr == nil && count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (repo *MongoBookingRepo) ListPendingReschedules(date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":             models.StatusCancelled,
		"reschedule.state":   models.ReschedulePending,
		"reschedule.newDate": date,
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing pending reschedules for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding pending reschedules: %w", err)
	}
	return bookings, nil
}

func (repo *MongoBookingRepo) ListByUser(userID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := repo.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (repo *MongoBookingRepo) ListByStatusAndDate(date string, statuses []models.BookingStatus) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"scheduledDate": date,
		"status":        bson.M{"$in": statuses},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
