// File: database/repository/booking/booking.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meytle/database"
	"meytle/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingRepository persists confirmed bookings and answers overlap queries.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ByCompanionAndDate(ctx context.Context, companionID int, date string) ([]models.Booking, error)
	Overlapping(ctx context.Context, companionID int, date, start, end string) ([]models.Booking, error)
	MarkCompleted(ctx context.Context, id string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("meytle")
	repo := &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) ByCompanionAndDate(ctx context.Context, companionID int, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"companionId": companionID,
		"date":        date,
		"status":      bson.M{"$ne": models.BookingCancelled},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Overlapping returns confirmed bookings whose window intersects [start, end)
// on the given date. Times are "HH:MM" strings, which compare correctly
// lexicographically.
func (r *mongoBookingRepo) Overlapping(ctx context.Context, companionID int, date, start, end string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"companionId": companionID,
		"date":        date,
		"status":      bson.M{"$ne": models.BookingCancelled},
		"start":       bson.M{"$lt": end},
		"end":         bson.M{"$gt": start},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) MarkCompleted(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": models.BookingCompleted}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": models.BookingConfirmed}, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking %s completed: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
