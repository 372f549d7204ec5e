// File: database/repository/availability/availability.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"meytle/database"
	"meytle/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AvailabilityRepository reads companion recurring schedules.
type AvailabilityRepository interface {
	WeeklySchedule(ctx context.Context, companionID int) ([]models.WeeklyWindow, error)
	ReplaceWeeklySchedule(ctx context.Context, companionID int, windows []models.WeeklyWindow) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.MongoClient.Database("meytle")
	return &mongoAvailabilityRepo{
		coll: db.Collection("weekly_schedules"),
	}
}

func (r *mongoAvailabilityRepo) WeeklySchedule(ctx context.Context, companionID int) ([]models.WeeklyWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "weekday", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"companionId": companionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly schedule: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []models.WeeklyWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode weekly schedule: %w", err)
	}
	return windows, nil
}

// ReplaceWeeklySchedule swaps a companion's whole recurring schedule in one
// shot; partial edits go through a full replace to keep the stored week
// consistent.
func (r *mongoAvailabilityRepo) ReplaceWeeklySchedule(ctx context.Context, companionID int, windows []models.WeeklyWindow) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"companionId": companionID}); err != nil {
		return fmt.Errorf("failed to clear weekly schedule: %w", err)
	}
	if len(windows) == 0 {
		return nil
	}

	docs := make([]interface{}, len(windows))
	for i, w := range windows {
		w.CompanionID = companionID
		docs[i] = w
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert weekly schedule: %w", err)
	}
	return nil
}
