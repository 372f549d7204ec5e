// File: database/repository/catalog/catalog.go
package catalogRepo

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

// CatalogRepository reads priced service categories and companions' custom
// service tags.
type CatalogRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.ServiceCategory, error)
	GetByID(ctx context.Context, id int) (*models.ServiceCategory, error)
	CustomServices(ctx context.Context, companionID int) ([]models.CustomService, error)
}

type mongoCatalogRepo struct {
	categories *mongo.Collection
	custom     *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.MongoClient.Database("meytle")
	return &mongoCatalogRepo{
		categories: db.Collection("service_categories"),
		custom:     db.Collection("custom_services"),
	}
}

func (r *mongoCatalogRepo) List(ctx context.Context, activeOnly bool) ([]models.ServiceCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query service categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.ServiceCategory
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode service categories: %w", err)
	}
	return categories, nil
}

func (r *mongoCatalogRepo) GetByID(ctx context.Context, id int) (*models.ServiceCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var category models.ServiceCategory
	err := r.categories.FindOne(ctx, bson.M{"id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("service category %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch service category %d: %w", id, err)
	}
	return &category, nil
}

func (r *mongoCatalogRepo) CustomServices(ctx context.Context, companionID int) ([]models.CustomService, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.custom.Find(ctx, bson.M{"companionId": companionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.CustomService
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode custom services: %w", err)
	}
	return services, nil
}
