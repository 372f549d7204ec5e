// File: services/catalog/catalog.go
package catalog

import (
	"context"

	catalogRepo "meytle/database/repository/catalog"
	"meytle/models"
)

// Service exposes the priced service catalog and companions' own custom
// service tags.
type Service interface {
	List(ctx context.Context, activeOnly bool) ([]models.ServiceCategory, error)
	Get(ctx context.Context, id int) (*models.ServiceCategory, error)
	CustomServices(ctx context.Context, companionID int) ([]models.CustomService, error)
}

// DefaultCatalogService implements Service.
type DefaultCatalogService struct {
	Repo catalogRepo.CatalogRepository
}

func (s *DefaultCatalogService) List(ctx context.Context, activeOnly bool) ([]models.ServiceCategory, error) {
	return s.Repo.List(ctx, activeOnly)
}

func (s *DefaultCatalogService) Get(ctx context.Context, id int) (*models.ServiceCategory, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultCatalogService) CustomServices(ctx context.Context, companionID int) ([]models.CustomService, error) {
	return s.Repo.CustomServices(ctx, companionID)
}
