// File: database/repository/resource/interface.go
package resourceRepo

import (
	"context"

	"mendly/database"
	"mendly/models"
	"mendly/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ResourceRepository defines methods for resource data access.
type ResourceRepository interface {
	// Create inserts a new resource record.
	Create(ctx context.Context, resource *models.Resource) error
	// GetByID retrieves a resource by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	// GetByIDs retrieves multiple resources at once.
	GetByIDs(ctx context.Context, ids []string) ([]models.Resource, error)
	// Update replaces an existing resource record.
	Update(ctx context.Context, resource *models.Resource) error
	// ListByStore retrieves a store's resources with paging.
	ListByStore(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Resource, int64, error)
}

type mongoResourceRepo struct {
	coll *mongo.Collection
}

// NewMongoResourceRepo constructs a MongoDB-backed ResourceRepository.
func NewMongoResourceRepo() ResourceRepository {
	repo := &mongoResourceRepo{
		coll: database.DB().Collection("resources"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("resource index creation failed", zap.Error(err))
	}
	return repo
}
