// File: database/repository/store/interface.go
package storeRepo

import (
	"context"

	"mendly/database"
	"mendly/models"
	"mendly/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// StoreRepository defines methods for store data access.
type StoreRepository interface {
	// Create inserts a new store record.
	Create(ctx context.Context, store *models.Store) error
	// GetByID retrieves a store by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Store, error)
	// Update replaces an existing store record.
	Update(ctx context.Context, store *models.Store) error
	// List retrieves stores ordered by name with paging.
	List(ctx context.Context, page, pageSize int, activeOnly bool) ([]models.Store, int64, error)
}

type mongoStoreRepo struct {
	coll *mongo.Collection
}

// NewMongoStoreRepo constructs a MongoDB-backed StoreRepository.
func NewMongoStoreRepo() StoreRepository {
	repo := &mongoStoreRepo{
		coll: database.DB().Collection("stores"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("store index creation failed", zap.Error(err))
	}
	return repo
}
