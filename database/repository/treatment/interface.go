// File: database/repository/treatment/interface.go
package treatmentRepo

import (
	"context"

	"mendly/database"
	"mendly/models"
	"mendly/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// TreatmentRepository defines methods for treatment data access.
type TreatmentRepository interface {
	// Create inserts a new treatment record.
	Create(ctx context.Context, treatment *models.Treatment) error
	// GetByID retrieves a treatment by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Treatment, error)
	// Update replaces an existing treatment record.
	Update(ctx context.Context, treatment *models.Treatment) error
	// ListByStore retrieves a store's treatments with paging.
	ListByStore(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Treatment, int64, error)
	// ListRequiringResource retrieves active treatments of a store whose
	// requiredResources include the given resource.
	ListRequiringResource(ctx context.Context, storeID, resourceID string) ([]models.Treatment, error)
}

type mongoTreatmentRepo struct {
	coll *mongo.Collection
}

// NewMongoTreatmentRepo constructs a MongoDB-backed TreatmentRepository.
func NewMongoTreatmentRepo() TreatmentRepository {
	repo := &mongoTreatmentRepo{
		coll: database.DB().Collection("treatments"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("treatment index creation failed", zap.Error(err))
	}
	return repo
}
