// File: database/repository/user/interface.go
package userRepo

import (
	"context"

	"mendly/database"
	"mendly/models"
	"mendly/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update replaces an existing user record.
	Update(ctx context.Context, user *models.User) error
	// ListStaffByStore retrieves all active staff accounts of a store.
	ListStaffByStore(ctx context.Context, storeID string) ([]models.User, error)
	// List retrieves users with paging, optionally filtered by role.
	List(ctx context.Context, role models.Role, page, pageSize int) ([]models.User, int64, error)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a MongoDB-backed UserRepository.
func NewMongoUserRepo() UserRepository {
	repo := &mongoUserRepo{
		coll: database.DB().Collection("users"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("user index creation failed", zap.Error(err))
	}
	return repo
}
