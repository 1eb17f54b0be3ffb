// Package store maintains tenant facilities: profile data, operating hours
// and the per-store booking policy settings.
package store

import (
	"context"

	storeRepo "mendly/database/repository/store"
	"mendly/models"
)

// StoreService defines the store registry operations.
type StoreService interface {
	// Create registers a new store with validated hours and timezone.
	Create(ctx context.Context, st *models.Store) (*models.Store, error)
	// Get retrieves a store by ID.
	Get(ctx context.Context, id string) (*models.Store, error)
	// UpdateProfile changes name, timezone, operating hours and metadata.
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.Store, error)
	// UpdateSettings applies the shallow-merge settings contract.
	UpdateSettings(ctx context.Context, id string, patch map[string]interface{}) (*models.Store, error)
	// SetActive toggles the soft-delete flag.
	SetActive(ctx context.Context, id string, active bool) (*models.Store, error)
	// List pages through stores.
	List(ctx context.Context, page, pageSize int, activeOnly bool) ([]models.Store, int64, error)
}

// ProfileUpdate carries optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name           *string                `json:"name"`
	Timezone       *string                `json:"timezone"`
	OperatingHours *models.OperatingHours `json:"operatingHours"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// DefaultStoreService implements StoreService.
type DefaultStoreService struct {
	Repo storeRepo.StoreRepository
}
