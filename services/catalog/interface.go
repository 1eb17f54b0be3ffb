// Package catalog manages a store's bookable offerings: treatments, the
// resources they occupy, and staff eligibility rules.
package catalog

import (
	"context"

	bookingRepo "mendly/database/repository/booking"
	resourceRepo "mendly/database/repository/resource"
	storeRepo "mendly/database/repository/store"
	treatmentRepo "mendly/database/repository/treatment"
	"mendly/models"
)

// CatalogService defines treatment and resource management.
type CatalogService interface {
	CreateTreatment(ctx context.Context, t *models.Treatment) (*models.Treatment, error)
	GetTreatment(ctx context.Context, id string) (*models.Treatment, error)
	UpdateTreatment(ctx context.Context, id string, upd TreatmentUpdate) (*models.Treatment, error)
	// DeactivateTreatment soft-deletes; it fails with a conflict while
	// pending or confirmed future bookings reference the treatment.
	DeactivateTreatment(ctx context.Context, id string) error
	ListTreatments(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Treatment, int64, error)

	CreateResource(ctx context.Context, r *models.Resource) (*models.Resource, error)
	GetResource(ctx context.Context, id string) (*models.Resource, error)
	UpdateResource(ctx context.Context, id string, upd ResourceUpdate) (*models.Resource, error)
	ListResources(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Resource, int64, error)
}

// TreatmentUpdate carries optional fields; nil means unchanged.
type TreatmentUpdate struct {
	Name                  *string                `json:"name"`
	Category              *string                `json:"category"`
	Description           *string                `json:"description"`
	DurationMinutes       *int                   `json:"durationMinutes"`
	Price                 *models.Price          `json:"price"`
	RequiredStaffLevel    *models.SkillLevel     `json:"requiredStaffLevel"`
	RequiredResources     *[]string              `json:"requiredResources"`
	MaxConcurrentBookings *int                   `json:"maxConcurrentBookings"`
	Tags                  *[]string              `json:"tags"`
	IsActive              *bool                  `json:"isActive"`
	Metadata              map[string]interface{} `json:"metadata"`
}

// ResourceUpdate carries optional fields; nil means unchanged.
type ResourceUpdate struct {
	Name     *string                `json:"name"`
	Type     *string                `json:"type"`
	Capacity *int                   `json:"capacity"`
	IsActive *bool                  `json:"isActive"`
	Metadata map[string]interface{} `json:"metadata"`
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	Stores     storeRepo.StoreRepository
	Treatments treatmentRepo.TreatmentRepository
	Resources  resourceRepo.ResourceRepository
	Bookings   bookingRepo.BookingRepository
}
