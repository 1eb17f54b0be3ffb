package catalog

import (
	"context"
	"time"

	"mendly/models"
	"mendly/utils"

	"github.com/google/uuid"
)

func (s *DefaultCatalogService) CreateResource(ctx context.Context, r *models.Resource) (*models.Resource, error) {
	st, err := s.Stores.GetByID(ctx, r.StoreID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, utils.Invalidf("store %s is inactive", st.ID)
	}
	if r.Name == "" {
		return nil, utils.Invalidf("resource name is required")
	}
	if r.Capacity < 1 {
		return nil, utils.Invalidf("resource capacity must be at least 1")
	}

	r.ID = uuid.New().String()
	r.IsActive = true
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.Resources.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *DefaultCatalogService) GetResource(ctx context.Context, id string) (*models.Resource, error) {
	return s.Resources.GetByID(ctx, id)
}

func (s *DefaultCatalogService) UpdateResource(ctx context.Context, id string, upd ResourceUpdate) (*models.Resource, error) {
	r, err := s.Resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, utils.Invalidf("resource name cannot be empty")
		}
		r.Name = *upd.Name
	}
	if upd.Type != nil {
		r.Type = *upd.Type
	}
	if upd.Capacity != nil {
		if *upd.Capacity < 1 {
			return nil, utils.Invalidf("resource capacity must be at least 1")
		}
		r.Capacity = *upd.Capacity
	}
	if upd.IsActive != nil {
		if !*upd.IsActive {
			// A resource stays active while any active treatment requires it.
			dependents, err := s.Treatments.ListRequiringResource(ctx, r.StoreID, r.ID)
			if err != nil {
				return nil, err
			}
			if len(dependents) > 0 {
				return nil, utils.Conflictf("resource %s is required by %d active treatments", r.ID, len(dependents))
			}
		}
		r.IsActive = *upd.IsActive
	}
	if upd.Metadata != nil {
		r.Metadata = upd.Metadata
	}
	r.UpdatedAt = time.Now().UTC()

	if err := s.Resources.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *DefaultCatalogService) ListResources(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Resource, int64, error) {
	return s.Resources.ListByStore(ctx, storeID, activeOnly, page, pageSize)
}
