package catalog

import (
	"context"
	"time"

	"mendly/models"
	"mendly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Treatment duration bounds in minutes.
const (
	MinTreatmentDuration = 15
	MaxTreatmentDuration = 480
)

func validStaffLevel(l models.SkillLevel) bool {
	return l == models.SkillAny || models.ValidSkillLevel(l)
}

func validateTreatmentFields(t *models.Treatment) error {
	if t.Name == "" {
		return utils.Invalidf("treatment name is required")
	}
	if t.DurationMinutes < MinTreatmentDuration || t.DurationMinutes > MaxTreatmentDuration {
		return utils.Invalidf("durationMinutes must be between %d and %d", MinTreatmentDuration, MaxTreatmentDuration)
	}
	if t.Price.Amount < 0 {
		return utils.Invalidf("price amount cannot be negative")
	}
	if len(t.Price.Currency) != 3 {
		return utils.Invalidf("price currency must be a 3-letter ISO code")
	}
	if !validStaffLevel(t.RequiredStaffLevel) {
		return utils.Invalidf("requiredStaffLevel must be junior, senior, expert or any")
	}
	if t.MaxConcurrentBookings < 1 {
		return utils.Invalidf("maxConcurrentBookings must be at least 1")
	}
	return nil
}

// checkResourceRefs verifies every required resource exists, is active and
// belongs to the treatment's store.
func (s *DefaultCatalogService) checkResourceRefs(ctx context.Context, storeID string, resourceIDs []string) error {
	if len(resourceIDs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(resourceIDs))
	for _, id := range resourceIDs {
		if seen[id] {
			return utils.Invalidf("duplicate resource id %s", id)
		}
		seen[id] = true
	}

	resources, err := s.Resources.GetByIDs(ctx, resourceIDs)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}
	for _, id := range resourceIDs {
		r, ok := byID[id]
		if !ok {
			return utils.Invalidf("resource %s does not exist", id)
		}
		if r.StoreID != storeID {
			return utils.Invalidf("resource %s belongs to another store", id)
		}
		if !r.IsActive {
			return utils.Invalidf("resource %s is inactive", id)
		}
	}
	return nil
}

func (s *DefaultCatalogService) CreateTreatment(ctx context.Context, t *models.Treatment) (*models.Treatment, error) {
	st, err := s.Stores.GetByID(ctx, t.StoreID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, utils.Invalidf("store %s is inactive", st.ID)
	}

	if t.RequiredStaffLevel == "" {
		t.RequiredStaffLevel = models.SkillAny
	}
	if t.MaxConcurrentBookings == 0 {
		t.MaxConcurrentBookings = 1
	}
	if err := validateTreatmentFields(t); err != nil {
		return nil, err
	}
	if err := s.checkResourceRefs(ctx, t.StoreID, t.RequiredResources); err != nil {
		return nil, err
	}

	t.ID = uuid.New().String()
	t.IsActive = true
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.Treatments.Create(ctx, t); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("treatment created",
		zap.String("treatmentId", t.ID), zap.String("storeId", t.StoreID), zap.String("name", t.Name))
	return t, nil
}

func (s *DefaultCatalogService) GetTreatment(ctx context.Context, id string) (*models.Treatment, error) {
	return s.Treatments.GetByID(ctx, id)
}

func (s *DefaultCatalogService) UpdateTreatment(ctx context.Context, id string, upd TreatmentUpdate) (*models.Treatment, error) {
	t, err := s.Treatments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.DurationMinutes != nil {
		t.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Price != nil {
		t.Price = *upd.Price
	}
	if upd.RequiredStaffLevel != nil {
		t.RequiredStaffLevel = *upd.RequiredStaffLevel
	}
	if upd.RequiredResources != nil {
		t.RequiredResources = *upd.RequiredResources
	}
	if upd.MaxConcurrentBookings != nil {
		t.MaxConcurrentBookings = *upd.MaxConcurrentBookings
	}
	if upd.Tags != nil {
		t.Tags = *upd.Tags
	}
	if upd.IsActive != nil {
		if !*upd.IsActive {
			if err := s.guardDeactivation(ctx, t); err != nil {
				return nil, err
			}
		}
		t.IsActive = *upd.IsActive
	}
	if upd.Metadata != nil {
		t.Metadata = upd.Metadata
	}

	if err := validateTreatmentFields(t); err != nil {
		return nil, err
	}
	if err := s.checkResourceRefs(ctx, t.StoreID, t.RequiredResources); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.Treatments.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *DefaultCatalogService) guardDeactivation(ctx context.Context, t *models.Treatment) error {
	busy, err := s.Bookings.HasUpcomingForTreatment(ctx, t.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	if busy {
		return utils.Conflictf("treatment %s has upcoming bookings", t.ID)
	}
	return nil
}

func (s *DefaultCatalogService) DeactivateTreatment(ctx context.Context, id string) error {
	t, err := s.Treatments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !t.IsActive {
		return nil
	}
	if err := s.guardDeactivation(ctx, t); err != nil {
		return err
	}
	t.IsActive = false
	t.UpdatedAt = time.Now().UTC()
	return s.Treatments.Update(ctx, t)
}

func (s *DefaultCatalogService) ListTreatments(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Treatment, int64, error) {
	return s.Treatments.ListByStore(ctx, storeID, activeOnly, page, pageSize)
}
