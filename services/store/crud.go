package store

import (
	"context"
	"time"

	"mendly/models"
	"mendly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validDayKeys = map[string]bool{
	models.DayMonday: true, models.DayTuesday: true, models.DayWednesday: true,
	models.DayThursday: true, models.DayFriday: true, models.DaySaturday: true,
	models.DaySunday: true,
}

// validateHours checks day keys, clock formats and open<close ordering.
func validateHours(hours models.OperatingHours) error {
	for key, day := range hours {
		if !validDayKeys[key] {
			return utils.Invalidf("unknown weekday %q in operating hours", key)
		}
		if day.Closed {
			continue
		}
		oh, om, okOpen := parseClock(day.Open)
		ch, cm, okClose := parseClock(day.Close)
		if !okOpen || !okClose {
			return utils.Invalidf("operating hours for %s must be HH:MM", key)
		}
		if oh*60+om >= ch*60+cm {
			return utils.Invalidf("operating hours for %s must open before they close", key)
		}
	}
	return nil
}

func (s *DefaultStoreService) Create(ctx context.Context, st *models.Store) (*models.Store, error) {
	if st.Name == "" {
		return nil, utils.Invalidf("store name is required")
	}
	if _, err := time.LoadLocation(st.Timezone); err != nil {
		return nil, utils.Invalidf("unknown timezone %q", st.Timezone)
	}
	if st.OperatingHours == nil {
		st.OperatingHours = models.OperatingHours{}
	}
	if err := validateHours(st.OperatingHours); err != nil {
		return nil, err
	}

	st.ID = uuid.New().String()
	st.Settings = models.DefaultStoreSettings()
	st.IsActive = true
	now := time.Now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now

	if err := s.Repo.Create(ctx, st); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("store created", zap.String("storeId", st.ID), zap.String("name", st.Name))
	return st, nil
}

func (s *DefaultStoreService) Get(ctx context.Context, id string) (*models.Store, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultStoreService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.Store, error) {
	st, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, utils.Invalidf("store name cannot be empty")
		}
		st.Name = *upd.Name
	}
	if upd.Timezone != nil {
		if _, err := time.LoadLocation(*upd.Timezone); err != nil {
			return nil, utils.Invalidf("unknown timezone %q", *upd.Timezone)
		}
		st.Timezone = *upd.Timezone
	}
	if upd.OperatingHours != nil {
		if err := validateHours(*upd.OperatingHours); err != nil {
			return nil, err
		}
		st.OperatingHours = *upd.OperatingHours
	}
	if upd.Metadata != nil {
		st.Metadata = upd.Metadata
	}
	st.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *DefaultStoreService) SetActive(ctx context.Context, id string, active bool) (*models.Store, error) {
	st, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st.IsActive = active
	st.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, st); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("store active flag changed", zap.String("storeId", id), zap.Bool("active", active))
	return st, nil
}

func (s *DefaultStoreService) List(ctx context.Context, page, pageSize int, activeOnly bool) ([]models.Store, int64, error) {
	return s.Repo.List(ctx, page, pageSize, activeOnly)
}
