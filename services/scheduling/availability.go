// File: services/scheduling/availability.go
package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"mendly/database/repository"
	"mendly/models"
	"mendly/services/catalog"
	"mendly/services/store"
	"mendly/utils"

	"go.uber.org/zap"
)

func (s *DefaultSchedulingService) ListForDate(ctx context.Context, storeID, date string) ([]models.Timeslot, error) {
	st, err := s.Stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if _, err := store.ParseLocalDate(st, date); err != nil {
		return nil, err
	}
	return s.Slots.ListByStoreAndDate(ctx, st.ID, date)
}

func (s *DefaultSchedulingService) FindAvailableForDate(ctx context.Context, storeID, date string) ([]models.Timeslot, error) {
	slots, err := s.ListForDate(ctx, storeID, date)
	if err != nil {
		return nil, err
	}
	out := make([]models.Timeslot, 0, len(slots))
	for i := range slots {
		if slots[i].IsActive && slots[i].HasCapacity() {
			out = append(out, slots[i])
		}
	}
	return out, nil
}

// AvailabilityForTreatment returns every bookable start time for the
// treatment on the given store-local date. A slot qualifies when it is
// active, has remaining capacity, accepts the treatment and is long enough
// to hold it. EligibleStaffIDs lists staff who can perform the treatment and
// are free for its duration; it may be empty since bookings do not have to
// name a staff member.
func (s *DefaultSchedulingService) AvailabilityForTreatment(ctx context.Context, storeID, treatmentID, date string) ([]models.AvailableSlot, error) {
	logger := utils.GetLogger()

	st, err := s.Stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	t, err := s.Treatments.GetByID(ctx, treatmentID)
	if err != nil {
		return nil, err
	}
	if t.StoreID != st.ID {
		return nil, repository.ErrNotFound
	}
	if _, err := store.ParseLocalDate(st, date); err != nil {
		return nil, err
	}
	if !t.IsActive {
		return []models.AvailableSlot{}, nil
	}

	// 1. Serve from cache when fresh. Keys are epoch-versioned, so any
	// booking or slot write since the fill makes this a miss.
	key := utils.AvailabilityCacheKey(ctx, st.ID, t.ID, date)
	if raw, ok := utils.CacheGet(ctx, key); ok {
		var cached []models.AvailableSlot
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	// 2. Load the day's slots and the store's staff roster.
	slots, err := s.Slots.ListByStoreAndDate(ctx, st.ID, date)
	if err != nil {
		return nil, err
	}
	staff, err := s.Users.ListStaffByStore(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	eligible := catalog.EligibleStaff(t, staff)
	duration := time.Duration(t.DurationMinutes) * time.Minute

	// 3. Keep slots the treatment fits into, resolving which eligible staff
	// are free for each window.
	out := make([]models.AvailableSlot, 0, len(slots))
	for i := range slots {
		sl := &slots[i]
		if !sl.IsActive || !sl.HasCapacity() || !sl.AcceptsTreatment(t.ID) {
			continue
		}
		end := sl.StartTime.Add(duration)
		if end.After(sl.EndTime) {
			continue
		}

		ids := rosterFor(sl, eligible)
		if len(ids) > 0 {
			busy, err := s.Bookings.FindStaffBusy(ctx, ids, sl.StartTime, end)
			if err != nil {
				return nil, err
			}
			free := ids[:0]
			for _, id := range ids {
				if !busy[id] {
					free = append(free, id)
				}
			}
			ids = free
		}

		out = append(out, models.AvailableSlot{
			TimeslotID:        sl.ID,
			StartTime:         sl.StartTime,
			EndTime:           sl.EndTime,
			RemainingCapacity: sl.MaxCapacity - sl.CurrentBookings,
			EligibleStaffIDs:  ids,
		})
	}

	// 4. Fill the cache. Failures are non-fatal.
	if b, err := json.Marshal(out); err == nil {
		utils.CacheSet(ctx, key, b)
	} else {
		logger.Warn("availability cache marshal failed",
			zap.String("storeId", st.ID), zap.Error(err))
	}
	return out, nil
}

// rosterFor narrows skill-eligible staff to the slot's assigned roster when
// the slot carries one.
func rosterFor(sl *models.Timeslot, eligible []models.User) []string {
	ids := make([]string, 0, len(eligible))
	if len(sl.StaffIDs) == 0 {
		for i := range eligible {
			ids = append(ids, eligible[i].ID)
		}
		return ids
	}
	assigned := make(map[string]bool, len(sl.StaffIDs))
	for _, id := range sl.StaffIDs {
		assigned[id] = true
	}
	for i := range eligible {
		if assigned[eligible[i].ID] {
			ids = append(ids, eligible[i].ID)
		}
	}
	return ids
}
