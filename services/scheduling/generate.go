// File: services/scheduling/generate.go
package scheduling

import (
	"context"
	"time"

	"mendly/models"
	"mendly/services/store"
	"mendly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxGenerateRangeDays = 30

func normalizeOptions(opts *GenerateOptions) error {
	if opts.SlotDurationMinutes == 0 {
		opts.SlotDurationMinutes = utils.DefaultSlotDurationMinutes
	}
	if opts.MaxCapacity == 0 {
		opts.MaxCapacity = utils.DefaultSlotCapacity
	}
	if opts.SlotDurationMinutes < 0 || opts.SlotDurationMinutes > 24*60 {
		return utils.Invalidf("slotDuration must be between 1 and 1440 minutes")
	}
	if opts.MaxCapacity < 1 {
		return utils.Invalidf("maxCapacity must be at least 1")
	}
	return nil
}

// validateAssignments checks that any treatment restriction or staff roster
// attached to generated slots references this store's own catalog and staff.
func (s *DefaultSchedulingService) validateAssignments(ctx context.Context, st *models.Store, opts GenerateOptions) error {
	for _, tid := range opts.TreatmentTypes {
		t, err := s.Treatments.GetByID(ctx, tid)
		if err != nil {
			return utils.Invalidf("unknown treatment %q", tid)
		}
		if t.StoreID != st.ID {
			return utils.Invalidf("treatment %q does not belong to this store", tid)
		}
	}
	if len(opts.StaffIDs) > 0 {
		staff, err := s.Users.ListStaffByStore(ctx, st.ID)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(staff))
		for i := range staff {
			known[staff[i].ID] = true
		}
		for _, sid := range opts.StaffIDs {
			if !known[sid] {
				return utils.Invalidf("staff %q is not an active staff member of this store", sid)
			}
		}
	}
	return nil
}

// buildDaySlots emits the contiguous slot sequence for one local date. The
// final partial slot is discarded; a closed day yields ok=false.
func buildDaySlots(st *models.Store, localDate time.Time, date string, opts GenerateOptions) ([]models.Timeslot, bool) {
	open, close, ok := store.DayWindow(st, localDate)
	if !ok {
		return nil, false
	}

	delta := time.Duration(opts.SlotDurationMinutes) * time.Minute
	now := time.Now().UTC()
	var slots []models.Timeslot
	for start := open; !start.Add(delta).After(close); start = start.Add(delta) {
		slots = append(slots, models.Timeslot{
			ID:              uuid.New().String(),
			StoreID:         st.ID,
			LocalDate:       date,
			StartTime:       start.UTC(),
			EndTime:         start.Add(delta).UTC(),
			MaxCapacity:     opts.MaxCapacity,
			CurrentBookings: 0,
			TreatmentTypes:  opts.TreatmentTypes,
			StaffIDs:        opts.StaffIDs,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return slots, true
}

// generateForDate swaps in a fresh slot set for one date. Caller must hold
// the store lock. changed is false when the day is closed and nothing was
// written.
func (s *DefaultSchedulingService) generateForDate(ctx context.Context, st *models.Store, date string, opts GenerateOptions) ([]models.Timeslot, bool, error) {
	localDate, err := store.ParseLocalDate(st, date)
	if err != nil {
		return nil, false, err
	}

	slots, open := buildDaySlots(st, localDate, date, opts)
	if !open {
		return nil, false, nil
	}
	if err := s.Slots.ReplaceForDate(ctx, st.ID, date, slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (s *DefaultSchedulingService) GenerateDailySlots(ctx context.Context, storeID, date string, opts GenerateOptions) ([]models.Timeslot, error) {
	logger := utils.GetLogger()

	if err := normalizeOptions(&opts); err != nil {
		return nil, err
	}
	st, err := s.Stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := s.validateAssignments(ctx, st, opts); err != nil {
		return nil, err
	}

	release, err := s.Locker.Acquire(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	slots, changed, err := s.generateForDate(ctx, st, date, opts)
	if err != nil {
		return nil, err
	}
	if changed {
		utils.BumpAvailabilityEpoch(ctx, st.ID)
		s.Events.Emit(ctx, models.EventAvailabilityChange, models.AvailabilityEventData{
			StoreID:   st.ID,
			Date:      date,
			SlotCount: len(slots),
		})
		logger.Info("timeslots regenerated",
			zap.String("storeId", st.ID), zap.String("date", date), zap.Int("count", len(slots)))
	}
	return slots, nil
}

func (s *DefaultSchedulingService) GenerateRange(ctx context.Context, storeID, startDate, endDate string, opts GenerateOptions) ([]models.Timeslot, error) {
	logger := utils.GetLogger()

	if err := normalizeOptions(&opts); err != nil {
		return nil, err
	}
	st, err := s.Stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := s.validateAssignments(ctx, st, opts); err != nil {
		return nil, err
	}

	from, err := store.ParseLocalDate(st, startDate)
	if err != nil {
		return nil, err
	}
	to, err := store.ParseLocalDate(st, endDate)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, utils.Invalidf("endDate precedes startDate")
	}

	// Count calendar days inclusively; AddDate keeps dates aligned to the
	// store's zone across DST shifts.
	days := 1
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		days++
		if days > maxGenerateRangeDays {
			return nil, utils.Invalidf("date range exceeds %d days", maxGenerateRangeDays)
		}
	}

	release, err := s.Locker.Acquire(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	var all []models.Timeslot
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(utils.DateLayout)
		slots, changed, err := s.generateForDate(ctx, st, date, opts)
		if err != nil {
			return nil, err
		}
		if !changed {
			continue
		}
		all = append(all, slots...)
		s.Events.Emit(ctx, models.EventAvailabilityChange, models.AvailabilityEventData{
			StoreID:   st.ID,
			Date:      date,
			SlotCount: len(slots),
		})
	}
	utils.BumpAvailabilityEpoch(ctx, st.ID)

	logger.Info("timeslot range regenerated",
		zap.String("storeId", st.ID),
		zap.String("from", startDate), zap.String("to", endDate),
		zap.Int("count", len(all)))
	return all, nil
}
