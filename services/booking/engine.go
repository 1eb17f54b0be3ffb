// File: services/booking/engine.go
//
// The admission algorithm. Every write that claims capacity runs with the
// per-store lock held, so two requests racing for the last opening in one
// store serialize while other stores stay fully parallel.
package booking

import (
	"context"
	"errors"
	"time"

	"mendly/database/repository"
	bookingRepo "mendly/database/repository/booking"
	"mendly/models"
	"mendly/services/store"
	"mendly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// admission carries the validated inputs of one admission attempt.
type admission struct {
	store      *models.Store
	treatment  *models.Treatment
	staffID    string
	start      time.Time // UTC
	end        time.Time // UTC, start + treatment duration
	localStart time.Time // start in the store's zone
}

// admissionParams are the raw inputs to precheck. An empty customerID skips
// the customer check (modification path, the customer never changes).
type admissionParams struct {
	storeID     string
	customerID  string
	treatmentID string
	staffID     string
	start       time.Time
	actorRole   models.Role
}

// precheck runs the cheap validations that need no lock: entity existence,
// activation flags, the advance-booking window and staff eligibility.
func (s *DefaultBookingService) precheck(ctx context.Context, p admissionParams, now time.Time) (*admission, error) {
	st, err := s.Stores.GetByID(ctx, p.storeID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, denied(ReasonStoreClosed, "store is not accepting bookings")
	}
	if p.actorRole == models.RoleCustomer && !st.Settings.AllowOnlineBooking {
		return nil, utils.Conflictf("store does not accept online bookings")
	}

	if p.customerID != "" {
		cust, err := s.Users.GetByID(ctx, p.customerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, utils.Invalidf("unknown customer %q", p.customerID)
			}
			return nil, err
		}
		if !cust.IsActive {
			return nil, utils.Invalidf("customer account is inactive")
		}
	}

	t, err := s.Treatments.GetByID(ctx, p.treatmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, denied(ReasonTreatmentNotFound, "treatment %q not found", p.treatmentID)
		}
		return nil, err
	}
	if t.StoreID != st.ID || !t.IsActive {
		return nil, denied(ReasonTreatmentNotFound, "treatment %q is not offered by this store", p.treatmentID)
	}

	if p.start.Before(now) {
		return nil, utils.Invalidf("bookingDateTime must not be in the past")
	}
	maxAdvance := time.Duration(st.Settings.MaxAdvanceBookingDays) * 24 * time.Hour
	if p.start.Sub(now) > maxAdvance {
		return nil, denied(ReasonTooFarInAdvance,
			"bookings can be made at most %d days in advance", st.Settings.MaxAdvanceBookingDays)
	}

	loc, err := store.Location(st)
	if err != nil {
		return nil, err
	}
	localStart := p.start.In(loc)
	if !store.IsOpenOnDate(st, localStart) {
		return nil, denied(ReasonStoreClosed, "store is closed on %s", localStart.Format(utils.DateLayout))
	}

	if p.staffID != "" {
		u, err := s.Users.GetByID(ctx, p.staffID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, denied(ReasonInvalidStaff, "staff member %q not found", p.staffID)
			}
			return nil, err
		}
		if !u.IsStaff() || !u.IsActive || u.StoreID != st.ID {
			return nil, denied(ReasonInvalidStaff, "user %q is not an active staff member of this store", p.staffID)
		}
		if !u.SkillLevel.Satisfies(t.RequiredStaffLevel) {
			return nil, denied(ReasonInvalidStaff,
				"staff member lacks the required skill level (%s)", t.RequiredStaffLevel)
		}
	}

	return &admission{
		store:      st,
		treatment:  t,
		staffID:    p.staffID,
		start:      p.start.UTC(),
		end:        p.start.Add(time.Duration(t.DurationMinutes) * time.Minute).UTC(),
		localStart: localStart,
	}, nil
}

// admit runs the five quota checks in order and returns the covering
// timeslot on success. Checks stop at the first failure. The caller must
// hold the store lock; excludeID drops the booking being modified from
// every count, and heldSlotID names the slot whose counter already carries
// that booking's claim.
func (s *DefaultBookingService) admit(ctx context.Context, a *admission, excludeID, heldSlotID string) (*models.Timeslot, error) {
	// 1. Timeslot gate: earliest-starting active slot that covers the whole
	// window, accepts the treatment and still has capacity.
	slots, err := s.Slots.ListCovering(ctx, a.store.ID, a.start, a.end, a.treatment.ID)
	if err != nil {
		return nil, err
	}
	var slot *models.Timeslot
	for i := range slots {
		sl := &slots[i]
		occupied := sl.CurrentBookings
		if sl.ID == heldSlotID {
			occupied--
		}
		if occupied >= sl.MaxCapacity {
			continue
		}
		if a.staffID != "" && len(sl.StaffIDs) > 0 && !containsString(sl.StaffIDs, a.staffID) {
			continue
		}
		slot = sl
		break
	}
	if slot == nil {
		return nil, denied(ReasonNoTimeslot, "no open timeslot covers %s to %s",
			a.start.Format(time.RFC3339), a.end.Format(time.RFC3339))
	}

	// 2. Treatment concurrency.
	n, err := s.Bookings.CountOverlapping(ctx, bookingRepo.OverlapFilter{
		TreatmentID: a.treatment.ID,
		Start:       a.start,
		End:         a.end,
		ExcludeID:   excludeID,
	})
	if err != nil {
		return nil, err
	}
	if n >= int64(a.treatment.MaxConcurrentBookings) {
		return nil, denied(ReasonTreatmentCapacity,
			"treatment %q is fully booked in this time range", a.treatment.Name)
	}

	// 3. Staff conflict, only when a staff member was requested.
	if a.staffID != "" {
		n, err := s.Bookings.CountOverlapping(ctx, bookingRepo.OverlapFilter{
			StaffID:   a.staffID,
			Start:     a.start,
			End:       a.end,
			ExcludeID: excludeID,
		})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, denied(ReasonStaffConflict, "staff member is already booked during this time range")
		}
	}

	// 4. Resource conflict: every required resource must have a free unit.
	for _, rid := range a.treatment.RequiredResources {
		res, err := s.Resources.GetByID(ctx, rid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, denied(ReasonResourceCapacity, "required resource %q is unavailable", rid)
			}
			return nil, err
		}
		if !res.IsActive {
			return nil, denied(ReasonResourceCapacity, "required resource %q is unavailable", res.Name)
		}
		holders, err := s.Treatments.ListRequiringResource(ctx, a.store.ID, rid)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(holders))
		for i := range holders {
			ids[i] = holders[i].ID
		}
		n, err := s.Bookings.CountOverlapping(ctx, bookingRepo.OverlapFilter{
			TreatmentIDs: ids,
			Start:        a.start,
			End:          a.end,
			ExcludeID:    excludeID,
		})
		if err != nil {
			return nil, err
		}
		if n >= int64(res.Capacity) {
			return nil, denied(ReasonResourceCapacity, "resource %q is at capacity", res.Name)
		}
	}

	// 5. Store quotas: daily cap on the store-local date, then concurrency.
	if a.store.Settings.MaxDailyBookings != nil {
		dayStart, dayEnd := store.LocalDayBounds(a.store, a.localStart)
		n, err := s.Bookings.CountForStoreBetween(ctx, a.store.ID, dayStart, dayEnd, excludeID)
		if err != nil {
			return nil, err
		}
		if n >= int64(*a.store.Settings.MaxDailyBookings) {
			return nil, denied(ReasonDailyLimit, "store has reached its daily booking limit")
		}
	}
	if a.store.Settings.MaxConcurrentBookings != nil {
		n, err := s.Bookings.CountOverlapping(ctx, bookingRepo.OverlapFilter{
			StoreID:   a.store.ID,
			Start:     a.start,
			End:       a.end,
			ExcludeID: excludeID,
		})
		if err != nil {
			return nil, err
		}
		if n >= int64(*a.store.Settings.MaxConcurrentBookings) {
			return nil, denied(ReasonStoreCapacity, "store has reached its concurrent booking limit")
		}
	}

	return slot, nil
}

func (s *DefaultBookingService) Create(ctx context.Context, req CreateRequest) (*models.Booking, error) {
	logger := utils.GetLogger()
	now := s.now()

	a, err := s.precheck(ctx, admissionParams{
		storeID:     req.StoreID,
		customerID:  req.CustomerID,
		treatmentID: req.TreatmentID,
		staffID:     req.StaffID,
		start:       req.BookingDateTime,
		actorRole:   req.ActorRole,
	}, now)
	if err != nil {
		return nil, err
	}

	release, err := s.Locker.Acquire(ctx, a.store.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	slot, err := s.admit(ctx, a, "", "")
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:              uuid.New().String(),
		CustomerID:      req.CustomerID,
		StoreID:         a.store.ID,
		TreatmentID:     a.treatment.ID,
		StaffID:         a.staffID,
		TimeslotID:      slot.ID,
		BookingDateTime: a.start,
		EndDateTime:     a.end,
		DurationMinutes: a.treatment.DurationMinutes,
		Price:           a.treatment.Price,
		Notes:           req.Notes,
		Metadata:        req.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	initial := models.BookingPending
	if !a.store.Settings.RequireApproval {
		initial = models.BookingConfirmed
	}
	b.SetStatus(initial)

	if err := s.Bookings.CreateWithSlotClaim(ctx, b, slot.ID); err != nil {
		if errors.Is(err, repository.ErrSlotFull) {
			return nil, denied(ReasonNoTimeslot, "timeslot filled up while booking")
		}
		return nil, err
	}

	utils.BumpAvailabilityEpoch(ctx, a.store.ID)
	s.Events.Emit(ctx, models.EventBookingCreated, models.BookingEventData{Booking: b})

	logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("storeId", b.StoreID),
		zap.String("treatmentId", b.TreatmentID),
		zap.Time("start", b.BookingDateTime),
		zap.String("status", string(b.Status)))
	return b, nil
}

func (s *DefaultBookingService) Modify(ctx context.Context, bookingID string, req ModifyRequest) (*models.Booking, error) {
	logger := utils.GetLogger()
	now := s.now()

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	newStart := b.BookingDateTime
	if req.BookingDateTime != nil {
		newStart = req.BookingDateTime.UTC()
	}
	newStaff := b.StaffID
	if req.StaffID != nil {
		newStaff = *req.StaffID
	}
	newTreatment := b.TreatmentID
	if req.TreatmentID != nil {
		newTreatment = *req.TreatmentID
	}

	var changed []string
	if !newStart.Equal(b.BookingDateTime) {
		changed = append(changed, "bookingDateTime")
	}
	if newStaff != b.StaffID {
		changed = append(changed, "staffId")
	}
	if newTreatment != b.TreatmentID {
		changed = append(changed, "treatmentId")
	}
	notesChanged := req.Notes != nil && *req.Notes != b.Notes
	if notesChanged {
		changed = append(changed, "notes")
	}
	if len(changed) == 0 {
		return b, nil
	}

	// Notes carry no capacity, so they stay editable after the booking
	// window closes.
	if len(changed) == 1 && notesChanged {
		b.Notes = *req.Notes
		b.UpdatedAt = now
		if err := s.Bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		s.Events.Emit(ctx, models.EventBookingUpdated, models.BookingEventData{
			Booking:       b,
			ChangedFields: changed,
		})
		return b, nil
	}

	if !Modifiable(b, now) {
		return nil, utils.Conflictf("booking in status %s starting %s can no longer be modified",
			b.Status, b.BookingDateTime.Format(time.RFC3339))
	}

	a, err := s.precheck(ctx, admissionParams{
		storeID:     b.StoreID,
		treatmentID: newTreatment,
		staffID:     newStaff,
		start:       newStart,
	}, now)
	if err != nil {
		return nil, err
	}

	release, err := s.Locker.Acquire(ctx, a.store.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	slot, err := s.admit(ctx, a, b.ID, b.TimeslotID)
	if err != nil {
		return nil, err
	}

	oldSlot := b.TimeslotID
	if newTreatment != b.TreatmentID {
		b.Price = a.treatment.Price
	}
	b.TreatmentID = a.treatment.ID
	b.StaffID = a.staffID
	b.BookingDateTime = a.start
	b.EndDateTime = a.end
	b.DurationMinutes = a.treatment.DurationMinutes
	b.TimeslotID = slot.ID
	if req.Notes != nil {
		b.Notes = *req.Notes
	}
	b.UpdatedAt = now

	if slot.ID == oldSlot {
		err = s.Bookings.Update(ctx, b)
	} else {
		err = s.Bookings.RescheduleWithSlotSwap(ctx, b, oldSlot)
	}
	if err != nil {
		if errors.Is(err, repository.ErrSlotFull) {
			return nil, denied(ReasonNoTimeslot, "timeslot filled up while rescheduling")
		}
		return nil, err
	}

	utils.BumpAvailabilityEpoch(ctx, a.store.ID)
	s.Events.Emit(ctx, models.EventBookingUpdated, models.BookingEventData{
		Booking:       b,
		ChangedFields: changed,
	})

	logger.Info("booking modified",
		zap.String("bookingId", b.ID),
		zap.Strings("changedFields", changed))
	return b, nil
}

func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, reason string) (*models.Booking, error) {
	logger := utils.GetLogger()
	now := s.now()

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// Double-cancel is idempotent and must not move the slot counter again.
	if b.Status == models.BookingCancelled {
		return b, nil
	}
	if IsTerminal(b.Status) {
		return nil, utils.Conflictf("booking is %s and cannot be cancelled", b.Status)
	}

	st, err := s.Stores.GetByID(ctx, b.StoreID)
	if err != nil {
		return nil, err
	}
	deadline := time.Duration(st.Settings.CancellationDeadlineHours) * time.Hour
	if b.BookingDateTime.Sub(now) < deadline {
		return nil, utils.Conflictf("cancellations require %d hours notice",
			st.Settings.CancellationDeadlineHours)
	}

	if err := Transition(b, models.BookingCancelled, now); err != nil {
		return nil, err
	}
	b.CancellationReason = reason

	if err := s.Bookings.CancelWithSlotRelease(ctx, b); err != nil {
		return nil, err
	}

	utils.BumpAvailabilityEpoch(ctx, b.StoreID)
	s.Events.Emit(ctx, models.EventBookingCancelled, models.BookingEventData{
		Booking: b,
		Reason:  reason,
	})

	logger.Info("booking cancelled",
		zap.String("bookingId", b.ID), zap.String("reason", reason))
	return b, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
