package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"mendly/models"
	"mendly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireDenied(t *testing.T, err error, reason string) {
	t.Helper()
	var adm *AdmissionError
	require.ErrorAs(t, err, &adm)
	assert.Equal(t, reason, adm.Reason)
}

func TestCreateBooking_PendingWithSnapshot(t *testing.T) {
	f := newEngineFixture()

	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)

	// Approval is required by default, so the booking starts pending.
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, "slot-1", b.TimeslotID)
	assert.Equal(t, time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC), b.EndDateTime)
	assert.Equal(t, 60, b.DurationMinutes)
	assert.Equal(t, models.Price{Amount: 45, Currency: "EUR"}, b.Price)

	// The covering slot's counter moved with the insert.
	assert.Equal(t, 1, f.slots.byID["slot-1"].CurrentBookings)
	assert.Equal(t, 1, f.events.countOf(models.EventBookingCreated))
}

func TestCreateBooking_AutoConfirmedWithoutApproval(t *testing.T) {
	f := newEngineFixture()
	f.store().Settings.RequireApproval = false

	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
}

func TestCreateBooking_RejectsInactiveStore(t *testing.T) {
	f := newEngineFixture()
	f.store().IsActive = false

	_, err := f.svc.Create(context.Background(), f.baseRequest())
	requireDenied(t, err, ReasonStoreClosed)
}

func TestCreateBooking_RejectsClosedDay(t *testing.T) {
	f := newEngineFixture()
	f.store().OperatingHours[models.DaySunday] = models.DayHours{Closed: true}

	req := f.baseRequest()
	// 2026-09-06 is a Sunday in Berlin.
	req.BookingDateTime = time.Date(2026, time.September, 6, 8, 0, 0, 0, time.UTC)

	_, err := f.svc.Create(context.Background(), req)
	requireDenied(t, err, ReasonStoreClosed)
}

func TestCreateBooking_RejectsPastStart(t *testing.T) {
	f := newEngineFixture()
	req := f.baseRequest()
	req.BookingDateTime = fixedNow.Add(-time.Hour)

	_, err := f.svc.Create(context.Background(), req)
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestCreateBooking_RejectsBeyondAdvanceWindow(t *testing.T) {
	f := newEngineFixture()
	req := f.baseRequest()
	// Default window is 90 days; this start is 92 days out.
	req.BookingDateTime = time.Date(2026, time.November, 25, 8, 0, 0, 0, time.UTC)

	_, err := f.svc.Create(context.Background(), req)
	requireDenied(t, err, ReasonTooFarInAdvance)
}

func TestCreateBooking_TreatmentValidation(t *testing.T) {
	f := newEngineFixture()
	f.treatments.byID["treat-other"] = &models.Treatment{
		ID: "treat-other", StoreID: "store-2", Name: "Elsewhere",
		DurationMinutes: 30, MaxConcurrentBookings: 1, IsActive: true,
	}
	f.treatments.byID["treat-retired"] = &models.Treatment{
		ID: "treat-retired", StoreID: "store-1", Name: "Retired",
		DurationMinutes: 30, MaxConcurrentBookings: 1, IsActive: false,
	}

	cases := []struct {
		name        string
		treatmentID string
	}{
		{"unknown treatment", "nope"},
		{"treatment of another store", "treat-other"},
		{"deactivated treatment", "treat-retired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.baseRequest()
			req.TreatmentID = tc.treatmentID
			_, err := f.svc.Create(context.Background(), req)
			requireDenied(t, err, ReasonTreatmentNotFound)
		})
	}
}

func TestCreateBooking_RequiresCoveringSlot(t *testing.T) {
	f := newEngineFixture()

	// Ending exactly at the slot boundary is still covered.
	req := f.baseRequest()
	req.BookingDateTime = time.Date(2026, time.September, 1, 14, 0, 0, 0, time.UTC)
	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	// Thirty minutes later the window sticks out past the slot end.
	req.BookingDateTime = time.Date(2026, time.September, 1, 14, 30, 0, 0, time.UTC)
	_, err = f.svc.Create(context.Background(), req)
	requireDenied(t, err, ReasonNoTimeslot)
}

func TestCreateBooking_SlotGateIsOccupancyNotOverlap(t *testing.T) {
	f := newEngineFixture()
	f.slots.byID["slot-1"].MaxCapacity = 1
	// Held by a booking hours away from the request; the counter still gates.
	f.seedBooking("b-existing", time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC), 60)

	_, err := f.svc.Create(context.Background(), f.baseRequest())
	requireDenied(t, err, ReasonNoTimeslot)
}

func TestCreateBooking_TreatmentConcurrencyCap(t *testing.T) {
	f := newEngineFixture()
	start := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
	f.seedBooking("b-1", start, 60)
	f.seedBooking("b-2", start, 60)

	// Two overlapping bookings saturate the treatment's cap of 2.
	req := f.baseRequest()
	req.BookingDateTime = start.Add(30 * time.Minute)
	_, err := f.svc.Create(context.Background(), req)
	requireDenied(t, err, ReasonTreatmentCapacity)

	// Back-to-back is not an overlap: a booking starting exactly when the
	// others end goes through.
	req.BookingDateTime = start.Add(time.Hour)
	_, err = f.svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateBooking_StaffConflict(t *testing.T) {
	f := newEngineFixture()
	start := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
	f.seedBooking("b-staff", start, 60, func(b *models.Booking) { b.StaffID = "staff-1" })

	req := f.baseRequest()
	req.StaffID = "staff-1"
	req.BookingDateTime = start.Add(30 * time.Minute)
	_, err := f.svc.Create(context.Background(), req)
	requireDenied(t, err, ReasonStaffConflict)

	req.BookingDateTime = start.Add(time.Hour)
	b, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", b.StaffID)
}

func TestCreateBooking_StaffValidation(t *testing.T) {
	f := newEngineFixture()
	f.users.byID["staff-elsewhere"] = &models.User{
		ID: "staff-elsewhere", Role: models.RoleStaff, StoreID: "store-2",
		SkillLevel: models.SkillExpert, IsActive: true,
	}
	f.treatments.byID["treat-massage"].RequiredStaffLevel = models.SkillExpert

	cases := []struct {
		name    string
		staffID string
	}{
		{"unknown staff", "ghost"},
		{"staff of another store", "staff-elsewhere"},
		{"customer assigned as staff", "cust-1"},
		{"insufficient skill level", "staff-1"}, // senior vs required expert
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.baseRequest()
			req.StaffID = tc.staffID
			_, err := f.svc.Create(context.Background(), req)
			requireDenied(t, err, ReasonInvalidStaff)
		})
	}
}

func TestCreateBooking_ResourceContention(t *testing.T) {
	f := newEngineFixture()
	f.resources.byID["res-sauna"] = &models.Resource{
		ID: "res-sauna", StoreID: "store-1", Name: "Sauna", Capacity: 1, IsActive: true,
	}
	// Two treatments compete for the single sauna unit.
	f.treatments.byID["treat-sauna"] = &models.Treatment{
		ID: "treat-sauna", StoreID: "store-1", Name: "Sauna Session",
		DurationMinutes: 60, RequiredStaffLevel: models.SkillAny,
		RequiredResources: []string{"res-sauna"}, MaxConcurrentBookings: 5, IsActive: true,
	}
	f.treatments.byID["treat-steam"] = &models.Treatment{
		ID: "treat-steam", StoreID: "store-1", Name: "Steam Ritual",
		DurationMinutes: 60, RequiredStaffLevel: models.SkillAny,
		RequiredResources: []string{"res-sauna"}, MaxConcurrentBookings: 5, IsActive: true,
	}

	start := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
	f.seedBooking("b-sauna", start, 60, func(b *models.Booking) { b.TreatmentID = "treat-sauna" })

	// A different treatment needing the same resource is blocked too.
	req := f.baseRequest()
	req.TreatmentID = "treat-steam"
	req.BookingDateTime = start.Add(30 * time.Minute)
	_, err := f.svc.Create(context.Background(), req)
	requireDenied(t, err, ReasonResourceCapacity)

	// Once the sauna frees up the steam ritual fits.
	req.BookingDateTime = start.Add(time.Hour)
	_, err = f.svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateBooking_InactiveResourceDenies(t *testing.T) {
	f := newEngineFixture()
	f.resources.byID["res-sauna"] = &models.Resource{
		ID: "res-sauna", StoreID: "store-1", Name: "Sauna", Capacity: 2, IsActive: false,
	}
	f.treatments.byID["treat-massage"].RequiredResources = []string{"res-sauna"}

	_, err := f.svc.Create(context.Background(), f.baseRequest())
	requireDenied(t, err, ReasonResourceCapacity)
}

func TestCreateBooking_DailyQuota(t *testing.T) {
	f := newEngineFixture()
	f.store().Settings.MaxDailyBookings = intPtr(1)
	// A non-overlapping booking later the same local day still counts.
	f.seedBooking("b-noon", time.Date(2026, time.September, 1, 13, 0, 0, 0, time.UTC), 60)

	_, err := f.svc.Create(context.Background(), f.baseRequest())
	requireDenied(t, err, ReasonDailyLimit)
}

func TestCreateBooking_CancelledBookingsFreeTheDailyQuota(t *testing.T) {
	f := newEngineFixture()
	f.store().Settings.MaxDailyBookings = intPtr(1)
	f.seedBooking("b-noon", time.Date(2026, time.September, 1, 13, 0, 0, 0, time.UTC), 60,
		func(b *models.Booking) { b.SetStatus(models.BookingCancelled) })

	_, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)
}

func TestCreateBooking_StoreConcurrencyQuota(t *testing.T) {
	f := newEngineFixture()
	f.store().Settings.MaxConcurrentBookings = intPtr(1)
	start := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
	f.seedBooking("b-1", start, 60)

	req := f.baseRequest()
	req.BookingDateTime = start.Add(30 * time.Minute)
	_, err := f.svc.Create(context.Background(), req)
	requireDenied(t, err, ReasonStoreCapacity)

	req.BookingDateTime = start.Add(time.Hour)
	_, err = f.svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateBooking_OnlineBookingPolicy(t *testing.T) {
	f := newEngineFixture()
	f.store().Settings.AllowOnlineBooking = false

	req := f.baseRequest()
	_, err := f.svc.Create(context.Background(), req)
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)

	// Staff booking on behalf of the customer bypasses the online flag.
	req.ActorRole = models.RoleStaff
	_, err = f.svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateBooking_ContendedSlotAdmitsExactlyCapacity(t *testing.T) {
	f := newEngineFixture()
	f.slots.byID["slot-1"].MaxCapacity = 2
	f.treatments.byID["treat-massage"].MaxConcurrentBookings = 10

	const racers = 6
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), f.baseRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	admitted, denied := 0, 0
	for err := range errs {
		if err == nil {
			admitted++
			continue
		}
		denied++
		requireDenied(t, err, ReasonNoTimeslot)
	}
	assert.Equal(t, 2, admitted, "slot capacity must admit exactly its capacity")
	assert.Equal(t, racers-2, denied)
	assert.Equal(t, 2, f.slots.byID["slot-1"].CurrentBookings)
	assert.Equal(t, 2, f.events.countOf(models.EventBookingCreated))
}

func TestCancelBooking_ReleasesSlotCapacity(t *testing.T) {
	f := newEngineFixture()
	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)
	require.Equal(t, 1, f.slots.byID["slot-1"].CurrentBookings)

	cancelled, err := f.svc.Cancel(context.Background(), b.ID, "family emergency")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, "family emergency", cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 0, f.slots.byID["slot-1"].CurrentBookings)
	assert.Equal(t, 1, f.events.countOf(models.EventBookingCancelled))

	// Cancelling again succeeds without another counter move or event.
	again, err := f.svc.Cancel(context.Background(), b.ID, "retry click")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, again.Status)
	assert.Equal(t, 0, f.slots.byID["slot-1"].CurrentBookings)
	assert.Equal(t, 1, f.events.countOf(models.EventBookingCancelled))
}

func TestCancelBooking_DeadlineEnforcement(t *testing.T) {
	f := newEngineFixture()
	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)

	// 23 hours before start is inside the 24-hour deadline.
	f.svc.Now = func() time.Time { return b.BookingDateTime.Add(-23 * time.Hour) }
	_, err = f.svc.Cancel(context.Background(), b.ID, "")
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)

	// Exactly at the deadline is still allowed.
	f.svc.Now = func() time.Time { return b.BookingDateTime.Add(-24 * time.Hour) }
	_, err = f.svc.Cancel(context.Background(), b.ID, "")
	require.NoError(t, err)
}

func TestCancelBooking_TerminalStates(t *testing.T) {
	f := newEngineFixture()
	f.seedBooking("b-done", time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC), 60,
		func(b *models.Booking) { b.SetStatus(models.BookingCompleted) })

	_, err := f.svc.Cancel(context.Background(), "b-done", "")
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestModifyBooking_RescheduleWithinHeldSlot(t *testing.T) {
	f := newEngineFixture()
	// With capacity 1 the booking's own claim must not block its reschedule.
	f.slots.byID["slot-1"].MaxCapacity = 1

	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)

	newStart := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	moved, err := f.svc.Modify(context.Background(), b.ID, ModifyRequest{BookingDateTime: &newStart})
	require.NoError(t, err)
	assert.Equal(t, "slot-1", moved.TimeslotID)
	assert.Equal(t, newStart, moved.BookingDateTime)
	assert.Equal(t, newStart.Add(time.Hour), moved.EndDateTime)
	assert.Equal(t, 1, f.slots.byID["slot-1"].CurrentBookings)
	assert.Equal(t, 1, f.events.countOf(models.EventBookingUpdated))
}

func TestModifyBooking_SwapsSlotCounters(t *testing.T) {
	f := newEngineFixture()
	f.slots.byID["slot-2"] = &models.Timeslot{
		ID:          "slot-2",
		StoreID:     "store-1",
		StartTime:   time.Date(2026, time.September, 2, 7, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, time.September, 2, 15, 0, 0, 0, time.UTC),
		LocalDate:   "2026-09-02",
		MaxCapacity: 3,
		IsActive:    true,
	}

	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)
	require.Equal(t, 1, f.slots.byID["slot-1"].CurrentBookings)

	newStart := time.Date(2026, time.September, 2, 8, 0, 0, 0, time.UTC)
	moved, err := f.svc.Modify(context.Background(), b.ID, ModifyRequest{BookingDateTime: &newStart})
	require.NoError(t, err)
	assert.Equal(t, "slot-2", moved.TimeslotID)
	assert.Equal(t, 0, f.slots.byID["slot-1"].CurrentBookings)
	assert.Equal(t, 1, f.slots.byID["slot-2"].CurrentBookings)
}

func TestModifyBooking_ExcludesItselfFromQuotas(t *testing.T) {
	f := newEngineFixture()
	f.store().Settings.MaxConcurrentBookings = intPtr(1)

	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)

	// The new window overlaps the booking's current one; only its own row
	// occupies the store, so the move must pass.
	newStart := b.BookingDateTime.Add(30 * time.Minute)
	_, err = f.svc.Modify(context.Background(), b.ID, ModifyRequest{BookingDateTime: &newStart})
	require.NoError(t, err)
}

func TestModifyBooking_NotesStayEditableAfterStart(t *testing.T) {
	f := newEngineFixture()
	f.seedBooking("b-running", fixedNow.Add(-time.Hour), 60,
		func(b *models.Booking) { b.SetStatus(models.BookingInProgress) })

	notes := "client asked for lighter pressure"
	b, err := f.svc.Modify(context.Background(), "b-running", ModifyRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, b.Notes)

	// Rescheduling a running booking is out.
	newStart := fixedNow.Add(2 * time.Hour)
	_, err = f.svc.Modify(context.Background(), "b-running", ModifyRequest{BookingDateTime: &newStart})
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestModifyBooking_NoChangesIsANoOp(t *testing.T) {
	f := newEngineFixture()
	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)
	before := len(f.events.events)

	same, err := f.svc.Modify(context.Background(), b.ID, ModifyRequest{})
	require.NoError(t, err)
	assert.Equal(t, b.BookingDateTime, same.BookingDateTime)
	assert.Len(t, f.events.events, before)
}

func TestLifecycle_HappyPathAndGuards(t *testing.T) {
	f := newEngineFixture()
	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)
	require.Equal(t, models.BookingPending, b.Status)

	// Completing a pending booking skips states and is rejected.
	_, err = f.svc.Complete(context.Background(), b.ID)
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)

	b, err = f.svc.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	b, err = f.svc.Start(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingInProgress, b.Status)

	b, err = f.svc.Complete(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, b.Status)
	require.NotNil(t, b.CompletedAt)
	assert.Equal(t, 1, f.events.countOf(models.EventBookingCompleted))
}

func TestLifecycle_NoShowOnlyAfterStart(t *testing.T) {
	f := newEngineFixture()
	b, err := f.svc.Create(context.Background(), f.baseRequest())
	require.NoError(t, err)

	// Now is a week before the appointment.
	_, err = f.svc.MarkNoShow(context.Background(), b.ID)
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)

	// Move the clock past the start time and try again.
	f.svc.Now = func() time.Time { return b.BookingDateTime.Add(10 * time.Minute) }
	marked, err := f.svc.MarkNoShow(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingNoShow, marked.Status)
}
