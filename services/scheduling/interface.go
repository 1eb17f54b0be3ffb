// File: services/scheduling/interface.go
package scheduling

import (
	"context"

	bookingRepo "mendly/database/repository/booking"
	storeRepo "mendly/database/repository/store"
	timeslotRepo "mendly/database/repository/timeslot"
	treatmentRepo "mendly/database/repository/treatment"
	userRepo "mendly/database/repository/user"
	"mendly/models"
	"mendly/services/webhook"
	"mendly/utils"
)

// GenerateOptions tunes slot generation for a store day. Zero values take
// the platform defaults (60 minute slots, capacity 1). TreatmentTypes and
// StaffIDs, when set, restrict every generated slot to those treatments and
// assign the staff roster.
type GenerateOptions struct {
	SlotDurationMinutes int
	MaxCapacity         int
	TreatmentTypes      []string
	StaffIDs            []string
}

// SchedulingService owns timeslot generation and availability lookups.
type SchedulingService interface {
	// GenerateDailySlots regenerates the slot set of one store-local date.
	// Closed days yield an empty set and leave existing slots untouched.
	GenerateDailySlots(ctx context.Context, storeID, date string, opts GenerateOptions) ([]models.Timeslot, error)
	// GenerateRange regenerates every date in [startDate, endDate], capped
	// at 30 days. Dates are store-local "YYYY-MM-DD".
	GenerateRange(ctx context.Context, storeID, startDate, endDate string, opts GenerateOptions) ([]models.Timeslot, error)
	// ListForDate retrieves all slots of a store day, including full and
	// deactivated ones. Admin view.
	ListForDate(ctx context.Context, storeID, date string) ([]models.Timeslot, error)
	// FindAvailableForDate retrieves active slots of a store day that still
	// have capacity, earliest first.
	FindAvailableForDate(ctx context.Context, storeID, date string) ([]models.Timeslot, error)
	// AvailabilityForTreatment computes bookable start times for a treatment
	// on a store day, with remaining capacity and free eligible staff.
	AvailabilityForTreatment(ctx context.Context, storeID, treatmentID, date string) ([]models.AvailableSlot, error)
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Stores     storeRepo.StoreRepository
	Slots      timeslotRepo.TimeslotRepository
	Treatments treatmentRepo.TreatmentRepository
	Users      userRepo.UserRepository
	Bookings   bookingRepo.BookingRepository
	Locker     utils.StoreLocker
	Events     webhook.Dispatcher
}
