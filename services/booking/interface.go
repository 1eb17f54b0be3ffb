// File: services/booking/interface.go
package booking

import (
	"context"
	"time"

	bookingRepo "mendly/database/repository/booking"
	resourceRepo "mendly/database/repository/resource"
	storeRepo "mendly/database/repository/store"
	timeslotRepo "mendly/database/repository/timeslot"
	treatmentRepo "mendly/database/repository/treatment"
	userRepo "mendly/database/repository/user"
	"mendly/models"
	"mendly/services/webhook"
	"mendly/utils"
)

// CreateRequest is one admission attempt. StaffID is optional; ActorRole is
// the role of the caller, which decides whether the store's online-booking
// flag applies. Metadata is an opaque pass-through blob; admission never
// reads it.
type CreateRequest struct {
	CustomerID      string
	StoreID         string
	TreatmentID     string
	StaffID         string
	BookingDateTime time.Time
	Notes           string
	Metadata        map[string]interface{}
	ActorRole       models.Role
}

// ModifyRequest patches a booking. Nil fields keep their current value; a
// non-nil empty StaffID clears the assignment. Any change besides Notes
// reruns the full admission checks.
type ModifyRequest struct {
	BookingDateTime *time.Time
	StaffID         *string
	TreatmentID     *string
	Notes           *string
}

// BookingService is the reservation engine plus lifecycle operations.
type BookingService interface {
	// Create admits and persists a new booking, claiming timeslot capacity.
	Create(ctx context.Context, req CreateRequest) (*models.Booking, error)
	// Modify reschedules or reassigns a booking under the same admission
	// checks, excluding the booking itself from every quota count.
	Modify(ctx context.Context, bookingID string, req ModifyRequest) (*models.Booking, error)
	// Cancel releases the booking's capacity. Cancelling an already
	// cancelled booking succeeds without moving any counter.
	Cancel(ctx context.Context, bookingID, reason string) (*models.Booking, error)

	// Confirm moves pending to confirmed.
	Confirm(ctx context.Context, bookingID string) (*models.Booking, error)
	// Start moves confirmed to in_progress.
	Start(ctx context.Context, bookingID string) (*models.Booking, error)
	// Complete moves in_progress to completed.
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
	// MarkNoShow flags a missed appointment once its start time has passed.
	MarkNoShow(ctx context.Context, bookingID string) (*models.Booking, error)

	// Get retrieves one booking.
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
	// ListByCustomer retrieves a customer's bookings, newest first.
	ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error)
	// ListByStore retrieves a store's bookings with filtering and paging.
	ListByStore(ctx context.Context, storeID string, f bookingRepo.ListFilter) ([]models.Booking, int64, error)
}

// DefaultBookingService is the production reservation engine. All admission
// work runs under the per-store lock so concurrent requests against one
// store serialize while other stores proceed in parallel.
type DefaultBookingService struct {
	Stores     storeRepo.StoreRepository
	Users      userRepo.UserRepository
	Treatments treatmentRepo.TreatmentRepository
	Resources  resourceRepo.ResourceRepository
	Slots      timeslotRepo.TimeslotRepository
	Bookings   bookingRepo.BookingRepository
	Locker     utils.StoreLocker
	Events     webhook.Dispatcher

	// Now supplies the engine clock; tests override it. Nil means UTC now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
