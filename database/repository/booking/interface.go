// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"mendly/database"
	"mendly/models"
	"mendly/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// OverlapFilter selects bookings whose [bookingDateTime, endDateTime)
// intersects [Start, End). Only statuses that still hold capacity count.
// Optional fields narrow the match; ExcludeID skips the booking being
// modified so it never conflicts with itself.
type OverlapFilter struct {
	StoreID      string
	TreatmentID  string
	TreatmentIDs []string
	StaffID      string
	Start        time.Time
	End          time.Time
	ExcludeID    string
}

// ListFilter narrows store booking lists.
type ListFilter struct {
	Status   models.BookingStatus
	StaffID  string
	From     time.Time // zero means unbounded
	To       time.Time
	Page     int
	PageSize int
}

// BookingRepository defines methods for booking data access, including the
// transactional writes that keep timeslot occupancy counters consistent
// with booking rows.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Update replaces a booking record without touching slot counters.
	Update(ctx context.Context, booking *models.Booking) error
	// CountOverlapping counts capacity-holding bookings matching the filter.
	CountOverlapping(ctx context.Context, f OverlapFilter) (int64, error)
	// CountForStoreBetween counts capacity-holding bookings of a store
	// starting within [start, end); used for the daily cap.
	CountForStoreBetween(ctx context.Context, storeID string, start, end time.Time, excludeID string) (int64, error)
	// FindStaffBusy returns the subset of staffIDs having a capacity-holding
	// booking overlapping [start, end).
	FindStaffBusy(ctx context.Context, staffIDs []string, start, end time.Time) (map[string]bool, error)
	// HasUpcomingForTreatment reports whether the treatment has
	// capacity-holding bookings starting after the given instant.
	HasUpcomingForTreatment(ctx context.Context, treatmentID string, after time.Time) (bool, error)
	// ListByCustomer retrieves a customer's bookings, newest first.
	ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error)
	// ListByStore retrieves a store's bookings with filtering and paging.
	ListByStore(ctx context.Context, storeID string, f ListFilter) ([]models.Booking, int64, error)

	// CreateWithSlotClaim inserts the booking and increments the timeslot
	// counter in one transaction. Returns repository.ErrSlotFull when the
	// slot was at capacity.
	CreateWithSlotClaim(ctx context.Context, booking *models.Booking, slotID string) error
	// CancelWithSlotRelease persists the cancelled booking and decrements
	// its timeslot counter (clamped at zero) in one transaction.
	CancelWithSlotRelease(ctx context.Context, booking *models.Booking) error
	// RescheduleWithSlotSwap persists the modified booking and moves the
	// occupancy from oldSlotID to the booking's current timeslot.
	RescheduleWithSlotSwap(ctx context.Context, booking *models.Booking, oldSlotID string) error
}

type mongoBookingRepo struct {
	coll     *mongo.Collection
	slotColl *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository. It
// holds the timeslots collection as well so cross-collection transactions
// stay inside one repository.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	repo := &mongoBookingRepo{
		coll:     db.Collection("bookings"),
		slotColl: db.Collection("timeslots"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("booking index creation failed", zap.Error(err))
	}
	return repo
}
