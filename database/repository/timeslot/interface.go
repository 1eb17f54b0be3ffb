// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"
	"time"

	"mendly/database"
	"mendly/models"
	"mendly/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// TimeslotRepository defines methods for timeslot data access. Occupancy
// counters are only written through the booking repository's transactions;
// this repository owns slot definitions and read paths.
type TimeslotRepository interface {
	// GetByID retrieves a timeslot by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Timeslot, error)
	// ListByStoreAndDate retrieves all slots of a store day, earliest first.
	ListByStoreAndDate(ctx context.Context, storeID, localDate string) ([]models.Timeslot, error)
	// ListCovering retrieves active slots that fully contain [start, end)
	// and accept the treatment, earliest-starting first.
	ListCovering(ctx context.Context, storeID string, start, end time.Time, treatmentID string) ([]models.Timeslot, error)
	// AnyBookedOnDate reports whether any slot of the day carries bookings.
	AnyBookedOnDate(ctx context.Context, storeID, localDate string) (bool, error)
	// ReplaceForDate atomically swaps a day's slot set. It fails with
	// repository.ErrSlotsBooked when existing slots have bookings, leaving
	// the previous set untouched.
	ReplaceForDate(ctx context.Context, storeID, localDate string, slots []models.Timeslot) error
}

type mongoTimeslotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeslotRepo constructs a MongoDB-backed TimeslotRepository.
func NewMongoTimeslotRepo() TimeslotRepository {
	repo := &mongoTimeslotRepo{
		coll: database.DB().Collection("timeslots"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("timeslot index creation failed", zap.Error(err))
	}
	return repo
}
