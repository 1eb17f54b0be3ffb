// Package repository holds errors and helpers shared by the per-entity
// Mongo repositories in the subpackages.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("record already exists")
	// ErrSlotFull is returned when a conditional timeslot claim matched no
	// document, meaning the slot hit MaxCapacity between check and write.
	ErrSlotFull = errors.New("timeslot capacity exhausted")
	// ErrSlotsBooked guards slot regeneration: existing slots for the day
	// already carry bookings.
	ErrSlotsBooked = errors.New("timeslots for date have bookings")
)

// MapMongoError converts driver-level errors to the shared sentinels.
func MapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
