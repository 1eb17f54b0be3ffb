// File: services/booking/statemachine.go
package booking

import (
	"time"

	"mendly/models"
	"mendly/utils"
)

// validNext encodes the booking lifecycle. completed, cancelled and no_show
// are terminal.
var validNext = map[models.BookingStatus]map[models.BookingStatus]bool{
	models.BookingPending: {
		models.BookingConfirmed: true,
		models.BookingCancelled: true,
		models.BookingNoShow:    true,
	},
	models.BookingConfirmed: {
		models.BookingInProgress: true,
		models.BookingCancelled:  true,
		models.BookingNoShow:     true,
	},
	models.BookingInProgress: {
		models.BookingCompleted: true,
		models.BookingCancelled: true,
	},
	models.BookingCompleted: {},
	models.BookingCancelled: {},
	models.BookingNoShow:    {},
}

// CanTransition reports whether the lifecycle permits from -> to.
func CanTransition(from, to models.BookingStatus) bool {
	return validNext[from][to]
}

// IsTerminal reports whether no further transitions exist from s.
func IsTerminal(s models.BookingStatus) bool {
	return len(validNext[s]) == 0
}

// Transition moves the booking to a new status, stamping the transition
// timestamps. no_show additionally requires the booking's start time to have
// passed. The booking is mutated only on success.
func Transition(b *models.Booking, to models.BookingStatus, now time.Time) error {
	if !CanTransition(b.Status, to) {
		return utils.Conflictf("booking status %s cannot change to %s", b.Status, to)
	}
	if to == models.BookingNoShow && now.Before(b.BookingDateTime) {
		return utils.Conflictf("booking cannot be marked no_show before its start time")
	}
	b.SetStatus(to)
	switch to {
	case models.BookingCompleted:
		t := now
		b.CompletedAt = &t
	case models.BookingCancelled:
		t := now
		b.CancelledAt = &t
	}
	b.UpdatedAt = now
	return nil
}

// Modifiable reports whether non-status fields may still change: only
// pending or confirmed bookings whose start time has not passed.
func Modifiable(b *models.Booking, now time.Time) bool {
	if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
		return false
	}
	return b.BookingDateTime.After(now)
}
