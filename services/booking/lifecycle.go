// File: services/booking/lifecycle.go
package booking

import (
	"context"

	"mendly/models"
	"mendly/utils"

	"go.uber.org/zap"
)

// transitionTo applies a state-machine move and notifies subscribers.
// Cancellation does not come through here; it releases capacity and has its
// own entry point.
func (s *DefaultBookingService) transitionTo(ctx context.Context, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	now := s.now()

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := Transition(b, to, now); err != nil {
		return nil, err
	}
	if err := s.Bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	eventType := models.EventBookingUpdated
	if to == models.BookingCompleted {
		eventType = models.EventBookingCompleted
	}
	s.Events.Emit(ctx, eventType, models.BookingEventData{
		Booking:       b,
		ChangedFields: []string{"status"},
	})

	utils.GetLogger().Info("booking status changed",
		zap.String("bookingId", b.ID), zap.String("status", string(to)))
	return b, nil
}

func (s *DefaultBookingService) Confirm(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.transitionTo(ctx, bookingID, models.BookingConfirmed)
}

func (s *DefaultBookingService) Start(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.transitionTo(ctx, bookingID, models.BookingInProgress)
}

func (s *DefaultBookingService) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.transitionTo(ctx, bookingID, models.BookingCompleted)
}

func (s *DefaultBookingService) MarkNoShow(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.transitionTo(ctx, bookingID, models.BookingNoShow)
}
