// File: services/booking/queries.go
package booking

import (
	"context"

	bookingRepo "mendly/database/repository/booking"
	"mendly/models"
)

func (s *DefaultBookingService) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.Bookings.GetByID(ctx, bookingID)
}

func (s *DefaultBookingService) ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error) {
	return s.Bookings.ListByCustomer(ctx, customerID, status, page, pageSize)
}

func (s *DefaultBookingService) ListByStore(ctx context.Context, storeID string, f bookingRepo.ListFilter) ([]models.Booking, int64, error) {
	return s.Bookings.ListByStore(ctx, storeID, f)
}
