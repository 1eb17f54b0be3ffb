package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"mendly/database/repository"
	"mendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, repository.MapMongoError(err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": booking.ID}, booking)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", booking.ID, repository.MapMongoError(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// overlapClause builds the shared half-open interval predicate: a booking
// [b.start, b.end) intersects [start, end) iff b.start < end && b.end > start.
func overlapClause(start, end time.Time) bson.M {
	return bson.M{
		"bookingDateTime": bson.M{"$lt": end},
		"endDateTime":     bson.M{"$gt": start},
		"blocksCapacity":  true,
	}
}

func (r *mongoBookingRepo) CountOverlapping(ctx context.Context, f OverlapFilter) (int64, error) {
	filter := overlapClause(f.Start, f.End)
	if f.StoreID != "" {
		filter["storeId"] = f.StoreID
	}
	if f.TreatmentID != "" {
		filter["treatmentId"] = f.TreatmentID
	}
	if len(f.TreatmentIDs) > 0 {
		filter["treatmentId"] = bson.M{"$in": f.TreatmentIDs}
	}
	if f.StaffID != "" {
		filter["staffId"] = f.StaffID
	}
	if f.ExcludeID != "" {
		filter["id"] = bson.M{"$ne": f.ExcludeID}
	}

	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return n, nil
}

func (r *mongoBookingRepo) CountForStoreBetween(ctx context.Context, storeID string, start, end time.Time, excludeID string) (int64, error) {
	filter := bson.M{
		"storeId":         storeID,
		"blocksCapacity":  true,
		"bookingDateTime": bson.M{"$gte": start, "$lt": end},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count store bookings: %w", err)
	}
	return n, nil
}

func (r *mongoBookingRepo) FindStaffBusy(ctx context.Context, staffIDs []string, start, end time.Time) (map[string]bool, error) {
	if len(staffIDs) == 0 {
		return map[string]bool{}, nil
	}
	filter := overlapClause(start, end)
	filter["staffId"] = bson.M{"$in": staffIDs}

	values, err := r.coll.Distinct(ctx, "staffId", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find busy staff: %w", err)
	}

	busy := make(map[string]bool, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			busy[id] = true
		}
	}
	return busy, nil
}

func (r *mongoBookingRepo) HasUpcomingForTreatment(ctx context.Context, treatmentID string, after time.Time) (bool, error) {
	filter := bson.M{
		"treatmentId":     treatmentID,
		"status":          bson.M{"$in": bson.A{models.BookingPending, models.BookingConfirmed}},
		"bookingDateTime": bson.M{"$gte": after},
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to probe upcoming bookings: %w", err)
	}
	return n > 0, nil
}

func (r *mongoBookingRepo) ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error) {
	filter := bson.M{"customerId": customerID}
	if status != "" {
		filter["status"] = status
	}
	return r.page(ctx, filter, page, pageSize)
}

func (r *mongoBookingRepo) ListByStore(ctx context.Context, storeID string, f ListFilter) ([]models.Booking, int64, error) {
	filter := bson.M{"storeId": storeID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.StaffID != "" {
		filter["staffId"] = f.StaffID
	}
	window := bson.M{}
	if !f.From.IsZero() {
		window["$gte"] = f.From
	}
	if !f.To.IsZero() {
		window["$lt"] = f.To
	}
	if len(window) > 0 {
		filter["bookingDateTime"] = window
	}
	return r.page(ctx, filter, f.Page, f.PageSize)
}

func (r *mongoBookingRepo) page(ctx context.Context, filter bson.M, page, pageSize int) ([]models.Booking, int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "bookingDateTime", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}
