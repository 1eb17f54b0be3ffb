package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"mendly/database/repository"
	"mendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoTimeslotRepo) GetByID(ctx context.Context, id string) (*models.Timeslot, error) {
	var slot models.Timeslot
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot); err != nil {
		return nil, repository.MapMongoError(err)
	}
	return &slot, nil
}

func (r *mongoTimeslotRepo) ListByStoreAndDate(ctx context.Context, storeID, localDate string) ([]models.Timeslot, error) {
	filter := bson.M{"storeId": storeID, "localDate": localDate}
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeslots for %s/%s: %w", storeID, localDate, err)
	}
	defer cursor.Close(ctx)

	var slots []models.Timeslot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode timeslots: %w", err)
	}
	return slots, nil
}

func (r *mongoTimeslotRepo) ListCovering(ctx context.Context, storeID string, start, end time.Time, treatmentID string) ([]models.Timeslot, error) {
	// A slot covers [start, end) when it starts at or before start and
	// ends at or after end. Treatment restriction: unset means open.
	filter := bson.M{
		"storeId":   storeID,
		"isActive":  true,
		"startTime": bson.M{"$lte": start},
		"endTime":   bson.M{"$gte": end},
		"$or": []bson.M{
			{"treatmentTypes": bson.M{"$exists": false}},
			{"treatmentTypes": bson.M{"$size": 0}},
			{"treatmentTypes": treatmentID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query covering timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Timeslot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode timeslots: %w", err)
	}
	return slots, nil
}

func (r *mongoTimeslotRepo) AnyBookedOnDate(ctx context.Context, storeID, localDate string) (bool, error) {
	filter := bson.M{
		"storeId":         storeID,
		"localDate":       localDate,
		"currentBookings": bson.M{"$gt": 0},
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to probe booked timeslots: %w", err)
	}
	return n > 0, nil
}
