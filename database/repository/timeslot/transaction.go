package timeslotRepo

import (
	"context"
	"fmt"

	"mendly/database/repository"
	"mendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReplaceForDate swaps out a day's slots inside one transaction so a failed
// regeneration never leaves the day half-written. The booked-slot guard runs
// inside the transaction; callers additionally hold the store lock, which
// keeps counters from moving between guard and delete.
func (r *mongoTimeslotRepo) ReplaceForDate(ctx context.Context, storeID, localDate string, slots []models.Timeslot) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		booked := bson.M{
			"storeId":         storeID,
			"localDate":       localDate,
			"currentBookings": bson.M{"$gt": 0},
		}
		n, err := r.coll.CountDocuments(sc, booked, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("booked-slot guard failed: %w", err)
		}
		if n > 0 {
			return repository.ErrSlotsBooked
		}

		if _, err := r.coll.DeleteMany(sc, bson.M{"storeId": storeID, "localDate": localDate}); err != nil {
			return fmt.Errorf("failed to clear timeslots for %s: %w", localDate, err)
		}

		if len(slots) == 0 {
			return nil
		}
		docs := make([]interface{}, len(slots))
		for i := range slots {
			docs[i] = slots[i]
		}
		if _, err := r.coll.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("failed to insert timeslots: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}
