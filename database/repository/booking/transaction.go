package bookingRepo

import (
	"context"
	"fmt"

	"mendly/database/repository"
	"mendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// claimSlot conditionally increments a slot's occupancy. The $expr filter
// re-checks capacity at write time, so even a raced admission cannot push a
// counter past MaxCapacity.
func (r *mongoBookingRepo) claimSlot(sc mongo.SessionContext, slotID string) error {
	filter := bson.M{
		"id":       slotID,
		"isActive": true,
		"$expr":    bson.M{"$lt": bson.A{"$currentBookings", "$maxCapacity"}},
	}
	update := bson.M{"$inc": bson.M{"currentBookings": 1}}

	res, err := r.slotColl.UpdateOne(sc, filter, update)
	if err != nil {
		return fmt.Errorf("slot claim failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrSlotFull
	}
	return nil
}

// releaseSlot decrements a slot's occupancy, clamped at zero. A zero match
// is not an error; released slots stay released.
func (r *mongoBookingRepo) releaseSlot(sc mongo.SessionContext, slotID string) error {
	filter := bson.M{
		"id":              slotID,
		"currentBookings": bson.M{"$gt": 0},
	}
	update := bson.M{"$inc": bson.M{"currentBookings": -1}}

	if _, err := r.slotColl.UpdateOne(sc, filter, update); err != nil {
		return fmt.Errorf("slot release failed: %w", err)
	}
	return nil
}

// runTxn wraps fn in a session transaction, aborting on any error.
func (r *mongoBookingRepo) runTxn(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func (r *mongoBookingRepo) CreateWithSlotClaim(ctx context.Context, booking *models.Booking, slotID string) error {
	return r.runTxn(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", repository.MapMongoError(err))
		}
		return r.claimSlot(sc, slotID)
	})
}

func (r *mongoBookingRepo) CancelWithSlotRelease(ctx context.Context, booking *models.Booking) error {
	return r.runTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.coll.ReplaceOne(sc, bson.M{"id": booking.ID}, booking)
		if err != nil {
			return fmt.Errorf("persist cancellation failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return r.releaseSlot(sc, booking.TimeslotID)
	})
}

func (r *mongoBookingRepo) RescheduleWithSlotSwap(ctx context.Context, booking *models.Booking, oldSlotID string) error {
	return r.runTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.coll.ReplaceOne(sc, bson.M{"id": booking.ID}, booking)
		if err != nil {
			return fmt.Errorf("persist reschedule failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		if booking.TimeslotID == oldSlotID {
			return nil
		}
		if err := r.releaseSlot(sc, oldSlotID); err != nil {
			return err
		}
		return r.claimSlot(sc, booking.TimeslotID)
	})
}
