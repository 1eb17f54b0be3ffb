// FILE: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the necessary indexes on the bookings collection.
func (r *mongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Overlap scans per store and per treatment.
		{
			Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "bookingDateTime", Value: 1}},
			Options: options.Index().SetName("store_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "treatmentId", Value: 1}, {Key: "bookingDateTime", Value: 1}},
			Options: options.Index().SetName("treatment_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "bookingDateTime", Value: -1}},
			Options: options.Index().SetName("customer_start_idx"),
		},
		// One capacity-holding booking per staff member per exact start.
		// blocksCapacity stands in for "status not cancelled/no_show",
		// which partial filters cannot express directly.
		{
			Keys: bson.D{{Key: "staffId", Value: 1}, {Key: "bookingDateTime", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("staff_start_unique").
				SetPartialFilterExpression(bson.D{
					{Key: "blocksCapacity", Value: true},
					{Key: "staffId", Value: bson.D{{Key: "$exists", Value: true}}},
				}),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
