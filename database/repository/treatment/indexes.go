package treatmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the necessary indexes on the treatments collection.
func (r *mongoTreatmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index().SetName("store_active_idx"),
		},
		// Multikey index for resource-conflict lookups.
		{
			Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "requiredResources", Value: 1}},
			Options: options.Index().SetName("store_resources_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create treatment indexes: %w", err)
	}
	return nil
}
