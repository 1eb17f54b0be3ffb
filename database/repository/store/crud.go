package storeRepo

import (
	"context"
	"fmt"

	"mendly/database/repository"
	"mendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoStoreRepo) Create(ctx context.Context, store *models.Store) error {
	if _, err := r.coll.InsertOne(ctx, store); err != nil {
		return fmt.Errorf("failed to insert store: %w", repository.MapMongoError(err))
	}
	return nil
}

func (r *mongoStoreRepo) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&store); err != nil {
		return nil, repository.MapMongoError(err)
	}
	return &store, nil
}

func (r *mongoStoreRepo) Update(ctx context.Context, store *models.Store) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": store.ID}, store)
	if err != nil {
		return fmt.Errorf("failed to update store %s: %w", store.ID, repository.MapMongoError(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoStoreRepo) List(ctx context.Context, page, pageSize int, activeOnly bool) ([]models.Store, int64, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stores: %w", err)
	}
	defer cursor.Close(ctx)

	var stores []models.Store
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, 0, fmt.Errorf("failed to decode stores: %w", err)
	}
	return stores, total, nil
}
