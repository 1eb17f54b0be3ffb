package resourceRepo

import (
	"context"
	"fmt"

	"mendly/database/repository"
	"mendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	if _, err := r.coll.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("failed to insert resource: %w", repository.MapMongoError(err))
	}
	return nil
}

func (r *mongoResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&resource); err != nil {
		return nil, repository.MapMongoError(err)
	}
	return &resource, nil
}

func (r *mongoResourceRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

func (r *mongoResourceRepo) Update(ctx context.Context, resource *models.Resource) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": resource.ID}, resource)
	if err != nil {
		return fmt.Errorf("failed to update resource %s: %w", resource.ID, repository.MapMongoError(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoResourceRepo) ListByStore(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Resource, int64, error) {
	filter := bson.M{"storeId": storeID}
	if activeOnly {
		filter["isActive"] = true
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count resources: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resources for store %s: %w", storeID, err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, 0, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, total, nil
}
