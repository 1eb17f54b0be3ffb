package treatmentRepo

import (
	"context"
	"fmt"

	"mendly/database/repository"
	"mendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoTreatmentRepo) Create(ctx context.Context, treatment *models.Treatment) error {
	if _, err := r.coll.InsertOne(ctx, treatment); err != nil {
		return fmt.Errorf("failed to insert treatment: %w", repository.MapMongoError(err))
	}
	return nil
}

func (r *mongoTreatmentRepo) GetByID(ctx context.Context, id string) (*models.Treatment, error) {
	var treatment models.Treatment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&treatment); err != nil {
		return nil, repository.MapMongoError(err)
	}
	return &treatment, nil
}

func (r *mongoTreatmentRepo) Update(ctx context.Context, treatment *models.Treatment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": treatment.ID}, treatment)
	if err != nil {
		return fmt.Errorf("failed to update treatment %s: %w", treatment.ID, repository.MapMongoError(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTreatmentRepo) ListByStore(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Treatment, int64, error) {
	filter := bson.M{"storeId": storeID}
	if activeOnly {
		filter["isActive"] = true
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count treatments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list treatments for store %s: %w", storeID, err)
	}
	defer cursor.Close(ctx)

	var treatments []models.Treatment
	if err := cursor.All(ctx, &treatments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode treatments: %w", err)
	}
	return treatments, total, nil
}

func (r *mongoTreatmentRepo) ListRequiringResource(ctx context.Context, storeID, resourceID string) ([]models.Treatment, error) {
	filter := bson.M{
		"storeId":           storeID,
		"isActive":          true,
		"requiredResources": resourceID,
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list treatments requiring resource %s: %w", resourceID, err)
	}
	defer cursor.Close(ctx)

	var treatments []models.Treatment
	if err := cursor.All(ctx, &treatments); err != nil {
		return nil, fmt.Errorf("failed to decode treatments: %w", err)
	}
	return treatments, nil
}
