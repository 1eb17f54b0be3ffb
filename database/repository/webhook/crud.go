package webhookRepo

import (
	"context"
	"fmt"
	"time"

	"mendly/database/repository"
	"mendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoWebhookRepo) Create(ctx context.Context, sub *models.WebhookSubscription) error {
	if _, err := r.coll.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to insert webhook subscription: %w", repository.MapMongoError(err))
	}
	return nil
}

func (r *mongoWebhookRepo) GetByID(ctx context.Context, id string) (*models.WebhookSubscription, error) {
	var sub models.WebhookSubscription
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&sub); err != nil {
		return nil, repository.MapMongoError(err)
	}
	return &sub, nil
}

func (r *mongoWebhookRepo) Update(ctx context.Context, sub *models.WebhookSubscription) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": sub.ID}, sub)
	if err != nil {
		return fmt.Errorf("failed to update webhook subscription %s: %w", sub.ID, repository.MapMongoError(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWebhookRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete webhook subscription %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWebhookRepo) List(ctx context.Context, page, pageSize int) ([]models.WebhookSubscription, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count webhook subscriptions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list webhook subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.WebhookSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode webhook subscriptions: %w", err)
	}
	return subs, total, nil
}

func (r *mongoWebhookRepo) ListActiveForEvent(ctx context.Context, eventType string) ([]models.WebhookSubscription, error) {
	filter := bson.M{"isActive": true, "events": eventType}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for %s: %w", eventType, err)
	}
	defer cursor.Close(ctx)

	var subs []models.WebhookSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode webhook subscriptions: %w", err)
	}
	return subs, nil
}

func (r *mongoWebhookRepo) RecordSuccess(ctx context.Context, id string, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"retryCount":        0,
			"lastSuccessAt":     at,
			"lastFailureReason": "",
			"updatedAt":         time.Now().UTC(),
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to record delivery success: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWebhookRepo) RecordFailure(ctx context.Context, id string, at time.Time, reason string) (*models.WebhookSubscription, error) {
	update := bson.M{
		"$inc": bson.M{"retryCount": 1},
		"$set": bson.M{
			"lastFailureAt":     at,
			"lastFailureReason": reason,
			"updatedAt":         time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sub models.WebhookSubscription
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&sub); err != nil {
		return nil, repository.MapMongoError(err)
	}

	// Crossing the retry budget disables the subscription until an
	// operator re-enables it.
	if sub.IsActive && sub.RetryCount >= sub.MaxRetries {
		if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"isActive": false}}); err != nil {
			return nil, fmt.Errorf("failed to disable webhook subscription: %w", err)
		}
		sub.IsActive = false
	}
	return &sub, nil
}

func (r *mongoWebhookRepo) Reactivate(ctx context.Context, id string) (*models.WebhookSubscription, error) {
	update := bson.M{
		"$set": bson.M{
			"isActive":   true,
			"retryCount": 0,
			"updatedAt":  time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sub models.WebhookSubscription
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&sub); err != nil {
		return nil, repository.MapMongoError(err)
	}
	return &sub, nil
}
