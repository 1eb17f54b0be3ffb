// File: database/repository/webhook/interface.go
package webhookRepo

import (
	"context"
	"time"

	"mendly/database"
	"mendly/models"
	"mendly/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WebhookRepository defines methods for webhook subscription data access.
// RecordSuccess and RecordFailure are the only paths that touch delivery
// bookkeeping; the delivery worker calls them concurrently.
type WebhookRepository interface {
	// Create inserts a new subscription.
	Create(ctx context.Context, sub *models.WebhookSubscription) error
	// GetByID retrieves a subscription by its unique ID.
	GetByID(ctx context.Context, id string) (*models.WebhookSubscription, error)
	// Update replaces an existing subscription.
	Update(ctx context.Context, sub *models.WebhookSubscription) error
	// Delete removes a subscription permanently.
	Delete(ctx context.Context, id string) error
	// List retrieves subscriptions with paging.
	List(ctx context.Context, page, pageSize int) ([]models.WebhookSubscription, int64, error)
	// ListActiveForEvent retrieves active subscriptions registered for the
	// given event type.
	ListActiveForEvent(ctx context.Context, eventType string) ([]models.WebhookSubscription, error)
	// RecordSuccess resets failure bookkeeping after a 2xx delivery.
	RecordSuccess(ctx context.Context, id string, at time.Time) error
	// RecordFailure increments the failure counter, disabling the
	// subscription once it crosses maxRetries. Returns the updated state.
	RecordFailure(ctx context.Context, id string, at time.Time, reason string) (*models.WebhookSubscription, error)
	// Reactivate re-enables a disabled subscription and zeroes its counter.
	Reactivate(ctx context.Context, id string) (*models.WebhookSubscription, error)
}

type mongoWebhookRepo struct {
	coll *mongo.Collection
}

// NewMongoWebhookRepo constructs a MongoDB-backed WebhookRepository.
func NewMongoWebhookRepo() WebhookRepository {
	repo := &mongoWebhookRepo{
		coll: database.DB().Collection("webhook_subscriptions"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("webhook index creation failed", zap.Error(err))
	}
	return repo
}
