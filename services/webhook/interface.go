// Package webhook manages outbound event delivery: subscription CRUD, the
// dispatcher that fans events out to the delivery queue, and the worker
// handler that signs and POSTs payloads.
package webhook

import (
	"context"

	webhookRepo "mendly/database/repository/webhook"
	"mendly/models"
)

// Dispatcher enqueues an event for asynchronous delivery to every matching
// subscription. Implementations must never block or fail the caller's
// transaction; errors are logged and swallowed.
type Dispatcher interface {
	Emit(ctx context.Context, eventType string, data interface{})
}

// SubscriptionView is a subscription plus its derived health state.
type SubscriptionView struct {
	models.WebhookSubscription
	Health string `json:"health"`
}

// CreatedSubscription carries the plaintext secret exactly once.
type CreatedSubscription struct {
	SubscriptionView
	Secret string `json:"secret"`
}

// SubscriptionService defines webhook subscription management.
type SubscriptionService interface {
	Create(ctx context.Context, url string, events []string, maxRetries *int) (*CreatedSubscription, error)
	Get(ctx context.Context, id string) (*SubscriptionView, error)
	Update(ctx context.Context, id string, upd SubscriptionUpdate) (*SubscriptionView, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]SubscriptionView, int64, error)
	// Reactivate re-enables a disabled subscription, resetting its retry
	// counter. Past undelivered events are not replayed.
	Reactivate(ctx context.Context, id string) (*SubscriptionView, error)
}

// SubscriptionUpdate carries optional fields; nil means unchanged.
type SubscriptionUpdate struct {
	URL        *string   `json:"url"`
	Events     *[]string `json:"events"`
	MaxRetries *int      `json:"maxRetries"`
	IsActive   *bool     `json:"isActive"`
}

// DefaultSubscriptionService implements SubscriptionService.
type DefaultSubscriptionService struct {
	Repo webhookRepo.WebhookRepository
}
