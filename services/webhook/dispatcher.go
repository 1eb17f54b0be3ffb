package webhook

import (
	"context"
	"encoding/json"

	webhookRepo "mendly/database/repository/webhook"
	"mendly/models"
	"mendly/services/tasks"
	"mendly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqDispatcher fans events out to matching subscriptions by enqueueing one
// delivery task per subscriber. Emit never returns an error: event delivery
// is best-effort from the caller's point of view and must not fail the
// operation that produced the event.
type AsynqDispatcher struct {
	Repo   webhookRepo.WebhookRepository
	Client *asynq.Client
}

func NewAsynqDispatcher(repo webhookRepo.WebhookRepository, client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{Repo: repo, Client: client}
}

func (d *AsynqDispatcher) Emit(ctx context.Context, eventType string, data interface{}) {
	logger := utils.GetLogger()

	event := models.NewEvent(eventType, data)
	// Marshal the envelope once so every subscriber gets byte-identical
	// payloads and the signature each receives matches what it can recompute.
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event envelope",
			zap.String("eventType", eventType), zap.Error(err))
		return
	}

	subs, err := d.Repo.ListActiveForEvent(ctx, eventType)
	if err != nil {
		logger.Error("failed to load subscriptions for event",
			zap.String("eventType", eventType), zap.Error(err))
		return
	}

	for i := range subs {
		sub := &subs[i]
		payload := tasks.DeliveryPayload{
			SubscriptionID: sub.ID,
			EventType:      eventType,
			Body:           body,
		}
		task, opts, err := tasks.NewDeliveryTask(payload, sub.MaxRetries)
		if err != nil {
			logger.Error("failed to build delivery task",
				zap.String("subscriptionId", sub.ID), zap.Error(err))
			continue
		}
		if _, err := d.Client.Enqueue(task, opts...); err != nil {
			logger.Error("failed to enqueue webhook delivery",
				zap.String("subscriptionId", sub.ID),
				zap.String("eventType", eventType), zap.Error(err))
		}
	}
}
