package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"mendly/config"
	"mendly/database/repository"
	webhookRepo "mendly/database/repository/webhook"
	"mendly/services/tasks"
	"mendly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const deliveryUserAgent = "mendly-webhooks/1.0"

// Deliverer executes webhook delivery tasks. Each task attempts a single
// signed POST; retry scheduling is left to asynq via RetryDelay, and the
// repository's failure bookkeeping decides when a subscription is disabled.
type Deliverer struct {
	Repo webhookRepo.WebhookRepository
	HTTP *http.Client

	nowFn func() time.Time
}

func NewDeliverer(repo webhookRepo.WebhookRepository) *Deliverer {
	return &Deliverer{
		Repo:  repo,
		HTTP:  &http.Client{Timeout: utils.WebhookDeliveryTimeout},
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// HandleDelivery processes one webhook:deliver task.
func (d *Deliverer) HandleDelivery(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var p tasks.DeliveryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("invalid delivery payload", zap.Error(err))
		return fmt.Errorf("invalid delivery payload: %v: %w", err, asynq.SkipRetry)
	}

	sub, err := d.Repo.GetByID(ctx, p.SubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Subscription deleted while the task was queued. Drop it.
			logger.Warn("delivery skipped, subscription gone",
				zap.String("subscriptionId", p.SubscriptionID))
			return nil
		}
		return err
	}
	if !sub.IsActive {
		logger.Info("delivery skipped, subscription inactive",
			zap.String("subscriptionId", sub.ID), zap.String("eventType", p.EventType))
		return nil
	}

	secret := sub.Secret
	if secret == "" {
		// Subscriptions predating per-subscription secrets sign with the
		// process-wide fallback.
		secret = config.AppConfig.WebhookDefaultSecret
	}

	now := d.nowFn()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(p.Body))
	if err != nil {
		return fmt.Errorf("bad subscription url: %v: %w", err, asynq.SkipRetry)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", deliveryUserAgent)
	req.Header.Set("X-Signature", Sign(secret, p.Body))
	req.Header.Set("X-Timestamp", strconv.FormatInt(now.Unix(), 10))

	resp, err := d.HTTP.Do(req)
	if err != nil {
		return d.noteFailure(ctx, sub.ID, p.EventType, now, err.Error())
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := d.Repo.RecordSuccess(ctx, sub.ID, now); err != nil {
			logger.Error("failed to record delivery success",
				zap.String("subscriptionId", sub.ID), zap.Error(err))
		}
		logger.Info("webhook delivered",
			zap.String("subscriptionId", sub.ID),
			zap.String("eventType", p.EventType),
			zap.Int("status", resp.StatusCode))
		return nil
	}

	return d.noteFailure(ctx, sub.ID, p.EventType, now,
		fmt.Sprintf("endpoint returned %d", resp.StatusCode))
}

// noteFailure records the failed attempt and returns an error that tells
// asynq whether to keep retrying. Once the repository disables the
// subscription the task must not be retried again.
func (d *Deliverer) noteFailure(ctx context.Context, subID, eventType string, at time.Time, reason string) error {
	logger := utils.GetLogger()

	updated, err := d.Repo.RecordFailure(ctx, subID, at, reason)
	if err != nil {
		logger.Error("failed to record delivery failure",
			zap.String("subscriptionId", subID), zap.Error(err))
		return fmt.Errorf("delivery failed (%s), bookkeeping error: %v", reason, err)
	}

	if !updated.IsActive {
		logger.Warn("subscription disabled after exhausting retries",
			zap.String("subscriptionId", subID),
			zap.String("eventType", eventType),
			zap.Int("retryCount", updated.RetryCount),
			zap.String("reason", reason))
		return fmt.Errorf("delivery failed (%s), subscription disabled: %w", reason, asynq.SkipRetry)
	}

	logger.Warn("webhook delivery failed",
		zap.String("subscriptionId", subID),
		zap.String("eventType", eventType),
		zap.Int("retryCount", updated.RetryCount),
		zap.String("reason", reason))
	return fmt.Errorf("delivery to subscription %s failed: %s", subID, reason)
}

// RetryDelay implements the webhook retry schedule: 2 seconds doubling per
// consecutive failure, capped at one minute. n is the number of times asynq
// has already retried the task, so the first retry waits 2^1 seconds.
func RetryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	attempt := n + 1
	if attempt >= 6 {
		return utils.WebhookMaxRetryDelay
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}
