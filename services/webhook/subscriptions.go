package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"mendly/models"
	"mendly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// newSecret generates the 256-bit signing secret issued per subscription.
func newSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("secret generation failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return utils.Invalidf("url must be an absolute http or https URL")
	}
	return nil
}

func validateEvents(events []string) error {
	if len(events) == 0 {
		return utils.Invalidf("at least one event type is required")
	}
	for _, e := range events {
		if !models.ValidEventType(e) {
			return utils.Invalidf("unknown event type %q", e)
		}
	}
	return nil
}

func validateMaxRetries(n int) error {
	if n < 0 || n > utils.WebhookRetryCeiling {
		return utils.Invalidf("maxRetries must be between 0 and %d", utils.WebhookRetryCeiling)
	}
	return nil
}

func (s *DefaultSubscriptionService) Create(ctx context.Context, rawURL string, events []string, maxRetries *int) (*CreatedSubscription, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	if err := validateEvents(events); err != nil {
		return nil, err
	}
	retries := utils.WebhookDefaultRetries
	if maxRetries != nil {
		if err := validateMaxRetries(*maxRetries); err != nil {
			return nil, err
		}
		retries = *maxRetries
	}

	secret, err := newSecret()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &models.WebhookSubscription{
		ID:         uuid.New().String(),
		URL:        rawURL,
		Events:     events,
		Secret:     secret,
		IsActive:   true,
		MaxRetries: retries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("webhook subscription created",
		zap.String("subscriptionId", sub.ID), zap.Strings("events", events))

	return &CreatedSubscription{
		SubscriptionView: view(sub),
		Secret:           secret,
	}, nil
}

func (s *DefaultSubscriptionService) Get(ctx context.Context, id string) (*SubscriptionView, error) {
	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(sub)
	return &v, nil
}

func (s *DefaultSubscriptionService) Update(ctx context.Context, id string, upd SubscriptionUpdate) (*SubscriptionView, error) {
	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.URL != nil {
		if err := validateURL(*upd.URL); err != nil {
			return nil, err
		}
		sub.URL = *upd.URL
	}
	if upd.Events != nil {
		if err := validateEvents(*upd.Events); err != nil {
			return nil, err
		}
		sub.Events = *upd.Events
	}
	if upd.MaxRetries != nil {
		if err := validateMaxRetries(*upd.MaxRetries); err != nil {
			return nil, err
		}
		sub.MaxRetries = *upd.MaxRetries
	}
	if upd.IsActive != nil && *upd.IsActive != sub.IsActive {
		sub.IsActive = *upd.IsActive
		if sub.IsActive {
			// Re-enabling clears failure bookkeeping, same as Reactivate.
			sub.RetryCount = 0
		}
	}
	sub.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	v := view(sub)
	return &v, nil
}

func (s *DefaultSubscriptionService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *DefaultSubscriptionService) List(ctx context.Context, page, pageSize int) ([]SubscriptionView, int64, error) {
	subs, total, err := s.Repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views := make([]SubscriptionView, len(subs))
	for i := range subs {
		views[i] = view(&subs[i])
	}
	return views, total, nil
}

func (s *DefaultSubscriptionService) Reactivate(ctx context.Context, id string) (*SubscriptionView, error) {
	sub, err := s.Repo.Reactivate(ctx, id)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("webhook subscription reactivated", zap.String("subscriptionId", id))
	v := view(sub)
	return &v, nil
}

func view(sub *models.WebhookSubscription) SubscriptionView {
	return SubscriptionView{
		WebhookSubscription: *sub,
		Health:              HealthFor(sub, time.Now().UTC()),
	}
}
