package webhook

import (
	"context"
	"sync"
	"time"

	"mendly/database/repository"
	"mendly/models"
)

// memWebhookRepo mirrors the Mongo repository's bookkeeping rules, including
// the disable-on-budget-exhaustion behavior of RecordFailure.
type memWebhookRepo struct {
	mu   sync.Mutex
	byID map[string]*models.WebhookSubscription
}

func newMemWebhookRepo(subs ...*models.WebhookSubscription) *memWebhookRepo {
	m := &memWebhookRepo{byID: map[string]*models.WebhookSubscription{}}
	for _, sub := range subs {
		cp := *sub
		m.byID[cp.ID] = &cp
	}
	return m
}

func (m *memWebhookRepo) Create(ctx context.Context, sub *models.WebhookSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.byID[sub.ID] = &cp
	return nil
}

func (m *memWebhookRepo) GetByID(ctx context.Context, id string) (*models.WebhookSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (m *memWebhookRepo) Update(ctx context.Context, sub *models.WebhookSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[sub.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *sub
	m.byID[sub.ID] = &cp
	return nil
}

func (m *memWebhookRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memWebhookRepo) List(ctx context.Context, page, pageSize int) ([]models.WebhookSubscription, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WebhookSubscription
	for _, sub := range m.byID {
		out = append(out, *sub)
	}
	return out, int64(len(out)), nil
}

func (m *memWebhookRepo) ListActiveForEvent(ctx context.Context, eventType string) ([]models.WebhookSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WebhookSubscription
	for _, sub := range m.byID {
		if sub.IsActive && sub.SubscribesTo(eventType) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (m *memWebhookRepo) RecordSuccess(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	sub.RetryCount = 0
	ts := at
	sub.LastSuccessAt = &ts
	sub.LastFailureReason = ""
	sub.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memWebhookRepo) RecordFailure(ctx context.Context, id string, at time.Time, reason string) (*models.WebhookSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sub.RetryCount++
	ts := at
	sub.LastFailureAt = &ts
	sub.LastFailureReason = reason
	sub.UpdatedAt = time.Now().UTC()
	if sub.IsActive && sub.RetryCount >= sub.MaxRetries {
		sub.IsActive = false
	}
	cp := *sub
	return &cp, nil
}

func (m *memWebhookRepo) Reactivate(ctx context.Context, id string) (*models.WebhookSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sub.IsActive = true
	sub.RetryCount = 0
	sub.UpdatedAt = time.Now().UTC()
	cp := *sub
	return &cp, nil
}
