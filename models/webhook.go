package models

import "time"

// Webhook subscription health states derived from delivery history, in
// evaluation order: disabled, retrying, warning, inactive, healthy.
const (
	WebhookHealthDisabled = "disabled" // isActive false
	WebhookHealthRetrying = "retrying" // retryCount > 0
	WebhookHealthWarning  = "warning"  // last failure within the past 24h
	WebhookHealthInactive = "inactive" // no success ever, or none within 24h
	WebhookHealthHealthy  = "healthy"
)

// WebhookSubscription registers an external endpoint for event delivery.
// Secret signs payloads and is returned only once, on creation.
type WebhookSubscription struct {
	ID     string   `bson:"id" json:"id"`
	URL    string   `bson:"url" json:"url"`
	Events []string `bson:"events" json:"events"`
	Secret string   `bson:"secret" json:"-"`

	IsActive   bool `bson:"isActive" json:"isActive"`
	RetryCount int  `bson:"retryCount" json:"retryCount"` // consecutive failures since last success
	MaxRetries int  `bson:"maxRetries" json:"maxRetries"` // 0..10, disable threshold

	LastSuccessAt     *time.Time `bson:"lastSuccessAt,omitempty" json:"lastSuccessAt,omitempty"`
	LastFailureAt     *time.Time `bson:"lastFailureAt,omitempty" json:"lastFailureAt,omitempty"`
	LastFailureReason string     `bson:"lastFailureReason,omitempty" json:"lastFailureReason,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SubscribesTo reports whether the subscription wants the given event type.
func (w *WebhookSubscription) SubscribesTo(eventType string) bool {
	for _, e := range w.Events {
		if e == eventType {
			return true
		}
	}
	return false
}
