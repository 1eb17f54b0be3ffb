package webhook

import (
	"time"

	"mendly/models"
)

const healthWindow = 24 * time.Hour

// HealthFor derives the delivery health of a subscription at the given
// instant. Checks run in priority order and the first match wins.
func HealthFor(sub *models.WebhookSubscription, now time.Time) string {
	if !sub.IsActive {
		return models.WebhookHealthDisabled
	}
	if sub.RetryCount > 0 {
		return models.WebhookHealthRetrying
	}
	if sub.LastFailureAt != nil && now.Sub(*sub.LastFailureAt) <= healthWindow {
		return models.WebhookHealthWarning
	}
	if sub.LastSuccessAt == nil || now.Sub(*sub.LastSuccessAt) > healthWindow {
		return models.WebhookHealthInactive
	}
	return models.WebhookHealthHealthy
}
