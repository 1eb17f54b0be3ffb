// File: utils/constants.go
package utils

import "time"

// DateLayout is the wire format for store-local dates.
const DateLayout = "2006-01-02"

// Slot generation defaults, overridable per request.
const (
	DefaultSlotDurationMinutes = 60
	DefaultSlotCapacity        = 1
)

// Webhook delivery timing.
const (
	WebhookDeliveryTimeout = 30 * time.Second
	WebhookMaxRetryDelay   = 60 * time.Second
	WebhookReplayWindow    = 300 * time.Second
	WebhookDefaultRetries  = 5
	WebhookRetryCeiling    = 10
)
