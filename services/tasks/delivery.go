package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeWebhookDeliver = "webhook:deliver"
	QueueWebhooks      = "webhooks"
)

// DeliveryPayload carries one signed-payload delivery to one subscription.
// Body is the marshaled event envelope; it is produced once per event so
// every subscriber receives the exact same bytes.
type DeliveryPayload struct {
	SubscriptionID string          `json:"subscriptionId"`
	EventType      string          `json:"eventType"`
	Body           json.RawMessage `json:"body"`
}

func NewDeliveryTask(payload DeliveryPayload, maxRetries int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeWebhookDeliver, b)
	opts := []asynq.Option{
		asynq.Queue(QueueWebhooks),
		asynq.MaxRetry(maxRetries),
		asynq.Timeout(45 * time.Second),
	}

	return task, opts, nil
}
