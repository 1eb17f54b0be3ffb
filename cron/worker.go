package cron

import (
	"mendly/config"
	webhookRepo "mendly/database/repository/webhook"
	"mendly/services/tasks"
	"mendly/services/webhook"
	"mendly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DeliveryWorker runs the background webhook delivery queue. Deliveries are
// enqueued by the dispatcher after booking commits; the worker signs and
// POSTs them, and asynq reschedules failures on the exponential backoff
// curve until the subscription's retry budget runs out.
type DeliveryWorker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewDeliveryWorker wires the asynq server for the webhooks queue.
func NewDeliveryWorker(repo webhookRepo.WebhookRepository) *DeliveryWorker {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: config.AppConfig.WebhookConcurrency,
			Queues: map[string]int{
				tasks.QueueWebhooks: 1,
			},
			RetryDelayFunc: webhook.RetryDelay,
			Logger:         asynqZapLogger{utils.GetLogger().Sugar()},
		},
	)

	deliverer := webhook.NewDeliverer(repo)
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeWebhookDeliver, deliverer.HandleDelivery)

	return &DeliveryWorker{srv: srv, mux: mux}
}

// Start runs the worker in the background. A failed start is fatal.
func (w *DeliveryWorker) Start() {
	logger := utils.GetLogger()
	go func() {
		logger.Info("webhook delivery worker starting",
			zap.Int("concurrency", config.AppConfig.WebhookConcurrency))
		if err := w.srv.Run(w.mux); err != nil {
			logger.Fatal("webhook delivery worker failed", zap.Error(err))
		}
	}()
}

// Shutdown drains the worker: in-flight deliveries finish (bounded by the
// 30s HTTP timeout), no new tasks are started, unfinished tasks return to
// the queue for the next boot.
func (w *DeliveryWorker) Shutdown() {
	utils.GetLogger().Info("webhook delivery worker shutting down")
	w.srv.Shutdown()
}

// asynqZapLogger adapts the shared zap logger to asynq's Logger interface.
type asynqZapLogger struct {
	s *zap.SugaredLogger
}

func (l asynqZapLogger) Debug(args ...interface{}) { l.s.Debug(args...) }
func (l asynqZapLogger) Info(args ...interface{})  { l.s.Info(args...) }
func (l asynqZapLogger) Warn(args ...interface{})  { l.s.Warn(args...) }
func (l asynqZapLogger) Error(args ...interface{}) { l.s.Error(args...) }
func (l asynqZapLogger) Fatal(args ...interface{}) { l.s.Fatal(args...) }
