package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vexstorm/models"
	"vexstorm/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// EmailWorker serves the asynq email queue filled by notification.QueueDispatcher.
type EmailWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewEmailWorker(redisOpts asynq.RedisClientOpt, mailer notification.Mailer, logger *zap.Logger) *EmailWorker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeEmailSend, handleEmailTask(mailer, logger))

	return &EmailWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying with backoff while Redis
// is unreachable.
func (w *EmailWorker) Start() {
	go func() {
		w.logger.Info("Starting email worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Warn("Email worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Error("Email worker gave up; queued emails will not be sent")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight sends and stops the worker.
func (w *EmailWorker) Shutdown() {
	w.srv.Shutdown()
}

func handleEmailTask(mailer notification.Mailer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var msg models.EmailMessage
		if err := json.Unmarshal(task.Payload(), &msg); err != nil {
			logger.Error("Invalid email task payload", zap.Error(err))
			return fmt.Errorf("decode email task: %v: %w", err, asynq.SkipRetry)
		}
		if len(msg.To) == 0 {
			logger.Warn("Email task has no recipients", zap.String("kind", msg.Kind))
			return nil
		}

		if err := mailer.Send(ctx, msg); err != nil {
			logger.Error("Queued email failed", zap.String("kind", msg.Kind), zap.Strings("to", msg.To), zap.Error(err))
			return err
		}
		return nil
	}
}
