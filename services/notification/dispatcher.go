package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"vexstorm/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeEmailSend is the asynq task type for queued emails.
const TypeEmailSend = "email:send"

// Dispatcher hands a message to a background sender. A nil error only means
// the hand-off succeeded, not that the message was delivered.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg models.EmailMessage) error
}

// InlineDispatcher sends each message on its own goroutine with a bounded timeout.
type InlineDispatcher struct {
	mailer  Mailer
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewInlineDispatcher(mailer Mailer, timeout time.Duration, logger *zap.Logger) *InlineDispatcher {
	return &InlineDispatcher{mailer: mailer, timeout: timeout, logger: logger}
}

func (d *InlineDispatcher) Dispatch(_ context.Context, msg models.EmailMessage) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// Detached from the request context: the response must not wait for or cancel the send.
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.mailer.Send(ctx, msg); err != nil {
			d.logger.Error("Background email failed", zap.String("kind", msg.Kind), zap.Strings("to", msg.To), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until in-flight sends finish.
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}

// QueueDispatcher enqueues messages on an asynq queue served by the email worker.
type QueueDispatcher struct {
	client *asynq.Client
}

func NewQueueDispatcher(opt asynq.RedisClientOpt) *QueueDispatcher {
	return &QueueDispatcher{client: asynq.NewClient(opt)}
}

// NewEmailTask builds the queue task for msg.
func NewEmailTask(msg models.EmailMessage) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	// Sends are not retried.
	return asynq.NewTask(TypeEmailSend, payload, asynq.MaxRetry(0)), nil
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, msg models.EmailMessage) error {
	task, err := NewEmailTask(msg)
	if err != nil {
		return fmt.Errorf("encode email task: %w", err)
	}
	if _, err := d.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	return nil
}

func (d *QueueDispatcher) Close() error {
	return d.client.Close()
}
