// Package digest sends the periodic summary of recent contact inquiries.
package digest

import (
	"context"
	"fmt"
	"time"

	contactRepo "vexstorm/database/repository/contact"
	"vexstorm/models"

	"go.uber.org/zap"
)

// Sender delivers the rendered digest.
type Sender interface {
	SendDigest(ctx context.Context, inquiries []models.ContactInquiry, window time.Duration) error
}

// Job queries the trailing window and mails one summary when it is non-empty.
type Job struct {
	contacts contactRepo.ContactRepository
	sender   Sender
	window   time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewJob(contacts contactRepo.ContactRepository, sender Sender, window, timeout time.Duration, logger *zap.Logger) *Job {
	if window <= 0 {
		window = 24 * time.Hour
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Job{
		contacts: contacts,
		sender:   sender,
		window:   window,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// Run performs one firing and returns how many inquiries were summarized.
// Zero inquiries sends nothing.
func (j *Job) Run(ctx context.Context) (int, error) {
	since := j.now().Add(-j.window)
	inquiries, err := j.contacts.ListSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("list inquiries: %w", err)
	}
	if len(inquiries) == 0 {
		return 0, nil
	}
	if err := j.sender.SendDigest(ctx, inquiries, j.window); err != nil {
		return 0, fmt.Errorf("send digest: %w", err)
	}
	return len(inquiries), nil
}

// Fire is the scheduler entry point. Failures are logged and the job waits
// for the next firing.
func (j *Job) Fire() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.Run(ctx)
	if err != nil {
		j.logger.Error("Digest job failed", zap.Error(err))
		return
	}
	if n == 0 {
		j.logger.Info("Digest job: no inquiries in window", zap.Duration("window", j.window))
		return
	}
	j.logger.Info("Digest sent", zap.Int("inquiries", n))
}
