package notification

import (
	"context"
	"fmt"

	"vexstorm/models"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Mailer sends one rendered message through an email provider.
type Mailer interface {
	Send(ctx context.Context, msg models.EmailMessage) error
}

// ResendMailer delivers through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewResendMailer(apiKey, from string, logger *zap.Logger) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend mailer: RESEND_API_KEY is empty")
	}
	return &ResendMailer{client: resend.NewClient(apiKey), from: from, logger: logger}, nil
}

func (m *ResendMailer) Send(ctx context.Context, msg models.EmailMessage) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend: send %s email: %w", msg.Kind, err)
	}
	m.logger.Info("Email sent", zap.String("kind", msg.Kind), zap.String("providerId", sent.Id))
	return nil
}

// LogMailer only logs messages. Used in development when no provider key is set.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg models.EmailMessage) error {
	m.logger.Info("Email (log only)",
		zap.String("kind", msg.Kind),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
