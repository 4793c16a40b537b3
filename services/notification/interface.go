package notification

import (
	"context"
	"fmt"
	"time"

	"vexstorm/models"

	"go.uber.org/zap"
)

// NotificationService defines the transactional emails the portal sends.
type NotificationService interface {
	// SendOTP delivers a verification code and waits for the provider.
	SendOTP(ctx context.Context, email, name, code string, ttl time.Duration) error
	// QueueConfirmation hands the confirmation email off; failures are logged only.
	QueueConfirmation(ctx context.Context, rec models.RegistrationRecord)
	// SendDigest delivers the contact-inquiry summary to the operations mailbox.
	SendDigest(ctx context.Context, inquiries []models.ContactInquiry, window time.Duration) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	mailer     Mailer
	dispatcher Dispatcher
	opsTo      string
	logger     *zap.Logger
}

func NewDefaultNotificationService(
	mailer Mailer,
	dispatcher Dispatcher,
	opsTo string,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if mailer == nil || dispatcher == nil {
		return nil, fmt.Errorf("notification service initialization error: mailer or dispatcher is nil")
	}
	return &DefaultNotificationService{
		mailer:     mailer,
		dispatcher: dispatcher,
		opsTo:      opsTo,
		logger:     logger,
	}, nil
}

func (s *DefaultNotificationService) SendOTP(ctx context.Context, email, name, code string, ttl time.Duration) error {
	msg, err := RenderOTP(email, name, code, ttl)
	if err != nil {
		return fmt.Errorf("SendOTP: render: %w", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendOTP: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) QueueConfirmation(ctx context.Context, rec models.RegistrationRecord) {
	msg, err := RenderConfirmation(rec)
	if err != nil {
		s.logger.Error("QueueConfirmation: render failed", zap.String("registrationId", rec.RegistrationID), zap.Error(err))
		return
	}
	if err := s.dispatcher.Dispatch(ctx, msg); err != nil {
		s.logger.Error("QueueConfirmation: dispatch failed", zap.String("registrationId", rec.RegistrationID), zap.Error(err))
	}
}

func (s *DefaultNotificationService) SendDigest(ctx context.Context, inquiries []models.ContactInquiry, window time.Duration) error {
	msg, err := RenderDigest(s.opsTo, inquiries, window)
	if err != nil {
		return fmt.Errorf("SendDigest: render: %w", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendDigest: %w", err)
	}
	return nil
}
