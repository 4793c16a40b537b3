// Package otp issues and checks short-lived email verification codes.
package otp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vexstorm/database/repository"
	"vexstorm/models"
	"vexstorm/services/sanitize"
	"vexstorm/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const codeDigits = 6

// RegistrationLookup is the slice of the registration store the OTP unit needs.
type RegistrationLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CodeSender delivers a code to the user.
type CodeSender interface {
	SendOTP(ctx context.Context, email, name, code string, ttl time.Duration) error
}

type Service struct {
	store         Store
	registrations RegistrationLookup
	sender        CodeSender
	ttl           time.Duration
	hashCost      int
	logger        *zap.Logger
	now           func() time.Time
}

func NewService(store Store, registrations RegistrationLookup, sender CodeSender, ttl time.Duration, hashCost int, logger *zap.Logger) *Service {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &Service{
		store:         store,
		registrations: registrations,
		sender:        sender,
		ttl:           ttl,
		hashCost:      hashCost,
		logger:        logger,
		now:           time.Now,
	}
}

// RequestCode issues a fresh code for email, replacing any pending one, and
// mails it. Emails that already own a registration are refused.
func (s *Service) RequestCode(ctx context.Context, email, name string) error {
	email = strings.TrimSpace(email)
	if !utils.IsValidEmail(email) || sanitize.ContainsRedaction(sanitize.String(email)) {
		return ErrInvalidEmail
	}
	name = sanitize.String(strings.TrimSpace(name))
	if sanitize.ContainsRedaction(name) {
		name = ""
	}

	exists, err := s.registrations.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check existing registration: %w", err)
	}
	if exists {
		return ErrAlreadyRegistered
	}

	code, err := utils.GenerateNumericCode(codeDigits)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	key := repository.NormalizeKey(email)
	if err := s.store.Set(ctx, key, models.OTPChallenge{
		CodeHash:  string(hash),
		ExpiresAt: s.now().Add(s.ttl),
	}); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	if err := s.sender.SendOTP(ctx, email, name, code, s.ttl); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	s.logger.Info("OTP issued", zap.String("email", key))
	return nil
}

// VerifyCode consumes the pending challenge when code matches. Wrong codes
// leave the challenge in place until it expires.
func (s *Service) VerifyCode(ctx context.Context, email, code string) error {
	key := repository.NormalizeKey(email)
	code = strings.TrimSpace(code)
	if key == "" || code == "" {
		return ErrMissingFields
	}

	ch, err := s.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load code: %w", err)
	}
	if ch == nil {
		return ErrNoChallenge
	}

	if ch.Expired(s.now()) {
		if _, err := s.store.Delete(ctx, key); err != nil {
			s.logger.Error("Failed to delete expired OTP", zap.String("email", key), zap.Error(err))
		}
		return ErrExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)) != nil {
		return ErrInvalidCode
	}

	deleted, err := s.store.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if !deleted {
		// A concurrent verification consumed it first.
		return ErrNoChallenge
	}
	s.logger.Info("OTP verified", zap.String("email", key))
	return nil
}
