// Package registration runs the /manual-register submission pipeline: bot
// heuristics, sanitization, format checks, duplicate detection, persistence
// and the confirmation email, strictly in that order.
package registration

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"vexstorm/database/repository"
	registrationRepo "vexstorm/database/repository/registration"
	"vexstorm/models"
	"vexstorm/services/sanitize"
	"vexstorm/utils"

	"go.uber.org/zap"
)

// Notifier receives the fire-and-forget confirmation.
type Notifier interface {
	QueueConfirmation(ctx context.Context, rec models.RegistrationRecord)
}

// Options tune the pipeline.
type Options struct {
	MinSubmitDuration     time.Duration
	TestSkipTransactionID string
	SendConfirmation      bool
	// Payment tags stamped on every record; clients cannot set them.
	PaymentMethod string
	PaymentMode   string
	Amount        float64
	// StrictPersistence surfaces duplicate-check and insert failures instead
	// of accepting the registration anyway.
	StrictPersistence bool
}

type Service struct {
	repo     registrationRepo.RegistrationRepository
	notifier Notifier
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
	randInt  func(n int) int
}

func NewService(repo registrationRepo.RegistrationRepository, notifier Notifier, opts Options, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		randInt:  rand.IntN,
	}
}

// Submit validates and stores one registration. Client-facing refusals are
// returned as *RejectionError.
func (s *Service) Submit(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error) {
	// 1. Bot heuristics.
	if strings.TrimSpace(req.Honeypot) != "" {
		return nil, s.reject(validationError(MsgBotDetected), zap.String("reason", "honeypot"))
	}
	elapsed, ok := parseDuration(req.Duration)
	if !ok || elapsed < float64(s.opts.MinSubmitDuration.Milliseconds()) {
		return nil, s.reject(validationError(MsgTooFast), zap.Any("duration", req.Duration))
	}

	// 2. Sanitize.
	formData := sanitize.Map(req.FormData)
	transactionID := sanitize.String(strings.TrimSpace(req.TransactionID))
	deviceID := sanitize.String(strings.TrimSpace(req.DeviceID))
	if sanitize.ContainsRedaction(formData) || sanitize.ContainsRedaction(transactionID) || sanitize.ContainsRedaction(deviceID) {
		return nil, s.reject(validationError(MsgMalicious))
	}

	form, err := decodeForm(formData)
	if err != nil {
		return nil, s.reject(validationError(MsgInvalidForm), zap.Error(err))
	}

	// 3. Format validation.
	driveLink := strings.TrimSpace(form.DriveLink)
	if driveLink != "" && !driveLinkPattern.MatchString(driveLink) {
		return nil, s.reject(validationError(MsgInvalidDriveLink))
	}
	leaderEmail := strings.TrimSpace(form.Leader.Email)
	if !utils.IsValidEmail(leaderEmail) {
		return nil, s.reject(validationError(MsgInvalidEmail))
	}

	teamName := strings.TrimSpace(form.TeamName)
	if teamName == "" {
		teamName = "Solo"
	}
	emailKey := repository.NormalizeKey(leaderEmail)
	teamKey := repository.NormalizeKey(teamName)
	if teamKey == models.SoloTeamName {
		teamKey = ""
	}

	// 4. Duplicate detection.
	preds := s.duplicatePredicates(emailKey, teamKey, transactionID, deviceID)
	rows, err := s.repo.FindDuplicates(ctx, preds)
	if err != nil {
		s.logger.Error("Duplicate check failed", zap.String("email", emailKey), zap.Error(err))
		if s.opts.StrictPersistence {
			return nil, fmt.Errorf("duplicate check: %w", err)
		}
		rows = nil
	}
	if msg := s.firstConflict(rows, emailKey, teamKey, transactionID, deviceID); msg != "" {
		return nil, s.reject(conflictError(msg), zap.String("email", emailKey))
	}

	// 5. Identifier assignment.
	now := s.now()
	millis := now.UnixMilli()
	registrationID := "REG-" + strconv.FormatInt(millis, 10)
	waitlisted := transactionID == "" || transactionID == s.opts.TestSkipTransactionID
	finalTransactionID := transactionID
	if waitlisted {
		finalTransactionID = s.waitlistID(millis)
	}

	size := teamSize(form)
	rec := models.RegistrationRecord{
		RegistrationID: registrationID,
		Type:           strings.TrimSpace(form.Type),
		TeamName:       teamName,
		Track:          strings.TrimSpace(form.Track),
		TeamSize:       size,
		Leader:         participant(form.Leader),
		Members:        members(form, size),
		ProjectPitch:   strings.TrimSpace(form.ProjectIdea),
		Motivation:     strings.TrimSpace(form.WhyParticipate),
		DriveLink:      driveLink,
		TransactionID:  finalTransactionID,
		PaymentMethod:  s.opts.PaymentMethod,
		PaymentMode:    s.opts.PaymentMode,
		Amount:         s.opts.Amount,
		DeviceID:       deviceID,
		Status:         models.StatusPendingVerification,
		CreatedAt:      now,
		LeaderEmailKey: emailKey,
		TeamKey:        teamKey,
	}

	// 6. Persist. A generated waitlist id can collide with one minted in the
	// same millisecond; only that id is regenerated.
	err = s.repo.Insert(ctx, &rec)
	for attempt := 1; waitlisted && errors.Is(err, repository.ErrDuplicate) && attempt < maxWaitlistAttempts; attempt++ {
		rec.TransactionID = s.waitlistID(millis)
		err = s.repo.Insert(ctx, &rec)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent submission for the same keys.
			return nil, s.reject(conflictError(MsgDuplicateRecorded), zap.String("email", emailKey))
		}
		s.logger.Error("Failed to persist registration", zap.String("registrationId", registrationID), zap.Error(err))
		if s.opts.StrictPersistence {
			return nil, fmt.Errorf("persist registration: %w", err)
		}
	} else {
		s.logger.Info("Registration stored",
			zap.String("registrationId", registrationID),
			zap.String("track", rec.Track),
			zap.Int("teamSize", size),
		)
	}

	// 7. Respond; the confirmation never affects the result.
	if s.opts.SendConfirmation && s.notifier != nil {
		s.notifier.QueueConfirmation(ctx, rec)
	}
	return &models.RegistrationResult{RegistrationID: registrationID}, nil
}

const maxWaitlistAttempts = 3

// waitlistID builds the placeholder transaction id for skipped payments.
func (s *Service) waitlistID(millis int64) string {
	return fmt.Sprintf("WAITLIST-%d-%06d", millis, 100000+s.randInt(900000))
}

func (s *Service) reject(err error, fields ...zap.Field) error {
	s.logger.Warn("Registration rejected", append(fields, zap.String("reason", err.Error()))...)
	return err
}
