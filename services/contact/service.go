// Package contact validates and stores general contact-form inquiries.
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	contactRepo "vexstorm/database/repository/contact"
	"vexstorm/models"
	"vexstorm/services/sanitize"
	"vexstorm/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client-facing validation messages.
const (
	MsgMissingFields = "name, email and phone are required"
	MsgInvalidEmail  = "invalid email format"
	MsgMalicious     = "malicious content detected"
)

// ValidationError is returned for submissions the client must correct.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Service struct {
	repo   contactRepo.ContactRepository
	strict bool
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates the contact service. With strict set, storage failures
// are returned instead of logged.
func NewService(repo contactRepo.ContactRepository, strict bool, logger *zap.Logger) *Service {
	return &Service{repo: repo, strict: strict, logger: logger, now: time.Now}
}

// Submit sanitizes, validates and stores one inquiry. Repeats are accepted.
func (s *Service) Submit(ctx context.Context, req models.ContactRequest) error {
	inq := models.ContactInquiry{
		Name:         clean(req.Name),
		Email:        clean(req.Email),
		Phone:        clean(req.Phone),
		Company:      clean(req.Company),
		Location:     clean(req.Location),
		ProjectStage: clean(req.ProjectStage),
		Budget:       clean(req.Budget),
		AIUsage:      clean(req.AIUsage),
		Employees:    clean(req.Employees),
		Experience:   clean(req.Experience),
		Message:      clean(req.Message),
	}

	if inq.Name == "" || inq.Email == "" || inq.Phone == "" {
		return &ValidationError{Message: MsgMissingFields}
	}
	if !utils.IsValidEmail(inq.Email) {
		return &ValidationError{Message: MsgInvalidEmail}
	}
	combined := strings.Join([]string{
		inq.Name, inq.Email, inq.Phone, inq.Company, inq.Location, inq.ProjectStage,
		inq.Budget, inq.AIUsage, inq.Employees, inq.Experience, inq.Message,
	}, " ")
	if sanitize.ContainsRedaction(combined) {
		s.logger.Warn("Contact inquiry rejected", zap.String("reason", MsgMalicious))
		return &ValidationError{Message: MsgMalicious}
	}

	inq.ID = uuid.NewString()
	inq.CreatedAt = s.now()
	if err := s.repo.Insert(ctx, &inq); err != nil {
		s.logger.Error("Failed to persist contact inquiry", zap.String("id", inq.ID), zap.Error(err))
		if s.strict {
			return fmt.Errorf("persist contact inquiry: %w", err)
		}
		return nil
	}
	s.logger.Info("Contact inquiry stored", zap.String("id", inq.ID))
	return nil
}

func clean(v string) string {
	return strings.TrimSpace(sanitize.String(v))
}
