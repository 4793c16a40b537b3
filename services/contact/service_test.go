package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	contactRepo "vexstorm/database/repository/contact"
	"vexstorm/models"

	"go.uber.org/zap/zaptest"
)

type failingRepo struct{}

func (failingRepo) Insert(context.Context, *models.ContactInquiry) error {
	return errors.New("db unavailable")
}

func (failingRepo) ListSince(context.Context, time.Time) ([]models.ContactInquiry, error) {
	return nil, errors.New("db unavailable")
}

func validContact() models.ContactRequest {
	return models.ContactRequest{
		Name:         "Grace Hopper",
		Email:        "grace@navy.example",
		Phone:        "+1 555 0100",
		Company:      "COBOL Labs",
		Message:      "Interested in sponsoring the AI track.",
		ProjectStage: "idea",
		Budget:       "10k-50k",
	}
}

func TestSubmit_IdenticalRepeatsBothSucceed(t *testing.T) {
	repo := contactRepo.NewMemoryContactRepo()
	svc := NewService(repo, false, zaptest.NewLogger(t))

	for i := 0; i < 2; i++ {
		if err := svc.Submit(context.Background(), validContact()); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}
	if repo.Len() != 2 {
		t.Errorf("Expected 2 stored inquiries, got %d", repo.Len())
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.ContactRequest)
		expected string
	}{
		{"missing name", func(r *models.ContactRequest) { r.Name = "  " }, MsgMissingFields},
		{"missing email", func(r *models.ContactRequest) { r.Email = "" }, MsgMissingFields},
		{"missing phone", func(r *models.ContactRequest) { r.Phone = "" }, MsgMissingFields},
		{"bad email", func(r *models.ContactRequest) { r.Email = "grace@navy" }, MsgInvalidEmail},
		{"sql in message", func(r *models.ContactRequest) { r.Message = "hi'; DROP TABLE contacts; --" }, MsgMalicious},
		{"script in optional field", func(r *models.ContactRequest) { r.Location = "<script>x</script>" }, MsgMalicious},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := contactRepo.NewMemoryContactRepo()
			svc := NewService(repo, false, zaptest.NewLogger(t))
			req := validContact()
			tt.mutate(&req)

			err := svc.Submit(context.Background(), req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Message != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, verr.Message)
			}
			if repo.Len() != 0 {
				t.Error("Rejected inquiry was stored")
			}
		})
	}
}

func TestSubmit_StoresSanitizedFields(t *testing.T) {
	repo := contactRepo.NewMemoryContactRepo()
	svc := NewService(repo, false, zaptest.NewLogger(t))
	fixed := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	req := validContact()
	req.Company = "Smith & Sons"
	if err := svc.Submit(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	got, _ := repo.ListSince(context.Background(), fixed)
	if len(got) != 1 {
		t.Fatalf("Expected 1 inquiry, got %d", len(got))
	}
	if got[0].Company != "Smith &amp; Sons" {
		t.Errorf("Expected escaped company, got %q", got[0].Company)
	}
	if got[0].ID == "" || !got[0].CreatedAt.Equal(fixed) {
		t.Errorf("Expected id and timestamp to be assigned, got %+v", got[0])
	}
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	lenient := NewService(failingRepo{}, false, zaptest.NewLogger(t))
	if err := lenient.Submit(context.Background(), validContact()); err != nil {
		t.Errorf("Expected storage failure to be swallowed, got %v", err)
	}

	strict := NewService(failingRepo{}, true, zaptest.NewLogger(t))
	err := strict.Submit(context.Background(), validContact())
	if err == nil {
		t.Fatal("Expected error in strict mode")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Error("Storage failure must not be a ValidationError")
	}
}
