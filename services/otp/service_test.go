package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	registrationRepo "vexstorm/database/repository/registration"
	"vexstorm/models"

	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type captureSender struct {
	codes map[string]string
	calls int
	err   error
}

func (s *captureSender) SendOTP(_ context.Context, email, _, code string, _ time.Duration) error {
	s.calls++
	if s.codes == nil {
		s.codes = make(map[string]string)
	}
	s.codes[email] = code
	return s.err
}

type fixture struct {
	svc    *Service
	store  *MemoryStore
	regs   *registrationRepo.MemoryRegistrationRepo
	sender *captureSender
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  NewMemoryStore(),
		regs:   registrationRepo.NewMemoryRegistrationRepo(),
		sender: &captureSender{},
		now:    time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.store, f.regs, f.sender, 10*time.Minute, bcrypt.MinCost, zaptest.NewLogger(t))
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestVerifyCode_SingleUse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if err := f.svc.RequestCode(ctx, "a@b.com", "Ada"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	code := f.sender.codes["a@b.com"]

	if err := f.svc.VerifyCode(ctx, "a@b.com", code); err != nil {
		t.Fatalf("First verification failed: %v", err)
	}
	if err := f.svc.VerifyCode(ctx, "a@b.com", code); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("Expected ErrNoChallenge on reuse, got %v", err)
	}
}

func TestVerifyCode_Expired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if err := f.svc.RequestCode(ctx, "a@b.com", ""); err != nil {
		t.Fatal(err)
	}
	code := f.sender.codes["a@b.com"]

	f.now = f.now.Add(10*time.Minute + time.Second)
	if err := f.svc.VerifyCode(ctx, "a@b.com", code); !errors.Is(err, ErrExpired) {
		t.Fatalf("Expected ErrExpired, got %v", err)
	}
	if ch, _ := f.store.Get(ctx, "a@b.com"); ch != nil {
		t.Error("Expired challenge should be deleted")
	}
	if err := f.svc.VerifyCode(ctx, "a@b.com", code); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("Expected ErrNoChallenge after expiry cleanup, got %v", err)
	}
}

func TestVerifyCode_AtExpiryBoundaryStillValid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.RequestCode(ctx, "a@b.com", "")

	f.now = f.now.Add(10 * time.Minute)
	if err := f.svc.VerifyCode(ctx, "a@b.com", f.sender.codes["a@b.com"]); err != nil {
		t.Errorf("Expected success exactly at expiry, got %v", err)
	}
}

func TestVerifyCode_WrongCodeKeepsChallenge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.RequestCode(ctx, "a@b.com", "")
	code := f.sender.codes["a@b.com"]

	wrong := "000000"
	if err := f.svc.VerifyCode(ctx, "a@b.com", wrong); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("Expected ErrInvalidCode, got %v", err)
	}
	if err := f.svc.VerifyCode(ctx, "a@b.com", code); err != nil {
		t.Errorf("Retry with correct code failed: %v", err)
	}
}

func TestVerifyCode_NoChallenge(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.VerifyCode(context.Background(), "nobody@b.com", "123456"); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("Expected ErrNoChallenge, got %v", err)
	}
}

func TestVerifyCode_MissingFields(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.VerifyCode(context.Background(), "", "123456"); !errors.Is(err, ErrMissingFields) {
		t.Errorf("Expected ErrMissingFields, got %v", err)
	}
}

func TestRequestCode_OverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.svc.RequestCode(ctx, "a@b.com", "")
	first := f.sender.codes["a@b.com"]
	f.svc.RequestCode(ctx, "a@b.com", "")
	second := f.sender.codes["a@b.com"]
	if first == second {
		t.Skip("random codes collided")
	}

	if err := f.svc.VerifyCode(ctx, "a@b.com", first); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Old code should be invalid, got %v", err)
	}
	if err := f.svc.VerifyCode(ctx, "a@b.com", second); err != nil {
		t.Errorf("Newest code should verify, got %v", err)
	}
}

func TestRequestCode_AlreadyRegistered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.regs.Insert(ctx, &models.RegistrationRecord{LeaderEmailKey: "a@b.com", TransactionID: "T1"})

	err := f.svc.RequestCode(ctx, "A@B.com", "Ada")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("Expected ErrAlreadyRegistered, got %v", err)
	}
	if f.sender.calls != 0 {
		t.Error("No code should be sent for a registered email")
	}
	if ch, _ := f.store.Get(ctx, "a@b.com"); ch != nil {
		t.Error("No challenge should be stored for a registered email")
	}
}

func TestRequestCode_InvalidEmail(t *testing.T) {
	f := newFixture(t)
	for _, email := range []string{"", "not-an-email", "<script>@x.com"} {
		if err := f.svc.RequestCode(context.Background(), email, ""); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("RequestCode(%q): expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestRequestCode_SendFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	f.sender.err = errors.New("smtp down")

	err := f.svc.RequestCode(context.Background(), "a@b.com", "")
	if err == nil || IsRejection(err) {
		t.Errorf("Expected infrastructure error, got %v", err)
	}
}

func TestRequestCode_StoresHashNotCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.RequestCode(ctx, "a@b.com", "")

	ch, _ := f.store.Get(ctx, "a@b.com")
	if ch == nil {
		t.Fatal("Expected stored challenge")
	}
	if ch.CodeHash == f.sender.codes["a@b.com"] {
		t.Error("Code stored in plain text")
	}
	if !ch.ExpiresAt.Equal(f.now.Add(10 * time.Minute)) {
		t.Errorf("Unexpected expiry %v", ch.ExpiresAt)
	}
}
