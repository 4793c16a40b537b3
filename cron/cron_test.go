package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"vexstorm/models"
	"vexstorm/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap/zaptest"
)

type stubMailer struct {
	sent []models.EmailMessage
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg models.EmailMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestHandleEmailTask(t *testing.T) {
	msg := models.EmailMessage{To: []string{"ada@example.com"}, Subject: "Welcome", HTML: "<p>hi</p>", Kind: "confirmation"}
	task, err := notification.NewEmailTask(msg)
	if err != nil {
		t.Fatal(err)
	}

	mailer := &stubMailer{}
	if err := handleEmailTask(mailer, zaptest.NewLogger(t))(context.Background(), task); err != nil {
		t.Fatalf("Handler failed: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].Subject != "Welcome" {
		t.Errorf("Unexpected sends: %+v", mailer.sent)
	}
}

func TestHandleEmailTask_Errors(t *testing.T) {
	logger := zaptest.NewLogger(t)

	bad := asynq.NewTask(notification.TypeEmailSend, []byte("{not json"))
	err := handleEmailTask(&stubMailer{}, logger)(context.Background(), bad)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("Expected SkipRetry for bad payload, got %v", err)
	}

	payload, _ := json.Marshal(models.EmailMessage{Subject: "nobody", Kind: "digest"})
	empty := asynq.NewTask(notification.TypeEmailSend, payload)
	mailer := &stubMailer{}
	if err := handleEmailTask(mailer, logger)(context.Background(), empty); err != nil || len(mailer.sent) != 0 {
		t.Errorf("Expected recipient-less task to be dropped, got err=%v sends=%d", err, len(mailer.sent))
	}

	task, _ := notification.NewEmailTask(models.EmailMessage{To: []string{"x@example.com"}, Kind: "otp"})
	failing := &stubMailer{err: errors.New("provider down")}
	if err := handleEmailTask(failing, logger)(context.Background(), task); err == nil {
		t.Error("Expected provider error to be returned")
	}
}

func TestStartDigestScheduler(t *testing.T) {
	logger := zaptest.NewLogger(t)

	c, err := StartDigestScheduler("55 23 * * *", "UTC", func() {}, logger)
	if err != nil {
		t.Fatalf("Expected valid schedule, got %v", err)
	}
	defer c.Stop()
	if n := len(c.Entries()); n != 1 {
		t.Errorf("Expected 1 entry, got %d", n)
	}

	if _, err := StartDigestScheduler("not a schedule", "", func() {}, logger); err == nil {
		t.Error("Expected invalid spec to fail")
	}
	if _, err := StartDigestScheduler("0 9 * * *", "Mars/Olympus", func() {}, logger); err == nil {
		t.Error("Expected unknown timezone to fail")
	}
}
