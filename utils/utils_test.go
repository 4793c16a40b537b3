package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateNumericCode(6)
		if err != nil {
			t.Fatalf("GenerateNumericCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("Expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("Code %q is not numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("Code %d out of range", n)
		}
	}
}

func TestGenerateNumericCode_InvalidLength(t *testing.T) {
	if _, err := GenerateNumericCode(0); err == nil {
		t.Error("Expected error for zero length")
	}
}

func TestHealthMonitor_CheckNow(t *testing.T) {
	m := NewHealthMonitor(
		HealthCheck{Name: "mongo", Ping: func(context.Context) error { return nil }},
		HealthCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("down") }},
	)

	status := m.CheckNow(context.Background())
	if !status.Dependencies["mongo"] {
		t.Error("Expected mongo healthy")
	}
	if status.Dependencies["redis"] {
		t.Error("Expected redis unhealthy")
	}
	if m.Status().CheckedAt.IsZero() {
		t.Error("Expected snapshot to be stored")
	}
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zaptest.NewLogger(t)))
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"error"`) {
		t.Errorf("Expected error field in body, got %s", body)
	}
	if strings.Contains(body, "kaboom") || strings.Contains(body, "goroutine") {
		t.Errorf("Panic details leaked into response: %s", body)
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"first.last@uni.ac.in", true},
		{"no-at-sign.com", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
