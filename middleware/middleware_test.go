package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_CapAndRefill(t *testing.T) {
	l := NewRateLimiter(RateLimitRule{Name: "otp", Limit: 3, Window: 15 * time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("4th request should be limited")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other IPs have their own bucket")
	}

	now = now.Add(5 * time.Minute)
	if !l.Allow("10.0.0.1") {
		t.Error("one token should refill after window/limit")
	}

	now = now.Add(time.Hour)
	l.Allow("10.0.0.3")
	if _, ok := l.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor should have been swept")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	r := gin.New()
	limiter := NewRateLimiter(RateLimitRule{Name: "register", Limit: 1, Window: time.Hour, Message: "Registration limit exceeded."})
	r.Use(limiter.Middleware())
	r.POST("/manual-register", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/manual-register", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/manual-register", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := send(http.MethodPost); w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}
	if w := send(http.MethodOptions); w.Code != http.StatusNoContent {
		t.Errorf("preflight should bypass the limiter, got %d", w.Code)
	}
	w := send(http.MethodPost)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Registration limit exceeded.") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestForwardedFor(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		hops   int
		want   string
	}{
		{"no proxy ignores header", "192.0.2.9:5555", "198.51.100.1", 0, "192.0.2.9"},
		{"one hop takes proxy-appended entry", "10.0.0.2:443", "spoofed, 198.51.100.1", 1, "198.51.100.1"},
		{"one hop single entry", "10.0.0.2:443", " 198.51.100.1 ", 1, "198.51.100.1"},
		{"two hops", "10.0.0.2:443", "1.1.1.1, 198.51.100.1, 10.0.0.9", 2, "198.51.100.1"},
		{"short chain clamps to leftmost", "10.0.0.2:443", "198.51.100.1", 5, "198.51.100.1"},
		{"missing header uses peer", "192.0.2.10:80", "", 1, "192.0.2.10"},
		{"garbage entry uses peer", "192.0.2.10:80", "<script>", 1, "192.0.2.10"},
		{"peer without port", "192.0.2.11", "", 1, "192.0.2.11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := forwardedFor(tt.remote, tt.xff, tt.hops); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiter_RotatedForwardedForSharesBucket(t *testing.T) {
	r := gin.New()
	limiter := NewRateLimiter(RateLimitRule{Name: "register", Limit: 2, Window: time.Hour})
	r.Use(ResolveClientIP(1), limiter.Middleware())
	r.POST("/manual-register", func(c *gin.Context) { c.Status(http.StatusOK) })

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/manual-register", nil)
		req.RemoteAddr = "10.0.0.250:443"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d, 203.0.113.7", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			accepted++
		}
	}
	if accepted != 2 {
		t.Errorf("Expected 2 accepted requests, got %d", accepted)
	}
}

func TestClientIP_FallsBackToPeer(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.0.2.9:5555"
	c.Request.Header.Set("X-Forwarded-For", "198.51.100.1")
	if got := clientIP(c); got != "192.0.2.9" {
		t.Errorf("got %q, want peer address", got)
	}
}

func TestNormalizePath(t *testing.T) {
	var seen string
	h := NormalizePath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
	}), []string{"/.netlify/functions/api", "/api/"})

	tests := map[string]string{
		"/.netlify/functions/api/manual-register": "/manual-register",
		"/api/send-otp":   "/send-otp",
		"/api":            "/",
		"/apiary/health":  "/apiary/health",
		"/health":         "/health",
		"/api/api/health": "/api/health",
	}
	for in, want := range tests {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, in, nil))
		if seen != want {
			t.Errorf("%s: got %q, want %q", in, seen, want)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/contact", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"a":"b"}`)))
	if w.Code != http.StatusOK {
		t.Errorf("small body: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"message":"`+strings.Repeat("x", 64)+`"}`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body: expected 413, got %d", w.Code)
	}
}

func TestRequestLoggerAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zaptest.NewLogger(t)), SecurityHeaders(true))
	r.GET("/health", func(c *gin.Context) {
		if _, ok := c.Get(LoggerKey); !ok {
			t.Error("request logger missing from context")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" || w.Header().Get("Strict-Transport-Security") == "" {
		t.Errorf("missing security headers: %v", w.Header())
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected client request id echoed, got %q", got)
	}
}
