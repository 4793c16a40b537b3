package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitRule caps one route group: Limit requests per Window per client IP.
type RateLimitRule struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds a map of client IPs to their token buckets for one rule.
type RateLimiter struct {
	rule      RateLimitRule
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(rule RateLimitRule) *RateLimiter {
	if rule.Limit <= 0 {
		rule.Limit = 1
	}
	if rule.Window <= 0 {
		rule.Window = time.Minute
	}
	if rule.Message == "" {
		rule.Message = "Too many requests, please try again later."
	}
	return &RateLimiter{
		rule:     rule,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow consumes one token for ip.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, exists := l.visitors[ip]
	if !exists {
		// A full bucket of Limit tokens, refilled evenly across the window.
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.rule.Window/time.Duration(l.rule.Limit)), l.rule.Limit)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep drops visitors idle for a full window; their buckets are full again.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.rule.Window {
		return
	}
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.rule.Window {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// Middleware rejects requests over the cap with 429. Preflight requests are
// never counted.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		ip := clientIP(c)
		if !l.Allow(ip) {
			getLogger(c).Warn("Rate limit exceeded", zap.String("group", l.rule.Name), zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": l.rule.Message})
			return
		}
		c.Next()
	}
}
