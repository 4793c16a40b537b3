package utils

import (
	"context"
	"sync"
	"time"
)

// HealthCheck pings one external dependency.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Dependencies map[string]bool `json:"dependencies"`
	CheckedAt    time.Time       `json:"checkedAt"`
}

// HealthMonitor keeps the latest dependency snapshot in memory.
type HealthMonitor struct {
	checks  []HealthCheck
	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(checks ...HealthCheck) *HealthMonitor {
	return &HealthMonitor{checks: checks}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CheckNow pings every dependency once and stores the result.
func (m *HealthMonitor) CheckNow(ctx context.Context) HealthStatus {
	deps := make(map[string]bool, len(m.checks))
	for _, check := range m.checks {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		deps[check.Name] = check.Ping(pingCtx) == nil
		cancel()
	}

	status := HealthStatus{Dependencies: deps, CheckedAt: time.Now()}
	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start performs periodic health checks until ctx is cancelled.
func (m *HealthMonitor) Start(ctx context.Context, interval time.Duration) {
	go func() {
		m.CheckNow(ctx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CheckNow(ctx)
			}
		}
	}()
}
