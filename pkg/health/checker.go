// Package health reports whether a served network is usable.
package health

import (
	"slices"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// rank orders statuses from best to worst
func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Check is the outcome of one named check
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"duration_ms"`
}

// CheckFunc performs a check
type CheckFunc func() Check

// Response aggregates the checks of one endpoint. Status is the worst
// status of any check.
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime_seconds"`
}

// HealthChecker holds the health and readiness checks of a server
type HealthChecker struct {
	mu      sync.RWMutex
	health  map[string]CheckFunc
	ready   map[string]CheckFunc
	started time.Time
}

// NewHealthChecker creates a checker with no checks registered
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		health:  make(map[string]CheckFunc),
		ready:   make(map[string]CheckFunc),
		started: time.Now(),
	}
}

// RegisterCheck adds or replaces a health check
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.health[name] = check
}

// RegisterReadinessCheck adds or replaces a readiness check
func (hc *HealthChecker) RegisterReadinessCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.ready[name] = check
}

// Check runs the health checks
func (hc *HealthChecker) Check() Response {
	return hc.run(func() map[string]CheckFunc { return hc.health })
}

// CheckReadiness runs the readiness checks
func (hc *HealthChecker) CheckReadiness() Response {
	return hc.run(func() map[string]CheckFunc { return hc.ready })
}

// run evaluates a check set in name order. Checks run outside the lock.
func (hc *HealthChecker) run(set func() map[string]CheckFunc) Response {
	hc.mu.RLock()
	checks := set()
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	fns := make([]CheckFunc, 0, len(names))
	slices.Sort(names)
	for _, name := range names {
		fns = append(fns, checks[name])
	}
	hc.mu.RUnlock()

	now := time.Now()
	response := Response{
		Status:    StatusHealthy,
		Timestamp: now,
		Checks:    make(map[string]Check, len(names)),
		Uptime:    now.Sub(hc.started),
	}
	for i, name := range names {
		start := time.Now()
		check := fns[i]()
		check.Duration = time.Since(start)
		check.LastChecked = start
		if check.Name == "" {
			check.Name = name
		}
		response.Checks[name] = check

		if check.Status.rank() > response.Status.rank() {
			response.Status = check.Status
		}
	}
	return response
}
