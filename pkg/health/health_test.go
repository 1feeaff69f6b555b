package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dd0wney/cluso-waternet/pkg/constraints"
)

func TestNetworkCheck(t *testing.T) {
	check := NetworkCheck(func() (int, int) { return 5, 4 })()
	if check.Status != StatusHealthy {
		t.Errorf("Expected healthy, got %s", check.Status)
	}
	if check.Details["nodes"] != 5 {
		t.Errorf("Expected 5 nodes in details, got %v", check.Details["nodes"])
	}

	check = NetworkCheck(func() (int, int) { return 0, 0 })()
	if check.Status != StatusUnhealthy {
		t.Errorf("Expected empty network to be unhealthy, got %s", check.Status)
	}
}

func TestConstraintCheck(t *testing.T) {
	tests := []struct {
		name   string
		result *constraints.ValidationResult
		err    error
		want   Status
	}{
		{"valid", &constraints.ValidationResult{Valid: true}, nil, StatusHealthy},
		{"warnings", &constraints.ValidationResult{
			Violations: []constraints.Violation{{Severity: constraints.Warning}},
		}, nil, StatusDegraded},
		{"errors", &constraints.ValidationResult{
			Violations: []constraints.Violation{{Severity: constraints.Warning}, {Severity: constraints.Error}},
		}, nil, StatusUnhealthy},
		{"failure", nil, errors.New("boom"), StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := ConstraintCheck(func() (*constraints.ValidationResult, error) {
				return tt.result, tt.err
			})()
			if check.Status != tt.want {
				t.Errorf("Expected %s, got %s (%s)", tt.want, check.Status, check.Message)
			}
		})
	}
}

func TestMemoryCheck(t *testing.T) {
	if got := MemoryCheck(func() (uint64, uint64) { return 10, 100 })().Status; got != StatusHealthy {
		t.Errorf("Expected healthy, got %s", got)
	}
	if got := MemoryCheck(func() (uint64, uint64) { return 95, 100 })().Status; got != StatusDegraded {
		t.Errorf("Expected degraded, got %s", got)
	}
	if got := MemoryCheck(func() (uint64, uint64) { return 0, 0 })().Status; got != StatusHealthy {
		t.Errorf("Expected healthy with no stats, got %s", got)
	}
}

func staticCheck(status Status) CheckFunc {
	return func() Check { return Check{Status: status} }
}

func TestWorstStatusWins(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("a", staticCheck(StatusHealthy))
	hc.RegisterCheck("b", staticCheck(StatusDegraded))

	response := hc.Check()
	if response.Status != StatusDegraded {
		t.Errorf("Expected degraded, got %s", response.Status)
	}
	if response.Checks["b"].Name != "b" {
		t.Errorf("Expected unnamed check to take its registered name, got %q", response.Checks["b"].Name)
	}

	hc.RegisterCheck("c", staticCheck(StatusUnhealthy))
	if got := hc.Check().Status; got != StatusUnhealthy {
		t.Errorf("Expected unhealthy, got %s", got)
	}
}

func TestHandlers(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("constraints", staticCheck(StatusDegraded))
	hc.RegisterReadinessCheck("constraints", staticCheck(StatusDegraded))

	w := httptest.NewRecorder()
	hc.HTTPHandler()(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected degraded health to answer 200, got %d", w.Code)
	}
	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != StatusDegraded {
		t.Errorf("Expected degraded status, got %s", response.Status)
	}

	w = httptest.NewRecorder()
	hc.ReadinessHandler()(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected degraded readiness to answer 503, got %d", w.Code)
	}
}
