package health

import (
	"encoding/json"
	"net/http"
)

// HTTPHandler serves the health checks. Degraded still answers 200.
func (hc *HealthChecker) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := hc.Check()
		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeResponse(w, status, response)
	}
}

// ReadinessHandler serves the readiness checks. Anything but healthy is 503.
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := hc.CheckReadiness()
		status := http.StatusOK
		if response.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		writeResponse(w, status, response)
	}
}

func writeResponse(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
