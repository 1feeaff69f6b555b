package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load results
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultIOError = "io_error"
)

// RecordLoad records a finished document load
func (r *Registry) RecordLoad(source, result string, size int, duration time.Duration) {
	r.DocumentsLoadedTotal.WithLabelValues(source, result).Inc()
	r.LoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if size > 0 {
		r.DocumentSizeBytes.Observe(float64(size))
	}
}

// RecordParseIssues records parser error and warning counts by category
func (r *Registry) RecordParseIssues(errorsByCategory, warningsByCategory map[string]int) {
	for category, n := range errorsByCategory {
		r.ParseErrorsTotal.WithLabelValues(category).Add(float64(n))
	}
	for category, n := range warningsByCategory {
		r.ParseWarningsTotal.WithLabelValues(category).Add(float64(n))
	}
}

// RecordResolverOperation records an attach or detach run
func (r *Registry) RecordResolverOperation(operation string, moved int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.ResolverOperationsTotal.WithLabelValues(operation, status).Inc()
	r.ComponentsMovedTotal.WithLabelValues(operation).Add(float64(moved))
}

// RecordReferencesAdded records back-references created for a component kind
func (r *Registry) RecordReferencesAdded(kind string, n int) {
	r.ReferencesAddedTotal.WithLabelValues(kind).Add(float64(n))
}

// SetNetworkSize updates the size gauges from a network report
func (r *Registry) SetNetworkSize(nodes, edges int, components map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.NetworkNodes.Set(float64(nodes))
	r.NetworkEdges.Set(float64(edges))
	r.NetworkComponents.Reset()
	for kind, n := range components {
		r.NetworkComponents.WithLabelValues(kind).Set(float64(n))
	}
}

// WriteTextfile writes all metrics in the Prometheus text format to path
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
