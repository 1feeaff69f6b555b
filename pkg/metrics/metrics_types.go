package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for document loading and reference resolution
type Registry struct {
	// Parser Metrics
	DocumentsLoadedTotal *prometheus.CounterVec
	ParseErrorsTotal     *prometheus.CounterVec
	ParseWarningsTotal   *prometheus.CounterVec
	LoadDuration         *prometheus.HistogramVec
	DocumentSizeBytes    prometheus.Histogram

	// Resolver Metrics
	ResolverOperationsTotal *prometheus.CounterVec
	ComponentsMovedTotal    *prometheus.CounterVec
	ReferencesAddedTotal    *prometheus.CounterVec

	// Network Metrics (last loaded network)
	NetworkNodes      prometheus.Gauge
	NetworkEdges      prometheus.Gauge
	NetworkComponents *prometheus.GaugeVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initParserMetrics()
	r.initResolverMetrics()
	r.initNetworkMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
