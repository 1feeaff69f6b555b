package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initResolverMetrics() {
	r.ResolverOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "waternet_resolver_operations_total",
			Help: "Total number of attach and detach operations, by status",
		},
		[]string{"operation", "status"},
	)

	r.ComponentsMovedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "waternet_resolver_components_moved_total",
			Help: "Components moved between node attributes and registries",
		},
		[]string{"operation"},
	)

	r.ReferencesAddedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "waternet_resolver_references_added_total",
			Help: "Node attributes created from reference-key component names",
		},
		[]string{"kind"},
	)
}

func (r *Registry) initNetworkMetrics() {
	r.NetworkNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "waternet_network_nodes",
			Help: "Number of nodes in the last loaded network",
		},
	)

	r.NetworkEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "waternet_network_edges",
			Help: "Number of edges in the last loaded network",
		},
	)

	r.NetworkComponents = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waternet_network_components",
			Help: "Number of registry components in the last loaded network, by kind",
		},
		[]string{"kind"},
	)
}
