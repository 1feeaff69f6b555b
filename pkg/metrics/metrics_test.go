package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.DocumentsLoadedTotal == nil {
		t.Error("DocumentsLoadedTotal not initialized")
	}
	if r.ResolverOperationsTotal == nil {
		t.Error("ResolverOperationsTotal not initialized")
	}
	if r.NetworkComponents == nil {
		t.Error("NetworkComponents not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestRecordLoad(t *testing.T) {
	r := NewRegistry()

	r.RecordLoad("file", ResultOK, 2048, 10*time.Millisecond)
	r.RecordLoad("file", ResultOK, 4096, 20*time.Millisecond)
	r.RecordLoad("file", ResultInvalid, 100, 5*time.Millisecond)

	if got := counterValue(t, r.DocumentsLoadedTotal.WithLabelValues("file", ResultOK)); got != 2 {
		t.Errorf("ok loads = %v, want 2", got)
	}
	if got := counterValue(t, r.DocumentsLoadedTotal.WithLabelValues("file", ResultInvalid)); got != 1 {
		t.Errorf("invalid loads = %v, want 1", got)
	}
}

func TestRecordParseIssues(t *testing.T) {
	r := NewRegistry()

	r.RecordParseIssues(map[string]int{"nodes": 2, "edges": 1}, map[string]int{"parameters": 3})
	r.RecordParseIssues(map[string]int{"nodes": 1}, nil)

	if got := counterValue(t, r.ParseErrorsTotal.WithLabelValues("nodes")); got != 3 {
		t.Errorf("node errors = %v, want 3", got)
	}
	if got := counterValue(t, r.ParseWarningsTotal.WithLabelValues("parameters")); got != 3 {
		t.Errorf("parameter warnings = %v, want 3", got)
	}
}

func TestRecordResolverOperation(t *testing.T) {
	r := NewRegistry()

	r.RecordResolverOperation("attach_parameters", 4, nil)
	r.RecordResolverOperation("attach_parameters", 1, errors.New("duplicate"))

	if got := counterValue(t, r.ResolverOperationsTotal.WithLabelValues("attach_parameters", "success")); got != 1 {
		t.Errorf("success = %v, want 1", got)
	}
	if got := counterValue(t, r.ResolverOperationsTotal.WithLabelValues("attach_parameters", "error")); got != 1 {
		t.Errorf("error = %v, want 1", got)
	}
	if got := counterValue(t, r.ComponentsMovedTotal.WithLabelValues("attach_parameters")); got != 5 {
		t.Errorf("moved = %v, want 5", got)
	}
}

func TestRecordReferencesAdded(t *testing.T) {
	r := NewRegistry()
	r.RecordReferencesAdded("parameter", 2)

	if got := counterValue(t, r.ReferencesAddedTotal.WithLabelValues("parameter")); got != 2 {
		t.Errorf("references = %v, want 2", got)
	}
}

func TestSetNetworkSize(t *testing.T) {
	r := NewRegistry()

	r.SetNetworkSize(10, 9, map[string]int{"parameters": 3, "recorders": 1})
	r.SetNetworkSize(4, 3, map[string]int{"parameters": 2})

	if got := gaugeValue(t, r.NetworkNodes); got != 4 {
		t.Errorf("nodes = %v, want 4", got)
	}
	if got := gaugeValue(t, r.NetworkEdges); got != 3 {
		t.Errorf("edges = %v, want 3", got)
	}
	if got := gaugeValue(t, r.NetworkComponents.WithLabelValues("parameters")); got != 2 {
		t.Errorf("parameters = %v, want 2", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordLoad("json", ResultOK, 10, time.Millisecond)

	path := filepath.Join(t.TempDir(), "waternet.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "waternet_documents_loaded_total") {
		t.Error("expected loaded counter in textfile output")
	}
}
