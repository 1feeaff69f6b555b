package graphql

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-waternet/pkg/network"
)

func loadNetwork(t *testing.T) *network.Network {
	t.Helper()
	n, errs, _, err := network.FromFile("../network/testdata/reservoirs.json")
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if errs != nil {
		t.Fatalf("FromFile() parser errors = %v", errs)
	}
	return n
}

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()
	schema, err := GenerateSchema(loadNetwork(t))
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}
	return schema
}

// run executes query and decodes the data into a generic JSON value
func run(t *testing.T, schema graphql.Schema, query string) map[string]any {
	t.Helper()
	result := ExecuteQuery(context.Background(), query, schema)
	if result.HasErrors() {
		t.Fatalf("query %q failed: %v", query, result.Errors)
	}
	raw, err := json.Marshal(result.Data)
	if err != nil {
		t.Fatalf("failed to encode result: %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	return data
}

func TestHealthAndMetadata(t *testing.T) {
	data := run(t, testSchema(t), `{ health metadata { title minimumVersion } }`)

	want := map[string]any{
		"health": "ok",
		"metadata": map[string]any{
			"title":          "Reservoir system",
			"minimumVersion": "1.17",
		},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestReport(t *testing.T) {
	data := run(t, testSchema(t), `{ report { name count } }`)

	want := []any{
		map[string]any{"name": "edges", "count": float64(4)},
		map[string]any{"name": "nodes", "count": float64(5)},
		map[string]any{"name": "parameters", "count": float64(4)},
		map[string]any{"name": "recorders", "count": float64(2)},
		map[string]any{"name": "scenarios", "count": float64(1)},
		map[string]any{"name": "tables", "count": float64(1)},
	}
	if diff := cmp.Diff(want, data["report"]); diff != "" {
		t.Errorf("unexpected report (-want +got):\n%s", diff)
	}
}

func TestNodesFilteredByType(t *testing.T) {
	data := run(t, testSchema(t), `{ nodes(type: "STORAGE") { name type } }`)

	want := []any{
		map[string]any{"name": "Reservoir1", "type": "storage"},
		map[string]any{"name": "Reservoir2", "type": "storage"},
	}
	if diff := cmp.Diff(want, data["nodes"]); diff != "" {
		t.Errorf("unexpected nodes (-want +got):\n%s", diff)
	}
}

func TestNodeNeighbours(t *testing.T) {
	data := run(t, testSchema(t), `{ node(name: "works") { upstream { name } downstream { name } } }`)

	want := map[string]any{
		"upstream":   []any{map[string]any{"name": "Reservoir2"}},
		"downstream": []any{map[string]any{"name": "demand"}},
	}
	if diff := cmp.Diff(want, data["node"]); diff != "" {
		t.Errorf("unexpected node (-want +got):\n%s", diff)
	}
}

func TestUnknownNodeIsNull(t *testing.T) {
	data := run(t, testSchema(t), `{ node(name: "missing") { name } }`)

	if data["node"] != nil {
		t.Errorf("expected null node, got %v", data["node"])
	}
}

func TestNodeAttributes(t *testing.T) {
	data := run(t, testSchema(t), `{ node(name: "works") { attributes { name kind component value } } }`)

	want := map[string]any{
		"attributes": []any{
			map[string]any{
				"name":      "cost",
				"kind":      "inline",
				"component": nil,
				"value":     `{"node":"works","type":"numpyarraynoderecorder"}`,
			},
			map[string]any{
				"name":      "max_flow",
				"kind":      "reference",
				"component": "flow_max",
				"value":     `"flow_max"`,
			},
		},
	}
	if diff := cmp.Diff(want, data["node"]); diff != "" {
		t.Errorf("unexpected attributes (-want +got):\n%s", diff)
	}
}

func TestAttachedAttributes(t *testing.T) {
	n := loadNetwork(t)
	if err := n.AttachParameters(); err != nil {
		t.Fatalf("AttachParameters() error = %v", err)
	}
	schema, err := GenerateSchema(n)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	data := run(t, schema, `{ node(name: "catchment") { attributes { name kind component } } }`)

	want := map[string]any{
		"attributes": []any{
			map[string]any{"name": "flow", "kind": "parameter", "component": "inflow"},
		},
	}
	if diff := cmp.Diff(want, data["node"]); diff != "" {
		t.Errorf("unexpected attributes (-want +got):\n%s", diff)
	}
}

func TestEdgesPagination(t *testing.T) {
	data := run(t, testSchema(t), `{ edges(limit: 2, offset: 1) { from to slots } }`)

	want := []any{
		map[string]any{"from": "Reservoir1", "to": "Reservoir2", "slots": nil},
		map[string]any{"from": "Reservoir2", "to": "works", "slots": nil},
	}
	if diff := cmp.Diff(want, data["edges"]); diff != "" {
		t.Errorf("unexpected edges (-want +got):\n%s", diff)
	}
}

func TestComponents(t *testing.T) {
	data := run(t, testSchema(t), `{
		parameter(name: "inflow") { name kind type definition }
		recorders { name }
		tables { name type }
		scenarios { name size }
	}`)

	want := map[string]any{
		"parameter": map[string]any{
			"name":       "inflow",
			"kind":       "parameter",
			"type":       "constant",
			"definition": `{"type":"constant","value":25}`,
		},
		"recorders": []any{
			map[string]any{"name": "__works__:flow"},
			map[string]any{"name": "demand_deficit"},
		},
		"tables": []any{
			map[string]any{"name": "inflows", "type": nil},
		},
		"scenarios": []any{
			map[string]any{"name": "climate", "size": float64(4)},
		},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("unexpected components (-want +got):\n%s", diff)
	}
}

func TestDuplicateEdgesQuery(t *testing.T) {
	doc := []byte(`{
		"metadata": {"title": "dup"},
		"timestepper": {"start": "2015-01-01", "end": "2015-01-31", "timestep": 1},
		"nodes": [{"name": "a", "type": "input"}, {"name": "b", "type": "output"}],
		"edges": [["a", "b"], ["a", "b"]]
	}`)
	n, errs, _, err := network.FromJSON(doc)
	if err != nil || errs != nil {
		t.Fatalf("FromJSON() errs = %v, err = %v", errs, err)
	}
	schema, err := GenerateSchema(n)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	data := run(t, schema, `{ duplicateEdges { edge { from to } count } }`)

	want := []any{
		map[string]any{
			"edge":  map[string]any{"from": "a", "to": "b"},
			"count": float64(2),
		},
	}
	if diff := cmp.Diff(want, data["duplicateEdges"]); diff != "" {
		t.Errorf("unexpected duplicates (-want +got):\n%s", diff)
	}
}

func TestGenerateSchemaWithInvalidLimits(t *testing.T) {
	_, err := GenerateSchemaWithLimits(loadNetwork(t), &LimitConfig{DefaultLimit: 10, MaxLimit: 5})
	if err == nil {
		t.Fatal("expected invalid limit config to be rejected")
	}
}

func TestNodesDefaultLimit(t *testing.T) {
	schema, err := GenerateSchemaWithLimits(loadNetwork(t), &LimitConfig{DefaultLimit: 2, MaxLimit: 3})
	if err != nil {
		t.Fatalf("GenerateSchemaWithLimits() error = %v", err)
	}

	data := run(t, schema, `{ defaulted: nodes { name } capped: nodes(limit: 50) { name } }`)

	if got := len(data["defaulted"].([]any)); got != 2 {
		t.Errorf("expected default limit of 2, got %d nodes", got)
	}
	if got := len(data["capped"].([]any)); got != 3 {
		t.Errorf("expected max limit of 3, got %d nodes", got)
	}
}
