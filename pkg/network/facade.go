package network

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-waternet/pkg/constraints"
	"github.com/dd0wney/cluso-waternet/pkg/model"
)

// Document section keys
const (
	keyMetadata    = "metadata"
	keyTimestepper = "timestepper"
	keyNodes       = "nodes"
	keyEdges       = "edges"
	keyParameters  = "parameters"
	keyRecorders   = "recorders"
	keyTables      = "tables"
	keyScenarios   = "scenarios"
)

// Report keys always present
const (
	ReportNodes = keyNodes
	ReportEdges = keyEdges
)

// Report counts the members of each collection. Nodes and edges are always
// present; other collections only when non-empty.
type Report map[string]int

// Components returns the report without the node and edge counts
func (r Report) Components() map[string]int {
	out := make(map[string]int, len(r))
	for k, v := range r {
		if k != ReportNodes && k != ReportEdges {
			out[k] = v
		}
	}
	return out
}

// AsDict returns the document form of the network. Metadata, timestepper,
// nodes and edges are always present; parameters, recorders, scenarios and
// tables only when non-empty.
func (n *Network) AsDict() map[string]any {
	nodes := make([]any, 0, n.nodes.Len())
	for _, node := range n.nodes.All() {
		nodes = append(nodes, node.AsDict())
	}
	edges := make([]any, 0, len(n.edges))
	for _, e := range n.edges {
		edges = append(edges, e.AsDict())
	}

	doc := map[string]any{
		keyMetadata:    n.metadata.AsDict(),
		keyTimestepper: n.timestepper.AsDict(),
		keyNodes:       nodes,
		keyEdges:       edges,
	}
	if n.parameters.Len() > 0 {
		doc[keyParameters] = n.parameters.AsDict()
	}
	if n.recorders.Len() > 0 {
		doc[keyRecorders] = n.recorders.AsDict()
	}
	if n.tables.Len() > 0 {
		doc[keyTables] = n.tables.AsDict()
	}
	if len(n.scenarios) > 0 {
		scenarios := make([]any, 0, len(n.scenarios))
		for _, s := range n.scenarios {
			scenarios = append(scenarios, s.AsDict())
		}
		doc[keyScenarios] = scenarios
	}
	return doc
}

// AsJSON returns AsDict as indented JSON
func (n *Network) AsJSON() ([]byte, error) {
	data, err := json.MarshalIndent(n.AsDict(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode network: %w", err)
	}
	return data, nil
}

// AsYAML returns AsDict as YAML
func (n *Network) AsYAML() ([]byte, error) {
	data, err := yaml.Marshal(plainValue(n.AsDict()))
	if err != nil {
		return nil, fmt.Errorf("failed to encode network: %w", err)
	}
	return data, nil
}

// plainValue converts json.Number leaves to int64 or float64 so they encode
// as YAML numbers instead of strings.
func plainValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plainValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

// Report summarizes the network
func (n *Network) Report() Report {
	r := Report{
		ReportNodes: n.nodes.Len(),
		ReportEdges: len(n.edges),
	}
	if c := n.parameters.Len(); c > 0 {
		r[keyParameters] = c
	}
	if c := n.recorders.Len(); c > 0 {
		r[keyRecorders] = c
	}
	if c := n.tables.Len(); c > 0 {
		r[keyTables] = c
	}
	if c := len(n.scenarios); c > 0 {
		r[keyScenarios] = c
	}
	return r
}

// DuplicateEdges returns the edges occurring more than once with their
// counts, in order of first occurrence
func (n *Network) DuplicateEdges() []model.DuplicateEdge {
	return model.FindDuplicateEdges(n.edges)
}

// Validate runs the default network-level constraints followed by extra
func (n *Network) Validate(extra ...constraints.Constraint) (*constraints.ValidationResult, error) {
	v := constraints.NewValidator()
	v.AddConstraints(constraints.DefaultConstraints(n.opts.allowDuplicateEdges))
	v.AddConstraints(extra)
	return v.Validate(n)
}
