package constraints

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-waternet/pkg/model"
	"github.com/dd0wney/cluso-waternet/pkg/refkey"
)

// UnusedComponentConstraint reports global parameters that nothing uses.
// A parameter is used when a node attribute names it, when it appears in
// another component's definition outside the type and node fields, or when
// it is a reference key for an existing node. Recorders are checked too when IncludeRecorders
// is set.
type UnusedComponentConstraint struct {
	IncludeRecorders bool
}

func (c *UnusedComponentConstraint) Name() string {
	return "UnusedComponent"
}

func (c *UnusedComponentConstraint) Validate(network NetworkReader) ([]Violation, error) {
	violations := make([]Violation, 0)
	used := usedNames(network)

	check := func(kind, name string) {
		if used[name] {
			return
		}
		if node, _, err := refkey.Parse(name); err == nil && network.Nodes().Has(node) {
			return
		}
		violations = append(violations, Violation{
			Type:       UnusedComponent,
			Severity:   Warning,
			Subject:    name,
			Constraint: c.Name(),
			Message:    fmt.Sprintf("%s <%s> is not used", kind, name),
			Details: map[string]any{
				"kind": kind,
			},
		})
	}

	for _, name := range network.Parameters().Names() {
		check("parameter", name)
	}
	if c.IncludeRecorders {
		for _, name := range network.Recorders().Names() {
			check("recorder", name)
		}
	}

	return violations, nil
}

// nonReferenceKeys hold values that never name a parameter or recorder:
// the component type and the nodes a component observes.
var nonReferenceKeys = map[string]bool{
	model.AttrType: true,
	"node":         true,
	"nodes":        true,
	"storage_node": true,
}

// usedNames collects the names referenced by node attributes and component
// definitions. A component's own name is not counted as a use.
func usedNames(network NetworkReader) map[string]bool {
	used := make(map[string]bool)
	for _, node := range network.Nodes().All() {
		for _, attr := range node.AttrNames() {
			v, _ := node.Attr(attr)
			switch v.Kind {
			case model.KindReference:
				name, _ := v.AsReference()
				used[name] = true
			case model.KindLiteral, model.KindInline:
				collectReferences(v.Raw(), used)
			case model.KindParameter:
				p, _ := v.AsParameter()
				collectReferences(p.Data, used)
			case model.KindRecorder:
				r, _ := v.AsRecorder()
				collectReferences(r.Data, used)
			}
		}
	}
	for _, p := range network.Parameters().Values() {
		collectReferences(p.Data, used)
	}
	for _, r := range network.Recorders().Values() {
		collectReferences(r.Data, used)
	}
	return used
}

func collectReferences(v any, into map[string]bool) {
	switch t := v.(type) {
	case string:
		into[t] = true
	case map[string]any:
		for key, item := range t {
			if nonReferenceKeys[strings.ToLower(key)] {
				continue
			}
			collectReferences(item, into)
		}
	case []any:
		for _, item := range t {
			collectReferences(item, into)
		}
	}
}

// DanglingReferenceConstraint reports node attributes holding a reference
// key that names no registered parameter or recorder
type DanglingReferenceConstraint struct{}

func (c *DanglingReferenceConstraint) Name() string {
	return "DanglingReference"
}

func (c *DanglingReferenceConstraint) Validate(network NetworkReader) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, node := range network.Nodes().All() {
		for _, attr := range node.AttrNames() {
			v, _ := node.Attr(attr)
			key, ok := v.AsReference()
			if !ok || !refkey.IsReferenceKey(key) {
				continue
			}
			if network.Parameters().Has(key) || network.Recorders().Has(key) {
				continue
			}
			violations = append(violations, Violation{
				Type:       DanglingReference,
				Severity:   Warning,
				Subject:    node.Name,
				Constraint: c.Name(),
				Message:    fmt.Sprintf("Node <%s> attribute '%s' references unknown component <%s>", node.Name, attr, key),
				Details: map[string]any{
					"attribute": attr,
					"reference": key,
				},
			})
		}
	}

	return violations, nil
}
