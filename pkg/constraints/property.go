package constraints

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/cluso-waternet/pkg/model"
)

// AttributeConstraint validates one attribute of nodes of a type
type AttributeConstraint struct {
	NodeType  string   // Node type to apply constraint to
	Attribute string   // Name of the attribute
	Required  bool     // Whether the attribute must exist
	Numeric   bool     // Whether a literal value must be a number
	Min       *float64 // Minimum literal value
	Max       *float64 // Maximum literal value
}

func (ac *AttributeConstraint) Name() string {
	return fmt.Sprintf("Attribute(%s.%s)", ac.NodeType, ac.Attribute)
}

// Validate checks the attribute on every node of the target type. Values
// that are references or component definitions are not range checked.
func (ac *AttributeConstraint) Validate(network NetworkReader) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, node := range network.Nodes().All() {
		if !matchesType(node, ac.NodeType) {
			continue
		}

		value, exists := node.Attr(ac.Attribute)
		if !exists {
			if ac.Required {
				violations = append(violations, ac.violation(node, MissingAttribute,
					fmt.Sprintf("Node <%s> missing required attribute '%s'", node.Name, ac.Attribute), nil))
			}
			continue
		}

		literal, ok := value.AsLiteral()
		if !ok {
			continue
		}
		number, isNumber := toFloat(literal)
		if !isNumber {
			if ac.Numeric {
				violations = append(violations, ac.violation(node, InvalidAttribute,
					fmt.Sprintf("Node <%s> attribute '%s' is not a number", node.Name, ac.Attribute),
					map[string]any{"value": literal}))
			}
			continue
		}

		if ac.Min != nil && number < *ac.Min {
			violations = append(violations, ac.violation(node, OutOfRange,
				fmt.Sprintf("Node <%s> attribute '%s' value %g is below minimum %g", node.Name, ac.Attribute, number, *ac.Min),
				map[string]any{"value": number, "min": *ac.Min}))
		}
		if ac.Max != nil && number > *ac.Max {
			violations = append(violations, ac.violation(node, OutOfRange,
				fmt.Sprintf("Node <%s> attribute '%s' value %g is above maximum %g", node.Name, ac.Attribute, number, *ac.Max),
				map[string]any{"value": number, "max": *ac.Max}))
		}
	}

	return violations, nil
}

func (ac *AttributeConstraint) violation(node *model.Node, vt ViolationType, msg string, details map[string]any) Violation {
	if details == nil {
		details = make(map[string]any)
	}
	details["node_type"] = node.Type
	details["attribute"] = ac.Attribute
	return Violation{
		Type:       vt,
		Severity:   Error,
		Subject:    node.Name,
		Constraint: ac.Name(),
		Message:    msg,
		Details:    details,
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
