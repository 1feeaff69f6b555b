package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-waternet/pkg/model"
)

// Direction specifies edge direction for edge count constraints
type Direction int

const (
	Outgoing Direction = iota // Edges from this node
	Incoming                  // Edges to this node
	Any                       // Edges in either direction
)

func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "Outgoing"
	case Incoming:
		return "Incoming"
	case Any:
		return "Any"
	default:
		return "Unknown"
	}
}

// ParseDirection parses "outgoing", "incoming" or "any"
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "outgoing", "out":
		return Outgoing, nil
	case "incoming", "in":
		return Incoming, nil
	case "any", "":
		return Any, nil
	default:
		return Any, fmt.Errorf("unknown edge direction %q", s)
	}
}

// edgeCounts tallies incoming and outgoing edges per node name
func edgeCounts(edges []model.Edge) (out, in map[string]int) {
	out = make(map[string]int)
	in = make(map[string]int)
	for _, e := range edges {
		out[e.From]++
		in[e.To]++
	}
	return out, in
}

// EdgeCountConstraint validates the number of edges of nodes of one type
type EdgeCountConstraint struct {
	NodeType  string    // Node type to apply constraint to (empty = every node)
	Direction Direction // Direction of edges to count
	Min       int       // Minimum number of edges (0 = optional)
	Max       int       // Maximum number of edges (0 = unlimited)
}

func (cc *EdgeCountConstraint) Name() string {
	nodeType := cc.NodeType
	if nodeType == "" {
		nodeType = "*"
	}
	return fmt.Sprintf("EdgeCount(%s,%s,[%d,%d])", nodeType, cc.Direction, cc.Min, cc.Max)
}

// Validate checks the edge count of every node of the target type
func (cc *EdgeCountConstraint) Validate(network NetworkReader) ([]Violation, error) {
	violations := make([]Violation, 0)
	out, in := edgeCounts(network.Edges())

	for _, node := range network.Nodes().All() {
		if !matchesType(node, cc.NodeType) {
			continue
		}

		count := 0
		if cc.Direction == Outgoing || cc.Direction == Any {
			count += out[node.Name]
		}
		if cc.Direction == Incoming || cc.Direction == Any {
			count += in[node.Name]
		}

		var bound string
		var limit int
		switch {
		case cc.Min > 0 && count < cc.Min:
			bound, limit = "minimum", cc.Min
		case cc.Max > 0 && count > cc.Max:
			bound, limit = "maximum", cc.Max
		default:
			continue
		}

		violations = append(violations, Violation{
			Type:       EdgeCountViolation,
			Severity:   Error,
			Subject:    node.Name,
			Constraint: cc.Name(),
			Message: fmt.Sprintf("Node <%s> has %d %s edge(s), %s is %d",
				node.Name, count, cc.Direction, bound, limit),
			Details: map[string]any{
				"node_type": node.Type,
				"direction": cc.Direction.String(),
				"count":     count,
				bound:       limit,
			},
		})
	}

	return violations, nil
}

// UnconnectedNodeConstraint reports nodes that appear in no edge
type UnconnectedNodeConstraint struct{}

func (c *UnconnectedNodeConstraint) Name() string {
	return "UnconnectedNode"
}

func (c *UnconnectedNodeConstraint) Validate(network NetworkReader) ([]Violation, error) {
	violations := make([]Violation, 0)
	out, in := edgeCounts(network.Edges())

	for _, node := range network.Nodes().All() {
		if out[node.Name]+in[node.Name] > 0 {
			continue
		}
		violations = append(violations, Violation{
			Type:       UnconnectedNode,
			Severity:   Warning,
			Subject:    node.Name,
			Constraint: c.Name(),
			Message:    fmt.Sprintf("Node <%s> is not connected to any edge", node.Name),
			Details: map[string]any{
				"node_type": node.Type,
			},
		})
	}

	return violations, nil
}

// matchesType compares node types case-insensitively. An empty want matches every node.
func matchesType(node *model.Node, want string) bool {
	return want == "" || model.NormalizedType(node.Type) == model.NormalizedType(want)
}
