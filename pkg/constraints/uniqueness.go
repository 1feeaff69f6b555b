package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-waternet/pkg/model"
)

// DuplicateEdgeConstraint reports edge tuples occurring more than once.
// Duplicates are warnings when Allow is set and errors otherwise.
type DuplicateEdgeConstraint struct {
	Allow bool
}

func (c *DuplicateEdgeConstraint) Name() string {
	if c.Allow {
		return "DuplicateEdge(allowed)"
	}
	return "DuplicateEdge"
}

func (c *DuplicateEdgeConstraint) Validate(network NetworkReader) ([]Violation, error) {
	severity := Error
	if c.Allow {
		severity = Warning
	}

	duplicates := model.FindDuplicateEdges(network.Edges())
	violations := make([]Violation, 0, len(duplicates))
	for _, d := range duplicates {
		violations = append(violations, Violation{
			Type:       DuplicateEdge,
			Severity:   severity,
			Subject:    d.Edge.String(),
			Constraint: c.Name(),
			Message:    fmt.Sprintf("Edge %s occurs %d times", d.Edge, d.Count),
			Details: map[string]any{
				"from":  d.Edge.From,
				"to":    d.Edge.To,
				"count": d.Count,
			},
		})
	}

	return violations, nil
}
