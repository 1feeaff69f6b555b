package constraints

import (
	"github.com/dd0wney/cluso-waternet/pkg/model"
)

// NetworkReader defines the read-only view of a network needed for
// constraint validation.
type NetworkReader interface {
	Nodes() *model.NodeStore
	Edges() []model.Edge
	Parameters() *model.ComponentSet[*model.Parameter]
	Recorders() *model.ComponentSet[*model.Recorder]
}

// Severity indicates the importance of a violation
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// ViolationType categorizes the type of constraint violation
type ViolationType int

const (
	UnconnectedNode ViolationType = iota
	EdgeCountViolation
	MissingAttribute
	InvalidAttribute
	OutOfRange
	DuplicateEdge
	UnusedComponent
	DanglingReference
)

func (vt ViolationType) String() string {
	switch vt {
	case UnconnectedNode:
		return "UnconnectedNode"
	case EdgeCountViolation:
		return "EdgeCountViolation"
	case MissingAttribute:
		return "MissingAttribute"
	case InvalidAttribute:
		return "InvalidAttribute"
	case OutOfRange:
		return "OutOfRange"
	case DuplicateEdge:
		return "DuplicateEdge"
	case UnusedComponent:
		return "UnusedComponent"
	case DanglingReference:
		return "DanglingReference"
	default:
		return "Unknown"
	}
}

// Violation represents a constraint violation. Subject names the node,
// edge or component at fault.
type Violation struct {
	Type       ViolationType
	Severity   Severity
	Subject    string
	Constraint string
	Message    string
	Details    map[string]any
}

// Constraint is the interface that all constraint types must implement.
type Constraint interface {
	// Validate checks the constraint against the network
	// Returns a list of violations (empty if valid)
	Validate(network NetworkReader) ([]Violation, error)

	// Name returns a human-readable name for the constraint
	Name() string
}
