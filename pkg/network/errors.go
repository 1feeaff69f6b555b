package network

import (
	"errors"
	"fmt"
)

// ErrDuplicateComponent signals that moving a component between a node
// attribute and its global registry would overwrite a different component
// of the same name. It is fatal; the network must be discarded.
var ErrDuplicateComponent = errors.New("duplicate component name")

// Resolver operations
const (
	OpAttach = "attach"
	OpDetach = "detach"
)

// Component kinds
const (
	KindParameter = "parameter"
	KindRecorder  = "recorder"
)

// ResolveError provides structured information about a failed resolver operation.
type ResolveError struct {
	Op    string // attach or detach
	Kind  string // parameter or recorder
	Name  string // component name
	Node  string // node holding the attribute
	Attr  string // attribute name
	Cause error
}

func (e *ResolveError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s %s %s (node %s, attribute %s): %v", e.Op, e.Kind, e.Name, e.Node, e.Attr, e.Cause)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Kind, e.Name, e.Cause)
}

func (e *ResolveError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches the cause
func (e *ResolveError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder builds ResolveErrors fluently
type ErrorBuilder struct {
	err ResolveError
}

// NewError starts a ResolveError for op
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: ResolveError{Op: op}}
}

func (b *ErrorBuilder) Parameter(name string) *ErrorBuilder {
	b.err.Kind = KindParameter
	b.err.Name = name
	return b
}

func (b *ErrorBuilder) Recorder(name string) *ErrorBuilder {
	b.err.Kind = KindRecorder
	b.err.Name = name
	return b
}

// At sets the node attribute the component belongs to
func (b *ErrorBuilder) At(node, attr string) *ErrorBuilder {
	b.err.Node = node
	b.err.Attr = attr
	return b
}

func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

func (b *ErrorBuilder) Build() *ResolveError {
	return &b.err
}

func (b *ErrorBuilder) Err() error {
	return &b.err
}

// duplicateError reports a name collision for a component of kind
func duplicateError(op, kind, name, node, attr string) error {
	b := NewError(op).At(node, attr).Cause(ErrDuplicateComponent)
	if kind == KindRecorder {
		return b.Recorder(name).Err()
	}
	return b.Parameter(name).Err()
}

// IsDuplicate reports whether err is a duplicate component error
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateComponent)
}
