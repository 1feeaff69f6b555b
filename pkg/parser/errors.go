package parser

import (
	"fmt"
	"slices"
	"strings"
)

// Component categories. Errors and warnings are grouped under these keys.
const (
	CategoryNetwork     = "network"
	CategoryMetadata    = "metadata"
	CategoryTimestepper = "timestepper"
	CategoryNodes       = "nodes"
	CategoryEdges       = "edges"
	CategoryParameters  = "parameters"
	CategoryRecorders   = "recorders"
	CategoryTables      = "tables"
	CategoryScenarios   = "scenarios"
)

var categories = []string{
	CategoryNetwork, CategoryMetadata, CategoryTimestepper, CategoryNodes, CategoryEdges,
	CategoryParameters, CategoryRecorders, CategoryTables, CategoryScenarios,
}

// IsCategory reports whether name is a known component category
func IsCategory(name string) bool {
	return slices.Contains(categories, name)
}

// Severity of a validation finding
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ValidationError is a parser error or warning. Component and Location are
// optional; Source holds the offending component's decoded definition when
// one exists.
type ValidationError struct {
	Message   string
	Severity  Severity
	Category  string
	Component string
	Rule      string
	Location  string
	Source    map[string]any
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Category)
	if e.Component != "" {
		b.WriteString(" <")
		b.WriteString(e.Component)
		b.WriteString(">")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Location != "" {
		fmt.Fprintf(&b, " (at %s)", e.Location)
	}
	return b.String()
}

// Errors maps a component category to its errors
type Errors map[string][]*ValidationError

// Len returns the total number of errors
func (e Errors) Len() int {
	n := 0
	for _, errs := range e {
		n += len(errs)
	}
	return n
}

// Categories returns the categories holding errors, sorted
func (e Errors) Categories() []string {
	out := make([]string, 0, len(e))
	for c := range e {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Counts returns the number of errors per category
func (e Errors) Counts() map[string]int {
	out := make(map[string]int, len(e))
	for c, errs := range e {
		out[c] = len(errs)
	}
	return out
}

// Warnings is the ordered list of parser warnings
type Warnings []*ValidationError

// Counts returns the number of warnings per category
func (w Warnings) Counts() map[string]int {
	out := make(map[string]int)
	for _, ve := range w {
		out[ve.Category]++
	}
	return out
}

// IOError wraps a failure to read the document source as a network error
func IOError(err error) *ValidationError {
	return &ValidationError{
		Message:  fmt.Sprintf("Unable to read input file: %v", err),
		Severity: SeverityError,
		Category: CategoryNetwork,
		Rule:     "io",
	}
}
