package model

import (
	"encoding/json"
	"fmt"
)

// Edge connects two nodes. Slots holds the optional trailing slot
// identifiers of a pywr slot edge ([from, to, from_slot, to_slot]).
type Edge struct {
	From  string
	To    string
	Slots []any
}

// NewEdge builds an edge from its document list form
func NewEdge(elems []any) (Edge, error) {
	if len(elems) < 2 {
		return Edge{}, fmt.Errorf("%w: expected at least 2 elements, got %d", ErrInvalidEdge, len(elems))
	}
	from, ok := elems[0].(string)
	if !ok {
		return Edge{}, fmt.Errorf("%w: source node must be a name, got %v", ErrInvalidEdge, elems[0])
	}
	to, ok := elems[1].(string)
	if !ok {
		return Edge{}, fmt.Errorf("%w: target node must be a name, got %v", ErrInvalidEdge, elems[1])
	}
	e := Edge{From: from, To: to}
	if len(elems) > 2 {
		e.Slots = append([]any(nil), elems[2:]...)
	}
	return e, nil
}

// Nodes returns the node names joined by the edge
func (e Edge) Nodes() []string {
	return []string{e.From, e.To}
}

// AsDict returns the document list form of the edge
func (e Edge) AsDict() []any {
	out := make([]any, 0, 2+len(e.Slots))
	out = append(out, e.From, e.To)
	return append(out, e.Slots...)
}

// Key identifies the edge tuple. Edges with equal keys are duplicates.
func (e Edge) Key() string {
	data, err := json.Marshal(e.AsDict())
	if err != nil {
		return fmt.Sprint(e.AsDict()...)
	}
	return string(data)
}

func (e Edge) String() string {
	if len(e.Slots) == 0 {
		return fmt.Sprintf("(%s, %s)", e.From, e.To)
	}
	return fmt.Sprintf("(%s, %s, %v)", e.From, e.To, e.Slots)
}

// DuplicateEdge is an edge tuple occurring more than once
type DuplicateEdge struct {
	Edge  Edge
	Count int
}

// FindDuplicateEdges returns every edge tuple that occurs more than once, in
// order of first occurrence.
func FindDuplicateEdges(edges []Edge) []DuplicateEdge {
	counts := make(map[string]int, len(edges))
	for _, e := range edges {
		counts[e.Key()]++
	}

	var out []DuplicateEdge
	for _, e := range edges {
		key := e.Key()
		if n := counts[key]; n > 1 {
			out = append(out, DuplicateEdge{Edge: e, Count: n})
			delete(counts, key)
		}
	}
	return out
}
