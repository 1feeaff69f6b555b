package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEdge(t *testing.T) {
	e, err := NewEdge([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, Edge{From: "a", To: "b"}, e)
	assert.Equal(t, []string{"a", "b"}, e.Nodes())
	assert.Equal(t, "(a, b)", e.String())

	slot, err := NewEdge([]any{"a", "b", json.Number("0"), nil})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", json.Number("0"), nil}, slot.AsDict())
	assert.Equal(t, `["a","b",0,null]`, slot.Key())

	tests := [][]any{
		{"a"},
		{json.Number("1"), "b"},
		{"a", nil},
	}
	for _, elems := range tests {
		_, err := NewEdge(elems)
		assert.True(t, errors.Is(err, ErrInvalidEdge), "%v", elems)
	}
}

func TestFindDuplicateEdges(t *testing.T) {
	edges := []Edge{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "A", To: "B"},
		{From: "C", To: "D", Slots: []any{"x"}},
		{From: "C", To: "D"},
	}

	dups := FindDuplicateEdges(edges)
	require.Len(t, dups, 1)
	assert.Equal(t, DuplicateEdge{Edge: Edge{From: "A", To: "B"}, Count: 2}, dups[0])

	assert.Empty(t, FindDuplicateEdges(nil))
}
