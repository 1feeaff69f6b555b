package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	netmodel "github.com/dd0wney/cluso-waternet/pkg/model"
	"github.com/dd0wney/cluso-waternet/pkg/network"
)

// maxCell bounds the width of free-form cells
const maxCell = 60

func nodeRows(n *network.Network) []table.Row {
	rows := make([]table.Row, 0, n.Nodes().Len())
	for _, node := range n.Nodes().All() {
		rows = append(rows, table.Row{node.Name, node.Type, formatAttrs(node)})
	}
	return rows
}

func edgeRows(n *network.Network) []table.Row {
	rows := make([]table.Row, 0, len(n.Edges()))
	for _, e := range n.Edges() {
		slots := ""
		if len(e.Slots) > 0 {
			slots = compact(e.Slots)
		}
		rows = append(rows, table.Row{e.From, e.To, slots})
	}
	return rows
}

// componentRows lists a registry as name, type and definition
func componentRows[T netmodel.Component](set *netmodel.ComponentSet[T]) []table.Row {
	rows := make([]table.Row, 0, set.Len())
	for _, c := range set.Values() {
		data := c.AsDict()
		typ, _ := data[netmodel.AttrType].(string)
		rows = append(rows, table.Row{c.ComponentName(), typ, compact(data)})
	}
	return rows
}

// formatAttrs renders the first attributes of a node as key=value pairs
func formatAttrs(node *netmodel.Node) string {
	names := node.AttrNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		v := node.Attrs[name]
		if v.Kind == netmodel.KindInline {
			parts = append(parts, name+"=<inline>")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", name, v))
	}
	if len(parts) > 3 {
		parts = append(parts[:3], "...")
	}
	return strings.Join(parts, ", ")
}

// compact encodes v as single-line JSON, truncated to maxCell runes
func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	s := []rune(string(data))
	if len(s) > maxCell {
		return string(s[:maxCell-3]) + "..."
	}
	return string(s)
}
