package graphql

import (
	"encoding/json"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-waternet/pkg/model"
	"github.com/dd0wney/cluso-waternet/pkg/network"
)

// attributeView is the source of an Attribute object
type attributeView struct {
	name  string
	value model.Value
}

// componentView is the source of a Component object
type componentView struct {
	name string
	kind string
	data map[string]any
}

// countView is the source of a Count object
type countView struct {
	name  string
	count int
}

type schemaTypes struct {
	metadata      *graphql.Object
	count         *graphql.Object
	node          *graphql.Object
	attribute     *graphql.Object
	edge          *graphql.Object
	duplicateEdge *graphql.Object
	component     *graphql.Object
	scenario      *graphql.Object
}

// field builds a non-null-agnostic field resolving from a typed source
func field[S any](typ graphql.Output, fn func(S) (any, error)) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			src, ok := p.Source.(S)
			if !ok {
				return nil, nil
			}
			return fn(src)
		},
	}
}

func jsonText(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func newSchemaTypes(n *network.Network) *schemaTypes {
	t := &schemaTypes{}

	t.metadata = graphql.NewObject(graphql.ObjectConfig{
		Name: "Metadata",
		Fields: graphql.Fields{
			"title": field(graphql.String, func(m *model.Metadata) (any, error) { return m.Title, nil }),
			"description": field(graphql.String, func(m *model.Metadata) (any, error) {
				return m.Description, nil
			}),
			"minimumVersion": field(graphql.String, func(m *model.Metadata) (any, error) {
				return m.MinimumVersion, nil
			}),
		},
	})

	t.count = graphql.NewObject(graphql.ObjectConfig{
		Name: "Count",
		Fields: graphql.Fields{
			"name":  field(graphql.String, func(c countView) (any, error) { return c.name, nil }),
			"count": field(graphql.Int, func(c countView) (any, error) { return c.count, nil }),
		},
	})

	t.attribute = graphql.NewObject(graphql.ObjectConfig{
		Name: "Attribute",
		Fields: graphql.Fields{
			"name": field(graphql.String, func(a attributeView) (any, error) { return a.name, nil }),
			"kind": field(graphql.String, func(a attributeView) (any, error) { return a.value.Kind.String(), nil }),
			// Name of the referenced or attached component, if any
			"component": field(graphql.String, func(a attributeView) (any, error) {
				if p, ok := a.value.AsParameter(); ok {
					return p.Name, nil
				}
				if r, ok := a.value.AsRecorder(); ok {
					return r.Name, nil
				}
				if ref, ok := a.value.AsReference(); ok && (n.Parameters().Has(ref) || n.Recorders().Has(ref)) {
					return ref, nil
				}
				return nil, nil
			}),
			"value": field(graphql.String, func(a attributeView) (any, error) { return jsonText(a.value.Raw()) }),
		},
	})

	t.node = graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"name": field(graphql.String, func(nd *model.Node) (any, error) { return nd.Name, nil }),
				"type": field(graphql.String, func(nd *model.Node) (any, error) { return nd.Type, nil }),
				"attributes": field(graphql.NewList(t.attribute), func(nd *model.Node) (any, error) {
					out := make([]attributeView, 0, len(nd.Attrs))
					for _, name := range nd.AttrNames() {
						out = append(out, attributeView{name: name, value: nd.Attrs[name]})
					}
					return out, nil
				}),
				"upstream": field(graphql.NewList(t.node), func(nd *model.Node) (any, error) {
					return neighbours(n, nd.Name, false), nil
				}),
				"downstream": field(graphql.NewList(t.node), func(nd *model.Node) (any, error) {
					return neighbours(n, nd.Name, true), nil
				}),
			}
		}),
	})

	t.edge = graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"from": field(graphql.String, func(e model.Edge) (any, error) { return e.From, nil }),
			"to":   field(graphql.String, func(e model.Edge) (any, error) { return e.To, nil }),
			"slots": field(graphql.String, func(e model.Edge) (any, error) {
				if len(e.Slots) == 0 {
					return nil, nil
				}
				return jsonText(e.Slots)
			}),
		},
	})

	t.duplicateEdge = graphql.NewObject(graphql.ObjectConfig{
		Name: "DuplicateEdge",
		Fields: graphql.Fields{
			"edge":  field(t.edge, func(d model.DuplicateEdge) (any, error) { return d.Edge, nil }),
			"count": field(graphql.Int, func(d model.DuplicateEdge) (any, error) { return d.Count, nil }),
		},
	})

	t.component = graphql.NewObject(graphql.ObjectConfig{
		Name: "Component",
		Fields: graphql.Fields{
			"name": field(graphql.String, func(c componentView) (any, error) { return c.name, nil }),
			"kind": field(graphql.String, func(c componentView) (any, error) { return c.kind, nil }),
			"type": field(graphql.String, func(c componentView) (any, error) {
				if typ, ok := c.data[model.AttrType].(string); ok {
					return typ, nil
				}
				return nil, nil
			}),
			"definition": field(graphql.String, func(c componentView) (any, error) { return jsonText(c.data) }),
		},
	})

	t.scenario = graphql.NewObject(graphql.ObjectConfig{
		Name: "Scenario",
		Fields: graphql.Fields{
			"name": field(graphql.String, func(s *model.Scenario) (any, error) { return s.Name, nil }),
			"size": field(graphql.Int, func(s *model.Scenario) (any, error) { return s.Size, nil }),
		},
	})

	return t
}

// neighbours returns the nodes downstream (or upstream) of name, in edge order
func neighbours(n *network.Network, name string, downstream bool) []*model.Node {
	var out []*model.Node
	seen := make(map[string]bool)
	for _, e := range n.Edges() {
		from, to := e.From, e.To
		if !downstream {
			from, to = to, from
		}
		if from != name || seen[to] {
			continue
		}
		seen[to] = true
		if nd, ok := n.Nodes().Get(to); ok {
			out = append(out, nd)
		}
	}
	return out
}
