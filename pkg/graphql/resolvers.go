package graphql

import (
	"slices"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-waternet/pkg/model"
	"github.com/dd0wney/cluso-waternet/pkg/network"
)

type resolvers struct {
	network *network.Network
	limits  *LimitConfig
}

// paginate applies the offset and limit arguments of a list field
func paginate[T any](r *resolvers, p graphql.ResolveParams, items []T) []T {
	requested, ok := p.Args["limit"].(int)
	if !ok {
		requested = -1
	}
	offset, _ := p.Args["offset"].(int)
	return page(items, offset, applyLimit(requested, r.limits))
}

func (r *resolvers) metadata(p graphql.ResolveParams) (any, error) {
	return r.network.Metadata(), nil
}

// report lists the collection counts sorted by name
func (r *resolvers) report(p graphql.ResolveParams) (any, error) {
	report := r.network.Report()
	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]countView, 0, len(names))
	for _, name := range names {
		out = append(out, countView{name: name, count: report[name]})
	}
	return out, nil
}

func (r *resolvers) nodes(p graphql.ResolveParams) (any, error) {
	nodeType, _ := p.Args["type"].(string)

	out := make([]*model.Node, 0)
	for _, nd := range r.network.Nodes().All() {
		if nodeType != "" && model.NormalizedType(nd.Type) != model.NormalizedType(nodeType) {
			continue
		}
		out = append(out, nd)
	}
	return paginate(r, p, out), nil
}

func (r *resolvers) node(p graphql.ResolveParams) (any, error) {
	name, _ := p.Args["name"].(string)
	if nd, ok := r.network.Nodes().Get(name); ok {
		return nd, nil
	}
	return nil, nil
}

func (r *resolvers) edges(p graphql.ResolveParams) (any, error) {
	return paginate(r, p, r.network.Edges()), nil
}

func (r *resolvers) duplicateEdges(p graphql.ResolveParams) (any, error) {
	return r.network.DuplicateEdges(), nil
}

func componentViews[T model.Component](kind string, set *model.ComponentSet[T]) []componentView {
	out := make([]componentView, 0, set.Len())
	for _, c := range set.Values() {
		out = append(out, componentView{name: c.ComponentName(), kind: kind, data: c.AsDict()})
	}
	return out
}

func (r *resolvers) parameters(p graphql.ResolveParams) (any, error) {
	return paginate(r, p, componentViews(network.KindParameter, r.network.Parameters())), nil
}

func (r *resolvers) parameter(p graphql.ResolveParams) (any, error) {
	name, _ := p.Args["name"].(string)
	param, ok := r.network.Parameters().Get(name)
	if !ok {
		return nil, nil
	}
	return componentView{name: param.Name, kind: network.KindParameter, data: param.AsDict()}, nil
}

func (r *resolvers) recorders(p graphql.ResolveParams) (any, error) {
	return paginate(r, p, componentViews(network.KindRecorder, r.network.Recorders())), nil
}

func (r *resolvers) tables(p graphql.ResolveParams) (any, error) {
	return componentViews("table", r.network.Tables()), nil
}

func (r *resolvers) scenarios(p graphql.ResolveParams) (any, error) {
	return r.network.Scenarios(), nil
}
