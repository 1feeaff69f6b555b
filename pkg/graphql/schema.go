package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-waternet/pkg/network"
)

// GenerateSchema generates a read-only GraphQL schema over a loaded network
func GenerateSchema(n *network.Network) (graphql.Schema, error) {
	return GenerateSchemaWithLimits(n, DefaultLimitConfig())
}

// GenerateSchemaWithLimits generates the schema with list result limits
func GenerateSchemaWithLimits(n *network.Network, config *LimitConfig) (graphql.Schema, error) {
	if err := ValidateLimitConfig(config); err != nil {
		return graphql.Schema{}, err
	}

	types := newSchemaTypes(n)
	r := &resolvers{network: n, limits: config}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"metadata": &graphql.Field{
				Type:    types.metadata,
				Resolve: r.metadata,
			},
			"report": &graphql.Field{
				Type:    graphql.NewList(types.count),
				Resolve: r.report,
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(types.node),
				Args: graphql.FieldConfigArgument{
					"type": &graphql.ArgumentConfig{
						Type:        graphql.String,
						Description: "Only return nodes of this type (case-insensitive)",
					},
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: -1,
					},
					"offset": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 0,
					},
				},
				Resolve: r.nodes,
			},
			"node": &graphql.Field{
				Type: types.node,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.node,
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(types.edge),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: -1,
					},
					"offset": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 0,
					},
				},
				Resolve: r.edges,
			},
			"duplicateEdges": &graphql.Field{
				Type:    graphql.NewList(types.duplicateEdge),
				Resolve: r.duplicateEdges,
			},
			"parameters": &graphql.Field{
				Type: graphql.NewList(types.component),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: -1},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: r.parameters,
			},
			"parameter": &graphql.Field{
				Type: types.component,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.parameter,
			},
			"recorders": &graphql.Field{
				Type: graphql.NewList(types.component),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: -1},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: r.recorders,
			},
			"tables": &graphql.Field{
				Type:    graphql.NewList(types.component),
				Resolve: r.tables,
			},
			"scenarios": &graphql.Field{
				Type:    graphql.NewList(types.scenario),
				Resolve: r.scenarios,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}
