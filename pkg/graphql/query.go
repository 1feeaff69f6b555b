package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
)

// ExecuteQuery executes a GraphQL query against a schema
func ExecuteQuery(ctx context.Context, query string, schema graphql.Schema) *graphql.Result {
	return ExecuteQueryWithVariables(ctx, query, schema, nil)
}

// ExecuteQueryWithVariables executes a GraphQL query with variables
func ExecuteQueryWithVariables(ctx context.Context, query string, schema graphql.Schema, variables map[string]any) *graphql.Result {
	params := graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	}

	return graphql.Do(params)
}
