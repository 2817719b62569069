package graphql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/capability-graph/pkg/query"
)

// Executor runs depth-limited queries against a catalog schema
type Executor struct {
	schema   graphql.Schema
	maxDepth int
}

// NewExecutor builds the schema for qb. A non-positive maxDepth uses
// DefaultMaxDepth.
func NewExecutor(qb *query.QueryBuilder, maxDepth int) (*Executor, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	schema, err := GenerateSchema(qb)
	if err != nil {
		return nil, fmt.Errorf("build executor: %w", err)
	}
	return &Executor{schema: schema, maxDepth: maxDepth}, nil
}

// Schema returns the executor's schema
func (e *Executor) Schema() graphql.Schema {
	return e.schema
}

// Execute validates the query depth and runs it with the given variables
func (e *Executor) Execute(ctx context.Context, request string, variables map[string]any) *graphql.Result {
	if err := ValidateQueryDepth(request, e.maxDepth); err != nil {
		return errorResult(err)
	}
	return graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  request,
		VariableValues: variables,
		Context:        ctx,
	})
}

// ExecuteQuery executes a GraphQL query against a schema without a depth limit
func ExecuteQuery(request string, schema graphql.Schema) *graphql.Result {
	return ExecuteQueryWithVariables(request, schema, nil)
}

// ExecuteQueryWithVariables executes a GraphQL query with variables
func ExecuteQueryWithVariables(request string, schema graphql.Schema, variables map[string]any) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  request,
		VariableValues: variables,
	})
}
