package graphql

import (
	"context"
	"strings"
	"testing"

	"github.com/dd0wney/capability-graph/pkg/query"
)

func TestValidateQueryDepth(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		maxDepth int
		wantErr  bool
	}{
		{"scalar root", `{ health }`, 1, false},
		{"one level", `{ entity(id: "a") { id name } }`, 1, false},
		{"nested edges", `{ entity(id: "a") { edges { target { id } } } }`, 3, false},
		{"nested edges over limit", `{ entity(id: "a") { edges { target { id } } } }`, 2, true},
		{
			"fragment spread counted",
			`{ entity(id: "a") { ...more } } fragment more on Entity { related { related { id } } }`,
			2, true,
		},
		{
			"inline fragment",
			`{ entity(id: "a") { ... on Entity { edges { id } } } }`,
			2, false,
		},
		{"introspection ignored", `{ __schema { types { name } } }`, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueryDepth(tt.query, tt.maxDepth)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQueryDepth() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateQueryDepth_ParseError(t *testing.T) {
	err := ValidateQueryDepth(`{ entity(id: "a") {`, DefaultMaxDepth)
	if err == nil || !strings.Contains(err.Error(), "failed to parse query") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestExecuteWithDepthLimit(t *testing.T) {
	schema, _ := setupSchema(t)

	deep := `{ entity(id: "coe_data") { related { related { related { id } } } } }`
	result := ExecuteWithDepthLimit(schema, deep, 3, nil)
	if !result.HasErrors() {
		t.Fatal("Expected deep query to be rejected")
	}
	if !strings.Contains(result.Errors[0].Message, "exceeds maximum allowed depth") {
		t.Errorf("unexpected error: %s", result.Errors[0].Message)
	}

	result = ExecuteWithDepthLimit(schema, `query($id: ID!) { entity(id: $id) { related { id } } }`, 3,
		map[string]any{"id": "coe_data"})
	if result.HasErrors() {
		t.Fatalf("Expected shallow query to succeed, got %v", result.Errors)
	}
	related := result.Data.(map[string]any)["entity"].(map[string]any)["related"].([]any)
	if len(related) != 2 {
		t.Errorf("Expected 2 forward neighbours, got %v", related)
	}
}

func TestExecutor(t *testing.T) {
	_, gs := setupSchema(t)

	exec, err := NewExecutor(query.NewQueryBuilder(gs), 2)
	if err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}

	result := exec.Execute(context.Background(), `query($id: ID!) { entity(id: $id) { edges { type } } }`,
		map[string]any{"id": "coe_data"})
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	result = exec.Execute(context.Background(), `{ entity(id: "coe_data") { edges { target { id } } } }`, nil)
	if !result.HasErrors() {
		t.Error("Expected depth 3 query to be rejected with limit 2")
	}

	if _, err := NewExecutor(query.NewQueryBuilder(gs), 0); err != nil {
		t.Errorf("default depth executor: %v", err)
	}
}
