package validate

import (
	"errors"
	"testing"
)

func cardSchema() *Schema {
	return &Schema{
		Name: "test-card",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt": map[string]any{"type": "string", "minLength": 1},
				"tier":   map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
				"kind":   map[string]any{"type": "string", "enum": []string{"translate", "choice"}},
			},
			"required": []string{"prompt", "tier"},
		},
	}
}

func TestJSON_Valid(t *testing.T) {
	if err := JSON(cardSchema(), []byte(`{"prompt":"hola","tier":2,"kind":"translate"}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing required", `{"prompt":"hola"}`},
		{"wrong type", `{"prompt":"hola","tier":"two"}`},
		{"out of range", `{"prompt":"hola","tier":9}`},
		{"bad enum", `{"prompt":"hola","tier":1,"kind":"essay"}`},
		{"malformed", `{not json}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := JSON(cardSchema(), []byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var invErr *ErrInvalidDocument
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidDocument, got: %T", err)
			}
			if invErr.Schema != "test-card" {
				t.Errorf("Schema = %q", invErr.Schema)
			}
		})
	}
}

func TestValue_UsesCache(t *testing.T) {
	s := cardSchema()
	for i := 0; i < 3; i++ {
		if err := Value(s, map[string]any{"prompt": "x", "tier": float64(1)}); err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
	}
	if _, ok := compiled.Load(s.Name); !ok {
		t.Error("expected compiled schema to be cached")
	}
}
