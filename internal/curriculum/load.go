package curriculum

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abhisek/lingua/internal/validate"
)

var fileSchema = &validate.Schema{
	Name: "curriculum",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"nodes"},
		"properties": map[string]any{
			"nodes": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "name", "lessons"},
					"properties": map[string]any{
						"id":            map[string]any{"type": "string", "minLength": 1},
						"name":          map[string]any{"type": "string"},
						"description":   map[string]any{"type": "string"},
						"prerequisites": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"lessons": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items":    map[string]any{"type": "string", "minLength": 1},
						},
					},
				},
			},
		},
	},
}

type file struct {
	Nodes []Node `json:"nodes"`
}

// Parse decodes and validates a curriculum document.
func Parse(raw []byte) (*Graph, error) {
	if err := validate.JSON(fileSchema, raw); err != nil {
		return nil, err
	}
	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	return New(f.Nodes)
}

// LoadFile reads a curriculum from a JSON file.
func LoadFile(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	return Parse(raw)
}
