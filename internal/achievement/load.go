package achievement

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abhisek/lingua/internal/validate"
)

var catalogSchema = &validate.Schema{
	Name: "achievement-catalog",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"achievements"},
		"properties": map[string]any{
			"achievements": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "title", "kind"},
					"properties": map[string]any{
						"id":          map[string]any{"type": "string", "minLength": 1},
						"title":       map[string]any{"type": "string", "minLength": 1},
						"description": map[string]any{"type": "string"},
						"kind": map[string]any{
							"type": "string",
							"enum": []string{"xp", "level", "streak", "lessons", "first-activity", "perfect-activity", "expr"},
						},
						"threshold": map[string]any{"type": "integer", "minimum": 0},
						"expr":      map[string]any{"type": "string"},
						"xp_reward": map[string]any{"type": "integer", "minimum": 0},
						"rarity": map[string]any{
							"type": "string",
							"enum": []string{"common", "rare", "epic", "legendary"},
						},
					},
				},
			},
		},
	},
}

type catalogFile struct {
	Achievements []Definition `json:"achievements"`
}

// ParseCatalog decodes and validates a JSON catalog document.
func ParseCatalog(raw []byte) (*Catalog, error) {
	if err := validate.JSON(catalogSchema, raw); err != nil {
		return nil, err
	}
	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(f.Achievements)
}

// LoadCatalog reads a catalog from a JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}
