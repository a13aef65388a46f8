package exercise

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/lingua/internal/validate"
)

var deckSchema = &validate.Schema{
	Name: "exercise-deck",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"exercises"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"exercises": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "prompt", "answer", "tier"},
					"properties": map[string]any{
						"id":         map[string]any{"type": "string", "minLength": 1},
						"type":       map[string]any{"type": "string", "enum": []string{"translate", "multiple-choice", "fill-blank"}},
						"prompt":     map[string]any{"type": "string", "minLength": 1},
						"answer":     map[string]any{"type": "string", "minLength": 1},
						"alternates": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"choices":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"tier":       map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
						"lesson_id":  map[string]any{"type": "string"},
						"skill_node": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

// ParseJSON decodes a JSON deck, checking it against the deck schema and
// then Validate.
func ParseJSON(raw []byte) (*Deck, error) {
	if err := validate.JSON(deckSchema, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	var d Deck
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	for i := range d.Exercises {
		if d.Exercises[i].Type == "" {
			d.Exercises[i].Type = TypeTranslate
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads a deck, choosing the format from the file extension
// (.json, .xlsx).
func LoadFile(path string) (*Deck, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read deck: %w", err)
		}
		d, err := ParseJSON(raw)
		if err != nil {
			return nil, err
		}
		if d.Name == "" {
			d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return d, nil
	case ".xlsx":
		return LoadXLSX(path, "")
	default:
		return nil, fmt.Errorf("unsupported deck format %q", filepath.Ext(path))
	}
}
