// Package exercise supplies the ordered exercise lists that practice sessions
// run over, loaded from JSON or spreadsheet decks.
package exercise

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lingua/internal/difficulty"
	"github.com/samber/lo"
)

// Type is the kind of exercise.
type Type string

const (
	TypeTranslate      Type = "translate"
	TypeMultipleChoice Type = "multiple-choice"
	TypeFillBlank      Type = "fill-blank"
)

// Exercise is a single prompt with its expected answer.
type Exercise struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	Prompt     string          `json:"prompt"`
	Answer     string          `json:"answer"`
	Alternates []string        `json:"alternates,omitempty"`
	Choices    []string        `json:"choices,omitempty"`
	Tier       difficulty.Tier `json:"tier"`
	LessonID   string          `json:"lesson_id,omitempty"`
	SkillNode  string          `json:"skill_node,omitempty"`
}

// Deck is a named, ordered set of exercises.
type Deck struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// ErrInvalidDeck is returned by Validate and the loaders for malformed decks.
var ErrInvalidDeck = errors.New("invalid deck")

// Validate checks ids, tiers and multiple-choice answers. All problems are
// reported together.
func (d *Deck) Validate() error {
	var errs []string
	if len(d.Exercises) == 0 {
		errs = append(errs, "deck has no exercises")
	}

	seen := make(map[string]bool, len(d.Exercises))
	for i, ex := range d.Exercises {
		label := ex.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
			errs = append(errs, fmt.Sprintf("exercise %s has no id", label))
		} else if seen[ex.ID] {
			errs = append(errs, fmt.Sprintf("duplicate exercise id %q", ex.ID))
		}
		seen[ex.ID] = true

		if strings.TrimSpace(ex.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("exercise %s has no prompt", label))
		}
		if strings.TrimSpace(ex.Answer) == "" {
			errs = append(errs, fmt.Sprintf("exercise %s has no answer", label))
		}
		if !ex.Tier.Valid() {
			errs = append(errs, fmt.Sprintf("exercise %s has tier %d outside %d..%d", label, ex.Tier, difficulty.MinTier, difficulty.MaxTier))
		}
		if ex.Type == TypeMultipleChoice && !lo.ContainsBy(ex.Choices, func(c string) bool {
			return strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(ex.Answer))
		}) {
			errs = append(errs, fmt.Sprintf("exercise %s: answer is not among its choices", label))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q:\n  %s", ErrInvalidDeck, d.Name, strings.Join(errs, "\n  "))
	}
	return nil
}

// ForLesson returns the exercises belonging to lessonID, in deck order.
func (d *Deck) ForLesson(lessonID string) []Exercise {
	return lo.Filter(d.Exercises, func(ex Exercise, _ int) bool {
		return ex.LessonID == lessonID
	})
}

// Lessons returns the distinct lesson ids in the deck, in first-seen order.
func (d *Deck) Lessons() []string {
	ids := lo.FilterMap(d.Exercises, func(ex Exercise, _ int) (string, bool) {
		return ex.LessonID, ex.LessonID != ""
	})
	return lo.Uniq(ids)
}

// Find returns the exercise with the given id.
func (d *Deck) Find(id string) (Exercise, bool) {
	return lo.Find(d.Exercises, func(ex Exercise) bool { return ex.ID == id })
}
