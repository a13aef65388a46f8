// Package achievement evaluates a data-driven achievement catalog against a
// learner's progress snapshot.
package achievement

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/samber/lo"
)

// Kind selects the unlock rule of a Definition.
type Kind string

const (
	KindXP              Kind = "xp"               // total XP >= Threshold
	KindLevel           Kind = "level"            // level >= Threshold
	KindStreak          Kind = "streak"           // current streak >= Threshold
	KindLessons         Kind = "lessons"          // completed lessons >= Threshold
	KindFirstActivity   Kind = "first-activity"   // first completed activity ever
	KindPerfectActivity Kind = "perfect-activity" // activity with every answer correct
	KindExpr            Kind = "expr"             // CEL boolean expression
)

func (k Kind) valid() bool {
	switch k {
	case KindXP, KindLevel, KindStreak, KindLessons, KindFirstActivity, KindPerfectActivity, KindExpr:
		return true
	}
	return false
}

// Rarity ranks how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// Definition describes one achievement and the rule that unlocks it.
type Definition struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Kind        Kind   `json:"kind"`
	Threshold   int    `json:"threshold,omitempty"`
	Expr        string `json:"expr,omitempty"`
	XPReward    int    `json:"xp_reward"`
	Rarity      Rarity `json:"rarity,omitempty"`
}

// ErrInvalidDefinition is returned for catalog entries that cannot be evaluated.
var ErrInvalidDefinition = errors.New("invalid achievement definition")

// Catalog is a validated, ordered set of definitions with compiled expressions.
type Catalog struct {
	defs     []Definition
	programs map[string]cel.Program
}

// NewCatalog validates defs and compiles their expressions.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		defs:     make([]Definition, 0, len(defs)),
		programs: make(map[string]cel.Program),
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidDefinition)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, d.ID)
		}
		seen[d.ID] = true
		if !d.Kind.valid() {
			return nil, fmt.Errorf("%w: %q has unknown kind %q", ErrInvalidDefinition, d.ID, d.Kind)
		}
		if d.XPReward < 0 {
			return nil, fmt.Errorf("%w: %q has negative reward", ErrInvalidDefinition, d.ID)
		}
		if d.Rarity == "" {
			d.Rarity = RarityCommon
		}
		if d.Kind == KindExpr {
			prg, err := compileRule(d.Expr)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDefinition, d.ID, err)
			}
			c.programs[d.ID] = prg
		}
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// Definitions returns the catalog entries in order.
func (c *Catalog) Definitions() []Definition {
	return append([]Definition(nil), c.defs...)
}

// Lookup returns the definition with the given id.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	return lo.Find(c.defs, func(d Definition) bool { return d.ID == id })
}

// DefaultDefinitions returns the built-in achievement set.
func DefaultDefinitions() []Definition {
	return []Definition{
		{ID: "first_steps", Title: "First Steps", Description: "Complete your first activity", Kind: KindFirstActivity, XPReward: 10, Rarity: RarityCommon},
		{ID: "on_fire", Title: "On Fire", Description: "Keep a 7-day streak", Kind: KindStreak, Threshold: 7, XPReward: 50, Rarity: RarityRare},
		{ID: "scholar", Title: "Scholar", Description: "Reach level 5", Kind: KindLevel, Threshold: 5, XPReward: 50, Rarity: RarityRare},
		{ID: "perfectionist", Title: "Perfectionist", Description: "Finish an activity without a mistake", Kind: KindPerfectActivity, XPReward: 25, Rarity: RarityRare},
		{ID: "dedicated", Title: "Dedicated", Description: "Complete 10 lessons", Kind: KindLessons, Threshold: 10, XPReward: 100, Rarity: RarityEpic},
		{ID: "rising_star", Title: "Rising Star", Description: "Earn 1000 XP", Kind: KindXP, Threshold: 1000, XPReward: 100, Rarity: RarityEpic},
	}
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultDefinitions())
	if err != nil {
		panic("achievement: invalid default catalog: " + err.Error())
	}
	return c
}
