package catalog

import (
	"strings"

	"fitforge/coach-app/internal/domain"
)

// MatchStrategy is one layer of the name resolution chain. Strategies are
// tried in a fixed order against the same catalog entries and the first hit
// wins, so each can be tested and reordered independently. The input is
// already normalized; entries arrive sorted by id.
type MatchStrategy interface {
	Name() string
	Match(input string, entries []domain.ExerciseRecord) (int64, bool)
}

// DefaultStrategies returns the resolution chain in its canonical order:
// exact name, alias containment, fuzzy substring.
func DefaultStrategies() []MatchStrategy {
	return []MatchStrategy{
		exactStrategy{},
		aliasStrategy{},
		fuzzyStrategy{},
	}
}

// exactStrategy matches the normalized input against normalized catalog names.
type exactStrategy struct{}

func (exactStrategy) Name() string { return "exact" }

func (exactStrategy) Match(input string, entries []domain.ExerciseRecord) (int64, bool) {
	for _, e := range entries {
		if Normalize(e.Name) == input {
			return e.ID, true
		}
	}
	return 0, false
}

// aliasStrategy looks for the normalized input within any entry's aliases.
// Aliases are free text, so this is a containment check rather than exact
// set membership.
type aliasStrategy struct{}

func (aliasStrategy) Name() string { return "alias" }

func (aliasStrategy) Match(input string, entries []domain.ExerciseRecord) (int64, bool) {
	for _, e := range entries {
		for _, alias := range e.Aliases {
			if strings.Contains(Normalize(alias), input) {
				return e.ID, true
			}
		}
	}
	return 0, false
}

// fuzzyStrategy is the last resort: the input is a substring of a catalog
// name, or contains one.
type fuzzyStrategy struct{}

func (fuzzyStrategy) Name() string { return "fuzzy" }

func (fuzzyStrategy) Match(input string, entries []domain.ExerciseRecord) (int64, bool) {
	for _, e := range entries {
		name := Normalize(e.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, input) || strings.Contains(input, name) {
			return e.ID, true
		}
	}
	return 0, false
}
