package prompt

import (
	"fmt"
	"strings"

	"fitforge/coach-app/internal/catalog"
	"fitforge/coach-app/internal/domain"
)

// GenerationRequest is the assembled input for one generation call.
type GenerationRequest struct {
	Date   string
	Prompt string
	// VocabularySize is how many catalog names made it into the closed
	// vocabulary, kept for logging.
	VocabularySize int
}

// Category labels used to group the closed vocabulary in the prompt.
var categoryOrder = []string{"warm-up", "upper", "lower", "core", "full-body", "cardio"}

// Builder assembles generation requests from a profile snapshot and a
// catalog snapshot filtered to the user's equipment.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build filters the catalog to exercises the user can actually perform
// (bodyweight always included), groups the names by category, and embeds
// them as an explicit closed vocabulary together with the structural
// contract. The closed vocabulary is the first line of defense against
// unresolvable names downstream; the validator still checks everything.
func (b *Builder) Build(profile domain.ProfileSnapshot, snap *catalog.Snapshot, date string) GenerationRequest {
	available := equipmentSet(profile.Equipment)

	grouped := make(map[string][]string)
	count := 0
	for _, e := range snap.Entries() {
		if !usable(e, available) {
			continue
		}
		cat := categorize(e)
		grouped[cat] = append(grouped[cat], e.Name)
		count++
	}

	var sb strings.Builder
	sb.WriteString("You are a personal fitness coach")
	if profile.CoachingTone != "" {
		fmt.Fprintf(&sb, " with a %s tone", profile.CoachingTone)
	}
	sb.WriteString(".\n")
	fmt.Fprintf(&sb, "Create a workout for %s.\n\n", date)

	fmt.Fprintf(&sb, "Goal: %s\n", orDefault(profile.Goal, "general fitness"))
	fmt.Fprintf(&sb, "Session duration: about %d minutes\n", orDefaultInt(profile.SessionMinutes, 30))
	if profile.CardioPreference != "" {
		fmt.Fprintf(&sb, "Cardio preference: %s\n", profile.CardioPreference)
	}
	if len(profile.Injuries) > 0 {
		fmt.Fprintf(&sb, "Avoid anything that aggravates: %s\n", strings.Join(profile.Injuries, ", "))
	}

	sb.WriteString("\nUse ONLY exercises from this list, with the exact names shown:\n")
	for _, cat := range categoryOrder {
		names := grouped[cat]
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", cat, strings.Join(names, ", "))
	}

	sb.WriteString(`
Respond with a single JSON object, no prose, in exactly this shape:
{
  "date": "` + date + `",
  "title": "...",
  "durationMinutes": 30,
  "coachNotes": "...",
  "blocks": [
    {"type": "warmup", "items": [{"name": "...", "sets": 1, "reps": 10, "restSeconds": 30}]},
    {"type": "main", "items": [...]},
    {"type": "recovery", "items": [...]}
  ]
}
Structural rules, non-negotiable:
- exactly one "warmup" block, one "main" block and one "recovery" block
- the "main" block has 3 to 6 items, "recovery" at least 1
- "reps" is a positive integer, or a duration string like "30s hold"
- "sets" is a positive integer; "restSeconds" when present is >= 0
`)

	return GenerationRequest{
		Date:           date,
		Prompt:         sb.String(),
		VocabularySize: count,
	}
}

// usable reports whether the user's equipment covers the exercise.
// Bodyweight exercises are always usable.
func usable(e domain.ExerciseRecord, available map[string]bool) bool {
	if !e.RequiresEquipment() {
		return true
	}
	for _, eq := range e.Equipment {
		if available[strings.ToLower(strings.TrimSpace(eq))] {
			return true
		}
	}
	return false
}

func equipmentSet(equipment []string) map[string]bool {
	set := make(map[string]bool, len(equipment)+1)
	set["bodyweight"] = true
	for _, eq := range equipment {
		set[strings.ToLower(strings.TrimSpace(eq))] = true
	}
	return set
}

// categorize maps a catalog body part to a vocabulary group.
func categorize(e domain.ExerciseRecord) string {
	switch strings.ToLower(e.BodyPart) {
	case "mobility", "warmup", "warm-up":
		return "warm-up"
	case "chest", "back", "shoulders", "arms":
		return "upper"
	case "legs", "glutes", "calves":
		return "lower"
	case "core":
		return "core"
	case "cardio":
		return "cardio"
	default:
		return "full-body"
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orDefaultInt(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
