package catalog

import "fitforge/coach-app/internal/domain"

// SeedRegistry returns the fixed bootstrap list of common exercises used
// when the primary catalog store is unreachable. Ids are stable and mirror
// the first entries of the canonical catalog.
func SeedRegistry() []domain.ExerciseRecord {
	return []domain.ExerciseRecord{
		{ID: 1, Slug: "push-ups", Name: "Push-Ups", Aliases: []string{"pushups", "press-ups"}, BodyPart: "chest", Pattern: "push"},
		{ID: 2, Slug: "bodyweight-squats", Name: "Bodyweight Squats", Aliases: []string{"air squats", "squats"}, BodyPart: "legs", Pattern: "squat"},
		{ID: 3, Slug: "lunges", Name: "Lunges", Aliases: []string{"forward lunges", "walking lunges"}, BodyPart: "legs", Pattern: "lunge"},
		{ID: 4, Slug: "plank", Name: "Plank", Aliases: []string{"forearm plank", "plank hold"}, BodyPart: "core", Pattern: "isometric"},
		{ID: 5, Slug: "jumping-jacks", Name: "Jumping Jacks", Aliases: []string{"star jumps"}, BodyPart: "cardio", Pattern: "jump"},
		{ID: 6, Slug: "burpees", Name: "Burpees", Aliases: []string{"squat thrusts"}, BodyPart: "full-body", Pattern: "compound"},
		{ID: 7, Slug: "mountain-climbers", Name: "Mountain Climbers", Aliases: []string{"climbers"}, BodyPart: "cardio", Pattern: "compound"},
		{ID: 8, Slug: "glute-bridge", Name: "Glute Bridge", Aliases: []string{"hip bridge", "bridges"}, BodyPart: "glutes", Pattern: "hinge"},
		{ID: 9, Slug: "sit-ups", Name: "Sit-Ups", Aliases: []string{"situps", "crunches"}, BodyPart: "core", Pattern: "flexion"},
		{ID: 10, Slug: "high-knees", Name: "High Knees", Aliases: []string{"high knee run"}, BodyPart: "cardio", Pattern: "run"},
		{ID: 11, Slug: "superman-hold", Name: "Superman Hold", Aliases: []string{"supermans", "back extension hold"}, BodyPart: "back", Pattern: "isometric"},
		{ID: 12, Slug: "arm-circles", Name: "Arm Circles", Aliases: []string{"shoulder circles"}, BodyPart: "mobility", Pattern: "mobility"},
	}
}
