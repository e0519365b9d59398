package domain

import (
	"regexp"
	"strings"
	"time"
)

// ExerciseRecord is one canonical entry in the exercise catalog.
// Records are created and updated through bulk upsert keyed by Slug;
// the generation pipeline never deletes them.
type ExerciseRecord struct {
	ID        int64     `bson:"_id" json:"id"`
	Slug      string    `bson:"slug" json:"slug"` // Derived from Name, unique
	Name      string    `bson:"name" json:"name"`
	Aliases   []string  `bson:"aliases,omitempty" json:"aliases,omitempty"`
	BodyPart  string    `bson:"bodyPart,omitempty" json:"bodyPart,omitempty"`   // e.g. "chest", "legs", "full-body"
	Equipment []string  `bson:"equipment,omitempty" json:"equipment,omitempty"` // Empty means bodyweight only
	Pattern   string    `bson:"pattern,omitempty" json:"pattern,omitempty"`     // Movement pattern, e.g. "push", "hinge"
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the unique slug for an exercise name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStripRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// RequiresEquipment reports whether the exercise needs any gear beyond
// the user's own bodyweight.
func (e ExerciseRecord) RequiresEquipment() bool {
	for _, eq := range e.Equipment {
		if !strings.EqualFold(eq, "bodyweight") && eq != "" {
			return true
		}
	}
	return false
}
