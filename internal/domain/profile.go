package domain

// ProfileSnapshot is the read-only view of a user's training preferences
// supplied by the profile collaborator. The generation pipeline consumes
// it and never mutates it.
type ProfileSnapshot struct {
	UserID           string   `json:"userId"`
	Goal             string   `json:"goal"`             // e.g. "strength", "fat loss", "general fitness"
	Equipment        []string `json:"equipment"`        // Available equipment; bodyweight is always implied
	SessionMinutes   int      `json:"sessionMinutes"`   // Preferred session duration
	Injuries         []string `json:"injuries"`         // Exclusions, free text
	CoachingTone     string   `json:"coachingTone"`     // e.g. "encouraging", "drill sergeant"
	CardioPreference string   `json:"cardioPreference"` // e.g. "low impact", "none"
}
