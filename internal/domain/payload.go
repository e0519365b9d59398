package domain

import (
	"encoding/json"
	"fmt"
)

// BlockType names a group of items within a WorkoutPayload. The string
// values are a compatibility contract with the rendering client and must
// not drift.
type BlockType string

const (
	BlockWarmup   BlockType = "warmup"
	BlockMain     BlockType = "main"
	BlockRecovery BlockType = "recovery"
)

// WorkoutPayload is the validated document generated for one day.
type WorkoutPayload struct {
	Date            string         `bson:"date" json:"date"`
	Title           string         `bson:"title" json:"title"`
	DurationMinutes int            `bson:"durationMinutes" json:"durationMinutes"`
	CoachNotes      string         `bson:"coachNotes,omitempty" json:"coachNotes,omitempty"`
	Blocks          []WorkoutBlock `bson:"blocks" json:"blocks"`
}

// WorkoutBlock is an ordered group of items of one type.
type WorkoutBlock struct {
	Type  BlockType     `bson:"type" json:"type"`
	Items []WorkoutItem `bson:"items" json:"items"`
}

// WorkoutItem is a single prescribed exercise within a block.
type WorkoutItem struct {
	ExerciseID  int64  `bson:"exerciseId" json:"exerciseId"`
	Name        string `bson:"name" json:"name"`
	Sets        int    `bson:"sets" json:"sets"`
	Reps        Reps   `bson:"reps" json:"reps"`
	Load        string `bson:"load,omitempty" json:"load,omitempty"`
	RestSeconds *int   `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
}

// Reps is either a positive repetition count or a free-text duration
// such as "30s hold". Exactly one of the two forms is set.
type Reps struct {
	Count    int    `bson:"count,omitempty"`
	Duration string `bson:"duration,omitempty"`
}

// IsDuration reports whether the free-text form is in use.
func (r Reps) IsDuration() bool {
	return r.Duration != ""
}

// String renders the reps the way the client displays them.
func (r Reps) String() string {
	if r.IsDuration() {
		return r.Duration
	}
	return fmt.Sprintf("%d", r.Count)
}

// MarshalJSON emits a bare number for counted reps and a string for
// duration reps, matching the wire contract.
func (r Reps) MarshalJSON() ([]byte, error) {
	if r.IsDuration() {
		return json.Marshal(r.Duration)
	}
	return json.Marshal(r.Count)
}

// UnmarshalJSON accepts a positive integer or a non-empty string.
// Anything else is rejected, not coerced.
func (r *Reps) UnmarshalJSON(data []byte) error {
	var count int
	if err := json.Unmarshal(data, &count); err == nil {
		if count <= 0 {
			return fmt.Errorf("reps count must be positive, got %d", count)
		}
		*r = Reps{Count: count}
		return nil
	}
	var duration string
	if err := json.Unmarshal(data, &duration); err == nil {
		if duration == "" {
			return fmt.Errorf("reps duration must not be empty")
		}
		*r = Reps{Duration: duration}
		return nil
	}
	return fmt.Errorf("reps must be a positive integer or a duration string, got %s", string(data))
}
