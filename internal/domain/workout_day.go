package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayStatus tracks the generation lifecycle of a WorkoutDay.
type DayStatus string

const (
	StatusPending    DayStatus = "pending"    // Deferred: date is not today yet
	StatusGenerating DayStatus = "generating" // A generation task is in flight
	StatusReady      DayStatus = "ready"      // Terminal: validated payload persisted
	StatusError      DayStatus = "error"      // Terminal: generation failed, reason persisted
)

// IsTerminal reports whether no further automatic action will be taken
// for this status without a new explicit request.
func (s DayStatus) IsTerminal() bool {
	return s == StatusReady || s == StatusError
}

// WorkoutDay is the single row per (userId, date). The pair is unique;
// Payload is non-nil exactly when Status is ready or error.
type WorkoutDay struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"` // Opaque identifier owned by the identity collaborator
	Date        string             `bson:"date" json:"date"`     // Calendar date, "YYYY-MM-DD"
	Status      DayStatus          `bson:"status" json:"status"`
	Payload     *WorkoutPayload    `bson:"payload,omitempty" json:"payload,omitempty"`
	ErrorReason string             `bson:"errorReason,omitempty" json:"errorReason,omitempty"` // Set only for status=error
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"` // Set only on the transition into ready
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DateLayout is the canonical calendar-date format for WorkoutDay rows.
const DateLayout = "2006-01-02"
