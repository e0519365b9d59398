package repository

import (
	"context"
	"strings"
	"time"

	"fitforge/coach-app/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrClaimConflict signals that another writer holds the (userId, date)
	// row in a state that forbids a new claim. The unique index on the pair
	// is the mutual-exclusion mechanism; losing the race surfaces as this.
	ErrClaimConflict = RepositoryError("generation already claimed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// BulkUpsertOutcome reports what a catalog bulk upsert actually did.
type BulkUpsertOutcome struct {
	Inserted int
	Updated  int
}

// BulkWriteError reports per-record write failures from a bulk upsert that
// otherwise completed. It is distinct from a store outage: the batch was
// delivered, some records were refused.
type BulkWriteError struct {
	Messages []string
}

func (e *BulkWriteError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// WorkoutDayRepository persists the one-row-per-(userId, date) state machine.
type WorkoutDayRepository interface {
	// GetByUserAndDate returns the row or ErrNotFound.
	GetByUserAndDate(ctx context.Context, userID, date string) (*domain.WorkoutDay, error)
	// GetByUserAndDateRange returns rows with from <= date <= to, ordered by date.
	GetByUserAndDateRange(ctx context.Context, userID, from, to string) ([]domain.WorkoutDay, error)
	// Claim upserts the row into the given non-terminal status (generating or
	// pending) with a nil payload. It succeeds when the row is absent, in a
	// claimable state (pending, error), or generating with updatedAt before
	// staleBefore (an abandoned in-flight task); it returns ErrClaimConflict
	// when a concurrent writer holds it as ready or freshly generating.
	Claim(ctx context.Context, userID, date string, status domain.DayStatus, staleBefore time.Time) (*domain.WorkoutDay, error)
	// Finalize moves the row into a terminal status. For ready the payload is
	// stored and completedAt stamped; for error the reason is stored instead.
	Finalize(ctx context.Context, userID, date string, status domain.DayStatus, payload *domain.WorkoutPayload, errorReason string) error
}

// ExerciseRepository is the catalog's persistence interface. The generation
// path only reads; writes happen through the slug-keyed bulk upsert.
type ExerciseRepository interface {
	List(ctx context.Context) ([]domain.ExerciseRecord, error)
	BulkUpsert(ctx context.Context, records []domain.ExerciseRecord) (BulkUpsertOutcome, error)
}
