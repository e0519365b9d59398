package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// workoutDayRepository is a process-lifetime, non-durable implementation of
// repository.WorkoutDayRepository. The orchestrator falls back to it when
// the primary store stays unreachable through the retry policy, so status
// queries keep working while durable storage is flapping. It is also the
// store used by the service tests.
type workoutDayRepository struct {
	mu   sync.RWMutex
	rows map[dayKey]*domain.WorkoutDay
}

type dayKey struct {
	userID string
	date   string
}

// NewWorkoutDayRepository creates an empty in-memory WorkoutDay store.
func NewWorkoutDayRepository() repository.WorkoutDayRepository {
	return &workoutDayRepository{
		rows: make(map[dayKey]*domain.WorkoutDay),
	}
}

func (r *workoutDayRepository) GetByUserAndDate(_ context.Context, userID, date string) (*domain.WorkoutDay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[dayKey{userID, date}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *workoutDayRepository) GetByUserAndDateRange(_ context.Context, userID, from, to string) ([]domain.WorkoutDay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var days []domain.WorkoutDay
	for key, row := range r.rows {
		if key.userID == userID && key.date >= from && key.date <= to {
			days = append(days, *row)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

func (r *workoutDayRepository) Claim(_ context.Context, userID, date string, status domain.DayStatus, staleBefore time.Time) (*domain.WorkoutDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := dayKey{userID, date}
	if existing, ok := r.rows[key]; ok {
		if existing.Status == domain.StatusReady {
			return nil, repository.ErrClaimConflict
		}
		if existing.Status == domain.StatusGenerating && !existing.UpdatedAt.Before(staleBefore) {
			return nil, repository.ErrClaimConflict
		}
		existing.Status = status
		existing.Payload = nil
		existing.ErrorReason = ""
		existing.CompletedAt = nil
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}

	row := &domain.WorkoutDay{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Date:      date,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.rows[key] = row
	cp := *row
	return &cp, nil
}

func (r *workoutDayRepository) Finalize(_ context.Context, userID, date string, status domain.DayStatus, payload *domain.WorkoutPayload, errorReason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[dayKey{userID, date}]
	if !ok {
		return repository.ErrNotFound
	}

	now := time.Now().UTC()
	row.Status = status
	row.UpdatedAt = now
	switch status {
	case domain.StatusReady:
		row.Payload = payload
		row.ErrorReason = ""
		row.CompletedAt = &now
	case domain.StatusError:
		row.Payload = nil
		row.ErrorReason = errorReason
		row.CompletedAt = nil
	}
	return nil
}
