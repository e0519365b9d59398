package catalog

import (
	"context"
	"fmt"
	"sort"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/repository"

	"github.com/sirupsen/logrus"
)

// NotFoundError is returned when no strategy resolves an exercise name.
// Callers aggregate these before deciding the pipeline outcome.
type NotFoundError struct {
	ExerciseName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("exercise not found: %s", e.ExerciseName)
}

// Resolver loads catalog snapshots and resolves free-text exercise names
// against them. When the primary store is unreachable it falls back to the
// fixed seed registry instead of failing outright.
type Resolver struct {
	repo       repository.ExerciseRepository
	seed       []domain.ExerciseRecord
	strategies []MatchStrategy
	logger     *logrus.Logger
}

// NewResolver creates a Resolver over the given store with the canonical
// strategy chain.
func NewResolver(repo repository.ExerciseRepository, logger *logrus.Logger) *Resolver {
	return &Resolver{
		repo:       repo,
		seed:       SeedRegistry(),
		strategies: DefaultStrategies(),
		logger:     logger,
	}
}

// Snapshot is an immutable view of the catalog at one point in time.
// All names resolved within one pipeline run use the same snapshot, so
// matching is deterministic and order-stable for that run.
type Snapshot struct {
	entries      []domain.ExerciseRecord
	byID         map[int64]domain.ExerciseRecord
	strategies   []MatchStrategy
	FromFallback bool
}

// Load fetches the catalog. On store failure it logs the outage and serves
// the seed registry so resolution keeps working while persistence flaps.
func (r *Resolver) Load(ctx context.Context) *Snapshot {
	entries, err := r.repo.List(ctx)
	fromFallback := false
	if err != nil || len(entries) == 0 {
		if err != nil {
			r.logger.WithError(err).Warn("exercise catalog unavailable, using seed registry")
		}
		entries = r.seed
		fromFallback = true
	}
	return r.newSnapshot(entries, fromFallback)
}

func (r *Resolver) newSnapshot(entries []domain.ExerciseRecord, fromFallback bool) *Snapshot {
	sorted := make([]domain.ExerciseRecord, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[int64]domain.ExerciseRecord, len(sorted))
	for _, e := range sorted {
		byID[e.ID] = e
	}
	return &Snapshot{
		entries:      sorted,
		byID:         byID,
		strategies:   r.strategies,
		FromFallback: fromFallback,
	}
}

// Resolve maps a free-text name to a catalog id. Strategies run in order
// and the first hit wins. Pure lookup, no side effects.
func (s *Snapshot) Resolve(name string) (int64, error) {
	input := Normalize(name)
	if input == "" {
		return 0, &NotFoundError{ExerciseName: name}
	}
	for _, strategy := range s.strategies {
		if id, ok := strategy.Match(input, s.entries); ok {
			return id, nil
		}
	}
	return 0, &NotFoundError{ExerciseName: name}
}

// Get returns the entry for an id.
func (s *Snapshot) Get(id int64) (domain.ExerciseRecord, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Entries returns the snapshot's records, sorted by id.
func (s *Snapshot) Entries() []domain.ExerciseRecord {
	return s.entries
}
