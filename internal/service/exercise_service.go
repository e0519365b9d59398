package service

import (
	"context"
	"errors"
	"fmt"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/repository"

	"github.com/sirupsen/logrus"
)

// MaxBulkUpsertBatch caps one maintenance batch.
const MaxBulkUpsertBatch = 100

// BulkUpsertSummary reports what a catalog maintenance batch did.
type BulkUpsertSummary struct {
	Inserted         int      `json:"inserted"`
	Updated          int      `json:"updated"`
	Skipped          int      `json:"skipped"`
	ValidationErrors []string `json:"validationErrors"`
}

// ExerciseService is the catalog's maintenance surface. Generation only
// ever reads the catalog; writes come exclusively through here.
type ExerciseService interface {
	BulkUpsert(ctx context.Context, records []domain.ExerciseRecord) (BulkUpsertSummary, error)
	ListExercises(ctx context.Context) ([]domain.ExerciseRecord, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	retry        RetryPolicy
	logger       *logrus.Logger
}

// NewExerciseService creates a new instance of exerciseService. The retry
// policy is applied to every store operation.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, retry RetryPolicy, logger *logrus.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		retry:        retry,
		logger:       logger,
	}
}

// BulkUpsert validates each record, derives its slug from the name, and
// writes the valid remainder keyed by slug. Invalid records are skipped
// and reported; they never abort the batch.
func (s *exerciseService) BulkUpsert(ctx context.Context, records []domain.ExerciseRecord) (BulkUpsertSummary, error) {
	if len(records) == 0 {
		return BulkUpsertSummary{}, ErrEmptyBatch
	}
	if len(records) > MaxBulkUpsertBatch {
		return BulkUpsertSummary{}, ErrBatchTooLarge
	}

	summary := BulkUpsertSummary{}
	seenSlugs := make(map[string]bool, len(records))
	valid := make([]domain.ExerciseRecord, 0, len(records))

	for i, rec := range records {
		if rec.Name == "" {
			summary.Skipped++
			summary.ValidationErrors = append(summary.ValidationErrors,
				fmt.Sprintf("record %d: name is required", i))
			continue
		}
		if rec.ID <= 0 {
			summary.Skipped++
			summary.ValidationErrors = append(summary.ValidationErrors,
				fmt.Sprintf("record %d (%s): id must be a positive integer", i, rec.Name))
			continue
		}
		rec.Slug = domain.Slugify(rec.Name)
		if seenSlugs[rec.Slug] {
			summary.Skipped++
			summary.ValidationErrors = append(summary.ValidationErrors,
				fmt.Sprintf("record %d (%s): duplicate slug %q in batch", i, rec.Name, rec.Slug))
			continue
		}
		seenSlugs[rec.Slug] = true
		valid = append(valid, rec)
	}

	if len(valid) == 0 {
		return summary, nil
	}

	var outcome repository.BulkUpsertOutcome
	var partial *repository.BulkWriteError
	err := s.retry.Do(ctx, func() error {
		var opErr error
		outcome, opErr = s.exerciseRepo.BulkUpsert(ctx, valid)
		if errors.As(opErr, &partial) {
			return nil // The batch landed; per-record refusals are a verdict, not an outage
		}
		return opErr
	})
	if err != nil {
		// Store outage, not a validation outcome. The caller must see it fail.
		return BulkUpsertSummary{}, err
	}

	if partial != nil {
		s.logger.WithError(partial).Warn("bulk upsert completed with write errors")
		summary.Skipped += len(valid) - outcome.Inserted - outcome.Updated
		summary.ValidationErrors = append(summary.ValidationErrors, partial.Messages...)
	}
	summary.Inserted = outcome.Inserted
	summary.Updated = outcome.Updated
	return summary, nil
}

// ListExercises returns the full catalog.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.ExerciseRecord, error) {
	var records []domain.ExerciseRecord
	err := s.retry.Do(ctx, func() error {
		var opErr error
		records, opErr = s.exerciseRepo.List(ctx)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
