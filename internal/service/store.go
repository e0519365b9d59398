package service

import (
	"context"
	"errors"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/repository"

	"github.com/sirupsen/logrus"
)

// resilientDayStore wraps the durable WorkoutDay store with the retry
// policy, and falls back to a non-durable in-memory store once retries are
// exhausted. Reads stay answerable while durable storage is flapping; the
// fallback lives only for the process lifetime.
type resilientDayStore struct {
	primary  repository.WorkoutDayRepository
	fallback repository.WorkoutDayRepository
	retry    RetryPolicy
	logger   *logrus.Logger
}

func newResilientDayStore(primary, fallback repository.WorkoutDayRepository, retry RetryPolicy, logger *logrus.Logger) *resilientDayStore {
	return &resilientDayStore{
		primary:  primary,
		fallback: fallback,
		retry:    retry,
		logger:   logger,
	}
}

func (s *resilientDayStore) GetByUserAndDate(ctx context.Context, userID, date string) (*domain.WorkoutDay, error) {
	var day *domain.WorkoutDay
	err := s.retry.Do(ctx, func() error {
		var opErr error
		day, opErr = s.primary.GetByUserAndDate(ctx, userID, date)
		if errors.Is(opErr, repository.ErrNotFound) {
			day = nil
			return nil // Absence is an answer, not a store failure
		}
		return opErr
	})
	if err != nil {
		s.logger.WithError(err).Warn("workout day store unreachable, reading in-memory fallback")
		return s.fallback.GetByUserAndDate(ctx, userID, date)
	}
	if day == nil {
		return nil, repository.ErrNotFound
	}
	return day, nil
}

func (s *resilientDayStore) GetByUserAndDateRange(ctx context.Context, userID, from, to string) ([]domain.WorkoutDay, error) {
	var days []domain.WorkoutDay
	err := s.retry.Do(ctx, func() error {
		var opErr error
		days, opErr = s.primary.GetByUserAndDateRange(ctx, userID, from, to)
		return opErr
	})
	if err != nil {
		s.logger.WithError(err).Warn("workout day store unreachable, reading in-memory fallback")
		return s.fallback.GetByUserAndDateRange(ctx, userID, from, to)
	}
	return days, nil
}

func (s *resilientDayStore) Claim(ctx context.Context, userID, date string, status domain.DayStatus, staleBefore time.Time) (*domain.WorkoutDay, error) {
	var day *domain.WorkoutDay
	err := s.retry.Do(ctx, func() error {
		var opErr error
		day, opErr = s.primary.Claim(ctx, userID, date, status, staleBefore)
		if errors.Is(opErr, repository.ErrClaimConflict) {
			day = nil
			return nil // Losing the claim race is a definitive outcome
		}
		return opErr
	})
	if err != nil {
		s.logger.WithError(err).Warn("workout day store unreachable, claiming in-memory fallback row")
		return s.fallback.Claim(ctx, userID, date, status, staleBefore)
	}
	if day == nil {
		return nil, repository.ErrClaimConflict
	}
	return day, nil
}

func (s *resilientDayStore) Finalize(ctx context.Context, userID, date string, status domain.DayStatus, payload *domain.WorkoutPayload, errorReason string) error {
	err := s.retry.Do(ctx, func() error {
		return s.primary.Finalize(ctx, userID, date, status, payload, errorReason)
	})
	if err != nil {
		s.logger.WithError(err).Warn("workout day store unreachable, finalizing in-memory fallback row")
		// The row may only exist in the fallback; claim it there if needed.
		if _, cErr := s.fallback.GetByUserAndDate(ctx, userID, date); errors.Is(cErr, repository.ErrNotFound) {
			if _, cErr = s.fallback.Claim(ctx, userID, date, domain.StatusGenerating, time.Time{}); cErr != nil {
				return err
			}
		}
		return s.fallback.Finalize(ctx, userID, date, status, payload, errorReason)
	}
	return nil
}
