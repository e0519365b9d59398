package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fitforge/coach-app/internal/cache"
	"fitforge/coach-app/internal/catalog"
	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/llm"
	"fitforge/coach-app/internal/prompt"
	"fitforge/coach-app/internal/repository"
	"fitforge/coach-app/internal/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Request-level statuses returned by the generate endpoints. These describe
// what the request did, not the row's lifecycle.
const (
	RequestGenerating = "generating"
	RequestPending    = "pending"
	RequestNoAction   = "no_action"
)

// DayRequestResult is the synchronous answer to a generate-day request.
// The actual outcome arrives asynchronously via the day's status.
type DayRequestResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WeekDayStatus is one per-date entry in a generate-week response.
type WeekDayStatus struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// GenerationService owns the per-day state machine: it accepts generation
// requests, runs the pipeline asynchronously for today's date, and serves
// day and week reads through the result cache.
type GenerationService interface {
	RequestDay(ctx context.Context, userID, date string) (DayRequestResult, error)
	RequestWeek(ctx context.Context, userID string) ([]WeekDayStatus, error)
	GetDay(ctx context.Context, userID, date string) (*domain.WorkoutDay, error)
	GetWeek(ctx context.Context, userID string) ([]domain.WorkoutDay, error)
	// Wait blocks until every in-flight generation task has finished.
	// Used on shutdown and in tests.
	Wait()
}

// GenerationConfig carries the orchestrator's tunables.
type GenerationConfig struct {
	Timeout time.Duration // Hard upper bound on one generation call
	Retry   RetryPolicy   // Applied to store operations only
}

// finalizeTimeout bounds the terminal-transition write after a generation
// task finishes. A generating row older than the generation timeout plus
// this grace period has no live task behind it and may be reclaimed.
const finalizeTimeout = 15 * time.Second

type generationService struct {
	store     *resilientDayStore
	resolver  *catalog.Resolver
	builder   *prompt.Builder
	generator llm.TextGenerator
	validator *validation.PayloadValidator
	profiles  ProfileProvider
	cache     *cache.ResultCache
	timeout   time.Duration
	logger    *logrus.Logger
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewGenerationService wires the orchestrator. fallbackRepo is the
// non-durable store used when the primary exhausts its retries.
func NewGenerationService(
	dayRepo repository.WorkoutDayRepository,
	fallbackRepo repository.WorkoutDayRepository,
	resolver *catalog.Resolver,
	builder *prompt.Builder,
	generator llm.TextGenerator,
	validator *validation.PayloadValidator,
	profiles ProfileProvider,
	resultCache *cache.ResultCache,
	cfg GenerationConfig,
	logger *logrus.Logger,
) GenerationService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &generationService{
		store:     newResilientDayStore(dayRepo, fallbackRepo, cfg.Retry, logger),
		resolver:  resolver,
		builder:   builder,
		generator: generator,
		validator: validator,
		profiles:  profiles,
		cache:     resultCache,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// RequestDay runs the state machine's entry transition for one (user, date)
// key. It returns immediately; for today's date the pipeline continues in
// its own goroutine bounded by the generation timeout.
func (s *generationService) RequestDay(ctx context.Context, userID, date string) (DayRequestResult, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return DayRequestResult{}, ErrInvalidDate
	}

	existing, err := s.store.GetByUserAndDate(ctx, userID, date)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return DayRequestResult{}, err
	}

	// A generating row whose task has outlived the generation timeout plus
	// the finalize grace is abandoned (e.g. the primary was down at finalize
	// time); it may be reclaimed instead of blocking the key forever.
	staleBefore := s.now().Add(-(s.timeout + finalizeTimeout))

	if existing != nil {
		switch existing.Status {
		case domain.StatusGenerating:
			if existing.UpdatedAt.After(staleBefore) {
				return DayRequestResult{Status: RequestNoAction, Message: "generation already in progress"}, nil
			}
		case domain.StatusReady:
			return DayRequestResult{Status: RequestNoAction, Message: "workout already generated"}, nil
		}
	}

	today := s.today()
	if date != today {
		// Deferred generation: the row waits as pending until the date is
		// today and a new explicit request arrives. No background sweep.
		if _, err := s.store.Claim(ctx, userID, date, domain.StatusPending, staleBefore); err != nil {
			if errors.Is(err, repository.ErrClaimConflict) {
				return DayRequestResult{Status: RequestNoAction, Message: "generation already in progress"}, nil
			}
			return DayRequestResult{}, err
		}
		return DayRequestResult{Status: RequestPending, Message: "generation deferred until " + date}, nil
	}

	if _, err := s.store.Claim(ctx, userID, date, domain.StatusGenerating, staleBefore); err != nil {
		if errors.Is(err, repository.ErrClaimConflict) {
			// A concurrent request won the upsert; one in-flight task per key.
			return DayRequestResult{Status: RequestNoAction, Message: "generation already in progress"}, nil
		}
		return DayRequestResult{}, err
	}

	s.wg.Add(1)
	go s.runGeneration(userID, date)

	return DayRequestResult{Status: RequestGenerating, Message: "workout generation started"}, nil
}

// RequestWeek triggers day generation for all 7 dates of the current week
// and reports each date's request status.
func (s *generationService) RequestWeek(ctx context.Context, userID string) ([]WeekDayStatus, error) {
	from, _ := s.weekRange()

	start, err := time.Parse(domain.DateLayout, from)
	if err != nil {
		return nil, err
	}

	statuses := make([]WeekDayStatus, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(domain.DateLayout)
		result, err := s.RequestDay(ctx, userID, date)
		if err != nil {
			statuses = append(statuses, WeekDayStatus{Date: date, Status: RequestNoAction, Message: err.Error()})
			continue
		}
		statuses = append(statuses, WeekDayStatus{Date: date, Status: result.Status, Message: result.Message})
	}
	return statuses, nil
}

// GetDay reads one row. Today's row goes through the result cache.
func (s *generationService) GetDay(ctx context.Context, userID, date string) (*domain.WorkoutDay, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	isToday := date == s.today()
	if isToday {
		if days, ok := s.cache.Get(userID, cache.ScopeToday, date); ok && len(days) == 1 {
			day := days[0]
			return &day, nil
		}
	}

	day, err := s.store.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	if isToday {
		s.cache.Set(userID, cache.ScopeToday, date, []domain.WorkoutDay{*day})
	}
	return day, nil
}

// GetWeek reads all rows of the current week through the week cache. The
// entry is tagged with the week's start date, so a value cached just before
// the Monday rollover can never serve the new week.
func (s *generationService) GetWeek(ctx context.Context, userID string) ([]domain.WorkoutDay, error) {
	from, to := s.weekRange()

	if days, ok := s.cache.Get(userID, cache.ScopeWeek, from); ok {
		return days, nil
	}

	days, err := s.store.GetByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	s.cache.Set(userID, cache.ScopeWeek, from, days)
	return days, nil
}

func (s *generationService) Wait() {
	s.wg.Wait()
}

// runGeneration is the asynchronous pipeline for one claimed day: prompt
// assembly, the bounded generation call, strict parsing, name-to-id
// mapping, validation, and the terminal transition. Every failure mode is
// classified into the row's error reason; nothing propagates.
func (s *generationService) runGeneration(userID, date string) {
	defer s.wg.Done()

	attemptID := uuid.NewString()
	logger := s.logger.WithFields(logrus.Fields{
		"attemptId": attemptID,
		"userId":    userID,
		"date":      date,
	})

	// Deliberately not the request context: an accepted generation outlives
	// the HTTP call that triggered it.
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	payload, reason := s.generate(ctx, logger, userID, date)

	finalizeCtx, finalizeCancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer finalizeCancel()

	if reason != "" {
		logger.WithField("reason", reason).Warn("workout generation failed")
		if err := s.store.Finalize(finalizeCtx, userID, date, domain.StatusError, nil, reason); err != nil {
			logger.WithError(err).Error("failed to persist error outcome")
		}
	} else {
		logger.Info("workout generation succeeded")
		if err := s.store.Finalize(finalizeCtx, userID, date, domain.StatusReady, payload, ""); err != nil {
			logger.WithError(err).Error("failed to persist ready outcome")
		}
	}

	// Terminal transition: drop memoized reads so clients see it promptly.
	s.cache.Invalidate(userID)
}

// generate runs the pipeline up to (not including) the terminal transition.
// A non-empty reason means failure.
func (s *generationService) generate(ctx context.Context, logger *logrus.Entry, userID, date string) (*domain.WorkoutPayload, string) {
	profile, err := s.profiles.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Sprintf("profile snapshot unavailable: %v", err)
	}

	snap := s.resolver.Load(ctx)
	if snap.FromFallback {
		logger.Warn("generating against seed registry catalog")
	}

	req := s.builder.Build(profile, snap, date)
	logger.WithField("vocabularySize", req.VocabularySize).Debug("prompt assembled")

	raw, err := s.generator.GenerateWorkout(ctx, req.Prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Sprintf("generation call timeout after %s", s.timeout)
		}
		return nil, fmt.Sprintf("generation call failed: %v", err)
	}

	payload, err := parseWorkoutPayload(raw)
	if err != nil {
		return nil, fmt.Sprintf("model output could not be parsed as a workout document: %v", err)
	}
	payload.Date = date

	if notFound := s.mapExerciseIDs(payload, snap); len(notFound) > 0 {
		return nil, strings.Join(notFound, "; ")
	}

	if result := s.validator.Validate(payload, snap); !result.OK {
		return nil, "workout validation failed: " + strings.Join(result.Errors, "; ")
	}

	return payload, ""
}

// mapExerciseIDs resolves each item's name to a catalog id. Items the model
// already stamped with an id keep it; the validator's cross-check pass
// catches disagreements. All misses are aggregated before failing.
func (s *generationService) mapExerciseIDs(payload *domain.WorkoutPayload, snap *catalog.Snapshot) []string {
	var notFound []string
	for bi := range payload.Blocks {
		for ii := range payload.Blocks[bi].Items {
			item := &payload.Blocks[bi].Items[ii]
			if item.ExerciseID != 0 {
				continue
			}
			id, err := snap.Resolve(item.Name)
			if err != nil {
				notFound = append(notFound, err.Error())
				continue
			}
			item.ExerciseID = id
		}
	}
	return notFound
}

// parseWorkoutPayload strictly decodes the raw completion. Malformed or
// partial documents are rejected, never patched.
func parseWorkoutPayload(raw string) (*domain.WorkoutPayload, error) {
	dec := json.NewDecoder(strings.NewReader(llm.CleanJSONBlock(raw)))
	dec.DisallowUnknownFields()

	var payload domain.WorkoutPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after workout document")
	}
	return &payload, nil
}

func (s *generationService) today() string {
	return s.now().Format(domain.DateLayout)
}

// weekRange returns the Monday and Sunday of the current week.
func (s *generationService) weekRange() (string, string) {
	now := s.now()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := now.AddDate(0, 0, 1-weekday)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(domain.DateLayout), sunday.Format(domain.DateLayout)
}
