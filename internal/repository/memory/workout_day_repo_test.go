package memory

import (
	"context"
	"testing"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimCreatesRow(t *testing.T) {
	repo := NewWorkoutDayRepository()

	day, err := repo.Claim(context.Background(), "user-1", "2026-03-04", domain.StatusGenerating, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGenerating, day.Status)
	assert.False(t, day.ID.IsZero())

	got, err := repo.GetByUserAndDate(context.Background(), "user-1", "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, day.ID, got.ID)
}

func TestClaimConflictsWithInFlightRow(t *testing.T) {
	repo := NewWorkoutDayRepository()

	_, err := repo.Claim(context.Background(), "user-1", "2026-03-04", domain.StatusGenerating, time.Time{})
	require.NoError(t, err)

	_, err = repo.Claim(context.Background(), "user-1", "2026-03-04", domain.StatusGenerating, time.Time{})
	assert.ErrorIs(t, err, repository.ErrClaimConflict)
}

func TestClaimReclaimsErrorRow(t *testing.T) {
	repo := NewWorkoutDayRepository()
	ctx := context.Background()

	_, err := repo.Claim(ctx, "user-1", "2026-03-04", domain.StatusGenerating, time.Time{})
	require.NoError(t, err)
	require.NoError(t, repo.Finalize(ctx, "user-1", "2026-03-04", domain.StatusError, nil, "boom"))

	day, err := repo.Claim(ctx, "user-1", "2026-03-04", domain.StatusGenerating, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGenerating, day.Status)
	assert.Empty(t, day.ErrorReason)
}

func TestClaimReclaimsStaleGeneratingRow(t *testing.T) {
	repo := NewWorkoutDayRepository()
	ctx := context.Background()

	first, err := repo.Claim(ctx, "user-1", "2026-03-04", domain.StatusGenerating, time.Time{})
	require.NoError(t, err)

	// The row's task is considered abandoned once updatedAt predates the
	// staleness cutoff.
	day, err := repo.Claim(ctx, "user-1", "2026-03-04", domain.StatusGenerating, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGenerating, day.Status)
	assert.Equal(t, first.ID, day.ID)
}

func TestClaimNeverReclaimsReadyRow(t *testing.T) {
	repo := NewWorkoutDayRepository()
	ctx := context.Background()

	_, err := repo.Claim(ctx, "user-1", "2026-03-04", domain.StatusGenerating, time.Time{})
	require.NoError(t, err)
	payload := &domain.WorkoutPayload{Date: "2026-03-04", Title: "Test", DurationMinutes: 30}
	require.NoError(t, repo.Finalize(ctx, "user-1", "2026-03-04", domain.StatusReady, payload, ""))

	_, err = repo.Claim(ctx, "user-1", "2026-03-04", domain.StatusGenerating, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, repository.ErrClaimConflict)
}

func TestFinalizeReadyClearsErrorAndStampsCompletion(t *testing.T) {
	repo := NewWorkoutDayRepository()
	ctx := context.Background()

	_, err := repo.Claim(ctx, "user-1", "2026-03-04", domain.StatusGenerating, time.Time{})
	require.NoError(t, err)

	payload := &domain.WorkoutPayload{Date: "2026-03-04", Title: "Test", DurationMinutes: 30}
	require.NoError(t, repo.Finalize(ctx, "user-1", "2026-03-04", domain.StatusReady, payload, ""))

	day, err := repo.GetByUserAndDate(ctx, "user-1", "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, day.Status)
	require.NotNil(t, day.Payload)
	assert.NotNil(t, day.CompletedAt)
}

func TestFinalizeUnknownRow(t *testing.T) {
	repo := NewWorkoutDayRepository()

	err := repo.Finalize(context.Background(), "user-1", "2026-03-04", domain.StatusError, nil, "boom")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetByUserAndDateRangeIsSortedAndScoped(t *testing.T) {
	repo := NewWorkoutDayRepository()
	ctx := context.Background()

	for _, date := range []string{"2026-03-06", "2026-03-02", "2026-03-04"} {
		_, err := repo.Claim(ctx, "user-1", date, domain.StatusPending, time.Time{})
		require.NoError(t, err)
	}
	_, err := repo.Claim(ctx, "user-2", "2026-03-03", domain.StatusPending, time.Time{})
	require.NoError(t, err)

	days, err := repo.GetByUserAndDateRange(ctx, "user-1", "2026-03-02", "2026-03-08")
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-03-02", days[0].Date)
	assert.Equal(t, "2026-03-04", days[1].Date)
	assert.Equal(t, "2026-03-06", days[2].Date)
}
