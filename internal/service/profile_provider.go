package service

import (
	"context"

	"fitforge/coach-app/internal/domain"
)

// ProfileProvider hands out read-only preference snapshots. The real
// implementation lives with the profile collaborator; the pipeline only
// consumes snapshots and never writes them back.
type ProfileProvider interface {
	GetSnapshot(ctx context.Context, userID string) (domain.ProfileSnapshot, error)
}

// defaultProfileProvider serves a conservative bodyweight profile for
// users the profile collaborator has nothing on file for.
type defaultProfileProvider struct{}

// NewDefaultProfileProvider returns the stand-in provider used until the
// profile collaborator is wired in deployment config.
func NewDefaultProfileProvider() ProfileProvider {
	return defaultProfileProvider{}
}

func (defaultProfileProvider) GetSnapshot(_ context.Context, userID string) (domain.ProfileSnapshot, error) {
	return domain.ProfileSnapshot{
		UserID:         userID,
		Goal:           "general fitness",
		SessionMinutes: 30,
		CoachingTone:   "encouraging",
	}, nil
}
