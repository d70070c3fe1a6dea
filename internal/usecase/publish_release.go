package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
)

// PublishReleaseUseCase creates a hosted release for a pushed tag.
type PublishReleaseUseCase struct {
	Publisher repository.ReleasePublisher
	Notes     *PrepareReleaseNotesUseCase
}

// Execute publishes release and returns the release URL. The body is the
// changelog section written for the release, or rendered notes when the
// changelog was not updated.
func (uc *PublishReleaseUseCase) Execute(ctx context.Context, release *domain.Release) (string, error) {
	body, err := uc.body(ctx, release)
	if err != nil {
		return "", err
	}
	url, err := uc.Publisher.CreateRelease(ctx, release.TagName, release.TagName, body)
	if err != nil {
		return "", fmt.Errorf("failed to publish release: %w", err)
	}
	return url, nil
}

func (uc *PublishReleaseUseCase) body(ctx context.Context, release *domain.Release) (string, error) {
	if release != nil && release.Notes != "" {
		return release.Notes, nil
	}
	notes := uc.Notes
	if notes == nil {
		notes = &PrepareReleaseNotesUseCase{}
	}
	return notes.Execute(ctx, release)
}
