package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
)

// PushChangesUseCase publishes the current branch and tags.
type PushChangesUseCase struct {
	GitRepo repository.GitRepository
	Remote  string
}

// PushBranch pushes branch to the configured remote.
func (uc *PushChangesUseCase) PushBranch(ctx context.Context, branch string) error {
	if branch == "" || branch == domain.DetachedHead {
		return fmt.Errorf("cannot push: %w", ErrDetachedHead)
	}
	if err := uc.GitRepo.PushBranch(ctx, uc.Remote, branch); err != nil {
		return fmt.Errorf("failed to push branch %s: %w", branch, err)
	}
	return nil
}

// PushTags pushes every local tag to the configured remote.
func (uc *PushChangesUseCase) PushTags(ctx context.Context) error {
	if err := uc.GitRepo.PushTags(ctx, uc.Remote); err != nil {
		return fmt.Errorf("failed to push tags: %w", err)
	}
	return nil
}
