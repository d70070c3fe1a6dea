package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
)

// CreateTagUseCase tags HEAD with a release version.
type CreateTagUseCase struct {
	GitRepo repository.GitRepository
}

// Execute creates an annotated tag for release. With requireClean the tag is
// refused while the working tree has uncommitted changes.
func (uc *CreateTagUseCase) Execute(ctx context.Context, release *domain.Release, requireClean bool) error {
	if release == nil || release.Version == nil {
		return fmt.Errorf("release version cannot be nil")
	}
	if requireClean {
		modified, untracked, err := uc.GitRepo.WorkingTreeStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to get working tree status: %w", err)
		}
		if len(modified)+len(untracked) > 0 {
			return fmt.Errorf("%w: %d modified, %d untracked", ErrDirtyWorkingTree, len(modified), len(untracked))
		}
	}
	exists, err := uc.GitRepo.TagExists(ctx, release.TagName)
	if err != nil {
		return fmt.Errorf("failed to check tag %s: %w", release.TagName, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTagExists, release.TagName)
	}
	msg := fmt.Sprintf("Release %s", release.Version)
	if err := uc.GitRepo.CreateTag(ctx, release.TagName, msg); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", release.TagName, err)
	}
	return nil
}
