package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
	"github.com/compozy/releasehelper/internal/service"
)

// UpdateChangelogUseCase appends a release section to the changelog and
// commits it.
type UpdateChangelogUseCase struct {
	GitRepo     repository.GitRepository
	Changelog   service.ChangelogService
	File        string
	IncludeDiff bool
}

// Write renders and appends the section, returning its text.
func (uc *UpdateChangelogUseCase) Write(ctx context.Context, release *domain.Release) (string, error) {
	diff := ""
	if uc.IncludeDiff && release.PreviousTag != "" {
		stat, err := uc.GitRepo.DiffStat(ctx, release.PreviousTag, "HEAD")
		if err != nil {
			return "", fmt.Errorf("failed to compute diff since %s: %w", release.PreviousTag, err)
		}
		diff = stat
	}
	section := uc.Changelog.Render(*release, diff)
	path := filepath.Join(uc.GitRepo.Root(), uc.File)
	if err := uc.Changelog.Append(ctx, path, section); err != nil {
		return "", fmt.Errorf("failed to update changelog: %w", err)
	}
	return section, nil
}

// Commit stages the changelog and commits it, returning the commit hash.
func (uc *UpdateChangelogUseCase) Commit(ctx context.Context, release *domain.Release) (string, error) {
	if err := uc.GitRepo.StagePaths(ctx, uc.File); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", uc.File, err)
	}
	hash, err := uc.GitRepo.Commit(ctx, fmt.Sprintf("Update %s for version %s", uc.File, release.Version))
	if err != nil {
		return "", fmt.Errorf("failed to commit %s: %w", uc.File, err)
	}
	return hash, nil
}
