package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/releasehelper/internal/repository"
)

// StageChangesUseCase stages every tracked and untracked change.
type StageChangesUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case.
func (uc *StageChangesUseCase) Execute(ctx context.Context) error {
	if err := uc.GitRepo.StageAll(ctx); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// CommitChangesUseCase records the staged changes.
type CommitChangesUseCase struct {
	GitRepo repository.GitRepository
}

// Execute commits with message and returns the new commit hash.
func (uc *CommitChangesUseCase) Execute(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyCommitMessage
	}
	hash, err := uc.GitRepo.Commit(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to commit changes: %w", err)
	}
	return hash, nil
}
