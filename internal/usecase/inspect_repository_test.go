package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInspectRepo(ctx context.Context) *mockGitRepository {
	gitRepo := new(mockGitRepository)
	gitRepo.On("Root").Return("/work/widget")
	gitRepo.On("CurrentBranch", ctx).Return("main", nil)
	gitRepo.On("WorkingTreeStatus", ctx).Return([]string{"app.go"}, []string{"new.go"}, nil)
	gitRepo.On("ListTags", ctx).Return([]string{"1.2.3", "1.10.0", "1.9.9", "latest"}, nil)
	return gitRepo
}

func TestInspectRepositoryUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	t.Run("Should classify diverged branch and pick numeric latest tag", func(t *testing.T) {
		gitRepo := newInspectRepo(ctx)
		gitRepo.On("Fetch", ctx, "origin").Return(nil)
		gitRepo.On("TrackingBranch", ctx, "main").Return("origin/main", nil)
		gitRepo.On("ResolveRef", ctx, "main").Return("aaa", nil)
		gitRepo.On("ResolveRef", ctx, "origin/main").Return("bbb", nil)
		gitRepo.On("CommitsBetween", ctx, "origin/main", "main").Return([]domain.Commit{{Hash: "aaa"}}, nil)
		gitRepo.On("CommitsBetween", ctx, "main", "origin/main").Return([]domain.Commit{{Hash: "bbb"}}, nil)
		uc := &InspectRepositoryUseCase{GitRepo: gitRepo, Remote: "origin"}
		report, err := uc.Execute(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, "/work/widget", report.Root)
		assert.Equal(t, domain.SyncStatusDiverged, report.State.Status)
		assert.Equal(t, "1.10.0", report.LatestTag)
		assert.Equal(t, []string{"latest"}, report.SkippedTags)
		assert.Equal(t, []string{"app.go"}, report.State.Modified)
		assert.Equal(t, []string{"new.go"}, report.State.Untracked)
		assert.NoError(t, report.SyncErr)
		gitRepo.AssertExpectations(t)
	})
	t.Run("Should report in sync without listing commits when tips match", func(t *testing.T) {
		gitRepo := newInspectRepo(ctx)
		gitRepo.On("Fetch", ctx, "origin").Return(nil)
		gitRepo.On("TrackingBranch", ctx, "main").Return("origin/main", nil)
		gitRepo.On("ResolveRef", ctx, mock.Anything).Return("aaa", nil)
		uc := &InspectRepositoryUseCase{GitRepo: gitRepo, Remote: "origin"}
		report, err := uc.Execute(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, domain.SyncStatusInSync, report.State.Status)
		assert.True(t, report.State.Dirty())
		gitRepo.AssertNotCalled(t, "CommitsBetween", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("Should degrade to working tree when fetch fails", func(t *testing.T) {
		gitRepo := newInspectRepo(ctx)
		fetchErr := fmt.Errorf("%w: network down", domain.ErrSyncUnavailable)
		gitRepo.On("Fetch", ctx, "origin").Return(fetchErr)
		uc := &InspectRepositoryUseCase{GitRepo: gitRepo, Remote: "origin"}
		report, err := uc.Execute(ctx, false)
		require.NoError(t, err)
		assert.ErrorIs(t, report.SyncErr, domain.ErrSyncUnavailable)
		assert.False(t, report.State.Classified())
		assert.Equal(t, []string{"app.go"}, report.State.Modified)
		assert.Equal(t, "1.10.0", report.LatestTag)
		gitRepo.AssertNotCalled(t, "TrackingBranch", mock.Anything, mock.Anything)
	})
	t.Run("Should degrade when commit lists are unavailable", func(t *testing.T) {
		gitRepo := newInspectRepo(ctx)
		gitRepo.On("TrackingBranch", ctx, "main").Return("origin/main", nil)
		gitRepo.On("ResolveRef", ctx, "main").Return("aaa", nil)
		gitRepo.On("ResolveRef", ctx, "origin/main").Return("", errors.New("reference not found"))
		uc := &InspectRepositoryUseCase{GitRepo: gitRepo, Remote: "origin"}
		report, err := uc.Execute(ctx, true)
		require.NoError(t, err)
		assert.ErrorIs(t, report.SyncErr, domain.ErrSyncUnavailable)
		assert.False(t, report.State.Classified())
		gitRepo.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})
	t.Run("Should report missing tracking branch", func(t *testing.T) {
		gitRepo := newInspectRepo(ctx)
		gitRepo.On("TrackingBranch", ctx, "main").Return("", domain.ErrNoTrackingBranch)
		uc := &InspectRepositoryUseCase{GitRepo: gitRepo, Remote: "origin"}
		report, err := uc.Execute(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, domain.SyncStatusNoTrackingBranch, report.State.Status)
	})
	t.Run("Should report missing tracking branch when the remote is not configured", func(t *testing.T) {
		gitRepo := newInspectRepo(ctx)
		fetchErr := fmt.Errorf("%w: remote origin is not configured", domain.ErrNoTrackingBranch)
		gitRepo.On("Fetch", ctx, "origin").Return(fetchErr)
		uc := &InspectRepositoryUseCase{GitRepo: gitRepo, Remote: "origin"}
		report, err := uc.Execute(ctx, false)
		require.NoError(t, err)
		assert.NoError(t, report.SyncErr)
		assert.Equal(t, domain.SyncStatusNoTrackingBranch, report.State.Status)
		assert.Equal(t, "1.10.0", report.LatestTag)
		gitRepo.AssertNotCalled(t, "TrackingBranch", mock.Anything, mock.Anything)
	})
	t.Run("Should fail on non-sync fetch errors", func(t *testing.T) {
		gitRepo := newInspectRepo(ctx)
		gitRepo.On("Fetch", ctx, "origin").Return(context.Canceled)
		uc := &InspectRepositoryUseCase{GitRepo: gitRepo, Remote: "origin"}
		_, err := uc.Execute(ctx, false)
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("Should fail when branch cannot be read", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("Root").Return("/work/widget")
		gitRepo.On("CurrentBranch", ctx).Return("", errors.New("broken HEAD"))
		uc := &InspectRepositoryUseCase{GitRepo: gitRepo, Remote: "origin"}
		_, err := uc.Execute(ctx, true)
		assert.ErrorContains(t, err, "failed to get current branch")
	})
}
