package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCalculateVersionUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	t.Run("Should bump the numerically highest tag", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("Fetch", ctx, "origin").Return(nil)
		gitRepo.On("ListTags", ctx).Return([]string{"1.2.3", "1.10.0", "1.9.9"}, nil)
		gitRepo.On("TagExists", ctx, "1.11.0").Return(false, nil)
		uc := &CalculateVersionUseCase{GitRepo: gitRepo, Remote: "origin"}
		plan, err := uc.Execute(ctx, domain.BumpMinor, true)
		require.NoError(t, err)
		assert.Equal(t, "1.10.0", plan.PreviousTag)
		assert.Equal(t, "1.11.0", plan.Next.String())
		assert.Equal(t, "1.11.0", plan.NextTag)
		gitRepo.AssertExpectations(t)
	})
	t.Run("Should start from zero without tags", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("ListTags", ctx).Return([]string{}, nil)
		gitRepo.On("TagExists", ctx, "0.0.1").Return(false, nil)
		uc := &CalculateVersionUseCase{GitRepo: gitRepo, Remote: "origin"}
		plan, err := uc.Execute(ctx, domain.BumpPatch, false)
		require.NoError(t, err)
		assert.Nil(t, plan.Previous)
		assert.Empty(t, plan.PreviousTag)
		assert.Equal(t, "0.0.1", plan.NextTag)
		gitRepo.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})
	t.Run("Should honour tag prefix and skip malformed tags", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("ListTags", ctx).Return([]string{"v2.3.4", "2.9.0", "v2.3", "nightly"}, nil)
		gitRepo.On("TagExists", ctx, "v3.0.0").Return(false, nil)
		uc := &CalculateVersionUseCase{GitRepo: gitRepo, Remote: "origin", TagPrefix: "v"}
		plan, err := uc.Execute(ctx, domain.BumpMajor, false)
		require.NoError(t, err)
		assert.Equal(t, "v2.3.4", plan.PreviousTag)
		assert.Equal(t, "v3.0.0", plan.NextTag)
		assert.ElementsMatch(t, []string{"2.9.0", "v2.3", "nightly"}, plan.SkippedTags)
	})
	t.Run("Should continue with local tags when fetch is unavailable", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("Fetch", ctx, "origin").Return(fmt.Errorf("%w: offline", domain.ErrSyncUnavailable))
		gitRepo.On("ListTags", ctx).Return([]string{"0.1.0"}, nil)
		gitRepo.On("TagExists", ctx, "0.1.1").Return(false, nil)
		uc := &CalculateVersionUseCase{GitRepo: gitRepo, Remote: "origin"}
		plan, err := uc.Execute(ctx, domain.BumpPatch, true)
		require.NoError(t, err)
		assert.ErrorIs(t, plan.FetchErr, domain.ErrSyncUnavailable)
		assert.Equal(t, "0.1.1", plan.NextTag)
	})
	t.Run("Should use local tags quietly when no remote is configured", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("Fetch", ctx, "origin").Return(fmt.Errorf("%w: remote origin is not configured", domain.ErrNoTrackingBranch))
		gitRepo.On("ListTags", ctx).Return([]string{"0.1.0"}, nil)
		gitRepo.On("TagExists", ctx, "0.2.0").Return(false, nil)
		uc := &CalculateVersionUseCase{GitRepo: gitRepo, Remote: "origin"}
		plan, err := uc.Execute(ctx, domain.BumpMinor, true)
		require.NoError(t, err)
		assert.NoError(t, plan.FetchErr)
		assert.Equal(t, "0.2.0", plan.NextTag)
	})
	t.Run("Should refuse an existing tag", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("ListTags", ctx).Return([]string{"1.0.0"}, nil)
		gitRepo.On("TagExists", ctx, "1.0.1").Return(true, nil)
		uc := &CalculateVersionUseCase{GitRepo: gitRepo, Remote: "origin"}
		_, err := uc.Execute(ctx, domain.BumpPatch, false)
		assert.ErrorIs(t, err, ErrTagExists)
	})
	t.Run("Should handle error when listing tags", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("ListTags", ctx).Return(nil, errors.New("git error"))
		uc := &CalculateVersionUseCase{GitRepo: gitRepo, Remote: "origin"}
		_, err := uc.Execute(ctx, domain.BumpPatch, false)
		assert.ErrorContains(t, err, "failed to list tags")
	})
}

func TestVersionPlan_Release(t *testing.T) {
	t.Run("Should carry plan fields into the release", func(t *testing.T) {
		date := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
		plan := &VersionPlan{
			Previous:    mustVersion("1.0.0"),
			PreviousTag: "1.0.0",
			Next:        mustVersion("1.1.0"),
			NextTag:     "1.1.0",
			Kind:        domain.BumpMinor,
		}
		release := plan.Release([]string{"Add widget"}, date)
		assert.Equal(t, "1.1.0", release.TagName)
		assert.Equal(t, "1.0.0", release.PreviousTag)
		assert.Equal(t, domain.BumpMinor, release.Kind)
		assert.Equal(t, []string{"Add widget"}, release.Changes)
		assert.Equal(t, date, release.Date)
	})
}
