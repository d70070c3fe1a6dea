package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateChangelogUseCase_Write(t *testing.T) {
	ctx := context.Background()
	release := &domain.Release{
		Previous:    mustVersion("1.0.0"),
		PreviousTag: "1.0.0",
		Version:     mustVersion("1.1.0"),
		TagName:     "1.1.0",
		Changes:     []string{"Add widget"},
	}
	t.Run("Should append rendered section under repository root", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("Root").Return("/work/widget")
		changelog := new(mockChangelogService)
		changelog.On("Render", *release, "").Return("## [1.1.0] - 2026-10-17\n")
		changelog.On("Append", ctx, filepath.Join("/work/widget", "CHANGELOG.md"), "## [1.1.0] - 2026-10-17\n").Return(nil)
		uc := &UpdateChangelogUseCase{GitRepo: gitRepo, Changelog: changelog, File: "CHANGELOG.md"}
		section, err := uc.Write(ctx, release)
		require.NoError(t, err)
		assert.Equal(t, "## [1.1.0] - 2026-10-17\n", section)
		changelog.AssertExpectations(t)
		gitRepo.AssertNotCalled(t, "DiffStat", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("Should include diff since previous tag when enabled", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("Root").Return("/work/widget")
		gitRepo.On("DiffStat", ctx, "1.0.0", "HEAD").Return(" app.go | 3 ++-\n", nil)
		changelog := new(mockChangelogService)
		changelog.On("Render", *release, " app.go | 3 ++-\n").Return("section")
		changelog.On("Append", ctx, mock.Anything, "section").Return(nil)
		uc := &UpdateChangelogUseCase{GitRepo: gitRepo, Changelog: changelog, File: "CHANGELOG.md", IncludeDiff: true}
		_, err := uc.Write(ctx, release)
		require.NoError(t, err)
		gitRepo.AssertExpectations(t)
	})
	t.Run("Should wrap append failures", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("Root").Return("/work/widget")
		changelog := new(mockChangelogService)
		changelog.On("Render", mock.Anything, "").Return("section")
		changelog.On("Append", ctx, mock.Anything, "section").Return(errors.New("read-only"))
		uc := &UpdateChangelogUseCase{GitRepo: gitRepo, Changelog: changelog, File: "CHANGELOG.md"}
		_, err := uc.Write(ctx, release)
		assert.ErrorContains(t, err, "failed to update changelog: read-only")
	})
}

func TestUpdateChangelogUseCase_Commit(t *testing.T) {
	ctx := context.Background()
	release := &domain.Release{Version: mustVersion("1.1.0"), TagName: "1.1.0"}
	t.Run("Should stage only the changelog and commit it", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("StagePaths", ctx, []string{"CHANGELOG.md"}).Return(nil)
		gitRepo.On("Commit", ctx, "Update CHANGELOG.md for version 1.1.0").Return("def456", nil)
		uc := &UpdateChangelogUseCase{GitRepo: gitRepo, File: "CHANGELOG.md"}
		hash, err := uc.Commit(ctx, release)
		require.NoError(t, err)
		assert.Equal(t, "def456", hash)
		gitRepo.AssertExpectations(t)
	})
}
