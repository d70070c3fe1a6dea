package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
	"go.uber.org/zap"
)

// RepositoryReport is everything the status screens show about a repository.
type RepositoryReport struct {
	Root        string
	State       domain.SyncState
	Latest      *domain.Version
	LatestTag   string
	SkippedTags []string
	// SyncErr is set when remote state could not be obtained and State only
	// describes the working tree.
	SyncErr error
}

// InspectRepositoryUseCase gathers a sync snapshot and classifies it.
type InspectRepositoryUseCase struct {
	GitRepo   repository.GitRepository
	Remote    string
	TagPrefix string
	Logger    *zap.Logger
}

// Execute inspects the repository. Fetch failures degrade the report to the
// working tree instead of failing; offline skips the fetch entirely. A remote
// that is not configured classifies the branch as having no tracking branch.
func (uc *InspectRepositoryUseCase) Execute(ctx context.Context, offline bool) (*RepositoryReport, error) {
	log := loggerOrNop(uc.Logger)
	report := &RepositoryReport{Root: uc.GitRepo.Root()}
	branch, err := uc.GitRepo.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current branch: %w", err)
	}
	modified, untracked, err := uc.GitRepo.WorkingTreeStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get working tree status: %w", err)
	}
	remoteMissing := false
	if !offline {
		if err := uc.GitRepo.Fetch(ctx, uc.Remote); err != nil {
			switch {
			case errors.Is(err, domain.ErrNoTrackingBranch):
				log.Debug("remote not configured", zap.String("remote", uc.Remote))
				remoteMissing = true
			case errors.Is(err, domain.ErrSyncUnavailable):
				log.Debug("fetch failed, continuing with working tree only", zap.Error(err))
				report.SyncErr = err
			default:
				return nil, err
			}
		}
	}
	if err := uc.loadLatest(ctx, report); err != nil {
		return nil, err
	}
	if report.SyncErr != nil {
		report.State = domain.WorkingTreeOnly(branch, modified, untracked)
		return report, nil
	}
	snapshot := domain.SyncSnapshot{Branch: branch, Modified: modified, Untracked: untracked}
	if remoteMissing {
		report.State = domain.Classify(snapshot)
		return report, nil
	}
	tracking, err := uc.GitRepo.TrackingBranch(ctx, branch)
	switch {
	case errors.Is(err, domain.ErrNoTrackingBranch):
		log.Debug("no tracking branch", zap.String("branch", branch))
		report.State = domain.Classify(snapshot)
		return report, nil
	case err != nil:
		return nil, fmt.Errorf("failed to resolve tracking branch: %w", err)
	}
	snapshot.HasTracking = true
	snapshot.TrackingBranch = tracking
	if err := uc.fillCommits(ctx, &snapshot); err != nil {
		log.Debug("commit lists unavailable", zap.Error(err))
		report.SyncErr = err
		report.State = domain.WorkingTreeOnly(branch, modified, untracked)
		return report, nil
	}
	report.State = domain.Classify(snapshot)
	log.Debug("classified repository",
		zap.String("branch", branch),
		zap.String("status", string(report.State.Status)),
		zap.Int("ahead", len(snapshot.Ahead)),
		zap.Int("behind", len(snapshot.Behind)),
	)
	return report, nil
}

func (uc *InspectRepositoryUseCase) loadLatest(ctx context.Context, report *RepositoryReport) error {
	tags, err := uc.GitRepo.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	latest, skipped, found := domain.LatestVersion(tags, uc.TagPrefix)
	report.SkippedTags = skipped
	if found {
		report.Latest = latest
		report.LatestTag = latest.Tag(uc.TagPrefix)
	}
	return nil
}

func (uc *InspectRepositoryUseCase) fillCommits(ctx context.Context, s *domain.SyncSnapshot) error {
	localTip, err := uc.GitRepo.ResolveRef(ctx, s.Branch)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %w", domain.ErrSyncUnavailable, s.Branch, err)
	}
	remoteTip, err := uc.GitRepo.ResolveRef(ctx, s.TrackingBranch)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %w", domain.ErrSyncUnavailable, s.TrackingBranch, err)
	}
	s.LocalTip, s.RemoteTip = localTip, remoteTip
	if localTip == remoteTip {
		return nil
	}
	if s.Ahead, err = uc.GitRepo.CommitsBetween(ctx, s.TrackingBranch, s.Branch); err != nil {
		return fmt.Errorf("%w: list unpushed commits: %w", domain.ErrSyncUnavailable, err)
	}
	if s.Behind, err = uc.GitRepo.CommitsBetween(ctx, s.Branch, s.TrackingBranch); err != nil {
		return fmt.Errorf("%w: list unpulled commits: %w", domain.ErrSyncUnavailable, err)
	}
	return nil
}

func loggerOrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
