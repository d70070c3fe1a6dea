package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
	"go.uber.org/zap"
)

// VersionPlan is the outcome of a version calculation.
type VersionPlan struct {
	// Previous is nil when the repository has no version tags yet.
	Previous    *domain.Version
	PreviousTag string
	Next        *domain.Version
	NextTag     string
	Kind        domain.BumpKind
	SkippedTags []string
	// FetchErr is set when tags could not be refreshed from the remote and
	// only local tags were considered.
	FetchErr error
}

// CalculateVersionUseCase computes the next version from the numerically
// highest existing tag.
type CalculateVersionUseCase struct {
	GitRepo   repository.GitRepository
	Remote    string
	TagPrefix string
	Logger    *zap.Logger
}

// Execute fetches tags when fetch is set, picks the latest version and bumps
// it. A missing history starts from 0.0.0.
func (uc *CalculateVersionUseCase) Execute(ctx context.Context, kind domain.BumpKind, fetch bool) (*VersionPlan, error) {
	log := loggerOrNop(uc.Logger)
	plan := &VersionPlan{Kind: kind}
	if fetch {
		err := uc.GitRepo.Fetch(ctx, uc.Remote)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrNoTrackingBranch):
			log.Debug("remote not configured, using local tags", zap.String("remote", uc.Remote))
		case errors.Is(err, domain.ErrSyncUnavailable):
			log.Debug("tag fetch failed, using local tags", zap.Error(err))
			plan.FetchErr = err
		default:
			return nil, err
		}
	}
	tags, err := uc.GitRepo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	latest, skipped, found := domain.LatestVersion(tags, uc.TagPrefix)
	plan.SkippedTags = skipped
	base := domain.InitialVersion()
	if found {
		plan.Previous = latest
		plan.PreviousTag = latest.Tag(uc.TagPrefix)
		base = latest
	}
	plan.Next = base.Bump(kind)
	plan.NextTag = plan.Next.Tag(uc.TagPrefix)
	exists, err := uc.GitRepo.TagExists(ctx, plan.NextTag)
	if err != nil {
		return nil, fmt.Errorf("failed to check tag %s: %w", plan.NextTag, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrTagExists, plan.NextTag)
	}
	log.Debug("calculated next version",
		zap.String("previous", plan.PreviousTag),
		zap.String("next", plan.NextTag),
		zap.Stringer("kind", kind),
		zap.Strings("skipped", skipped),
	)
	return plan, nil
}

// Release builds the release described by the plan.
func (p *VersionPlan) Release(changes []string, date time.Time) *domain.Release {
	return &domain.Release{
		Previous:    p.Previous,
		PreviousTag: p.PreviousTag,
		Version:     p.Next,
		Kind:        p.Kind,
		TagName:     p.NextTag,
		Changes:     changes,
		Date:        date,
	}
}
