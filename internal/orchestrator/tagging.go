package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
	"github.com/compozy/releasehelper/internal/service"
	"github.com/compozy/releasehelper/internal/usecase"
	"go.uber.org/zap"
)

var bumpKinds = []domain.BumpKind{domain.BumpMajor, domain.BumpMinor, domain.BumpPatch}

// tagOptions drive the tagging part of a release.
type tagOptions struct {
	// Bump is asked for when zero.
	Bump    domain.BumpKind
	Changes []string
	// FallbackChange is used when no change description is given.
	FallbackChange string
	Confirm        bool
	Changelog      bool
	Push           bool
	Publish        bool
	DryRun         bool
	RequireClean   bool
}

func (w *workflow) chooseBump(kind domain.BumpKind) (domain.BumpKind, error) {
	if kind != 0 {
		return kind, nil
	}
	options := make([]string, len(bumpKinds))
	for i, k := range bumpKinds {
		options[i] = k.String()
	}
	idx, err := w.deps.Prompter.Choose("Select the version bump type:", options)
	if err != nil {
		return 0, err
	}
	return bumpKinds[idx], nil
}

func (w *workflow) askChanges(opts tagOptions) ([]string, error) {
	changes := opts.Changes
	if len(changes) == 0 {
		answer, err := w.deps.Prompter.Ask("Enter the changes made in this version (comma-separated):")
		if err != nil {
			return nil, err
		}
		changes = service.SplitChanges(answer)
	}
	if len(changes) == 0 && opts.FallbackChange != "" {
		changes = []string{opts.FallbackChange}
	}
	return changes, nil
}

// planVersion computes the next version, fetching tags unless offline.
func (w *workflow) planVersion(ctx context.Context, runner *StepRunner, kind domain.BumpKind) (*usecase.VersionPlan, error) {
	var plan *usecase.VersionPlan
	_, err := runner.Run(ctx, Step{
		Type: domain.StepTypeFetchTags,
		Run: func(ctx context.Context) (map[string]any, error) {
			p, err := w.calculate.Execute(ctx, kind, !w.settings.Offline)
			if err != nil {
				return nil, err
			}
			plan = p
			details := map[string]any{
				"previous": p.PreviousTag,
				"next":     p.NextTag,
				"kind":     kind.String(),
				"offline":  w.settings.Offline,
			}
			if p.FetchErr != nil {
				details["fetch_error"] = p.FetchErr.Error()
			}
			return details, nil
		},
	})
	if err != nil {
		return nil, err
	}
	if plan.FetchErr != nil {
		w.deps.Reporter.Warn("Could not fetch tags from %s (%v). Using local tags only.", w.settings.Remote, plan.FetchErr)
	}
	if err := ValidateTagName(plan.NextTag); err != nil {
		return nil, err
	}
	return plan, nil
}

// tagRelease bumps the version, tags HEAD, updates the changelog and pushes.
// It returns a nil release when the operator cancels.
func (w *workflow) tagRelease(ctx context.Context, runner *StepRunner, branch string, opts tagOptions) (*domain.Release, error) {
	r := w.deps.Reporter
	kind, err := w.chooseBump(opts.Bump)
	if err != nil {
		return nil, err
	}
	plan, err := w.planVersion(ctx, runner, kind)
	if err != nil {
		return nil, err
	}
	runner.SetVersion(plan.Next.String())
	changes, err := w.askChanges(opts)
	if err != nil {
		return nil, err
	}
	release := plan.Release(changes, w.deps.Now())
	if opts.Confirm {
		from := domain.InitialVersion().String()
		if plan.Previous != nil {
			from = plan.Previous.String()
		}
		ok, err := w.deps.Prompter.Confirm(fmt.Sprintf(
			"You are about to bump the version from %s to %s. Continue?", from, plan.Next,
		))
		if err != nil {
			return nil, err
		}
		if !ok {
			r.Info("Version bump cancelled.")
			return nil, nil
		}
	}
	if err := w.createTag(ctx, runner, release, opts); err != nil {
		return nil, err
	}
	committed, err := w.updateChangelog(ctx, runner, release, opts)
	if err != nil {
		return nil, err
	}
	pushed, err := w.pushRelease(ctx, runner, branch, release, committed, opts)
	if err != nil {
		return nil, err
	}
	if err := w.publishRelease(ctx, runner, release, pushed, opts); err != nil {
		return nil, err
	}
	return release, nil
}

func (w *workflow) createTag(ctx context.Context, runner *StepRunner, release *domain.Release, opts tagOptions) error {
	_, done, err := w.sideEffect(ctx, runner, opts.DryRun, Step{
		Type: domain.StepTypeCreateTag,
		Run: func(ctx context.Context) (map[string]any, error) {
			if err := w.tag.Execute(ctx, release, opts.RequireClean); err != nil {
				return nil, err
			}
			return map[string]any{"tag": release.TagName}, nil
		},
	}, fmt.Sprintf("create tag %s", release.TagName))
	if err != nil {
		return err
	}
	if done {
		w.deps.Reporter.Success("Created tag %s", release.TagName)
	}
	return nil
}

func (w *workflow) updateChangelog(ctx context.Context, runner *StepRunner, release *domain.Release, opts tagOptions) (bool, error) {
	if !opts.Changelog {
		runner.Skip(ctx, domain.StepTypeUpdateChangelog, "changelog disabled")
		return false, nil
	}
	file := w.settings.ChangelogFile
	_, written, err := w.sideEffect(ctx, runner, opts.DryRun, Step{
		Type: domain.StepTypeUpdateChangelog,
		Run: func(ctx context.Context) (map[string]any, error) {
			section, err := w.changelog.Write(ctx, release)
			if err != nil {
				return nil, err
			}
			release.Notes = section
			return map[string]any{"file": file, "bytes": len(section)}, nil
		},
	}, fmt.Sprintf("append release %s to %s", release.Version, file))
	if err != nil || !written {
		return false, err
	}
	details, committed, err := w.sideEffect(ctx, runner, opts.DryRun, Step{
		Type: domain.StepTypeCommitChangelog,
		Run: func(ctx context.Context) (map[string]any, error) {
			hash, err := w.changelog.Commit(ctx, release)
			if err != nil {
				return nil, err
			}
			return map[string]any{"hash": hash}, nil
		},
	}, fmt.Sprintf("commit %s", file))
	if err != nil {
		return false, err
	}
	if committed {
		w.deps.Reporter.Success("Updated %s (%s)", file, shortHash(details["hash"]))
	}
	return committed, nil
}

func (w *workflow) pushRelease(
	ctx context.Context,
	runner *StepRunner,
	branch string,
	release *domain.Release,
	changelogCommitted bool,
	opts tagOptions,
) (bool, error) {
	if !opts.Push {
		runner.Skip(ctx, domain.StepTypePushTags, "push declined")
		if !opts.DryRun {
			w.deps.Reporter.Info("Tag %s was created locally. Push it with: git push %s %s",
				release.TagName, w.settings.Remote, release.TagName)
		}
		return false, nil
	}
	if changelogCommitted {
		if err := w.pushBranch(ctx, runner, branch, opts.DryRun); err != nil {
			return false, err
		}
	}
	_, done, err := w.sideEffect(ctx, runner, opts.DryRun, Step{
		Type:  domain.StepTypePushTags,
		Retry: true,
		Run: func(ctx context.Context) (map[string]any, error) {
			if err := w.push.PushTags(ctx); err != nil {
				return nil, err
			}
			return map[string]any{"remote": w.settings.Remote, "tag": release.TagName}, nil
		},
	}, fmt.Sprintf("push tags to %s", w.settings.Remote))
	if err != nil {
		return false, err
	}
	if done {
		w.deps.Reporter.Success("Pushed tag %s to %s", release.TagName, w.settings.Remote)
	}
	return done, nil
}

func (w *workflow) publishRelease(ctx context.Context, runner *StepRunner, release *domain.Release, pushed bool, opts tagOptions) error {
	if !opts.Publish {
		return nil
	}
	if !pushed && !opts.DryRun {
		runner.Skip(ctx, domain.StepTypePublishRelease, "tag not pushed")
		w.deps.Reporter.Warn("Skipping GitHub release: tag %s was not pushed.", release.TagName)
		return nil
	}
	var missingToken error
	details, done, err := w.sideEffect(ctx, runner, opts.DryRun, Step{
		Type: domain.StepTypePublishRelease,
		Run: func(ctx context.Context) (map[string]any, error) {
			url, err := w.publish.Execute(ctx, release)
			if errors.Is(err, repository.ErrGithubTokenRequired) {
				missingToken = err
				return map[string]any{"published": false, "reason": err.Error()}, nil
			}
			if err != nil {
				return nil, err
			}
			return map[string]any{"published": true, "url": url}, nil
		},
	}, fmt.Sprintf("publish GitHub release %s", release.TagName))
	if err != nil {
		return err
	}
	switch {
	case missingToken != nil:
		w.deps.Logger.Debug("release publishing skipped", zap.Error(missingToken))
		w.deps.Reporter.Warn("GitHub release not published: %v", missingToken)
	case done:
		w.deps.Reporter.Success("Published release %s", details["url"])
	}
	return nil
}
