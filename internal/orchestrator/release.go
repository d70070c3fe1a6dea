package orchestrator

import (
	"context"

	"github.com/compozy/releasehelper/internal/domain"
)

// ReleaseConfig contains the per-run options of the guided release.
type ReleaseConfig struct {
	// Bump is asked for when zero.
	Bump domain.BumpKind
	// Message is the commit message; asked for when empty.
	Message string
	Changes []string
	// Push offers the push steps.
	Push bool
	// Changelog appends and commits a changelog section.
	Changelog bool
	// Confirm asks before tagging.
	Confirm bool
	// Publish creates a GitHub release for the pushed tag.
	Publish bool
	DryRun  bool
}

// ReleaseOrchestrator runs the guided release: commit, push, bump, tag,
// changelog and publish, recording every side effect in a run journal.
type ReleaseOrchestrator struct {
	*workflow
}

// NewReleaseOrchestrator creates a new release orchestrator.
func NewReleaseOrchestrator(deps Dependencies, settings Settings) *ReleaseOrchestrator {
	return &ReleaseOrchestrator{workflow: newWorkflow(deps, settings)}
}

// Execute runs the release and returns its journal. Steps that completed
// before a failure stay done; the journal tells which ones.
func (o *ReleaseOrchestrator) Execute(ctx context.Context, cfg ReleaseConfig) (*domain.RunJournal, error) {
	store := o.deps.Journal
	if cfg.DryRun {
		store = nil
	}
	runner := NewStepRunner(store, o.deps.Logger)
	status, err := o.run(ctx, runner, cfg)
	if err != nil {
		runner.Finish(ctx, domain.RunStatusFailed)
		if store != nil {
			o.deps.Reporter.Warn("Run %s stopped. See completed steps with: release-helper last-run", runner.SessionID())
		}
		return runner.Journal(), err
	}
	runner.Finish(ctx, status)
	return runner.Journal(), nil
}

func (o *ReleaseOrchestrator) run(ctx context.Context, runner *StepRunner, cfg ReleaseConfig) (domain.RunStatus, error) {
	r := o.deps.Reporter
	p := o.deps.Prompter
	report, err := o.showStatus(ctx, runner)
	if err != nil {
		return "", err
	}
	state := report.State
	if !state.NeedsAction() && cfg.Bump == 0 {
		r.Info("Exiting as there are no changes or unpushed commits.")
		return domain.RunStatusAborted, nil
	}
	message := cfg.Message
	if state.Dirty() {
		ok, err := p.Confirm("Do you want to stage these changes?")
		if err != nil {
			return "", err
		}
		if !ok {
			r.Info("Exiting without staging changes.")
			return domain.RunStatusAborted, nil
		}
		if message, err = o.askCommitMessage(message); err != nil {
			return "", err
		}
		if err := o.stageAndCommit(ctx, runner, message, cfg.DryRun); err != nil {
			return "", err
		}
	} else {
		runner.Skip(ctx, domain.StepTypeStage, "working tree clean")
		runner.Skip(ctx, domain.StepTypeCommit, "working tree clean")
	}
	push := false
	if cfg.Push {
		if push, err = p.Confirm("Do you want to push the changes?"); err != nil {
			return "", err
		}
	}
	if push {
		if err := o.pushBranch(ctx, runner, state.Branch, cfg.DryRun); err != nil {
			return "", err
		}
	} else {
		runner.Skip(ctx, domain.StepTypePushBranch, "push declined")
	}
	if cfg.Bump == 0 {
		ok, err := p.Confirm("Do you want to bump the version?")
		if err != nil {
			return "", err
		}
		if !ok {
			r.Info("Finished without a version bump.")
			return domain.RunStatusCompleted, nil
		}
	}
	release, err := o.tagRelease(ctx, runner, state.Branch, tagOptions{
		Bump:           cfg.Bump,
		Changes:        cfg.Changes,
		FallbackChange: message,
		Confirm:        cfg.Confirm,
		Changelog:      cfg.Changelog,
		Push:           push,
		Publish:        cfg.Publish,
		DryRun:         cfg.DryRun,
		RequireClean:   true,
	})
	if err != nil {
		return "", err
	}
	if release == nil {
		return domain.RunStatusAborted, nil
	}
	if cfg.DryRun {
		r.Success("Dry run complete for %s", release.TagName)
	} else {
		r.Success("Released %s (run %s)", release.TagName, runner.SessionID())
	}
	return domain.RunStatusCompleted, nil
}
