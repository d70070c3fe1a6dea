package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
	"github.com/compozy/releasehelper/internal/service"
	"github.com/compozy/releasehelper/internal/ui"
	"github.com/compozy/releasehelper/internal/usecase"
	"go.uber.org/zap"
)

// Dependencies are the collaborators shared by the workflows.
type Dependencies struct {
	GitRepo   repository.GitRepository
	Changelog service.ChangelogService
	Publisher repository.ReleasePublisher
	// Journal may be nil to keep run journals in memory.
	Journal  repository.JournalRepository
	Reporter ui.Reporter
	Prompter ui.Prompter
	Logger   *zap.Logger
	Now      func() time.Time
}

// Settings are repository level options from the configuration.
type Settings struct {
	Remote        string
	TagPrefix     string
	ChangelogFile string
	IncludeDiff   bool
	Offline       bool
}

// workflow holds the use cases both orchestrators drive.
type workflow struct {
	deps     Dependencies
	settings Settings

	inspect   *usecase.InspectRepositoryUseCase
	calculate *usecase.CalculateVersionUseCase
	stage     *usecase.StageChangesUseCase
	commit    *usecase.CommitChangesUseCase
	push      *usecase.PushChangesUseCase
	tag       *usecase.CreateTagUseCase
	changelog *usecase.UpdateChangelogUseCase
	publish   *usecase.PublishReleaseUseCase
}

func newWorkflow(deps Dependencies, settings Settings) *workflow {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if settings.Remote == "" {
		settings.Remote = "origin"
	}
	if settings.ChangelogFile == "" {
		settings.ChangelogFile = "CHANGELOG.md"
	}
	return &workflow{
		deps:     deps,
		settings: settings,
		inspect: &usecase.InspectRepositoryUseCase{
			GitRepo:   deps.GitRepo,
			Remote:    settings.Remote,
			TagPrefix: settings.TagPrefix,
			Logger:    deps.Logger,
		},
		calculate: &usecase.CalculateVersionUseCase{
			GitRepo:   deps.GitRepo,
			Remote:    settings.Remote,
			TagPrefix: settings.TagPrefix,
			Logger:    deps.Logger,
		},
		stage:  &usecase.StageChangesUseCase{GitRepo: deps.GitRepo},
		commit: &usecase.CommitChangesUseCase{GitRepo: deps.GitRepo},
		push:   &usecase.PushChangesUseCase{GitRepo: deps.GitRepo, Remote: settings.Remote},
		tag:    &usecase.CreateTagUseCase{GitRepo: deps.GitRepo},
		changelog: &usecase.UpdateChangelogUseCase{
			GitRepo:     deps.GitRepo,
			Changelog:   deps.Changelog,
			File:        settings.ChangelogFile,
			IncludeDiff: settings.IncludeDiff,
		},
		publish: &usecase.PublishReleaseUseCase{Publisher: deps.Publisher},
	}
}

// showStatus inspects the repository and prints the banner and status.
func (w *workflow) showStatus(ctx context.Context, runner *StepRunner) (*usecase.RepositoryReport, error) {
	var report *usecase.RepositoryReport
	_, err := runner.Run(ctx, Step{
		Type: domain.StepTypeInspect,
		Run: func(ctx context.Context) (map[string]any, error) {
			r, err := w.inspect.Execute(ctx, w.settings.Offline)
			if err != nil {
				return nil, err
			}
			report = r
			return map[string]any{"branch": r.State.Branch, "status": string(r.State.Status)}, nil
		},
	})
	if err != nil {
		return nil, err
	}
	runner.Describe(ctx, report.Root, report.State.Branch)
	RenderReport(w.deps.Reporter, report)
	return report, nil
}

// RenderReport prints the repository banner, tags that are not versions and
// the sync status with guidance.
func RenderReport(r ui.Reporter, report *usecase.RepositoryReport) {
	ui.RenderLines(r, []ui.Line{ui.Banner(report.Root, report.State.Branch, report.LatestTag)})
	if len(report.SkippedTags) > 0 {
		r.List("Ignored tag: ", report.SkippedTags)
	}
	ui.RenderLines(r, ui.FormatSyncState(report.State, report.SyncErr))
}

// sideEffect runs step unless dryRun is set, in which case it only reports
// what would happen and journals the step as skipped.
func (w *workflow) sideEffect(ctx context.Context, runner *StepRunner, dryRun bool, step Step, action string) (map[string]any, bool, error) {
	if dryRun {
		w.deps.Reporter.Info("[dry-run] would %s", action)
		runner.Skip(ctx, step.Type, "dry run")
		return nil, false, nil
	}
	details, err := runner.Run(ctx, step)
	if err != nil {
		return nil, false, err
	}
	return details, true, nil
}

// stageAndCommit stages every change and commits it with message.
func (w *workflow) stageAndCommit(ctx context.Context, runner *StepRunner, message string, dryRun bool) error {
	_, _, err := w.sideEffect(ctx, runner, dryRun, Step{
		Type: domain.StepTypeStage,
		Run: func(ctx context.Context) (map[string]any, error) {
			return nil, w.stage.Execute(ctx)
		},
	}, "stage all changes")
	if err != nil {
		return err
	}
	details, done, err := w.sideEffect(ctx, runner, dryRun, Step{
		Type: domain.StepTypeCommit,
		Run: func(ctx context.Context) (map[string]any, error) {
			hash, err := w.commit.Execute(ctx, message)
			if err != nil {
				return nil, err
			}
			return map[string]any{"hash": hash, "message": message}, nil
		},
	}, fmt.Sprintf("commit with message %q", message))
	if err != nil {
		return err
	}
	if done {
		w.deps.Reporter.Success("Committed %s", shortHash(details["hash"]))
	}
	return nil
}

// pushBranch pushes branch with retries.
func (w *workflow) pushBranch(ctx context.Context, runner *StepRunner, branch string, dryRun bool) error {
	_, done, err := w.sideEffect(ctx, runner, dryRun, Step{
		Type:  domain.StepTypePushBranch,
		Retry: true,
		Run: func(ctx context.Context) (map[string]any, error) {
			if err := ValidateBranchName(branch); err != nil {
				return nil, nonRetryable(err)
			}
			if err := w.push.PushBranch(ctx, branch); err != nil {
				if errors.Is(err, usecase.ErrDetachedHead) {
					return nil, nonRetryable(err)
				}
				return nil, err
			}
			return map[string]any{"remote": w.settings.Remote, "branch": branch}, nil
		},
	}, fmt.Sprintf("push %s to %s", branch, w.settings.Remote))
	if err != nil {
		return err
	}
	if done {
		w.deps.Reporter.Success("Pushed %s to %s", branch, w.settings.Remote)
	}
	return nil
}

// askCommitMessage returns message or prompts for one.
func (w *workflow) askCommitMessage(message string) (string, error) {
	if message == "" {
		answer, err := w.deps.Prompter.Ask("Enter commit message:")
		if err != nil {
			return "", err
		}
		message = answer
	}
	if err := ValidateCommitMessage(message); err != nil {
		return "", err
	}
	return message, nil
}

func shortHash(v any) string {
	s, _ := v.(string)
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
