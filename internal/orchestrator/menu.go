package orchestrator

import (
	"context"
	"errors"
	"strings"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/ui"
	"go.uber.org/zap"
)

// MenuAction is one entry of the interactive menu.
type MenuAction string

const (
	MenuPush   MenuAction = "push"
	MenuCommit MenuAction = "commit"
	MenuAdd    MenuAction = "add"
	MenuTag    MenuAction = "tag"
	MenuExit   MenuAction = "exit"
)

var menuActions = []MenuAction{MenuPush, MenuCommit, MenuAdd, MenuTag, MenuExit}

// MenuConfig contains the options applied to menu actions.
type MenuConfig struct {
	Changelog bool
	Confirm   bool
	Publish   bool
}

// MenuOrchestrator shows the repository status and runs one action at a
// time until the operator exits.
type MenuOrchestrator struct {
	*workflow
}

// NewMenuOrchestrator creates a new menu orchestrator.
func NewMenuOrchestrator(deps Dependencies, settings Settings) *MenuOrchestrator {
	return &MenuOrchestrator{workflow: newWorkflow(deps, settings)}
}

// Execute runs the menu loop. Failed actions are reported and the loop
// continues; only closed input or a cancelled context end it early.
func (o *MenuOrchestrator) Execute(ctx context.Context, cfg MenuConfig) (*domain.RunJournal, error) {
	runner := NewStepRunner(o.deps.Journal, o.deps.Logger)
	options := make([]string, len(menuActions))
	for i, a := range menuActions {
		options[i] = string(a)
	}
	for {
		if err := ctx.Err(); err != nil {
			runner.Finish(ctx, domain.RunStatusAborted)
			return runner.Journal(), err
		}
		report, err := o.showStatus(ctx, runner)
		if err != nil {
			runner.Finish(ctx, domain.RunStatusFailed)
			return runner.Journal(), err
		}
		idx, err := o.deps.Prompter.Choose("What would you like to do?", options)
		if errors.Is(err, ui.ErrInvalidChoice) {
			o.deps.Reporter.Error("Invalid choice. Please try again.")
			continue
		}
		if err != nil {
			runner.Finish(ctx, domain.RunStatusAborted)
			return runner.Journal(), err
		}
		action := menuActions[idx]
		if action == MenuExit {
			o.deps.Reporter.Info("Exiting.")
			runner.Finish(ctx, domain.RunStatusCompleted)
			return runner.Journal(), nil
		}
		if err := o.perform(ctx, runner, action, report.State, cfg); err != nil {
			if errors.Is(err, ui.ErrInputClosed) || errors.Is(err, context.Canceled) {
				runner.Finish(ctx, domain.RunStatusAborted)
				return runner.Journal(), err
			}
			o.deps.Logger.Debug("menu action failed", zap.String("action", string(action)), zap.Error(err))
			o.deps.Reporter.Error("%s failed: %v", action, err)
		}
	}
}

func (o *MenuOrchestrator) perform(ctx context.Context, runner *StepRunner, action MenuAction, state domain.SyncState, cfg MenuConfig) error {
	switch action {
	case MenuPush:
		return o.pushBranch(ctx, runner, state.Branch, false)
	case MenuCommit:
		message, err := o.askCommitMessage("")
		if err != nil {
			return err
		}
		return o.stageAndCommit(ctx, runner, message, false)
	case MenuAdd:
		return o.addFiles(ctx, runner)
	case MenuTag:
		_, err := o.tagRelease(ctx, runner, state.Branch, tagOptions{
			Confirm:      cfg.Confirm,
			Changelog:    cfg.Changelog,
			Push:         true,
			Publish:      cfg.Publish,
			RequireClean: true,
		})
		return err
	}
	return nil
}

// addFiles stages the paths the operator names, or everything for ".".
func (o *MenuOrchestrator) addFiles(ctx context.Context, runner *StepRunner) error {
	answer, err := o.deps.Prompter.Ask("Enter files to add (space-separated, or '.' for all):")
	if err != nil {
		return err
	}
	paths := strings.Fields(answer)
	if len(paths) == 0 {
		o.deps.Reporter.Warn("No files given.")
		return nil
	}
	_, err = runner.Run(ctx, Step{
		Type: domain.StepTypeStage,
		Run: func(ctx context.Context) (map[string]any, error) {
			if len(paths) == 1 && paths[0] == "." {
				return map[string]any{"paths": "all"}, o.stage.Execute(ctx)
			}
			return map[string]any{"paths": paths}, o.deps.GitRepo.StagePaths(ctx, paths...)
		},
	})
	if err != nil {
		return err
	}
	o.deps.Reporter.Success("Staged %s", strings.Join(paths, " "))
	return nil
}
