package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Step is one side effect of a workflow.
type Step struct {
	Type domain.StepType
	// Retry marks network steps that are retried with exponential backoff.
	Retry bool
	Run   func(ctx context.Context) (details map[string]any, err error)
}

// StepRunner executes steps in order and records each one in a run journal.
// Failed steps are not compensated: the journal shows what already happened.
type StepRunner struct {
	journal *domain.RunJournal
	store   repository.JournalRepository
	log     *zap.Logger
}

// NewStepRunner starts a journal with a fresh session id. store may be nil
// to keep the journal in memory only.
func NewStepRunner(store repository.JournalRepository, log *zap.Logger) *StepRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &StepRunner{
		journal: domain.NewRunJournal(uuid.New().String()),
		store:   store,
		log:     log,
	}
}

// SessionID identifies the run journal.
func (r *StepRunner) SessionID() string {
	return r.journal.SessionID
}

// Journal returns the live journal.
func (r *StepRunner) Journal() *domain.RunJournal {
	return r.journal
}

// Describe records where the run happens.
func (r *StepRunner) Describe(ctx context.Context, repoRoot, branch string) {
	r.journal.Repo = repoRoot
	r.journal.Branch = branch
	r.save(ctx)
}

// SetVersion records the version being released.
func (r *StepRunner) SetVersion(version string) {
	r.journal.Version = version
}

// Run executes step and journals its outcome.
func (r *StepRunner) Run(ctx context.Context, step Step) (map[string]any, error) {
	r.journal.StartStep(step.Type)
	r.save(ctx)
	r.log.Debug("step started", zap.String("session", r.SessionID()), zap.String("step", string(step.Type)))
	details, err := r.execute(ctx, step)
	if err != nil {
		r.journal.FailStep(step.Type, err)
		r.save(ctx)
		r.log.Debug("step failed", zap.String("step", string(step.Type)), zap.Error(err))
		return nil, fmt.Errorf("step '%s' failed: %w", step.Type, err)
	}
	r.journal.CompleteStep(step.Type, details)
	r.save(ctx)
	r.log.Debug("step completed", zap.String("step", string(step.Type)))
	return details, nil
}

func (r *StepRunner) execute(ctx context.Context, step Step) (map[string]any, error) {
	if !step.Retry {
		return step.Run(ctx)
	}
	var details map[string]any
	strategy := retry.WithMaxRetries(DefaultRetryCount, retry.NewExponential(DefaultRetryDelay))
	attempt := 0
	err := retry.Do(ctx, strategy, func(retryCtx context.Context) error {
		if err := retryCtx.Err(); err != nil {
			return err
		}
		attempt++
		attemptCtx, cancel := context.WithTimeout(retryCtx, NetworkStepTimeout)
		defer cancel()
		data, err := step.Run(attemptCtx)
		if err != nil {
			var perm *permanentError
			if errors.As(err, &perm) {
				return perm.err
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			r.log.Debug("retrying step", zap.String("step", string(step.Type)), zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		details = data
		return nil
	})
	return details, err
}

// permanentError stops the retries of a network step.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func nonRetryable(err error) error {
	return &permanentError{err: err}
}

// Skip records a step that did not run.
func (r *StepRunner) Skip(ctx context.Context, stepType domain.StepType, reason string) {
	r.journal.SkipStep(stepType, reason)
	r.save(ctx)
}

// Finish sets the final run status and persists the journal.
func (r *StepRunner) Finish(ctx context.Context, status domain.RunStatus) {
	r.journal.Finish(status)
	r.save(ctx)
}

// save persists the journal. Journal problems never fail the run.
func (r *StepRunner) save(ctx context.Context) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(context.WithoutCancel(ctx), r.journal); err != nil {
		r.log.Warn("failed to save run journal", zap.String("session", r.SessionID()), zap.Error(err))
	}
}
