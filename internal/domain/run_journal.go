package domain

import (
	"time"
)

// RunStatus represents the overall status of a release run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusAborted   RunStatus = "aborted"
)

// StepStatus represents the status of an individual step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepType identifies the type of step
type StepType string

const (
	StepTypeInspect         StepType = "inspect"
	StepTypeStage           StepType = "stage"
	StepTypeCommit          StepType = "commit"
	StepTypePushBranch      StepType = "push_branch"
	StepTypeFetchTags       StepType = "fetch_tags"
	StepTypeCreateTag       StepType = "create_tag"
	StepTypeUpdateChangelog StepType = "update_changelog"
	StepTypeCommitChangelog StepType = "commit_changelog"
	StepTypePushTags        StepType = "push_tags"
	StepTypePublishRelease  StepType = "publish_release"
)

// RunJournal records what a release run did, so that side effects that
// survived a failure can be inspected afterwards.
type RunJournal struct {
	SessionID string       `json:"session_id"`
	StartedAt time.Time    `json:"started_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Repo      string       `json:"repo"`
	Branch    string       `json:"branch"`
	Version   string       `json:"version,omitempty"`
	Steps     []StepRecord `json:"steps"`
	Status    RunStatus    `json:"status"`
	Error     string       `json:"error,omitempty"`
}

// StepRecord represents a single step in the run
type StepRecord struct {
	Type        StepType       `json:"type"`
	Status      StepStatus     `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// NewRunJournal creates a new run journal
func NewRunJournal(sessionID string) *RunJournal {
	now := time.Now()
	return &RunJournal{
		SessionID: sessionID,
		StartedAt: now,
		UpdatedAt: now,
		Steps:     []StepRecord{},
		Status:    RunStatusPending,
	}
}

// StartStep appends a running record for the step
func (j *RunJournal) StartStep(stepType StepType) {
	now := time.Now()
	j.Steps = append(j.Steps, StepRecord{
		Type:      stepType,
		Status:    StepStatusRunning,
		StartedAt: now,
	})
	j.Status = RunStatusRunning
	j.UpdatedAt = now
}

// CompleteStep marks the latest running record of the step as completed
func (j *RunJournal) CompleteStep(stepType StepType, details map[string]any) {
	if rec := j.runningStep(stepType); rec != nil {
		now := time.Now()
		rec.Status = StepStatusCompleted
		rec.CompletedAt = &now
		rec.Details = details
		j.UpdatedAt = now
	}
}

// FailStep marks the step as failed and the whole run as failed
func (j *RunJournal) FailStep(stepType StepType, err error) {
	now := time.Now()
	if rec := j.runningStep(stepType); rec != nil {
		rec.Status = StepStatusFailed
		rec.CompletedAt = &now
		rec.Error = err.Error()
	}
	j.Status = RunStatusFailed
	j.Error = err.Error()
	j.UpdatedAt = now
}

// SkipStep records a step the user declined or the configuration disabled
func (j *RunJournal) SkipStep(stepType StepType, reason string) {
	now := time.Now()
	j.Steps = append(j.Steps, StepRecord{
		Type:        stepType,
		Status:      StepStatusSkipped,
		StartedAt:   now,
		CompletedAt: &now,
		Details:     map[string]any{"reason": reason},
	})
	j.UpdatedAt = now
}

// Finish sets the final status unless the run already failed
func (j *RunJournal) Finish(status RunStatus) {
	if j.Status == RunStatusFailed {
		return
	}
	j.Status = status
	j.UpdatedAt = time.Now()
}

// CompletedSteps returns completed steps in execution order
func (j *RunJournal) CompletedSteps() []StepRecord {
	var completed []StepRecord
	for _, s := range j.Steps {
		if s.Status == StepStatusCompleted {
			completed = append(completed, s)
		}
	}
	return completed
}

// LastStep returns the most recent step
func (j *RunJournal) LastStep() *StepRecord {
	if len(j.Steps) == 0 {
		return nil
	}
	return &j.Steps[len(j.Steps)-1]
}

func (j *RunJournal) runningStep(stepType StepType) *StepRecord {
	for i := len(j.Steps) - 1; i >= 0; i-- {
		if j.Steps[i].Type == stepType && j.Steps[i].Status == StepStatusRunning {
			return &j.Steps[i]
		}
	}
	return nil
}
