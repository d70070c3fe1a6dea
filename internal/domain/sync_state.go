package domain

import "time"

// DetachedHead is reported as the branch name when HEAD is not on a branch.
const DetachedHead = "DETACHED_HEAD"

// SyncStatus classifies a local branch against its remote-tracking branch.
type SyncStatus string

const (
	SyncStatusInSync           SyncStatus = "IN_SYNC"
	SyncStatusAhead            SyncStatus = "AHEAD"
	SyncStatusBehind           SyncStatus = "BEHIND"
	SyncStatusDiverged         SyncStatus = "DIVERGED"
	SyncStatusNoTrackingBranch SyncStatus = "NO_TRACKING_BRANCH"
)

// Commit is the subset of commit metadata shown to the user.
type Commit struct {
	Hash    string    `json:"hash"`
	Summary string    `json:"summary"`
	Author  string    `json:"author"`
	When    time.Time `json:"when"`
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// SyncSnapshot holds the inputs of a classification, captured by the
// version-control collaborator at one point in time.
type SyncSnapshot struct {
	Branch         string
	TrackingBranch string
	HasTracking    bool
	LocalTip       string
	RemoteTip      string
	// Ahead lists commits present locally but not on the remote.
	Ahead []Commit
	// Behind lists commits present on the remote but not locally.
	Behind    []Commit
	Modified  []string
	Untracked []string
}

// SyncState is the classified snapshot.
type SyncState struct {
	Status         SyncStatus `json:"status"`
	Branch         string     `json:"branch"`
	TrackingBranch string     `json:"tracking_branch,omitempty"`
	LocalTip       string     `json:"local_tip,omitempty"`
	RemoteTip      string     `json:"remote_tip,omitempty"`
	Ahead          []Commit   `json:"ahead,omitempty"`
	Behind         []Commit   `json:"behind,omitempty"`
	Modified       []string   `json:"modified,omitempty"`
	Untracked      []string   `json:"untracked,omitempty"`
}

// Classify derives the sync status from a snapshot. Working-tree paths are
// carried through unchanged and never influence the status.
func Classify(s SyncSnapshot) SyncState {
	state := SyncState{
		Branch:    s.Branch,
		LocalTip:  s.LocalTip,
		Modified:  append([]string(nil), s.Modified...),
		Untracked: append([]string(nil), s.Untracked...),
	}
	if !s.HasTracking {
		state.Status = SyncStatusNoTrackingBranch
		return state
	}
	state.TrackingBranch = s.TrackingBranch
	state.RemoteTip = s.RemoteTip
	state.Ahead = append([]Commit(nil), s.Ahead...)
	state.Behind = append([]Commit(nil), s.Behind...)
	switch {
	case len(s.Ahead) > 0 && len(s.Behind) > 0:
		state.Status = SyncStatusDiverged
	case len(s.Ahead) > 0:
		state.Status = SyncStatusAhead
	case len(s.Behind) > 0:
		state.Status = SyncStatusBehind
	default:
		state.Status = SyncStatusInSync
	}
	return state
}

// WorkingTreeOnly builds a state for when commit lists are unavailable.
// Status is left empty so callers can tell it apart from a classification.
func WorkingTreeOnly(branch string, modified, untracked []string) SyncState {
	return SyncState{
		Branch:    branch,
		Modified:  append([]string(nil), modified...),
		Untracked: append([]string(nil), untracked...),
	}
}

// Classified reports whether the state carries a sync status.
func (s SyncState) Classified() bool {
	return s.Status != ""
}

// Dirty reports modified or untracked paths in the working tree.
func (s SyncState) Dirty() bool {
	return len(s.Modified) > 0 || len(s.Untracked) > 0
}

// HasUnpushed reports local commits missing from the remote.
func (s SyncState) HasUnpushed() bool {
	return len(s.Ahead) > 0
}

// NeedsAction reports whether there is anything to commit or push.
func (s SyncState) NeedsAction() bool {
	return s.Dirty() || s.HasUnpushed()
}

// CanPush reports whether pushing would fast-forward the remote.
func (s SyncState) CanPush() bool {
	return s.Status == SyncStatusAhead
}
