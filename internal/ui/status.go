package ui

import (
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
)

// LineKind selects how a status line is rendered.
type LineKind int

const (
	LinePlain LineKind = iota
	LineHeading
	LineGood
	LineWarn
	LineBad
	LineModified
	LineUntracked
	LineCommit
)

// Line is one line of a formatted status report.
type Line struct {
	Kind LineKind
	Text string
}

// NoTagsLabel is shown in the banner when no version tag exists.
const NoTagsLabel = "No Tags Available"

// Banner describes where the operator is working.
func Banner(root, branch, latestTag string) Line {
	if latestTag == "" {
		latestTag = NoTagsLabel
	}
	return Line{Kind: LinePlain, Text: fmt.Sprintf(
		"You are working in the %s repository on the %s branch. The latest tag (version) is %s",
		root, branch, latestTag,
	)}
}

// FormatSyncState renders the working tree, the sync status and guidance for
// the operator. syncErr is shown when state carries no classification.
func FormatSyncState(state domain.SyncState, syncErr error) []Line {
	var lines []Line
	lines = append(lines, workingTreeLines(state)...)
	lines = append(lines, syncLines(state, syncErr)...)
	if guidance := Guidance(state); len(guidance) > 0 {
		lines = append(lines, Line{Kind: LineHeading, Text: "Guidance:"})
		for _, g := range guidance {
			lines = append(lines, Line{Kind: LineWarn, Text: g})
		}
	}
	return lines
}

func workingTreeLines(state domain.SyncState) []Line {
	if !state.Dirty() {
		return []Line{{Kind: LineGood, Text: "No uncommitted changes detected."}}
	}
	lines := []Line{{Kind: LineHeading, Text: "Changed files:"}}
	for i, path := range state.Modified {
		lines = append(lines, Line{Kind: LineModified, Text: fmt.Sprintf("%d. Modified: %s", i+1, path)})
	}
	lines = append(lines, Line{Kind: LinePlain, Text: fmt.Sprintf("Total Modified Files: %d", len(state.Modified))})
	lines = append(lines, Line{Kind: LineHeading, Text: "Untracked files:"})
	for i, path := range state.Untracked {
		lines = append(lines, Line{Kind: LineUntracked, Text: fmt.Sprintf("%d. New file: %s", i+1, path)})
	}
	lines = append(lines, Line{Kind: LinePlain, Text: fmt.Sprintf("Total New Files: %d", len(state.Untracked))})
	return lines
}

func syncLines(state domain.SyncState, syncErr error) []Line {
	if !state.Classified() {
		text := "Remote state unavailable. Showing working tree only."
		if syncErr != nil {
			text = fmt.Sprintf("Remote state unavailable (%v). Showing working tree only.", syncErr)
		}
		return []Line{{Kind: LineBad, Text: text}}
	}
	var lines []Line
	switch state.Status {
	case domain.SyncStatusNoTrackingBranch:
		return []Line{{Kind: LineWarn, Text: fmt.Sprintf("No tracking branch set for %s.", state.Branch)}}
	case domain.SyncStatusInSync:
		return []Line{{Kind: LineGood, Text: fmt.Sprintf("Branch %s is up to date with %s.", state.Branch, state.TrackingBranch)}}
	}
	if len(state.Ahead) > 0 {
		lines = append(lines, Line{Kind: LineWarn, Text: fmt.Sprintf(
			"There are %d commits not pushed to %s.", len(state.Ahead), state.TrackingBranch)})
		lines = append(lines, commitLines(state.Ahead)...)
	}
	if len(state.Behind) > 0 {
		lines = append(lines, Line{Kind: LineWarn, Text: fmt.Sprintf(
			"There are %d commits on %s not yet pulled.", len(state.Behind), state.TrackingBranch)})
		lines = append(lines, commitLines(state.Behind)...)
	}
	return lines
}

func commitLines(commits []domain.Commit) []Line {
	lines := make([]Line, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, Line{Kind: LineCommit, Text: fmt.Sprintf("  %s %s", c.ShortHash(), c.Summary)})
	}
	return lines
}

// Guidance suggests next steps. Pull and merge are only ever suggested.
func Guidance(state domain.SyncState) []string {
	var out []string
	switch state.Status {
	case domain.SyncStatusAhead:
		out = append(out, "Push your commits to share them: release-helper menu, then 'push'.")
	case domain.SyncStatusBehind:
		out = append(out, fmt.Sprintf("Pull the latest changes from %s before releasing (git pull).", state.TrackingBranch))
	case domain.SyncStatusDiverged:
		out = append(out, fmt.Sprintf("Your branch and %s have diverged: pull and merge (or rebase), then push.", state.TrackingBranch))
	case domain.SyncStatusNoTrackingBranch:
		if state.Branch != domain.DetachedHead {
			out = append(out, fmt.Sprintf("Set an upstream for %s by pushing it once (release-helper menu, then 'push').", state.Branch))
		}
	}
	if len(state.Modified) > 0 {
		out = append(out, "Commit or stash your modified files.")
	}
	if len(state.Untracked) > 0 {
		out = append(out, "Add untracked files or list them in .gitignore.")
	}
	return out
}

// RenderLines writes lines through a reporter.
func RenderLines(r Reporter, lines []Line) {
	for _, l := range lines {
		switch l.Kind {
		case LineHeading:
			r.Heading(l.Text)
		case LineGood:
			r.Success("%s", l.Text)
		case LineWarn:
			r.Warn("%s", l.Text)
		case LineBad:
			r.Error("%s", l.Text)
		default:
			r.Info("%s", l.Text)
		}
	}
}
