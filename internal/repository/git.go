package repository

import (
	"context"

	"github.com/compozy/releasehelper/internal/domain"
)

// GitRepository defines the version-control operations the release workflow
// consumes.
type GitRepository interface {
	// Root is the top-level directory of the working tree.
	Root() string
	CurrentBranch(ctx context.Context) (string, error)
	// TrackingBranch returns the upstream of branch as "<remote>/<branch>",
	// or an error wrapping domain.ErrNoTrackingBranch.
	TrackingBranch(ctx context.Context, branch string) (string, error)
	WorkingTreeStatus(ctx context.Context) (modified, untracked []string, err error)
	// Fetch updates remote refs and tags. A missing remote wraps
	// domain.ErrNoTrackingBranch; other failures wrap domain.ErrSyncUnavailable.
	Fetch(ctx context.Context, remote string) error
	ListTags(ctx context.Context) ([]string, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	// CommitsBetween lists commits reachable from to but not from from,
	// newest first. An empty from lists all ancestors of to.
	CommitsBetween(ctx context.Context, from, to string) ([]domain.Commit, error)
	HeadCommit(ctx context.Context) (string, error)
	ResolveRef(ctx context.Context, ref string) (string, error)
	// DiffStat summarises file changes between two revisions.
	DiffStat(ctx context.Context, from, to string) (string, error)
	StageAll(ctx context.Context) error
	StagePaths(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) (string, error)
	CreateTag(ctx context.Context, tag, msg string) error
	PushBranch(ctx context.Context, remote, branch string) error
	PushTags(ctx context.Context, remote string) error
}
