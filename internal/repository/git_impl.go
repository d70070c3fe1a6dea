package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

// gitRepository is the go-git implementation of GitRepository.
type gitRepository struct {
	repo          *git.Repository
	root          string
	defaultRemote string
	token         string
	authorName    string
	authorEmail   string
	log           *zap.Logger
}

// GitOption customises a gitRepository.
type GitOption func(*gitRepository)

// WithToken authenticates HTTP(S) remotes with a GitHub-style token.
func WithToken(token string) GitOption {
	return func(r *gitRepository) { r.token = strings.TrimSpace(token) }
}

// WithAuthor overrides the signature used for commits and annotated tags.
func WithAuthor(name, email string) GitOption {
	return func(r *gitRepository) {
		r.authorName = name
		r.authorEmail = email
	}
}

// WithDefaultRemote sets the remote used to guess an upstream when the
// branch has none configured.
func WithDefaultRemote(remote string) GitOption {
	return func(r *gitRepository) { r.defaultRemote = remote }
}

// WithLogger attaches a logger for tracing collaborator calls.
func WithLogger(log *zap.Logger) GitOption {
	return func(r *gitRepository) { r.log = log }
}

// NewGitRepository opens the repository containing path, searching parent
// directories for the .git directory.
func NewGitRepository(path string, opts ...GitOption) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	r := &gitRepository{
		repo:          repo,
		root:          w.Filesystem.Root(),
		defaultRemote: "origin",
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Root returns the working tree root.
func (r *gitRepository) Root() string {
	return r.root
}

// CurrentBranch returns the short name of the checked-out branch, or
// domain.DetachedHead. Unborn branches are reported by name.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}
	return domain.DetachedHead, nil
}

// TrackingBranch resolves the upstream from branch configuration, falling
// back to <defaultRemote>/<branch> when that remote ref exists.
func (r *gitRepository) TrackingBranch(_ context.Context, branch string) (string, error) {
	if branch == domain.DetachedHead {
		return "", fmt.Errorf("%w: HEAD is detached", domain.ErrNoTrackingBranch)
	}
	cfg, err := r.repo.Config()
	if err != nil {
		return "", fmt.Errorf("failed to read git config: %w", err)
	}
	if b, ok := cfg.Branches[branch]; ok && b.Remote != "" && b.Remote != "." && b.Merge != "" {
		return b.Remote + "/" + b.Merge.Short(), nil
	}
	if r.defaultRemote != "" {
		name := plumbing.NewRemoteReferenceName(r.defaultRemote, branch)
		if _, err := r.repo.Reference(name, true); err == nil {
			return name.Short(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrNoTrackingBranch, branch)
}

// WorkingTreeStatus lists modified (staged or unstaged) and untracked paths.
func (r *gitRepository) WorkingTreeStatus(_ context.Context) ([]string, []string, error) {
	w, err := r.repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := w.Status()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get status: %w", err)
	}
	var modified, untracked []string
	for path, fs := range status {
		switch {
		case fs.Worktree == git.Untracked:
			untracked = append(untracked, path)
		case fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified:
			modified = append(modified, path)
		}
	}
	sort.Strings(modified)
	sort.Strings(untracked)
	return modified, untracked, nil
}

// Fetch updates remote-tracking refs and tags from remote. A remote that is
// not configured at all means there is nothing to track.
func (r *gitRepository) Fetch(ctx context.Context, remote string) error {
	r.log.Debug("fetching", zap.String("remote", remote))
	err := r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		Tags:       git.AllTags,
		Auth:       r.authFor(remote),
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, git.ErrRemoteNotFound):
		return fmt.Errorf("%w: remote %s is not configured", domain.ErrNoTrackingBranch, remote)
	default:
		return fmt.Errorf("%w: fetch %s: %w", domain.ErrSyncUnavailable, remote, err)
	}
}

// ListTags returns the short names of all tags.
func (r *gitRepository) ListTags(_ context.Context) ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	var tags []string
	if err := iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// TagExists checks if a tag exists.
func (r *gitRepository) TagExists(_ context.Context, tag string) (bool, error) {
	_, err := r.repo.Tag(tag)
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check tag %s: %w", tag, err)
	}
	return true, nil
}

// CommitsBetween lists commits in the range (from, to].
func (r *gitRepository) CommitsBetween(ctx context.Context, from, to string) ([]domain.Commit, error) {
	toHash, err := r.resolve(to)
	if err != nil {
		return nil, err
	}
	excluded := make(map[plumbing.Hash]struct{})
	if from != "" {
		fromHash, err := r.resolve(from)
		if err != nil {
			return nil, err
		}
		if err := r.walk(ctx, fromHash, func(c *object.Commit) {
			excluded[c.Hash] = struct{}{}
		}); err != nil {
			return nil, err
		}
	}
	var commits []domain.Commit
	err = r.walk(ctx, toHash, func(c *object.Commit) {
		if _, skip := excluded[c.Hash]; skip {
			return
		}
		commits = append(commits, toDomainCommit(c))
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].When.After(commits[j].When)
	})
	return commits, nil
}

// walk visits every ancestor of start, including start.
func (r *gitRepository) walk(ctx context.Context, start plumbing.Hash, visit func(*object.Commit)) error {
	iter, err := r.repo.Log(&git.LogOptions{From: start})
	if err != nil {
		return fmt.Errorf("failed to get commits: %w", err)
	}
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		visit(c)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to iterate commits: %w", err)
	}
	return nil
}

func toDomainCommit(c *object.Commit) domain.Commit {
	summary, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return domain.Commit{
		Hash:    c.Hash.String(),
		Summary: summary,
		Author:  c.Author.Name,
		When:    c.Committer.When,
	}
}

// HeadCommit returns the SHA of the current HEAD commit.
func (r *gitRepository) HeadCommit(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// ResolveRef resolves a revision (branch, remote branch, tag, hash) to a commit SHA.
func (r *gitRepository) ResolveRef(_ context.Context, ref string) (string, error) {
	hash, err := r.resolve(ref)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

func (r *gitRepository) resolve(ref string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve revision %s: %w", ref, err)
	}
	return *hash, nil
}

// DiffStat returns per-file line statistics between two revisions.
func (r *gitRepository) DiffStat(ctx context.Context, from, to string) (string, error) {
	fromCommit, err := r.commitAt(from)
	if err != nil {
		return "", err
	}
	toCommit, err := r.commitAt(to)
	if err != nil {
		return "", err
	}
	patch, err := fromCommit.PatchContext(ctx, toCommit)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}
	return strings.TrimRight(patch.Stats().String(), "\n"), nil
}

func (r *gitRepository) commitAt(ref string) (*object.Commit, error) {
	hash, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", ref, err)
	}
	return c, nil
}

// StageAll stages tracked and untracked changes.
func (r *gitRepository) StageAll(_ context.Context) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// StagePaths stages the given paths relative to the repository root.
func (r *gitRepository) StagePaths(_ context.Context, paths ...string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, p := range paths {
		if _, err := w.Add(p); err != nil {
			return fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}
	return nil
}

// Commit creates a commit with the given message and returns its SHA.
func (r *gitRepository) Commit(_ context.Context, message string) (string, error) {
	w, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	sig, err := r.signature()
	if err != nil {
		return "", err
	}
	hash, err := w.Commit(message, &git.CommitOptions{Author: sig})
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}
	r.log.Debug("committed", zap.String("hash", hash.String()))
	return hash.String(), nil
}

// CreateTag tags HEAD. A non-empty msg creates an annotated tag.
func (r *gitRepository) CreateTag(_ context.Context, tag, msg string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	var opts *git.CreateTagOptions
	if msg != "" {
		sig, err := r.signature()
		if err != nil {
			return err
		}
		opts = &git.CreateTagOptions{Message: msg, Tagger: sig}
	}
	if _, err := r.repo.CreateTag(tag, head.Hash(), opts); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// PushBranch pushes branch to remote and records the upstream when the
// branch had none.
func (r *gitRepository) PushBranch(ctx context.Context, remote, branch string) error {
	r.log.Debug("pushing branch", zap.String("remote", remote), zap.String("branch", branch))
	spec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	if err := r.push(ctx, remote, spec); err != nil {
		return fmt.Errorf("failed to push branch %s to %s: %w", branch, remote, err)
	}
	return r.ensureUpstream(remote, branch)
}

// PushTags pushes all tags to remote.
func (r *gitRepository) PushTags(ctx context.Context, remote string) error {
	r.log.Debug("pushing tags", zap.String("remote", remote))
	if err := r.push(ctx, remote, config.RefSpec("refs/tags/*:refs/tags/*")); err != nil {
		return fmt.Errorf("failed to push tags to %s: %w", remote, err)
	}
	return nil
}

func (r *gitRepository) push(ctx context.Context, remote string, spec config.RefSpec) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       r.authFor(remote),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}

func (r *gitRepository) ensureUpstream(remote, branch string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("failed to read git config: %w", err)
	}
	if b, ok := cfg.Branches[branch]; ok && b.Remote != "" {
		return nil
	}
	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	}
	if err := r.repo.Storer.SetConfig(cfg); err != nil {
		return fmt.Errorf("failed to set upstream for %s: %w", branch, err)
	}
	return nil
}

// authFor returns token auth for HTTP(S) remotes and nil otherwise, leaving
// SSH remotes to go-git's default agent-based authentication.
func (r *gitRepository) authFor(remote string) transport.AuthMethod {
	if r.token == "" {
		return nil
	}
	rem, err := r.repo.Remote(remote)
	if err != nil || len(rem.Config().URLs) == 0 {
		return nil
	}
	url := rem.Config().URLs[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil
	}
	// Use x-access-token as username for GitHub token authentication
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: r.token,
	}
}

// signature builds the author/tagger identity from explicit configuration or
// the merged git config.
func (r *gitRepository) signature() (*object.Signature, error) {
	name, email := r.authorName, r.authorEmail
	if name == "" || email == "" {
		cfg, err := r.repo.ConfigScoped(config.GlobalScope)
		if err == nil {
			if name == "" {
				name = cfg.User.Name
			}
			if email == "" {
				email = cfg.User.Email
			}
		}
	}
	if name == "" || email == "" {
		return nil, fmt.Errorf("author identity unknown: set author.name and author.email or git config user.name/user.email")
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}, nil
}
