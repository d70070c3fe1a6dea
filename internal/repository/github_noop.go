package repository

import (
	"context"
	"errors"
	"fmt"
)

var ErrGithubTokenRequired = errors.New("github token is required for GitHub operations")

type noopPublisher struct {
	owner string
	repo  string
	cause error
}

// NewNoopPublisher returns a publisher that refuses every call, used when no
// token is configured.
func NewNoopPublisher(owner, repo string) ReleasePublisher {
	return &noopPublisher{owner: owner, repo: repo}
}

// NewUnusablePublisher refuses every call like NewNoopPublisher, reporting
// cause as the reason the configured token cannot be used.
func NewUnusablePublisher(owner, repo string, cause error) ReleasePublisher {
	return &noopPublisher{owner: owner, repo: repo, cause: cause}
}

func (p *noopPublisher) CreateRelease(_ context.Context, tag, _, _ string) (string, error) {
	if p.cause != nil {
		return "", fmt.Errorf("%w: unable to publish release %s: %w", ErrGithubTokenRequired, tag, p.cause)
	}
	return "", fmt.Errorf("%w: unable to publish release %s for %s/%s", ErrGithubTokenRequired, tag, p.owner, p.repo)
}
