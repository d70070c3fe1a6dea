package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/compozy/releasehelper/internal/config"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

type githubPublisher struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGithubPublisher creates a ReleasePublisher backed by the GitHub REST API.
// An empty apiURL selects the public API.
func NewGithubPublisher(token, owner, repo, apiURL string) (ReleasePublisher, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	p := &githubPublisher{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}
	if apiURL != "" {
		if err := p.withBaseURL(apiURL); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *githubPublisher) withBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	p.client.BaseURL = u
	return nil
}

func (p *githubPublisher) CreateRelease(ctx context.Context, tag, name, body string) (string, error) {
	release, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
		TagName: github.Ptr(tag),
		Name:    github.Ptr(name),
		Body:    github.Ptr(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create release %s: %w", tag, err)
	}
	return release.GetHTMLURL(), nil
}
