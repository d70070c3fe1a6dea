package repository

import "context"

// ReleasePublisher creates hosted releases for pushed tags.
type ReleasePublisher interface {
	// CreateRelease publishes a release for an existing remote tag and
	// returns its web URL.
	CreateRelease(ctx context.Context, tag, name, body string) (string, error)
}
