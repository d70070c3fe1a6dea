package service

import (
	"context"

	"github.com/compozy/releasehelper/internal/domain"
)

// ChangelogService renders and appends release sections to the changelog.
type ChangelogService interface {
	// Render formats the section for a release. A non-empty diff is appended
	// as a fenced block.
	Render(release domain.Release, diff string) string
	// Append adds a rendered section to the file at path, creating it with a
	// heading when missing. Existing content is never rewritten.
	Append(ctx context.Context, path, section string) error
}
