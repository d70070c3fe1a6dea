package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/spf13/afero"
)

type changelogService struct {
	fs afero.Fs
}

// NewChangelogService creates a ChangelogService writing through fs.
func NewChangelogService(fs afero.Fs) ChangelogService {
	return &changelogService{fs: fs}
}

func (s *changelogService) Render(release domain.Release, diff string) string {
	name := release.TagName
	if release.Version != nil {
		name = release.Version.String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] - %s\n", name, release.Date.UTC().Format(ChangelogDateLayout))
	if len(release.Changes) > 0 {
		b.WriteString("\n")
		for _, change := range release.Changes {
			fmt.Fprintf(&b, "- %s\n", change)
		}
	}
	if diff = strings.TrimRight(diff, "\n"); diff != "" {
		b.WriteString("\n```\n")
		b.WriteString(diff)
		b.WriteString("\n```\n")
	}
	return b.String()
}

func (s *changelogService) Append(ctx context.Context, path, section string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	existing, err := afero.ReadFile(s.fs, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read changelog %s: %w", path, err)
	}
	var prefix string
	switch {
	case len(existing) == 0:
		prefix = ChangelogHeading + "\n\n"
	case strings.HasSuffix(string(existing), "\n"):
		prefix = "\n"
	default:
		prefix = "\n\n"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create changelog directory: %w", err)
		}
	}
	f, err := s.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, ChangelogFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open changelog %s: %w", path, err)
	}
	if _, err := f.WriteString(prefix + section); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to changelog %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close changelog %s: %w", path, err)
	}
	return nil
}

// SplitChanges turns a comma-separated change list into trimmed entries,
// dropping empty items.
func SplitChanges(input string) []string {
	var changes []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			changes = append(changes, part)
		}
	}
	return changes
}
