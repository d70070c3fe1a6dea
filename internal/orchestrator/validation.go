package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/compozy/releasehelper/internal/usecase"
)

var refNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)

// ValidateRefName applies the subset of git's ref naming rules that matter
// for branch and tag names produced or accepted by the workflows.
func ValidateRefName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) > 255 {
		return fmt.Errorf("%s name too long: %d characters (max: 255)", kind, len(name))
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("%s name cannot start or end with slash: %s", kind, name)
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%s name cannot start with %q: %s", kind, name[:1], name)
	}
	if strings.Contains(name, "..") || strings.Contains(name, "//") {
		return fmt.Errorf("%s name cannot contain consecutive dots or slashes: %s", kind, name)
	}
	if strings.HasSuffix(name, ".lock") {
		return fmt.Errorf("%s name cannot end with .lock: %s", kind, name)
	}
	if !refNameRegex.MatchString(name) {
		return fmt.Errorf("invalid %s name format: %s", kind, name)
	}
	return nil
}

// ValidateTagName validates a release tag name.
func ValidateTagName(tag string) error {
	return ValidateRefName("tag", tag)
}

// ValidateBranchName validates a git branch name.
func ValidateBranchName(branch string) error {
	return ValidateRefName("branch", branch)
}

// ValidateCommitMessage rejects blank commit messages.
func ValidateCommitMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return usecase.ErrEmptyCommitMessage
	}
	return nil
}
