package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/compozy/releasehelper/internal/domain"
)

// PrepareReleaseNotesUseCase renders the body of a hosted release.
type PrepareReleaseNotesUseCase struct{}

// Execute renders notes for release. Change text is escaped so the body
// cannot smuggle markup into the release page.
func (uc *PrepareReleaseNotesUseCase) Execute(_ context.Context, release *domain.Release) (string, error) {
	if release == nil || release.Version == nil {
		return "", fmt.Errorf("release version cannot be nil")
	}
	data := struct {
		Version     string
		PreviousTag string
		TagName     string
		Changes     []string
	}{
		Version:     release.Version.String(),
		PreviousTag: html.EscapeString(release.PreviousTag),
		TagName:     html.EscapeString(release.TagName),
	}
	for _, change := range release.Changes {
		data.Changes = append(data.Changes, sanitizeChange(change))
	}
	tmpl, err := template.New("release-notes").Option("missingkey=error").Parse(releaseNotesTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse release notes template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute release notes template: %w", err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// sanitizeChange escapes markup while keeping quotes and ampersands readable.
func sanitizeChange(change string) string {
	s := html.EscapeString(strings.TrimSpace(change))
	return strings.NewReplacer("&#34;", `"`, "&#39;", "'", "&amp;", "&").Replace(s)
}

const releaseNotesTemplate = `
## Release {{.Version}}
{{if .Changes}}
### Changes
{{range .Changes}}
- {{.}}
{{- end}}
{{end}}
{{- if .PreviousTag}}
**Full diff**: {{.PreviousTag}}...{{.TagName}}
{{- end}}
`
