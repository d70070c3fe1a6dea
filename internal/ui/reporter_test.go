package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	NoColor()
	t.Cleanup(func() { color.NoColor = prev })
}

func TestConsoleReporter(t *testing.T) {
	withoutColor(t)
	t.Run("Should write messages with markers", func(t *testing.T) {
		var out, errOut bytes.Buffer
		r := NewConsoleReporter(&out, &errOut)
		r.Heading("Changed files:")
		r.Info("fetching %s", "origin")
		r.Success("tagged %s", "1.0.0")
		r.Warn("behind by %d", 2)
		r.Error("push failed")
		assert.Equal(t, "\nChanged files:\n→ fetching origin\n✓ tagged 1.0.0\n⚠ behind by 2\n", out.String())
		assert.Equal(t, "✗ push failed\n", errOut.String())
	})
	t.Run("Should number list items", func(t *testing.T) {
		var out bytes.Buffer
		NewConsoleReporter(&out, &out).List("Modified: ", []string{"a.go", "b.go"})
		assert.Equal(t, "1. Modified: a.go\n2. Modified: b.go\n", out.String())
	})
	t.Run("Should emit escape codes when color is forced", func(t *testing.T) {
		ForceColor()
		defer NoColor()
		var out bytes.Buffer
		NewConsoleReporter(&out, &out).Success("done")
		assert.Contains(t, out.String(), "\x1b[32m")
	})
}
