package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter is the user-facing output channel of the workflows.
type Reporter interface {
	Heading(text string)
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	// List prints items as a numbered list, each prefixed with label.
	List(label string, items []string)
}

// ConsoleReporter renders messages with terminal colors. Errors go to errOut.
type ConsoleReporter struct {
	out    io.Writer
	errOut io.Writer
}

// NewConsoleReporter creates a ConsoleReporter.
func NewConsoleReporter(out, errOut io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out, errOut: errOut}
}

func (r *ConsoleReporter) Heading(text string) {
	fmt.Fprintln(r.out)
	Header.Fprintln(r.out, text)
}

func (r *ConsoleReporter) Info(format string, args ...any) {
	r.print(r.out, Info, "→ ", format, args...)
}

func (r *ConsoleReporter) Success(format string, args ...any) {
	r.print(r.out, Success, "✓ ", format, args...)
}

func (r *ConsoleReporter) Warn(format string, args ...any) {
	r.print(r.out, Warning, "⚠ ", format, args...)
}

func (r *ConsoleReporter) Error(format string, args ...any) {
	r.print(r.errOut, Error, "✗ ", format, args...)
}

func (r *ConsoleReporter) List(label string, items []string) {
	for i, item := range items {
		fmt.Fprintf(r.out, "%d. ", i+1)
		Accent.Fprintf(r.out, "%s%s\n", label, item)
	}
}

func (r *ConsoleReporter) print(w io.Writer, c *color.Color, marker, format string, args ...any) {
	c.Fprintf(w, marker+format+"\n", args...)
}
