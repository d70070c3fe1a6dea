package ui

import "github.com/fatih/color"

var (
	Added    = color.New(color.FgGreen)
	Modified = color.New(color.FgYellow)
	Removed  = color.New(color.FgRed)

	Success  = color.New(color.FgGreen)
	Warning  = color.New(color.FgYellow)
	Error    = color.New(color.FgRed, color.Bold)
	Info     = color.New(color.FgCyan)
	Question = color.New(color.FgCyan, color.Bold)
	Dim      = color.New(color.Faint)

	Header = color.New(color.FgWhite, color.Bold, color.Underline)
	Accent = color.New(color.FgGreen)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}
