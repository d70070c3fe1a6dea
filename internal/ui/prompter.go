package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrInvalidResponse is returned for answers that are neither yes nor no.
	ErrInvalidResponse = errors.New("invalid response, please answer 'y' or 'n'")
	// ErrInvalidChoice is returned for answers that match no option.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrInputClosed is returned when input ends before an answer is read.
	ErrInputClosed = errors.New("input closed")
)

// Prompter asks the operator questions. A "no" is a normal result, not an
// error.
type Prompter interface {
	Confirm(question string) (bool, error)
	Ask(question string) (string, error)
	// Choose returns the zero-based index of the selected option.
	Choose(question string, options []string) (int, error)
}

// IOPrompter reads answers line by line from an io.Reader.
type IOPrompter struct {
	in  *bufio.Reader
	out io.Writer
	// AutoYes accepts every confirmation without reading input.
	AutoYes bool
}

// NewIOPrompter creates an IOPrompter.
func NewIOPrompter(in io.Reader, out io.Writer, autoYes bool) *IOPrompter {
	return &IOPrompter{in: bufio.NewReader(in), out: out, AutoYes: autoYes}
}

func (p *IOPrompter) Confirm(question string) (bool, error) {
	Question.Fprintf(p.out, "\n%s (y/n): ", question)
	if p.AutoYes {
		fmt.Fprintln(p.out, "y")
		return true, nil
	}
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidResponse, answer)
	}
}

func (p *IOPrompter) Ask(question string) (string, error) {
	Question.Fprintf(p.out, "\n%s\n", question)
	return p.readLine()
}

func (p *IOPrompter) Choose(question string, options []string) (int, error) {
	fmt.Fprintln(p.out)
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, opt)
	}
	Question.Fprintf(p.out, "%s ", question)
	answer, err := p.readLine()
	if err != nil {
		return -1, err
	}
	if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(options) {
		return n - 1, nil
	}
	for i, opt := range options {
		if strings.EqualFold(answer, opt) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
}

func (p *IOPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
