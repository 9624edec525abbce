// Package prompt reads line-oriented answers from a terminal or script.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by Int for non-numeric input.
var ErrNotANumber = errors.New("not a number")

// Prompter writes questions to out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Out exposes the writer prompts go to.
func (p *Prompter) Out() io.Writer { return p.out }

// Line prints label and returns the next input line without its newline.
// io.EOF is returned only when no input at all was available.
func (p *Prompter) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	s, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// Int reads a line and parses it as an integer.
func (p *Prompter) Int(label string) (int, error) {
	s, err := p.Line(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, strings.TrimSpace(s))
	}
	return n, nil
}

// YesNo reads a line and reports whether it is "y" or "yes" (any case).
func (p *Prompter) YesNo(label string) (bool, error) {
	s, err := p.Line(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
