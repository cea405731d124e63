// Package prompt asks the user to confirm destructive edits.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirmer asks a yes/no question. onResult is called exactly once with the
// user's answer.
type Confirmer interface {
	Confirm(message, acceptLabel, cancelLabel string, onResult func(accepted bool))
}

// Func adapts a function to Confirmer.
type Func func(message, acceptLabel, cancelLabel string, onResult func(bool))

// Confirm implements Confirmer.
func (f Func) Confirm(message, acceptLabel, cancelLabel string, onResult func(bool)) {
	f(message, acceptLabel, cancelLabel, onResult)
}

// Static answers every question with the same value.
type Static bool

// Confirm implements Confirmer.
func (s Static) Confirm(_, _, _ string, onResult func(bool)) {
	onResult(bool(s))
}

// Terminal prompts on a line-oriented input.
type Terminal struct {
	in  io.Reader
	out io.Writer

	// interactive reports whether in is attached to a terminal.
	interactive bool
	reader      *bufio.Reader
}

// NewTerminal creates a prompt reading from in and writing to out. When in is
// an *os.File that is not a terminal, every question is declined without
// reading.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	interactive := true
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Terminal{
		in:          in,
		out:         out,
		interactive: interactive,
		reader:      bufio.NewReader(in),
	}
}

// Confirm implements Confirmer.
func (t *Terminal) Confirm(message, acceptLabel, cancelLabel string, onResult func(bool)) {
	if !t.interactive {
		onResult(false)
		return
	}

	fmt.Fprintf(t.out, "%s [%s/%s] ", stripMarkup(message), acceptLabel, cancelLabel)
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		onResult(false)
		return
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	switch answer {
	case strings.ToLower(acceptLabel), "y", "yes":
		onResult(true)
	default:
		onResult(false)
	}
}

// stripMarkup removes inline tags from notification messages.
func stripMarkup(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
