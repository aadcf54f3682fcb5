//go:build !windows

// Package unix implements termsink.Sink with ANSI/VT100 escape sequences,
// adapted from
// terminal/infrastructure/unix/ansi.go's ANSITerminal — same escape
// sequences and golang.org/x/term usage, narrowed to the write-only
// operation set termsink.Sink declares and extended with the raw-mode
// lifecycle grounded on terminal/internal/infrastructure/unix/raw_mode_test.go
// and the term.MakeRaw/term.Restore pattern used throughout the retrieved
// corpus (e.g. cmd/layoutpoc/live/main.go).
package unix

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/phoenix-tui/lineedit/internal/termsink"
)

// ANSISink is the Unix/ANSI termsink.Sink implementation.
type ANSISink struct {
	output   io.Writer
	inFd     int
	rawState *term.State
}

// New returns an ANSISink writing to os.Stdout and entering raw mode on
// os.Stdin's file descriptor.
func New() *ANSISink {
	return &ANSISink{output: os.Stdout, inFd: int(os.Stdin.Fd())}
}

// NewWithIO returns an ANSISink writing to output and raw-moding inFd,
// for tests that substitute a pipe for stdin/stdout.
func NewWithIO(output io.Writer, inFd int) *ANSISink {
	return &ANSISink{output: output, inFd: inFd}
}

func (a *ANSISink) Write(s string) error {
	_, err := io.WriteString(a.output, s)
	return err
}

func (a *ANSISink) MoveUp(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := fmt.Fprintf(a.output, "\033[%dA", n)
	return err
}

func (a *ANSISink) MoveDown(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := fmt.Fprintf(a.output, "\033[%dB", n)
	return err
}

func (a *ANSISink) MoveToColumn(col int) error {
	if col < 0 {
		col = 0
	}
	_, err := fmt.Fprintf(a.output, "\r\033[%dC", col)
	if col == 0 {
		_, err = io.WriteString(a.output, "\r")
	}
	return err
}

// ClearLine emits "\r\033[2K": return to column 0, erase the whole line.
func (a *ANSISink) ClearLine() error {
	_, err := io.WriteString(a.output, "\r\033[2K")
	return err
}

func (a *ANSISink) ClearToEndOfLine() error {
	_, err := io.WriteString(a.output, "\033[K")
	return err
}

func (a *ANSISink) ClearToEndOfScreen() error {
	_, err := io.WriteString(a.output, "\033[J")
	return err
}

func (a *ANSISink) HideCursor() error {
	_, err := io.WriteString(a.output, "\033[?25l")
	return err
}

func (a *ANSISink) ShowCursor() error {
	_, err := io.WriteString(a.output, "\033[?25h")
	return err
}

// SetCursorStyle emits DECSCUSR, grounded on
// ansi.go's SetCursorStyle switch over steady block/underline/bar codes
// 2/4/6.
func (a *ANSISink) SetCursorStyle(style termsink.CursorStyle) error {
	code := 0
	switch style {
	case termsink.CursorStyleBlock:
		code = 2
	case termsink.CursorStyleUnderline:
		code = 4
	case termsink.CursorStyleBar:
		code = 6
	default:
		return nil
	}
	_, err := fmt.Fprintf(a.output, "\033[%d q", code)
	return err
}

// Size reports the terminal dimensions via golang.org/x/term.GetSize,
// falling back to termsink.FallbackWidth/FallbackHeight on error, and
// clamping width up to termsink.MinWidth, per spec.md §3 Terminal Geometry.
func (a *ANSISink) Size() (int, int, error) {
	w, h, err := term.GetSize(a.inFd)
	if err != nil {
		return termsink.FallbackWidth, termsink.FallbackHeight, nil
	}
	if w < termsink.MinWidth {
		w = termsink.MinWidth
	}
	return w, h, nil
}

func (a *ANSISink) EnterRawMode() error {
	if a.rawState != nil {
		return nil
	}
	st, err := term.MakeRaw(a.inFd)
	if err != nil {
		return err
	}
	a.rawState = st
	return nil
}

func (a *ANSISink) ExitRawMode() error {
	if a.rawState == nil {
		return nil
	}
	err := term.Restore(a.inFd, a.rawState)
	a.rawState = nil
	return err
}

func (a *ANSISink) IsInRawMode() bool { return a.rawState != nil }

func (a *ANSISink) DestructiveBackspace() []byte {
	return []byte("\b \b")
}
