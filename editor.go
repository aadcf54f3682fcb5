// Package lineedit is a readline-style interactive line editor: prompt
// display, in-place editing, history navigation, and terminal output, for
// building REPLs and interactive CLIs.
//
// The package's shape — a Config/Option pair for construction, a long-
// lived Editor that owns a history store and runs one ReadLine call at a
// time, plus a small set of hook types a host registers for completion
// and syntax highlighting — follows
// tea/internal/application/program/program.go's (Program[T]) lifecycle
// pattern, adapted from a message-driven TUI program to a synchronous,
// one-call-at-a-time line editor.
package lineedit

import (
	"io"
	"os"
	"time"

	"github.com/phoenix-tui/lineedit/internal/control"
	"github.com/phoenix-tui/lineedit/internal/cursormath"
	"github.com/phoenix-tui/lineedit/internal/history"
	"github.com/phoenix-tui/lineedit/internal/termsink"
	"github.com/phoenix-tui/lineedit/internal/termsink/unix"
	"github.com/unilibs/uniwidth"
)

// CompletionFunc returns candidate completions for the line text up to
// cursor. Registered via SetCompletion; consulted on Tab when
// Config.EnableAutoCompletion is set.
type CompletionFunc func(text string, cursor int) []string

// HighlightFunc returns a styled (e.g. ANSI-colored) rendering of text for
// display, without changing its length in codepoints — spec.md's Display
// Engine renders the returned string but all cursor math stays keyed to
// the plain text. Registered via SetSyntaxHighlight.
type HighlightFunc func(text string) string

// ContinuationFunc reports whether text is an incomplete statement that
// Enter should continue (insert a newline) rather than accept. Registered
// via SetMultiline's checker; consulted only when Config.EnableMultiline
// is set.
type ContinuationFunc func(text string) bool

// Editor is a configured line editor bound to an input stream and a
// terminal sink. It is not safe for concurrent use by multiple goroutines
// calling ReadLine at once — spec.md §5 scopes one read_line to one
// goroutine at a time, matching how a REPL actually drives it.
type Editor struct {
	cfg   Config
	in    io.Reader
	sink  termsink.Sink
	hist  *history.Store
	hooks control.Hooks
	last  *Error
}

// Create constructs an Editor reading from os.Stdin and writing to
// os.Stdout, applying opts over DefaultConfig. This is the common case for
// an interactive CLI; use New to supply explicit streams (tests, a
// non-TTY pipe, an embedded terminal emulator).
func Create(opts ...Option) (*Editor, error) {
	return New(os.Stdin, unix.New(), opts...)
}

// New constructs an Editor reading from in and writing via sink, applying
// opts over DefaultConfig. sink is typically a *unix.ANSISink for a real
// terminal or a *termtest.Recorder in tests.
func New(in io.Reader, sink termsink.Sink, opts ...Option) (*Editor, error) {
	if in == nil || sink == nil {
		return nil, newError(ErrKindInvalidParameter, "in and sink must be non-nil", nil)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.clamp()

	return &Editor{
		cfg:  cfg,
		in:   in,
		sink: sink,
		hist: history.New(cfg.MaxHistorySize, cfg.NoHistoryDuplicates),
	}, nil
}

// Close releases resources held by the Editor. The terminal sink is
// closed if it implements io.Closer; raw mode, if still active from an
// interrupted ReadLine, is restored first.
func (e *Editor) Close() error {
	_ = e.sink.ExitRawMode()
	if c, ok := e.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SetCompletion registers fn as the Tab-completion callback. Has no
// effect unless Config.EnableAutoCompletion is set (via
// WithAutoCompletion or SetAutoCompletion).
func (e *Editor) SetCompletion(fn CompletionFunc) {
	if fn == nil {
		e.hooks.Complete = nil
		return
	}
	e.hooks.Complete = func(text string, cursor int) []string { return fn(text, cursor) }
}

// SetAutoCompletion toggles whether Tab triggers the completion callback.
func (e *Editor) SetAutoCompletion(enabled bool) { e.cfg.EnableAutoCompletion = enabled }

// SetSyntaxHighlight registers fn as the display-time highlighter. Has no
// effect unless Config.EnableSyntaxHighlighting is set. The Display Engine
// calls fn only to choose what bytes to write to the terminal — every
// cursor-position and line-wrap computation stays keyed to the plain
// buffer text, per spec.md §6's "styling must not alter width accounting."
func (e *Editor) SetSyntaxHighlight(fn HighlightFunc) {
	if fn == nil {
		e.hooks.Highlight = nil
		return
	}
	e.hooks.Highlight = func(text string) string { return fn(text) }
}

// SetSyntaxHighlighting toggles whether the registered highlighter is
// consulted when rendering.
func (e *Editor) SetSyntaxHighlighting(enabled bool) { e.cfg.EnableSyntaxHighlighting = enabled }

// SetMultiline toggles the continuation-checker hook and registers fn as
// the checker itself: Enter inserts a newline instead of accepting the
// line whenever fn(text) reports true.
func (e *Editor) SetMultiline(enabled bool, fn ContinuationFunc) {
	e.cfg.EnableMultiline = enabled
	if fn == nil {
		e.hooks.ContinuationChecker = nil
		return
	}
	e.hooks.ContinuationChecker = func(text string) bool { return fn(text) }
}

// ReadLine reads one line interactively, displaying prompt and returning
// once the user accepts (Enter, or an incomplete-statement continuation
// resolves), interrupts (Ctrl-C), or reaches end of input (Ctrl-D on an
// empty line, or the input stream closing).
//
// On interrupt, ReadLine returns ("", ErrInterrupted). On end of input, it
// returns the partial line collected so far and ErrEndOfInput. Both are
// ordinary sentinel errors checkable with errors.Is; LastError additionally
// exposes the most recent *Error for callers that want the structured form.
func (e *Editor) ReadLine(prompt string) (string, error) {
	loop := control.New(e.in, e.sink, e.effectiveHistory(), control.Options{
		EscapeTimeout:      e.cfg.EscapeTimeout,
		EnableHistory:      e.cfg.EnableHistory,
		EnableUndo:         e.cfg.EnableUndo,
		MaxUndoActions:     e.cfg.MaxUndoActions,
		EnableMultiline:    e.cfg.EnableMultiline,
		EnableCompletion:   e.cfg.EnableAutoCompletion,
		EnableSyntaxHighlighting: e.cfg.EnableSyntaxHighlighting,
		FastHistoryReplace: e.cfg.FastHistoryReplace,
		WidthFunc:          e.widthFunc(),
	}, e.hooks)

	result, err := loop.ReadLine(prompt)
	if err != nil {
		e.last = newError(ErrKindTerminalIO, "read line", err)
		return "", e.last
	}

	switch result.Outcome {
	case control.OutcomeInterrupted:
		e.last = &Error{Kind: ErrKindInterrupted, Msg: "interrupted"}
		return "", e.last
	case control.OutcomeEOF:
		e.last = &Error{Kind: ErrKindEndOfInput, Msg: "end of input"}
		return result.Text, e.last
	default:
		e.last = nil
		return result.Text, nil
	}
}

// effectiveHistory returns the Editor's history store, or nil when
// history is disabled, so control.Loop can skip its bookkeeping entirely.
func (e *Editor) effectiveHistory() *history.Store {
	if !e.cfg.EnableHistory {
		return nil
	}
	return e.hist
}

// widthFunc resolves Config.WideCharWidth to a concrete cursormath.WidthFunc.
func (e *Editor) widthFunc() cursormath.WidthFunc {
	switch e.cfg.WideCharWidth {
	case WidthModeDeclaredAmbiguous:
		return func(s string) int {
			return uniwidth.StringWidthWithOptions(s, uniwidth.WithEastAsianAmbiguous(uniwidth.EANarrow))
		}
	case WidthModeDeclaredWide:
		return func(s string) int {
			return uniwidth.StringWidthWithOptions(s, uniwidth.WithEastAsianAmbiguous(uniwidth.EAWide))
		}
	default:
		return cursormath.DefaultWidth
	}
}

// AddHistory appends text to the history store directly, without going
// through ReadLine's accept path. Useful for seeding history from a prior
// session (see LoadHistory) or recording a line the host computed itself.
func (e *Editor) AddHistory(text string) {
	if e.cfg.EnableHistory {
		e.hist.Push(text, time.Now())
	}
}

// ClearHistory discards every history entry.
func (e *Editor) ClearHistory() { e.hist.Clear() }

// HistoryCount returns the number of stored history entries.
func (e *Editor) HistoryCount() int { return e.hist.Len() }

// LoadHistory replaces the Editor's history store with the contents of r,
// one line per history entry, per spec.md §6's history file format.
func (e *Editor) LoadHistory(r io.Reader) error {
	h, err := history.LoadFile(r, e.cfg.MaxHistorySize, e.cfg.NoHistoryDuplicates, time.Now())
	if err != nil {
		return newError(ErrKindInvalidParameter, "load history", err)
	}
	e.hist = h
	return nil
}

// SaveHistory writes the Editor's history store to w, one line per entry.
func (e *Editor) SaveHistory(w io.Writer) error {
	if err := e.hist.SaveFile(w); err != nil {
		return newError(ErrKindTerminalIO, "save history", err)
	}
	return nil
}

// LastError returns the *Error from the most recent ReadLine call that
// did not end in OutcomeAccepted, or nil if the last call accepted
// cleanly or no call has been made yet.
func (e *Editor) LastError() *Error { return e.last }
