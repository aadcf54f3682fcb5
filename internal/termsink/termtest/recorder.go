// Package termtest provides Recorder, a recording termsink.Sink for the
// scripted end-to-end scenarios spec.md §8 requires — every byte the
// Display Engine would have sent to a real terminal is captured instead,
// so a test can assert on the exact escape-sequence transcript.
//
// Grounded on testing.MockTerminal's call-name recording and
// terminal/infrastructure/renderer/inline_test.go-style assertions against
// accumulated output; extended here to also record raw bytes, since
// spec.md's test scenarios assert on rendered screen content, not just
// which operations fired.
package termtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/phoenix-tui/lineedit/internal/termsink"
)

// Recorder is a thread-safe, no-op termsink.Sink that records every call
// and every byte written.
type Recorder struct {
	mu sync.Mutex

	Calls  []string // method calls with arguments, teacher MockTerminal style
	Output strings.Builder // concatenation of every Write/escape-sequence byte

	width, height int
	inRawMode     bool
	cursorStyle   termsink.CursorStyle

	// SizeErr, when non-nil, makes Size() return it instead of width/height,
	// for exercising spec.md §3's fallback-to-80x24 path.
	SizeErr error
}

// New returns a Recorder reporting the given terminal dimensions from
// Size().
func New(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) record(call string) {
	r.Calls = append(r.Calls, call)
}

func (r *Recorder) Write(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(fmt.Sprintf("Write(%q)", s))
	r.Output.WriteString(s)
	return nil
}

func (r *Recorder) MoveUp(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(fmt.Sprintf("MoveUp(%d)", n))
	if n > 0 {
		fmt.Fprintf(&r.Output, "\033[%dA", n)
	}
	return nil
}

func (r *Recorder) MoveDown(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(fmt.Sprintf("MoveDown(%d)", n))
	if n > 0 {
		fmt.Fprintf(&r.Output, "\033[%dB", n)
	}
	return nil
}

func (r *Recorder) MoveToColumn(col int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(fmt.Sprintf("MoveToColumn(%d)", col))
	if col <= 0 {
		r.Output.WriteString("\r")
	} else {
		fmt.Fprintf(&r.Output, "\r\033[%dC", col)
	}
	return nil
}

func (r *Recorder) ClearLine() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ClearLine")
	r.Output.WriteString("\r\033[2K")
	return nil
}

func (r *Recorder) ClearToEndOfLine() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ClearToEndOfLine")
	r.Output.WriteString("\033[K")
	return nil
}

func (r *Recorder) ClearToEndOfScreen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ClearToEndOfScreen")
	r.Output.WriteString("\033[J")
	return nil
}

func (r *Recorder) HideCursor() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("HideCursor")
	r.Output.WriteString("\033[?25l")
	return nil
}

func (r *Recorder) ShowCursor() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ShowCursor")
	r.Output.WriteString("\033[?25h")
	return nil
}

func (r *Recorder) SetCursorStyle(style termsink.CursorStyle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(fmt.Sprintf("SetCursorStyle(%d)", style))
	r.cursorStyle = style
	return nil
}

func (r *Recorder) Size() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SizeErr != nil {
		return 0, 0, r.SizeErr
	}
	w := r.width
	if w < termsink.MinWidth {
		w = termsink.MinWidth
	}
	return w, r.height, nil
}

func (r *Recorder) EnterRawMode() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EnterRawMode")
	r.inRawMode = true
	return nil
}

func (r *Recorder) ExitRawMode() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ExitRawMode")
	r.inRawMode = false
	return nil
}

func (r *Recorder) IsInRawMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inRawMode
}

func (r *Recorder) DestructiveBackspace() []byte { return []byte("\b \b") }

// CallCount returns how many times method was recorded, teacher
// MockTerminal style (exact match or "Method(" prefix).
func (r *Recorder) CallCount(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.Calls {
		if c == method || (len(c) > len(method) && c[:len(method)] == method && c[len(method)] == '(') {
			n++
		}
	}
	return n
}

// Reset clears recorded calls and output, keeping configured dimensions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
	r.Output.Reset()
}

// SetSize changes the dimensions reported by Size(), for scenarios that
// simulate a terminal resize mid read_line.
func (r *Recorder) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}
