// Package termsink defines the Terminal Sink (spec.md §4.4): the narrow
// write-only abstraction the Display Engine and Control Loop use to drive a
// real terminal, plus the raw-mode lifecycle and geometry query every
// control-loop iteration depends on.
//
// The interface is deliberately smaller than terminal/api.Terminal:
// spec.md's line editor never reads the screen back
// (ReadScreenBuffer has no analogue here) and never double-buffers a full
// alt-screen, so those surfaces are dropped rather than carried unused.
package termsink

import "time"

// CursorStyle selects the terminal cursor's shape, per spec.md §4.4's
// optional cursor-style hint. Grounded on terminal/types.CursorStyle's
// DECSCUSR enumeration.
type CursorStyle int

const (
	CursorStyleDefault CursorStyle = iota
	CursorStyleBlock
	CursorStyleUnderline
	CursorStyleBar
)

// Sink is the write-only terminal abstraction every Terminal Sink operation
// in spec.md §4.4 maps onto one-for-one.
type Sink interface {
	// Write emits s verbatim at the current cursor position.
	Write(s string) error

	// MoveUp and MoveDown move the cursor n rows, clamped at the screen
	// edges by the terminal itself (never by this interface).
	MoveUp(n int) error
	MoveDown(n int) error
	// MoveToColumn moves the cursor to the given 0-based column of the
	// current row, without changing row.
	MoveToColumn(col int) error

	// ClearLine returns the cursor to column 0 and erases the entire
	// current line.
	ClearLine() error
	// ClearToEndOfLine erases from the cursor to the end of the current line.
	ClearToEndOfLine() error
	// ClearToEndOfScreen erases from the cursor to the end of the screen.
	ClearToEndOfScreen() error

	// HideCursor and ShowCursor toggle cursor visibility during a render
	// pass, per spec.md §4.5's flicker-avoidance requirement.
	HideCursor() error
	ShowCursor() error
	// SetCursorStyle applies a DECSCUSR cursor shape hint. Implementations
	// that cannot express a style silently ignore it.
	SetCursorStyle(style CursorStyle) error

	// Size reports the terminal's current column/row count. A width below
	// MinWidth is clamped up to MinWidth. On a failed probe ANSISink
	// reports FallbackWidth x FallbackHeight, while termtest.Recorder
	// returns its configured error and the Control Loop falls back to
	// FallbackWidth.
	Size() (width, height int, err error)

	// EnterRawMode and ExitRawMode bracket a read_line call, per spec.md
	// §4.9's Control Loop lifecycle. ExitRawMode must be safe to call
	// without a matching EnterRawMode (no-op) so deferred cleanup is always
	// correct.
	EnterRawMode() error
	ExitRawMode() error
	IsInRawMode() bool

	// DestructiveBackspace returns the exact byte sequence the Display
	// Engine's replace_all uses to erase one already-rendered column,
	// per spec.md §9's Open Question resolution: one unified sequence,
	// no platform branch.
	DestructiveBackspace() []byte
}

// MinWidth is the floor spec.md §3 places on Terminal Geometry: a probed or
// configured width below this is clamped up to it, so cursor math never
// divides layout by a near-zero terminal.
const MinWidth = 20

// FallbackWidth and FallbackHeight are the Size() defaults spec.md §3
// mandates when the terminal cannot be probed (e.g. stdout redirected to a
// file, or the ioctl fails).
const (
	FallbackWidth  = 80
	FallbackHeight = 24
)

// destructiveBackspaceSeq is the one sequence every Sink implementation in
// this module returns from DestructiveBackspace: cursor left, overwrite
// with space, cursor left again. It works identically on every terminal
// that implements plain backspace semantics, which is why spec.md §9
// resolves the macOS/Linux Open Question by dropping the platform branch
// rather than keeping it.
var destructiveBackspaceSeq = []byte("\b \b")

// EscapeTimeout is carried here only as a documentation anchor: the Key
// Decoder (internal/keyevent) owns the actual timer and its own default of
// the same value. Nothing in this module reads this constant.
const EscapeTimeout = 100 * time.Millisecond
