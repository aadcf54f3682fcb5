// Package control implements the Control Loop (spec.md §4.9): the single
// per-call driver that wires the Text Buffer, Prompt Model, Terminal Sink,
// Display Engine, History Store, Key Decoder, and Edit Command dispatcher
// together into one read_line call.
//
// The loop shape — build state, enter raw mode, render, decode-dispatch-
// update until a terminal condition, always restore on the way out — is
// grounded on
// tea/internal/application/program/program.go's Program.Run: single
// owning goroutine, deferred cleanup, no background event-loop channels
// for the parts of the lifecycle that are inherently sequential (spec.md
// §5 calls for exactly this: one goroutine per read_line, no concurrent
// mutation of the Text Buffer). Input and output are two separate
// collaborators (an io.Reader and a termsink.Sink) rather than one
// combined object, the same separation Program keeps between its `input
// io.Reader` and `terminal Terminal` fields.
package control

import (
	"errors"
	"io"
	"time"

	"github.com/phoenix-tui/lineedit/internal/cursormath"
	"github.com/phoenix-tui/lineedit/internal/display"
	"github.com/phoenix-tui/lineedit/internal/editcmd"
	"github.com/phoenix-tui/lineedit/internal/history"
	"github.com/phoenix-tui/lineedit/internal/keyevent"
	"github.com/phoenix-tui/lineedit/internal/promptmodel"
	"github.com/phoenix-tui/lineedit/internal/termsink"
	"github.com/phoenix-tui/lineedit/internal/textbuffer"
)

// Outcome classifies how a ReadLine call ended.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeInterrupted
	OutcomeEOF
)

// Result is what one ReadLine call returns.
type Result struct {
	Text    string
	Outcome Outcome
}

// Hooks are the optional host-provided extension points spec.md §6
// describes: completion, syntax highlighting, and multiline continuation.
// Any hook left nil is simply not consulted.
type Hooks struct {
	// Complete returns candidate completions for text[:cursor]. Triggered
	// by Tab when EnableCompletion is set. A single candidate replaces
	// text[:cursor] outright; with several, each successive Tab press
	// cycles to the next one (only the completion-menu UI is left out of
	// scope — see Non-goals). No candidates is a no-op.
	Complete func(text string, cursor int) []string
	// ContinuationChecker reports whether text is an incomplete statement
	// that Enter should continue (insert a newline) instead of accept,
	// per SPEC_FULL.md's multiline supplement. Consulted only when
	// EnableMultiline is set.
	ContinuationChecker func(text string) bool
	// Highlight returns a styled rendering of text for the Display Engine
	// to write in place of the plain text, per spec.md §6. Consulted only
	// when Options.EnableSyntaxHighlighting is set; cursor math is never
	// affected, since it is always computed against the plain text.
	Highlight func(text string) string
}

// Options bundles the construction-time behavior ReadLine needs, mirroring
// the fields of lineedit.Config this package actually consumes (the root
// package passes its Config through rather than this package importing
// the root package, to avoid an import cycle).
type Options struct {
	EscapeTimeout      time.Duration
	EnableHistory      bool
	EnableUndo         bool
	MaxUndoActions     int
	EnableMultiline    bool
	EnableCompletion   bool
	EnableSyntaxHighlighting bool
	FastHistoryReplace bool
	WidthFunc          cursormath.WidthFunc
}

// Loop drives sequential ReadLine calls against one input stream, one
// terminal sink, and one history store.
type Loop struct {
	in       io.Reader
	sink     termsink.Sink
	hist     *history.Store
	opts     Options
	hooks    Hooks
	killRing *editcmd.KillRing
}

// New returns a Loop reading from in and writing to sink. hist may be nil,
// which behaves as if opts.EnableHistory were false regardless of its
// actual value.
func New(in io.Reader, sink termsink.Sink, hist *history.Store, opts Options, hooks Hooks) *Loop {
	return &Loop{
		in:       in,
		sink:     sink,
		hist:     hist,
		opts:     opts,
		hooks:    hooks,
		killRing: editcmd.NewKillRing(50),
	}
}

// ErrInterrupted and ErrEndOfInput classify Outcome for callers that
// prefer an error return. Loop.ReadLine does not return them; it reports
// the outcome in Result.Outcome, which the root package's Editor.ReadLine
// maps to its own typed *Error.
var (
	ErrInterrupted = errors.New("control: interrupted")
	ErrEndOfInput  = errors.New("control: end of input")
)

// session holds everything one ReadLine call threads through its
// sub-handlers, so dispatch methods don't carry a dozen positional
// parameters.
type session struct {
	buf    *textbuffer.Buffer
	prompt *promptmodel.Model
	width  int
	engine *display.Engine
	undo   *editcmd.UndoRing
	search *editcmd.SearchState

	// Tab-completion cycling state (spec.md §6): when Hooks.Complete returns
	// more than one candidate, successive Tab presses cycle through them
	// instead of inserting only the first.
	completing            bool
	completionCandidates []string
	completionIndex      int
	completionRest        string // buffer suffix preserved across cycles
}

func (l *Loop) render(s *session) error {
	return s.engine.Render(s.buf.String(), s.buf.Cursor(), s.prompt, s.width)
}

// renderSearch repaints the reverse-incremental-search mini-prompt below
// the frozen pre-search line, per spec.md §4.8.
func (l *Loop) renderSearch(s *session) error {
	return s.engine.RenderSearch(s.buf.String(), s.search.Query, s.search.Match, s.search.Found, s.prompt, s.width)
}

// ReadLine runs one interactive edit session: render the prompt, read and
// dispatch key events until Enter/Ctrl-C/Ctrl-D, then restore the
// terminal and return the collected line, per spec.md §4.9.
func (l *Loop) ReadLine(promptText string) (Result, error) {
	if err := l.sink.EnterRawMode(); err != nil {
		return Result{}, err
	}
	defer l.sink.ExitRawMode()

	width, _, err := l.sink.Size()
	if err != nil || width <= 0 {
		width = termsink.FallbackWidth
	}

	s := &session{
		buf:    textbuffer.New(),
		prompt: promptmodel.Parse(promptText, promptmodel.WidthFunc(l.opts.WidthFunc)),
		width:  width,
		engine: display.New(l.sink, l.opts.WidthFunc),
		undo:   editcmd.NewUndoRing(l.opts.MaxUndoActions),
	}
	if l.opts.EnableSyntaxHighlighting && l.hooks.Highlight != nil {
		s.engine.SetHighlight(l.hooks.Highlight)
	}

	if err := l.render(s); err != nil {
		return Result{}, err
	}

	decoder := keyevent.NewDecoder(l.in, l.opts.EscapeTimeout)
	defer decoder.Close()

	if l.hist != nil && l.opts.EnableHistory {
		// Reset navigation left over from an earlier call, so the first
		// Up of this call saves the line being typed.
		_ = l.hist.TakeInProgress()
	}

	for {
		ev, err := decoder.Decode()
		if err != nil {
			if errors.Is(err, keyevent.ErrClosed) {
				return Result{Text: s.buf.String(), Outcome: OutcomeEOF}, nil
			}
			return Result{}, err
		}

		result, err := l.handle(s, ev)
		if err != nil {
			return Result{}, err
		}
		if result != nil {
			return *result, nil
		}
	}
}

// handle processes one decoded event against session s, returning a
// non-nil Result once the line is complete (accepted, interrupted, or at
// EOF).
func (l *Loop) handle(s *session, ev keyevent.Event) (*Result, error) {
	if s.search != nil {
		return l.handleSearchEvent(s, ev)
	}

	cmd := editcmd.Lookup(ev)

	switch cmd {
	case editcmd.CmdReverseSearchStart:
		s.search = editcmd.NewSearchState(s.buf.String(), s.buf.Cursor(), l.hist)
		return nil, l.renderSearch(s)

	case editcmd.CmdInterrupt:
		return &Result{Text: s.buf.String(), Outcome: OutcomeInterrupted}, nil

	case editcmd.CmdDeleteForward:
		if ev.Ctrl && ev.Rune == 'd' && s.buf.Len() == 0 {
			return &Result{Outcome: OutcomeEOF}, nil
		}
	}

	if cmd == editcmd.CmdAcceptLine && l.opts.EnableMultiline && l.hooks.ContinuationChecker != nil &&
		l.hooks.ContinuationChecker(s.buf.String()) {
		s.buf.InsertChar('\n')
		return nil, l.render(s)
	}

	if cmd == editcmd.CmdAcceptLine {
		if l.hist != nil && l.opts.EnableHistory {
			l.hist.Push(s.buf.String(), time.Now())
		}
		return &Result{Text: s.buf.String(), Outcome: OutcomeAccepted}, nil
	}

	if cmd != editcmd.CmdComplete {
		s.completing = false
	}

	if err := l.applyCommand(s, cmd, ev); err != nil {
		return nil, err
	}
	return nil, l.render(s)
}

// applyCommand mutates s.buf (and, for history/kill-ring/undo commands,
// the Loop's auxiliary state) for every Command except CmdAcceptLine,
// CmdReverseSearchStart, and CmdInterrupt, which handle is responsible
// for handling before reaching here.
func (l *Loop) applyCommand(s *session, cmd editcmd.Command, ev keyevent.Event) error {
	if l.opts.EnableUndo && mutates(cmd) {
		s.undo.Push(editcmd.Snapshot{Text: s.buf.String(), Cursor: s.buf.Cursor()})
	}

	switch cmd {
	case editcmd.CmdInsertRune:
		s.buf.InsertChar(ev.Rune)
	case editcmd.CmdMoveLeft:
		s.buf.MoveCursor(-1)
	case editcmd.CmdMoveRight:
		s.buf.MoveCursor(1)
	case editcmd.CmdMoveWordLeft:
		s.buf.SetCursor(s.buf.MoveWordLeft())
	case editcmd.CmdMoveWordRight:
		s.buf.SetCursor(s.buf.MoveWordRight())
	case editcmd.CmdMoveHome:
		s.buf.SetCursor(0)
	case editcmd.CmdMoveEnd:
		s.buf.SetCursor(s.buf.Len())
	case editcmd.CmdDeleteBackward:
		s.buf.DeleteBeforeCursor()
	case editcmd.CmdDeleteForward:
		s.buf.DeleteAtCursor()
	case editcmd.CmdKillToEOL:
		l.killRing.Kill(s.buf.KillToEOL())
	case editcmd.CmdKillToBOL:
		l.killRing.Kill(s.buf.KillToBOL())
	case editcmd.CmdClearLine:
		s.buf.Clear()
	case editcmd.CmdKillWordBackward:
		l.killRing.Kill(s.buf.KillWordBackward())
	case editcmd.CmdDeleteWordForward:
		l.killRing.Kill(s.buf.DeleteWordForward())
	case editcmd.CmdYank:
		s.buf.InsertString(l.killRing.Yank())
	case editcmd.CmdYankPop:
		s.buf.InsertString(l.killRing.YankPop())
	case editcmd.CmdTranspose:
		s.buf.Transpose()
	case editcmd.CmdUndo:
		if l.opts.EnableUndo {
			if snap, ok := s.undo.Pop(); ok {
				s.buf.SetCursor(0)
				s.buf.Clear()
				s.buf.InsertString(snap.Text)
				s.buf.SetCursor(snap.Cursor)
			}
		}
	case editcmd.CmdHistoryPrev:
		l.recallHistory(s, true)
	case editcmd.CmdHistoryNext:
		l.recallHistory(s, false)
	case editcmd.CmdClearScreen:
		s.engine.MarkDivergent()
	case editcmd.CmdComplete:
		l.complete(s)
	case editcmd.CmdNone:
		// Unbound combination — ignored per spec.md §4.8.
	}
	return nil
}

// mutates reports whether cmd changes buffer contents in a way worth
// checkpointing for Undo. Pure cursor motion and no-ops are excluded so
// Alt-U doesn't spend ring slots on moves that never needed undoing.
func mutates(cmd editcmd.Command) bool {
	switch cmd {
	case editcmd.CmdInsertRune, editcmd.CmdDeleteBackward, editcmd.CmdDeleteForward,
		editcmd.CmdKillToEOL, editcmd.CmdKillToBOL, editcmd.CmdKillWordBackward,
		editcmd.CmdDeleteWordForward, editcmd.CmdYank, editcmd.CmdYankPop, editcmd.CmdTranspose,
		editcmd.CmdClearLine:
		return true
	default:
		return false
	}
}

// recallHistory replaces s.buf's contents with the previous/next history
// entry via the Display Engine's destructive-backspace replace_all, per
// spec.md §4.5/§4.6.
func (l *Loop) recallHistory(s *session, prev bool) {
	if l.hist == nil || !l.opts.EnableHistory {
		return
	}
	old := s.buf.String()

	var text string
	var ok bool
	if prev {
		if !l.hist.IsNavigating() {
			l.hist.SaveInProgress(old)
		}
		text, ok = l.hist.Prev()
	} else {
		text, ok = l.hist.Next()
		if !ok {
			text = l.hist.TakeInProgress()
			ok = true
		}
	}
	if !ok {
		return
	}

	s.buf.Clear()
	s.buf.InsertString(text)
	_ = s.engine.ReplaceAll(old, text, s.prompt, s.width, l.opts.FastHistoryReplace)
}

// complete consults Hooks.Complete and replaces text[:cursor] with a
// candidate. A single candidate is inserted outright; with several, each
// successive Tab press (while the buffer hasn't changed otherwise) cycles
// to the next one, per spec.md §6 — only the completion-menu UI is out of
// scope, not the cycling itself.
func (l *Loop) complete(s *session) {
	if !l.opts.EnableCompletion || l.hooks.Complete == nil {
		return
	}
	if !s.completing {
		candidates := l.hooks.Complete(s.buf.String(), s.buf.Cursor())
		if len(candidates) == 0 {
			return
		}
		s.completing = true
		s.completionCandidates = candidates
		s.completionIndex = 0
		s.completionRest = s.buf.String()[s.buf.Cursor():]
	} else {
		s.completionIndex = (s.completionIndex + 1) % len(s.completionCandidates)
	}

	s.buf.Clear()
	s.buf.InsertString(s.completionCandidates[s.completionIndex])
	insertPoint := s.buf.Cursor()
	s.buf.InsertString(s.completionRest)
	s.buf.SetCursor(insertPoint)
}

// handleSearchEvent advances an in-progress reverse-incremental search,
// per spec.md §4.8's Ctrl-R substate.
func (l *Loop) handleSearchEvent(s *session, ev keyevent.Event) (*Result, error) {
	switch {
	case ev.Kind == keyevent.KindRune && ev.Ctrl && ev.Rune == 'r':
		// A repeated Ctrl-R advances the anchor to the prior match and
		// re-searches with the same query, per spec.md §4.8 — it must not
		// accept-and-restart like any other key would.
		s.search.Advance(l.hist)
	case ev.Kind == keyevent.KindRune && !ev.Ctrl && !ev.Alt:
		s.search.Step(ev.Rune, l.hist)
	case ev.Kind == keyevent.KindBackspace:
		s.search.Backspace(l.hist)
	case ev.Kind == keyevent.KindEsc || (ev.Kind == keyevent.KindRune && ev.Ctrl && ev.Rune == 'g'):
		text, cursor := s.search.Cancel()
		s.buf.Clear()
		s.buf.InsertString(text)
		s.buf.SetCursor(cursor)
		s.search = nil
		s.engine.MarkDivergent()
		return nil, l.render(s)
	case ev.Kind == keyevent.KindEnter:
		text, cursor := s.search.Accept()
		s.buf.Clear()
		s.buf.InsertString(text)
		s.buf.SetCursor(cursor)
		s.search = nil
		s.engine.MarkDivergent()
		if err := l.render(s); err != nil {
			return nil, err
		}
		if l.hist != nil && l.opts.EnableHistory {
			l.hist.Push(text, time.Now())
		}
		return &Result{Text: text, Outcome: OutcomeAccepted}, nil
	default:
		// Any other key ends the search and is then dispatched normally,
		// matching common readline Ctrl-R exit behavior.
		text, cursor := s.search.Accept()
		s.buf.Clear()
		s.buf.InsertString(text)
		s.buf.SetCursor(cursor)
		s.search = nil
		s.engine.MarkDivergent()
		return l.handle(s, ev)
	}
	return nil, l.renderSearch(s)
}
