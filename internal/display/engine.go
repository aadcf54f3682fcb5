// Package display implements the Display Engine (spec.md §4.5): a
// predictive terminal-state model sitting between the Control Loop and the
// Terminal Sink. It tracks what it last believes is on screen, compares
// that against the buffer's new content and cursor, and emits the smallest
// sequence of Terminal Sink operations that brings the two back in sync.
//
// The diff-and-reposition strategy is grounded on
// tea/internal/infrastructure/renderer/inline.go's InlineRenderer.Render:
// cursor-up to the top of the previously rendered region, per-line rewrite
// of changed lines, erase-to-EOL on every rewritten line, erase-to-end-of-
// screen when the new frame has fewer lines. That algorithm diffed whole
// opaque view strings; this package generalizes it to spec.md §4.5's five
// named incremental cases (cursor-only move, append at tail, interior edit,
// footprint growth, footprint shrink) because the Display Engine additionally
// has to reason about where the *cursor* sits mid-frame, not just the
// rendered text.
package display

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/phoenix-tui/lineedit/internal/cursormath"
	"github.com/phoenix-tui/lineedit/internal/promptmodel"
	"github.com/phoenix-tui/lineedit/internal/termsink"
)

// State is the Display Engine's belief about how its notion of the screen
// relates to the real terminal, per spec.md §4.5.
type State int

const (
	// Fresh means nothing has been rendered yet for the current read_line
	// call; the next render must be a render_full.
	Fresh State = iota
	// Synced means the last render exactly reflects the current buffer and
	// cursor; update_incremental may no-op.
	Synced
	// Dirty means the buffer or cursor changed since the last render but the
	// Display Engine still trusts its model of what's on screen; an
	// incremental update is safe.
	Dirty
	// Divergent means the Display Engine no longer trusts its model (a
	// terminal resize, a failed write, or an externally-detected repaint
	// request) and must fall back to render_full on the next call.
	Divergent
)

// frame is a snapshot of everything a render depends on.
type frame struct {
	text   string
	cursor int // byte offset into text
	prompt *promptmodel.Model
	width  int
}

// Engine is the Display Engine. One Engine is created per read_line call,
// matching spec.md §5's "one Display Engine per call" resource model.
type Engine struct {
	sink      termsink.Sink
	width     WidthFunc
	state     State
	last      frame
	footer    Footprint // previous frame's on-screen footprint
	highlight func(string) string
}

// WidthFunc measures the display width of a single grapheme cluster; the
// zero value defers to cursormath.DefaultWidth.
type WidthFunc = cursormath.WidthFunc

// Footprint is re-exported from cursormath for callers that only import
// this package.
type Footprint = cursormath.Footprint

// New returns an Engine in the Fresh state, writing through sink.
func New(sink termsink.Sink, width WidthFunc) *Engine {
	return &Engine{sink: sink, width: width, state: Fresh}
}

// MarkDivergent forces the next render to be a full repaint, per spec.md
// §4.5's recovery path for a detected resize or a failed write mid-frame.
func (e *Engine) MarkDivergent() { e.state = Divergent }

// SetHighlight registers fn as the style hook consulted when writing buffer
// text, per spec.md §6: fn's returned string is what reaches the Sink, but
// every cursor-position and footprint computation stays keyed to the plain
// text passed to Render/ReplaceAll, never to fn's output. A nil fn (the
// default) disables styling.
func (e *Engine) SetHighlight(fn func(string) string) { e.highlight = fn }

// styledText returns fn(s) if a highlighter is registered, else s
// unchanged. Called only at the point of writing to the Sink, never when
// computing width/position.
func (e *Engine) styledText(s string) string {
	if e.highlight == nil || s == "" {
		return s
	}
	return e.highlight(s)
}

// State reports the engine's current belief, chiefly for tests.
func (e *Engine) State() State { return e.state }

// Render brings the screen in sync with text/cursor against prompt p and
// terminal width w, choosing render_full or update_incremental per
// spec.md §4.5.
func (e *Engine) Render(text string, cursor int, p *promptmodel.Model, w int) error {
	cur := frame{text: text, cursor: cursor, prompt: p, width: w}

	if e.state == Fresh || e.state == Divergent || e.last.prompt == nil || e.last.prompt.Raw != p.Raw || e.last.width != w {
		return e.renderFull(cur)
	}
	if cur == e.last {
		e.state = Synced
		return nil
	}
	return e.updateIncremental(cur)
}

// renderFull repaints the whole prompt+buffer from scratch: hide cursor,
// clear the previously rendered footprint (if any), write prompt+text,
// move the cursor to its computed position, show cursor.
func (e *Engine) renderFull(cur frame) error {
	if err := e.sink.HideCursor(); err != nil {
		return err
	}
	if e.footer.Rows > 0 {
		// Return to the top of whatever was on screen before clearing, so a
		// render_full issued from Divergent never leaves stale rows behind.
		// After a normal frame the cursor may sit on any row and e.footer
		// covers only the buffer text, so start from the tracked cursor row
		// and add the prompt's earlier lines.
		up := e.footer.Rows - 1
		if e.last.prompt != nil {
			up = e.lastCursorPosition(e.last.text).Row + e.last.prompt.Height - 1
		}
		if err := e.sink.MoveUp(up); err != nil {
			return err
		}
		if err := e.sink.ClearLine(); err != nil {
			return err
		}
		if err := e.sink.ClearToEndOfScreen(); err != nil {
			return err
		}
	} else {
		if err := e.sink.ClearLine(); err != nil {
			return err
		}
	}

	full := cur.prompt.Raw + cur.text
	if err := e.writeMultiline(cur.prompt.Raw + e.styledText(cur.text)); err != nil {
		return err
	}

	fp := cursormath.Footprint(full, 0, cur.width, e.width)
	if err := e.repositionFromEnd(fp, cur); err != nil {
		return err
	}
	if err := e.sink.ShowCursor(); err != nil {
		return err
	}

	e.last = cur
	e.footer = cursormath.Footprint(cur.text, cur.prompt.LastLineWidth, cur.width, e.width)
	e.state = Synced
	return nil
}

// writeMultiline writes s line by line using \r\n so the Sink never
// depends on the terminal's own line-wrap/scroll handling for explicit
// newlines embedded in the prompt or a multiline buffer.
func (e *Engine) writeMultiline(s string) error {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if err := e.sink.Write(line); err != nil {
			return err
		}
		if err := e.sink.ClearToEndOfLine(); err != nil {
			return err
		}
		if i < len(lines)-1 {
			if err := e.sink.Write("\r\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// repositionFromEnd moves the cursor from wherever writeMultiline left it
// (end of full) to the position cursormath computes for cur's cursor
// offset within cur.text.
func (e *Engine) repositionFromEnd(endFootprint Footprint, cur frame) error {
	target := cursormath.PositionAt(cur.text, cur.cursor, cur.prompt.LastLineWidth, cur.width, e.width)
	endRow := endFootprint.Rows - 1

	if endRow > target.Row {
		if err := e.sink.MoveUp(endRow - target.Row); err != nil {
			return err
		}
	} else if target.Row > endRow {
		if err := e.sink.MoveDown(target.Row - endRow); err != nil {
			return err
		}
	}
	return e.sink.MoveToColumn(target.Col)
}

// RenderSearch repaints the reverse-incremental-search substate, per
// spec.md §4.8: the frozen pre-search line unchanged, followed by a second
// line holding the "(reverse-i-search)'Q': MATCH" mini-prompt. It always
// does a full repaint rather than diffing against the prior frame, since the
// substate's two-line shape never matches e.last's single-line model.
func (e *Engine) RenderSearch(mainText, query, match string, found bool, p *promptmodel.Model, w int) error {
	if err := e.sink.HideCursor(); err != nil {
		return err
	}
	if e.footer.Rows > 0 {
		if err := e.sink.MoveUp(e.footer.Rows - 1); err != nil {
			return err
		}
		if err := e.sink.ClearLine(); err != nil {
			return err
		}
		if err := e.sink.ClearToEndOfScreen(); err != nil {
			return err
		}
	} else {
		if err := e.sink.ClearLine(); err != nil {
			return err
		}
	}

	searchLine := "(reverse-i-search)'" + query + "': "
	if found {
		searchLine += match
	}

	full := p.Raw + mainText + "\n" + searchLine
	if err := e.writeMultiline(p.Raw + e.styledText(mainText) + "\n" + searchLine); err != nil {
		return err
	}
	if err := e.sink.ShowCursor(); err != nil {
		return err
	}

	e.last = frame{}
	e.footer = cursormath.Footprint(full, 0, w, e.width)
	e.state = Divergent
	return nil
}

// updateIncremental implements spec.md §4.5's five named cases, chosen by
// comparing cur against e.last:
//
//  1. cursor-only move: text unchanged, cursor offset differs — reposition
//     only.
//  2. append at tail: cur.text has e.last.text as a prefix and the cursor
//     sits at the new end — write only the appended suffix.
//  3. interior edit: the first byte of divergence between the two texts is
//     found, the shared prefix kept, everything from there rewritten.
//  4. footprint growth: the new frame occupies more rows than the old one
//     — the whole frame is repainted with render_full.
//  5. footprint shrink: the new frame occupies fewer rows — rewrite the
//     shared region, erase the rows that no longer exist.
func (e *Engine) updateIncremental(cur frame) error {
	e.state = Dirty
	oldFP := cursormath.Footprint(e.last.text, e.last.prompt.LastLineWidth, e.last.width, e.width)
	newFP := cursormath.Footprint(cur.text, cur.prompt.LastLineWidth, cur.width, e.width)

	isAppend := strings.HasPrefix(cur.text, e.last.text) &&
		e.last.cursor == len(e.last.text) &&
		cur.cursor == len(cur.text)

	switch {
	case cur.text == e.last.text:
		// Case 1: cursor-only move.
		return e.moveCursorOnly(cur)

	case isAppend && newFP.Rows == oldFP.Rows:
		// Case 2: pure append that doesn't change the row count — the
		// common fast path of typing at the end of the line.
		return e.appendSuffix(cur, e.last.text)

	case newFP.Rows > oldFP.Rows:
		// Case 4: footprint growth.
		return e.renderFull(cur)

	case newFP.Rows < oldFP.Rows:
		// Case 5: footprint shrink — rewrite then erase trailing rows.
		if err := e.rewriteFromDivergence(cur); err != nil {
			return err
		}
		if err := e.sink.ClearToEndOfScreen(); err != nil {
			return err
		}
		e.last = cur
		e.footer = newFP
		e.state = Synced
		return nil

	default:
		// Case 3: interior edit, same row count.
		return e.rewriteFromDivergence(cur)
	}
}

// moveCursorOnly repositions the cursor without touching rendered text.
func (e *Engine) moveCursorOnly(cur frame) error {
	oldPos := cursormath.PositionAt(e.last.text, e.last.cursor, e.last.prompt.LastLineWidth, e.last.width, e.width)
	newPos := cursormath.PositionAt(cur.text, cur.cursor, cur.prompt.LastLineWidth, cur.width, e.width)
	if oldPos.Row > newPos.Row {
		if err := e.sink.MoveUp(oldPos.Row - newPos.Row); err != nil {
			return err
		}
	} else if newPos.Row > oldPos.Row {
		if err := e.sink.MoveDown(newPos.Row - oldPos.Row); err != nil {
			return err
		}
	}
	if err := e.sink.MoveToColumn(newPos.Col); err != nil {
		return err
	}
	e.last = cur
	e.state = Synced
	return nil
}

// appendSuffix writes only the text appended after oldText, then
// repositions the cursor, for the common fast path of typing at the end
// of the line.
func (e *Engine) appendSuffix(cur frame, oldText string) error {
	suffix := cur.text[len(oldText):]
	if err := e.writeMultiline(e.styledText(suffix)); err != nil {
		return err
	}
	newFP := cursormath.Footprint(cur.text, cur.prompt.LastLineWidth, cur.width, e.width)
	if err := e.repositionFromEnd(newFP, cur); err != nil {
		return err
	}
	e.last = cur
	e.footer = newFP
	e.state = Synced
	return nil
}

// rewriteFromDivergence finds the first point where cur.text differs from
// e.last.text, moves the cursor there, clears to end of line, rewrites the
// remainder, and repositions the cursor to its final target — spec.md
// §4.5's interior-edit case.
func (e *Engine) rewriteFromDivergence(cur frame) error {
	oldText, newText := e.last.text, cur.text
	divergeAt := commonPrefixLen(oldText, newText)

	divPos := cursormath.PositionAt(oldText, divergeAt, e.last.prompt.LastLineWidth, e.last.width, e.width)
	curPos := e.lastCursorPosition(oldText)

	if curPos.Row > divPos.Row {
		if err := e.sink.MoveUp(curPos.Row - divPos.Row); err != nil {
			return err
		}
	} else if divPos.Row > curPos.Row {
		if err := e.sink.MoveDown(divPos.Row - curPos.Row); err != nil {
			return err
		}
	}
	if err := e.sink.MoveToColumn(divPos.Col); err != nil {
		return err
	}
	if err := e.sink.ClearToEndOfLine(); err != nil {
		return err
	}

	rest := newText[divergeAt:]
	if err := e.writeMultiline(e.styledText(rest)); err != nil {
		return err
	}

	newFP := cursormath.Footprint(newText, cur.prompt.LastLineWidth, cur.width, e.width)
	if err := e.repositionFromEnd(newFP, cur); err != nil {
		return err
	}
	e.last = cur
	e.footer = newFP
	e.state = Synced
	return nil
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// ReplaceAll re-renders text as a brand-new line entirely via destructive
// backspace: erase the old text one grapheme cluster at a time with the
// Sink's DestructiveBackspace() sequence, then write the new text, per
// spec.md §4.5's replace_all and §9's Open Question resolution (one
// unified algorithm, no macOS/Linux branch). Used by history navigation
// (Up/Down), where the whole line is logically replaced rather than
// incrementally edited.
//
// When fast is true (Config.FastHistoryReplace), the cheaper but more
// terminal-dependent replaceAllFast path is used instead.
func (e *Engine) ReplaceAll(oldText, newText string, p *promptmodel.Model, w int, fast bool) error {
	if fast {
		return e.replaceAllFast(oldText, newText, p, w)
	}

	if err := e.moveCursorToEnd(oldText); err != nil {
		return err
	}

	bs := string(e.sink.DestructiveBackspace())
	// Erase one grapheme cluster at a time from the end of oldText, via the
	// Sink's raw byte sequence — terminal-agnostic because it relies only
	// on backspace-overwrite-backspace semantics, never on cursor-position
	// queries.
	n := clusterCount(oldText)
	for i := 0; i < n; i++ {
		if err := e.sink.Write(bs); err != nil {
			return err
		}
	}
	if err := e.writeMultiline(e.styledText(newText)); err != nil {
		return err
	}

	e.last = frame{text: newText, cursor: len(newText), prompt: p, width: w}
	e.footer = cursormath.Footprint(newText, p.LastLineWidth, w, e.width)
	e.state = Synced
	return nil
}

// lastCursorPosition reports where e believes the terminal cursor currently
// sits within oldText, using the prompt/width e.last was rendered with (oldText
// is assumed to equal e.last.text — the caller's current on-screen content).
func (e *Engine) lastCursorPosition(oldText string) cursormath.Position {
	lastLineWidth, w := 0, e.last.width
	if e.last.prompt != nil {
		lastLineWidth = e.last.prompt.LastLineWidth
	}
	return cursormath.PositionAt(oldText, e.last.cursor, lastLineWidth, w, e.width)
}

// moveCursorToEnd repositions the terminal cursor from wherever the last
// render left it to the end of oldText, per spec.md §4.5(a)'s replace_all
// step: "move the cursor to the end of the current content" before erasing.
// Without this, a destructive-backspace loop started from a cursor that sits
// earlier in oldText (e.g. after Home/Ctrl-A) backspaces over the wrong
// columns, potentially into the prompt itself.
func (e *Engine) moveCursorToEnd(oldText string) error {
	cur := e.lastCursorPosition(oldText)
	lastLineWidth, w := 0, e.last.width
	if e.last.prompt != nil {
		lastLineWidth = e.last.prompt.LastLineWidth
	}
	end := cursormath.PositionAt(oldText, len(oldText), lastLineWidth, w, e.width)

	if cur.Row > end.Row {
		if err := e.sink.MoveUp(cur.Row - end.Row); err != nil {
			return err
		}
	} else if end.Row > cur.Row {
		if err := e.sink.MoveDown(end.Row - cur.Row); err != nil {
			return err
		}
	}
	return e.sink.MoveToColumn(end.Col)
}

// replaceAllFast erases the old rendering with a single cursor-reposition
// and clear-to-end-of-screen instead of a per-column destructive-backspace
// loop. It is faster (O(1) Sink calls instead of O(columns)) but depends on
// the terminal correctly honoring erase-to-end-of-screen across a footprint
// that may span wrapped rows — the fragility spec.md §4.5 documents as the
// tradeoff for opting in via Config.FastHistoryReplace.
func (e *Engine) replaceAllFast(oldText, newText string, p *promptmodel.Model, w int) error {
	curPos := e.lastCursorPosition(oldText)
	if curPos.Row > 0 {
		if err := e.sink.MoveUp(curPos.Row); err != nil {
			return err
		}
	}
	if err := e.sink.MoveToColumn(p.LastLineWidth); err != nil {
		return err
	}
	if err := e.sink.ClearToEndOfScreen(); err != nil {
		return err
	}
	if err := e.writeMultiline(e.styledText(newText)); err != nil {
		return err
	}

	e.last = frame{text: newText, cursor: len(newText), prompt: p, width: w}
	e.footer = cursormath.Footprint(newText, p.LastLineWidth, w, e.width)
	e.state = Synced
	return nil
}

// clusterCount returns the number of grapheme clusters in s — one
// destructive-backspace press per cluster regardless of its display width,
// matching a real terminal where backspace always moves exactly one
// column per keystroke. Newlines count as one cluster too: a destructive
// backspace across a line boundary is a terminal-dependent edge case
// spec.md §9 explicitly leaves to the FastHistoryReplace opt-in instead of
// the default algorithm.
func clusterCount(s string) int {
	n := 0
	pos := 0
	state := -1
	for pos < len(s) {
		cluster, _, _, ns := uniseg.FirstGraphemeClusterInString(s[pos:], state)
		state = ns
		pos += len(cluster)
		n++
	}
	return n
}
