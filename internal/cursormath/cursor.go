// Package cursormath implements the pure, I/O-free functions mapping buffer
// content + cursor + prompt geometry + terminal width to on-screen
// row/column, per spec.md §3 (Cursor Position) and §4.3.
//
// Layout follows spec.md §4.3's wrap rule exactly: the cursor sits after the
// prefix s[0:k] on a virtual text starting at column p; '\n' advances the
// row and resets the column; each displayable grapheme cluster advances the
// column by its width and wraps to column 0 of the next row *before*
// placement if it would exceed w-1. This mirrors the per-line width-budget
// arithmetic in
// tea/internal/infrastructure/renderer/inline.go's truncateLine/visualWidth,
// generalized from "truncate" to "wrap", and the grapheme-walk pattern in
// components/input/domain/service/cursor_movement.go.
package cursormath

import (
	"strings"

	"github.com/rivo/uniseg"
)

// WidthFunc measures the display width of a single grapheme cluster.
type WidthFunc func(cluster string) int

// DefaultWidth is uniseg.StringWidth, matching promptmodel.GraphemeWidth.
func DefaultWidth(cluster string) int { return uniseg.StringWidth(cluster) }

// Position is a computed cursor location, relative to the prompt's first
// line (spec.md §3 Cursor Position).
type Position struct {
	Row, Col  int
	AtWrapEdge bool // true if the cursor sits exactly at a deferred-wrap boundary
	Valid      bool
}

// Footprint is the rectangle of rows occupied by a rendered text, per
// spec.md §4.3's footprint().
type Footprint struct {
	Rows          int
	LastRowWidth  int
}

// clampWidth guards against a terminal width below spec.md §3's stated
// minimum; callers (termsink geometry) are expected to enforce the minimum
// of 20, but cursor math degrades gracefully instead of dividing by zero.
func clampWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}

// walk lays out s starting at column startCol against width w, invoking
// visit(row, col, clusterStart, clusterEnd) with the cluster's byte range in
// s for every grapheme cluster except '\n', which only starts a new row
// without a visit call. It returns the row/col immediately after
// the last character, and whether that final position sits exactly on a
// deferred-wrap boundary.
func walk(s string, startCol, w int, width WidthFunc, visit func(row, col, clusterStart, clusterEnd int)) (row, col int, atWrapEdge bool) {
	if width == nil {
		width = DefaultWidth
	}
	w = clampWidth(w)
	row, col = 0, startCol
	pos := 0
	state := -1
	for pos < len(s) {
		var cluster string
		var newState int
		cluster, s2, _, ns := uniseg.FirstGraphemeClusterInString(s[pos:], state)
		_ = s2
		newState = ns
		if s[pos] == '\n' {
			row++
			col = 0
			pos++
			state = newState
			continue
		}
		cw := width(cluster)
		if col+cw > w-1 && col > 0 {
			row++
			col = 0
		}
		if visit != nil {
			visit(row, col, pos, pos+len(cluster))
		}
		col += cw
		atWrapEdge = col >= w
		if atWrapEdge {
			row++
			col = 0
		}
		pos += len(cluster)
		state = newState
	}
	return row, col, atWrapEdge
}

// PositionAt returns the relative row/column where the cursor would sit for
// the prefix s[0:k], given the prompt's last-line display width p and
// terminal column count w. Per spec.md §4.3.
func PositionAt(s string, k int, p, w int, width WidthFunc) Position {
	if k < 0 {
		k = 0
	}
	if k > len(s) {
		k = len(s)
	}
	row, col, atWrap := walk(s[:k], p, w, width, nil)
	return Position{Row: row, Col: col, AtWrapEdge: atWrap, Valid: true}
}

// Footprint returns the number of rows occupied by laying out the whole
// buffer s starting at column p against terminal width w, per spec.md §4.3.
func Footprint(s string, p, w int, width WidthFunc) Footprint {
	row, col, _ := walk(s, p, w, width, nil)
	return Footprint{Rows: row + 1, LastRowWidth: col}
}

// OffsetFor is the inverse of PositionAt: given a target relative row/col,
// return the byte offset k such that PositionAt(s, k, p, w) places the
// cursor there. Used by tests (spec.md §8's round-trip law) and reserved for
// future mouse support (out of scope here per spec.md §1).
func OffsetFor(s string, p, w, targetRow, targetCol int, width WidthFunc) int {
	best := 0
	bestRow, bestCol := 0, p
	exact := false
	walk(s, p, w, width, func(row, col, clusterStart, clusterEnd int) {
		if exact {
			return
		}
		if row == targetRow && col >= targetCol {
			best = clusterStart
			exact = true
			return
		}
		if row < targetRow || (row == targetRow && col < targetCol) {
			best = clusterEnd
			bestRow, bestCol = row, col
		}
	})
	_ = bestRow
	_ = bestCol
	if targetRow <= 0 && targetCol <= p && !exact {
		return 0
	}
	return best
}

// LineCount is a small helper used by display engine to count physical
// lines in s without invoking the full walk (cheap pre-check).
func LineCount(s string) int { return strings.Count(s, "\n") + 1 }
