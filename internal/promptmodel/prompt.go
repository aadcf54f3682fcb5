// Package promptmodel parses a prompt string into an immutable geometric
// model — lines, per-line display width, overall height — per spec.md §3/§4.2.
//
// Width measurement is pluggable (see Width), generalizing the hand-rolled
// stripANSI/runeDisplayWidth pair in
// tea/internal/infrastructure/renderer/inline.go into library calls: the
// default strategy defers to github.com/rivo/uniseg for grapheme-aware East
// Asian Width, with github.com/unilibs/uniwidth available as the
// "declared one-column/declared-wide" fallback spec.md §4.2 explicitly
// permits.
package promptmodel

import (
	"strings"

	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// WidthFunc measures the display width of s, a plain (CSI-stripped) string.
type WidthFunc func(s string) int

// GraphemeWidth is the default WidthFunc: grapheme-cluster aware East Asian
// Width via github.com/rivo/uniseg, grounded on
// components/input/domain/service/cursor_movement.go and
// render/domain/model/buffer.go's use of uniseg.StringWidth.
func GraphemeWidth(s string) int { return uniseg.StringWidth(s) }

// DeclaredWidth(ambiguousWide) returns a WidthFunc backed by
// github.com/unilibs/uniwidth with East Asian "ambiguous" characters
// declared either narrow or wide, grounded on
// core/internal/domain/value/unicode_config.go.
func DeclaredWidth(ambiguousWide bool) WidthFunc {
	ea := uniwidth.EANarrow
	if ambiguousWide {
		ea = uniwidth.EAWide
	}
	return func(s string) int {
		return uniwidth.StringWidthWithOptions(s, uniwidth.WithEastAsianAmbiguous(ea))
	}
}

// Model is the parsed, immutable prompt geometry for one read_line call.
type Model struct {
	Raw            string
	Lines          []string // split on '\n'
	LineWidths     []int    // per-line display width, CSI stripped
	Height         int      // == len(Lines)
	LastLineWidth  int      // LineWidths[Height-1]
}

// Parse builds a Model from raw, per spec.md §4.2.
func Parse(raw string, width WidthFunc) *Model {
	if width == nil {
		width = GraphemeWidth
	}
	lines := strings.Split(raw, "\n")
	widths := make([]int, len(lines))
	for i, line := range lines {
		widths[i] = width(StripCSI(line))
	}
	height := len(lines)
	if height < 1 {
		height = 1
	}
	return &Model{
		Raw:           raw,
		Lines:         lines,
		LineWidths:    widths,
		Height:        height,
		LastLineWidth: widths[len(widths)-1],
	}
}

// StripCSI removes CSI escape sequences (ESC '[' ... final-byte) from s, per
// spec.md §4.2: parameter bytes 0x30-0x3F, intermediate bytes 0x20-0x2F,
// final byte 0x40-0x7E. An unterminated CSI at end of string is treated as
// terminated at the last byte, per spec.md §4.2's failure clause.
//
// Grounded on tea/internal/infrastructure/renderer/inline.go's stripANSI,
// narrowed to CSI-only: OSC and other non-CSI escapes are not recognized.
// Their ESC byte is kept in the output and the bytes after it are measured
// as ordinary text.
func StripCSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		if c != 0x1B {
			b.WriteByte(c)
			i++
			continue
		}
		// ESC found; must be followed by '[' to be a CSI sequence.
		if i+1 >= len(s) || s[i+1] != '[' {
			// Not a CSI intro — pass the ESC through unstripped so callers
			// see it (width functions treat control bytes as zero-width).
			b.WriteByte(c)
			i++
			continue
		}
		i += 2 // consume ESC '['
		// Parameter bytes.
		for i < len(s) && s[i] >= 0x30 && s[i] <= 0x3F {
			i++
		}
		// Intermediate bytes.
		for i < len(s) && s[i] >= 0x20 && s[i] <= 0x2F {
			i++
		}
		// Final byte.
		if i < len(s) && s[i] >= 0x40 && s[i] <= 0x7E {
			i++
		}
		// else: unterminated at end of string — treat as terminated here.
	}
	return b.String()
}
