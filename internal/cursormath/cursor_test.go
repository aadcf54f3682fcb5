package cursormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// asciiWidth treats every grapheme cluster as width 1, so wrap points in
// these tests land on predictable byte offsets regardless of uniseg's
// East Asian Width table.
func asciiWidth(s string) int { return len([]rune(s)) }

func TestPositionAt(t *testing.T) {
	t.Run("no wrap needed", func(t *testing.T) {
		pos := PositionAt("hello", 5, 0, 20, asciiWidth)

		assert.Equal(t, 0, pos.Row)
		assert.Equal(t, 5, pos.Col)
		assert.False(t, pos.AtWrapEdge)
		assert.True(t, pos.Valid)
	})

	t.Run("wraps at the terminal width budget", func(t *testing.T) {
		pos := PositionAt("abcdefghij", 4, 0, 5, asciiWidth)
		assert.Equal(t, 0, pos.Row)
		assert.Equal(t, 4, pos.Col)

		pos = PositionAt("abcdefghij", 5, 0, 5, asciiWidth)
		assert.Equal(t, 1, pos.Row)
		assert.Equal(t, 1, pos.Col)
	})

	t.Run("newline resets column and advances row", func(t *testing.T) {
		pos := PositionAt("ab\ncd", 5, 0, 20, asciiWidth)

		assert.Equal(t, 1, pos.Row)
		assert.Equal(t, 2, pos.Col)
	})

	t.Run("clamps k into range", func(t *testing.T) {
		pos := PositionAt("abc", 100, 0, 20, asciiWidth)
		assert.Equal(t, 3, pos.Col)

		pos = PositionAt("abc", -5, 0, 20, asciiWidth)
		assert.Equal(t, 0, pos.Col)
	})

	t.Run("starts from the prompt's last-line width", func(t *testing.T) {
		pos := PositionAt("abc", 3, 4, 20, asciiWidth)
		assert.Equal(t, 0, pos.Row)
		assert.Equal(t, 7, pos.Col)
	})
}

func TestFootprint(t *testing.T) {
	t.Run("single row when content fits", func(t *testing.T) {
		fp := Footprint("hello", 0, 20, asciiWidth)
		assert.Equal(t, 1, fp.Rows)
		assert.Equal(t, 5, fp.LastRowWidth)
	})

	t.Run("counts wrapped rows", func(t *testing.T) {
		fp := Footprint("abcdefghij", 0, 5, asciiWidth)
		assert.Equal(t, 3, fp.Rows)
		assert.Equal(t, 2, fp.LastRowWidth)
	})

	t.Run("counts explicit newlines as additional rows", func(t *testing.T) {
		fp := Footprint("one\ntwo\nthree", 0, 20, asciiWidth)
		assert.Equal(t, 3, fp.Rows)
	})
}

func TestOffsetFor(t *testing.T) {
	t.Run("inverts PositionAt for a mid-row target", func(t *testing.T) {
		offset := OffsetFor("abcdefghij", 0, 5, 0, 4, asciiWidth)
		assert.Equal(t, 4, offset)

		pos := PositionAt("abcdefghij", offset, 0, 5, asciiWidth)
		assert.Equal(t, 0, pos.Row)
		assert.Equal(t, 4, pos.Col)
	})

	t.Run("targeting row 0 col 0 returns offset 0", func(t *testing.T) {
		offset := OffsetFor("abc", 0, 20, 0, 0, asciiWidth)
		assert.Equal(t, 0, offset)
	})
}

func TestLineCount(t *testing.T) {
	t.Run("counts newlines plus one", func(t *testing.T) {
		assert.Equal(t, 1, LineCount("single line"))
		assert.Equal(t, 3, LineCount("a\nb\nc"))
	})
}

func TestClampWidth(t *testing.T) {
	t.Run("never lays out against a non-positive width", func(t *testing.T) {
		fp := Footprint("ab", 0, 0, asciiWidth)
		assert.GreaterOrEqual(t, fp.Rows, 1)
	})
}
