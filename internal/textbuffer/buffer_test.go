package textbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("starts empty with cursor at zero", func(t *testing.T) {
		b := New()

		assert.Equal(t, "", b.String())
		assert.Equal(t, 0, b.Len())
		assert.Equal(t, 0, b.Cursor())
		assert.True(t, b.Valid())
	})
}

func TestBuffer_InsertChar(t *testing.T) {
	t.Run("inserts at cursor and advances", func(t *testing.T) {
		b := New()
		b.InsertChar('a')
		b.InsertChar('b')
		b.InsertChar('c')

		assert.Equal(t, "abc", b.String())
		assert.Equal(t, 3, b.Cursor())
	})

	t.Run("inserts mid-line", func(t *testing.T) {
		b := New()
		b.InsertString("ac")
		b.SetCursor(1)
		b.InsertChar('b')

		assert.Equal(t, "abc", b.String())
		assert.Equal(t, 2, b.Cursor())
	})

	t.Run("handles multi-byte codepoints", func(t *testing.T) {
		b := New()
		b.InsertChar('é')

		assert.Equal(t, "é", b.String())
		assert.Equal(t, len("é"), b.Cursor())
		assert.True(t, b.Valid())
	})
}

func TestBuffer_MoveCursor(t *testing.T) {
	t.Run("moves left and right by codepoint", func(t *testing.T) {
		b := New()
		b.InsertString("héllo")
		b.SetCursor(0)

		b.MoveCursor(1)
		assert.Equal(t, 1, b.Cursor())

		b.MoveCursor(1) // over the 2-byte 'é'
		assert.Equal(t, 1+len("é"), b.Cursor())

		b.MoveCursor(-1)
		assert.Equal(t, 1, b.Cursor())
	})

	t.Run("clamps at buffer extent", func(t *testing.T) {
		b := New()
		b.InsertString("ab")
		b.MoveCursor(-100)
		assert.Equal(t, 0, b.Cursor())
		b.MoveCursor(100)
		assert.Equal(t, 2, b.Cursor())
	})
}

func TestBuffer_DeleteBeforeAndAtCursor(t *testing.T) {
	t.Run("backspace removes codepoint before cursor", func(t *testing.T) {
		b := New()
		b.InsertString("abc")
		b.DeleteBeforeCursor()

		assert.Equal(t, "ab", b.String())
		assert.Equal(t, 2, b.Cursor())
	})

	t.Run("backspace at start is a no-op", func(t *testing.T) {
		b := New()
		b.InsertString("abc")
		b.SetCursor(0)
		b.DeleteBeforeCursor()

		assert.Equal(t, "abc", b.String())
		assert.Equal(t, 0, b.Cursor())
	})

	t.Run("delete removes codepoint at cursor", func(t *testing.T) {
		b := New()
		b.InsertString("abc")
		b.SetCursor(0)
		b.DeleteAtCursor()

		assert.Equal(t, "bc", b.String())
		assert.Equal(t, 0, b.Cursor())
	})

	t.Run("delete at end is a no-op", func(t *testing.T) {
		b := New()
		b.InsertString("abc")
		b.DeleteAtCursor()

		assert.Equal(t, "abc", b.String())
	})
}

func TestBuffer_KillToEOLAndBOL(t *testing.T) {
	t.Run("KillToEOL removes and returns the tail", func(t *testing.T) {
		b := New()
		b.InsertString("hello world")
		b.SetCursor(5)

		killed := b.KillToEOL()

		assert.Equal(t, " world", killed)
		assert.Equal(t, "hello", b.String())
		assert.Equal(t, 5, b.Cursor())
	})

	t.Run("KillToBOL removes and returns the head, cursor goes to zero", func(t *testing.T) {
		b := New()
		b.InsertString("hello world")
		b.SetCursor(5)

		killed := b.KillToBOL()

		assert.Equal(t, "hello", killed)
		assert.Equal(t, " world", b.String())
		assert.Equal(t, 0, b.Cursor())
	})
}

func TestBuffer_WordOperations(t *testing.T) {
	t.Run("KillWordBackward removes the word to the left", func(t *testing.T) {
		b := New()
		b.InsertString("foo bar baz")

		killed := b.KillWordBackward()

		assert.Equal(t, "baz", killed)
		assert.Equal(t, "foo bar ", b.String())
	})

	t.Run("KillWordBackward skips trailing separators first", func(t *testing.T) {
		b := New()
		b.InsertString("foo bar   ")

		killed := b.KillWordBackward()

		assert.Equal(t, "bar   ", killed)
		assert.Equal(t, "foo ", b.String())
	})

	t.Run("DeleteWordForward removes the word to the right", func(t *testing.T) {
		b := New()
		b.InsertString("foo bar baz")
		b.SetCursor(0)

		killed := b.DeleteWordForward()

		assert.Equal(t, "foo", killed)
		assert.Equal(t, " bar baz", b.String())
	})

	t.Run("MoveWordLeft/Right compute offsets without mutating", func(t *testing.T) {
		b := New()
		b.InsertString("foo bar baz")
		b.SetCursor(b.Len())

		left := b.MoveWordLeft()
		assert.Equal(t, 8, left)

		b.SetCursor(0)
		right := b.MoveWordRight()
		assert.Equal(t, 3, right)

		assert.Equal(t, "foo bar baz", b.String(), "move helpers must not mutate content")
	})
}

func TestBuffer_Transpose(t *testing.T) {
	t.Run("swaps the codepoint before the cursor with the one at it", func(t *testing.T) {
		b := New()
		b.InsertString("ab")
		b.SetCursor(1)

		b.Transpose()

		assert.Equal(t, "ba", b.String())
	})

	t.Run("at end of buffer swaps the last two codepoints", func(t *testing.T) {
		b := New()
		b.InsertString("abc")

		b.Transpose()

		assert.Equal(t, "acb", b.String())
	})

	t.Run("is a no-op with fewer than two codepoints", func(t *testing.T) {
		b := New()
		b.InsertString("a")

		b.Transpose()

		assert.Equal(t, "a", b.String())
	})
}

func TestBuffer_Clear(t *testing.T) {
	t.Run("empties content and resets cursor", func(t *testing.T) {
		b := New()
		b.InsertString("abc")
		b.Clear()

		assert.Equal(t, "", b.String())
		assert.Equal(t, 0, b.Cursor())
	})
}

func TestBuffer_Valid(t *testing.T) {
	t.Run("rejects an out-of-range cursor", func(t *testing.T) {
		b := New()
		b.InsertString("abc")
		b.cursor = 100

		assert.False(t, b.Valid())
	})
}
