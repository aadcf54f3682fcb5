package editcmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUndoRing(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		u := NewUndoRing(3)
		assert.True(t, u.IsEmpty())
		_, ok := u.Pop()
		assert.False(t, ok)
	})

	t.Run("Push then Pop returns the most recent snapshot (LIFO)", func(t *testing.T) {
		u := NewUndoRing(3)
		u.Push(Snapshot{Text: "a", Cursor: 1})
		u.Push(Snapshot{Text: "ab", Cursor: 2})

		s, ok := u.Pop()
		assert.True(t, ok)
		assert.Equal(t, Snapshot{Text: "ab", Cursor: 2}, s)

		s, ok = u.Pop()
		assert.True(t, ok)
		assert.Equal(t, Snapshot{Text: "a", Cursor: 1}, s)

		assert.True(t, u.IsEmpty())
	})

	t.Run("evicts the oldest snapshot at capacity", func(t *testing.T) {
		u := NewUndoRing(2)
		u.Push(Snapshot{Text: "a"})
		u.Push(Snapshot{Text: "b"})
		u.Push(Snapshot{Text: "c"})

		s, _ := u.Pop()
		assert.Equal(t, "c", s.Text)
		s, _ = u.Pop()
		assert.Equal(t, "b", s.Text)
		assert.True(t, u.IsEmpty())
	})

	t.Run("Clear discards every checkpoint", func(t *testing.T) {
		u := NewUndoRing(3)
		u.Push(Snapshot{Text: "a"})
		u.Push(Snapshot{Text: "b"})

		u.Clear()

		assert.True(t, u.IsEmpty())
	})

	t.Run("a non-positive maxSize clamps to one", func(t *testing.T) {
		u := NewUndoRing(0)
		u.Push(Snapshot{Text: "a"})
		u.Push(Snapshot{Text: "b"})

		s, ok := u.Pop()
		assert.True(t, ok)
		assert.Equal(t, "b", s.Text)
		assert.True(t, u.IsEmpty())
	})
}
