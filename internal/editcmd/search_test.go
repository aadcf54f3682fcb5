package editcmd

import (
	"testing"
	"time"

	"github.com/phoenix-tui/lineedit/internal/history"
	"github.com/stretchr/testify/assert"
)

func TestSearchState(t *testing.T) {
	newHistory := func() *history.Store {
		h := history.New(10, false)
		now := time.Unix(0, 0)
		h.Push("git status", now)
		h.Push("ls -la", now)
		h.Push("git commit", now)
		return h
	}

	t.Run("Step keeps a fixed anchor as the query grows", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("draft", 5, h)

		// "g" matches the newest entry containing it.
		s.Step('g', h)
		assert.True(t, s.Found)
		assert.Equal(t, "git commit", s.Match)

		// A longer query re-checks the same anchor rather than moving
		// backward — "git commit" still matches "gi", so it stays the
		// match instead of skipping to an older entry.
		s.Step('i', h)
		assert.True(t, s.Found)
		assert.Equal(t, "git commit", s.Match)
	})

	t.Run("Advance moves to the prior match with the same query", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("draft", 5, h)

		s.Step('g', h)
		assert.Equal(t, "git commit", s.Match)

		s.Advance(h)
		assert.True(t, s.Found)
		assert.Equal(t, "git status", s.Match)
		assert.Equal(t, "g", s.Query)
	})

	t.Run("Advance is a no-op when nothing is currently matched", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("draft", 5, h)

		s.Step('z', h)
		assert.False(t, s.Found)

		s.Advance(h)
		assert.False(t, s.Found)
	})

	t.Run("Step with no match sets Found false", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("", 0, h)

		s.Step('z', h)
		assert.False(t, s.Found)
		assert.Equal(t, "", s.Match)
	})

	t.Run("Backspace removes the last query rune and re-searches", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("", 0, h)

		s.Step('g', h)
		s.Step('i', h)
		s.Step('t', h)
		assert.Equal(t, "git", s.Query)

		s.Backspace(h)
		assert.Equal(t, "gi", s.Query)
	})

	t.Run("Backspace on an empty query is a no-op", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("", 0, h)
		s.Backspace(h)
		assert.Equal(t, "", s.Query)
	})

	t.Run("Accept returns the matched line when Found", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("draft", 5, h)
		s.Step('g', h)

		text, cursor := s.Accept()
		assert.Equal(t, "git commit", text)
		assert.Equal(t, len("git commit"), cursor)
	})

	t.Run("Accept falls back to the pre-search line when nothing matched", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("draft", 5, h)
		s.Step('z', h)

		text, cursor := s.Accept()
		assert.Equal(t, "draft", text)
		assert.Equal(t, 5, cursor)
	})

	t.Run("Cancel always restores the pre-search line", func(t *testing.T) {
		h := newHistory()
		s := NewSearchState("draft", 5, h)
		s.Step('g', h)

		text, cursor := s.Cancel()
		assert.Equal(t, "draft", text)
		assert.Equal(t, 5, cursor)
	})
}
