package promptmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Run("single-line prompt", func(t *testing.T) {
		m := Parse("> ", GraphemeWidth)

		assert.Equal(t, "> ", m.Raw)
		assert.Equal(t, 1, m.Height)
		assert.Equal(t, []string{"> "}, m.Lines)
		assert.Equal(t, 2, m.LastLineWidth)
	})

	t.Run("multi-line prompt splits on newline", func(t *testing.T) {
		m := Parse("first\nsecond> ", GraphemeWidth)

		assert.Equal(t, 2, m.Height)
		assert.Equal(t, []string{"first", "second> "}, m.Lines)
		assert.Equal(t, 8, m.LastLineWidth)
	})

	t.Run("defaults to GraphemeWidth when width is nil", func(t *testing.T) {
		m := Parse("abc", nil)
		assert.Equal(t, 3, m.LastLineWidth)
	})

	t.Run("measures width after stripping CSI sequences", func(t *testing.T) {
		m := Parse("\x1b[32mgreen>\x1b[0m ", GraphemeWidth)

		assert.Equal(t, len("green> "), m.LastLineWidth)
	})
}

func TestStripCSI(t *testing.T) {
	t.Run("removes a colored prompt's escapes", func(t *testing.T) {
		got := StripCSI("\x1b[1;32m$\x1b[0m ")
		assert.Equal(t, "$ ", got)
	})

	t.Run("passes through plain text unchanged", func(t *testing.T) {
		got := StripCSI("plain text")
		assert.Equal(t, "plain text", got)
	})

	t.Run("passes a lone ESC with no CSI intro through unstripped", func(t *testing.T) {
		got := StripCSI("a\x1bb")
		assert.Equal(t, "a\x1bb", got)
	})

	t.Run("treats an unterminated CSI as consumed to end of string", func(t *testing.T) {
		got := StripCSI("x\x1b[3")
		assert.Equal(t, "x", got)
	})
}

func TestDeclaredWidth(t *testing.T) {
	t.Run("narrow mode treats ASCII as one column per rune", func(t *testing.T) {
		w := DeclaredWidth(false)
		assert.Equal(t, 5, w("hello"))
	})

	t.Run("wide mode still measures plain ASCII the same", func(t *testing.T) {
		w := DeclaredWidth(true)
		assert.Equal(t, 5, w("hello"))
	})
}
