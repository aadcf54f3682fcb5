package termtest

import (
	"errors"
	"testing"

	"github.com/phoenix-tui/lineedit/internal/termsink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordsCallsAndOutput(t *testing.T) {
	t.Run("Write appends to Output and Calls", func(t *testing.T) {
		r := New(80, 24)

		require.NoError(t, r.Write("hello"))

		assert.Equal(t, "hello", r.Output.String())
		assert.Equal(t, 1, r.CallCount("Write"))
	})

	t.Run("cursor and clear operations emit the expected escapes", func(t *testing.T) {
		r := New(80, 24)

		require.NoError(t, r.MoveUp(2))
		require.NoError(t, r.MoveToColumn(5))
		require.NoError(t, r.ClearLine())
		require.NoError(t, r.ClearToEndOfLine())
		require.NoError(t, r.ClearToEndOfScreen())
		require.NoError(t, r.HideCursor())
		require.NoError(t, r.ShowCursor())

		assert.Contains(t, r.Output.String(), "\033[2A")
		assert.Contains(t, r.Output.String(), "\033[5C")
		assert.Contains(t, r.Output.String(), "\033[2K")
		assert.Contains(t, r.Output.String(), "\033[K")
		assert.Contains(t, r.Output.String(), "\033[J")
		assert.Contains(t, r.Output.String(), "\033[?25l")
		assert.Contains(t, r.Output.String(), "\033[?25h")
	})

	t.Run("MoveUp/MoveDown with n==0 emit nothing", func(t *testing.T) {
		r := New(80, 24)

		require.NoError(t, r.MoveUp(0))
		require.NoError(t, r.MoveDown(0))

		assert.Empty(t, r.Output.String())
	})
}

func TestRecorder_Size(t *testing.T) {
	t.Run("reports configured dimensions, clamped to MinWidth", func(t *testing.T) {
		r := New(10, 24)

		w, h, err := r.Size()

		require.NoError(t, err)
		assert.Equal(t, termsink.MinWidth, w)
		assert.Equal(t, 24, h)
	})

	t.Run("SetSize changes the reported dimensions", func(t *testing.T) {
		r := New(80, 24)
		r.SetSize(100, 40)

		w, h, err := r.Size()

		require.NoError(t, err)
		assert.Equal(t, 100, w)
		assert.Equal(t, 40, h)
	})

	t.Run("SizeErr makes Size return the configured error", func(t *testing.T) {
		r := New(80, 24)
		r.SizeErr = errors.New("ioctl failed")

		_, _, err := r.Size()

		assert.EqualError(t, err, "ioctl failed")
	})
}

func TestRecorder_RawMode(t *testing.T) {
	t.Run("tracks raw-mode state across Enter/Exit", func(t *testing.T) {
		r := New(80, 24)

		assert.False(t, r.IsInRawMode())

		require.NoError(t, r.EnterRawMode())
		assert.True(t, r.IsInRawMode())

		require.NoError(t, r.ExitRawMode())
		assert.False(t, r.IsInRawMode())
	})
}

func TestRecorder_DestructiveBackspace(t *testing.T) {
	t.Run("returns the well-behaved-terminal sequence", func(t *testing.T) {
		r := New(80, 24)
		assert.Equal(t, []byte("\b \b"), r.DestructiveBackspace())
	})
}

func TestRecorder_Reset(t *testing.T) {
	t.Run("clears calls and output but keeps dimensions", func(t *testing.T) {
		r := New(80, 24)
		_ = r.Write("abc")

		r.Reset()

		assert.Empty(t, r.Calls)
		assert.Empty(t, r.Output.String())
		w, _, _ := r.Size()
		assert.Equal(t, 80, w)
	})
}

func TestRecorder_CallCount(t *testing.T) {
	t.Run("counts calls by method name prefix", func(t *testing.T) {
		r := New(80, 24)
		_ = r.Write("a")
		_ = r.Write("b")
		_ = r.ClearLine()

		assert.Equal(t, 2, r.CallCount("Write"))
		assert.Equal(t, 1, r.CallCount("ClearLine"))
		assert.Equal(t, 0, r.CallCount("ShowCursor"))
	})
}
