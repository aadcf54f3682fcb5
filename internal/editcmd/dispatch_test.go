package editcmd

import (
	"testing"

	"github.com/phoenix-tui/lineedit/internal/keyevent"
	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	t.Run("plain navigation and editing keys", func(t *testing.T) {
		cases := []struct {
			ev   keyevent.Event
			want Command
		}{
			{keyevent.Event{Kind: keyevent.KindLeft}, CmdMoveLeft},
			{keyevent.Event{Kind: keyevent.KindRight}, CmdMoveRight},
			{keyevent.Event{Kind: keyevent.KindUp}, CmdHistoryPrev},
			{keyevent.Event{Kind: keyevent.KindDown}, CmdHistoryNext},
			{keyevent.Event{Kind: keyevent.KindHome}, CmdMoveHome},
			{keyevent.Event{Kind: keyevent.KindEnd}, CmdMoveEnd},
			{keyevent.Event{Kind: keyevent.KindDelete}, CmdDeleteForward},
			{keyevent.Event{Kind: keyevent.KindBackspace}, CmdDeleteBackward},
			{keyevent.Event{Kind: keyevent.KindEnter}, CmdAcceptLine},
			{keyevent.Event{Kind: keyevent.KindTab}, CmdComplete},
		}
		for _, c := range cases {
			assert.Equal(t, c.want, Lookup(c.ev))
		}
	})

	t.Run("Ctrl bindings", func(t *testing.T) {
		cases := []struct {
			r    rune
			want Command
		}{
			{'a', CmdMoveHome},
			{'e', CmdMoveEnd},
			{'b', CmdMoveLeft},
			{'f', CmdMoveRight},
			{'d', CmdDeleteForward},
			{'h', CmdDeleteBackward},
			{'k', CmdKillToEOL},
			{'u', CmdClearLine},
			{'w', CmdKillWordBackward},
			{'y', CmdYank},
			{'p', CmdHistoryPrev},
			{'n', CmdHistoryNext},
			{'r', CmdReverseSearchStart},
			{'l', CmdClearScreen},
			{'c', CmdInterrupt},
			{'t', CmdTranspose},
		}
		for _, c := range cases {
			got := Lookup(keyevent.Event{Kind: keyevent.KindRune, Rune: c.r, Ctrl: true})
			assert.Equal(t, c.want, got, "Ctrl-%c", c.r)
		}
	})

	t.Run("Alt bindings", func(t *testing.T) {
		cases := []struct {
			r    rune
			want Command
		}{
			{'b', CmdMoveWordLeft},
			{'f', CmdMoveWordRight},
			{'d', CmdDeleteWordForward},
			{'y', CmdYankPop},
			{'u', CmdUndo},
		}
		for _, c := range cases {
			got := Lookup(keyevent.Event{Kind: keyevent.KindRune, Rune: c.r, Alt: true})
			assert.Equal(t, c.want, got, "Alt-%c", c.r)
		}

		assert.Equal(t, CmdKillWordBackward, Lookup(keyevent.Event{Kind: keyevent.KindBackspace, Alt: true}))
	})

	t.Run("an unmodified printable rune inserts", func(t *testing.T) {
		assert.Equal(t, CmdInsertRune, Lookup(keyevent.Event{Kind: keyevent.KindRune, Rune: 'x'}))
	})

	t.Run("an unbound control combination resolves to CmdNone", func(t *testing.T) {
		assert.Equal(t, CmdNone, Lookup(keyevent.Event{Kind: keyevent.KindRune, Rune: 'z', Ctrl: true}))
	})

	t.Run("an unrecognized escape resolves to CmdNone", func(t *testing.T) {
		assert.Equal(t, CmdNone, Lookup(keyevent.Event{Kind: keyevent.KindEsc}))
	})
}
