package editcmd

import "github.com/phoenix-tui/lineedit/internal/keyevent"

// Command names every action the Edit Command layer can dispatch to, per
// spec.md §4.8's pinned key→command table. The table itself is normative in
// spec.md; this type and Lookup below are its direct transcription, the
// same way Phoenix's tea/internal/domain/service/builtin_cmds.go fixes a
// small, closed set of named operations as Go identifiers rather than
// strings.
type Command int

const (
	CmdNone Command = iota
	CmdInsertRune
	CmdMoveLeft
	CmdMoveRight
	CmdMoveWordLeft
	CmdMoveWordRight
	CmdMoveHome
	CmdMoveEnd
	CmdDeleteBackward
	CmdDeleteForward
	CmdKillToEOL
	CmdKillToBOL
	CmdKillWordBackward
	CmdDeleteWordForward
	CmdYank
	CmdYankPop
	CmdUndo
	CmdHistoryPrev
	CmdHistoryNext
	CmdReverseSearchStart
	CmdAcceptLine
	CmdInterrupt
	CmdEndOfInput
	CmdClearScreen
	CmdComplete
	CmdTranspose
	CmdClearLine
)

// binding is a decoded key event reduced to its dispatch-relevant fields
// (Kind/Rune/Ctrl/Alt — see keyevent.Event), used as a map key.
type binding struct {
	kind keyevent.Kind
	rune rune
	ctrl bool
	alt  bool
}

// table is spec.md §4.8's fixed key→command bindings. Bindings not
// present here fall through to CmdInsertRune for a plain, unmodified
// printable rune, or CmdNone otherwise (see Lookup).
var table = map[binding]Command{
	{kind: keyevent.KindLeft}:  CmdMoveLeft,
	{kind: keyevent.KindRight}: CmdMoveRight,
	{kind: keyevent.KindUp}:    CmdHistoryPrev,
	{kind: keyevent.KindDown}:  CmdHistoryNext,
	{kind: keyevent.KindHome}:  CmdMoveHome,
	{kind: keyevent.KindEnd}:   CmdMoveEnd,
	{kind: keyevent.KindDelete}: CmdDeleteForward,
	{kind: keyevent.KindBackspace}: CmdDeleteBackward,
	{kind: keyevent.KindEnter}: CmdAcceptLine,
	{kind: keyevent.KindTab}:   CmdComplete,

	{kind: keyevent.KindRune, rune: 'a', ctrl: true}: CmdMoveHome,
	{kind: keyevent.KindRune, rune: 'e', ctrl: true}: CmdMoveEnd,
	{kind: keyevent.KindRune, rune: 'b', ctrl: true}: CmdMoveLeft,
	{kind: keyevent.KindRune, rune: 'f', ctrl: true}: CmdMoveRight,
	{kind: keyevent.KindRune, rune: 'd', ctrl: true}: CmdDeleteForward,
	{kind: keyevent.KindRune, rune: 'h', ctrl: true}: CmdDeleteBackward,
	{kind: keyevent.KindRune, rune: 'k', ctrl: true}: CmdKillToEOL,
	{kind: keyevent.KindRune, rune: 'u', ctrl: true}: CmdClearLine,
	{kind: keyevent.KindRune, rune: 'w', ctrl: true}: CmdKillWordBackward,
	{kind: keyevent.KindRune, rune: 'y', ctrl: true}: CmdYank,
	{kind: keyevent.KindRune, rune: 'p', ctrl: true}: CmdHistoryPrev,
	{kind: keyevent.KindRune, rune: 'n', ctrl: true}: CmdHistoryNext,
	{kind: keyevent.KindRune, rune: 'r', ctrl: true}: CmdReverseSearchStart,
	{kind: keyevent.KindRune, rune: 'l', ctrl: true}: CmdClearScreen,
	{kind: keyevent.KindRune, rune: 'c', ctrl: true}: CmdInterrupt,
	{kind: keyevent.KindRune, rune: 't', ctrl: true}: CmdTranspose,

	{kind: keyevent.KindRune, rune: 'b', alt: true}: CmdMoveWordLeft,
	{kind: keyevent.KindRune, rune: 'f', alt: true}: CmdMoveWordRight,
	{kind: keyevent.KindRune, rune: 'd', alt: true}: CmdDeleteWordForward,
	{kind: keyevent.KindRune, rune: 'y', alt: true}: CmdYankPop,
	{kind: keyevent.KindRune, rune: 'u', alt: true}: CmdUndo,
	{kind: keyevent.KindBackspace, alt: true}:        CmdKillWordBackward,
}

// Lookup resolves ev to a Command per spec.md §4.8: an exact binding match
// wins; an unmodified printable rune falls through to CmdInsertRune;
// anything else (an unbound control combination, an unrecognized escape)
// resolves to CmdNone, which the Control Loop silently ignores.
func Lookup(ev keyevent.Event) Command {
	key := binding{kind: ev.Kind, rune: ev.Rune, ctrl: ev.Ctrl, alt: ev.Alt}
	if cmd, ok := table[key]; ok {
		return cmd
	}
	if ev.Kind == keyevent.KindRune && !ev.Ctrl && !ev.Alt {
		return CmdInsertRune
	}
	return CmdNone
}
