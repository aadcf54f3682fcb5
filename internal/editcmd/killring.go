// Package editcmd implements the Edit Command layer (spec.md §4.8): the
// fixed key→command dispatch table, the kill-ring and undo-ring
// supplemental features, and the reverse-incremental-search substate.
package editcmd

// KillRing is an Emacs-style clipboard-with-history, grounded on the
// teacher's
// components/input/textarea/domain/model/killring.go — same circular-
// buffer-with-yank-index shape, collapsed from that file's immutable
// copy-on-write style (every method returns a new *KillRing) to ordinary
// in-place mutation, since this module's dispatch layer already holds the
// single owning reference readline-style editors expect (there is no
// concurrent/undo-history reason here to keep old KillRing values alive,
// unlike a textarea model that threads KillRing through an
// immutable Model).
type KillRing struct {
	items   []string
	maxSize int
	index   int
}

// NewKillRing returns an empty KillRing bounded to maxSize entries.
func NewKillRing(maxSize int) *KillRing {
	if maxSize <= 0 {
		maxSize = 10
	}
	return &KillRing{items: make([]string, 0, maxSize), maxSize: maxSize}
}

// Kill adds text as the newest ring entry, evicting the oldest if full.
func (k *KillRing) Kill(text string) {
	if text == "" {
		return
	}
	if len(k.items) >= k.maxSize {
		k.items = k.items[1:]
	}
	k.items = append(k.items, text)
	k.index = len(k.items) - 1
}

// Yank returns the entry at the current yank position, or "" if empty.
func (k *KillRing) Yank() string {
	if len(k.items) == 0 || k.index < 0 || k.index >= len(k.items) {
		return ""
	}
	return k.items[k.index]
}

// YankPop rotates the yank position backward (Alt-Y / Emacs M-y) and
// returns the newly pointed-to entry.
func (k *KillRing) YankPop() string {
	if len(k.items) == 0 {
		return ""
	}
	k.index--
	if k.index < 0 {
		k.index = len(k.items) - 1
	}
	return k.items[k.index]
}

// IsEmpty reports whether the ring holds no entries.
func (k *KillRing) IsEmpty() bool { return len(k.items) == 0 }
