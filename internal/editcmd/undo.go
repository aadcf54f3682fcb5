package editcmd

// UndoRing is a bounded stack of buffer snapshots, restored one at a time
// by Alt-U (SPEC_FULL.md's supplement to spec.md's scope, since the
// original distillation drops undo entirely). Structurally it is the same
// bounded-ring shape as KillRing, grounded on the same
// components/input/textarea/domain/model/killring.go file — a fixed-size
// slice with oldest-eviction — applied here as a LIFO stack instead of a
// rotating yank pointer.
type UndoRing struct {
	snapshots []Snapshot
	maxSize   int
}

// Snapshot is one undo checkpoint: the buffer text and cursor offset
// immediately before a mutating command ran.
type Snapshot struct {
	Text   string
	Cursor int
}

// NewUndoRing returns an empty UndoRing bounded to maxSize snapshots.
func NewUndoRing(maxSize int) *UndoRing {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &UndoRing{maxSize: maxSize}
}

// Push records a checkpoint to return to, evicting the oldest if the ring
// is full. Called by the dispatcher before any mutating command executes.
func (u *UndoRing) Push(s Snapshot) {
	if u.maxSize == 0 {
		return
	}
	if len(u.snapshots) >= u.maxSize {
		u.snapshots = u.snapshots[1:]
	}
	u.snapshots = append(u.snapshots, s)
}

// Pop removes and returns the most recent checkpoint. ok is false if the
// ring is empty (nothing left to undo).
func (u *UndoRing) Pop() (s Snapshot, ok bool) {
	if len(u.snapshots) == 0 {
		return Snapshot{}, false
	}
	last := len(u.snapshots) - 1
	s = u.snapshots[last]
	u.snapshots = u.snapshots[:last]
	return s, true
}

// IsEmpty reports whether there is nothing left to undo.
func (u *UndoRing) IsEmpty() bool { return len(u.snapshots) == 0 }

// Clear discards every checkpoint. The Control Loop does not call it; it
// starts each read_line with a new UndoRing.
func (u *UndoRing) Clear() { u.snapshots = u.snapshots[:0] }
