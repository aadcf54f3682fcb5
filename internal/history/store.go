// Package history implements the History Store (spec.md §4.6): a bounded,
// append-only-from-the-front sequence of previously entered lines, plus a
// navigation cursor for Up/Down recall and an in-progress slot for the
// line the user was editing before they started navigating.
//
// Grounded on
// clipboard/internal/domain/service/clipboard_history.go's shape
// (mutex-guarded slice, FIFO eviction at maxSize, a Clear/Size/IsEmpty
// surface) — generalized from clipboard entries to plain strings and
// extended with the navigation cursor and search spec.md §4.6 adds.
package history

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// Entry is one recalled line plus the time it was recorded.
type Entry struct {
	Text      string
	Timestamp time.Time
}

// Store is the History Store. Entries are ordered oldest-first internally;
// navigation walks from the newest entry backward, matching shell recall
// conventions (spec.md §4.6).
type Store struct {
	mu             sync.Mutex
	entries        []Entry
	maxSize        int
	noDuplicates   bool
	cursor         int    // index into entries during navigation, -1 = not navigating
	inProgress     string // the line being edited before navigation started
	inProgressSet  bool
}

// New returns an empty Store bounded to maxSize entries.
func New(maxSize int, noDuplicates bool) *Store {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Store{
		entries:      make([]Entry, 0, maxSize),
		maxSize:      maxSize,
		noDuplicates: noDuplicates,
		cursor:       -1,
	}
}

// Push appends text as a new history entry, evicting the oldest entry (FIFO)
// if the Store is at capacity, per spec.md §4.6. When no_duplicates mode is
// on and text equals the current newest entry, Push is a no-op — matching
// common shell history behavior of collapsing consecutive repeats.
func (s *Store) Push(text string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" {
		return
	}
	if s.noDuplicates && len(s.entries) > 0 && s.entries[len(s.entries)-1].Text == text {
		return
	}

	s.entries = append(s.entries, Entry{Text: text, Timestamp: now})
	if len(s.entries) > s.maxSize {
		s.entries = s.entries[len(s.entries)-s.maxSize:]
	}
	s.resetNavigation()
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear removes every entry and resets navigation state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
	s.resetNavigation()
}

func (s *Store) resetNavigation() {
	s.cursor = -1
	s.inProgress = ""
	s.inProgressSet = false
}

// SaveInProgress stashes the line under edit before the first Prev/Next
// navigation step, per spec.md §4.6's save_in_progress. A no-op if
// navigation has already started (the in-progress slot is filled once per
// navigation session).
func (s *Store) SaveInProgress(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inProgressSet {
		return
	}
	s.inProgress = text
	s.inProgressSet = true
}

// TakeInProgress returns the stashed in-progress line and clears navigation
// state, per spec.md §4.6's take_in_progress — called when Down navigates
// past the newest entry back to the line the user was originally editing.
func (s *Store) TakeInProgress() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.inProgress
	s.resetNavigation()
	return text
}

// Prev moves the navigation cursor one entry toward the oldest (Up arrow)
// and returns its text. ok is false if there is no older entry (cursor
// already at the oldest).
func (s *Store) Prev() (text string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", false
	}
	if s.cursor == -1 {
		s.cursor = len(s.entries) - 1
	} else if s.cursor > 0 {
		s.cursor--
	} else {
		return "", false
	}
	return s.entries[s.cursor].Text, true
}

// Next moves the navigation cursor one entry toward the newest (Down
// arrow). ok is false once the cursor moves past the newest entry — the
// caller should then call TakeInProgress.
func (s *Store) Next() (text string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == -1 || len(s.entries) == 0 {
		return "", false
	}
	if s.cursor < len(s.entries)-1 {
		s.cursor++
		return s.entries[s.cursor].Text, true
	}
	s.cursor = -1
	return "", false
}

// First returns the oldest entry (used by a hypothetical "jump to
// beginning" binding; spec.md §4.6 reserves the operation even though no
// default key triggers it).
func (s *Store) First() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", false
	}
	s.cursor = 0
	return s.entries[0].Text, true
}

// Last returns the newest entry and resets navigation to that position.
func (s *Store) Last() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", false
	}
	s.cursor = len(s.entries) - 1
	return s.entries[s.cursor].Text, true
}

// IsNavigating reports whether Prev/Next has moved the cursor off -1
// without a subsequent Push/TakeInProgress/Clear resetting it.
func (s *Store) IsNavigating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor != -1
}

// LatestIndex returns the index of the newest entry, or -1 if the Store is
// empty — the starting anchor for a fresh reverse-incremental search.
func (s *Store) LatestIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) - 1
}

// SearchFromIndex returns the nearest entry at or before fromIndex whose
// text contains substr, scanning backward toward the oldest entry, per
// spec.md §4.6's search_substring backing the Ctrl-R reverse-incremental-
// search binding. It does not touch the navigation cursor — the caller
// (editcmd.SearchState) owns the search anchor entirely, so narrowing the
// query never disturbs Up/Down recall state and vice versa. idx is the
// matched entry's index, for the caller to anchor the next Advance at
// idx-1. ok is false if no match exists at or before fromIndex.
func (s *Store) SearchFromIndex(substr string, fromIndex int) (text string, idx int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if substr == "" || len(s.entries) == 0 {
		return "", -1, false
	}
	if fromIndex > len(s.entries)-1 {
		fromIndex = len(s.entries) - 1
	}
	for i := fromIndex; i >= 0; i-- {
		if containsSubstring(s.entries[i].Text, substr) {
			return s.entries[i].Text, i, true
		}
	}
	return "", -1, false
}

func containsSubstring(s, substr string) bool {
	if len(substr) == 0 {
		return true
	}
	if len(substr) > len(s) {
		return false
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// All returns a copy of every stored entry, oldest first, for callers that
// need the full list (e.g. SaveFile).
func (s *Store) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// LoadFile replaces the Store's contents by reading one entry per line from
// r, per spec.md §6's history file format (plain text, one line per entry,
// oldest first, no timestamps persisted). Entries beyond maxSize are
// dropped from the front, keeping only the most recent ones.
func LoadFile(r io.Reader, maxSize int, noDuplicates bool, now time.Time) (*Store, error) {
	s := New(maxSize, noDuplicates)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.Push(scanner.Text(), now)
	}
	if err := scanner.Err(); err != nil {
		return s, err
	}
	return s, nil
}

// SaveFile writes every stored entry to w, one per line, oldest first, per
// spec.md §6's history file format.
func (s *Store) SaveFile(w io.Writer) error {
	entries := s.All()
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.Text); err != nil {
			return err
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
