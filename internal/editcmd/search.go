package editcmd

import "github.com/phoenix-tui/lineedit/internal/history"

// SearchState tracks an in-progress reverse-incremental-search (Ctrl-R),
// per spec.md §4.8. It owns the accumulating search query and the line
// last matched against it; the Control Loop leaves the buffer untouched
// while the search runs, draws Match on the mini-prompt line, and copies
// Match into the buffer only on Accept. Cancel keeps the pre-search buffer.
//
// anchor is the history index the next search scans backward from. It
// stays fixed while Query grows or shrinks via Step/Backspace — each
// character re-checks from the same starting point, so an entry that still
// matches a longer query is found again instead of skipped. Only a
// repeated Ctrl-R (Advance) moves it, to just before the current match.
type SearchState struct {
	Query     string
	Match     string
	Found     bool
	anchor    int
	matchIdx  int
	preSearch string // buffer contents when the search began, for Cancel
	preCursor int
}

// NewSearchState starts a search session anchored at h's newest entry,
// remembering the buffer state to restore on Cancel.
func NewSearchState(preSearchText string, preSearchCursor int, h *history.Store) *SearchState {
	anchor := -1
	if h != nil {
		anchor = h.LatestIndex()
	}
	return &SearchState{
		preSearch: preSearchText,
		preCursor: preSearchCursor,
		anchor:    anchor,
		matchIdx:  -1,
	}
}

// Step appends r to the query and re-searches h from the fixed anchor,
// updating Match/Found.
func (s *SearchState) Step(r rune, h *history.Store) {
	s.Query += string(r)
	s.search(h)
}

// Backspace removes the last rune of the query and re-searches from the
// fixed anchor, per the common readline behavior of backing out a failed
// search character by character.
func (s *SearchState) Backspace(h *history.Store) {
	if s.Query == "" {
		return
	}
	runes := []rune(s.Query)
	s.Query = string(runes[:len(runes)-1])
	s.search(h)
}

// Advance moves the anchor to just before the current match and
// re-searches with the same query, per spec.md §4.8's "Ctrl-R advances to
// the prior match." A no-op if nothing is currently matched.
func (s *SearchState) Advance(h *history.Store) {
	if !s.Found {
		return
	}
	s.anchor = s.matchIdx - 1
	s.search(h)
}

func (s *SearchState) search(h *history.Store) {
	if s.Query == "" || h == nil || s.anchor < 0 {
		s.Match, s.Found = "", false
		return
	}
	match, idx, ok := h.SearchFromIndex(s.Query, s.anchor)
	s.Match, s.Found = match, ok
	if ok {
		s.matchIdx = idx
	} else {
		s.matchIdx = -1
	}
}

// Accept returns the final buffer contents/cursor to commit: the matched
// history line if one was found, otherwise the line the search started
// from.
func (s *SearchState) Accept() (text string, cursor int) {
	if s.Found {
		return s.Match, len(s.Match)
	}
	return s.preSearch, s.preCursor
}

// Cancel returns the buffer contents/cursor to restore, undoing the
// search entirely (Ctrl-G / Esc during a search, per spec.md §4.8).
func (s *SearchState) Cancel() (text string, cursor int) {
	return s.preSearch, s.preCursor
}
