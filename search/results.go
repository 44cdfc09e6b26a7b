package search

import (
	"sort"

	"github.com/wudi/pdfview/coords"
)

// Match is a single hit: the page it sits on and its bounding rect in
// page coordinates.
type Match struct {
	Page int
	Rect coords.Rect
}

// Results accumulates matches from a worker and tracks a current-match
// cursor for next/previous navigation. Matches are ordered by page,
// then by the order the engine reported them within a page.
type Results struct {
	byPage  map[int][]coords.Rect
	flat    []Match
	current int // index into flat, -1 before first navigation
	stale   bool
}

// NewResults returns an empty accumulator.
func NewResults() *Results {
	return &Results{byPage: make(map[int][]coords.Rect), current: -1}
}

// AddPage records the matches for one page, replacing any previous
// entry for it.
func (r *Results) AddPage(page int, rects []coords.Rect) {
	if len(rects) == 0 {
		delete(r.byPage, page)
	} else {
		r.byPage[page] = append([]coords.Rect(nil), rects...)
	}
	r.stale = true
}

// Clear drops all matches and resets the cursor.
func (r *Results) Clear() {
	r.byPage = make(map[int][]coords.Rect)
	r.flat = nil
	r.current = -1
	r.stale = false
}

// Count returns the total number of matches.
func (r *Results) Count() int {
	r.rebuild()
	return len(r.flat)
}

// PageMatches returns the matches on one page.
func (r *Results) PageMatches(page int) []coords.Rect {
	return r.byPage[page]
}

// Current returns the match under the cursor, or false when no
// navigation has happened yet or there are no matches.
func (r *Results) Current() (Match, bool) {
	r.rebuild()
	if r.current < 0 || r.current >= len(r.flat) {
		return Match{}, false
	}
	return r.flat[r.current], true
}

// CurrentIndex returns the 1-based position of the cursor, 0 when
// unset. Paired with Count for "3 of 17" style readouts.
func (r *Results) CurrentIndex() int {
	r.rebuild()
	if r.current < 0 {
		return 0
	}
	return r.current + 1
}

// Next advances the cursor, wrapping past the last match to the first.
func (r *Results) Next() (Match, bool) {
	r.rebuild()
	if len(r.flat) == 0 {
		return Match{}, false
	}
	r.current = (r.current + 1) % len(r.flat)
	return r.flat[r.current], true
}

// Prev moves the cursor back, wrapping before the first match to the
// last.
func (r *Results) Prev() (Match, bool) {
	r.rebuild()
	if len(r.flat) == 0 {
		return Match{}, false
	}
	if r.current <= 0 {
		r.current = len(r.flat) - 1
	} else {
		r.current--
	}
	return r.flat[r.current], true
}

// rebuild refreshes the flat navigation sequence after page updates.
// The cursor resets because indices may no longer line up.
func (r *Results) rebuild() {
	if !r.stale {
		return
	}
	pages := make([]int, 0, len(r.byPage))
	for p := range r.byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	r.flat = r.flat[:0]
	for _, p := range pages {
		for _, rect := range r.byPage[p] {
			r.flat = append(r.flat, Match{Page: p, Rect: rect})
		}
	}
	r.current = -1
	r.stale = false
}
