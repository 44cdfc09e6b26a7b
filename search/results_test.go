package search

import (
	"testing"

	"github.com/wudi/pdfview/coords"
)

func rectAt(x float64) coords.Rect {
	return coords.NewRect(x, 0, x+10, 10)
}

func TestResultsEmpty(t *testing.T) {
	r := NewResults()
	if r.Count() != 0 {
		t.Fatalf("count = %d", r.Count())
	}
	if _, ok := r.Current(); ok {
		t.Fatalf("current on empty results")
	}
	if _, ok := r.Next(); ok {
		t.Fatalf("next on empty results")
	}
	if _, ok := r.Prev(); ok {
		t.Fatalf("prev on empty results")
	}
	if r.CurrentIndex() != 0 {
		t.Fatalf("current index = %d", r.CurrentIndex())
	}
}

func TestResultsNavigationWrapsForward(t *testing.T) {
	r := NewResults()
	r.AddPage(3, []coords.Rect{rectAt(0)})
	r.AddPage(1, []coords.Rect{rectAt(0), rectAt(20)})

	if r.Count() != 3 {
		t.Fatalf("count = %d, want 3", r.Count())
	}

	// Flat order is page-ascending: 1, 1, 3.
	wantPages := []int{1, 1, 3, 1}
	for i, want := range wantPages {
		m, ok := r.Next()
		if !ok {
			t.Fatalf("next %d failed", i)
		}
		if m.Page != want {
			t.Fatalf("next %d page = %d, want %d", i, m.Page, want)
		}
	}
	if r.CurrentIndex() != 1 {
		t.Fatalf("index after wrap = %d, want 1", r.CurrentIndex())
	}
}

func TestResultsNavigationWrapsBackward(t *testing.T) {
	r := NewResults()
	r.AddPage(0, []coords.Rect{rectAt(0), rectAt(20)})

	m, ok := r.Prev()
	if !ok || m.Rect.Llx != 20 {
		t.Fatalf("first prev should wrap to last match, got %+v ok=%v", m, ok)
	}
	m, _ = r.Prev()
	if m.Rect.Llx != 0 {
		t.Fatalf("second prev = %+v", m)
	}
	m, _ = r.Prev()
	if m.Rect.Llx != 20 {
		t.Fatalf("prev from first should wrap to last, got %+v", m)
	}
}

func TestResultsCurrentTracksCursor(t *testing.T) {
	r := NewResults()
	r.AddPage(2, []coords.Rect{rectAt(0)})

	if _, ok := r.Current(); ok {
		t.Fatalf("current before navigation")
	}
	next, _ := r.Next()
	cur, ok := r.Current()
	if !ok || cur != next {
		t.Fatalf("current = %+v, want %+v", cur, next)
	}
	if r.CurrentIndex() != 1 {
		t.Fatalf("index = %d", r.CurrentIndex())
	}
}

func TestResultsAddPageResetsCursor(t *testing.T) {
	r := NewResults()
	r.AddPage(0, []coords.Rect{rectAt(0)})
	r.Next()

	r.AddPage(1, []coords.Rect{rectAt(0)})
	if _, ok := r.Current(); ok {
		t.Fatalf("cursor should reset after new matches arrive")
	}
	if r.Count() != 2 {
		t.Fatalf("count = %d", r.Count())
	}
}

func TestResultsReplaceAndClear(t *testing.T) {
	r := NewResults()
	r.AddPage(0, []coords.Rect{rectAt(0), rectAt(20)})
	r.AddPage(0, []coords.Rect{rectAt(40)})
	if r.Count() != 1 {
		t.Fatalf("count after replace = %d", r.Count())
	}
	if got := r.PageMatches(0); len(got) != 1 || got[0].Llx != 40 {
		t.Fatalf("page matches = %v", got)
	}

	r.AddPage(0, nil)
	if r.Count() != 0 {
		t.Fatalf("count after empty replace = %d", r.Count())
	}

	r.AddPage(1, []coords.Rect{rectAt(0)})
	r.Clear()
	if r.Count() != 0 || r.PageMatches(1) != nil {
		t.Fatalf("clear left state behind")
	}
}
