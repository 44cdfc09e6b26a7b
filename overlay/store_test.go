package overlay

import (
	"math/rand"
	"testing"

	"github.com/wudi/pdfview/coords"
)

func textAt(page int, x, y float64) *TextObject {
	return NewTextObject(page, coords.Point{X: x, Y: y}, "sample")
}

func zOrders(objs []Object) []int {
	out := make([]int, len(objs))
	for i, o := range objs {
		out[i] = o.ZOrder()
	}
	return out
}

func TestFirstInsertGetsZeroZOrder(t *testing.T) {
	s := NewStore()
	obj := textAt(0, 10, 10)
	s.Add(obj)
	all := s.All()
	if len(all) != 1 {
		t.Fatalf("expected one object, got %d", len(all))
	}
	if all[0].ZOrder() != 0 {
		t.Fatalf("first assigned z-order = %d, want 0", all[0].ZOrder())
	}
}

func TestAllAlwaysSortedByZOrder(t *testing.T) {
	s := NewStore()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		obj := textAt(rng.Intn(4), float64(i), float64(i))
		if rng.Intn(3) == 0 {
			// Pre-assigned z-orders must be respected, not reassigned.
			obj.SetZOrder(100 + rng.Intn(20))
		}
		s.Add(obj)
		zs := zOrders(s.All())
		for j := 1; j < len(zs); j++ {
			if zs[j-1] > zs[j] {
				t.Fatalf("order violated after %d adds: %v", i+1, zs)
			}
		}
	}
}

func TestAllReturnsDefensiveCopy(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0)
	b := textAt(0, 1, 1)
	s.Add(a)
	s.Add(b)
	got := s.All()
	got[0], got[1] = got[1], got[0]
	again := s.All()
	if again[0] != a || again[1] != b {
		t.Fatalf("mutating the returned slice corrupted the store")
	}
}

func TestRemove(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0)
	b := textAt(0, 1, 1)
	s.Add(a)
	s.Add(b)
	if !s.Remove(a) {
		t.Fatalf("expected removal of present object to succeed")
	}
	if s.Remove(a) {
		t.Fatalf("removing an absent object should report false")
	}
	// Remaining z-orders keep their gaps.
	if b.ZOrder() != 1 {
		t.Fatalf("survivor z-order changed to %d", b.ZOrder())
	}
}

func TestByPagePreservesOrder(t *testing.T) {
	s := NewStore()
	a := textAt(1, 0, 0)
	b := textAt(0, 0, 0)
	c := textAt(1, 5, 5)
	s.Add(a)
	s.Add(b)
	s.Add(c)
	got := s.ByPage(1)
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("ByPage returned wrong objects: %v", got)
	}
	if len(s.ByPage(7)) != 0 {
		t.Fatalf("empty page should return no objects")
	}
}

func TestTopmostAtPrefersHighestZ(t *testing.T) {
	s := NewStore()
	bottom := textAt(0, 10, 10)
	top := textAt(0, 12, 12)
	s.Add(bottom)
	s.Add(top)
	// Both bounding boxes contain this point.
	p := coords.Point{X: 14, Y: 14}
	if !bottom.Contains(p) || !top.Contains(p) {
		t.Fatalf("test point must be inside both objects")
	}
	got, ok := s.TopmostAt(0, p)
	if !ok || got != top {
		t.Fatalf("TopmostAt returned %v, want the higher z-order object", got)
	}
	// An object on another page never matches.
	if _, ok := s.TopmostAt(3, p); ok {
		t.Fatalf("TopmostAt matched on the wrong page")
	}
}

func TestTopmostAtMiss(t *testing.T) {
	s := NewStore()
	s.Add(textAt(0, 10, 10))
	if obj, ok := s.TopmostAt(0, coords.Point{X: 500, Y: 500}); ok || obj != nil {
		t.Fatalf("expected no hit, got %v", obj)
	}
}

func TestSelection(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0)
	b := textAt(1, 0, 0)
	s.Add(a)
	s.Add(b)
	a.SetSelected(true)
	b.SetSelected(true)
	if got := s.Selected(); len(got) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(got))
	}
	s.DeselectAll()
	if got := s.Selected(); len(got) != 0 {
		t.Fatalf("expected no selection after DeselectAll, got %d", len(got))
	}
}

func TestBringForwardSwapsWithNeighbor(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0) // z=0
	b := textAt(0, 1, 1) // z=1
	c := textAt(0, 2, 2) // z=2
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.BringForward(a)
	if a.ZOrder() != 1 || b.ZOrder() != 0 || c.ZOrder() != 2 {
		t.Fatalf("swap result a=%d b=%d c=%d", a.ZOrder(), b.ZOrder(), c.ZOrder())
	}
	// Topmost object has no neighbor above: no-op.
	s.BringForward(c)
	if c.ZOrder() != 2 {
		t.Fatalf("BringForward at top should be a no-op, z=%d", c.ZOrder())
	}
}

func TestSendBackwardAtBottomIsNoop(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0)
	b := textAt(0, 1, 1)
	s.Add(a)
	s.Add(b)
	s.SendBackward(a)
	if a.ZOrder() != 0 || b.ZOrder() != 1 {
		t.Fatalf("SendBackward at bottom changed orders: a=%d b=%d", a.ZOrder(), b.ZOrder())
	}
}

func TestForwardThenBackwardRestoresOrder(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0)
	b := textAt(0, 1, 1)
	c := textAt(0, 2, 2)
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.BringForward(b)
	s.SendBackward(b)
	if a.ZOrder() != 0 || b.ZOrder() != 1 || c.ZOrder() != 2 {
		t.Fatalf("swap pair did not restore: a=%d b=%d c=%d", a.ZOrder(), b.ZOrder(), c.ZOrder())
	}
}

func TestReorderOpsIgnoreForeignObjects(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0)
	s.Add(a)
	stranger := textAt(0, 9, 9)
	stranger.SetZOrder(5)
	s.BringForward(stranger)
	s.SendBackward(stranger)
	s.BringToFront(stranger)
	s.SendToBack(stranger)
	if stranger.ZOrder() != 5 {
		t.Fatalf("foreign object was mutated: z=%d", stranger.ZOrder())
	}
	if a.ZOrder() != 0 {
		t.Fatalf("store object disturbed: z=%d", a.ZOrder())
	}
}

func TestBringToFrontUsesCounter(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0)
	b := textAt(0, 1, 1)
	c := textAt(0, 2, 2)
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.BringToFront(a)
	if a.ZOrder() != 3 {
		t.Fatalf("BringToFront z = %d, want 3", a.ZOrder())
	}
	s.BringToFront(b)
	if b.ZOrder() != 4 {
		t.Fatalf("counter must keep increasing, z = %d", b.ZOrder())
	}
	all := s.All()
	if all[len(all)-1] != b {
		t.Fatalf("last promoted object should be topmost")
	}
}

func TestSendToBackShiftsOthers(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0) // z=0
	b := textAt(0, 1, 1) // z=1
	c := textAt(0, 2, 2) // z=2
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.SendToBack(c)
	if c.ZOrder() != 0 || a.ZOrder() != 1 || b.ZOrder() != 2 {
		t.Fatalf("SendToBack result a=%d b=%d c=%d", a.ZOrder(), b.ZOrder(), c.ZOrder())
	}
	all := s.All()
	if all[0] != c {
		t.Fatalf("target should be bottom-most after SendToBack")
	}
}

func TestSendToBackOnBottomObject(t *testing.T) {
	s := NewStore()
	a := textAt(0, 0, 0) // z=0
	b := textAt(0, 1, 1) // z=1
	c := textAt(0, 2, 2) // z=2
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.SendToBack(a)
	// Target is already at the bottom: it stays at 0 and the others
	// shift up, keeping a strict total order.
	if a.ZOrder() != 0 || b.ZOrder() != 2 || c.ZOrder() != 3 {
		t.Fatalf("result a=%d b=%d c=%d, want 0/2/3", a.ZOrder(), b.ZOrder(), c.ZOrder())
	}
	all := s.All()
	if all[0] != a || all[1] != b || all[2] != c {
		t.Fatalf("total order broken after SendToBack")
	}
}

func TestClearResetsCounter(t *testing.T) {
	s := NewStore()
	s.Add(textAt(0, 0, 0))
	s.Add(textAt(0, 1, 1))
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("store not empty after Clear")
	}
	first := textAt(0, 5, 5)
	s.Add(first)
	if first.ZOrder() != 0 {
		t.Fatalf("counter should restart at 0 after Clear, got %d", first.ZOrder())
	}
}
