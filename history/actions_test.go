package history

import (
	"strings"
	"testing"

	"github.com/wudi/pdfview/coords"
	"github.com/wudi/pdfview/engine"
	"github.com/wudi/pdfview/engine/memdoc"
	"github.com/wudi/pdfview/overlay"
)

func TestAddTextActionRoundTrip(t *testing.T) {
	d := memdoc.New(2)
	a := NewAddTextAction(1, coords.Point{X: 50, Y: 60}, "hello", "Helvetica", 14, engine.Color{R: 1})

	if _, ok := a.Ref(); ok {
		t.Fatalf("ref must start unset")
	}
	if !a.Apply(d) {
		t.Fatalf("apply failed")
	}
	ref, ok := a.Ref()
	if !ok {
		t.Fatalf("ref not set after apply")
	}
	if !d.HasAnnotation(1, ref) {
		t.Fatalf("annotation missing from engine")
	}

	if !a.Revert(d) {
		t.Fatalf("revert failed")
	}
	if d.AnnotationCount(1) != 0 {
		t.Fatalf("annotation still present after revert")
	}

	// Re-apply assigns a fresh reference.
	if !a.Apply(d) {
		t.Fatalf("re-apply failed")
	}
	if ref2, _ := a.Ref(); ref2 == ref {
		t.Fatalf("re-apply should obtain a new reference")
	}
}

func TestAddTextActionDescriptionTruncates(t *testing.T) {
	long := strings.Repeat("y", 40)
	a := NewAddTextAction(0, coords.Point{}, long, "Helvetica", 12, engine.Color{})
	desc := a.Description()
	if !strings.Contains(desc, "...") || strings.Contains(desc, long) {
		t.Fatalf("description not truncated: %q", desc)
	}
	if a.Page() != 0 {
		t.Fatalf("page = %d", a.Page())
	}
}

func TestAddShapeActionSnapshotRevert(t *testing.T) {
	d := memdoc.New(1)
	snap, err := d.PageSnapshot(0)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	spec := ShapeSpec{
		Page:        0,
		Kind:        overlay.ShapeRectangle,
		Bounds:      coords.NewRect(10, 10, 60, 40),
		Border:      engine.Color{B: 1},
		BorderWidth: 2,
	}
	a := NewAddShapeAction(spec, snap)
	if !a.Apply(d) {
		t.Fatalf("apply failed")
	}
	if d.ShapeCount(0) != 1 {
		t.Fatalf("shape not drawn")
	}
	if !a.Revert(d) {
		t.Fatalf("revert failed")
	}
	if d.ShapeCount(0) != 0 {
		t.Fatalf("shape still present after revert")
	}
	if a.Description() != "Add rectangle" {
		t.Fatalf("description = %q", a.Description())
	}
}

func TestAddShapeActionWithoutSnapshotCannotRevert(t *testing.T) {
	a := NewAddShapeAction(ShapeSpec{Kind: overlay.ShapeLine}, nil)
	if a.Revert(memdoc.New(1)) {
		t.Fatalf("revert without snapshot should fail")
	}
}

func TestDeletePageActionRoundTrip(t *testing.T) {
	d := memdoc.New(3)
	d.SetPageText(1, "victim")
	a := NewDeletePageAction(1)

	if !a.Apply(d) {
		t.Fatalf("delete failed")
	}
	if d.PageCount() != 2 {
		t.Fatalf("page count = %d", d.PageCount())
	}
	if !a.Revert(d) {
		t.Fatalf("restore failed")
	}
	if d.PageCount() != 3 {
		t.Fatalf("page count after restore = %d", d.PageCount())
	}
	rects, _ := d.SearchTextInPage(1, "victim", false)
	if len(rects) != 1 {
		t.Fatalf("restored page lost its content")
	}

	// Revert before any Apply has no snapshot to restore.
	fresh := NewDeletePageAction(0)
	if fresh.Revert(d) {
		t.Fatalf("revert without snapshot should fail")
	}
}

func TestInsertPageActionRoundTrip(t *testing.T) {
	d := memdoc.New(2)
	a := NewInsertPageAction(1, 300, 400)
	if !a.Apply(d) {
		t.Fatalf("insert failed")
	}
	if d.PageCount() != 3 || d.PageWidth(1) != 300 {
		t.Fatalf("insert result: count=%d width=%f", d.PageCount(), d.PageWidth(1))
	}
	if !a.Revert(d) {
		t.Fatalf("revert failed")
	}
	if d.PageCount() != 2 {
		t.Fatalf("page count after revert = %d", d.PageCount())
	}
}

func TestMovePageActionForwardUndo(t *testing.T) {
	d := memdoc.New(4)
	for i := 0; i < 4; i++ {
		d.SetPageSize(i, float64(100+i), 842)
	}
	a := NewMovePageAction(0, 3)
	if !a.Apply(d) {
		t.Fatalf("move failed")
	}
	if a.Page() != 2 || d.PageWidth(2) != 100 {
		t.Fatalf("forward move landed wrong: actual=%d width=%f", a.Page(), d.PageWidth(2))
	}
	if !a.Revert(d) {
		t.Fatalf("revert failed")
	}
	for i := 0; i < 4; i++ {
		if d.PageWidth(i) != float64(100+i) {
			t.Fatalf("page order not restored at %d: width=%f", i, d.PageWidth(i))
		}
	}
}

func TestMovePageActionBackwardUndo(t *testing.T) {
	d := memdoc.New(4)
	for i := 0; i < 4; i++ {
		d.SetPageSize(i, float64(100+i), 842)
	}
	a := NewMovePageAction(3, 1)
	if !a.Apply(d) {
		t.Fatalf("move failed")
	}
	if a.Page() != 1 || d.PageWidth(1) != 103 {
		t.Fatalf("backward move landed wrong: actual=%d width=%f", a.Page(), d.PageWidth(1))
	}
	if !a.Revert(d) {
		t.Fatalf("revert failed")
	}
	for i := 0; i < 4; i++ {
		if d.PageWidth(i) != float64(100+i) {
			t.Fatalf("page order not restored at %d: width=%f", i, d.PageWidth(i))
		}
	}
}
