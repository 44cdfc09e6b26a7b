package history

import (
	"testing"

	"github.com/wudi/pdfview/coords"
	"github.com/wudi/pdfview/engine"
	"github.com/wudi/pdfview/engine/memdoc"
)

func addText(t *testing.T, l *Log, d *memdoc.Document, page int, text string) *AddTextAction {
	t.Helper()
	a := NewAddTextAction(page, coords.Point{X: 10, Y: 10}, text, "Helvetica", 12, engine.Color{})
	if !a.Apply(d) {
		t.Fatalf("forward apply of %q failed", text)
	}
	l.Record(a)
	return a
}

func TestUndoRedoScenario(t *testing.T) {
	d := memdoc.New(1)
	l := NewLog(0)

	addText(t, l, d, 0, "first")
	addText(t, l, d, 0, "second")
	if !l.CanUndo() || l.CanRedo() {
		t.Fatalf("after two records: undo=%v redo=%v", l.CanUndo(), l.CanRedo())
	}

	page, ok := l.Undo(d)
	if !ok || page != 0 {
		t.Fatalf("undo returned (%d, %v)", page, ok)
	}
	if !l.CanUndo() || !l.CanRedo() {
		t.Fatalf("after undo: undo=%v redo=%v", l.CanUndo(), l.CanRedo())
	}
	if desc, _ := l.UndoDescription(); desc != `Add text: "first"` {
		t.Fatalf("undo description = %q", desc)
	}
	if desc, _ := l.RedoDescription(); desc != `Add text: "second"` {
		t.Fatalf("redo description = %q", desc)
	}
	if d.AnnotationCount(0) != 1 {
		t.Fatalf("annotation not removed by undo")
	}

	page, ok = l.Redo(d)
	if !ok || page != 0 {
		t.Fatalf("redo returned (%d, %v)", page, ok)
	}
	if !l.CanUndo() || l.CanRedo() {
		t.Fatalf("after redo: undo=%v redo=%v", l.CanUndo(), l.CanRedo())
	}
	if d.AnnotationCount(0) != 2 {
		t.Fatalf("annotation not restored by redo")
	}
}

func TestUndoEmptyLog(t *testing.T) {
	l := NewLog(0)
	if page, ok := l.Undo(memdoc.New(1)); ok || page != 0 {
		t.Fatalf("undo on empty log returned (%d, %v)", page, ok)
	}
	if _, ok := l.UndoDescription(); ok {
		t.Fatalf("empty log should have no undo description")
	}
	if _, ok := l.RedoDescription(); ok {
		t.Fatalf("empty log should have no redo description")
	}
}

func TestRecordInvalidatesRedo(t *testing.T) {
	d := memdoc.New(1)
	l := NewLog(0)

	addText(t, l, d, 0, "one")
	addText(t, l, d, 0, "two")
	if _, ok := l.Undo(d); !ok {
		t.Fatalf("undo failed")
	}
	if !l.CanRedo() {
		t.Fatalf("redo should be available")
	}

	addText(t, l, d, 0, "three")
	if l.CanRedo() {
		t.Fatalf("recording must clear the redo stack")
	}
}

func TestUndoFailureLeavesStacksUntouched(t *testing.T) {
	d := memdoc.New(1)
	l := NewLog(0)

	addText(t, l, d, 0, "good")
	// Recorded but never applied: no annotation ref, so Revert fails.
	broken := NewAddTextAction(0, coords.Point{}, "broken", "Helvetica", 12, engine.Color{})
	l.Record(broken)

	undoBefore, redoBefore := l.CanUndo(), l.CanRedo()
	if page, ok := l.Undo(d); ok || page != 0 {
		t.Fatalf("undo of broken action should fail, got (%d, %v)", page, ok)
	}
	if l.CanUndo() != undoBefore || l.CanRedo() != redoBefore {
		t.Fatalf("stacks changed after failed undo")
	}
	if desc, _ := l.UndoDescription(); desc != `Add text: "broken"` {
		t.Fatalf("failed action should stay on top, description = %q", desc)
	}
}

func TestRedoFailureLeavesStacksUntouched(t *testing.T) {
	d := memdoc.New(1)
	l := NewLog(0)

	// Empty text: the engine rejects the forward apply, but the
	// inverse works once a real annotation ref is attached.
	a := NewAddTextAction(0, coords.Point{}, "", "Helvetica", 12, engine.Color{})
	ref, err := d.AddTextAnnotation(0, coords.Point{}, "stand-in", "Helvetica", 12, engine.Color{})
	if err != nil {
		t.Fatalf("seed annotation: %v", err)
	}
	a.SetRef(ref)
	l.Record(a)

	if _, ok := l.Undo(d); !ok {
		t.Fatalf("undo should succeed")
	}
	undoBefore, redoBefore := l.CanUndo(), l.CanRedo()
	if _, ok := l.Redo(d); ok {
		t.Fatalf("redo should fail")
	}
	if l.CanUndo() != undoBefore || l.CanRedo() != redoBefore {
		t.Fatalf("stacks changed after failed redo")
	}
}

func TestDepthCapEvictsOldest(t *testing.T) {
	d := memdoc.New(1)
	l := NewLog(3)

	addText(t, l, d, 0, "a")
	addText(t, l, d, 0, "b")
	addText(t, l, d, 0, "c")
	addText(t, l, d, 0, "d")

	var undone []string
	for l.CanUndo() {
		desc, _ := l.UndoDescription()
		undone = append(undone, desc)
		if _, ok := l.Undo(d); !ok {
			t.Fatalf("undo failed at %q", desc)
		}
	}
	if len(undone) != 3 {
		t.Fatalf("undo-reachable entries = %d, want 3", len(undone))
	}
	// "a" was the oldest and must be the one that fell off.
	for _, desc := range undone {
		if desc == `Add text: "a"` {
			t.Fatalf("evicted entry still reachable")
		}
	}
}

func TestAvailabilityNotifications(t *testing.T) {
	d := memdoc.New(1)
	l := NewLog(0)

	var undoEvents, redoEvents []bool
	l.OnUndoAvailable(func(v bool) { undoEvents = append(undoEvents, v) })
	l.OnRedoAvailable(func(v bool) { redoEvents = append(redoEvents, v) })

	addText(t, l, d, 0, "one")
	addText(t, l, d, 0, "two") // no transition, no event
	if len(undoEvents) != 1 || !undoEvents[0] {
		t.Fatalf("undo events after records: %v", undoEvents)
	}
	if len(redoEvents) != 0 {
		t.Fatalf("redo events should not fire while redo stays empty: %v", redoEvents)
	}

	l.Undo(d) // redo false->true
	l.Undo(d) // undo true->false
	if len(undoEvents) != 2 || undoEvents[1] {
		t.Fatalf("undo events after undos: %v", undoEvents)
	}
	if len(redoEvents) != 1 || !redoEvents[0] {
		t.Fatalf("redo events after undos: %v", redoEvents)
	}

	addText(t, l, d, 0, "three") // undo false->true, redo true->false
	if len(undoEvents) != 3 || !undoEvents[2] {
		t.Fatalf("undo events after new record: %v", undoEvents)
	}
	if len(redoEvents) != 2 || redoEvents[1] {
		t.Fatalf("redo events after new record: %v", redoEvents)
	}
}

func TestClearFiresOnlyActualTransitions(t *testing.T) {
	d := memdoc.New(1)
	l := NewLog(0)

	var undoEvents, redoEvents int
	l.OnUndoAvailable(func(bool) { undoEvents++ })
	l.OnRedoAvailable(func(bool) { redoEvents++ })

	l.Clear() // both empty: no events
	if undoEvents != 0 || redoEvents != 0 {
		t.Fatalf("clear of empty log fired events: %d %d", undoEvents, redoEvents)
	}

	addText(t, l, d, 0, "x")
	undoEvents, redoEvents = 0, 0
	l.Clear() // undo true->false only
	if undoEvents != 1 || redoEvents != 0 {
		t.Fatalf("clear events: undo=%d redo=%d", undoEvents, redoEvents)
	}
	if l.CanUndo() || l.CanRedo() {
		t.Fatalf("log not empty after clear")
	}
}
