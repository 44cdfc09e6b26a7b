package history

import (
	"fmt"

	"github.com/wudi/pdfview/coords"
	"github.com/wudi/pdfview/engine"
	"github.com/wudi/pdfview/overlay"
)

// AddTextAction records the addition of a free-text annotation. The
// annotation reference starts unset and is populated by the first
// successful forward application; every later Revert reads it back.
type AddTextAction struct {
	page     int
	pos      coords.Point
	text     string
	fontName string
	fontSize float64
	color    engine.Color

	ref    engine.Ref
	hasRef bool
}

// NewAddTextAction builds the action. Apply commits the annotation.
func NewAddTextAction(page int, pos coords.Point, text, fontName string, fontSize float64, color engine.Color) *AddTextAction {
	return &AddTextAction{
		page:     page,
		pos:      pos,
		text:     text,
		fontName: fontName,
		fontSize: fontSize,
		color:    color,
	}
}

// Ref returns the annotation reference once the action has been
// applied.
func (a *AddTextAction) Ref() (engine.Ref, bool) { return a.ref, a.hasRef }

// SetRef records a reference obtained by the caller when it performed
// the forward operation itself before recording the action.
func (a *AddTextAction) SetRef(ref engine.Ref) {
	a.ref = ref
	a.hasRef = true
}

func (a *AddTextAction) Apply(eng engine.Engine) bool {
	ref, err := eng.AddTextAnnotation(a.page, a.pos, a.text, a.fontName, a.fontSize, a.color)
	if err != nil {
		return false
	}
	a.ref = ref
	a.hasRef = true
	return true
}

func (a *AddTextAction) Revert(eng engine.Engine) bool {
	if !a.hasRef {
		return false
	}
	return eng.DeleteAnnotation(a.page, a.ref) == nil
}

func (a *AddTextAction) Description() string {
	preview := a.text
	if len(preview) > 20 {
		preview = preview[:20] + "..."
	}
	return fmt.Sprintf("Add text: %q", preview)
}

func (a *AddTextAction) Page() int { return a.page }

// ShapeSpec describes a shape to draw, shared by AddShapeAction and the
// document-level shape helpers.
type ShapeSpec struct {
	Page        int
	Kind        overlay.ShapeKind
	Bounds      coords.Rect  // extent for rectangles and ellipses
	From, To    coords.Point // endpoints for lines
	Border      engine.Color
	BorderWidth float64
	Fill        *engine.Color
}

// AddShapeAction records a shape drawn into the page content. Shapes
// are not annotations, so the inverse restores a snapshot of the page
// captured before the shape was drawn.
type AddShapeAction struct {
	spec     ShapeSpec
	snapshot []byte
}

// NewAddShapeAction builds the action with the page snapshot taken
// before drawing.
func NewAddShapeAction(spec ShapeSpec, snapshot []byte) *AddShapeAction {
	return &AddShapeAction{spec: spec, snapshot: snapshot}
}

func (a *AddShapeAction) Apply(eng engine.Engine) bool {
	s := a.spec
	switch s.Kind {
	case overlay.ShapeRectangle:
		return eng.AddRectShape(s.Page, s.Bounds, s.Border, s.BorderWidth, s.Fill) == nil
	case overlay.ShapeEllipse:
		cx := (s.Bounds.Llx + s.Bounds.Urx) / 2
		cy := (s.Bounds.Lly + s.Bounds.Ury) / 2
		return eng.AddEllipseShape(s.Page, coords.Point{X: cx, Y: cy},
			s.Bounds.Width()/2, s.Bounds.Height()/2, s.Border, s.BorderWidth, s.Fill) == nil
	case overlay.ShapeLine:
		return eng.AddLineShape(s.Page, s.From, s.To, s.Border, s.BorderWidth) == nil
	}
	return false
}

func (a *AddShapeAction) Revert(eng engine.Engine) bool {
	if a.snapshot == nil {
		return false
	}
	return eng.RestorePageSnapshot(a.spec.Page, a.snapshot) == nil
}

func (a *AddShapeAction) Description() string {
	return fmt.Sprintf("Add %s", a.spec.Kind)
}

func (a *AddShapeAction) Page() int { return a.spec.Page }

// DeletePageAction records a page deletion. The snapshot captured by
// the forward operation restores the full page on undo.
type DeletePageAction struct {
	page     int
	snapshot []byte
}

func NewDeletePageAction(page int) *DeletePageAction {
	return &DeletePageAction{page: page}
}

func (a *DeletePageAction) Apply(eng engine.Engine) bool {
	snap, err := eng.DeletePage(a.page)
	if err != nil {
		return false
	}
	a.snapshot = snap
	return true
}

func (a *DeletePageAction) Revert(eng engine.Engine) bool {
	if a.snapshot == nil {
		return false
	}
	return eng.RestorePage(a.page, a.snapshot) == nil
}

func (a *DeletePageAction) Description() string {
	return fmt.Sprintf("Delete page %d", a.page+1)
}

func (a *DeletePageAction) Page() int { return a.page }

// InsertPageAction records insertion of a blank page.
type InsertPageAction struct {
	pos    int
	width  float64
	height float64
}

func NewInsertPageAction(pos int, width, height float64) *InsertPageAction {
	return &InsertPageAction{pos: pos, width: width, height: height}
}

func (a *InsertPageAction) Apply(eng engine.Engine) bool {
	return eng.InsertBlankPage(a.pos, a.width, a.height) == nil
}

func (a *InsertPageAction) Revert(eng engine.Engine) bool {
	_, err := eng.DeletePage(a.pos)
	return err == nil
}

func (a *InsertPageAction) Description() string {
	return fmt.Sprintf("Insert blank page at position %d", a.pos+1)
}

func (a *InsertPageAction) Page() int { return a.pos }

// MovePageAction records a page move. Engine move semantics place the
// page before the destination index, so a forward move lands the page
// at to-1 and the inverse has to compensate.
type MovePageAction struct {
	from   int
	to     int
	actual int // index the page occupies after the move
}

func NewMovePageAction(from, to int) *MovePageAction {
	actual := to
	if from < to {
		actual = to - 1
	}
	return &MovePageAction{from: from, to: to, actual: actual}
}

func (a *MovePageAction) Apply(eng engine.Engine) bool {
	return eng.MovePage(a.from, a.to) == nil
}

func (a *MovePageAction) Revert(eng engine.Engine) bool {
	if a.from < a.to {
		// Was moved forward; bring it back to its original index.
		return eng.MovePage(a.actual, a.from) == nil
	}
	// Was moved backward; moving forward targets the slot after the
	// original index.
	return eng.MovePage(a.actual, a.from+1) == nil
}

func (a *MovePageAction) Description() string {
	return fmt.Sprintf("Move page %d to position %d", a.from+1, a.to+1)
}

func (a *MovePageAction) Page() int { return a.actual }

// From returns the page's index before the move.
func (a *MovePageAction) From() int { return a.from }
