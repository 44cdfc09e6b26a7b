package overlay

import "github.com/wudi/pdfview/coords"

// ShapeKind identifies the geometry of a shape object.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeLine      ShapeKind = "line"
)

// ShapeObject is a vector shape element overlaid on a page. Position is
// one corner (or line endpoint); End is the opposite one.
type ShapeObject struct {
	base

	shape       ShapeKind
	end         coords.Point
	borderWidth float64
	borderColor Color
	fill        *Color
}

// NewShapeObject creates a shape spanning pos to end.
func NewShapeObject(page int, shape ShapeKind, pos, end coords.Point) *ShapeObject {
	s := &ShapeObject{
		shape:       shape,
		end:         end,
		borderWidth: 2,
		borderColor: Black,
	}
	s.page = page
	s.pos = pos
	return s
}

func (s *ShapeObject) Kind() Kind { return KindShape }

func (s *ShapeObject) Shape() ShapeKind { return s.shape }

func (s *ShapeObject) End() coords.Point { return s.end }

func (s *ShapeObject) SetEnd(p coords.Point) { s.end = p }

func (s *ShapeObject) BorderWidth() float64 { return s.borderWidth }

// SetBorderWidth sets the stroke width. Non-positive values are ignored.
func (s *ShapeObject) SetBorderWidth(w float64) {
	if w > 0 {
		s.borderWidth = w
	}
}

func (s *ShapeObject) BorderColor() Color { return s.borderColor }

func (s *ShapeObject) SetBorderColor(c Color) { s.borderColor = c }

// Fill returns the fill color, if the shape is filled.
func (s *ShapeObject) Fill() (Color, bool) {
	if s.fill == nil {
		return Color{}, false
	}
	return *s.fill, true
}

func (s *ShapeObject) SetFill(c Color) { s.fill = &c }

func (s *ShapeObject) ClearFill() { s.fill = nil }

func (s *ShapeObject) Bounds() coords.Rect {
	return coords.NewRect(s.pos.X, s.pos.Y, s.end.X, s.end.Y)
}

func (s *ShapeObject) Contains(p coords.Point) bool { return s.Bounds().Contains(p) }

func (s *ShapeObject) Encode() State {
	st := State{
		"type":         string(KindShape),
		"shape":        string(s.shape),
		"end_x":        s.end.X,
		"end_y":        s.end.Y,
		"border_width": s.borderWidth,
		"border_color": encodeColor(s.borderColor),
	}
	if s.fill != nil {
		st["fill_color"] = encodeColor(*s.fill)
	}
	s.encodeInto(st)
	return st
}

func (s *ShapeObject) Decode(st State) error {
	if err := s.decodeFrom(st); err != nil {
		return err
	}
	kind, err := stringValue(st, "shape")
	if err != nil {
		return err
	}
	ex, err := floatValue(st, "end_x")
	if err != nil {
		return err
	}
	ey, err := floatValue(st, "end_y")
	if err != nil {
		return err
	}
	s.shape = ShapeKind(kind)
	s.end = coords.Point{X: ex, Y: ey}
	s.borderWidth = 2
	if w, err := floatValue(st, "border_width"); err == nil {
		s.SetBorderWidth(w)
	}
	s.borderColor = Black
	if c, ok := decodeColor(st, "border_color"); ok {
		s.borderColor = c
	}
	s.fill = nil
	if c, ok := decodeColor(st, "fill_color"); ok {
		s.fill = &c
	}
	return nil
}
