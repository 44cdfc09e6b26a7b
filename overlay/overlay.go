// Package overlay implements the editable object layer of a document:
// user-added text, image and shape elements placed on top of PDF pages,
// together with the z-ordered store that owns them.
//
// Overlay objects are distinct from the native page content. They exist
// in memory until committed to the document through the engine, at which
// point they carry the annotation reference the engine handed back.
package overlay

import (
	"fmt"

	"github.com/wudi/pdfview/coords"
)

// Kind identifies the variant of an overlay object.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindShape Kind = "shape"
)

// Color is an RGB color with components in the range [0, 1].
type Color struct {
	R, G, B float64
}

// Black is the default color for new text objects.
var Black = Color{0, 0, 0}

// State is the serialized form of an overlay object, suitable for
// host-side persistence and for undo snapshots of object edits.
type State map[string]any

// Object is the capability set shared by all overlay variants.
type Object interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Page returns the zero-based index of the owning page.
	Page() int
	SetPage(page int)

	// Position is the object anchor in page coordinates.
	Position() coords.Point
	SetPosition(p coords.Point)

	// Bounds returns the current bounding box, derived from the
	// object's position and payload.
	Bounds() coords.Rect

	// Contains reports whether the point falls inside the bounding box.
	Contains(p coords.Point) bool

	Selected() bool
	SetSelected(selected bool)

	// ZOrder is the stacking key among objects on the same page.
	// Zero means "not yet assigned"; the store assigns a value on Add.
	ZOrder() int
	SetZOrder(z int)

	// AnnotationRef returns the engine annotation reference, if the
	// object has been committed to the document.
	AnnotationRef() (int64, bool)
	SetAnnotationRef(ref int64)

	// Encode serializes the object; Decode restores it.
	Encode() State
	Decode(s State) error
}

// base carries the fields common to every overlay variant.
type base struct {
	page     int
	pos      coords.Point
	selected bool
	zOrder   int
	ref      int64
	hasRef   bool
}

func (b *base) Page() int                  { return b.page }
func (b *base) SetPage(page int)           { b.page = page }
func (b *base) Position() coords.Point     { return b.pos }
func (b *base) SetPosition(p coords.Point) { b.pos = p }
func (b *base) Selected() bool             { return b.selected }
func (b *base) SetSelected(selected bool)  { b.selected = selected }
func (b *base) ZOrder() int                { return b.zOrder }
func (b *base) SetZOrder(z int)            { b.zOrder = z }

func (b *base) AnnotationRef() (int64, bool) { return b.ref, b.hasRef }

func (b *base) SetAnnotationRef(ref int64) {
	b.ref = ref
	b.hasRef = true
}

func (b *base) encodeInto(s State) {
	s["page"] = b.page
	s["x"] = b.pos.X
	s["y"] = b.pos.Y
	s["z_order"] = b.zOrder
	if b.hasRef {
		s["annotation_ref"] = b.ref
	}
}

func (b *base) decodeFrom(s State) error {
	page, err := intValue(s, "page")
	if err != nil {
		return err
	}
	x, err := floatValue(s, "x")
	if err != nil {
		return err
	}
	y, err := floatValue(s, "y")
	if err != nil {
		return err
	}
	b.page = page
	b.pos = coords.Point{X: x, Y: y}
	if z, err := intValue(s, "z_order"); err == nil {
		b.zOrder = z
	}
	b.hasRef = false
	if ref, err := intValue(s, "annotation_ref"); err == nil {
		b.ref = int64(ref)
		b.hasRef = true
	}
	return nil
}

func intValue(s State, key string) (int, error) {
	switch v := s[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("state key %q missing or not a number", key)
}

func floatValue(s State, key string) (float64, error) {
	switch v := s[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("state key %q missing or not a number", key)
}

func stringValue(s State, key string) (string, error) {
	if v, ok := s[key].(string); ok {
		return v, nil
	}
	return "", fmt.Errorf("state key %q missing or not a string", key)
}

func boolValue(s State, key string) bool {
	v, _ := s[key].(bool)
	return v
}

func encodeColor(c Color) []float64 { return []float64{c.R, c.G, c.B} }

func decodeColor(s State, key string) (Color, bool) {
	switch v := s[key].(type) {
	case []float64:
		if len(v) == 3 {
			return Color{v[0], v[1], v[2]}, true
		}
	case []any:
		if len(v) == 3 {
			var out [3]float64
			for i, item := range v {
				f, ok := item.(float64)
				if !ok {
					return Color{}, false
				}
				out[i] = f
			}
			return Color{out[0], out[1], out[2]}, true
		}
	}
	return Color{}, false
}
