package overlay

import (
	"unicode/utf8"

	"github.com/wudi/pdfview/coords"
)

// Alignment is the horizontal alignment of a text object.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Defaults for new text objects.
const (
	DefaultFont     = "Helvetica"
	DefaultFontSize = 12.0
)

// textPadding is added on every side of the measured text extent so the
// bounding box remains grabbable for very short content.
const textPadding = 4.0

// Measurer computes the extent of a text run at a given size. The
// textshape package provides a shaping-backed implementation; when no
// measurer is set, a character-count heuristic is used.
type Measurer interface {
	Measure(text string, size float64) (w, h float64)
}

// TextObject is an editable text element overlaid on a page.
type TextObject struct {
	base

	content   string
	fontName  string
	fontSize  float64
	color     Color
	bold      bool
	italic    bool
	underline bool
	alignment Alignment

	measurer Measurer
}

// NewTextObject creates a text object anchored at pos on the given page.
func NewTextObject(page int, pos coords.Point, content string) *TextObject {
	t := &TextObject{
		content:   content,
		fontName:  DefaultFont,
		fontSize:  DefaultFontSize,
		color:     Black,
		alignment: AlignLeft,
	}
	t.page = page
	t.pos = pos
	return t
}

func (t *TextObject) Kind() Kind { return KindText }

func (t *TextObject) Content() string { return t.content }

func (t *TextObject) SetContent(content string) { t.content = content }

func (t *TextObject) FontName() string { return t.fontName }

func (t *TextObject) SetFontName(name string) { t.fontName = name }

func (t *TextObject) FontSize() float64 { return t.fontSize }

// SetFontSize sets the font size, clamped to a minimum of 1.
func (t *TextObject) SetFontSize(size float64) {
	if size < 1 {
		size = 1
	}
	t.fontSize = size
}

func (t *TextObject) Color() Color { return t.color }

func (t *TextObject) SetColor(c Color) { t.color = c }

func (t *TextObject) Bold() bool          { return t.bold }
func (t *TextObject) SetBold(v bool)      { t.bold = v }
func (t *TextObject) Italic() bool        { return t.italic }
func (t *TextObject) SetItalic(v bool)    { t.italic = v }
func (t *TextObject) Underline() bool     { return t.underline }
func (t *TextObject) SetUnderline(v bool) { t.underline = v }

func (t *TextObject) Alignment() Alignment { return t.alignment }

// SetAlignment sets the alignment. Unknown values are ignored.
func (t *TextObject) SetAlignment(a Alignment) {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		t.alignment = a
	}
}

// SetMeasurer installs a text measurer used for bounding boxes.
// Passing nil restores the built-in heuristic.
func (t *TextObject) SetMeasurer(m Measurer) { t.measurer = m }

// Bounds derives the bounding box from the measured text extent.
// The anchor is the top-left corner of the text.
func (t *TextObject) Bounds() coords.Rect {
	var w, h float64
	if t.measurer != nil {
		w, h = t.measurer.Measure(t.content, t.fontSize)
	} else {
		w, h = heuristicMeasure(t.content, t.fontSize)
	}
	return coords.Rect{
		Llx: t.pos.X - textPadding,
		Lly: t.pos.Y - textPadding,
		Urx: t.pos.X + w + textPadding,
		Ury: t.pos.Y + h + textPadding,
	}
}

func (t *TextObject) Contains(p coords.Point) bool { return t.Bounds().Contains(p) }

// heuristicMeasure approximates text extent from the rune count:
// 0.6em average advance, 1.2em line height. Accurate bounds come from
// the renderer; this only needs to be close enough for hit-testing.
func heuristicMeasure(text string, size float64) (w, h float64) {
	return float64(utf8.RuneCountInString(text)) * size * 0.6, size * 1.2
}

func (t *TextObject) Encode() State {
	s := State{
		"type":      string(KindText),
		"content":   t.content,
		"font_name": t.fontName,
		"font_size": t.fontSize,
		"color":     encodeColor(t.color),
		"bold":      t.bold,
		"italic":    t.italic,
		"underline": t.underline,
		"alignment": string(t.alignment),
	}
	t.encodeInto(s)
	return s
}

func (t *TextObject) Decode(s State) error {
	if err := t.decodeFrom(s); err != nil {
		return err
	}
	content, err := stringValue(s, "content")
	if err != nil {
		return err
	}
	t.content = content
	if name, err := stringValue(s, "font_name"); err == nil {
		t.fontName = name
	} else {
		t.fontName = DefaultFont
	}
	if size, err := floatValue(s, "font_size"); err == nil {
		t.SetFontSize(size)
	} else {
		t.fontSize = DefaultFontSize
	}
	if c, ok := decodeColor(s, "color"); ok {
		t.color = c
	} else {
		t.color = Black
	}
	t.bold = boolValue(s, "bold")
	t.italic = boolValue(s, "italic")
	t.underline = boolValue(s, "underline")
	t.alignment = AlignLeft
	if a, err := stringValue(s, "alignment"); err == nil {
		t.SetAlignment(Alignment(a))
	}
	return nil
}
