// Package memdoc provides an in-memory engine.Engine implementation.
// It backs the test suite and examples, and serves as the reference for
// the behavior the core expects from a native PDF engine: stable
// annotation references, opaque page snapshots, and MovePage semantics
// where the page lands before the destination index.
package memdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"
	"unicode/utf8"

	"github.com/wudi/pdfview/coords"
	"github.com/wudi/pdfview/engine"
)

// Layout constants for the synthetic text geometry. One text line per
// Lines entry, top-down, 12pt metrics.
const (
	charWidth  = 7.2
	lineHeight = 14.4

	defaultPageWidth  = 595.0
	defaultPageHeight = 842.0
)

// ErrEmptyText is returned when an annotation with no content is added.
var ErrEmptyText = errors.New("memdoc: empty annotation text")

type annotation struct {
	Text  string
	Font  string
	Size  float64
	Color engine.Color
	Rect  coords.Rect
}

type shapeRec struct {
	Kind        string
	Rect        coords.Rect
	From, To    coords.Point
	Border      engine.Color
	BorderWidth float64
	Fill        *engine.Color
}

type page struct {
	Width, Height float64
	Lines         []string
	Annots        map[engine.Ref]annotation
	Shapes        []shapeRec
}

func blankPage() *page {
	return &page{
		Width:  defaultPageWidth,
		Height: defaultPageHeight,
		Annots: map[engine.Ref]annotation{},
	}
}

// Document is an in-memory PDF engine. Not safe for concurrent
// mutation; the owning context must serialize access, as with any
// engine implementation.
type Document struct {
	fixture int
	loaded  bool
	path    string
	pages   []*page
	nextRef engine.Ref
	meta    map[string]string

	// LoadErr, when set, makes the next LoadFile call fail.
	LoadErr error

	// SearchErr, when set, makes the next SearchTextInPage call fail.
	SearchErr error

	// RenderErr, when set, makes the next RenderPage call fail.
	RenderErr error
}

var _ engine.Engine = (*Document)(nil)

// New returns a loaded document with n blank pages. LoadFile resets the
// document back to n blank pages for any path.
func New(n int) *Document {
	d := &Document{fixture: n, meta: map[string]string{}}
	d.reset("")
	return d
}

func (d *Document) reset(path string) {
	d.pages = make([]*page, d.fixture)
	for i := range d.pages {
		d.pages[i] = blankPage()
	}
	d.nextRef = 1
	d.loaded = true
	d.path = path
}

func (d *Document) LoadFile(path string) error {
	if d.LoadErr != nil {
		err := d.LoadErr
		d.LoadErr = nil
		return err
	}
	d.reset(path)
	return nil
}

func (d *Document) Close() error {
	d.loaded = false
	d.path = ""
	d.pages = nil
	return nil
}

func (d *Document) IsLoaded() bool { return d.loaded }

func (d *Document) FilePath() string { return d.path }

func (d *Document) PageCount() int {
	if !d.loaded {
		return 0
	}
	return len(d.pages)
}

func (d *Document) page(i int) (*page, error) {
	if !d.loaded {
		return nil, engine.ErrNotLoaded
	}
	if i < 0 || i >= len(d.pages) {
		return nil, engine.ErrPageOutOfRange
	}
	return d.pages[i], nil
}

func (d *Document) PageSize(i int) (float64, float64, error) {
	p, err := d.page(i)
	if err != nil {
		return 0, 0, err
	}
	return p.Width, p.Height, nil
}

func (d *Document) RenderPage(i int, scale float64) (image.Image, error) {
	if d.RenderErr != nil {
		err := d.RenderErr
		d.RenderErr = nil
		return nil, err
	}
	p, err := d.page(i)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("memdoc: invalid scale %g", scale)
	}
	w := int(p.Width*scale + 0.5)
	h := int(p.Height*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img, nil
}

// SetPageSize overrides the dimensions of a page.
func (d *Document) SetPageSize(i int, width, height float64) error {
	p, err := d.page(i)
	if err != nil {
		return err
	}
	p.Width = width
	p.Height = height
	return nil
}

// SetPageText replaces the searchable text lines of a page. Line 0 sits
// at the top of the page.
func (d *Document) SetPageText(i int, lines ...string) error {
	p, err := d.page(i)
	if err != nil {
		return err
	}
	p.Lines = append([]string(nil), lines...)
	return nil
}

func (d *Document) SearchTextInPage(i int, query string, caseSensitive bool) ([]coords.Rect, error) {
	if d.SearchErr != nil {
		err := d.SearchErr
		d.SearchErr = nil
		return nil, err
	}
	p, err := d.page(i)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return nil, nil
	}
	needle := query
	if !caseSensitive {
		needle = strings.ToLower(query)
	}
	var out []coords.Rect
	for lineNo, line := range p.Lines {
		hay := line
		if !caseSensitive {
			hay = strings.ToLower(line)
		}
		offset := 0
		for {
			idx := strings.Index(hay[offset:], needle)
			if idx < 0 {
				break
			}
			start := offset + idx
			col := utf8.RuneCountInString(hay[:start])
			runes := utf8.RuneCountInString(needle)
			out = append(out, coords.Rect{
				Llx: float64(col) * charWidth,
				Lly: p.Height - float64(lineNo+1)*lineHeight,
				Urx: float64(col+runes) * charWidth,
				Ury: p.Height - float64(lineNo)*lineHeight,
			})
			offset = start + len(needle)
		}
	}
	return out, nil
}

// SetMetadata sets one information dictionary entry.
func (d *Document) SetMetadata(key, value string) {
	d.meta[key] = value
}

func (d *Document) Metadata() map[string]string {
	out := make(map[string]string, len(d.meta))
	for k, v := range d.meta {
		out[k] = v
	}
	return out
}

func (d *Document) AddTextAnnotation(i int, pos coords.Point, text, fontName string, fontSize float64, color engine.Color) (engine.Ref, error) {
	p, err := d.page(i)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, ErrEmptyText
	}
	if fontSize < 1 {
		fontSize = 1
	}
	ref := d.nextRef
	d.nextRef++
	w := float64(utf8.RuneCountInString(text)) * fontSize * 0.6
	p.Annots[ref] = annotation{
		Text:  text,
		Font:  fontName,
		Size:  fontSize,
		Color: color,
		Rect:  coords.Rect{Llx: pos.X, Lly: pos.Y, Urx: pos.X + w, Ury: pos.Y + fontSize*1.2},
	}
	return ref, nil
}

func (d *Document) DeleteAnnotation(i int, ref engine.Ref) error {
	p, err := d.page(i)
	if err != nil {
		return err
	}
	if _, ok := p.Annots[ref]; !ok {
		return engine.ErrAnnotationNotFound
	}
	delete(p.Annots, ref)
	return nil
}

// AnnotationCount reports the number of annotations on a page.
func (d *Document) AnnotationCount(i int) int {
	p, err := d.page(i)
	if err != nil {
		return 0
	}
	return len(p.Annots)
}

// HasAnnotation reports whether ref is present on the page.
func (d *Document) HasAnnotation(i int, ref engine.Ref) bool {
	p, err := d.page(i)
	if err != nil {
		return false
	}
	_, ok := p.Annots[ref]
	return ok
}

// ShapeCount reports the number of shapes drawn on a page.
func (d *Document) ShapeCount(i int) int {
	p, err := d.page(i)
	if err != nil {
		return 0
	}
	return len(p.Shapes)
}

func (d *Document) snapshotPage(p *page) ([]byte, error) {
	return json.Marshal(p)
}

func (d *Document) DeletePage(i int) ([]byte, error) {
	p, err := d.page(i)
	if err != nil {
		return nil, err
	}
	snap, err := d.snapshotPage(p)
	if err != nil {
		return nil, err
	}
	d.pages = append(d.pages[:i], d.pages[i+1:]...)
	return snap, nil
}

func (d *Document) RestorePage(i int, snapshot []byte) error {
	if !d.loaded {
		return engine.ErrNotLoaded
	}
	if i < 0 || i > len(d.pages) {
		return engine.ErrPageOutOfRange
	}
	p := blankPage()
	if err := json.Unmarshal(snapshot, p); err != nil {
		return fmt.Errorf("memdoc: bad page snapshot: %w", err)
	}
	if p.Annots == nil {
		p.Annots = map[engine.Ref]annotation{}
	}
	d.pages = append(d.pages, nil)
	copy(d.pages[i+1:], d.pages[i:])
	d.pages[i] = p
	return nil
}

func (d *Document) InsertBlankPage(pos int, width, height float64) error {
	if !d.loaded {
		return engine.ErrNotLoaded
	}
	if pos < 0 || pos > len(d.pages) {
		return engine.ErrPageOutOfRange
	}
	p := blankPage()
	if width > 0 {
		p.Width = width
	}
	if height > 0 {
		p.Height = height
	}
	d.pages = append(d.pages, nil)
	copy(d.pages[pos+1:], d.pages[pos:])
	d.pages[pos] = p
	return nil
}

// MovePage moves the page at from to sit before the page currently at
// index to, so moving forward lands the page at to-1.
func (d *Document) MovePage(from, to int) error {
	if !d.loaded {
		return engine.ErrNotLoaded
	}
	if from < 0 || from >= len(d.pages) || to < 0 || to > len(d.pages) {
		return engine.ErrPageOutOfRange
	}
	p := d.pages[from]
	d.pages = append(d.pages[:from], d.pages[from+1:]...)
	target := to
	if from < to {
		target = to - 1
	}
	d.pages = append(d.pages, nil)
	copy(d.pages[target+1:], d.pages[target:])
	d.pages[target] = p
	return nil
}

func (d *Document) PageSnapshot(i int) ([]byte, error) {
	p, err := d.page(i)
	if err != nil {
		return nil, err
	}
	return d.snapshotPage(p)
}

func (d *Document) RestorePageSnapshot(i int, snapshot []byte) error {
	if !d.loaded {
		return engine.ErrNotLoaded
	}
	if i < 0 || i >= len(d.pages) {
		return engine.ErrPageOutOfRange
	}
	p := blankPage()
	if err := json.Unmarshal(snapshot, p); err != nil {
		return fmt.Errorf("memdoc: bad page snapshot: %w", err)
	}
	if p.Annots == nil {
		p.Annots = map[engine.Ref]annotation{}
	}
	d.pages[i] = p
	return nil
}

func (d *Document) AddRectShape(i int, r coords.Rect, border engine.Color, borderWidth float64, fill *engine.Color) error {
	p, err := d.page(i)
	if err != nil {
		return err
	}
	p.Shapes = append(p.Shapes, shapeRec{Kind: "rectangle", Rect: r, Border: border, BorderWidth: borderWidth, Fill: fill})
	return nil
}

func (d *Document) AddEllipseShape(i int, center coords.Point, rx, ry float64, border engine.Color, borderWidth float64, fill *engine.Color) error {
	p, err := d.page(i)
	if err != nil {
		return err
	}
	r := coords.NewRect(center.X-rx, center.Y-ry, center.X+rx, center.Y+ry)
	p.Shapes = append(p.Shapes, shapeRec{Kind: "ellipse", Rect: r, Border: border, BorderWidth: borderWidth, Fill: fill})
	return nil
}

func (d *Document) AddLineShape(i int, from, to coords.Point, border engine.Color, borderWidth float64) error {
	p, err := d.page(i)
	if err != nil {
		return err
	}
	p.Shapes = append(p.Shapes, shapeRec{Kind: "line", From: from, To: to, Border: border, BorderWidth: borderWidth})
	return nil
}

// PageWidth returns the width of page i, or 0 when out of range. Tests
// use distinct widths to track pages across move/insert operations.
func (d *Document) PageWidth(i int) float64 {
	p, err := d.page(i)
	if err != nil {
		return 0
	}
	return p.Width
}
