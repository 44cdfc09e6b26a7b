// Package engine defines the contract between the viewer core and the
// native PDF engine that owns parsing, rendering and document mutation.
// The core never touches PDF syntax itself; every document operation
// goes through this interface, and persistence of the edited document
// is the engine's native save path.
package engine

import (
	"errors"
	"image"

	"github.com/wudi/pdfview/coords"
)

// Ref is an opaque handle to an annotation committed to the document
// (typically the engine's cross-reference number).
type Ref int64

// Color is an RGB color with components in [0, 1], the range native
// PDF engines expect.
type Color struct {
	R, G, B float64
}

// Sentinel errors engines are expected to return for the conditions the
// core distinguishes. Everything else is an engine-specific failure.
var (
	ErrNotLoaded          = errors.New("engine: no document loaded")
	ErrPageOutOfRange     = errors.New("engine: page out of range")
	ErrAnnotationNotFound = errors.New("engine: annotation not found")
)

// Engine is the backend abstraction supplied by an external PDF engine.
//
// Implementations are required to return within bounded time; the core
// never retries a failed call. Expected failures (missing annotation,
// bad page index) use the sentinel errors above.
type Engine interface {
	// LoadFile opens the document at path, replacing any loaded one.
	LoadFile(path string) error

	// Close releases the loaded document. Closing an engine with no
	// document is a no-op.
	Close() error

	IsLoaded() bool

	// FilePath returns the path of the loaded document, or "".
	FilePath() string

	// PageCount returns the number of pages, 0 when nothing is loaded.
	PageCount() int

	// PageSize returns the page dimensions in points.
	PageSize(page int) (w, h float64, err error)

	// RenderPage rasterizes a page at the given scale (1.0 = 72 dpi).
	RenderPage(page int, scale float64) (image.Image, error)

	// SearchTextInPage returns the match rectangles for query on one
	// page. No matches is a nil slice, not an error.
	SearchTextInPage(page int, query string, caseSensitive bool) ([]coords.Rect, error)

	// Metadata returns the document information dictionary.
	Metadata() map[string]string

	// AddTextAnnotation commits a free-text annotation and returns its
	// reference.
	AddTextAnnotation(page int, pos coords.Point, text, fontName string, fontSize float64, color Color) (Ref, error)

	// DeleteAnnotation removes a previously committed annotation.
	DeleteAnnotation(page int, ref Ref) error

	// DeletePage removes a page and returns an opaque snapshot that
	// RestorePage accepts to bring it back at the same index.
	DeletePage(page int) (snapshot []byte, err error)
	RestorePage(page int, snapshot []byte) error

	// InsertBlankPage inserts an empty page of the given size before
	// index pos (pos == PageCount appends).
	InsertBlankPage(pos int, width, height float64) error

	// MovePage moves the page at from to sit before the page currently
	// at to. Moving forward therefore lands the page at to-1.
	MovePage(from, to int) error

	// PageSnapshot captures a page in place; RestorePageSnapshot
	// rewinds the page to a captured state.
	PageSnapshot(page int) ([]byte, error)
	RestorePageSnapshot(page int, snapshot []byte) error

	// Shape drawing primitives, matching the overlay shape variants.
	AddRectShape(page int, r coords.Rect, border Color, borderWidth float64, fill *Color) error
	AddEllipseShape(page int, center coords.Point, rx, ry float64, border Color, borderWidth float64, fill *Color) error
	AddLineShape(page int, from, to coords.Point, border Color, borderWidth float64) error
}
