// Package document ties the pieces of an editing session together: the
// rendering engine, the overlay store, the undo history and the page
// raster cache, plus dirty-state and view settings.
package document

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/wudi/pdfview/coords"
	"github.com/wudi/pdfview/engine"
	"github.com/wudi/pdfview/history"
	"github.com/wudi/pdfview/observability"
	"github.com/wudi/pdfview/overlay"
	"github.com/wudi/pdfview/render"
	"github.com/wudi/pdfview/scripting"
	"github.com/wudi/pdfview/search"
)

// Zoom limits, in percent.
const (
	MinZoom     = 25.0
	MaxZoom     = 400.0
	DefaultZoom = 100.0
)

var (
	// ErrNoScriptEngine is returned by RunScript when no scripting
	// engine was configured.
	ErrNoScriptEngine = errors.New("document: no script engine configured")

	// ErrInvalidRotation is returned for rotations that are not a
	// multiple of 90 degrees.
	ErrInvalidRotation = errors.New("document: rotation must be a multiple of 90 degrees")
)

// TextStyle bundles the visual attributes of a text annotation.
type TextStyle struct {
	FontName  string
	FontSize  float64
	Color     overlay.Color
	Bold      bool
	Italic    bool
	Underline bool
	Alignment overlay.Alignment
}

// Session is an open document with edit state. It owns the engine, the
// overlay store, the undo log and the raster cache and keeps them
// consistent across edits. A session is single-threaded; background
// workers communicate with it through their event channels.
type Session struct {
	eng     engine.Engine
	store   *overlay.Store
	log     *history.Log
	cache   *render.Cache
	logger  observability.Logger
	scripts scripting.Engine

	dirty         bool
	dirtyWatchers []func(bool)
	currentPage   int
	zoom          float64
	rotations     map[int]int

	// Overlay objects created by recorded actions, so undo and redo
	// can keep the store in sync with the engine.
	actionObjects map[history.Action]overlay.Object
}

// NewSession wraps an engine in a fresh session. The engine may
// already have a document open.
func NewSession(eng engine.Engine) *Session {
	return &Session{
		eng:           eng,
		store:         overlay.NewStore(),
		log:           history.NewLog(0),
		cache:         render.NewCache(0),
		logger:        observability.NopLogger{},
		zoom:          DefaultZoom,
		rotations:     make(map[int]int),
		actionObjects: make(map[history.Action]overlay.Object),
	}
}

// SetLogger replaces the session logger.
func (s *Session) SetLogger(l observability.Logger) {
	if l != nil {
		s.logger = l
	}
}

// SetScriptEngine installs the engine used by RunScript.
func (s *Session) SetScriptEngine(e scripting.Engine) { s.scripts = e }

// Engine returns the underlying rendering engine.
func (s *Session) Engine() engine.Engine { return s.eng }

// Store returns the overlay object store.
func (s *Session) Store() *overlay.Store { return s.store }

// History returns the undo log.
func (s *Session) History() *history.Log { return s.log }

// Open loads the file at path and resets all edit state: overlay
// objects, undo history, cached rasters, rotations and the dirty flag.
func (s *Session) Open(path string) error {
	if err := s.eng.LoadFile(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	s.reset()
	s.logger.Info("document opened",
		observability.String("path", path),
		observability.Int("pages", s.eng.PageCount()))
	return nil
}

// Close closes the engine and drops all edit state.
func (s *Session) Close() error {
	err := s.eng.Close()
	s.reset()
	return err
}

func (s *Session) reset() {
	s.store.Clear()
	s.log.Clear()
	s.cache.Clear()
	s.rotations = make(map[int]int)
	s.actionObjects = make(map[history.Action]overlay.Object)
	s.currentPage = 0
	s.setDirty(false)
}

// IsDirty reports whether the document has unsaved changes.
func (s *Session) IsDirty() bool { return s.dirty }

// MarkSaved clears the dirty flag after the host persists the
// document.
func (s *Session) MarkSaved() { s.setDirty(false) }

// OnDirtyChanged registers a callback fired when the dirty flag
// transitions. It is not fired for edits that leave the flag as-is.
func (s *Session) OnDirtyChanged(fn func(bool)) {
	if fn != nil {
		s.dirtyWatchers = append(s.dirtyWatchers, fn)
	}
}

func (s *Session) setDirty(dirty bool) {
	if s.dirty == dirty {
		return
	}
	s.dirty = dirty
	for _, fn := range s.dirtyWatchers {
		fn(dirty)
	}
}

// CurrentPage returns the page the view is on.
func (s *Session) CurrentPage() int { return s.currentPage }

// SetCurrentPage moves the view, clamped to the document range.
func (s *Session) SetCurrentPage(page int) {
	n := s.eng.PageCount()
	if page < 0 {
		page = 0
	}
	if n > 0 && page >= n {
		page = n - 1
	}
	s.currentPage = page
}

// Zoom returns the zoom level in percent.
func (s *Session) Zoom() float64 { return s.zoom }

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom], and
// returns the value actually applied. Changing zoom drops all cached
// rasters.
func (s *Session) SetZoom(percent float64) float64 {
	if percent < MinZoom {
		percent = MinZoom
	}
	if percent > MaxZoom {
		percent = MaxZoom
	}
	if percent != s.zoom {
		s.zoom = percent
		s.cache.Clear()
	}
	return s.zoom
}

// Rotation returns a page's rotation in degrees.
func (s *Session) Rotation(page int) int { return s.rotations[page] }

// SetRotation sets a page's rotation. Values are normalized into
// {0, 90, 180, 270}; anything not a multiple of 90 is rejected.
func (s *Session) SetRotation(page, degrees int) error {
	if degrees%90 != 0 {
		return ErrInvalidRotation
	}
	normalized := ((degrees % 360) + 360) % 360
	if s.rotations[page] == normalized {
		return nil
	}
	if normalized == 0 {
		delete(s.rotations, page)
	} else {
		s.rotations[page] = normalized
	}
	s.cache.InvalidatePage(page)
	return nil
}

// RotatePage rotates a page a quarter turn clockwise.
func (s *Session) RotatePage(page int) {
	// Always a multiple of 90, so SetRotation cannot fail.
	_ = s.SetRotation(page, s.rotations[page]+90)
}

// RenderPage renders a page at the session zoom and rotation,
// consulting the raster cache first.
func (s *Session) RenderPage(page int) (image.Image, error) {
	key := render.CacheKey{Page: page, Zoom: s.zoom, Rotation: s.rotations[page]}
	if img, ok := s.cache.Get(key); ok {
		return img, nil
	}
	img, err := s.eng.RenderPage(page, s.zoom/100)
	if err != nil {
		return nil, err
	}
	img = render.Rotate(img, key.Rotation)
	s.cache.Put(key, img)
	return img, nil
}

// AddText adds a text annotation: the engine commits it, an overlay
// object mirrors it for hit testing, and the action is recorded for
// undo.
func (s *Session) AddText(page int, pos coords.Point, text string, style TextStyle) (*overlay.TextObject, error) {
	if style.FontName == "" {
		style.FontName = overlay.DefaultFont
	}
	if style.FontSize <= 0 {
		style.FontSize = overlay.DefaultFontSize
	}
	action := history.NewAddTextAction(page, pos, text, style.FontName, style.FontSize,
		engine.Color{R: style.Color.R, G: style.Color.G, B: style.Color.B})
	if !action.Apply(s.eng) {
		return nil, fmt.Errorf("add text on page %d: engine rejected annotation", page)
	}

	obj := overlay.NewTextObject(page, pos, text)
	obj.SetFontName(style.FontName)
	obj.SetFontSize(style.FontSize)
	obj.SetColor(style.Color)
	obj.SetBold(style.Bold)
	obj.SetItalic(style.Italic)
	obj.SetUnderline(style.Underline)
	if style.Alignment != "" {
		obj.SetAlignment(style.Alignment)
	}
	if ref, ok := action.Ref(); ok {
		obj.SetAnnotationRef(int64(ref))
	}
	s.store.Add(obj)

	s.recordWithObject(action, obj)
	return obj, nil
}

// AddShape draws a shape on a page. The pre-draw page snapshot makes
// the action reversible.
func (s *Session) AddShape(spec history.ShapeSpec) (*overlay.ShapeObject, error) {
	snapshot, err := s.eng.PageSnapshot(spec.Page)
	if err != nil {
		return nil, fmt.Errorf("snapshot page %d: %w", spec.Page, err)
	}
	action := history.NewAddShapeAction(spec, snapshot)
	if !action.Apply(s.eng) {
		return nil, fmt.Errorf("add %s on page %d: engine rejected shape", spec.Kind, spec.Page)
	}

	var obj *overlay.ShapeObject
	if spec.Kind == overlay.ShapeLine {
		obj = overlay.NewShapeObject(spec.Page, spec.Kind, spec.From, spec.To)
	} else {
		obj = overlay.NewShapeObject(spec.Page, spec.Kind,
			coords.Point{X: spec.Bounds.Llx, Y: spec.Bounds.Lly},
			coords.Point{X: spec.Bounds.Urx, Y: spec.Bounds.Ury})
	}
	obj.SetBorderColor(overlay.Color{R: spec.Border.R, G: spec.Border.G, B: spec.Border.B})
	obj.SetBorderWidth(spec.BorderWidth)
	if spec.Fill != nil {
		obj.SetFill(overlay.Color{R: spec.Fill.R, G: spec.Fill.G, B: spec.Fill.B})
	}
	s.store.Add(obj)

	s.recordWithObject(action, obj)
	s.cache.InvalidatePage(spec.Page)
	return obj, nil
}

// DeletePage removes a page. Overlay objects on it are dropped and
// objects on later pages shift down.
func (s *Session) DeletePage(page int) error {
	action := history.NewDeletePageAction(page)
	if !action.Apply(s.eng) {
		return fmt.Errorf("delete page %d: engine rejected", page)
	}
	for _, obj := range s.store.ByPage(page) {
		s.store.Remove(obj)
	}
	s.shiftOverlayPages(page+1, -1)
	s.afterPageStructureChange(action)
	return nil
}

// InsertBlankPage inserts an empty page before pos.
func (s *Session) InsertBlankPage(pos int, width, height float64) error {
	action := history.NewInsertPageAction(pos, width, height)
	if !action.Apply(s.eng) {
		return fmt.Errorf("insert page at %d: engine rejected", pos)
	}
	s.shiftOverlayPages(pos, 1)
	s.afterPageStructureChange(action)
	return nil
}

// MovePage moves a page so it lands before the destination index.
func (s *Session) MovePage(from, to int) error {
	action := history.NewMovePageAction(from, to)
	if !action.Apply(s.eng) {
		return fmt.Errorf("move page %d to %d: engine rejected", from, to)
	}
	s.remapOverlayMove(from, action.Page())
	s.afterPageStructureChange(action)
	return nil
}

func (s *Session) afterPageStructureChange(action history.Action) {
	s.log.Record(action)
	s.cache.Clear()
	s.setDirty(true)
	s.SetCurrentPage(s.currentPage)
}

func (s *Session) recordWithObject(action history.Action, obj overlay.Object) {
	s.log.Record(action)
	s.actionObjects[action] = obj
	s.setDirty(true)
}

// shiftOverlayPages renumbers overlay objects on pages >= fromPage.
func (s *Session) shiftOverlayPages(fromPage, delta int) {
	for _, obj := range s.store.All() {
		if obj.Page() >= fromPage {
			obj.SetPage(obj.Page() + delta)
		}
	}
}

// remapOverlayMove renumbers overlay objects after a page moved from
// one index to another.
func (s *Session) remapOverlayMove(from, to int) {
	for _, obj := range s.store.All() {
		p := obj.Page()
		switch {
		case p == from:
			obj.SetPage(to)
		case from < to && p > from && p <= to:
			obj.SetPage(p - 1)
		case from > to && p >= to && p < from:
			obj.SetPage(p + 1)
		}
	}
}

// Undo reverts the most recent action, returning the affected page.
func (s *Session) Undo() (int, bool) {
	pending := s.log.UndoActions()
	page, ok := s.log.Undo(s.eng)
	if !ok {
		return 0, false
	}
	s.remapOverlayUndo(pending[len(pending)-1])
	s.syncOverlayAfterHistory()
	s.cache.Clear()
	s.setDirty(true)
	s.SetCurrentPage(s.currentPage)
	return page, true
}

// Redo re-applies the most recently undone action.
func (s *Session) Redo() (int, bool) {
	pending := s.log.RedoActions()
	page, ok := s.log.Redo(s.eng)
	if !ok {
		return 0, false
	}
	s.remapOverlayRedo(pending[len(pending)-1])
	s.syncOverlayAfterHistory()
	s.cache.Clear()
	s.setDirty(true)
	s.SetCurrentPage(s.currentPage)
	return page, true
}

// remapOverlayUndo renumbers overlay pages to follow the inverse of a
// page-structure action. Content actions need no remapping.
func (s *Session) remapOverlayUndo(action history.Action) {
	switch a := action.(type) {
	case *history.DeletePageAction:
		// The page came back; later pages shift up.
		s.shiftOverlayPages(a.Page(), 1)
	case *history.InsertPageAction:
		// The blank page went away again.
		s.shiftOverlayPages(a.Page()+1, -1)
	case *history.MovePageAction:
		s.remapOverlayMove(a.Page(), a.From())
	}
}

// remapOverlayRedo renumbers overlay pages to follow a re-applied
// page-structure action.
func (s *Session) remapOverlayRedo(action history.Action) {
	switch a := action.(type) {
	case *history.DeletePageAction:
		for _, obj := range s.store.ByPage(a.Page()) {
			s.store.Remove(obj)
		}
		s.shiftOverlayPages(a.Page()+1, -1)
	case *history.InsertPageAction:
		s.shiftOverlayPages(a.Page(), 1)
	case *history.MovePageAction:
		s.remapOverlayMove(a.From(), a.Page())
	}
}

// syncOverlayAfterHistory reconciles overlay objects created by
// recorded actions with the history stacks: objects whose action sits
// on the redo stack are hidden, objects whose action is back on the
// undo stack are restored. Actions on neither stack were evicted or
// cleared; their effect is permanent and the mapping is dropped.
func (s *Session) syncOverlayAfterHistory() {
	undone := make(map[history.Action]bool)
	for _, a := range s.log.RedoActions() {
		undone[a] = true
	}
	applied := make(map[history.Action]bool)
	for _, a := range s.log.UndoActions() {
		applied[a] = true
	}
	for action, obj := range s.actionObjects {
		switch {
		case undone[action]:
			s.store.Remove(obj)
		case applied[action]:
			if !s.store.Contains(obj) {
				s.store.Add(obj)
			}
			// Redo assigns a fresh annotation reference.
			if ta, ok := action.(*history.AddTextAction); ok {
				if ref, ok := ta.Ref(); ok {
					obj.SetAnnotationRef(int64(ref))
				}
			}
		default:
			delete(s.actionObjects, action)
		}
	}
}

// Search starts a background text search from the current page.
func (s *Session) Search(ctx context.Context, query string, caseSensitive bool) (<-chan search.Event, error) {
	w, err := search.NewWorker(s.eng, query, caseSensitive, s.currentPage)
	if err != nil {
		return nil, err
	}
	w.SetLogger(s.logger)
	return w.Run(ctx), nil
}

// RunScript executes document-level JavaScript against this session.
func (s *Session) RunScript(ctx context.Context, source string) (interface{}, error) {
	if s.scripts == nil {
		return nil, ErrNoScriptEngine
	}
	if err := s.scripts.RegisterDoc(sessionDocAPI{s}); err != nil {
		return nil, err
	}
	return s.scripts.Execute(ctx, source)
}

// sessionDocAPI adapts a session to the scripting surface.
type sessionDocAPI struct {
	s *Session
}

func (d sessionDocAPI) PageCount() int { return d.s.eng.PageCount() }

func (d sessionDocAPI) GetPage(index int) (scripting.PageInfo, error) {
	w, h, err := d.s.eng.PageSize(index)
	if err != nil {
		return scripting.PageInfo{}, err
	}
	return scripting.PageInfo{Index: index, Width: w, Height: h}, nil
}

func (d sessionDocAPI) Alert(message string) {
	d.s.logger.Info("script alert", observability.String("message", message))
}
