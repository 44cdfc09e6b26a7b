package render

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/wudi/pdfview/engine"
	"github.com/wudi/pdfview/observability"
)

const (
	// DefaultBatchSize is how many thumbnails are rendered between
	// cancellation checks.
	DefaultBatchSize = 10
	// DefaultThumbnailDim is the bounding box edge, in pixels, that
	// thumbnails are downscaled into.
	DefaultThumbnailDim = 150
	// thumbnailRenderScale is the scale pages are rasterized at
	// before downsampling.
	thumbnailRenderScale = 0.5
)

// EventType discriminates render worker events.
type EventType int

const (
	EventThumbnail EventType = iota
	EventPage
	EventProgress
	EventDone
	EventFailed
)

// Event is a message from a running render worker.
type Event interface {
	Type() EventType
}

// ThumbnailEvent carries one finished thumbnail.
type ThumbnailEvent struct {
	Page  int
	Image image.Image
}

func (ThumbnailEvent) Type() EventType { return EventThumbnail }

// PageEvent carries one page rendered at full target zoom.
type PageEvent struct {
	Page  int
	Image image.Image
}

func (PageEvent) Type() EventType { return EventPage }

// ProgressEvent reports completion as both a page count and a
// percentage.
type ProgressEvent struct {
	Done    int
	Total   int
	Percent int
}

func (ProgressEvent) Type() EventType { return EventProgress }

// DoneEvent signals a completed run with the number of pages rendered.
type DoneEvent struct {
	Rendered int
}

func (DoneEvent) Type() EventType { return EventDone }

// FailedEvent signals a terminal failure.
type FailedEvent struct {
	Err error
}

func (FailedEvent) Type() EventType { return EventFailed }

// ThumbnailWorker renders every page into a small bounding box.
// Pages that fail to render are skipped; cancellation is observed at
// batch boundaries. The event channel closes after Done or Failed, or
// silently on cancellation.
type ThumbnailWorker struct {
	eng       engine.Engine
	maxDim    int
	batchSize int
	logger    observability.Logger
}

// NewThumbnailWorker prepares a thumbnail run over eng. maxDim bounds
// the longer thumbnail edge; non-positive values use
// DefaultThumbnailDim.
func NewThumbnailWorker(eng engine.Engine, maxDim int) *ThumbnailWorker {
	if maxDim <= 0 {
		maxDim = DefaultThumbnailDim
	}
	return &ThumbnailWorker{
		eng:       eng,
		maxDim:    maxDim,
		batchSize: DefaultBatchSize,
		logger:    observability.NopLogger{},
	}
}

// SetLogger replaces the worker's logger. Must be called before Run.
func (w *ThumbnailWorker) SetLogger(l observability.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Run starts the render on its own goroutine and returns the event
// channel.
func (w *ThumbnailWorker) Run(ctx context.Context) <-chan Event {
	events := make(chan Event, w.batchSize*2)
	go w.run(ctx, events)
	return events
}

func (w *ThumbnailWorker) run(ctx context.Context, events chan<- Event) {
	defer close(events)

	total := w.eng.PageCount()
	rendered := 0
	for batch := 0; batch < total; batch += w.batchSize {
		select {
		case <-ctx.Done():
			w.logger.Debug("thumbnail run cancelled",
				observability.Int("rendered", rendered))
			return
		default:
		}
		end := batch + w.batchSize
		if end > total {
			end = total
		}
		for page := batch; page < end; page++ {
			raster, err := w.eng.RenderPage(page, thumbnailRenderScale)
			if err != nil {
				w.logger.Warn("thumbnail render skipped",
					observability.Int("page", page),
					observability.Error("err", err))
				continue
			}
			if !send(ctx, events, ThumbnailEvent{Page: page, Image: Downscale(raster, w.maxDim)}) {
				return
			}
			rendered++
			if !send(ctx, events, ProgressEvent{
				Done:    page + 1,
				Total:   total,
				Percent: percent(page+1, total),
			}) {
				return
			}
		}
	}
	send(ctx, events, DoneEvent{Rendered: rendered})
}

// send delivers an event unless the context is cancelled first. A
// worker must never block forever on a consumer that walked away.
func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Downscale fits src into a maxDim square, preserving aspect ratio.
// Images already inside the box are returned unchanged.
func Downscale(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}
	var dw, dh int
	if w >= h {
		dw = maxDim
		dh = h * maxDim / w
	} else {
		dh = maxDim
		dw = w * maxDim / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// ZoomWorker re-renders every page at a new zoom factor for
// progressive display. Unlike thumbnails, a single failed page aborts
// the whole run.
type ZoomWorker struct {
	eng    engine.Engine
	zoom   float64
	logger observability.Logger
}

// NewZoomWorker prepares a re-render of eng at the given zoom factor
// (1.0 = 100%).
func NewZoomWorker(eng engine.Engine, zoom float64) *ZoomWorker {
	return &ZoomWorker{eng: eng, zoom: zoom, logger: observability.NopLogger{}}
}

// SetLogger replaces the worker's logger. Must be called before Run.
func (w *ZoomWorker) SetLogger(l observability.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Run starts the render on its own goroutine and returns the event
// channel. Cancellation is checked before each page.
func (w *ZoomWorker) Run(ctx context.Context) <-chan Event {
	events := make(chan Event, 8)
	go w.run(ctx, events)
	return events
}

func (w *ZoomWorker) run(ctx context.Context, events chan<- Event) {
	defer close(events)

	total := w.eng.PageCount()
	for page := 0; page < total; page++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		raster, err := w.eng.RenderPage(page, w.zoom)
		if err != nil {
			send(ctx, events, FailedEvent{Err: fmt.Errorf("render page %d at zoom %.2f: %w", page, w.zoom, err)})
			return
		}
		if !send(ctx, events, PageEvent{Page: page, Image: raster}) {
			return
		}
		if !send(ctx, events, ProgressEvent{
			Done:    page + 1,
			Total:   total,
			Percent: percent(page+1, total),
		}) {
			return
		}
	}
	if send(ctx, events, DoneEvent{Rendered: total}) {
		w.logger.Debug("zoom render finished",
			observability.Float64("zoom", w.zoom),
			observability.Int("pages", total))
	}
}

func percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}
