// Package search runs text searches across a document, visiting pages
// outward from the current one and streaming results over an event
// channel.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wudi/pdfview/coords"
	"github.com/wudi/pdfview/engine"
	"github.com/wudi/pdfview/observability"
)

// ErrEmptyQuery is returned when a worker is built with no query text.
var ErrEmptyQuery = errors.New("search: empty query")

// PageOrder returns the page visit order for a search started on the
// current page: the current page first, then alternating outward
// (next, previous, next+1, ...), clipped to the document range. Every
// page in [0, total) appears exactly once.
func PageOrder(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if current < 0 {
		current = 0
	}
	if current >= total {
		current = total - 1
	}
	order := make([]int, 0, total)
	order = append(order, current)
	for offset := 1; len(order) < total; offset++ {
		if p := current + offset; p < total {
			order = append(order, p)
		}
		if p := current - offset; p >= 0 {
			order = append(order, p)
		}
	}
	return order
}

// EventType discriminates worker events.
type EventType int

const (
	EventProgress EventType = iota
	EventMatches
	EventDone
	EventFailed
	EventCancelled
)

// Event is a single message from a running search worker.
type Event interface {
	Type() EventType
}

// ProgressEvent reports how many pages have been scanned.
type ProgressEvent struct {
	Scanned int
	Total   int
}

func (ProgressEvent) Type() EventType { return EventProgress }

// MatchesEvent carries the matches found on one page. Emitted only for
// pages with at least one match.
type MatchesEvent struct {
	Page  int
	Rects []coords.Rect
}

func (MatchesEvent) Type() EventType { return EventMatches }

// DoneEvent signals a completed scan with the total match count.
type DoneEvent struct {
	TotalMatches int
}

func (DoneEvent) Type() EventType { return EventDone }

// FailedEvent signals that a page scan failed. The worker stops at the
// first failure; matches emitted before it remain valid.
type FailedEvent struct {
	Err error
}

func (FailedEvent) Type() EventType { return EventFailed }

// CancelledEvent signals the worker observed context cancellation.
type CancelledEvent struct{}

func (CancelledEvent) Type() EventType { return EventCancelled }

// Worker scans a document for a query string. Build one per search;
// a worker cannot be reused.
type Worker struct {
	eng           engine.Engine
	query         string
	caseSensitive bool
	currentPage   int
	logger        observability.Logger
}

// NewWorker prepares a search over eng starting at currentPage.
func NewWorker(eng engine.Engine, query string, caseSensitive bool, currentPage int) (*Worker, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	return &Worker{
		eng:           eng,
		query:         query,
		caseSensitive: caseSensitive,
		currentPage:   currentPage,
		logger:        observability.NopLogger{},
	}, nil
}

// SetLogger replaces the worker's logger. Must be called before Run.
func (w *Worker) SetLogger(l observability.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Run starts the scan on its own goroutine and returns the event
// channel. The channel is closed after a terminal event (Done, Failed
// or Cancelled). Cancellation is checked between pages, so a cancel
// never retracts matches already sent.
func (w *Worker) Run(ctx context.Context) <-chan Event {
	events := make(chan Event, 16)
	go w.run(ctx, events)
	return events
}

func (w *Worker) run(ctx context.Context, events chan<- Event) {
	defer close(events)

	total := w.eng.PageCount()
	order := PageOrder(w.currentPage, total)
	matches := 0
	for i, page := range order {
		select {
		case <-ctx.Done():
			w.logger.Debug("search cancelled",
				observability.Int("scanned", i),
				observability.String("query", w.query))
			trySend(events, CancelledEvent{})
			return
		default:
		}

		rects, err := w.eng.SearchTextInPage(page, w.query, w.caseSensitive)
		if err != nil {
			send(ctx, events, FailedEvent{Err: fmt.Errorf("search page %d: %w", page, err)})
			return
		}
		if len(rects) > 0 {
			matches += len(rects)
			if !send(ctx, events, MatchesEvent{Page: page, Rects: rects}) {
				return
			}
		}
		if !send(ctx, events, ProgressEvent{Scanned: i + 1, Total: total}) {
			return
		}
	}

	w.logger.Debug("search complete",
		observability.String("query", w.query),
		observability.Bool("case_sensitive", w.caseSensitive),
		observability.Int("matches", matches))
	send(ctx, events, DoneEvent{TotalMatches: matches})
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

// trySend delivers an event only if buffer space is free.
func trySend(events chan<- Event, ev Event) {
	select {
	case events <- ev:
	default:
	}
}
