package document

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrFileNotFound is reported when the path does not exist.
	ErrFileNotFound = errors.New("document: file not found")

	// ErrEmptyDocument is reported when a file opens with no pages.
	ErrEmptyDocument = errors.New("document: no pages")
)

// LoadEventType discriminates load events.
type LoadEventType int

const (
	LoadEventProgress LoadEventType = iota
	LoadEventDone
	LoadEventFailed
)

// LoadEvent is a message from an asynchronous load.
type LoadEvent interface {
	Type() LoadEventType
}

// LoadProgress reports load progress as a percentage.
type LoadProgress struct {
	Percent int
}

func (LoadProgress) Type() LoadEventType { return LoadEventProgress }

// LoadDone signals a successful load.
type LoadDone struct {
	Pages int
}

func (LoadDone) Type() LoadEventType { return LoadEventDone }

// LoadFailed signals an aborted load. The session is left closed.
type LoadFailed struct {
	Err error
}

func (LoadFailed) Type() LoadEventType { return LoadEventFailed }

// Load opens path into the session on its own goroutine, emitting
// staged progress. A load validates three things before reporting
// success: the file exists, the document has pages, and the first page
// renders. The channel closes after the terminal event.
func (s *Session) Load(ctx context.Context, path string) <-chan LoadEvent {
	events := make(chan LoadEvent, 8)
	go s.load(ctx, path, events)
	return events
}

func (s *Session) load(ctx context.Context, path string, events chan<- LoadEvent) {
	defer close(events)

	// send delivers an event unless the context is cancelled first, so
	// an abandoned consumer never strands this goroutine.
	send := func(ev LoadEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		_ = s.eng.Close()
		s.reset()
		send(LoadFailed{Err: err})
	}

	if ctx.Err() != nil {
		return
	}
	if _, err := os.Stat(path); err != nil {
		send(LoadFailed{Err: fmt.Errorf("%w: %s", ErrFileNotFound, path)})
		return
	}
	if !send(LoadProgress{Percent: 10}) {
		return
	}

	if err := s.Open(path); err != nil {
		send(LoadFailed{Err: err})
		return
	}
	if !send(LoadProgress{Percent: 30}) {
		_ = s.Close()
		return
	}

	if ctx.Err() != nil {
		_ = s.Close()
		return
	}
	pages := s.eng.PageCount()
	if pages == 0 {
		fail(fmt.Errorf("%w: %s", ErrEmptyDocument, path))
		return
	}
	if !send(LoadProgress{Percent: 60}) {
		_ = s.Close()
		return
	}

	// Pre-render the first page so a corrupt document fails the load
	// instead of the first paint.
	if _, err := s.RenderPage(0); err != nil {
		fail(fmt.Errorf("render first page: %w", err))
		return
	}
	if !send(LoadProgress{Percent: 80}) {
		_ = s.Close()
		return
	}

	if !send(LoadProgress{Percent: 100}) {
		_ = s.Close()
		return
	}
	send(LoadDone{Pages: pages})
}
