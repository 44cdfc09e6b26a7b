// Package scripting runs document-level JavaScript against an open
// viewer session.
package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script in the context of the document.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterDoc exposes the viewer document to scripts.
	RegisterDoc(doc DocAPI) error
}

// DocAPI is the safe, controlled surface scripts may call. The viewer
// session implements it; scripts never reach the engine directly.
type DocAPI interface {
	// PageCount returns the number of pages in the open document.
	PageCount() int

	// GetPage returns a page by index (0-based).
	GetPage(index int) (PageInfo, error)

	// Alert shows an alert dialog (if supported by the host).
	Alert(message string)
}

// PageInfo describes one page to a script.
type PageInfo struct {
	Index  int
	Width  float64
	Height float64
}
