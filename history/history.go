// Package history provides the bounded undo/redo log for document
// edits. Edits are recorded as reversible actions and replayed against
// the engine; the log itself knows nothing about the payload of an
// action beyond how to run it in either direction.
//
// The log is created per open document, cleared on close, and never
// persisted. It is single-threaded by design: the owning document
// context must serialize all access (see the concurrency notes on
// overlay.Store).
package history

import "github.com/wudi/pdfview/engine"

// Action is one reversible edit. Apply runs the edit forward, Revert
// runs its inverse; both report success. A failed replay must leave the
// engine in the state it found it, as far as the action can guarantee.
type Action interface {
	Apply(eng engine.Engine) bool
	Revert(eng engine.Engine) bool

	// Description is a short human-readable label, e.g. for menu items
	// ("Undo Add text ...").
	Description() string

	// Page returns the page index the action affects, used to move the
	// view there after undo/redo.
	Page() int
}

// DefaultMaxDepth is the undo depth used when NewLog is given a
// non-positive limit.
const DefaultMaxDepth = 50

// Log holds the undo and redo stacks, newest entries last.
//
// Recording a new action always clears the redo stack: redo history
// does not survive a new edit, even though the discarded actions might
// still be replayable. This mirrors the behavior users expect from
// linear undo.
type Log struct {
	undo     []Action
	redo     []Action
	maxDepth int

	undoWatchers []func(bool)
	redoWatchers []func(bool)
}

// NewLog returns a log retaining at most maxDepth undo entries.
// Non-positive values select DefaultMaxDepth.
func NewLog(maxDepth int) *Log {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Log{maxDepth: maxDepth}
}

// OnUndoAvailable registers a callback fired whenever the availability
// of undo transitions. Callbacks only fire on actual transitions, never
// repeatedly for the same state.
func (l *Log) OnUndoAvailable(fn func(bool)) {
	l.undoWatchers = append(l.undoWatchers, fn)
}

// OnRedoAvailable registers a callback for redo availability
// transitions.
func (l *Log) OnRedoAvailable(fn func(bool)) {
	l.redoWatchers = append(l.redoWatchers, fn)
}

func (l *Log) notifyUndo(available bool) {
	for _, fn := range l.undoWatchers {
		fn(available)
	}
}

func (l *Log) notifyRedo(available bool) {
	for _, fn := range l.redoWatchers {
		fn(available)
	}
}

// Record appends an action that the caller has already applied once in
// the forward direction. The oldest entry is evicted silently when the
// depth cap is exceeded, and the redo stack is cleared unconditionally.
func (l *Log) Record(action Action) {
	wasEmpty := len(l.undo) == 0

	l.undo = append(l.undo, action)
	if len(l.undo) > l.maxDepth {
		l.undo = l.undo[1:]
	}

	hadRedo := len(l.redo) > 0
	l.redo = nil

	if wasEmpty {
		l.notifyUndo(true)
	}
	if hadRedo {
		l.notifyRedo(false)
	}
}

// Undo reverts the most recent action. It returns the affected page and
// true on success. When the stack is empty or the replay fails it
// returns (0, false); on failure both stacks are exactly as before the
// call.
func (l *Log) Undo(eng engine.Engine) (int, bool) {
	if !l.CanUndo() {
		return 0, false
	}
	action := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]

	if !action.Revert(eng) {
		l.undo = append(l.undo, action)
		return 0, false
	}

	l.redo = append(l.redo, action)
	if len(l.undo) == 0 {
		l.notifyUndo(false)
	}
	if len(l.redo) == 1 {
		l.notifyRedo(true)
	}
	return action.Page(), true
}

// Redo re-applies the most recently undone action, symmetric to Undo.
func (l *Log) Redo(eng engine.Engine) (int, bool) {
	if !l.CanRedo() {
		return 0, false
	}
	action := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]

	if !action.Apply(eng) {
		l.redo = append(l.redo, action)
		return 0, false
	}

	l.undo = append(l.undo, action)
	if len(l.redo) == 0 {
		l.notifyRedo(false)
	}
	if len(l.undo) == 1 {
		l.notifyUndo(true)
	}
	return action.Page(), true
}

// CanUndo reports whether an undo entry exists.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether a redo entry exists.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// UndoActions returns the undo stack, oldest first. The slice is a
// copy; the actions are shared.
func (l *Log) UndoActions() []Action {
	return append([]Action(nil), l.undo...)
}

// RedoActions returns the redo stack, oldest first. The slice is a
// copy; the actions are shared.
func (l *Log) RedoActions() []Action {
	return append([]Action(nil), l.redo...)
}

// Clear drops both stacks, firing availability callbacks only for the
// transitions that actually happen.
func (l *Log) Clear() {
	hadUndo := l.CanUndo()
	hadRedo := l.CanRedo()
	l.undo = nil
	l.redo = nil
	if hadUndo {
		l.notifyUndo(false)
	}
	if hadRedo {
		l.notifyRedo(false)
	}
}

// UndoDescription peeks at the action Undo would revert.
func (l *Log) UndoDescription() (string, bool) {
	if !l.CanUndo() {
		return "", false
	}
	return l.undo[len(l.undo)-1].Description(), true
}

// RedoDescription peeks at the action Redo would re-apply.
func (l *Log) RedoDescription() (string, bool) {
	if !l.CanRedo() {
		return "", false
	}
	return l.redo[len(l.redo)-1].Description(), true
}
