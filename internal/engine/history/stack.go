package history

import (
	"errors"
	"sync"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/rope"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is the default bound on the undo stack. Zero keeps
// every entry.
const DefaultMaxEntries = 0

// Option configures a Log.
type Option func(*Log)

// WithMaxEntries bounds the undo stack. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		l.maxEntries = max(n, 0)
	}
}

// WithCoalescing merges consecutive single-char inserts typed at adjacent
// positions into one action.
func WithCoalescing(enabled bool) Option {
	return func(l *Log) {
		l.coalesce = enabled
	}
}

// Log holds the undo and redo stacks of a document.
type Log struct {
	mu sync.Mutex

	undoStack []Action
	redoStack []Action

	maxEntries int
	coalesce   bool

	// sealed stops the next insert from merging into the top entry.
	sealed bool
}

// NewLog creates an empty action log.
func NewLog(opts ...Option) *Log {
	l := &Log{maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record adds a freshly performed action to the undo stack.
// Clears the redo stack.
func (l *Log) Record(a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.redoStack = nil

	if l.coalesce && !l.sealed && l.canMerge(a) {
		top := &l.undoStack[len(l.undoStack)-1]
		top.Text += a.Text
		top.Timestamp = a.Timestamp
		return
	}

	l.pushUndoLocked(a)
	l.sealed = false
}

// canMerge reports whether a continues the insert on top of the undo stack.
func (l *Log) canMerge(a Action) bool {
	if a.Kind != Insert || a.Text == "\n" || rope.CountChars(a.Text) != 1 {
		return false
	}
	if len(l.undoStack) == 0 {
		return false
	}
	top := l.undoStack[len(l.undoStack)-1]
	if top.Kind != Insert || top.Text == "" || top.Text[len(top.Text)-1] == '\n' {
		return false
	}
	return top.End() == a.Start
}

// Seal ends the current run of coalesced inserts.
func (l *Log) Seal() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sealed = true
}

func (l *Log) pushUndoLocked(a Action) {
	l.undoStack = append(l.undoStack, a)

	if l.maxEntries > 0 && len(l.undoStack) > l.maxEntries {
		excess := len(l.undoStack) - l.maxEntries
		l.undoStack = append([]Action(nil), l.undoStack[excess:]...)
	}
}

// PushUndo pushes an action onto the undo stack without touching redo.
func (l *Log) PushUndo(a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pushUndoLocked(a)
	l.sealed = true
}

// PushRedo pushes an action onto the redo stack.
func (l *Log) PushRedo(a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.redoStack = append(l.redoStack, a)
}

// PopUndo removes and returns the most recent undo action.
func (l *Log) PopUndo() (Action, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undoStack) == 0 {
		return Action{}, false
	}
	a := l.undoStack[len(l.undoStack)-1]
	l.undoStack = l.undoStack[:len(l.undoStack)-1]
	l.sealed = true
	return a, true
}

// PopRedo removes and returns the most recent redo action.
func (l *Log) PopRedo() (Action, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return Action{}, false
	}
	a := l.redoStack[len(l.redoStack)-1]
	l.redoStack = l.redoStack[:len(l.redoStack)-1]
	return a, true
}

// Undo reverts the most recent action on buf, moves it to the redo stack,
// and returns it with the cursor to restore.
func (l *Log) Undo(buf *buffer.Buffer) (Action, int, error) {
	a, ok := l.PopUndo()
	if !ok {
		return Action{}, 0, ErrNothingToUndo
	}
	cursor := a.Revert(buf)
	l.PushRedo(a)
	return a, cursor, nil
}

// Redo re-applies the most recently undone action on buf, moves it back to
// the undo stack, and returns it with the resulting cursor.
func (l *Log) Redo(buf *buffer.Buffer) (Action, int, error) {
	a, ok := l.PopRedo()
	if !ok {
		return Action{}, 0, ErrNothingToRedo
	}
	cursor := a.Apply(buf)
	l.PushUndo(a)
	return a, cursor, nil
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	return l.UndoLen() > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	return l.RedoLen() > 0
}

// UndoLen returns the number of undo actions available.
func (l *Log) UndoLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack)
}

// RedoLen returns the number of redo actions available.
func (l *Log) RedoLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack)
}

// PeekUndo returns the next undo action without removing it.
func (l *Log) PeekUndo() (Action, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undoStack) == 0 {
		return Action{}, false
	}
	return l.undoStack[len(l.undoStack)-1], true
}

// PeekRedo returns the next redo action without removing it.
func (l *Log) PeekRedo() (Action, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return Action{}, false
	}
	return l.redoStack[len(l.redoStack)-1], true
}

// Clear removes all undo/redo history.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.undoStack = nil
	l.redoStack = nil
	l.sealed = false
}

// UndoInfo returns info about available undo actions, oldest first.
func (l *Log) UndoInfo() []ActionInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]ActionInfo, len(l.undoStack))
	for i, a := range l.undoStack {
		result[i] = a.Info()
	}
	return result
}

// RedoInfo returns info about available redo actions, oldest first.
func (l *Log) RedoInfo() []ActionInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]ActionInfo, len(l.redoStack))
	for i, a := range l.redoStack {
		result[i] = a.Info()
	}
	return result
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (l *Log) SetMaxEntries(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maxEntries = max(n, 0)
	if l.maxEntries > 0 && len(l.undoStack) > l.maxEntries {
		excess := len(l.undoStack) - l.maxEntries
		l.undoStack = append([]Action(nil), l.undoStack[excess:]...)
	}
}

// MaxEntries returns the maximum number of undo entries.
func (l *Log) MaxEntries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxEntries
}
