package engine

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/visual"
)

// Default configuration values.
const (
	DefaultTabWidth       = visual.DefaultTabWidth
	DefaultMaxUndoEntries = history.DefaultMaxEntries
)

// Logger receives diagnostic output from the engine.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabWidth sets the tab width used for visual columns.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithLineEnding sets the line ending used when exporting the content.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
		e.lineEndingSet = true
	}
}

// WithMaxUndoEntries caps the undo history; the oldest entries are dropped
// once it is exceeded. Zero, the default, keeps every entry.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max >= 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithCoalescing merges consecutively typed chars into one undo step.
func WithCoalescing(enabled bool) Option {
	return func(e *Engine) {
		e.coalesce = enabled
	}
}

// WithLogger sets the logger for undo/redo and line moves.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
