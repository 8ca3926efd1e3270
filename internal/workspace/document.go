// Package workspace tracks the open documents of an editing session and
// which one is active.
package workspace

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/engine"
)

// Document is an open text document with its editing engine.
type Document struct {
	// ID identifies the document for the lifetime of the workspace.
	ID uuid.UUID

	// Name is the display name: the file name, or "Untitled-N".
	Name string

	// Path is the absolute file path (empty for scratch documents).
	Path string

	// Engine is the text buffer and editing engine.
	Engine *engine.Engine

	savedRevision uint64
}

// State is the restorable view state of a document with a path.
type State struct {
	Path       string
	CursorLine int
	CursorCol  int
}

func newDocument(name, path string, eng *engine.Engine) *Document {
	return &Document{
		ID:            uuid.New(),
		Name:          name,
		Path:          path,
		Engine:        eng,
		savedRevision: eng.Revision(),
	}
}

// IsScratch returns true if the document has never been saved to a path.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Content returns the full document content.
func (d *Document) Content() string {
	return d.Engine.Text()
}

// IsModified returns true if the content changed since it was loaded or
// last saved.
func (d *Document) IsModified() bool {
	return d.Engine.Revision() != d.savedRevision
}

// MarkSaved records the current content as saved.
func (d *Document) MarkSaved() {
	d.savedRevision = d.Engine.Revision()
}

// setPath updates the path and derives the name from it.
func (d *Document) setPath(path string) {
	d.Path = path
	d.Name = filepath.Base(path)
}

// Copy returns the selected text. ok is false without a selection.
func (d *Document) Copy() (text string, ok bool) {
	text = d.Engine.SelectedText()
	return text, text != ""
}

// Cut removes and returns the selected text.
func (d *Document) Cut() (text string, ok bool) {
	text = d.Engine.Cut()
	return text, text != ""
}

// Paste inserts text at the cursor, replacing the selection.
// It returns false and does nothing for empty text.
func (d *Document) Paste(text string) bool {
	if text == "" {
		return false
	}
	d.Engine.Paste(text)
	return true
}

// SelectionLineCol returns both ends of the selection as line/column points.
func (d *Document) SelectionLineCol() (start, end engine.Point, ok bool) {
	s, e, ok := d.Engine.SelectionRange()
	if !ok {
		return engine.Point{}, engine.Point{}, false
	}
	start.Line, start.Column = d.Engine.CharToLineCol(s)
	end.Line, end.Column = d.Engine.CharToLineCol(e)
	return start, end, true
}

// CursorLineCol returns the cursor as a line and char column.
func (d *Document) CursorLineCol() (line, col int) {
	return d.Engine.CharToLineCol(d.Engine.Cursor())
}

// ExportState captures the cursor position. Scratch documents have no
// restorable state.
func (d *Document) ExportState() (State, bool) {
	if d.IsScratch() {
		return State{}, false
	}
	line, col := d.CursorLineCol()
	return State{Path: d.Path, CursorLine: line, CursorCol: col}, true
}

// ApplyState restores a cursor position, clamped to the current content.
func (d *Document) ApplyState(s State) {
	d.Engine.SetCursorLineCol(s.CursorLine, s.CursorCol, false)
}
