package engine

import (
	"fmt"
	"io"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/rope"
	"github.com/dshills/quill/internal/engine/textclass"
	"github.com/dshills/quill/internal/engine/visual"
)

// Re-export commonly used types for convenience.
type (
	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a char range in the buffer.
	Range = buffer.Range

	// Selection is the cursor plus an optional anchor.
	Selection = cursor.Selection

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// Action is a recorded edit.
	Action = history.Action
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Engine is an editable text document: a rope-backed buffer, a cursor with
// an optional selection anchor, and an undo/redo log.
//
// Every operation is total. Offsets, lines and columns are clamped, and undo
// or redo with nothing to do is a no-op. An Engine is owned by a single
// goroutine; callers serialize access.
type Engine struct {
	// Core components
	buf *buffer.Buffer
	sel cursor.Selection
	log *history.Log

	// Configuration
	tabWidth       int
	lineEnding     buffer.LineEnding
	lineEndingSet  bool
	maxUndoEntries int
	coalesce       bool
	logger         Logger

	// Initialization
	initContent string
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		tabWidth:       DefaultTabWidth,
		lineEnding:     buffer.LineEndingLF,
		maxUndoEntries: DefaultMaxUndoEntries,
		logger:         nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = history.NewLog(
		history.WithMaxEntries(e.maxUndoEntries),
		history.WithCoalescing(e.coalesce),
	)
	e.sel = cursor.NewCursorSelection(0)
	return e
}

// New creates a new Engine with the given options.
// The cursor starts at offset 0.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, buffer.WithLineEnding(e.lineEnding))
	return e
}

// NewFromReader creates an Engine from an io.Reader. Line endings are
// converted to '\n'; the export line ending is detected from the content
// unless WithLineEnding is given.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	text := string(data)

	if !e.lineEndingSet {
		e.lineEnding = buffer.DetectLineEnding(text)
	}
	e.buf = buffer.NewBufferFromString(buffer.Normalize(text), buffer.WithLineEnding(e.lineEnding))
	return e, nil
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content.
// For large documents, prefer LineText or TextRange.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// Export returns the content with the configured line endings.
func (e *Engine) Export() string {
	return e.buf.Export()
}

// TextRange returns text in the given char range.
func (e *Engine) TextRange(start, end int) string {
	return e.buf.TextRange(start, end)
}

// LenChars returns the number of chars in the document.
func (e *Engine) LenChars() int {
	return e.buf.LenChars()
}

// LenLines returns the number of lines. An empty document has one line.
func (e *Engine) LenLines() int {
	return e.buf.LenLines()
}

// IsEmpty returns true if the document is empty.
func (e *Engine) IsEmpty() bool {
	return e.buf.IsEmpty()
}

// LineText returns the text of a line without its newline.
func (e *Engine) LineText(line int) string {
	return e.buf.LineText(line)
}

// CharAt returns the char at offset.
func (e *Engine) CharAt(offset int) (rune, bool) {
	return e.buf.CharAt(offset)
}

// Revision returns a counter that increases with every change.
func (e *Engine) Revision() uint64 {
	return e.buf.Revision()
}

// Snapshot returns a read-only view of the current content.
func (e *Engine) Snapshot() *buffer.Snapshot {
	return e.buf.Snapshot()
}

// Rope returns the underlying rope.
func (e *Engine) Rope() rope.Rope {
	return e.buf.Snapshot().Rope()
}

// ============================================================================
// Position Conversion
// ============================================================================

// CharToLineCol converts a char offset to a line and a char column.
func (e *Engine) CharToLineCol(offset int) (line, col int) {
	p := e.buf.OffsetToPoint(offset)
	return p.Line, p.Column
}

// LineColToChar converts a line and column to a clamped char offset.
func (e *Engine) LineColToChar(line, col int) int {
	return e.buf.PointToOffset(Point{Line: line, Column: col})
}

// VisualColumn returns the display column of the cursor, expanding tabs and
// counting wide characters as two cells.
func (e *Engine) VisualColumn() int {
	line, col := e.CharToLineCol(e.sel.Head)
	return visual.ColumnOf(e.buf.LineText(line), col, e.tabWidth)
}

// ============================================================================
// Cursor and Selection
// ============================================================================

// Cursor returns the cursor offset.
func (e *Engine) Cursor() int {
	return e.sel.Head
}

// Selection returns the cursor and anchor state.
func (e *Engine) Selection() Selection {
	return e.sel
}

// Anchor returns the selection anchor, if one is set.
func (e *Engine) Anchor() (int, bool) {
	return e.sel.Anchor, e.sel.HasAnchor
}

// HasSelection returns true if a non-empty selection is active.
func (e *Engine) HasSelection() bool {
	return e.sel.HasSelection()
}

// SelectionRange returns the ordered selection bounds.
// ok is false when nothing is selected.
func (e *Engine) SelectionRange() (start, end int, ok bool) {
	if !e.sel.HasSelection() {
		return 0, 0, false
	}
	r := e.sel.Range()
	return r.Start, r.End, true
}

// SelectedText returns the selected text, or "" without a selection.
func (e *Engine) SelectedText() string {
	start, end, ok := e.SelectionRange()
	if !ok {
		return ""
	}
	return e.buf.TextRange(start, end)
}

// StartSelection plants the anchor at the cursor unless one is set.
func (e *Engine) StartSelection() {
	e.sel = e.sel.StartSelection()
}

// ClearSelection drops the anchor.
func (e *Engine) ClearSelection() {
	e.sel = e.sel.ClearSelection()
}

// SetSelection sets anchor and cursor directly. Both are clamped.
func (e *Engine) SetSelection(anchor, head int) {
	e.sel = cursor.NewSelection(anchor, head).Clamp(e.buf.LenChars())
}

// SelectAll selects the whole document with the cursor at the end.
func (e *Engine) SelectAll() {
	e.sel = cursor.NewSelection(0, e.buf.LenChars())
}

// SelectWordAtCursor selects the category run under the cursor, or the run
// before it when the cursor is at the end of the document.
func (e *Engine) SelectWordAtCursor() {
	n := e.buf.LenChars()
	if n == 0 {
		return
	}
	probe := e.sel.Head
	if probe >= n {
		probe = n - 1
	}
	r, _ := e.buf.CharAt(probe)
	cat := textclass.Classify(r)
	same := func(c rune) bool { return textclass.Classify(c) == cat }

	start := e.skipBackward(probe, same)
	end := e.skipForward(probe+1, same)
	e.sel = cursor.NewSelection(start, end)
}

// SelectLineAtCursor selects the cursor's line including its newline.
func (e *Engine) SelectLineAtCursor() {
	if e.buf.IsEmpty() {
		return
	}
	line := e.buf.CharToLine(e.sel.Head)
	e.sel = cursor.NewSelection(e.buf.LineToChar(line), e.buf.LineToChar(line+1))
}

// prepare starts or clears the selection before a move.
func (e *Engine) prepare(extend bool) {
	if extend {
		e.sel = e.sel.StartSelection()
	} else {
		e.sel = e.sel.ClearSelection()
	}
}

func (e *Engine) moveTo(offset int) {
	e.sel = e.sel.MoveTo(min(max(offset, 0), e.buf.LenChars()))
}

// ============================================================================
// Movement
// ============================================================================

// MoveLeft moves the cursor one char left. Without extend, an active
// selection collapses to its start instead.
func (e *Engine) MoveLeft(extend bool) {
	if !extend && e.sel.HasSelection() {
		e.sel = e.sel.CollapseToStart()
		return
	}
	e.prepare(extend)
	if e.sel.Head > 0 {
		e.moveTo(e.sel.Head - 1)
	}
}

// MoveRight moves the cursor one char right. Without extend, an active
// selection collapses to its end instead.
func (e *Engine) MoveRight(extend bool) {
	if !extend && e.sel.HasSelection() {
		e.sel = e.sel.CollapseToEnd()
		return
	}
	e.prepare(extend)
	if e.sel.Head < e.buf.LenChars() {
		e.moveTo(e.sel.Head + 1)
	}
}

// MoveUp moves to the previous line, keeping the char column where the line
// is long enough. On the first line it moves to the start of the document.
func (e *Engine) MoveUp(extend bool) {
	e.prepare(extend)

	line, col := e.CharToLineCol(e.sel.Head)
	if line == 0 {
		e.moveTo(0)
		return
	}
	e.moveTo(e.buf.LineToChar(line-1) + min(col, e.buf.EffectiveLineLen(line-1)))
}

// MoveDown moves to the next line, keeping the char column where the line
// is long enough. On the last line it moves to the end of the document.
func (e *Engine) MoveDown(extend bool) {
	e.prepare(extend)

	line, col := e.CharToLineCol(e.sel.Head)
	if line >= e.buf.LenLines()-1 {
		e.moveTo(e.buf.LenChars())
		return
	}
	e.moveTo(e.buf.LineToChar(line+1) + min(col, e.buf.EffectiveLineLen(line+1)))
}

// MoveWordLeft skips whitespace backward, then one run of the category of
// the char before.
func (e *Engine) MoveWordLeft(extend bool) {
	e.prepare(extend)
	e.moveTo(e.wordStartBefore(e.sel.Head))
}

// MoveWordRight skips whitespace forward, then one run of the category of
// the next char.
func (e *Engine) MoveWordRight(extend bool) {
	e.prepare(extend)

	pos := e.skipForward(e.sel.Head, textclass.IsWhitespace)
	if r, ok := e.buf.CharAt(pos); ok {
		cat := textclass.Classify(r)
		pos = e.skipForward(pos, func(c rune) bool { return textclass.Classify(c) == cat })
	}
	e.moveTo(pos)
}

// MoveToLineStart moves to the start of the cursor's line.
func (e *Engine) MoveToLineStart(extend bool) {
	e.prepare(extend)
	e.moveTo(e.buf.LineToChar(e.buf.CharToLine(e.sel.Head)))
}

// MoveToLineEnd moves to the end of the cursor's line, before its newline.
func (e *Engine) MoveToLineEnd(extend bool) {
	e.prepare(extend)
	line := e.buf.CharToLine(e.sel.Head)
	e.moveTo(e.buf.LineToChar(line) + e.buf.EffectiveLineLen(line))
}

// MoveToStart moves to the start of the document.
func (e *Engine) MoveToStart(extend bool) {
	e.prepare(extend)
	e.moveTo(0)
}

// MoveToEnd moves to the end of the document.
func (e *Engine) MoveToEnd(extend bool) {
	e.prepare(extend)
	e.moveTo(e.buf.LenChars())
}

// SetCursorLineCol moves the cursor to line and col. The line is clamped to
// the document and the column to the line's length without its newline.
func (e *Engine) SetCursorLineCol(line, col int, extend bool) {
	e.prepare(extend)
	e.moveTo(e.LineColToChar(line, col))
}

// SetCursor moves the cursor to a clamped offset and drops the anchor.
func (e *Engine) SetCursor(offset int) {
	e.sel = cursor.NewCursorSelection(min(max(offset, 0), e.buf.LenChars()))
}

// skipBackward returns the offset reached by moving left from pos while
// the char before satisfies pred.
func (e *Engine) skipBackward(pos int, pred func(rune) bool) int {
	c := e.buf.Cursor(pos)
	for {
		r, ok := c.PeekBack()
		if !ok || !pred(r) {
			return c.Offset()
		}
		c.Prev()
	}
}

// skipForward returns the offset reached by moving right from pos while
// the char at the cursor satisfies pred.
func (e *Engine) skipForward(pos int, pred func(rune) bool) int {
	c := e.buf.Cursor(pos)
	for {
		r, ok := c.Peek()
		if !ok || !pred(r) {
			return c.Offset()
		}
		c.Next()
	}
}

// wordStartBefore skips whitespace left of pos, then one category run.
func (e *Engine) wordStartBefore(pos int) int {
	pos = e.skipBackward(pos, textclass.IsWhitespace)
	if pos > 0 {
		r, _ := e.buf.CharAt(pos - 1)
		cat := textclass.Classify(r)
		pos = e.skipBackward(pos, func(c rune) bool { return textclass.Classify(c) == cat })
	}
	return pos
}

// ============================================================================
// Write Operations
// ============================================================================

// InsertChar inserts r at the cursor, replacing the selection if any.
func (e *Engine) InsertChar(r rune) {
	e.InsertString(string(r))
}

// InsertString inserts s at the cursor, replacing the selection if any.
// The text is inserted verbatim; only invalid UTF-8 is replaced.
func (e *Engine) InsertString(s string) {
	e.DeleteSelection()

	s = buffer.ValidText(s)
	if s == "" {
		return
	}
	before := e.sel.Head
	end := e.buf.Insert(before, s)
	e.log.Record(history.NewInsert(before, s, before))
	e.sel = cursor.NewCursorSelection(end)
}

// Paste inserts text at the cursor, replacing the selection.
// An empty paste leaves the document and selection untouched.
func (e *Engine) Paste(text string) {
	if text == "" {
		return
	}
	e.InsertString(text)
}

// Backspace deletes the selection, or the char before the cursor.
func (e *Engine) Backspace() {
	if e.DeleteSelection() {
		return
	}
	if c := e.sel.Head; c > 0 {
		e.deleteRange(c-1, c)
	}
}

// Delete deletes the selection, or the char after the cursor.
func (e *Engine) Delete() {
	if e.DeleteSelection() {
		return
	}
	if c := e.sel.Head; c < e.buf.LenChars() {
		e.deleteRange(c, c+1)
	}
}

// DeleteWordLeft deletes the selection, or the word before the cursor.
//
// A run of two or more whitespace chars before the cursor is deleted on its
// own. A single space goes together with the run before it.
func (e *Engine) DeleteWordLeft() {
	if e.DeleteSelection() {
		return
	}
	cur := e.sel.Head
	if cur == 0 {
		return
	}

	start := e.skipBackward(cur, textclass.IsWhitespace)
	if cur-start <= 1 {
		start = e.wordStartBefore(cur)
	}
	if start < cur {
		e.deleteRange(start, cur)
	}
}

// DeleteSelection deletes the selected text as one action.
// It returns false if nothing was selected.
func (e *Engine) DeleteSelection() bool {
	start, end, ok := e.SelectionRange()
	if !ok {
		return false
	}
	e.deleteRange(start, end)
	return true
}

// Cut deletes the selection and returns its text.
// Returns "" and leaves the document alone without a selection.
func (e *Engine) Cut() string {
	text := e.SelectedText()
	if text == "" {
		return ""
	}
	e.DeleteSelection()
	return text
}

// deleteRange removes [start, end), records it and collapses the cursor at
// start.
func (e *Engine) deleteRange(start, end int) {
	before := e.sel.Head
	removed := e.buf.Delete(start, end)
	if removed == "" {
		return
	}
	e.log.Record(history.NewDelete(start, removed, before))
	e.sel = cursor.NewCursorSelection(start)
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the most recent action and restores the cursor from before
// it. The anchor is cleared. Returns false if there was nothing to undo.
func (e *Engine) Undo() bool {
	a, pos, err := e.log.Undo(e.buf)
	if err != nil {
		return false
	}
	e.sel = cursor.NewCursorSelection(min(pos, e.buf.LenChars()))
	e.logger.Debug("undo", "action", a.Description(), "cursor", e.sel.Head)
	return true
}

// Redo re-applies the most recently undone action. The cursor goes to the
// end of the re-inserted text, or to the start of a re-deleted span.
// Returns false if there was nothing to redo.
func (e *Engine) Redo() bool {
	a, pos, err := e.log.Redo(e.buf)
	if err != nil {
		return false
	}
	e.sel = cursor.NewCursorSelection(min(pos, e.buf.LenChars()))
	e.logger.Debug("redo", "action", a.Description(), "cursor", e.sel.Head)
	return true
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.log.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.log.CanRedo()
}

// UndoLen returns the number of undo actions available.
func (e *Engine) UndoLen() int {
	return e.log.UndoLen()
}

// RedoLen returns the number of redo actions available.
func (e *Engine) RedoLen() int {
	return e.log.RedoLen()
}

// History returns the action log.
func (e *Engine) History() *history.Log {
	return e.log
}

// ClearHistory drops all undo/redo history.
func (e *Engine) ClearHistory() {
	e.log.Clear()
}

// ============================================================================
// Line Transposition
// ============================================================================

// MoveLinesUp moves the cursor's line, or every line the selection touches,
// one line up. Cursor and anchor move with the text.
// Returns false if the block is already at the top.
func (e *Engine) MoveLinesUp() bool {
	first, _ := e.lineRangeToMove()
	if first == 0 {
		return false
	}

	e.ensureTrailingNewline()
	first, last := e.lineRangeToMove()

	target := e.buf.LineToChar(first - 1)
	blockStart := e.buf.LineToChar(first)
	blockEnd := e.buf.LineToChar(last + 1)

	e.relocate(blockStart, blockEnd, target)
	e.logger.Debug("move lines up", "first", first, "last", last)
	return true
}

// MoveLinesDown moves the cursor's line, or every line the selection
// touches, one line down. Cursor and anchor move with the text.
// Returns false if the block already ends on the last line.
func (e *Engine) MoveLinesDown() bool {
	_, last := e.lineRangeToMove()
	if last+1 >= e.buf.LenLines() {
		return false
	}

	e.ensureTrailingNewline()
	first, last := e.lineRangeToMove()
	if last+1 >= e.buf.LenLines() {
		return false
	}

	blockStart := e.buf.LineToChar(first)
	blockEnd := e.buf.LineToChar(last + 1)
	below := e.buf.LineToChar(last + 2)

	// The target is computed against the text with the block removed.
	target := below - (blockEnd - blockStart)
	if target == blockStart {
		return false
	}

	e.relocate(blockStart, blockEnd, target)
	e.logger.Debug("move lines down", "first", first, "last", last)
	return true
}

// relocate moves [start, end) so that it begins at target, measured after
// removal, recording a Delete and an Insert.
func (e *Engine) relocate(start, end, target int) {
	sel := e.sel
	block := e.buf.Delete(start, end)
	e.log.Record(history.NewDelete(start, block, sel.Head))

	e.buf.Insert(target, block)
	e.log.Record(history.NewInsert(target, block, target))

	e.sel = sel.Shift(target - start).Clamp(e.buf.LenChars())
}

// ensureTrailingNewline appends '\n' to a non-empty document lacking one.
func (e *Engine) ensureTrailingNewline() {
	n := e.buf.LenChars()
	if n == 0 {
		return
	}
	if r, _ := e.buf.CharAt(n - 1); r == '\n' {
		return
	}
	e.buf.Insert(n, "\n")
	e.log.Record(history.NewInsert(n, "\n", e.sel.Head))
}

// lineRangeToMove returns the inclusive line range spanned by the selection,
// or the cursor's line. A selection ending at a line start excludes that
// line.
func (e *Engine) lineRangeToMove() (first, last int) {
	start, end, ok := e.SelectionRange()
	if !ok {
		line := e.buf.CharToLine(e.sel.Head)
		return line, line
	}
	first = e.buf.CharToLine(start)
	last = e.buf.CharToLine(end)
	if end > 0 && end == e.buf.LineToChar(last) {
		last = max(last-1, first)
	}
	return first, last
}

// ============================================================================
// Configuration
// ============================================================================

// TabWidth returns the tab width used for visual columns.
func (e *Engine) TabWidth() int {
	return e.tabWidth
}

// SetTabWidth sets the tab width used for visual columns.
func (e *Engine) SetTabWidth(width int) {
	if width > 0 {
		e.tabWidth = width
	}
}

// LineEnding returns the line ending used by Export.
func (e *Engine) LineEnding() LineEnding {
	return e.buf.LineEnding()
}

// SetLineEnding sets the line ending used by Export.
func (e *Engine) SetLineEnding(ending LineEnding) {
	e.buf.SetLineEnding(ending)
}

// ============================================================================
// Utility Operations
// ============================================================================

// SetContent replaces the whole document, resets the cursor and clears the
// history. The revision keeps counting.
func (e *Engine) SetContent(content string) {
	e.buf.Replace(0, e.buf.LenChars(), buffer.ValidText(content))
	e.sel = cursor.NewCursorSelection(0)
	e.log.Clear()
}
