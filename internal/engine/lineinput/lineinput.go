// Package lineinput provides a single-line editable text field for prompts
// and search boxes.
//
// An Input holds its text as chars and shares the selection model of the
// document engine. Newlines never enter the field: typed control chars are
// ignored and pasted line breaks are dropped.
package lineinput

import (
	"strings"
	"unicode"

	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/textclass"
)

// Input is a single-line text field with a cursor and optional selection.
// Offsets are char offsets into the text.
type Input struct {
	text []rune
	sel  cursor.Selection
}

// New creates an Input holding text with the cursor at its end.
func New(text string) *Input {
	in := &Input{}
	in.SetText(text)
	return in
}

// Text returns the current text.
func (in *Input) Text() string {
	return string(in.text)
}

// Len returns the number of chars in the field.
func (in *Input) Len() int {
	return len(in.text)
}

// Cursor returns the cursor offset.
func (in *Input) Cursor() int {
	return in.sel.Head
}

// SetText replaces the text and moves the cursor to the end.
func (in *Input) SetText(text string) {
	in.text = []rune(singleLine(text))
	in.sel = cursor.NewCursorSelection(len(in.text))
}

// Clear empties the field.
func (in *Input) Clear() {
	in.text = in.text[:0]
	in.sel = cursor.NewCursorSelection(0)
}

// SetCursor moves the cursor to a clamped offset and drops the selection.
func (in *Input) SetCursor(offset int) {
	in.sel = cursor.NewCursorSelection(min(max(offset, 0), len(in.text)))
}

// Selection

// SelectionRange returns the ordered selection bounds.
func (in *Input) SelectionRange() (start, end int, ok bool) {
	if !in.sel.HasSelection() {
		return 0, 0, false
	}
	return in.sel.Start(), in.sel.End(), true
}

// SelectedText returns the selected text, or "".
func (in *Input) SelectedText() string {
	start, end, ok := in.SelectionRange()
	if !ok {
		return ""
	}
	return string(in.text[start:end])
}

// SelectAll selects the whole field.
func (in *Input) SelectAll() {
	in.sel = cursor.NewSelection(0, len(in.text))
}

// DeleteSelection removes the selected text and reports whether there was
// any.
func (in *Input) DeleteSelection() bool {
	start, end, ok := in.SelectionRange()
	if !ok {
		return false
	}
	in.remove(start, end)
	return true
}

// Editing

// InsertChar inserts r at the cursor, replacing the selection.
// Control chars, including newlines and tabs, are ignored.
func (in *Input) InsertChar(r rune) {
	if unicode.IsControl(r) {
		return
	}
	in.DeleteSelection()
	in.insert([]rune{r})
}

// InsertString inserts s at the cursor with its line breaks removed,
// replacing the selection.
func (in *Input) InsertString(s string) {
	in.DeleteSelection()
	in.insert([]rune(singleLine(s)))
}

// Paste is InsertString; an empty paste leaves the selection alone.
func (in *Input) Paste(s string) {
	if s == "" {
		return
	}
	in.InsertString(s)
}

// Copy returns the selected text. ok is false without a selection.
func (in *Input) Copy() (text string, ok bool) {
	text = in.SelectedText()
	return text, text != ""
}

// Cut removes and returns the selected text.
func (in *Input) Cut() (text string, ok bool) {
	text, ok = in.Copy()
	if ok {
		in.DeleteSelection()
	}
	return text, ok
}

// Backspace deletes the selection or the char before the cursor.
func (in *Input) Backspace() {
	if in.DeleteSelection() {
		return
	}
	if c := in.sel.Head; c > 0 {
		in.remove(c-1, c)
	}
}

// Delete deletes the selection or the char after the cursor.
func (in *Input) Delete() {
	if in.DeleteSelection() {
		return
	}
	if c := in.sel.Head; c < len(in.text) {
		in.remove(c, c+1)
	}
}

// DeleteWordLeft deletes the selection or back to the previous word start.
func (in *Input) DeleteWordLeft() {
	if in.DeleteSelection() {
		return
	}
	if c := in.sel.Head; c > 0 {
		in.remove(in.wordBoundaryLeft(), c)
	}
}

// DeleteWordRight deletes the selection, or the non-space run after the
// cursor. Starting on whitespace it deletes just the whitespace.
func (in *Input) DeleteWordRight() {
	if in.DeleteSelection() {
		return
	}
	c := in.sel.Head
	end := c
	for end < len(in.text) && !textclass.IsWhitespace(in.text[end]) {
		end++
	}
	if end == c {
		for end < len(in.text) && textclass.IsWhitespace(in.text[end]) {
			end++
		}
	}
	if end > c {
		in.remove(c, end)
	}
}

// Movement

// MoveLeft moves one char left. Without extend an active selection
// collapses to its start.
func (in *Input) MoveLeft(extend bool) {
	if !extend && in.sel.HasSelection() {
		in.sel = in.sel.CollapseToStart()
		return
	}
	in.moveTo(in.sel.Head-1, extend)
}

// MoveRight moves one char right. Without extend an active selection
// collapses to its end.
func (in *Input) MoveRight(extend bool) {
	if !extend && in.sel.HasSelection() {
		in.sel = in.sel.CollapseToEnd()
		return
	}
	in.moveTo(in.sel.Head+1, extend)
}

// MoveWordLeft moves to the start of the previous word.
func (in *Input) MoveWordLeft(extend bool) {
	in.moveTo(in.wordBoundaryLeft(), extend)
}

// MoveWordRight moves past the current word and the whitespace after it.
func (in *Input) MoveWordRight(extend bool) {
	in.moveTo(in.wordBoundaryRight(), extend)
}

// Home moves to the start of the field.
func (in *Input) Home(extend bool) {
	in.moveTo(0, extend)
}

// End moves to the end of the field.
func (in *Input) End(extend bool) {
	in.moveTo(len(in.text), extend)
}

func (in *Input) moveTo(offset int, extend bool) {
	if extend {
		in.sel = in.sel.StartSelection()
	} else {
		in.sel = in.sel.ClearSelection()
	}
	in.sel = in.sel.MoveTo(min(max(offset, 0), len(in.text)))
}

func (in *Input) insert(rs []rune) {
	if len(rs) == 0 {
		return
	}
	c := in.sel.Head
	in.text = append(in.text[:c], append(rs, in.text[c:]...)...)
	in.sel = cursor.NewCursorSelection(c + len(rs))
}

func (in *Input) remove(start, end int) {
	in.text = append(in.text[:start], in.text[end:]...)
	in.sel = cursor.NewCursorSelection(start)
}

// wordBoundaryLeft skips whitespace left of the cursor, then non-whitespace.
func (in *Input) wordBoundaryLeft() int {
	i := in.sel.Head
	for i > 0 && textclass.IsWhitespace(in.text[i-1]) {
		i--
	}
	for i > 0 && !textclass.IsWhitespace(in.text[i-1]) {
		i--
	}
	return i
}

// wordBoundaryRight skips non-whitespace right of the cursor, then
// whitespace.
func (in *Input) wordBoundaryRight() int {
	i := in.sel.Head
	for i < len(in.text) && !textclass.IsWhitespace(in.text[i]) {
		i++
	}
	for i < len(in.text) && textclass.IsWhitespace(in.text[i]) {
		i++
	}
	return i
}

var lineBreaks = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

func singleLine(s string) string {
	return strings.ToValidUTF8(lineBreaks.Replace(s), "\uFFFD")
}
