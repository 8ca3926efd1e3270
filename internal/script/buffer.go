package script

import (
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/engine"
)

// BufferModule implements the buf API module.
type BufferModule struct {
	e *engine.Engine
}

// NewBufferModule creates a buffer module bound to e.
func NewBufferModule(e *engine.Engine) *BufferModule {
	return &BufferModule{e: e}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buf"
}

// Funcs returns the module's functions keyed by Lua name.
func (m *BufferModule) Funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"text":             m.text,
		"len":              m.bufLen,
		"line_count":       m.lineCount,
		"line":             m.line,
		"char_at":          m.charAt,
		"cursor":           m.cursor,
		"line_col":         m.lineCol,
		"set_cursor":       m.setCursor,
		"set_line_col":     m.setLineCol,
		"move":             m.move,
		"selection":        m.selection,
		"select":           m.selectRange,
		"select_all":       m.action(m.e.SelectAll),
		"select_word":      m.action(m.e.SelectWordAtCursor),
		"select_line":      m.action(m.e.SelectLineAtCursor),
		"clear_selection":  m.action(m.e.ClearSelection),
		"selected_text":    m.selectedText,
		"insert":           m.insert,
		"insert_char":      m.insertChar,
		"paste":            m.paste,
		"backspace":        m.action(m.e.Backspace),
		"delete":           m.action(m.e.Delete),
		"delete_word_left": m.action(m.e.DeleteWordLeft),
		"delete_selection": m.predicate(m.e.DeleteSelection),
		"cut":              m.cut,
		"undo":             m.predicate(m.e.Undo),
		"redo":             m.predicate(m.e.Redo),
		"can_undo":         m.predicate(m.e.CanUndo),
		"can_redo":         m.predicate(m.e.CanRedo),
		"move_lines_up":    m.predicate(m.e.MoveLinesUp),
		"move_lines_down":  m.predicate(m.e.MoveLinesDown),
		"set_content":      m.setContent,
		"visual_column":    m.visualColumn,
		"revision":         m.revision,
	}
}

// action wraps an engine operation that takes and returns nothing.
func (m *BufferModule) action(fn func()) lua.LGFunction {
	return func(L *lua.LState) int {
		fn()
		return 0
	}
}

// predicate wraps an engine operation that reports a bool.
func (m *BufferModule) predicate(fn func() bool) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LBool(fn()))
		return 1
	}
}

// text() -> string
func (m *BufferModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.e.Text()))
	return 1
}

// len() -> number of chars
func (m *BufferModule) bufLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.e.LenChars()))
	return 1
}

// line_count() -> number
func (m *BufferModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.e.LenLines()))
	return 1
}

// line(n) -> string
func (m *BufferModule) line(L *lua.LState) int {
	L.Push(lua.LString(m.e.LineText(L.CheckInt(1))))
	return 1
}

// char_at(offset) -> string or nil
func (m *BufferModule) charAt(L *lua.LState) int {
	r, ok := m.e.CharAt(L.CheckInt(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(string(r)))
	return 1
}

// cursor() -> offset
func (m *BufferModule) cursor(L *lua.LState) int {
	L.Push(lua.LNumber(m.e.Cursor()))
	return 1
}

// line_col() -> line, col
func (m *BufferModule) lineCol(L *lua.LState) int {
	line, col := m.e.CharToLineCol(m.e.Cursor())
	L.Push(lua.LNumber(line))
	L.Push(lua.LNumber(col))
	return 2
}

// set_cursor(offset)
func (m *BufferModule) setCursor(L *lua.LState) int {
	m.e.SetCursor(L.CheckInt(1))
	return 0
}

// set_line_col(line, col, extend?)
func (m *BufferModule) setLineCol(L *lua.LState) int {
	m.e.SetCursorLineCol(L.CheckInt(1), L.CheckInt(2), L.OptBool(3, false))
	return 0
}

// move(dir, extend?)
func (m *BufferModule) move(L *lua.LState) int {
	dir := L.CheckString(1)
	extend := L.OptBool(2, false)

	var fn func(bool)
	switch dir {
	case "left":
		fn = m.e.MoveLeft
	case "right":
		fn = m.e.MoveRight
	case "up":
		fn = m.e.MoveUp
	case "down":
		fn = m.e.MoveDown
	case "word_left":
		fn = m.e.MoveWordLeft
	case "word_right":
		fn = m.e.MoveWordRight
	case "line_start":
		fn = m.e.MoveToLineStart
	case "line_end":
		fn = m.e.MoveToLineEnd
	case "start":
		fn = m.e.MoveToStart
	case "end":
		fn = m.e.MoveToEnd
	default:
		L.ArgError(1, "unknown direction "+dir)
		return 0
	}
	fn(extend)
	return 0
}

// selection() -> start, end or nil
func (m *BufferModule) selection(L *lua.LState) int {
	start, end, ok := m.e.SelectionRange()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(start))
	L.Push(lua.LNumber(end))
	return 2
}

// select(anchor, head)
func (m *BufferModule) selectRange(L *lua.LState) int {
	m.e.SetSelection(L.CheckInt(1), L.CheckInt(2))
	return 0
}

// selected_text() -> string
func (m *BufferModule) selectedText(L *lua.LState) int {
	L.Push(lua.LString(m.e.SelectedText()))
	return 1
}

// insert(s)
func (m *BufferModule) insert(L *lua.LState) int {
	m.e.InsertString(L.CheckString(1))
	return 0
}

// insert_char(c) where c is a single char.
func (m *BufferModule) insertChar(L *lua.LState) int {
	s := L.CheckString(1)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		L.ArgError(1, "expected a single char")
		return 0
	}
	m.e.InsertChar(r)
	return 0
}

// paste(s)
func (m *BufferModule) paste(L *lua.LState) int {
	m.e.Paste(L.CheckString(1))
	return 0
}

// cut() -> string
func (m *BufferModule) cut(L *lua.LState) int {
	L.Push(lua.LString(m.e.Cut()))
	return 1
}

// set_content(s)
func (m *BufferModule) setContent(L *lua.LState) int {
	m.e.SetContent(L.CheckString(1))
	return 0
}

// visual_column() -> number
func (m *BufferModule) visualColumn(L *lua.LState) int {
	L.Push(lua.LNumber(m.e.VisualColumn()))
	return 1
}

// revision() -> number
func (m *BufferModule) revision(L *lua.LState) int {
	L.Push(lua.LNumber(m.e.Revision()))
	return 1
}
