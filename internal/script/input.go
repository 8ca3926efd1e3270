package script

import (
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/engine/lineinput"
)

const inputTypeName = "quill.input"

// registerInputType installs the input module and the metatable shared by
// every field it creates.
func registerInputType(L *lua.LState) {
	mt := L.NewTypeMetatable(inputTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), inputMethods))
	L.SetField(mt, "__tostring", L.NewFunction(inputToString))

	L.SetGlobal("input", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"new": newInput,
	}))
}

var inputMethods = map[string]lua.LGFunction{
	"text":              inputText,
	"len":               inputLen,
	"cursor":            inputCursor,
	"set_text":          inputSetText,
	"clear":             inputAction((*lineinput.Input).Clear),
	"set_cursor":        inputSetCursor,
	"selection":         inputSelection,
	"selected_text":     inputSelectedText,
	"select_all":        inputAction((*lineinput.Input).SelectAll),
	"insert":            inputInsert,
	"insert_char":       inputInsertChar,
	"paste":             inputPaste,
	"backspace":         inputAction((*lineinput.Input).Backspace),
	"delete":            inputAction((*lineinput.Input).Delete),
	"delete_word_left":  inputAction((*lineinput.Input).DeleteWordLeft),
	"delete_word_right": inputAction((*lineinput.Input).DeleteWordRight),
	"delete_selection":  inputDeleteSelection,
	"cut":               inputCut,
	"move":              inputMove,
}

// input.new(text?) -> field with the cursor at the end
func newInput(L *lua.LState) int {
	ud := L.NewUserData()
	ud.Value = lineinput.New(L.OptString(1, ""))
	L.SetMetatable(ud, L.GetTypeMetatable(inputTypeName))
	L.Push(ud)
	return 1
}

func checkInput(L *lua.LState) *lineinput.Input {
	ud := L.CheckUserData(1)
	if in, ok := ud.Value.(*lineinput.Input); ok {
		return in
	}
	L.ArgError(1, "input expected")
	return nil
}

func inputAction(fn func(*lineinput.Input)) lua.LGFunction {
	return func(L *lua.LState) int {
		fn(checkInput(L))
		return 0
	}
}

func inputToString(L *lua.LState) int {
	L.Push(lua.LString(checkInput(L).Text()))
	return 1
}

// f:text() -> string
func inputText(L *lua.LState) int {
	L.Push(lua.LString(checkInput(L).Text()))
	return 1
}

// f:len() -> number of chars
func inputLen(L *lua.LState) int {
	L.Push(lua.LNumber(checkInput(L).Len()))
	return 1
}

// f:cursor() -> offset
func inputCursor(L *lua.LState) int {
	L.Push(lua.LNumber(checkInput(L).Cursor()))
	return 1
}

// f:set_text(s)
func inputSetText(L *lua.LState) int {
	in := checkInput(L)
	in.SetText(L.CheckString(2))
	return 0
}

// f:set_cursor(offset)
func inputSetCursor(L *lua.LState) int {
	in := checkInput(L)
	in.SetCursor(L.CheckInt(2))
	return 0
}

// f:selection() -> start, end or nil
func inputSelection(L *lua.LState) int {
	start, end, ok := checkInput(L).SelectionRange()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(start))
	L.Push(lua.LNumber(end))
	return 2
}

// f:selected_text() -> string
func inputSelectedText(L *lua.LState) int {
	L.Push(lua.LString(checkInput(L).SelectedText()))
	return 1
}

// f:insert(s)
func inputInsert(L *lua.LState) int {
	in := checkInput(L)
	in.InsertString(L.CheckString(2))
	return 0
}

// f:insert_char(c) where c is a single char.
func inputInsertChar(L *lua.LState) int {
	in := checkInput(L)
	s := L.CheckString(2)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		L.ArgError(2, "expected a single char")
		return 0
	}
	in.InsertChar(r)
	return 0
}

// f:paste(s)
func inputPaste(L *lua.LState) int {
	in := checkInput(L)
	in.Paste(L.CheckString(2))
	return 0
}

// f:delete_selection() -> bool
func inputDeleteSelection(L *lua.LState) int {
	L.Push(lua.LBool(checkInput(L).DeleteSelection()))
	return 1
}

// f:cut() -> string or nil
func inputCut(L *lua.LState) int {
	text, ok := checkInput(L).Cut()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(text))
	return 1
}

// f:move(dir, extend?)
func inputMove(L *lua.LState) int {
	in := checkInput(L)
	dir := L.CheckString(2)
	extend := L.OptBool(3, false)

	var fn func(*lineinput.Input, bool)
	switch dir {
	case "left":
		fn = (*lineinput.Input).MoveLeft
	case "right":
		fn = (*lineinput.Input).MoveRight
	case "word_left":
		fn = (*lineinput.Input).MoveWordLeft
	case "word_right":
		fn = (*lineinput.Input).MoveWordRight
	case "home":
		fn = (*lineinput.Input).Home
	case "end":
		fn = (*lineinput.Input).End
	default:
		L.ArgError(2, "unknown direction "+dir)
		return 0
	}
	fn(in, extend)
	return 0
}
