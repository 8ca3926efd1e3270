package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/rope"
)

// Kind identifies the type of an edit action.
type Kind uint8

const (
	Insert Kind = iota + 1
	Delete
	Replace
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Action represents a single undoable edit.
// It captures all information needed to undo or redo the edit.
type Action struct {
	Kind  Kind
	Start int // Char offset where the edit happened

	// Text is the inserted (Insert) or removed (Delete) text.
	Text string

	// OldText and NewText hold both sides of a Replace.
	OldText string
	NewText string

	// CursorBefore is the cursor position before the edit was applied.
	CursorBefore int

	Timestamp time.Time
}

// NewInsert creates an action for an insertion.
func NewInsert(start int, text string, cursorBefore int) Action {
	return Action{
		Kind:         Insert,
		Start:        start,
		Text:         text,
		CursorBefore: cursorBefore,
		Timestamp:    time.Now(),
	}
}

// NewDelete creates an action for a deletion.
func NewDelete(start int, deleted string, cursorBefore int) Action {
	return Action{
		Kind:         Delete,
		Start:        start,
		Text:         deleted,
		CursorBefore: cursorBefore,
		Timestamp:    time.Now(),
	}
}

// NewReplace creates an action for a replacement.
func NewReplace(start int, oldText, newText string, cursorBefore int) Action {
	return Action{
		Kind:         Replace,
		Start:        start,
		OldText:      oldText,
		NewText:      newText,
		CursorBefore: cursorBefore,
		Timestamp:    time.Now(),
	}
}

// removed returns the text the action takes out of the document.
func (a Action) removed() string {
	switch a.Kind {
	case Delete:
		return a.Text
	case Replace:
		return a.OldText
	default:
		return ""
	}
}

// inserted returns the text the action puts into the document.
func (a Action) inserted() string {
	switch a.Kind {
	case Insert:
		return a.Text
	case Replace:
		return a.NewText
	default:
		return ""
	}
}

// CharsDelta returns the change in document length.
func (a Action) CharsDelta() int {
	return rope.CountChars(a.inserted()) - rope.CountChars(a.removed())
}

// End returns the offset just past the text the action leaves behind.
func (a Action) End() int {
	return a.Start + rope.CountChars(a.inserted())
}

// Invert returns an action that undoes this one.
// The inverse keeps CursorBefore, so undoing it restores the same cursor.
func (a Action) Invert() Action {
	inv := a
	switch a.Kind {
	case Insert:
		inv.Kind = Delete
	case Delete:
		inv.Kind = Insert
	case Replace:
		inv.OldText, inv.NewText = a.NewText, a.OldText
	}
	return inv
}

// Apply performs the action on buf and returns the resulting cursor:
// the end of the inserted text for Insert and Replace, Start for Delete.
func (a Action) Apply(buf *buffer.Buffer) int {
	switch a.Kind {
	case Insert:
		return buf.Insert(a.Start, a.Text)
	case Delete:
		buf.Delete(a.Start, a.Start+rope.CountChars(a.Text))
		return a.Start
	case Replace:
		buf.Replace(a.Start, a.Start+rope.CountChars(a.OldText), a.NewText)
		return a.End()
	}
	return a.Start
}

// Revert undoes the action on buf and returns CursorBefore.
func (a Action) Revert(buf *buffer.Buffer) int {
	a.Invert().Apply(buf)
	return a.CursorBefore
}

// Description returns a short human-readable summary.
func (a Action) Description() string {
	switch a.Kind {
	case Insert:
		return "Insert " + describeText(a.Text)
	case Delete:
		return "Delete " + describeText(a.Text)
	case Replace:
		return fmt.Sprintf("Replace %s with %s", describeText(a.OldText), describeText(a.NewText))
	default:
		return "Unknown"
	}
}

func describeText(s string) string {
	n := rope.CountChars(s)
	if n == 0 {
		return "nothing"
	}
	if n <= 20 && !strings.ContainsRune(s, '\n') {
		return "'" + s + "'"
	}
	if n == 1 {
		return "1 char"
	}
	return fmt.Sprintf("%d chars", n)
}

// ActionInfo provides read-only info about an action.
// Used for displaying undo/redo history to users.
type ActionInfo struct {
	Description string
	Timestamp   time.Time
	CharsDelta  int
}

// Info returns the ActionInfo of a.
func (a Action) Info() ActionInfo {
	return ActionInfo{
		Description: a.Description(),
		Timestamp:   a.Timestamp,
		CharsDelta:  a.CharsDelta(),
	}
}
