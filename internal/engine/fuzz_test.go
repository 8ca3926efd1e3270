package engine

import (
	"testing"
)

// FuzzEngineOps replays a byte program against an engine and checks that the
// cursor stays in bounds and that undoing everything restores the content.
func FuzzEngineOps(f *testing.F) {
	f.Add("hello world", []byte{0, 1, 2, 3, 4, 5})
	f.Add("Line 1\nLine 2\nLine 3", []byte{9, 14, 15, 14, 16, 17})
	f.Add("", []byte{0, 0, 3, 12, 16})
	f.Add("日本語 text", []byte{6, 6, 7, 10, 11, 2})

	f.Fuzz(func(t *testing.T, content string, program []byte) {
		e := New(WithContent(content))
		initial := e.Text()

		for _, op := range program {
			switch op % 18 {
			case 0:
				e.InsertChar(rune('a' + op%26))
			case 1:
				e.InsertString(" x\n")
			case 2:
				e.Backspace()
			case 3:
				e.Delete()
			case 4:
				e.DeleteWordLeft()
			case 5:
				e.MoveLeft(op&0x80 != 0)
			case 6:
				e.MoveRight(op&0x80 != 0)
			case 7:
				e.MoveUp(op&0x80 != 0)
			case 8:
				e.MoveDown(op&0x80 != 0)
			case 9:
				e.MoveWordLeft(op&0x80 != 0)
			case 10:
				e.MoveWordRight(op&0x80 != 0)
			case 11:
				e.SelectWordAtCursor()
			case 12:
				e.SelectLineAtCursor()
			case 13:
				e.Cut()
			case 14:
				e.MoveLinesUp()
			case 15:
				e.MoveLinesDown()
			case 16:
				e.Undo()
			case 17:
				e.Redo()
			}

			if c := e.Cursor(); c < 0 || c > e.LenChars() {
				t.Fatalf("cursor %d outside [0, %d]", c, e.LenChars())
			}
		}

		for e.Undo() {
		}
		if e.Text() != initial {
			t.Fatalf("undo did not restore content: got %q, want %q", e.Text(), initial)
		}
	})
}
