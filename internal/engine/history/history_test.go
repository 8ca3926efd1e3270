package history

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dshills/quill/internal/engine/buffer"
)

var ignoreTime = cmpopts.IgnoreFields(Action{}, "Timestamp")

// Action Tests

func TestNewActions(t *testing.T) {
	tests := []struct {
		name string
		got  Action
		want Action
	}{
		{"insert", NewInsert(5, "hello", 5), Action{Kind: Insert, Start: 5, Text: "hello", CursorBefore: 5}},
		{"delete", NewDelete(2, "ab", 4), Action{Kind: Delete, Start: 2, Text: "ab", CursorBefore: 4}},
		{"replace", NewReplace(1, "old", "new", 1), Action{Kind: Replace, Start: 1, OldText: "old", NewText: "new", CursorBefore: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got, ignoreTime); diff != "" {
				t.Errorf("action mismatch (-want +got):\n%s", diff)
			}
			if tt.got.Timestamp.IsZero() {
				t.Error("timestamp not set")
			}
		})
	}
}

func TestActionCharsDelta(t *testing.T) {
	tests := []struct {
		name     string
		a        Action
		expected int
	}{
		{"insert", NewInsert(0, "héllo", 0), 5},
		{"delete", NewDelete(0, "世界", 0), -2},
		{"replace longer", NewReplace(0, "abc", "hello", 0), 2},
		{"replace shorter", NewReplace(0, "hello", "hi", 0), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.CharsDelta(); got != tt.expected {
				t.Errorf("CharsDelta() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestActionInvert(t *testing.T) {
	tests := []struct {
		name string
		a    Action
		want Action
	}{
		{"insert", NewInsert(3, "x", 3), Action{Kind: Delete, Start: 3, Text: "x", CursorBefore: 3}},
		{"delete", NewDelete(3, "x", 4), Action{Kind: Insert, Start: 3, Text: "x", CursorBefore: 4}},
		{"replace", NewReplace(0, "a", "bc", 0), Action{Kind: Replace, Start: 0, OldText: "bc", NewText: "a", CursorBefore: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.a.Invert(), ignoreTime); diff != "" {
				t.Errorf("Invert() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.a, tt.a.Invert().Invert(), ignoreTime); diff != "" {
				t.Errorf("double inversion should be identity (-want +got):\n%s", diff)
			}
		})
	}
}

func TestActionApplyRevert(t *testing.T) {
	tests := []struct {
		name        string
		initial     string
		a           Action
		applied     string
		applyCursor int
	}{
		{"insert", "hello", NewInsert(5, " 世界", 5), "hello 世界", 8},
		{"delete", "hello world", NewDelete(5, " world", 11), "hello", 5},
		{"replace", "hello world", NewReplace(6, "world", "Go", 6), "hello Go", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromString(tt.initial)

			if got := tt.a.Apply(buf); got != tt.applyCursor {
				t.Errorf("Apply cursor = %d, want %d", got, tt.applyCursor)
			}
			if buf.Text() != tt.applied {
				t.Errorf("after Apply got %q, want %q", buf.Text(), tt.applied)
			}

			if got := tt.a.Revert(buf); got != tt.a.CursorBefore {
				t.Errorf("Revert cursor = %d, want %d", got, tt.a.CursorBefore)
			}
			if buf.Text() != tt.initial {
				t.Errorf("after Revert got %q, want %q", buf.Text(), tt.initial)
			}
		})
	}
}

func TestActionDescription(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{NewInsert(0, "x", 0), "Insert 'x'"},
		{NewInsert(0, "\n", 0), "Insert 1 char"},
		{NewDelete(0, "a\nb", 0), "Delete 3 chars"},
		{NewReplace(0, "a", "b", 0), "Replace 'a' with 'b'"},
		{NewDelete(0, "", 0), "Delete nothing"},
	}

	for _, tt := range tests {
		if got := tt.a.Description(); got != tt.want {
			t.Errorf("Description() = %q, want %q", got, tt.want)
		}
	}
}

// Log Tests

func TestLogRecordClearsRedo(t *testing.T) {
	log := NewLog()
	buf := buffer.NewBufferFromString("ab")

	log.Record(NewInsert(0, "x", 0))
	if _, _, err := log.Undo(buf); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if !log.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	log.Record(NewInsert(0, "y", 0))
	if log.CanRedo() {
		t.Error("recording should clear the redo stack")
	}
}

func TestLogEmpty(t *testing.T) {
	log := NewLog()
	buf := buffer.NewBufferFromString("abc")

	if log.CanUndo() || log.CanRedo() {
		t.Error("new log should have nothing to undo or redo")
	}
	if _, _, err := log.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if _, _, err := log.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
	if buf.Text() != "abc" {
		t.Errorf("buffer should be untouched, got %q", buf.Text())
	}
}

func TestLogUndoRedo(t *testing.T) {
	buf := buffer.NewBufferFromString("")
	log := NewLog()

	a := NewInsert(0, "hello", 0)
	a.Apply(buf)
	log.Record(a)

	b := NewInsert(5, " world", 5)
	b.Apply(buf)
	log.Record(b)

	undone, cursor, err := log.Undo(buf)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if diff := cmp.Diff(b, undone, ignoreTime); diff != "" {
		t.Errorf("undone action mismatch (-want +got):\n%s", diff)
	}
	if buf.Text() != "hello" || cursor != 5 {
		t.Errorf("after undo: %q cursor %d", buf.Text(), cursor)
	}

	redone, cursor, err := log.Redo(buf)
	if err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if redone.Text != " world" {
		t.Errorf("redone action text = %q, want %q", redone.Text, " world")
	}
	if buf.Text() != "hello world" || cursor != 11 {
		t.Errorf("after redo: %q cursor %d", buf.Text(), cursor)
	}

	if log.UndoLen() != 2 || log.RedoLen() != 0 {
		t.Errorf("expected 2/0 entries, got %d/%d", log.UndoLen(), log.RedoLen())
	}
}

func TestLogPushPop(t *testing.T) {
	log := NewLog()
	a := NewDelete(1, "z", 2)

	log.PushUndo(a)
	got, ok := log.PeekUndo()
	if !ok {
		t.Fatal("expected an undo entry")
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("PeekUndo mismatch (-want +got):\n%s", diff)
	}

	got, ok = log.PopUndo()
	if !ok || got.Text != "z" {
		t.Fatalf("PopUndo = %v, %v", got, ok)
	}
	if _, ok := log.PopUndo(); ok {
		t.Error("second PopUndo should fail")
	}

	log.PushRedo(a)
	if _, ok := log.PeekRedo(); !ok {
		t.Error("expected a redo entry")
	}
	if _, ok := log.PopRedo(); !ok {
		t.Error("expected PopRedo to succeed")
	}
	if _, ok := log.PopRedo(); ok {
		t.Error("second PopRedo should fail")
	}
}

func TestLogMaxEntries(t *testing.T) {
	log := NewLog(WithMaxEntries(3))

	for i := 0; i < 5; i++ {
		log.Record(NewInsert(i, "x", i))
	}

	if log.UndoLen() != 3 {
		t.Fatalf("expected 3 entries, got %d", log.UndoLen())
	}
	info := log.UndoInfo()
	if len(info) != 3 {
		t.Fatalf("expected 3 info entries, got %d", len(info))
	}

	// The two oldest fall off.
	oldest, _ := log.PopUndo()
	for log.CanUndo() {
		oldest, _ = log.PopUndo()
	}
	if oldest.Start != 2 {
		t.Errorf("oldest remaining entry should start at 2, got %d", oldest.Start)
	}
}

func TestLogUnboundedByDefault(t *testing.T) {
	const n = 2500
	buf := buffer.NewBufferFromString("")
	log := NewLog()
	for i := 0; i < n; i++ {
		a := NewInsert(i, "x", i)
		a.Apply(buf)
		log.Record(a)
	}
	if log.UndoLen() != n {
		t.Fatalf("expected %d entries, got %d", n, log.UndoLen())
	}
	for log.CanUndo() {
		if _, _, err := log.Undo(buf); err != nil {
			t.Fatalf("undo failed: %v", err)
		}
	}
	if buf.Text() != "" {
		t.Errorf("undoing everything left %d chars", buf.LenChars())
	}
}

func TestLogSetMaxEntries(t *testing.T) {
	log := NewLog()
	if log.MaxEntries() != 0 {
		t.Errorf("expected unbounded default, got %d", log.MaxEntries())
	}
	for i := 0; i < 10; i++ {
		log.Record(NewInsert(i, "x", i))
	}
	log.SetMaxEntries(4)
	if log.UndoLen() != 4 {
		t.Errorf("expected 4 entries after shrinking, got %d", log.UndoLen())
	}
}

func TestLogCoalescing(t *testing.T) {
	log := NewLog(WithCoalescing(true))

	for i, r := range "abc" {
		log.Record(NewInsert(i, string(r), i))
	}
	if log.UndoLen() != 1 {
		t.Fatalf("expected typed run to merge into 1 entry, got %d", log.UndoLen())
	}
	top, _ := log.PeekUndo()
	if top.Text != "abc" || top.CursorBefore != 0 {
		t.Errorf("unexpected merged action %+v", top)
	}

	// A newline starts its own entry and the next char starts another.
	log.Record(NewInsert(3, "\n", 3))
	log.Record(NewInsert(4, "d", 4))
	if log.UndoLen() != 3 {
		t.Errorf("expected 3 entries, got %d", log.UndoLen())
	}

	// Non-adjacent inserts do not merge.
	log.Record(NewInsert(0, "z", 0))
	if log.UndoLen() != 4 {
		t.Errorf("expected 4 entries, got %d", log.UndoLen())
	}

	// Seal ends the run.
	log.Seal()
	log.Record(NewInsert(1, "y", 1))
	if log.UndoLen() != 5 {
		t.Errorf("expected 5 entries after seal, got %d", log.UndoLen())
	}
}

func TestLogCoalescingOffByDefault(t *testing.T) {
	log := NewLog()
	log.Record(NewInsert(0, "a", 0))
	log.Record(NewInsert(1, "b", 1))
	if log.UndoLen() != 2 {
		t.Errorf("expected 2 entries, got %d", log.UndoLen())
	}
}

func TestLogClear(t *testing.T) {
	log := NewLog()
	log.Record(NewInsert(0, "a", 0))
	log.PushRedo(NewInsert(0, "b", 0))

	log.Clear()

	if log.CanUndo() || log.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
}

func TestLogInfo(t *testing.T) {
	log := NewLog()
	log.Record(NewInsert(0, "ab", 0))
	log.PushRedo(NewDelete(0, "c", 1))

	want := []ActionInfo{{Description: "Insert 'ab'", CharsDelta: 2}}
	if diff := cmp.Diff(want, log.UndoInfo(), cmpopts.IgnoreFields(ActionInfo{}, "Timestamp")); diff != "" {
		t.Errorf("UndoInfo mismatch (-want +got):\n%s", diff)
	}
	if got := log.RedoInfo(); len(got) != 1 || got[0].CharsDelta != -1 {
		t.Errorf("unexpected RedoInfo %+v", got)
	}
}
