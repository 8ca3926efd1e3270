// Package engine provides the in-memory document model of the quill editor.
//
// An Engine combines a rope-backed text buffer, a cursor with an optional
// selection anchor, and an undo/redo action log behind one editing API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - rope: B+ tree rope for char-indexed text storage (O(log n) operations)
//   - buffer: line ending handling, revisions and snapshots over the rope
//   - textclass: word/whitespace/other classification for word motions
//   - cursor: the cursor and selection value type
//   - history: recorded actions and the undo/redo log
//   - visual: display columns for tabs and wide characters
//
// # Positions
//
// Every offset is a char offset: one char is one Unicode scalar value. Lines
// are separated by '\n' only. Text is stored as given, except that
// NewFromReader converts "\r\n" and "\r" when reading a file.
// Out-of-range offsets, lines and columns are clamped, so no operation fails.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello, World!"))
//
//	e.MoveToEnd(false)
//	e.InsertString(" Bye.")       // "Hello, World! Bye."
//
//	e.MoveLeft(false)
//	e.MoveWordLeft(true)          // selects "Bye"
//	e.InsertString("Ciao")        // "Hello, World! Ciao."
//
//	e.Undo()                      // "Hello, World! ."
//	e.Undo()                      // "Hello, World! Bye."
//
// # Selections
//
// Each movement takes an extend flag. With extend the anchor is planted at
// the current cursor, unless one is already set, and the cursor moves away
// from it. Without extend the anchor is dropped. MoveLeft and MoveRight
// without extend collapse an active selection to its start or end instead of
// moving.
//
// # Undo/Redo
//
// Each edit records one or more actions. Replacing a selection records a
// Delete followed by an Insert, so it takes two undo steps. Undo restores the
// cursor from before the edit. Redo places the cursor at the end of the
// re-inserted text, or at the start of a re-deleted span. Any new edit clears
// the redo stack.
//
// # Moving Lines
//
// MoveLinesUp and MoveLinesDown swap the cursor's line, or the lines the
// selection touches, with the line above or below. A document without a
// trailing newline gets one first. The change is recorded as separate
// actions: the appended newline, the removal of the block and its
// reinsertion.
//
// # Thread Safety
//
// An Engine is not safe for concurrent use. Snapshot returns an immutable
// view that other goroutines may read freely.
package engine
