// Package history provides undo/redo for the editing engine.
//
// # Actions
//
// An Action records one primitive edit: an Insert or Delete of Text at
// Start, or a Replace of OldText by NewText. Every action also carries the
// cursor position from before the edit, so undoing it puts the cursor back
// where the user left it.
//
// # Log
//
// Log keeps an undo stack and a redo stack:
//
//	log := history.NewLog(history.WithMaxEntries(500))
//
//	log.Record(history.NewInsert(0, "hi", 0))  // clears redo
//
//	action, cursor, err := log.Undo(buf)  // ErrNothingToUndo on an empty stack
//	action, cursor, err = log.Redo(buf)
//
// Recording a new action always empties the redo stack. The undo stack is
// unbounded unless WithMaxEntries sets a cap, in which case the oldest
// entries fall off first.
//
// # Coalescing
//
// With WithCoalescing(true), single-char inserts typed at adjacent positions
// merge into the Insert on top of the undo stack, so a typed word undoes in
// one step. A newline is never merged and always starts a new entry. Undo,
// redo and Seal end the current run.
package history
