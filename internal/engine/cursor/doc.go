// Package cursor provides the cursor and selection model of a document.
//
// Selection Model:
//
// A Selection is a Head (the cursor) plus an optional Anchor:
//   - Head: the current cursor position (where typing would occur)
//   - Anchor: the position where the selection started
//
// Text is selected only when an anchor is set and differs from the head. The
// selection can extend forward (head > anchor) or backward (head < anchor),
// preserving the user's selection direction.
//
// Movement with extend calls StartSelection, which plants the anchor at the
// current head only when none is set, so repeated extending moves grow the
// same selection. Movement without extend calls ClearSelection.
//
// Basic usage:
//
//	sel := cursor.NewCursorSelection(10)  // Cursor at offset 10
//	sel = sel.Extend(15)                  // Selects [10, 15)
//	r := sel.Range()                      // Range{Start: 10, End: 15}
//	sel = sel.ClearSelection()            // Cursor at 15, nothing selected
//
// All offsets are char offsets.
package cursor
