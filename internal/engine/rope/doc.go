// Package rope provides an immutable rope data structure for efficient text storage and manipulation.
//
// A rope is a tree where leaf nodes contain text chunks and internal nodes
// store aggregated metrics (byte, char and line counts). This implementation
// uses a B+ tree variant for better cache locality and worst-case performance.
//
// Every offset in the public API is a char offset: the index of a Unicode
// scalar value, never a byte. Only '\n' separates lines, so a rope with n
// newlines has n+1 lines and an empty rope has one.
//
// Key features:
//   - O(log n) insertion, removal, and access by char offset
//   - O(log n) line ↔ char conversion via per-node line counts
//   - Immutable operations return new ropes; originals are never modified
//   - Copy-on-write semantics enable cheap snapshots
//   - Thread-safe for concurrent read access
//
// Basic usage:
//
//	r := rope.FromString("héllo world")
//	r = r.Insert(5, ",")           // "héllo, world"
//	r = r.Remove(0, 7)             // "world"
//	text := r.String()             // "world"
//
// Out-of-range offsets clamp instead of panicking: Insert past the end
// appends, Remove of an empty or reversed range is handled, and
// CharToLine(LenChars()) returns the last line.
package rope
