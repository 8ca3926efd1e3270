package buffer

import "github.com/dshills/quill/internal/engine/rope"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	rope       rope.Rope
	revision   uint64
	lineEnding LineEnding
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.rope.String()
}

// TextRange returns text in the given char range.
func (s *Snapshot) TextRange(start, end int) string {
	return s.rope.Slice(start, end)
}

// LenChars returns the number of chars in the snapshot.
func (s *Snapshot) LenChars() int {
	return s.rope.LenChars()
}

// LenLines returns the number of lines.
func (s *Snapshot) LenLines() int {
	return s.rope.LenLines()
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line int) string {
	return s.rope.LineText(line)
}

// CharAt returns the rune at the given char offset.
func (s *Snapshot) CharAt(offset int) (rune, bool) {
	return s.rope.CharAt(offset)
}

// OffsetToPoint converts a char offset to line/column.
func (s *Snapshot) OffsetToPoint(offset int) Point {
	return s.rope.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a char offset.
func (s *Snapshot) PointToOffset(p Point) int {
	return s.rope.PointToOffset(p)
}

// Revision returns the buffer revision the snapshot was taken at.
func (s *Snapshot) Revision() uint64 {
	return s.revision
}

// LineEnding returns the export line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

// Rope returns the underlying immutable rope.
func (s *Snapshot) Rope() rope.Rope {
	return s.rope
}
