package buffer

import (
	"io"
	"strings"
	"sync"

	"github.com/dshills/quill/internal/engine/rope"
)

// Point is a line/column position with the column counted in chars.
type Point = rope.Point

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer wraps a Rope with revision tracking and line-ending handling.
// Text is stored with '\n' line breaks only; the file's original style is
// remembered so Export can write it back.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	rope       rope.Rope
	revision   uint64
	lineEnding LineEnding
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		lineEnding: LineEndingLF,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
// The text is stored as given; only invalid UTF-8 is replaced.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.rope = rope.FromString(ValidText(s))
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
// Line endings are normalized to '\n' and the detected style is used by
// Export.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first: CRLF pairs may straddle read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(data)
	opts = append([]Option{WithDetectedLineEnding(text)}, opts...)
	return NewBufferFromString(Normalize(text), opts...), nil
}

// Normalize converts CRLF and CR line endings to LF and replaces invalid
// UTF-8 sequences with U+FFFD.
func Normalize(s string) string {
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	return ValidText(s)
}

// ValidText replaces invalid UTF-8 sequences with U+FFFD.
func ValidText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer using TextRange or LineText.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// Export returns the content with line endings converted to the buffer's
// line ending style.
func (b *Buffer) Export() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text := b.rope.String()
	if b.lineEnding == LineEndingLF {
		return text
	}
	return strings.ReplaceAll(text, "\n", b.lineEnding.Sequence())
}

// TextRange returns text in the given char range.
func (b *Buffer) TextRange(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(start, end)
}

// LenChars returns the number of chars in the buffer.
func (b *Buffer) LenChars() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LenChars()
}

// LenLines returns the number of lines in the buffer.
func (b *Buffer) LenLines() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LenLines()
}

// IsEmpty returns true if the buffer contains no text.
func (b *Buffer) IsEmpty() bool {
	return b.LenChars() == 0
}

// LineText returns the text of a line without its newline.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineText(line)
}

// Line returns the text of a line including its newline.
func (b *Buffer) Line(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Line(line)
}

// LineLen returns the char length of a line including its newline.
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineLen(line)
}

// EffectiveLineLen returns the char length of a line excluding its
// newline. The last line has no newline, so its full length is used.
func (b *Buffer) EffectiveLineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.rope.LineLen(line)
	if line < b.rope.LenLines()-1 && n > 0 {
		n--
	}
	return n
}

// CharAt returns the rune at a char offset.
func (b *Buffer) CharAt(offset int) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.CharAt(offset)
}

// LineToChar returns the char offset at which a line starts.
func (b *Buffer) LineToChar(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineToChar(line)
}

// CharToLine returns the line containing a char offset.
func (b *Buffer) CharToLine(offset int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.CharToLine(offset)
}

// OffsetToPoint converts a char offset to a line/column position.
func (b *Buffer) OffsetToPoint(offset int) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.OffsetToPoint(offset)
}

// PointToOffset converts a line/column position to a clamped char offset.
func (b *Buffer) PointToOffset(p Point) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.PointToOffset(p)
}

// Cursor returns a rope cursor positioned at the given char offset.
// The cursor reads the content as of this call.
func (b *Buffer) Cursor(offset int) *rope.Cursor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.CursorAt(offset)
}

// Write Operations

// Insert inserts text at the given char offset and returns the offset
// just past the inserted text. The offset is clamped.
func (b *Buffer) Insert(offset int, text string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	offset = min(max(offset, 0), b.rope.LenChars())
	if text == "" {
		return offset
	}
	b.rope = b.rope.Insert(offset, text)
	b.revision++
	return offset + rope.CountChars(text)
}

// Delete removes the char range [start, end) and returns the removed text.
func (b *Buffer) Delete(start, end int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := b.rope.Slice(start, end)
	if removed == "" {
		return ""
	}
	b.rope = b.rope.Remove(start, end)
	b.revision++
	return removed
}

// Replace replaces the char range [start, end) with text and returns the
// removed text.
func (b *Buffer) Replace(start, end int, text string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := b.rope.Slice(start, end)
	if removed == "" && text == "" {
		return ""
	}
	b.rope = b.rope.Replace(start, end, text)
	b.revision++
	return removed
}

// Revision returns a counter that increases with every change.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// LineEnding returns the buffer's export line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding sets the export line ending style.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// Snapshot returns a read-only view of the current content.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		rope:       b.rope,
		revision:   b.revision,
		lineEnding: b.lineEnding,
	}
}
