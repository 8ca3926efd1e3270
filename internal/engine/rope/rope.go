package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and thread-safe concurrent read access.
//
// All offsets are char offsets: indexes of Unicode scalar values.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var builder Builder
	if _, err := builder.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return builder.Build(), nil
}

// buildFromChunks builds a rope from a slice of chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var nodes []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		nodes = append(nodes, newLeafNodeWithChunks(leafChunks))
	}

	// Build tree bottom-up
	for len(nodes) > 1 {
		var parents []*Node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := min(i+MaxChildren, len(nodes))
			children := make([]*Node, end-i)
			copy(children, nodes[i:end])
			parents = append(parents, newInternalNode(children))
		}
		nodes = parents
	}

	return Rope{root: nodes[0]}
}

// LenChars returns the number of chars in the rope.
func (r Rope) LenChars() int {
	if r.root == nil {
		return 0
	}
	return r.root.Chars()
}

// LenBytes returns the UTF-8 byte length of the rope.
func (r Rope) LenBytes() int {
	if r.root == nil {
		return 0
	}
	return r.root.Bytes()
}

// LenLines returns the number of lines (newlines + 1).
// An empty rope has one line.
func (r Rope) LenLines() int {
	if r.root == nil {
		return 1
	}
	return r.root.LineCount()
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.LenBytes() == 0
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.LenBytes())
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the char range [start, end).
// The range is clamped to the rope.
func (r Rope) Slice(start, end int) string {
	start, end = r.clampRange(start, end)
	if r.root == nil || start >= end {
		return ""
	}
	var sb strings.Builder
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// CharAt returns the rune at the given char offset.
// Returns 0 and false if offset is out of range.
func (r Rope) CharAt(offset int) (rune, bool) {
	if r.root == nil || offset < 0 || offset >= r.LenChars() {
		return 0, false
	}
	chunk, within := r.chunkAt(offset)
	for _, ch := range chunk.Slice(within, within+1) {
		return ch, true
	}
	return 0, false
}

// chunkAt descends to the chunk holding char offset and returns it with
// the offset relative to the chunk's start.
func (r Rope) chunkAt(offset int) (Chunk, int) {
	node := r.root
	for !node.IsLeaf() {
		idx, childOffset := node.findChildByChar(offset)
		node = node.children[idx]
		offset = childOffset
	}
	for i, chunk := range node.chunks {
		if offset < chunk.Chars() || i == len(node.chunks)-1 {
			return chunk, offset
		}
		offset -= chunk.Chars()
	}
	return Chunk{}, 0
}

// Insert inserts text at the given char offset (clamped).
// Returns a new rope; original is unchanged.
func (r Rope) Insert(offset int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.IsEmpty() {
		return FromString(text)
	}

	offset = min(max(offset, 0), r.LenChars())
	if offset == 0 {
		return FromString(text).Concat(r)
	}
	if offset == r.LenChars() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Remove removes text in the char range [start, end).
// The range is clamped; start == end is a no-op.
// Returns a new rope; original is unchanged.
func (r Rope) Remove(start, end int) Rope {
	start, end = r.clampRange(start, end)
	if r.root == nil || start >= end {
		return r
	}

	n := r.LenChars()
	switch {
	case start == 0 && end == n:
		return New()
	case start == 0:
		_, right := r.Split(end)
		return right
	case end == n:
		left, _ := r.Split(start)
		return left
	}

	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace replaces text in the char range [start, end) with new text.
// Returns a new rope; original is unchanged.
func (r Rope) Replace(start, end int, text string) Rope {
	start, end = r.clampRange(start, end)
	return r.Remove(start, end).Insert(start, text)
}

// clampRange orders and clamps a char range to [0, LenChars()].
func (r Rope) clampRange(start, end int) (int, int) {
	if start > end {
		start, end = end, start
	}
	n := r.LenChars()
	return min(max(start, 0), n), min(max(end, 0), n)
}

// Split splits the rope at a char offset, returning two ropes.
// Left rope contains [0, offset), right contains [offset, end).
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.LenChars() {
		return r, New()
	}
	leftRoot, rightRoot := r.root.split(offset)
	return Rope{root: leftRoot}, Rope{root: rightRoot}
}

// Concat concatenates two ropes.
// Returns a new rope; originals are unchanged.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.IsEmpty() {
		return other
	}
	if other.root == nil || other.IsEmpty() {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// LineToChar returns the char offset of the start of the given line.
// Lines past the end map to LenChars().
func (r Rope) LineToChar(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LenLines() {
		return r.LenChars()
	}

	node := r.root
	base := 0
	for !node.IsLeaf() {
		idx, childLine, childStart := node.findChildByLine(line)
		node = node.children[idx]
		line = childLine
		base += childStart
	}

	for _, chunk := range node.chunks {
		if line == 0 {
			return base
		}
		if pos := chunk.Newlines().SearchLine(line); pos >= 0 {
			return base + pos
		}
		line -= chunk.Newlines().Count()
		base += chunk.Chars()
	}
	return base
}

// CharToLine returns the line containing the given char offset.
// An offset at or past the end maps to the last line.
func (r Rope) CharToLine(offset int) int {
	if r.root == nil || offset <= 0 {
		return 0
	}
	if offset >= r.LenChars() {
		return r.LenLines() - 1
	}

	node := r.root
	line := 0
	for !node.IsLeaf() {
		idx, childOffset := node.findChildByChar(offset)
		for i := 0; i < idx; i++ {
			line += node.childSummaries[i].Lines
		}
		node = node.children[idx]
		offset = childOffset
	}

	for _, chunk := range node.chunks {
		if offset < chunk.Chars() {
			return line + chunk.Newlines().LinesBefore(offset)
		}
		line += chunk.Newlines().Count()
		offset -= chunk.Chars()
	}
	return line
}

// LineLen returns the char length of a line including its trailing
// newline, if any. Out-of-range lines have length 0.
func (r Rope) LineLen(line int) int {
	if line < 0 || line >= r.LenLines() {
		return 0
	}
	return r.LineToChar(line+1) - r.LineToChar(line)
}

// Line returns the text of a line including its trailing newline.
func (r Rope) Line(line int) string {
	if line < 0 || line >= r.LenLines() {
		return ""
	}
	return r.Slice(r.LineToChar(line), r.LineToChar(line+1))
}

// LineText returns the text of a line without its trailing newline.
func (r Rope) LineText(line int) string {
	return strings.TrimSuffix(r.Line(line), "\n")
}

// CharToByte converts a char offset to a byte offset.
func (r Rope) CharToByte(offset int) int {
	if r.root == nil || offset <= 0 {
		return 0
	}
	if offset >= r.LenChars() {
		return r.LenBytes()
	}

	node := r.root
	base := 0
	for !node.IsLeaf() {
		idx, childOffset := node.findChildByChar(offset)
		for i := 0; i < idx; i++ {
			base += node.childSummaries[i].Bytes
		}
		node = node.children[idx]
		offset = childOffset
	}
	for _, chunk := range node.chunks {
		if offset < chunk.Chars() {
			return base + chunk.ByteOffset(offset)
		}
		base += chunk.Len()
		offset -= chunk.Chars()
	}
	return base
}

// ByteToChar converts a byte offset to a char offset. Offsets inside a
// multi-byte sequence resolve to the char that contains them.
func (r Rope) ByteToChar(b int) int {
	if r.root == nil || b <= 0 {
		return 0
	}
	if b >= r.LenBytes() {
		return r.LenChars()
	}

	node := r.root
	chars := 0
	for !node.IsLeaf() {
		i := 0
		for ; i < len(node.children)-1 && node.childSummaries[i].Bytes <= b; i++ {
			b -= node.childSummaries[i].Bytes
			chars += node.childSummaries[i].Chars
		}
		node = node.children[i]
	}
	for _, chunk := range node.chunks {
		if b < chunk.Len() {
			return chars + chunk.CharOffset(b)
		}
		b -= chunk.Len()
		chars += chunk.Chars()
	}
	return chars
}

// OffsetToPoint converts a char offset to a line/column position.
func (r Rope) OffsetToPoint(offset int) Point {
	offset = min(max(offset, 0), r.LenChars())
	line := r.CharToLine(offset)
	return Point{Line: line, Column: offset - r.LineToChar(line)}
}

// PointToOffset converts a line/column position to a char offset. The line
// is clamped to the rope and the column to the line's length without its
// newline.
func (r Rope) PointToOffset(p Point) int {
	line := min(max(p.Line, 0), r.LenLines()-1)
	start := r.LineToChar(line)
	width := r.LineLen(line)
	if line < r.LenLines()-1 {
		width-- // newline
	}
	return start + min(max(p.Column, 0), width)
}

// Height returns the height of the rope tree.
// Useful for debugging and testing balance.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
// Useful for debugging.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}

// Equals returns true if two ropes contain the same text.
// Note: This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.LenBytes() != other.LenBytes() || r.LenChars() != other.LenChars() {
		return false
	}
	return r.String() == other.String()
}
