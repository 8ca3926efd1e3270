package rope

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the minimum bytes per chunk (except for the last chunk).
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk represents a bounded string stored in leaf nodes.
// Chunks are immutable once created.
type Chunk struct {
	data     string
	summary  TextSummary
	newlines NewlineIndex
}

// NewChunk creates a chunk from a string.
// Computes summary metrics eagerly.
func NewChunk(s string) Chunk {
	return Chunk{
		data:     s,
		summary:  ComputeSummary(s),
		newlines: ComputeNewlineIndex(s),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Newlines returns the chunk's newline index.
func (c Chunk) Newlines() *NewlineIndex {
	return &c.newlines
}

// Len returns the byte length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// Chars returns the char length of the chunk.
func (c Chunk) Chars() int {
	return c.summary.Chars
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// ByteOffset converts a char offset within the chunk to a byte offset.
func (c Chunk) ByteOffset(char int) int {
	if c.summary.IsASCII() {
		return min(max(char, 0), len(c.data))
	}
	return charToByte(c.data, char)
}

// CharOffset converts a byte offset within the chunk to a char offset.
func (c Chunk) CharOffset(b int) int {
	if c.summary.IsASCII() {
		return min(max(b, 0), len(c.data))
	}
	return byteToChar(c.data, b)
}

// Slice returns the text of chars [start, end) within the chunk.
func (c Chunk) Slice(start, end int) string {
	return c.data[c.ByteOffset(start):c.ByteOffset(end)]
}

// Split splits a chunk at a char offset, returning two chunks.
func (c Chunk) Split(char int) (Chunk, Chunk) {
	if char <= 0 {
		return Chunk{}, c
	}
	if char >= c.summary.Chars {
		return c, Chunk{}
	}
	b := c.ByteOffset(char)
	return NewChunk(c.data[:b]), NewChunk(c.data[b:])
}

// Append concatenates another chunk to this one, potentially returning
// multiple chunks if the result exceeds MaxChunkSize.
func (c Chunk) Append(other Chunk) []Chunk {
	if c.IsEmpty() {
		if other.IsEmpty() {
			return nil
		}
		return []Chunk{other}
	}
	if other.IsEmpty() {
		return []Chunk{c}
	}

	combined := c.data + other.data
	if len(combined) <= MaxChunkSize {
		return []Chunk{NewChunk(combined)}
	}

	return splitIntoChunks(combined)
}

// mergeChunks concatenates two chunk lists, joining neighbours whose
// combined size still fits in a single chunk.
func mergeChunks(left, right []Chunk) []Chunk {
	out := make([]Chunk, 0, len(left)+len(right))
	for _, list := range [2][]Chunk{left, right} {
		for _, ch := range list {
			if ch.IsEmpty() {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Len()+ch.Len() <= MaxChunkSize {
				out[n-1] = NewChunk(out[n-1].data + ch.data)
				continue
			}
			out = append(out, ch)
		}
	}
	return out
}

// splitIntoChunks splits a string into chunks of appropriate size.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}

	var chunks []Chunk
	remaining := s

	for len(remaining) > 0 {
		if len(remaining) <= MaxChunkSize {
			chunks = append(chunks, NewChunk(remaining))
			break
		}

		splitPoint := findUTF8Boundary(remaining, TargetChunkSize)
		chunks = append(chunks, NewChunk(remaining[:splitPoint]))
		remaining = remaining[splitPoint:]
	}

	return chunks
}

// findUTF8Boundary finds a valid UTF-8 boundary near the target position.
// It prefers splitting after a newline if one exists nearby.
func findUTF8Boundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}
	if target <= 0 {
		return 0
	}

	searchStart := max(target-MinChunkSize/4, 1)
	searchEnd := min(target+MinChunkSize/4, len(s))

	// Prefer splitting after a newline
	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	pos := target
	for pos < len(s) && !isUTF8Start(s[pos]) {
		pos++
	}

	// If we went too far forward, try backward
	if pos > target+4 || pos >= len(s) {
		pos = target
		for pos > 0 && !isUTF8Start(s[pos]) {
			pos--
		}
	}

	return pos
}

// isUTF8Start returns true if the byte is the start of a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}
