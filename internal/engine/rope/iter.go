package rope

// chunkIterFrame represents a position in the tree traversal for chunk iteration.
type chunkIterFrame struct {
	node     *Node
	childIdx int // Next child index to visit (for internal nodes)
	chunkIdx int // Next chunk index to visit (for leaf nodes)
}

// ChunkIterator iterates over chunks in a rope.
type ChunkIterator struct {
	rope       Rope
	stack      []chunkIterFrame
	started    bool
	chunk      Chunk
	chunkStart int
	nextStart  int
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	return &ChunkIterator{
		rope:  r,
		stack: make([]chunkIterFrame, 0, 16),
	}
}

// Next advances to the next chunk.
// Returns true if there is a chunk, false if iteration is complete.
func (it *ChunkIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.rope.root == nil {
			return false
		}
		it.stack = append(it.stack, chunkIterFrame{node: it.rope.root})
		return it.findNextChunk()
	}

	if len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		if frame.node.IsLeaf() {
			frame.chunkIdx++
		}
	}
	return it.findNextChunk()
}

// findNextChunk finds the next non-empty chunk.
func (it *ChunkIterator) findNextChunk() bool {
	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		node := frame.node

		if node.IsLeaf() {
			if frame.chunkIdx < len(node.chunks) {
				chunk := node.chunks[frame.chunkIdx]
				if chunk.IsEmpty() {
					frame.chunkIdx++
					continue
				}
				it.chunk = chunk
				it.chunkStart = it.nextStart
				it.nextStart += chunk.Chars()
				return true
			}
			it.pop()
			continue
		}

		if frame.childIdx < len(node.children) {
			it.stack = append(it.stack, chunkIterFrame{node: node.children[frame.childIdx]})
			continue
		}
		it.pop()
	}
	return false
}

// pop discards the top frame and advances its parent.
func (it *ChunkIterator) pop() {
	it.stack = it.stack[:len(it.stack)-1]
	if len(it.stack) > 0 {
		it.stack[len(it.stack)-1].childIdx++
	}
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the char offset of the start of the current chunk.
func (it *ChunkIterator) Offset() int {
	return it.chunkStart
}

// LineIterator iterates over lines in a rope.
type LineIterator struct {
	rope  Rope
	line  int
	start int
	end   int
	text  string
}

// Lines returns an iterator over all lines in the rope.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r, line: -1}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.line+1 >= it.rope.LenLines() {
		return false
	}
	it.line++
	it.start = it.rope.LineToChar(it.line)
	it.end = it.rope.LineToChar(it.line + 1)
	it.text = it.rope.Slice(it.start, it.end)
	return true
}

// Text returns the current line including its trailing newline.
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the current 0-indexed line number.
func (it *LineIterator) Line() int {
	return it.line
}

// StartOffset returns the char offset of the start of the current line.
func (it *LineIterator) StartOffset() int {
	return it.start
}

// EndOffset returns the char offset just past the current line's newline.
func (it *LineIterator) EndOffset() int {
	return it.end
}
