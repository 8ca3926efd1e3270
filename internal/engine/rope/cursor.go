package rope

// Cursor enables efficient rune-by-rune traversal of a rope in either
// direction. It keeps the path from root to the current chunk, so seeking
// is O(log n) and stepping is amortized O(1).
type Cursor struct {
	rope Rope
	path []cursorFrame

	chunkStart int    // Char offset of the current chunk
	runes      []rune // Decoded current chunk
	offset     int    // Current char offset in the rope
}

// cursorFrame represents a position in the tree traversal path.
// For the leaf frame idx is the chunk index, otherwise the child index.
type cursorFrame struct {
	node *Node
	idx  int
}

// NewCursor creates a cursor at the start of the rope.
func NewCursor(r Rope) *Cursor {
	return r.CursorAt(0)
}

// CursorAt creates a cursor positioned at the given char offset (clamped).
func (r Rope) CursorAt(offset int) *Cursor {
	c := &Cursor{
		rope: r,
		path: make([]cursorFrame, 0, 16),
	}
	c.SeekChar(offset)
	return c
}

// Offset returns the current char offset.
func (c *Cursor) Offset() int {
	return c.offset
}

// SeekChar moves the cursor to the given char offset (clamped).
func (c *Cursor) SeekChar(offset int) {
	c.offset = min(max(offset, 0), c.rope.LenChars())
	c.path = c.path[:0]
	c.runes = c.runes[:0]
	c.chunkStart = 0

	if c.rope.root == nil {
		return
	}

	node := c.rope.root
	remaining := c.offset
	for !node.IsLeaf() {
		idx, childOffset := node.findChildByChar(remaining)
		c.chunkStart += remaining - childOffset
		c.path = append(c.path, cursorFrame{node: node, idx: idx})
		node = node.children[idx]
		remaining = childOffset
	}

	idx := 0
	for idx < len(node.chunks)-1 && remaining >= node.chunks[idx].Chars() {
		remaining -= node.chunks[idx].Chars()
		c.chunkStart += node.chunks[idx].Chars()
		idx++
	}
	c.path = append(c.path, cursorFrame{node: node, idx: idx})
	c.loadChunk()
}

// loadChunk decodes the chunk the leaf frame points at.
func (c *Cursor) loadChunk() {
	c.runes = c.runes[:0]
	leaf := c.path[len(c.path)-1]
	if leaf.idx < len(leaf.node.chunks) {
		c.runes = append(c.runes, []rune(leaf.node.chunks[leaf.idx].String())...)
	}
}

// Next returns the rune at the cursor and advances past it.
// Returns false at the end of the rope.
func (c *Cursor) Next() (rune, bool) {
	if c.offset >= c.rope.LenChars() {
		return 0, false
	}
	for c.offset-c.chunkStart >= len(c.runes) {
		if !c.nextChunk() {
			return 0, false
		}
	}
	r := c.runes[c.offset-c.chunkStart]
	c.offset++
	return r, true
}

// Prev returns the rune before the cursor and moves back over it.
// Returns false at the start of the rope.
func (c *Cursor) Prev() (rune, bool) {
	if c.offset <= 0 {
		return 0, false
	}
	for c.offset-1 < c.chunkStart {
		if !c.prevChunk() {
			return 0, false
		}
	}
	c.offset--
	return c.runes[c.offset-c.chunkStart], true
}

// Peek returns the rune at the cursor without moving.
func (c *Cursor) Peek() (rune, bool) {
	r, ok := c.Next()
	if ok {
		c.offset--
	}
	return r, ok
}

// PeekBack returns the rune before the cursor without moving.
func (c *Cursor) PeekBack() (rune, bool) {
	r, ok := c.Prev()
	if ok {
		c.offset++
	}
	return r, ok
}

// AtEnd returns true if the cursor is at the end of the rope.
func (c *Cursor) AtEnd() bool {
	return c.offset >= c.rope.LenChars()
}

// AtStart returns true if the cursor is at the start of the rope.
func (c *Cursor) AtStart() bool {
	return c.offset == 0
}

// nextChunk moves the path to the following chunk.
func (c *Cursor) nextChunk() bool {
	c.chunkStart += len(c.runes)

	depth := len(c.path) - 1
	leaf := &c.path[depth]
	if leaf.idx+1 < len(leaf.node.chunks) {
		leaf.idx++
		c.loadChunk()
		return true
	}

	// Climb until some ancestor has a right sibling to descend into.
	for depth--; depth >= 0; depth-- {
		frame := &c.path[depth]
		if frame.idx+1 < len(frame.node.children) {
			frame.idx++
			c.path = c.path[:depth+1]
			node := frame.node.children[frame.idx]
			for !node.IsLeaf() {
				c.path = append(c.path, cursorFrame{node: node, idx: 0})
				node = node.children[0]
			}
			c.path = append(c.path, cursorFrame{node: node, idx: 0})
			c.loadChunk()
			return true
		}
	}
	return false
}

// prevChunk moves the path to the preceding chunk.
func (c *Cursor) prevChunk() bool {
	depth := len(c.path) - 1
	leaf := &c.path[depth]
	if leaf.idx > 0 {
		leaf.idx--
		c.loadChunk()
		c.chunkStart -= len(c.runes)
		return true
	}

	for depth--; depth >= 0; depth-- {
		frame := &c.path[depth]
		if frame.idx > 0 {
			frame.idx--
			c.path = c.path[:depth+1]
			node := frame.node.children[frame.idx]
			for !node.IsLeaf() {
				last := len(node.children) - 1
				c.path = append(c.path, cursorFrame{node: node, idx: last})
				node = node.children[last]
			}
			c.path = append(c.path, cursorFrame{node: node, idx: len(node.chunks) - 1})
			c.loadChunk()
			c.chunkStart -= len(c.runes)
			return true
		}
	}
	return false
}
