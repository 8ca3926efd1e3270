package rope

import "strings"

// Tree structure constants
const (
	// MinChildren is the minimum children per internal node (except root).
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node represents a node in the rope B+ tree.
// Leaf nodes (height == 0) contain text chunks.
// Internal nodes (height > 0) contain child node references.
type Node struct {
	height  uint8
	summary TextSummary // Aggregated metrics for entire subtree

	// Internal node fields (height > 0)
	children       []*Node
	childSummaries []TextSummary // Per-child summaries for efficient seeking

	// Leaf node fields (height == 0)
	chunks []Chunk
}

// newLeafNode creates an empty leaf node.
func newLeafNode() *Node {
	return &Node{
		summary: TextSummary{Flags: FlagASCII},
		chunks:  make([]Chunk, 0, MaxChunksPerLeaf),
	}
}

// newLeafNodeWithChunks creates a leaf node with the given chunks.
func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.recomputeSummary()
	return n
}

// newInternalNode creates an internal node with the given children.
func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	var height uint8
	summaries := make([]TextSummary, len(children))
	total := TextSummary{Flags: FlagASCII}

	for i, child := range children {
		height = max(height, child.height+1)
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         height,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Chars returns the char length of text in this subtree.
func (n *Node) Chars() int {
	return n.summary.Chars
}

// Bytes returns the byte length of text in this subtree.
func (n *Node) Bytes() int {
	return n.summary.Bytes
}

// LineCount returns the number of lines in this subtree.
func (n *Node) LineCount() int {
	return n.summary.Lines + 1
}

// recomputeSummary recalculates the summary from children or chunks.
func (n *Node) recomputeSummary() {
	n.summary = TextSummary{Flags: FlagASCII}
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			n.summary = n.summary.Add(chunk.Summary())
		}
		return
	}
	n.childSummaries = make([]TextSummary, len(n.children))
	for i, child := range n.children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
}

// appendTo appends all text in this subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.String())
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends text in the char range [start, end) to the builder.
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	if n.IsLeaf() {
		offset := 0
		for _, chunk := range n.chunks {
			chunkEnd := offset + chunk.Chars()
			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}
			sb.WriteString(chunk.Slice(max(start-offset, 0), min(end, chunkEnd)-offset))
			offset = chunkEnd
		}
		return
	}

	offset := 0
	for i, child := range n.children {
		childLen := n.childSummaries[i].Chars
		childEnd := offset + childLen
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}
		child.appendRange(sb, max(start-offset, 0), min(end, childEnd)-offset)
		offset = childEnd
	}
}

// split splits the node at the given char offset.
// Returns two nodes: left contains [0, offset), right contains [offset, end).
func (n *Node) split(offset int) (*Node, *Node) {
	if offset <= 0 {
		return newLeafNode(), n
	}
	if offset >= n.Chars() {
		return n, newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

// splitLeaf splits a leaf node at the given char offset.
func (n *Node) splitLeaf(offset int) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	current := 0

	for _, chunk := range n.chunks {
		chunkLen := chunk.Chars()
		switch {
		case current+chunkLen <= offset:
			leftChunks = append(leftChunks, chunk)
		case current >= offset:
			rightChunks = append(rightChunks, chunk)
		default:
			left, right := chunk.Split(offset - current)
			if !left.IsEmpty() {
				leftChunks = append(leftChunks, left)
			}
			if !right.IsEmpty() {
				rightChunks = append(rightChunks, right)
			}
		}
		current += chunkLen
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

// splitInternal splits an internal node at the given char offset.
// The child containing the offset is split recursively and its halves are
// concatenated back onto the untouched siblings, keeping both sides balanced.
func (n *Node) splitInternal(offset int) (*Node, *Node) {
	idx, childOffset := n.findChildByChar(offset)

	if childOffset == 0 {
		return buildNodeFromChildren(n.children[:idx]), buildNodeFromChildren(n.children[idx:])
	}

	leftPart, rightPart := n.children[idx].split(childOffset)
	left := concat(buildNodeFromChildren(n.children[:idx]), leftPart)
	right := concat(rightPart, buildNodeFromChildren(n.children[idx+1:]))
	return left, right
}

// buildNodeFromChildren creates a balanced tree from a list of child nodes.
func buildNodeFromChildren(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}
	if len(children) == 1 {
		return children[0]
	}

	owned := make([]*Node, len(children))
	copy(owned, children)
	if len(owned) <= MaxChildren {
		return newInternalNode(owned)
	}

	var parents []*Node
	for i := 0; i < len(owned); i += MaxChildren {
		end := min(i+MaxChildren, len(owned))
		parents = append(parents, newInternalNode(owned[i:end:end]))
	}
	return buildNodeFromChildren(parents)
}

// concat concatenates two nodes.
func concat(left, right *Node) *Node {
	if left == nil || left.Bytes() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Bytes() == 0 {
		return left
	}

	nodes := concatNodes(left, right)
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInternalNode(nodes)
}

// concatNodes joins two non-empty subtrees and returns one or two nodes
// whose height is the taller input's height. The shorter subtree is
// attached along the taller one's inner edge.
func concatNodes(left, right *Node) []*Node {
	switch {
	case left.height == right.height:
		if left.IsLeaf() {
			return packLeaves(mergeChunks(left.chunks, right.chunks))
		}
		children := make([]*Node, 0, len(left.children)+len(right.children))
		children = append(children, left.children...)
		children = append(children, right.children...)
		return packChildren(children)

	case left.height > right.height:
		last := len(left.children) - 1
		joined := concatNodes(left.children[last], right)
		children := make([]*Node, 0, last+len(joined))
		children = append(children, left.children[:last]...)
		children = append(children, joined...)
		return packChildren(children)

	default:
		joined := concatNodes(left, right.children[0])
		children := make([]*Node, 0, len(joined)+len(right.children)-1)
		children = append(children, joined...)
		children = append(children, right.children[1:]...)
		return packChildren(children)
	}
}

// packLeaves groups chunks into one leaf, or two when they overflow.
func packLeaves(chunks []Chunk) []*Node {
	if len(chunks) <= MaxChunksPerLeaf {
		return []*Node{newLeafNodeWithChunks(chunks)}
	}
	mid := len(chunks) / 2
	return []*Node{
		newLeafNodeWithChunks(chunks[:mid:mid]),
		newLeafNodeWithChunks(chunks[mid:]),
	}
}

// packChildren groups children into one internal node, or two when they
// overflow MaxChildren.
func packChildren(children []*Node) []*Node {
	if len(children) <= MaxChildren {
		return []*Node{newInternalNode(children)}
	}
	mid := len(children) / 2
	return []*Node{
		newInternalNode(children[:mid:mid]),
		newInternalNode(children[mid:]),
	}
}

// findChildByChar finds the child containing the given char offset.
// Returns the child index and the offset within that child. An offset at
// the very end resolves to the last child.
func (n *Node) findChildByChar(offset int) (int, int) {
	current := 0
	for i, summary := range n.childSummaries {
		if current+summary.Chars > offset {
			return i, offset - current
		}
		current += summary.Chars
	}
	last := len(n.children) - 1
	return last, offset - (n.summary.Chars - n.childSummaries[last].Chars)
}

// findChildByLine finds the child containing the start of the given line.
// Returns the child index, the line number within that child, and the
// char offset at which the child begins.
func (n *Node) findChildByLine(line int) (int, int, int) {
	currentLine, currentChar := 0, 0
	for i, summary := range n.childSummaries {
		// Line N starts in a child if currentLine <= N <= currentLine + summary.Lines
		if currentLine+summary.Lines >= line {
			return i, line - currentLine, currentChar
		}
		currentLine += summary.Lines
		currentChar += summary.Chars
	}
	last := len(n.children) - 1
	return last, line - (n.summary.Lines - n.childSummaries[last].Lines), n.summary.Chars - n.childSummaries[last].Chars
}
