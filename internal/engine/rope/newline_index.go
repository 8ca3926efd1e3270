package rope

// NewlineIndex records the char positions of newlines within a chunk.
// Chunks with at most MaxInlineNewlines newlines store them inline
// without allocating.
//
// Positions are uint16: MaxChunkSize bounds a chunk to 256 bytes, so
// neither the char position nor the count can overflow.
type NewlineIndex struct {
	inline [MaxInlineNewlines]uint16
	count  uint16

	positions []uint16 // Only allocated when count > MaxInlineNewlines
}

// MaxInlineNewlines is the number of newline positions stored inline.
const MaxInlineNewlines = 4

// ComputeNewlineIndex scans a string and builds a newline index.
func ComputeNewlineIndex(s string) NewlineIndex {
	var idx NewlineIndex

	count := CountLines(s)
	if count == 0 {
		return idx
	}
	idx.count = uint16(count)

	if count > MaxInlineNewlines {
		idx.positions = make([]uint16, 0, count)
	}

	char := 0
	recorded := 0
	for _, r := range s {
		if r == '\n' {
			pos := uint16(char)
			if recorded < MaxInlineNewlines {
				idx.inline[recorded] = pos
			}
			if count > MaxInlineNewlines {
				idx.positions = append(idx.positions, pos)
			}
			recorded++
		}
		char++
	}

	return idx
}

// Count returns the number of newlines.
func (idx *NewlineIndex) Count() int {
	return int(idx.count)
}

// Position returns the char offset of the nth newline (0-indexed).
// Returns -1 if n is out of range.
func (idx *NewlineIndex) Position(n int) int {
	if n < 0 || n >= int(idx.count) {
		return -1
	}
	if idx.count <= MaxInlineNewlines {
		return int(idx.inline[n])
	}
	return int(idx.positions[n])
}

// SearchLine returns the char offset of the start of line `line` within
// the chunk, or -1 if the chunk holds fewer than `line` newlines.
//
// For "abc\ndef\nghi": SearchLine(0) = 0, SearchLine(1) = 4, SearchLine(2) = 8.
func (idx *NewlineIndex) SearchLine(line int) int {
	if line == 0 {
		return 0
	}
	pos := idx.Position(line - 1)
	if pos < 0 {
		return -1
	}
	return pos + 1
}

// LinesBefore returns how many newlines sit strictly before char offset.
func (idx *NewlineIndex) LinesBefore(offset int) int {
	positions := idx.allPositions()

	// Linear search for small counts
	if len(positions) <= 8 {
		n := 0
		for _, pos := range positions {
			if int(pos) >= offset {
				break
			}
			n++
		}
		return n
	}

	lo, hi := 0, len(positions)
	for lo < hi {
		mid := (lo + hi) / 2
		if int(positions[mid]) < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// LastNewlinePosition returns the position of the last newline, or -1 if none.
func (idx *NewlineIndex) LastNewlinePosition() int {
	if idx.count == 0 {
		return -1
	}
	return idx.Position(int(idx.count) - 1)
}

func (idx *NewlineIndex) allPositions() []uint16 {
	if idx.count <= MaxInlineNewlines {
		return idx.inline[:idx.count]
	}
	return idx.positions
}
