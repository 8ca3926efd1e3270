package cursor

import (
	"fmt"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection is the cursor of a document together with an optional anchor.
// Head is the cursor position (where typing occurs). When HasAnchor is set,
// the text between Anchor and Head is selected.
// Selection is an immutable value type.
type Selection struct {
	Anchor    int  // Where selection started; meaningful only with HasAnchor
	Head      int  // Current cursor position
	HasAnchor bool // Whether an anchor is set
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head, HasAnchor: true}
}

// NewCursorSelection creates a bare cursor with no anchor.
func NewCursorSelection(offset int) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// NewRangeSelection creates a forward selection covering the given range.
func NewRangeSelection(r Range) Selection {
	return NewSelection(r.Start, r.End)
}

// Cursor returns the cursor position.
func (s Selection) Cursor() int {
	return s.Head
}

// HasSelection returns true if an anchor is set and differs from the head.
func (s Selection) HasSelection() bool {
	return s.HasAnchor && s.Anchor != s.Head
}

// IsEmpty returns true if nothing is selected.
func (s Selection) IsEmpty() bool {
	return !s.HasSelection()
}

// Len returns the number of selected chars.
func (s Selection) Len() int {
	return s.Range().Len()
}

// Range returns the selected range (always Start <= End).
// Without a selection the range is collapsed at the cursor.
func (s Selection) Range() Range {
	if !s.HasSelection() {
		return Range{Start: s.Head, End: s.Head}
	}
	return buffer.NewRange(s.Anchor, s.Head)
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return s.Range().Start
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	return s.Range().End
}

// IsForward returns true if the head is at or after the anchor.
func (s Selection) IsForward() bool {
	return !s.HasAnchor || s.Head >= s.Anchor
}

// IsBackward returns true if the head is before the anchor.
func (s Selection) IsBackward() bool {
	return !s.IsForward()
}

// StartSelection sets the anchor at the head unless one is already set.
func (s Selection) StartSelection() Selection {
	if s.HasAnchor {
		return s
	}
	return Selection{Anchor: s.Head, Head: s.Head, HasAnchor: true}
}

// ClearSelection drops the anchor and keeps the cursor.
func (s Selection) ClearSelection() Selection {
	return NewCursorSelection(s.Head)
}

// MoveTo moves the head to offset, keeping the anchor state.
func (s Selection) MoveTo(offset int) Selection {
	s.Head = offset
	if !s.HasAnchor {
		s.Anchor = offset
	}
	return s
}

// Extend starts a selection if needed and moves the head to offset.
func (s Selection) Extend(offset int) Selection {
	return s.StartSelection().MoveTo(offset)
}

// Collapse returns a bare cursor at the given offset.
func (s Selection) Collapse(offset int) Selection {
	return NewCursorSelection(offset)
}

// CollapseToStart returns a bare cursor at the lower bound.
func (s Selection) CollapseToStart() Selection {
	return NewCursorSelection(s.Start())
}

// CollapseToEnd returns a bare cursor at the upper bound.
func (s Selection) CollapseToEnd() Selection {
	return NewCursorSelection(s.End())
}

// Shift moves both anchor and head by delta.
func (s Selection) Shift(delta int) Selection {
	s.Anchor += delta
	s.Head += delta
	return s
}

// Clamp returns a selection with both ends clamped to [0, maxOffset].
func (s Selection) Clamp(maxOffset int) Selection {
	s.Anchor = min(max(s.Anchor, 0), maxOffset)
	s.Head = min(max(s.Head, 0), maxOffset)
	return s
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if !s.HasAnchor {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}

// Equals returns true if two selections have the same anchor state and head.
func (s Selection) Equals(other Selection) bool {
	if s.HasAnchor != other.HasAnchor || s.Head != other.Head {
		return false
	}
	return !s.HasAnchor || s.Anchor == other.Anchor
}

// SameRange returns true if two selections cover the same range,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Range() == other.Range()
}
