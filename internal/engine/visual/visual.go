// Package visual converts between char columns and display columns.
//
// A display column accounts for tab stops and for characters that occupy
// zero or two terminal cells. Grapheme clusters are measured as a whole, so a
// base letter with combining marks or a ZWJ emoji sequence has a single width.
package visual

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// DefaultTabWidth is the tab stop interval used when none is configured.
const DefaultTabWidth = 4

// CharWidth returns the number of cells r occupies when drawn at display
// column col. A tab advances to the next tab stop.
func CharWidth(r rune, col, tabWidth int) int {
	if r == '\t' {
		return tabAdvance(col, tabWidth)
	}
	return uniseg.StringWidth(string(r))
}

func tabAdvance(col, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return tabWidth - col%tabWidth
}

// clusterWidth returns the width of a grapheme cluster at display column col.
func clusterWidth(cluster string, width, col, tabWidth int) int {
	if cluster == "\t" {
		return tabAdvance(col, tabWidth)
	}
	return width
}

// ColumnOf returns the display column of char column charCol in line.
// A char column inside a grapheme cluster maps to the cluster's start.
// charCol is clamped to the line.
func ColumnOf(line string, charCol, tabWidth int) int {
	col, chars := 0, 0
	state := -1
	rest := line
	for rest != "" {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		n := utf8.RuneCountInString(cluster)
		if chars+n > charCol {
			break
		}
		col += clusterWidth(cluster, width, col, tabWidth)
		chars += n
	}
	return col
}

// CharColumnAt returns the char column drawn at display column visualCol.
// A display column inside a wide character or tab maps to that character.
// Columns past the end of the line return the line's char length.
func CharColumnAt(line string, visualCol, tabWidth int) int {
	col, chars := 0, 0
	state := -1
	rest := line
	for rest != "" {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := clusterWidth(cluster, width, col, tabWidth)
		if col+w > visualCol {
			return chars
		}
		col += w
		chars += utf8.RuneCountInString(cluster)
	}
	return chars
}

// Width returns the display width of line.
func Width(line string, tabWidth int) int {
	return ColumnOf(line, utf8.RuneCountInString(line), tabWidth)
}
