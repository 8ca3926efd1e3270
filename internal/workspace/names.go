package workspace

import (
	"strconv"
	"sync/atomic"
)

// NameCounter hands out display names for scratch documents.
// It is safe for concurrent use.
type NameCounter struct {
	n atomic.Int64
}

// Next returns "Untitled-1", "Untitled-2", ...
func (c *NameCounter) Next() string {
	return "Untitled-" + strconv.FormatInt(c.n.Add(1), 10)
}
