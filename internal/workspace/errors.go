package workspace

import "errors"

var (
	// ErrDocumentNotFound indicates a document was not found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrNoActiveDocument indicates no document is currently active.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrNoPath indicates a scratch document was saved without a path.
	ErrNoPath = errors.New("document has no path")
)
