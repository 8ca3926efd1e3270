// Package buffer provides a thread-safe text buffer built on top of the rope
// data structure. It serves as the storage layer of the editing engine.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Char-offset addressing (one char is one Unicode scalar value)
//   - Line ending normalization on load and restoration on export
//   - Read-only snapshots for concurrent access
//   - Revision tracking for change detection
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	go func() {
//	    text := snap.Text()
//	    // Process text...
//	}()
//
// Line endings:
//
// Lines are separated by '\n'. Text read through NewBufferFromReader has its
// "\r\n" and "\r" endings converted, and the detected style is kept so that
// Export can reproduce it when saving. Strings handed to NewBufferFromString
// or Insert are stored verbatim.
package buffer
