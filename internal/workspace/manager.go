package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/engine"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNameCounter shares a scratch name counter between managers.
func WithNameCounter(c *NameCounter) Option {
	return func(m *Manager) {
		if c != nil {
			m.names = c
		}
	}
}

// WithEngineOptions sets options applied to every new document engine.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// Manager tracks the open documents and which one is active.
// It is safe for concurrent use; each Document's engine is not.
type Manager struct {
	mu         sync.RWMutex
	documents  map[uuid.UUID]*Document
	order      []uuid.UUID
	active     *Document
	names      *NameCounter
	engineOpts []engine.Option
}

// NewManager creates an empty workspace.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		documents: make(map[uuid.UUID]*Document),
		names:     &NameCounter{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewDocument creates a scratch document holding content and makes it
// active.
func (m *Manager) NewDocument(content string) *Document {
	opts := append(slices.Clone(m.engineOpts), engine.WithContent(content))
	doc := newDocument(m.names.Next(), "", engine.New(opts...))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(doc)
	return doc
}

// Read creates a scratch document from r and makes it active. Line endings
// are normalized to '\n' the same way Open does.
func (m *Manager) Read(r io.Reader) (*Document, error) {
	eng, err := engine.NewFromReader(r, m.engineOpts...)
	if err != nil {
		return nil, err
	}
	doc := newDocument(m.names.Next(), "", eng)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(doc)
	return doc, nil
}

// Open opens a file. A file that is already open is made active and
// returned as is. Line endings are normalized to '\n'; the original style is
// kept for Save.
func (m *Manager) Open(path string) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if doc := m.findByPath(absPath); doc != nil {
		m.active = doc
		return doc, nil
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	eng, err := engine.NewFromReader(f, m.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	doc := newDocument(filepath.Base(absPath), absPath, eng)
	m.add(doc)
	return doc, nil
}

// Save writes a document to its path.
func (m *Manager) Save(id uuid.UUID) error {
	doc, ok := m.Get(id)
	if !ok {
		return ErrDocumentNotFound
	}
	if doc.IsScratch() {
		return ErrNoPath
	}
	return writeDocument(doc, doc.Path)
}

// SaveAs writes a document to path and adopts it as the document's path.
func (m *Manager) SaveAs(id uuid.UUID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	doc, ok := m.Get(id)
	if !ok {
		return ErrDocumentNotFound
	}
	if err := writeDocument(doc, absPath); err != nil {
		return err
	}

	m.mu.Lock()
	doc.setPath(absPath)
	m.mu.Unlock()
	return nil
}

func writeDocument(doc *Document, path string) error {
	if err := os.WriteFile(path, []byte(doc.Engine.Export()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	doc.MarkSaved()
	return nil
}

// Close removes a document. If it was active, the most recently opened
// remaining document becomes active.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[id]
	if !exists {
		return ErrDocumentNotFound
	}

	delete(m.documents, id)
	m.order = slices.DeleteFunc(m.order, func(other uuid.UUID) bool { return other == id })

	if m.active == doc {
		m.active = nil
		if n := len(m.order); n > 0 {
			m.active = m.documents[m.order[n-1]]
		}
	}
	return nil
}

// Get returns a document by ID.
func (m *Manager) Get(id uuid.UUID) (*Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, exists := m.documents[id]
	return doc, exists
}

// Active returns the active document, or nil.
func (m *Manager) Active() *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// ActiveOrError returns the active document or ErrNoActiveDocument.
func (m *Manager) ActiveOrError() (*Document, error) {
	if doc := m.Active(); doc != nil {
		return doc, nil
	}
	return nil, ErrNoActiveDocument
}

// SetActive makes the document with the given ID active.
func (m *Manager) SetActive(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[id]
	if !exists {
		return ErrDocumentNotFound
	}
	m.active = doc
	return nil
}

// All returns the open documents in the order they were opened.
func (m *Manager) All() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.order))
	for _, id := range m.order {
		docs = append(docs, m.documents[id])
	}
	return docs
}

// Count returns the number of open documents.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}

// Dirty returns the documents with unsaved changes.
func (m *Manager) Dirty() []*Document {
	var dirty []*Document
	for _, doc := range m.All() {
		if doc.IsModified() {
			dirty = append(dirty, doc)
		}
	}
	return dirty
}

// Next activates and returns the document after the active one, wrapping
// around.
func (m *Manager) Next() *Document {
	return m.cycle(1)
}

// Previous activates and returns the document before the active one,
// wrapping around.
func (m *Manager) Previous() *Document {
	return m.cycle(-1)
}

func (m *Manager) cycle(step int) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.order) == 0 || m.active == nil {
		return nil
	}
	i := slices.Index(m.order, m.active.ID)
	if i < 0 {
		return m.active
	}
	n := len(m.order)
	m.active = m.documents[m.order[((i+step)%n+n)%n]]
	return m.active
}

// add registers doc and makes it active. Callers hold m.mu.
func (m *Manager) add(doc *Document) {
	m.documents[doc.ID] = doc
	m.order = append(m.order, doc.ID)
	m.active = doc
}

func (m *Manager) findByPath(path string) *Document {
	for _, id := range m.order {
		if doc := m.documents[id]; doc.Path == path {
			return doc
		}
	}
	return nil
}
