package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/engine"
)

func TestNameCounter(t *testing.T) {
	var c NameCounter
	assert.Equal(t, "Untitled-1", c.Next())
	assert.Equal(t, "Untitled-2", c.Next())
}

func TestNameCounterConcurrent(t *testing.T) {
	var c NameCounter
	var wg sync.WaitGroup
	names := make(chan string, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names <- c.Next()
		}()
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool)
	for n := range names {
		assert.False(t, seen[n], "duplicate name %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, 100)
}

func TestNewDocument(t *testing.T) {
	m := NewManager()

	first := m.NewDocument("")
	second := m.NewDocument("hello")

	assert.Equal(t, "Untitled-1", first.Name)
	assert.Equal(t, "Untitled-2", second.Name)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.IsScratch())
	assert.Equal(t, "hello", second.Content())
	assert.False(t, second.IsModified())
	assert.Same(t, second, m.Active())
	assert.Equal(t, 2, m.Count())
}

func TestNewDocumentKeepsCarriageReturns(t *testing.T) {
	doc := NewManager().NewDocument("x\r\ny")
	assert.Equal(t, "x\r\ny", doc.Content())
}

func TestRead(t *testing.T) {
	m := NewManager()

	doc, err := m.Read(strings.NewReader("a\r\nb\r\n"))
	require.NoError(t, err)

	assert.Equal(t, "Untitled-1", doc.Name)
	assert.True(t, doc.IsScratch())
	assert.Equal(t, "a\nb\n", doc.Content())
	assert.Equal(t, "a\r\nb\r\n", doc.Engine.Export())
	assert.Same(t, doc, m.Active())

	boom := errors.New("boom")
	_, err = m.Read(iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.Count())
}

func TestSharedNameCounter(t *testing.T) {
	names := &NameCounter{}
	a := NewManager(WithNameCounter(names))
	b := NewManager(WithNameCounter(names))

	assert.Equal(t, "Untitled-1", a.NewDocument("").Name)
	assert.Equal(t, "Untitled-2", b.NewDocument("").Name)
}

func TestEngineOptions(t *testing.T) {
	m := NewManager(WithEngineOptions(engine.WithTabWidth(8), engine.WithCoalescing(true)))
	doc := m.NewDocument("")

	assert.Equal(t, 8, doc.Engine.TabWidth())
	doc.Engine.InsertString("a")
	doc.Engine.InsertString("b")
	assert.Equal(t, 1, doc.Engine.UndoLen())
}

func TestOpenAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("one\r\ntwo\r\n"), 0o644))

	m := NewManager()
	doc, err := m.Open(path)
	require.NoError(t, err)

	assert.Equal(t, "notes.md", doc.Name)
	assert.Equal(t, "one\ntwo\n", doc.Content())
	assert.False(t, doc.IsModified())

	doc.Engine.MoveToEnd(false)
	doc.Engine.InsertString("three")
	assert.True(t, doc.IsModified())
	assert.Len(t, m.Dirty(), 1)

	require.NoError(t, m.Save(doc.ID))
	assert.False(t, doc.IsModified())
	assert.Empty(t, m.Dirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\r\ntwo\r\nthree", string(data))
}

func TestOpenTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	m := NewManager()
	first, err := m.Open(path)
	require.NoError(t, err)
	m.NewDocument("")

	again, err := m.Open(path)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Same(t, first, m.Active())
	assert.Equal(t, 2, m.Count())
}

func TestOpenMissing(t *testing.T) {
	m := NewManager()
	_, err := m.Open(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveScratch(t *testing.T) {
	m := NewManager()
	doc := m.NewDocument("draft")

	assert.ErrorIs(t, m.Save(doc.ID), ErrNoPath)
	assert.ErrorIs(t, m.Save(uuid.New()), ErrDocumentNotFound)

	path := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, m.SaveAs(doc.ID, path))
	assert.Equal(t, "draft.txt", doc.Name)
	assert.False(t, doc.IsScratch())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "draft", string(data))
}

func TestCloseActivatesLast(t *testing.T) {
	m := NewManager()
	a := m.NewDocument("a")
	b := m.NewDocument("b")
	c := m.NewDocument("c")

	require.NoError(t, m.SetActive(b.ID))
	require.NoError(t, m.Close(b.ID))
	assert.Same(t, c, m.Active())

	require.NoError(t, m.Close(a.ID))
	assert.Same(t, c, m.Active())

	require.NoError(t, m.Close(c.ID))
	assert.Nil(t, m.Active())

	_, err := m.ActiveOrError()
	assert.ErrorIs(t, err, ErrNoActiveDocument)
	assert.ErrorIs(t, m.Close(c.ID), ErrDocumentNotFound)
}

func TestCycle(t *testing.T) {
	m := NewManager()
	assert.Nil(t, m.Next())

	a := m.NewDocument("a")
	b := m.NewDocument("b")
	c := m.NewDocument("c")

	assert.Same(t, a, m.Next())
	assert.Same(t, b, m.Next())
	assert.Same(t, a, m.Previous())
	assert.Same(t, c, m.Previous())

	all := m.All()
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
}

func TestSetActiveUnknown(t *testing.T) {
	m := NewManager()
	assert.ErrorIs(t, m.SetActive(uuid.New()), ErrDocumentNotFound)
}

func TestClipboard(t *testing.T) {
	doc := NewManager().NewDocument("hello world")

	_, ok := doc.Copy()
	assert.False(t, ok)

	doc.Engine.SetSelection(0, 5)
	text, ok := doc.Copy()
	require.True(t, ok)
	assert.Equal(t, "hello", text)

	text, ok = doc.Cut()
	require.True(t, ok)
	assert.Equal(t, "hello", text)
	assert.Equal(t, " world", doc.Content())

	assert.False(t, doc.Paste(""))
	assert.True(t, doc.Paste("bye"))
	assert.Equal(t, "bye world", doc.Content())
}

func TestSelectionLineCol(t *testing.T) {
	doc := NewManager().NewDocument("ab\ncd\nef")

	_, _, ok := doc.SelectionLineCol()
	assert.False(t, ok)

	doc.Engine.SetSelection(7, 1)
	start, end, ok := doc.SelectionLineCol()
	require.True(t, ok)
	assert.Equal(t, engine.Point{Line: 0, Column: 1}, start)
	assert.Equal(t, engine.Point{Line: 2, Column: 1}, end)
}

func TestState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc\ndefg\n"), 0o644))

	m := NewManager()
	doc, err := m.Open(path)
	require.NoError(t, err)

	doc.Engine.SetCursorLineCol(1, 3, false)
	state, ok := doc.ExportState()
	require.True(t, ok)
	assert.Equal(t, State{Path: doc.Path, CursorLine: 1, CursorCol: 3}, state)

	doc.Engine.SetCursor(0)
	doc.ApplyState(State{CursorLine: 1, CursorCol: 99})
	line, col := doc.CursorLineCol()
	assert.Equal(t, 1, line)
	assert.Equal(t, 4, col)

	_, ok = m.NewDocument("").ExportState()
	assert.False(t, ok)
}
