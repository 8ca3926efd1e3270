package buffer

import (
	"strings"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.LenChars() != 0 {
		t.Errorf("expected length 0, got %d", b.LenChars())
	}
	if b.LenLines() != 1 {
		t.Errorf("expected 1 line, got %d", b.LenLines())
	}
}

func TestNewBufferFromString(t *testing.T) {
	text := "Hello, 世界!"
	b := NewBufferFromString(text)

	if b.Text() != text {
		t.Errorf("expected %q, got %q", text, b.Text())
	}
	if b.LenChars() != 10 {
		t.Errorf("expected 10 chars, got %d", b.LenChars())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LenLines() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LenLines())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(i); got != want {
			t.Errorf("LineText(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("a\r\nb\r\n"))
	if err != nil {
		t.Fatalf("NewBufferFromReader: %v", err)
	}
	if b.Text() != "a\nb\n" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}
	if b.LineEnding() != LineEndingCRLF {
		t.Errorf("expected CRLF detected, got %v", b.LineEnding())
	}
	if b.Export() != "a\r\nb\r\n" {
		t.Errorf("expected CRLF export, got %q", b.Export())
	}
}

func TestBufferInsert(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		offset  int
		text    string
		want    string
		wantEnd int
	}{
		{"middle", "Hello World", 5, ",", "Hello, World", 6},
		{"start", "World", 0, "Hello ", "Hello World", 6},
		{"end", "Hello", 5, " World", "Hello World", 11},
		{"past end clamps", "Hello", 99, "!", "Hello!", 6},
		{"negative clamps", "Hello", -3, ">", ">Hello", 1},
		{"multibyte", "日本", 1, "é", "日é本", 2},
		{"empty text", "abc", 1, "", "abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.initial)
			end := b.Insert(tt.offset, tt.text)
			if end != tt.wantEnd {
				t.Errorf("end = %d, want %d", end, tt.wantEnd)
			}
			if b.Text() != tt.want {
				t.Errorf("text = %q, want %q", b.Text(), tt.want)
			}
		})
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBufferFromString("Hello, 世界")

	removed := b.Delete(5, 7)
	if removed != ", " {
		t.Errorf("removed %q, want %q", removed, ", ")
	}
	if b.Text() != "Hello世界" {
		t.Errorf("expected 'Hello世界', got %q", b.Text())
	}

	// Reversed and out of range endpoints are clamped.
	removed = b.Delete(99, 5)
	if removed != "世界" {
		t.Errorf("removed %q, want %q", removed, "世界")
	}
	if b.Text() != "Hello" {
		t.Errorf("expected 'Hello', got %q", b.Text())
	}
}

func TestBufferDeleteEmptyRange(t *testing.T) {
	b := NewBufferFromString("abc")
	rev := b.Revision()

	if removed := b.Delete(1, 1); removed != "" {
		t.Errorf("expected nothing removed, got %q", removed)
	}
	if b.Revision() != rev {
		t.Error("empty delete should not bump the revision")
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello World")

	removed := b.Replace(6, 11, "Go")
	if removed != "World" {
		t.Errorf("removed %q, want %q", removed, "World")
	}
	if b.Text() != "Hello Go" {
		t.Errorf("expected 'Hello Go', got %q", b.Text())
	}
}

func TestBufferLineOperations(t *testing.T) {
	b := NewBufferFromString("abc\ndefgh\nij")

	tests := []struct {
		line          int
		start         int
		lineLen       int
		effectiveLen  int
		lineWithBreak string
	}{
		{0, 0, 4, 3, "abc\n"},
		{1, 4, 6, 5, "defgh\n"},
		{2, 10, 2, 2, "ij"},
	}

	for _, tt := range tests {
		if got := b.LineToChar(tt.line); got != tt.start {
			t.Errorf("LineToChar(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := b.LineLen(tt.line); got != tt.lineLen {
			t.Errorf("LineLen(%d) = %d, want %d", tt.line, got, tt.lineLen)
		}
		if got := b.EffectiveLineLen(tt.line); got != tt.effectiveLen {
			t.Errorf("EffectiveLineLen(%d) = %d, want %d", tt.line, got, tt.effectiveLen)
		}
		if got := b.Line(tt.line); got != tt.lineWithBreak {
			t.Errorf("Line(%d) = %q, want %q", tt.line, got, tt.lineWithBreak)
		}
	}

	if got := b.CharToLine(12); got != 2 {
		t.Errorf("CharToLine(12) = %d, want 2", got)
	}
}

func TestBufferCharAt(t *testing.T) {
	b := NewBufferFromString("a世b")

	r, ok := b.CharAt(1)
	if !ok || r != '世' {
		t.Errorf("CharAt(1) = %q, %v", r, ok)
	}
	if _, ok := b.CharAt(3); ok {
		t.Error("CharAt past end should report false")
	}
}

func TestBufferPointConversion(t *testing.T) {
	b := NewBufferFromString("abc\ndefgh\nij")

	tests := []struct {
		offset int
		point  Point
	}{
		{0, Point{Line: 0, Column: 0}},
		{3, Point{Line: 0, Column: 3}},
		{4, Point{Line: 1, Column: 0}},
		{7, Point{Line: 1, Column: 3}},
		{12, Point{Line: 2, Column: 2}},
	}

	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.point {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.point)
		}
		if got := b.PointToOffset(tt.point); got != tt.offset {
			t.Errorf("PointToOffset(%v) = %d, want %d", tt.point, got, tt.offset)
		}
	}
}

func TestBufferCursor(t *testing.T) {
	b := NewBufferFromString("hello")
	c := b.Cursor(1)

	r, ok := c.Next()
	if !ok || r != 'e' {
		t.Errorf("Next() = %q, %v; want 'e'", r, ok)
	}
}

func TestBufferSnapshot(t *testing.T) {
	b := NewBufferFromString("Hello")
	snap := b.Snapshot()

	b.Insert(5, " World")

	if snap.Text() != "Hello" {
		t.Errorf("snapshot should have 'Hello', got %q", snap.Text())
	}
	if b.Text() != "Hello World" {
		t.Errorf("buffer should have 'Hello World', got %q", b.Text())
	}
	if snap.Revision() == b.Revision() {
		t.Error("snapshot revision should lag behind the buffer")
	}
}

func TestBufferSnapshotOperations(t *testing.T) {
	b := NewBufferFromString("abc\ndefgh\nij")
	snap := b.Snapshot()

	if snap.LenChars() != 12 {
		t.Errorf("expected 12 chars, got %d", snap.LenChars())
	}
	if snap.LenLines() != 3 {
		t.Errorf("expected 3 lines, got %d", snap.LenLines())
	}
	if snap.LineText(1) != "defgh" {
		t.Errorf("expected 'defgh', got %q", snap.LineText(1))
	}
	if snap.TextRange(4, 6) != "de" {
		t.Errorf("expected 'de', got %q", snap.TextRange(4, 6))
	}
	p := snap.OffsetToPoint(7)
	if p.Line != 1 || p.Column != 3 {
		t.Errorf("expected (1:3), got %v", p)
	}
	if snap.PointToOffset(p) != 7 {
		t.Errorf("expected 7, got %d", snap.PointToOffset(p))
	}
}

func TestBufferLineEndingNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "line1\r\nline2\r\n", "line1\nline2\n"},
		{"cr", "line1\rline2\r", "line1\nline2\n"},
		{"mixed", "a\r\nb\rc\n", "a\nb\nc\n"},
		{"invalid utf8", "a\xffb", "a�b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
			b, err := NewBufferFromReader(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Text() != tt.want {
				t.Errorf("got %q, want %q", b.Text(), tt.want)
			}
		})
	}
}

func TestBufferFromStringVerbatim(t *testing.T) {
	b := NewBufferFromString("a\r\nb\rc")
	if b.Text() != "a\r\nb\rc" {
		t.Errorf("got %q, want carriage returns kept", b.Text())
	}
	if b.LenChars() != 6 {
		t.Errorf("expected 6 chars, got %d", b.LenChars())
	}

	b = NewBufferFromString("a\xffb")
	if b.Text() != "a\uFFFDb" {
		t.Errorf("invalid UTF-8 should be replaced, got %q", b.Text())
	}
}

func TestBufferExport(t *testing.T) {
	b := NewBufferFromString("line1\nline2", WithCRLF())

	if b.Text() != "line1\nline2" {
		t.Errorf("stored text should use LF, got %q", b.Text())
	}
	if b.Export() != "line1\r\nline2" {
		t.Errorf("expected CRLF export, got %q", b.Export())
	}

	b.SetLineEnding(LineEndingCR)
	if b.Export() != "line1\rline2" {
		t.Errorf("expected CR export, got %q", b.Export())
	}
}

func TestBufferRevision(t *testing.T) {
	b := NewBuffer()
	rev1 := b.Revision()

	b.Insert(0, "Hello")
	rev2 := b.Revision()
	if rev1 == rev2 {
		t.Error("revision should change after insert")
	}

	b.Delete(0, 5)
	if rev2 == b.Revision() {
		t.Error("revision should change after delete")
	}
}

func TestBufferConcurrentRead(t *testing.T) {
	b := NewBufferFromString("Hello World")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Text()
			_ = b.LenChars()
			_ = b.LenLines()
		}()
	}
	wg.Wait()
}

func TestBufferConcurrentReadWrite(t *testing.T) {
	b := NewBufferFromString("Hello")

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				b.Insert(0, "X")
			}
		}()
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = b.Text()
			}
		}()
	}

	wg.Wait()

	if n := strings.Count(b.Text(), "X"); n != 100 {
		t.Errorf("expected 100 X's, got %d", n)
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text     string
		expected LineEnding
	}{
		{"no newlines", LineEndingLF},
		{"unix\nstyle\n", LineEndingLF},
		{"windows\r\nstyle\r\n", LineEndingCRLF},
		{"old mac\rstyle\r", LineEndingCR},
		{"mixed\r\nmore\nlines", LineEndingCRLF},
	}

	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.expected {
			t.Errorf("DetectLineEnding(%q) = %v, want %v", tt.text, got, tt.expected)
		}
	}
}

func TestRangeOperations(t *testing.T) {
	r := NewRange(10, 4)

	if r.Start != 4 || r.End != 10 {
		t.Errorf("NewRange should order endpoints, got %v", r)
	}
	if r.Len() != 6 {
		t.Errorf("expected len 6, got %d", r.Len())
	}
	if !r.Contains(4) || r.Contains(10) {
		t.Error("range should be half-open")
	}
	if r.IsEmpty() {
		t.Error("range should not be empty")
	}
	if s := r.Shift(2); s.Start != 6 || s.End != 12 {
		t.Errorf("unexpected shift result %v", s)
	}
	if r.String() != "[4:10)" {
		t.Errorf("unexpected string %q", r.String())
	}
}
