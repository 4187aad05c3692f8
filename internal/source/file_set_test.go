package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("catalog.yaml", []byte("a: 1"), 0)
	id2 := fs.Add("catalog.yaml", []byte("a: 2"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("catalog.yaml")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "a: 1" {
		t.Errorf("old version content = %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Errorf("expected nil for unknown id")
	}
}

func TestFilePos(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.yaml", []byte("ключ: 1\nb: é\n"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want Pos
	}{
		{0, Pos{Offset: 0, Line: 0, Col: 0}},
		{8, Pos{Offset: 8, Line: 0, Col: 4}},  // ':' after four cyrillic runes
		{11, Pos{Offset: 11, Line: 0, Col: 7}}, // the newline itself
		{12, Pos{Offset: 12, Line: 1, Col: 0}},
		{15, Pos{Offset: 15, Line: 1, Col: 3}},
		{17, Pos{Offset: 17, Line: 1, Col: 4}},
		{100, Pos{Offset: 18, Line: 2, Col: 0}},
	}
	for _, tt := range tests {
		if got := f.Pos(tt.off); got != tt.want {
			t.Errorf("Pos(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}

	start, end := fs.Resolve(Span{File: id, Start: 12, End: 15})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 4}) {
		t.Errorf("Resolve = %+v..%+v", start, end)
	}
}

func TestGetLineAndCount(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("l.yaml", []byte("a\nbb\nccc")))
	if f.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", f.LineCount())
	}
	for i, want := range []string{"", "a", "bb", "ccc", ""} {
		if got := f.GetLine(uint32(i)); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i, got, want)
		}
	}

	f = fs.Get(fs.AddVirtual("t.yaml", []byte("a\n")))
	if f.LineCount() != 1 {
		t.Errorf("LineCount with trailing newline = %d, want 1", f.LineCount())
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.yaml")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa: 1\r\nb: 2\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a: 1\nb: 2\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF", f.Flags)
	}
}
