package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	// FileTranscoded marks input that arrived as UTF-16 and was converted to UTF-8.
	FileTranscoded
)

// File captures metadata and content for a single document.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Pos is a zero-based position inside a document.
// Col counts runes from the start of the line, Offset counts bytes.
type Pos struct {
	Offset uint32
	Line   uint32
	Col    uint32
}

// LineCol converts the position to its 1-based display form.
func (p Pos) LineCol() LineCol {
	return LineCol{Line: p.Line + 1, Col: p.Col + 1}
}

// Before reports whether p sorts strictly before other.
func (p Pos) Before(other Pos) bool {
	return p.Offset < other.Offset
}
