package source

import (
	"path/filepath"
	"slices"
	"unicode/utf8"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/16+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// lineStart returns the byte offset of the 0-based line.
func lineStart(lineIdx []uint32, line int) uint32 {
	if line <= 0 {
		return 0
	}
	return lineIdx[line-1] + 1
}

// toPos resolves a byte offset into a zero-based position, counting columns in runes.
func toPos(content []byte, lineIdx []uint32, off uint32) Pos {
	if n := uint32(len(content)); off > n {
		off = n
	}
	// бинпоиск: число переводов строки строго до off
	line, _ := slices.BinarySearch(lineIdx, off)
	start := lineStart(lineIdx, line)
	col := uint32(utf8.RuneCount(content[start:off]))
	return Pos{Offset: off, Line: uint32(line), Col: col}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the cleaned absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir, or the absolute path when p lies outside it.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return normalizePath(abs), nil
	}
	if rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return normalizePath(abs), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of p.
func BaseName(p string) string {
	return filepath.Base(p)
}
