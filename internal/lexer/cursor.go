package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"yamlcheck/internal/source"
)

// Cursor представляет собой позицию в файле
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off. The scanner lowers it to the
	// first byte of an invalid UTF-8 sequence.
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF проверяет, достигнут ли конец входа
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// PeekAt читает байт со смещением k от курсора; за пределами входа возвращает 0
func (c *Cursor) PeekAt(k uint32) byte {
	if c.Off+k >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+k]
}

// HasPrefix reports whether the input at the cursor starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	n, err := safecast.Conv[uint32](len(s))
	if err != nil || c.Off+n > c.Limit {
		return false
	}
	return string(c.File.Content[c.Off:c.Off+n]) == s
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// BumpN advances n bytes, stopping at Limit.
func (c *Cursor) BumpN(n uint32) {
	c.Off = min(c.Off+n, c.Limit)
}

// Mark это метка, чтобы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
