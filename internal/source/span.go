package source

import (
	"fmt"
)

type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether off lies inside [Start, End).
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// SpanOf builds a span from two positions of the same file.
func SpanOf(file FileID, start, end Pos) Span {
	if end.Offset < start.Offset {
		end = start
	}
	return Span{File: file, Start: start.Offset, End: end.Offset}
}
