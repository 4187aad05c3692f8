package token

import (
	"strings"

	"yamlcheck/internal/source"
)

// Token represents a single lexical token with its location.
type Token struct {
	Kind   Kind
	Style  Style
	Flags  Flags
	Span   source.Span
	Start  source.Pos
	End    source.Pos
	// Indent is the indentation width of the line the token starts on.
	Indent int
	Text   string
}

// Has reports whether all bits of f are set.
func (t Token) Has(f Flags) bool { return t.Flags&f == f }

// Width is the column width of an Indent token.
func (t Token) Width() int {
	return int(t.End.Col - t.Start.Col)
}

// IsContent reports tokens that may begin a node.
func (t Token) IsContent() bool {
	switch t.Kind {
	case Scalar, Alias, LBracket, LBrace, Anchor, Tag:
		return true
	default:
		return false
	}
}

// Value returns the scalar content without quotes and with escapes resolved.
// Line breaks inside quotes fold before escapes are resolved, so an escaped
// "\n" survives as a newline. Block scalar headers and non-scalars return
// Text unchanged.
func (t Token) Value() string {
	if t.Kind != Scalar {
		return t.Text
	}
	switch t.Style {
	case StyleSingleQuoted:
		s := strings.TrimPrefix(t.Text, "'")
		if !t.Has(FlagUnterminated) {
			s = strings.TrimSuffix(s, "'")
		}
		return foldLines(strings.ReplaceAll(s, "''", "'"), false)
	case StyleDoubleQuoted:
		s := strings.TrimPrefix(t.Text, `"`)
		if !t.Has(FlagUnterminated) {
			s = strings.TrimSuffix(s, `"`)
		}
		return unescapeDouble(foldLines(s, true))
	default:
		return t.Text
	}
}

// foldLines joins multi-line quoted content the way flow scalars fold: one
// break becomes a space, each empty line a newline. With escapes set a line
// ending in an unescaped backslash joins the next one without a space.
func foldLines(s string, escapes bool) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	var b strings.Builder
	breaks := 0
	joined := false
	for i, line := range lines {
		first, last := i == 0, i == len(lines)-1
		if !first {
			line = strings.TrimLeft(line, " \t")
		}
		glue := false
		if !last {
			if escapes && oddBackslashes(line) {
				line = line[:len(line)-1]
				glue = true
			} else {
				line = strings.TrimRight(line, " \t")
			}
		}
		if !first && !last && line == "" && !glue {
			breaks++
			continue
		}
		if !first {
			switch {
			case breaks > 0:
				b.WriteString(strings.Repeat("\n", breaks))
			case !joined:
				b.WriteByte(' ')
			}
		}
		b.WriteString(line)
		breaks, joined = 0, glue
	}
	return b.String()
}

// oddBackslashes reports a line ending in an odd run of backslashes.
func oddBackslashes(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func unescapeDouble(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '"', '\\', '/', ' ':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
