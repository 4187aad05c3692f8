package source

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode strips a byte order mark, transcodes UTF-16 input to UTF-8 and
// normalizes CRLF line endings. The returned flags describe what was changed.
// Invalid UTF-8 is left in place; the scanner reports it.
func Decode(content []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		content = content[len(bomUTF8):]
		flags |= FileHadBOM
	case bytes.HasPrefix(content, bomUTF16LE):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(content)
		if err != nil {
			return nil, flags, fmt.Errorf("decode utf-16le: %w", err)
		}
		content = out
		flags |= FileHadBOM | FileTranscoded
	case bytes.HasPrefix(content, bomUTF16BE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(content)
		if err != nil {
			return nil, flags, fmt.Errorf("decode utf-16be: %w", err)
		}
		content = out
		flags |= FileHadBOM | FileTranscoded
	}

	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags, nil
}

// FirstInvalidUTF8 returns the offset of the first byte that does not start
// a valid UTF-8 sequence, or -1 when the content is well formed.
func FirstInvalidUTF8(content []byte) int {
	if utf8.Valid(content) {
		return -1
	}
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
