package source

import "testing"

func TestDecodeUTF16(t *testing.T) {
	le := []byte{0xFF, 0xFE, 'a', 0, ':', 0, ' ', 0, '1', 0}
	be := []byte{0xFE, 0xFF, 0, 'a', 0, ':', 0, ' ', 0, '1'}
	for name, in := range map[string][]byte{"le": le, "be": be} {
		t.Run(name, func(t *testing.T) {
			out, flags, err := Decode(in)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if string(out) != "a: 1" {
				t.Errorf("got %q", out)
			}
			if flags&FileTranscoded == 0 {
				t.Errorf("expected FileTranscoded flag")
			}
		})
	}
}

func TestFirstInvalidUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"a: b", -1},
		{"ключ: значение", -1},
		{"a: \xff", 3},
		{"ok\n\xc3", 3},
	}
	for _, tt := range tests {
		if got := FirstInvalidUTF8([]byte(tt.in)); got != tt.want {
			t.Errorf("FirstInvalidUTF8(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
