package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

// seeds cover every token kind and the recovery paths of the parser.
var seeds = []string{
	"",
	"a: 1\n",
	"a:\n  b: 1\n  c:\n    - x\n    - y\n",
	"a:\n   b: 1\n: x\n",
	"- a\n- b: c\n  d: e\n-\n  - nested\n",
	"? complex\n: value\n?\n: empty\n",
	"k: [a, b, {c: d}]\nm: {x: 1, y: [2, 3]}\n",
	"k: [a, b\n",
	"k: ['a' 'b' 'c'\n",
	"lit: |\n  line one\n  line two\nfold: >-\n  folded\n  text\n",
	"keep: |+\n  x\n\n",
	"\tkey: value\n",
	"a:\n\t- x\n",
	"anchor: &a value\nalias: *a\ntagged: !!str 1\n",
	"%YAML 1.1\n---\na: b\n...\n---\nc: d\n",
	"# comment only\n",
	"q: \"double \\\"escaped\\\"\"\ns: 'single ''quoted'''\n",
	"plain: multi\n  line\n  scalar\n",
	"a:\n  - b\n - c\n  - d\n",
	"[a: b, c]\n",
	"\xff\xfe",
	"a: b\r\nc: d\r\n",
	"\ufeffa: 1\n",
}

func addSeeds(f *testing.F) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
