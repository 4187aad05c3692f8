package fuzztests

import (
	"testing"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/lexer"
	"yamlcheck/internal/source"
	"yamlcheck/internal/testkit"
)

func FuzzScannerTokens(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.yaml", clampInput(input)))

		bag := diag.NewBag(64)
		toks, _ := lexer.Tokens(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag, File: file}})
		if err := testkit.CheckTokenInvariants(file, toks); err != nil {
			t.Fatalf("token invariants: %v", err)
		}
	})
}
