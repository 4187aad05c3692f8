package driver

import (
	"cmp"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lexer"
	"yamlcheck/internal/parser"
	"yamlcheck/internal/source"
)

// Parse scans and parses a loaded file without running any rule.
func Parse(fs *source.FileSet, id source.FileID, opts Options) (*cst.Tree, *diag.Bag, error) {
	bag := diag.NewBag(opts.MaxDiagnostics)
	file := fs.Get(id)
	if file == nil {
		return nil, bag, nil
	}
	rep := diag.BagReporter{Bag: bag, File: file}
	toks, lexErr := lexer.Tokens(file, lexer.Options{Reporter: rep})
	tree, parseErr := parser.Parse(file, toks, parserOptions(rep, opts))
	err := cmp.Or[error](lexErr, parseErr)
	if err != nil {
		bag.Add(fatalDiagnostic(file, err))
	}
	bag.Sort()
	return tree, bag, err
}
