package driver

import (
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lexer"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

// Tokenize scans a loaded file and returns its full token stream.
func Tokenize(fs *source.FileSet, id source.FileID, maxDiagnostics int) ([]token.Token, *diag.Bag, error) {
	bag := diag.NewBag(maxDiagnostics)
	file := fs.Get(id)
	if file == nil {
		return nil, bag, nil
	}
	toks, err := lexer.Tokens(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag, File: file}})
	if err != nil {
		bag.Add(fatalDiagnostic(file, err))
	}
	bag.Sort()
	return toks, bag, err
}
