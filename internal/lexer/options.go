package lexer

import (
	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем (но продолжаем сканировать)
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	}
}
