package diagfmt

import (
	"fmt"
	"io"
)

// Short prints one line per diagnostic:
//
//	path:line:col: severity [label] message
func Short(w io.Writer, reports []FileReport, mode PathMode, baseDir string) error {
	for _, r := range reports {
		path := displayPath(r, mode, baseDir)
		for _, d := range r.Diagnostics {
			line, col, _, _ := position(r, d)
			var err error
			if line > 0 {
				_, err = fmt.Fprintf(w, "%s:%d:%d: %s [%s] %s\n", path, line, col, d.Severity.Label(), d.Label(), d.Message)
			} else {
				_, err = fmt.Fprintf(w, "%s: %s [%s] %s\n", path, d.Severity.Label(), d.Label(), d.Message)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
