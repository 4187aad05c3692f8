package main

import (
	"context"
	"io"

	"yamlcheck/internal/driver"
	"yamlcheck/internal/lint"
	"yamlcheck/internal/source"
	"yamlcheck/internal/ui"
)

type batchOutcome struct {
	results []driver.Result
	err     error
}

// lintWithUI runs the batch in the background and shows the progress view
// until it finishes.
func lintWithUI(ctx context.Context, out io.Writer, fs *source.FileSet, paths []string, eng *lint.Engine, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		res, err := driver.LintBatch(ctx, fs, paths, eng, optsCopy)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(out, "linting", paths, events)
	if uiErr != nil {
		// без отрисовки события никто не читает
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
