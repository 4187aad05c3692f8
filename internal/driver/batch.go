package driver

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"yamlcheck/internal/lint"
	"yamlcheck/internal/source"
	"yamlcheck/internal/trace"
)

// LintBatch lints paths in parallel. Results come back in the order of
// paths. Per-file failures are recorded on the result; the returned error
// is only ever a context cancellation, in which case files that were never
// started have a nil Bag.
func LintBatch(ctx context.Context, fs *source.FileSet, paths []string, eng *lint.Engine, opts Options) ([]Result, error) {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "lint")
	defer span.End("")
	span.WithExtra("files", strconv.Itoa(len(paths)))

	if len(paths) == 0 {
		return nil, nil
	}

	// FileSet не потокобезопасен на запись: загружаем заранее
	results := make([]Result, len(paths))
	ids := make([]source.FileID, len(paths))
	loaded := make([]bool, len(paths))
	for i, path := range paths {
		emit(opts.Events, Event{File: path, Stage: StageQueued, Status: StatusQueued})
		id, err := fs.Load(path)
		if err != nil {
			results[i] = loadFailure(path, err, opts)
			continue
		}
		ids[i] = id
		loaded[i] = true
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i := range paths {
		if !loaded[i] {
			continue
		}
		// новые файлы не запускаем после отмены; начатые доводим до конца
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индексы уникальны для каждой горутины, мьютекс не нужен
			results[i] = LintSource(gctx, fs, ids[i], eng, opts)
			results[i].Path = paths[i]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
