package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"yamlcheck/internal/config"
	"yamlcheck/internal/trace"
)

// DefaultDebounce groups bursts of writes from editors into one re-lint.
const DefaultDebounce = 100 * time.Millisecond

// Watcher re-lints files when they change on disk.
type Watcher struct {
	cfg      *config.Config
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher watches every directory under roots that the config does not
// skip. Plain file arguments watch their parent directory.
func NewWatcher(cfg *config.Config, roots []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{cfg: cfg, fsw: fsw, debounce: debounce}
	if len(roots) == 0 {
		roots = []string{cfg.Root}
	}
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			_ = fsw.Close() //nolint:errcheck
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if rel, ok := relTo(w.cfg, path, root); ok && w.cfg.SkipDir(rel) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run blocks until ctx is done. onChange receives the sorted set of lintable
// files written or created since the last call.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if ev.Has(fsnotify.Create) {
					if err := w.addTree(ev.Name); err != nil {
						trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "watch", err.Error(), 0)
					}
				}
				continue
			}
			if !w.lintable(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			onChange(paths)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// ошибка одного события не останавливает наблюдение
			trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "watch error", err.Error(), 0)
		}
	}
}

func (w *Watcher) lintable(path string) bool {
	rel, ok := w.cfg.Rel(path)
	if !ok {
		rel = filepath.ToSlash(filepath.Base(path))
	}
	return w.cfg.Includes(rel)
}
