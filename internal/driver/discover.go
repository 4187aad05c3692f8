package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"yamlcheck/internal/config"
)

// Discover expands command-line arguments into the sorted list of files to
// lint. Directories are walked and filtered by the config's files and
// ignores patterns; a file named explicitly is linted unless ignored.
// No arguments means the config root.
func Discover(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{cfg.Root}
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !info.IsDir() {
			if rel, ok := relTo(cfg, arg, ""); !ok || !cfg.Ignored(rel) {
				add(arg)
			}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, ok := relTo(cfg, path, arg)
			if !ok {
				return nil
			}
			if d.IsDir() {
				if cfg.SkipDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if cfg.Includes(rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// детерминированный порядок
	slices.Sort(out)
	return out, nil
}

// relTo prefers the config-root-relative path and falls back to the path
// relative to the walked argument for trees outside the root.
func relTo(cfg *config.Config, path, walkRoot string) (string, bool) {
	if rel, ok := cfg.Rel(path); ok {
		return rel, true
	}
	if walkRoot == "" {
		return filepath.ToSlash(filepath.Base(path)), true
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
