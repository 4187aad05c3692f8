package config

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

func validPattern(p string) bool {
	return p != "" && doublestar.ValidatePattern(p)
}

// Rel converts path to the slash-separated form patterns are matched
// against. It fails for paths outside the root.
func (c *Config) Rel(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(c.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Includes reports whether a root-relative file path is linted.
func (c *Config) Includes(rel string) bool {
	return matchAny(c.Files, rel) && !c.Ignored(rel)
}

// Ignored reports whether a root-relative path falls under an ignore pattern.
func (c *Config) Ignored(rel string) bool {
	return matchAny(c.Ignores, rel)
}

// SkipDir reports whether nothing below a root-relative directory can be linted.
func (c *Config) SkipDir(rel string) bool {
	if rel == "." || rel == "" {
		return false
	}
	for _, p := range c.Ignores {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if base, found := strings.CutSuffix(p, "/**"); found {
			if ok, _ := doublestar.Match(base, rel); ok {
				return true
			}
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
