package lint

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Options are the raw values of one rule entry after its severity: the
// positional arguments of the array form and the keyed options table.
type Options struct {
	Positional []any
	Named      map[string]any
}

func (o Options) IsZero() bool {
	return len(o.Positional) == 0 && len(o.Named) == 0
}

// Reader decodes Options and keeps the first problem it finds.
type Reader struct {
	opts   Options
	known  map[string]bool
	posMax int
	err    error
}

func (o Options) Reader() *Reader {
	return &Reader{opts: o, known: make(map[string]bool)}
}

func (r *Reader) fail(option, format string, args ...any) {
	if r.err == nil {
		r.err = &OptionError{Option: option, Msg: fmt.Sprintf(format, args...)}
	}
}

// lookup finds the value for key, or the positional argument pos when the
// key is absent. pos < 0 means the option has no positional form.
func (r *Reader) lookup(pos int, key string) (any, bool) {
	r.known[key] = true
	if pos >= 0 {
		r.posMax = max(r.posMax, pos+1)
	}
	if v, ok := r.opts.Named[key]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(r.opts.Positional) {
		return r.opts.Positional[pos], true
	}
	return nil, false
}

// Enum reads a string restricted to allowed.
func (r *Reader) Enum(pos int, key, def string, allowed ...string) string {
	v, ok := r.lookup(pos, key)
	if !ok {
		return def
	}
	s, isStr := v.(string)
	if !isStr || !slices.Contains(allowed, s) {
		r.fail(key, "must be one of %s, got %v", quoteAll(allowed), v)
		return def
	}
	return s
}

// Int reads an integer no smaller than lo.
func (r *Reader) Int(pos int, key string, def, lo int) int {
	v, ok := r.lookup(pos, key)
	if !ok {
		return def
	}
	n, isInt := asInt(v)
	if !isInt {
		r.fail(key, "must be an integer, got %v", v)
		return def
	}
	if n < lo {
		r.fail(key, "must be at least %d, got %d", lo, n)
		return def
	}
	return n
}

// Bool reads a boolean option.
func (r *Reader) Bool(key string, def bool) bool {
	v, ok := r.lookup(-1, key)
	if !ok {
		return def
	}
	b, isBool := v.(bool)
	if !isBool {
		r.fail(key, "must be a boolean, got %v", v)
		return def
	}
	return b
}

// Strings reads a list of strings.
func (r *Reader) Strings(key string) []string {
	v, ok := r.lookup(-1, key)
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, isStr := e.(string)
			if !isStr {
				r.fail(key, "must be a list of strings, got element %v", e)
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	r.fail(key, "must be a list of strings, got %v", v)
	return nil
}

// Err returns the first decoding problem, or an error naming an option or
// positional argument the rule never asked for.
func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	if len(r.opts.Positional) > r.posMax {
		return &OptionError{Msg: fmt.Sprintf("unexpected argument %v", r.opts.Positional[r.posMax])}
	}
	for _, k := range slices.Sorted(maps.Keys(r.opts.Named)) {
		if !r.known[k] {
			return &OptionError{Option: k, Msg: "unknown option"}
		}
	}
	return nil
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, ", ")
}
