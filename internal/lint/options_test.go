package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamlcheck/internal/lint"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   any
		want lint.Level
		ok   bool
	}{
		{"off", lint.LevelOff, true},
		{"warn", lint.LevelWarn, true},
		{"Warning", lint.LevelWarn, true},
		{"error", lint.LevelError, true},
		{int64(2), lint.LevelError, true},
		{1, lint.LevelWarn, true},
		{float64(0), lint.LevelOff, true},
		{"fatal", lint.LevelOff, false},
		{3, lint.LevelOff, false},
		{1.5, lint.LevelOff, false},
		{true, lint.LevelOff, false},
	}
	for _, tt := range tests {
		got, err := lint.ParseLevel(tt.in)
		if !tt.ok {
			assert.Error(t, err, "input %v", tt.in)
			continue
		}
		require.NoError(t, err, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestReader(t *testing.T) {
	opts := lint.Options{
		Positional: []any{int64(4)},
		Named:      map[string]any{"indentBlockSequences": false, "order": "desc", "ignore": []any{"a", "b"}},
	}
	r := opts.Reader()
	assert.Equal(t, 4, r.Int(0, "width", 2, 1))
	assert.False(t, r.Bool("indentBlockSequences", true))
	assert.Equal(t, "desc", r.Enum(-1, "order", "asc", "asc", "desc"))
	assert.Equal(t, []string{"a", "b"}, r.Strings("ignore"))
	assert.Equal(t, "never", r.Enum(1, "position", "never", "always", "never"))
	require.NoError(t, r.Err())
}

func TestReaderRejects(t *testing.T) {
	tests := []struct {
		name   string
		opts   lint.Options
		option string
	}{
		{"unknown key", lint.Options{Named: map[string]any{"colour": "red"}}, "colour"},
		{"bad enum", lint.Options{Positional: []any{"sometimes"}}, "position"},
		{"bad type", lint.Options{Named: map[string]any{"width": "2"}}, "width"},
		{"too small", lint.Options{Named: map[string]any{"width": 0}}, "width"},
		{"extra positional", lint.Options{Positional: []any{"never", "always"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.opts.Reader()
			r.Enum(0, "position", "never", "always", "never")
			r.Int(-1, "width", 2, 1)
			var oerr *lint.OptionError
			require.ErrorAs(t, r.Err(), &oerr)
			assert.Equal(t, tt.option, oerr.Option)
			assert.ErrorIs(t, r.Err(), lint.ErrBadOption)
		})
	}
}

func TestRuleSetMerge(t *testing.T) {
	base := lint.RuleSet{
		"indent": {Level: lint.LevelError, Options: lint.Options{Positional: []any{2}}},
		"quotes": {Level: lint.LevelOff},
	}
	got := base.Merge(lint.RuleSet{
		"indent": {Level: lint.LevelWarn},
		"quotes": {Level: lint.LevelError, Options: lint.Options{Named: map[string]any{"prefer": "single"}}},
	})
	assert.Equal(t, lint.LevelWarn, got["indent"].Level)
	assert.Equal(t, []any{2}, got["indent"].Options.Positional)
	assert.Equal(t, "single", got["quotes"].Options.Named["prefer"])
	assert.Equal(t, lint.LevelError, base["indent"].Level, "merge must not modify the receiver")
}
