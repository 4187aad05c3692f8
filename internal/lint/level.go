package lint

import (
	"fmt"
	"math"
	"strings"

	"yamlcheck/internal/diag"
)

// Level is the configured severity of a rule.
type Level uint8

const (
	LevelOff Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "off"
	}
}

// Severity maps an enabled level to the diagnostic severity it reports with.
func (l Level) Severity() diag.Severity {
	if l == LevelError {
		return diag.SevError
	}
	return diag.SevWarning
}

// ParseLevel accepts "off", "warn", "warning", "error" and the numbers 0-2.
func ParseLevel(v any) (Level, error) {
	switch x := v.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "off", "0":
			return LevelOff, nil
		case "warn", "warning", "1":
			return LevelWarn, nil
		case "error", "2":
			return LevelError, nil
		}
		return LevelOff, fmt.Errorf("unknown severity %q", x)
	case Level:
		return x, nil
	}
	if n, ok := asInt(v); ok && n >= 0 && n <= 2 {
		return Level(n), nil
	}
	return LevelOff, fmt.Errorf("severity must be \"off\", \"warn\", \"error\" or 0-2, got %v", v)
}

// asInt converts the integer shapes produced by TOML, YAML and JSON decoders.
func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case uint:
		if x > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case uint64:
		if x > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case float64:
		if x != math.Trunc(x) || x < math.MinInt32 || x > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	}
	return 0, false
}
