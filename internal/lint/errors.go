package lint

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRule is wrapped when a rule set names a rule the registry does not know.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrBadOption is wrapped when a rule rejects its severity or options.
	ErrBadOption = errors.New("malformed option")
)

// ConfigError is returned by NewEngine. It is fatal before any document is scanned.
type ConfigError struct {
	Rule   string
	Option string // empty when the whole entry is at fault
	Msg    string
	Err    error // ErrUnknownRule or ErrBadOption
}

func (e *ConfigError) Error() string {
	switch {
	case e.Option != "" && e.Msg != "":
		return fmt.Sprintf("rule %q: %v: option %q: %s", e.Rule, e.Err, e.Option, e.Msg)
	case e.Msg != "":
		return fmt.Sprintf("rule %q: %v: %s", e.Rule, e.Err, e.Msg)
	default:
		return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// OptionError is returned by rules from Configure for a single bad option.
type OptionError struct {
	Option string
	Msg    string
}

func (e *OptionError) Error() string {
	if e.Option == "" {
		return e.Msg
	}
	return fmt.Sprintf("option %q: %s", e.Option, e.Msg)
}

func (e *OptionError) Unwrap() error { return ErrBadOption }
