package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // весь прогон
	ScopeFile                    // один файл
	ScopePhase                   // scan / parse / lint
	ScopeNode                    // отдельные правила и узлы
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeFile:
		return "file"
	case ScopePhase:
		return "phase"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Name     string // "lint", "parse", a file path
	Detail   string
	Extra    map[string]string
}
