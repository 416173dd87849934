package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // start of an operation
	KindSpanEnd                   // end of an operation
	KindPoint                     // instant event
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
	ScopeCommand  Scope = iota + 1 // one CLI command
	ScopeQuery                     // one resolver operation
	ScopeCache                     // cache lookup, insert, replace, clear
	ScopeProvider                  // one runtime round trip
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeQuery:
		return "query"
	case ScopeCache:
		return "cache"
	case ScopeProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64
	Name     string            // e.g. "resolve", "provider.superclass"
	Detail   string            // optional outcome, e.g. "hit", an error message
	Extra    map[string]string // additional key-value pairs
}
