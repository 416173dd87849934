package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls tracing verbosity. Each level records the scopes of the
// previous one plus one finer scope.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // everything goes to the ring, for failure dumps only
	LevelPhase               // commands and resolver queries
	LevelDetail              // cache activity
	LevelDebug               // provider round trips
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a level name into a Level. Names are case-insensitive;
// an empty name means off.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return LevelOff, nil
	}
	if i := slices.Index(levelNames, name); i >= 0 {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
}

// finest maps a level to the finest scope it records.
var finest = [...]Scope{
	LevelPhase:  ScopeQuery,
	LevelDetail: ScopeCache,
	LevelDebug:  ScopeProvider,
}

// ShouldEmit reports whether events of the given scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch {
	case l == LevelOff || int(l) >= len(levelNames):
		return false
	case l == LevelError:
		return true
	default:
		return scope <= finest[l]
	}
}
