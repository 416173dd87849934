// Package trace records what the type cache and the hierarchy resolver are
// doing: which identifiers were resolved, which lookups hit the cache, and how
// long every round trip to the runtime took.
//
// # Levels
//
//   - LevelOff: nothing is recorded
//   - LevelError: events are kept only for failure dumps
//   - LevelPhase: CLI commands and resolver queries
//   - LevelDetail: adds cache hits, misses, inserts and clears
//   - LevelDebug: adds every provider round trip
//
// # Usage
//
// The core packages take a Tracer as an explicit option because their calls
// carry no context:
//
//	pool := classpool.New(p, classpool.WithTracer(t))
//
// The CLI propagates the tracer through the command context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeCommand, "common", 0)
//	defer span.End("")
package trace
