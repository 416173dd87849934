// Package hier is the entry point for hierarchy queries: it ties a provider,
// a class pool and a resolver together behind one Engine.
package hier

import (
	"hier/internal/classpool"
	"hier/internal/hierarchy"
	"hier/internal/provider"
	"hier/internal/trace"
)

// Options configures an Engine.
type Options struct {
	// Tracer receives command, query, cache and provider events. Nil means trace.Nop.
	Tracer trace.Tracer
	// AssignabilityCache is the LRU capacity for memoized assignability; 0 disables it.
	AssignabilityCache int
	// Capacity presizes the class pool.
	Capacity int
}

// Engine answers hierarchy questions against one provider.
type Engine struct {
	prov     provider.Provider
	pool     *classpool.Pool
	resolver *hierarchy.Resolver
	tracer   trace.Tracer
}

// New builds an Engine over p.
func New(p provider.Provider, opts Options) *Engine {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	prov := provider.NewTraced(p, tracer)
	pool := classpool.New(prov, classpool.WithTracer(tracer), classpool.WithCapacity(opts.Capacity))
	return &Engine{
		prov: prov,
		pool: pool,
		resolver: hierarchy.New(pool,
			hierarchy.WithTracer(tracer),
			hierarchy.WithAssignabilityCache(opts.AssignabilityCache),
		),
		tracer: tracer,
	}
}

// Pool exposes the underlying class pool.
func (e *Engine) Pool() *classpool.Pool { return e.pool }

// Resolver exposes the underlying resolver.
func (e *Engine) Resolver() *hierarchy.Resolver { return e.resolver }

// Tracer returns the engine's tracer.
func (e *Engine) Tracer() trace.Tracer { return e.tracer }

// Resolve returns the entry for a source-dialect identifier such as
// "java.lang.String", "int" or "long[][]".
func (e *Engine) Resolve(id string) (*classpool.Class, error) {
	return e.pool.Resolve(id)
}

// ResolveFromHandle returns the entry for a handle obtained from the provider.
func (e *Engine) ResolveFromHandle(h provider.Handle) (*classpool.Class, error) {
	return e.pool.ResolveFromHandle(h)
}

// CommonSuperclass returns the nearest common superclass of a and b.
func (e *Engine) CommonSuperclass(a, b *classpool.Class) (*classpool.Class, error) {
	return e.resolver.CommonSuperclass(a, b)
}

// Interfaces returns the interfaces c declares directly.
func (e *Engine) Interfaces(c *classpool.Class) ([]*classpool.Class, error) {
	return e.resolver.Interfaces(c)
}

// AllInterfaces returns every interface c implements, inherited ones included.
func (e *Engine) AllInterfaces(c *classpool.Class) ([]*classpool.Class, error) {
	return e.resolver.AllInterfaces(c)
}

// Superclasses returns c's superclass chain up to the root.
func (e *Engine) Superclasses(c *classpool.Class) ([]*classpool.Class, error) {
	return e.resolver.Superclasses(c)
}

// IsAssignableFrom reports whether a value of source may be used where target is expected.
func (e *Engine) IsAssignableFrom(target, source *classpool.Class) (bool, error) {
	return e.resolver.IsAssignableFrom(target, source)
}

// Clear drops every cached entry.
func (e *Engine) Clear() { e.pool.Clear() }

// CacheSize returns the number of cached entries.
func (e *Engine) CacheSize() int { return e.pool.Len() }

// ResolveAll resolves ids in order and stops at the first failure.
func (e *Engine) ResolveAll(ids ...string) ([]*classpool.Class, error) {
	out := make([]*classpool.Class, 0, len(ids))
	for _, id := range ids {
		c, err := e.Resolve(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
