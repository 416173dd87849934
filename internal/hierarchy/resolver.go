// Package hierarchy answers structural questions over classpool entries:
// nearest common superclass, declared and inherited interfaces, and
// assignability.
package hierarchy

import (
	"github.com/hashicorp/go-set/v3"
	lru "github.com/hashicorp/golang-lru"

	"hier/internal/classpool"
	"hier/internal/trace"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithTracer records resolver queries to t.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithAssignabilityCache memoizes up to n assignability answers. Zero disables it.
func WithAssignabilityCache(n int) Option {
	return func(r *Resolver) { r.memoSize = n }
}

type pairKey struct {
	target, source *classpool.Class
}

// Resolver runs hierarchy algorithms against a pool.
type Resolver struct {
	pool     *classpool.Pool
	tracer   trace.Tracer
	memoSize int
	memo     *lru.Cache // pairKey -> bool; nil when disabled
}

// New creates a Resolver over pool.
func New(pool *classpool.Pool, opts ...Option) *Resolver {
	r := &Resolver{pool: pool, tracer: trace.Nop}
	for _, opt := range opts {
		opt(r)
	}
	if r.memoSize > 0 {
		// lru.New only fails for a non-positive size
		r.memo, _ = lru.New(r.memoSize)
	}
	return r
}

// Pool returns the pool the resolver reads from.
func (r *Resolver) Pool() *classpool.Pool { return r.pool }

// IsAssignableFrom reports whether a value of source may be used where target
// is expected. Entries hold fixed handles, so a memoized answer never goes stale.
func (r *Resolver) IsAssignableFrom(target, source *classpool.Class) (bool, error) {
	if r.memo == nil {
		return target.IsAssignableFrom(source)
	}
	key := pairKey{target: target, source: source}
	if v, ok := r.memo.Get(key); ok {
		return v.(bool), nil
	}
	ok, err := target.IsAssignableFrom(source)
	if err != nil {
		return false, err
	}
	r.memo.Add(key, ok)
	return ok, nil
}

// CommonSuperclass returns the nearest class both a and b can be assigned to.
//
//  1. a when b is assignable from a
//  2. b when a is assignable from b
//  3. the root type when either is an interface
//  4. the first class on a's superclass chain that b is assignable to,
//     or the root type when the chain runs out
//
// Results are taken through the pool's live links, so entries dropped by a
// Clear fail with classpool.ErrDanglingReference.
func (r *Resolver) CommonSuperclass(a, b *classpool.Class) (*classpool.Class, error) {
	span := trace.Begin(r.tracer, trace.ScopeQuery, "common_superclass", 0).
		WithExtra("a", a.Key()).
		WithExtra("b", b.Key())
	c, err := r.commonSuperclass(a, b)
	if err != nil {
		span.EndErr(err)
		return nil, err
	}
	span.End(c.Key())
	return c, nil
}

func (r *Resolver) commonSuperclass(a, b *classpool.Class) (*classpool.Class, error) {
	if ok, err := r.IsAssignableFrom(b, a); err != nil {
		return nil, err
	} else if ok {
		return a.Self()
	}
	if ok, err := r.IsAssignableFrom(a, b); err != nil {
		return nil, err
	} else if ok {
		return b.Self()
	}

	aIface, err := a.IsInterface()
	if err != nil {
		return nil, err
	}
	bIface, err := b.IsInterface()
	if err != nil {
		return nil, err
	}
	if aIface || bIface {
		return r.pool.Root()
	}

	cursor, ok, err := a.Superclass()
	for ; ok && err == nil; cursor, ok, err = cursor.Superclass() {
		assignable, aerr := r.IsAssignableFrom(cursor, b)
		if aerr != nil {
			return nil, aerr
		}
		if assignable {
			return cursor, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return r.pool.Root()
}

// Interfaces returns the interfaces c declares directly, in declaration order.
func (r *Resolver) Interfaces(c *classpool.Class) ([]*classpool.Class, error) {
	span := trace.Begin(r.tracer, trace.ScopeQuery, "interfaces", 0).WithExtra("class", c.Key())
	ifaces, err := c.Interfaces()
	span.EndErr(err)
	return ifaces, err
}

// Superclasses returns c's superclass chain, nearest first, ending at the root.
func (r *Resolver) Superclasses(c *classpool.Class) ([]*classpool.Class, error) {
	var chain []*classpool.Class
	cursor, ok, err := c.Superclass()
	for ; ok && err == nil; cursor, ok, err = cursor.Superclass() {
		chain = append(chain, cursor)
	}
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// AllInterfaces returns every interface c implements, directly or through its
// superclasses and superinterfaces. Each appears once, in first-seen order:
// c's own interfaces depth first, then those of each superclass.
func (r *Resolver) AllInterfaces(c *classpool.Class) ([]*classpool.Class, error) {
	span := trace.Begin(r.tracer, trace.ScopeQuery, "all_interfaces", 0).WithExtra("class", c.Key())
	chain, err := r.Superclasses(c)
	if err != nil {
		span.EndErr(err)
		return nil, err
	}

	seen := set.New[*classpool.Class](8)
	var out []*classpool.Class
	var visit func(*classpool.Class) error
	visit = func(cls *classpool.Class) error {
		ifaces, err := cls.Interfaces()
		if err != nil {
			return err
		}
		for _, ic := range ifaces {
			if !seen.Insert(ic) {
				continue
			}
			out = append(out, ic)
			if err := visit(ic); err != nil {
				return err
			}
		}
		return nil
	}
	for _, cls := range append([]*classpool.Class{c}, chain...) {
		if err := visit(cls); err != nil {
			span.EndErr(err)
			return nil, err
		}
	}
	span.End("ok")
	return out, nil
}
