// Package classpool caches runtime class objects by canonical identifier.
//
// A Pool owns an arena of Class entries indexed by descriptor path. Entries
// memoize the facts they fetch from the provider and link to each other
// through weak arena references that stop resolving once the pool drops the
// target (Clear or replacement).
package classpool

import (
	"fmt"
	"sort"
	"sync"

	"fortio.org/safecast"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"hier/internal/classpath"
	"hier/internal/provider"
	"hier/internal/trace"
)

// slot is one arena cell. gen is unique across the pool's lifetime, so a link
// taken before a Clear never matches a later occupant. A replace keeps the
// slot and its gen, so links held by other entries follow the replacement.
type slot struct {
	class *Class
	gen   uint64
}

// link is a weak reference to an arena slot.
type link struct {
	pool *Pool
	slot uint32
	gen  uint64
}

func (l link) upgrade() (*Class, error) {
	p := l.pool
	p.mu.RLock()
	defer p.mu.RUnlock()
	if int(l.slot) < len(p.slots) {
		if s := p.slots[l.slot]; s.gen == l.gen && s.class != nil {
			return s.class, nil
		}
	}
	return nil, errors.Wrapf(ErrDanglingReference, "slot %d (gen %d)", l.slot, l.gen)
}

// Option configures a Pool.
type Option func(*Pool)

// WithTracer records cache activity to t.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pool) {
		if t != nil {
			p.tracer = t
		}
	}
}

// WithCapacity presizes the arena and index.
func WithCapacity(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.capHint = n
		}
	}
}

// Pool is a concurrent cache of Class entries keyed by descriptor path.
// Primitive names ("int", "void") are keys of their own.
type Pool struct {
	prov    provider.Provider
	tracer  trace.Tracer
	capHint int
	group   singleflight.Group

	mu      sync.RWMutex
	slots   []slot
	index   map[string]uint32
	nextGen uint64
}

// New creates an empty Pool over p.
func New(p provider.Provider, opts ...Option) *Pool {
	pool := &Pool{prov: p, tracer: trace.Nop, capHint: 64}
	for _, opt := range opts {
		opt(pool)
	}
	pool.slots = make([]slot, 0, pool.capHint)
	pool.index = make(map[string]uint32, pool.capHint)
	return pool
}

// Provider returns the provider the pool resolves through.
func (p *Pool) Provider() provider.Provider { return p.prov }

// Key canonicalizes a source-dialect identifier (java.lang.String, int[])
// into the pool's descriptor key.
func Key(id string) string {
	return classpath.SourcePath(id).AsDescriptor().Value
}

// Resolve returns the entry for a source-dialect identifier, fetching it from
// the provider on a miss. Concurrent misses for one key share a single fetch.
func (p *Pool) Resolve(id string) (*Class, error) {
	return p.resolveKey(Key(id))
}

// ResolvePath is Resolve for a path in either dialect.
func (p *Pool) ResolvePath(path classpath.Path) (*Class, error) {
	return p.resolveKey(path.AsDescriptor().Value)
}

// Root returns the entry for java/lang/Object.
func (p *Pool) Root() (*Class, error) {
	return p.resolveKey(classpath.ObjectClass)
}

func (p *Pool) resolveKey(key string) (*Class, error) {
	if c, ok := p.Lookup(key); ok {
		trace.Point(p.tracer, trace.ScopeCache, "resolve", "hit "+key)
		return c, nil
	}
	v, err, shared := p.group.Do(key, func() (any, error) {
		if c, ok := p.Lookup(key); ok {
			return c, nil
		}
		span := trace.Begin(p.tracer, trace.ScopeCache, "resolve.miss", 0).WithExtra("key", key)
		var (
			h   provider.Handle
			err error
		)
		if classpath.IsPrimitive(key) {
			h, err = p.prov.PrimitiveType(key)
		} else {
			h, err = p.prov.FindByIdentifier(key)
		}
		if err != nil {
			span.EndErr(err)
			return nil, err
		}
		c, inserted := p.getOrInsert(key, h, nil)
		if inserted {
			span.End("inserted")
		} else {
			span.End("raced")
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		trace.Point(p.tracer, trace.ScopeCache, "resolve", "shared "+key)
	}
	return v.(*Class), nil
}

// ResolveFromHandle returns the entry for a handle received from the provider.
// The key is derived from the provider's name for h. When an entry exists
// under that key but holds a different runtime object, h replaces it: the old
// entry keeps its own facts but its Self fails, while superclass links held by
// other entries resolve to the new one.
func (p *Pool) ResolveFromHandle(h provider.Handle) (*Class, error) {
	return p.adoptHandle(h)
}

// adoptHandle asks the provider for h's name and adopts h under the derived key.
func (p *Pool) adoptHandle(h provider.Handle) (*Class, error) {
	name, err := p.prov.Name(h)
	if err != nil {
		return nil, err
	}
	return p.adopt(h, name)
}

// adopt finds or installs the entry for h, whose binary name is already known.
func (p *Pool) adopt(h provider.Handle, name string) (*Class, error) {
	key := classpath.FromBinaryName(name)
	for {
		existing, ok := p.Lookup(key)
		if !ok {
			c, _ := p.getOrInsert(key, h, &name)
			return c, nil
		}
		same, err := p.prov.SameIdentity(existing.handle, h)
		if err != nil {
			return nil, err
		}
		if same {
			trace.Point(p.tracer, trace.ScopeCache, "resolve_handle", "hit "+key)
			return existing, nil
		}
		if c, ok := p.replace(key, existing, h, name); ok {
			return c, nil
		}
		// the slot changed while comparing identities; start over
	}
}

// Lookup returns the cached entry for a descriptor key without contacting the provider.
func (p *Pool) Lookup(key string) (*Class, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	idx, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.slots[idx].class, true
}

// getOrInsert stores a new entry for key unless one is already present, in
// which case the existing entry wins. name seeds the new entry's name when known.
func (p *Pool) getOrInsert(key string, h provider.Handle, name *string) (*Class, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx, ok := p.index[key]; ok {
		return p.slots[idx].class, false
	}
	c := p.allocLocked(key, h, name)
	trace.Point(p.tracer, trace.ScopeCache, "insert", key)
	return c, true
}

// replace installs a new entry for h in old's slot. The slot keeps its gen:
// only old itself goes stale, through the identity check in Self.
func (p *Pool) replace(key string, old *Class, h provider.Handle, name string) (*Class, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, ok := p.index[key]
	if !ok || p.slots[idx].class != old {
		return nil, false
	}
	gen := p.slots[idx].gen
	c := newClass(p, key, h, link{pool: p, slot: idx, gen: gen})
	c.name.seed(name)
	p.slots[idx].class = c
	trace.Point(p.tracer, trace.ScopeCache, "replace", key)
	return c, true
}

func (p *Pool) allocLocked(key string, h provider.Handle, name *string) *Class {
	idx, err := safecast.Conv[uint32](len(p.slots))
	if err != nil {
		panic(fmt.Errorf("len(slots) overflow: %w", err))
	}
	p.slots = append(p.slots, slot{})
	p.nextGen++
	gen := p.nextGen
	c := newClass(p, key, h, link{pool: p, slot: idx, gen: gen})
	if name != nil {
		c.name.seed(*name)
	}
	p.slots[idx] = slot{class: c, gen: gen}
	p.index[key] = idx
	return c
}

// Len returns the number of cached entries.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.index)
}

// IsEmpty reports whether the pool holds no entries.
func (p *Pool) IsEmpty() bool { return p.Len() == 0 }

// Keys returns the cached keys in sorted order.
func (p *Pool) Keys() []string {
	p.mu.RLock()
	keys := make([]string, 0, len(p.index))
	for k := range p.index {
		keys = append(keys, k)
	}
	p.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Clear drops every entry in one critical section. Entries handed out earlier
// keep their memoized facts, but Self and Superclass on them fail with
// ErrDanglingReference.
func (p *Pool) Clear() {
	p.mu.Lock()
	n := len(p.index)
	p.slots = make([]slot, 0, p.capHint)
	p.index = make(map[string]uint32, p.capHint)
	p.mu.Unlock()
	trace.Point(p.tracer, trace.ScopeCache, "clear", fmt.Sprintf("%d entries", n))
}
