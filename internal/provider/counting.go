package provider

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map"
)

// Counting wraps a Provider and counts round trips per operation and per
// handle name. Tests use it to check that memoized facts are fetched once.
type Counting struct {
	inner  Provider
	byOp   cmap.ConcurrentMap // Op.String() -> int64
	byName cmap.ConcurrentMap // "op:name" -> int64, recorded for handle-taking ops
}

// NewCounting wraps p.
func NewCounting(p Provider) *Counting {
	return &Counting{inner: p, byOp: cmap.New(), byName: cmap.New()}
}

func increment(exist bool, valueInMap, _ interface{}) interface{} {
	if !exist {
		return int64(1)
	}
	return valueInMap.(int64) + 1
}

func (c *Counting) record(op Op, h Handle) {
	c.byOp.Upsert(op.String(), nil, increment)
	if h == nil {
		return
	}
	// Name is answered by the wrapped provider so counting stays invisible in byOp.
	if name, err := c.inner.Name(h); err == nil {
		c.byName.Upsert(op.String()+":"+name, nil, increment)
	}
}

// Calls returns how many times op was invoked.
func (c *Counting) Calls(op Op) int64 {
	v, ok := c.byOp.Get(op.String())
	if !ok {
		return 0
	}
	return v.(int64)
}

// CallsFor returns how many times op was invoked for the handle whose binary
// name is name.
func (c *Counting) CallsFor(op Op, name string) int64 {
	v, ok := c.byName.Get(op.String() + ":" + name)
	if !ok {
		return 0
	}
	return v.(int64)
}

// Total returns the number of round trips across all operations.
func (c *Counting) Total() int64 {
	var total int64
	for _, v := range c.byOp.Items() {
		total += v.(int64)
	}
	return total
}

// Snapshot returns per-operation counts keyed by operation name, with the
// keys sorted for stable printing.
func (c *Counting) Snapshot() ([]string, map[string]int64) {
	items := c.byOp.Items()
	keys := make([]string, 0, len(items))
	out := make(map[string]int64, len(items))
	for k, v := range items {
		keys = append(keys, k)
		out[k] = v.(int64)
	}
	sort.Strings(keys)
	return keys, out
}

func (c *Counting) FindByIdentifier(path string) (Handle, error) {
	c.record(OpFind, nil)
	return c.inner.FindByIdentifier(path)
}

func (c *Counting) IsAssignableFrom(target, source Handle) (bool, error) {
	c.record(OpAssignable, nil)
	return c.inner.IsAssignableFrom(target, source)
}

func (c *Counting) Superclass(h Handle) (Handle, bool, error) {
	c.record(OpSuperclass, h)
	return c.inner.Superclass(h)
}

func (c *Counting) Modifiers(h Handle) (int32, error) {
	c.record(OpModifiers, h)
	return c.inner.Modifiers(h)
}

func (c *Counting) Interfaces(h Handle) ([]Handle, error) {
	c.record(OpInterfaces, h)
	return c.inner.Interfaces(h)
}

func (c *Counting) Name(h Handle) (string, error) {
	c.record(OpName, h)
	return c.inner.Name(h)
}

func (c *Counting) SameIdentity(a, b Handle) (bool, error) {
	c.record(OpSameIdentity, nil)
	return c.inner.SameIdentity(a, b)
}

func (c *Counting) PrimitiveType(name string) (Handle, error) {
	c.record(OpPrimitive, nil)
	return c.inner.PrimitiveType(name)
}
