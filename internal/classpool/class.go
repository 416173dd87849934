package classpool

import (
	"fortio.org/safecast"
	"github.com/pkg/errors"

	"hier/internal/classpath"
	"hier/internal/modifiers"
	"hier/internal/provider"
)

// Class is one cached runtime type. The handle is fixed at construction; every
// other fact is fetched from the provider on first use and memoized.
type Class struct {
	pool   *Pool
	key    string
	handle provider.Handle
	self   link

	name cell[string]
	mods cell[modifiers.Modifiers]

	// super and ifaces cover the provider round trips and the adoption of
	// the answers into the pool. Adoption takes the pool lock only briefly and
	// never waits on another entry's cell, and the pool never waits on a cell
	// while holding its lock.
	super  cell[superLink]
	ifaces cell[[]*Class]
}

type superLink struct {
	link    link
	present bool
}

func newClass(p *Pool, key string, h provider.Handle, self link) *Class {
	return &Class{pool: p, key: key, handle: h, self: self}
}

// Key returns the descriptor key the entry is cached under.
func (c *Class) Key() string { return c.key }

// Handle returns the runtime object behind the entry.
func (c *Class) Handle() provider.Handle { return c.handle }

// Self returns c while the pool still holds it. It fails with
// ErrDanglingReference after a Clear or once another entry replaced c.
func (c *Class) Self() (*Class, error) {
	cur, err := c.self.upgrade()
	if err != nil {
		return nil, err
	}
	if cur != c {
		return nil, errors.Wrapf(ErrDanglingReference, "%s was replaced", c.key)
	}
	return cur, nil
}

// Name returns the runtime's binary name, e.g. "java.lang.Integer" or "[I".
func (c *Class) Name() (string, error) {
	return c.name.get("name of "+c.key, func() (string, error) {
		return c.pool.prov.Name(c.handle)
	})
}

// Modifiers returns the class modifier flags.
func (c *Class) Modifiers() (modifiers.Modifiers, error) {
	return c.mods.get("modifiers of "+c.key, func() (modifiers.Modifiers, error) {
		raw, err := c.pool.prov.Modifiers(c.handle)
		if err != nil {
			return 0, err
		}
		bits, err := safecast.Conv[uint16](raw)
		if err != nil {
			return 0, errors.Wrapf(err, "modifiers of %s", c.key)
		}
		return modifiers.Modifiers(bits), nil
	})
}

// Superclass returns the direct superclass. ok is false for the root type,
// interfaces and primitives. The link is weak: it follows the pool slot of the
// superclass, so it sees a replacement entry and fails with
// ErrDanglingReference once the pool is cleared.
func (c *Class) Superclass() (super *Class, ok bool, err error) {
	l, err := c.super.get("superclass of "+c.key, func() (superLink, error) {
		h, ok, err := c.pool.prov.Superclass(c.handle)
		if err != nil || !ok {
			return superLink{}, err
		}
		sc, err := c.pool.adoptHandle(h)
		if err != nil {
			return superLink{}, err
		}
		return superLink{link: sc.self, present: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return l.resolve()
}

func (l superLink) resolve() (*Class, bool, error) {
	if !l.present {
		return nil, false, nil
	}
	sc, err := l.link.upgrade()
	if err != nil {
		return nil, false, err
	}
	return sc, true, nil
}

// Interfaces returns the directly declared interfaces in declaration order.
// The entries are held strongly and outlive a Clear.
func (c *Class) Interfaces() ([]*Class, error) {
	list, err := c.ifaces.get("interfaces of "+c.key, func() ([]*Class, error) {
		raw, err := c.pool.prov.Interfaces(c.handle)
		if err != nil {
			return nil, err
		}
		out := make([]*Class, 0, len(raw))
		for _, h := range raw {
			ic, err := c.pool.adoptHandle(h)
			if err != nil {
				return nil, err
			}
			out = append(out, ic)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(list), nil
}

func clone(list []*Class) []*Class {
	out := make([]*Class, len(list))
	copy(out, list)
	return out
}

// IsAssignableFrom asks the provider whether a value of other may be used
// where c is expected. The answer is not memoized.
func (c *Class) IsAssignableFrom(other *Class) (bool, error) {
	return c.pool.prov.IsAssignableFrom(c.handle, other.handle)
}

// IsInterface reports whether c is an interface (annotations included).
func (c *Class) IsInterface() (bool, error) {
	m, err := c.Modifiers()
	return m.IsInterface(), err
}

// IsAnnotation reports whether c is an annotation interface.
func (c *Class) IsAnnotation() (bool, error) {
	m, err := c.Modifiers()
	return m.IsAnnotation(), err
}

// IsSynthetic reports whether c was generated by the compiler.
func (c *Class) IsSynthetic() (bool, error) {
	m, err := c.Modifiers()
	return m.IsSynthetic(), err
}

// IsArray reports whether c is an array type.
func (c *Class) IsArray() bool { return classpath.IsArray(c.key) }

// IsPrimitive reports whether c is a primitive type such as int or void.
func (c *Class) IsPrimitive() bool { return classpath.IsPrimitive(c.key) }

// SourceName renders the key in the dotted source spelling (int[], java.lang.String).
func (c *Class) SourceName() string { return classpath.ToSource(c.key) }

func (c *Class) String() string {
	if name, ok := c.name.peek(); ok {
		return "Class(" + name + ")"
	}
	return "Class(...)"
}
