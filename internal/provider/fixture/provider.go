// Package fixture implements provider.Provider over a canned class hierarchy.
// It stands in for a live runtime in tests and in the CLI.
package fixture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"hier/internal/classpath"
	"hier/internal/modifiers"
	"hier/internal/provider"
)

// class is the handle type handed out by Provider. Handles are pointers, so
// identity is pointer equality.
type class struct {
	name       string // binary name
	desc       string
	super      *class
	interfaces []*class
	mods       modifiers.Modifiers
	primitive  bool
	component  *class // element type of an array
}

func (c *class) String() string { return c.name }

var (
	errForeignHandle = errors.New("handle does not belong to this provider")
	errVoidArray     = errors.New("illegal array element type void")
)

// Option configures a Provider.
type Option func(*Provider)

// WithDelay makes every round trip sleep for d, approximating a remote runtime.
func WithDelay(d time.Duration) Option {
	return func(p *Provider) { p.delay = d }
}

// Provider answers provider.Provider calls from a Hierarchy.
type Provider struct {
	runtime    string
	source     *Hierarchy
	byDesc     map[string]*class
	primitives map[string]*class
	object     *class
	delay      time.Duration

	mu     sync.Mutex
	arrays map[string]*class // synthesized on demand, keyed by descriptor
}

var _ provider.Provider = (*Provider)(nil)

// New links h into a Provider. Every super and interface reference must name
// a class in h, inheritance must be acyclic and java.lang.Object must exist.
func New(h *Hierarchy, opts ...Option) (*Provider, error) {
	p := &Provider{
		runtime:    h.Runtime,
		source:     h,
		byDesc:     make(map[string]*class, len(h.Classes)),
		primitives: make(map[string]*class, 9),
		arrays:     make(map[string]*class),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, def := range h.Classes {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("class with empty name")
		}
		desc := classpath.ToDescriptor(name)
		if _, dup := p.byDesc[desc]; dup {
			return nil, fmt.Errorf("duplicate class %s", name)
		}
		mods, err := modifiers.Parse(def.Modifiers)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", name, err)
		}
		p.byDesc[desc] = &class{name: name, desc: desc, mods: mods}
	}
	for _, def := range h.Classes {
		c := p.byDesc[classpath.ToDescriptor(strings.TrimSpace(def.Name))]
		if def.Super != "" {
			super, err := p.link(c, def.Super)
			if err != nil {
				return nil, err
			}
			if super.mods.IsInterface() {
				return nil, fmt.Errorf("class %s extends interface %s", c.name, super.name)
			}
			c.super = super
		}
		for _, iface := range def.Interfaces {
			ic, err := p.link(c, iface)
			if err != nil {
				return nil, err
			}
			if !ic.mods.IsInterface() {
				return nil, fmt.Errorf("class %s implements non-interface %s", c.name, ic.name)
			}
			c.interfaces = append(c.interfaces, ic)
		}
	}

	p.object = p.byDesc[classpath.ObjectClass]
	if p.object == nil {
		return nil, fmt.Errorf("hierarchy has no %s", classpath.ToSource(classpath.ObjectClass))
	}
	if err := p.checkAcyclic(); err != nil {
		return nil, err
	}

	primitiveMods := modifiers.Public | modifiers.Abstract | modifiers.Final
	for _, name := range classpath.Primitives() {
		code, _ := classpath.PrimitiveCode(name)
		p.primitives[name] = &class{name: name, desc: string(code), mods: primitiveMods, primitive: true}
	}
	return p, nil
}

// NewBuiltin is New over the embedded hierarchy called name.
func NewBuiltin(name string, opts ...Option) (*Provider, error) {
	h, err := Builtin(name)
	if err != nil {
		return nil, err
	}
	return New(h, opts...)
}

func (p *Provider) link(from *class, name string) (*class, error) {
	target := p.byDesc[classpath.ToDescriptor(strings.TrimSpace(name))]
	if target == nil {
		return nil, fmt.Errorf("class %s references unknown class %s", from.name, name)
	}
	return target, nil
}

func (p *Provider) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*class]int, len(p.byDesc))
	var visit func(c *class) error
	visit = func(c *class) error {
		switch state[c] {
		case visiting:
			return fmt.Errorf("inheritance cycle through %s", c.name)
		case done:
			return nil
		}
		state[c] = visiting
		if c.super != nil {
			if err := visit(c.super); err != nil {
				return err
			}
		}
		for _, ic := range c.interfaces {
			if err := visit(ic); err != nil {
				return err
			}
		}
		state[c] = done
		return nil
	}
	for _, c := range p.byDesc {
		if err := visit(c); err != nil {
			return err
		}
	}
	return nil
}

// Runtime returns the hierarchy's runtime specification version string.
func (p *Provider) Runtime() string { return p.runtime }

// Hierarchy returns the hierarchy p was built from.
func (p *Provider) Hierarchy() *Hierarchy { return p.source }

func (p *Provider) wait() {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
}

func (p *Provider) unwrap(h provider.Handle) (*class, error) {
	c, ok := h.(*class)
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: %T", errForeignHandle, h)
	}
	return c, nil
}

// FindByIdentifier looks up a class or array type by descriptor path.
// Primitive names are not found here; use PrimitiveType.
func (p *Provider) FindByIdentifier(path string) (provider.Handle, error) {
	p.wait()
	if !classpath.IsArray(path) {
		if c := p.byDesc[path]; c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("%w: %s", provider.ErrNotFound, path)
	}
	return p.array(path)
}

func (p *Provider) array(desc string) (*class, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.arrayLocked(desc)
}

func (p *Provider) arrayLocked(desc string) (*class, error) {
	if c := p.arrays[desc]; c != nil {
		return c, nil
	}

	inner := desc[1:]
	var component *class
	switch {
	case classpath.IsArray(inner):
		c, err := p.arrayLocked(inner)
		if err != nil {
			return nil, err
		}
		component = c
	case len(inner) == 1:
		if inner == "V" {
			return nil, fmt.Errorf("%s: %w", desc, errVoidArray)
		}
		name, ok := classpath.PrimitiveName(inner[0])
		if !ok {
			return nil, fmt.Errorf("%w: %s", provider.ErrNotFound, desc)
		}
		component = p.primitives[name]
	case strings.HasPrefix(inner, "L") && strings.HasSuffix(inner, ";"):
		component = p.byDesc[inner[1:len(inner)-1]]
		if component == nil {
			return nil, fmt.Errorf("%w: %s", provider.ErrNotFound, desc)
		}
	default:
		return nil, fmt.Errorf("%w: %s", provider.ErrNotFound, desc)
	}

	mods := modifiers.Public
	if !component.primitive {
		mods = component.mods.Masked(modifiers.AccessModifiers)
	}
	c := &class{
		name:      classpath.ToBinaryName(desc),
		desc:      desc,
		super:     p.object,
		mods:      mods | modifiers.Abstract | modifiers.Final,
		component: component,
	}
	for _, name := range []string{"java/lang/Cloneable", "java/io/Serializable"} {
		if ic := p.byDesc[name]; ic != nil {
			c.interfaces = append(c.interfaces, ic)
		}
	}
	p.arrays[desc] = c
	return c, nil
}

// IsAssignableFrom follows the runtime's widening reference conversion rules.
func (p *Provider) IsAssignableFrom(target, source provider.Handle) (bool, error) {
	p.wait()
	t, err := p.unwrap(target)
	if err != nil {
		return false, err
	}
	s, err := p.unwrap(source)
	if err != nil {
		return false, err
	}
	return assignable(t, s), nil
}

func assignable(t, s *class) bool {
	switch {
	case t == s:
		return true
	case t.primitive || s.primitive:
		return false
	case t.component != nil:
		if s.component == nil {
			return false
		}
		if t.component.primitive || s.component.primitive {
			return t.component == s.component
		}
		return assignable(t.component, s.component)
	default:
		return s.subtypeOf(t)
	}
}

func (c *class) subtypeOf(t *class) bool {
	if c == t {
		return true
	}
	if c.super != nil && c.super.subtypeOf(t) {
		return true
	}
	for _, ic := range c.interfaces {
		if ic.subtypeOf(t) {
			return true
		}
	}
	// interfaces have no superclass link but are still Objects
	return c.super == nil && c.mods.IsInterface() && t.desc == classpath.ObjectClass
}

func (p *Provider) Superclass(h provider.Handle) (provider.Handle, bool, error) {
	p.wait()
	c, err := p.unwrap(h)
	if err != nil {
		return nil, false, err
	}
	if c.super == nil {
		return nil, false, nil
	}
	return c.super, true, nil
}

func (p *Provider) Modifiers(h provider.Handle) (int32, error) {
	p.wait()
	c, err := p.unwrap(h)
	if err != nil {
		return 0, err
	}
	return int32(c.mods), nil
}

func (p *Provider) Interfaces(h provider.Handle) ([]provider.Handle, error) {
	p.wait()
	c, err := p.unwrap(h)
	if err != nil {
		return nil, err
	}
	out := make([]provider.Handle, len(c.interfaces))
	for i, ic := range c.interfaces {
		out[i] = ic
	}
	return out, nil
}

func (p *Provider) Name(h provider.Handle) (string, error) {
	p.wait()
	c, err := p.unwrap(h)
	if err != nil {
		return "", err
	}
	return c.name, nil
}

func (p *Provider) SameIdentity(a, b provider.Handle) (bool, error) {
	ca, err := p.unwrap(a)
	if err != nil {
		return false, err
	}
	cb, err := p.unwrap(b)
	if err != nil {
		return false, err
	}
	return ca == cb, nil
}

func (p *Provider) PrimitiveType(name string) (provider.Handle, error) {
	p.wait()
	c := p.primitives[name]
	if c == nil {
		return nil, fmt.Errorf("%w: primitive %s", provider.ErrNotFound, name)
	}
	return c, nil
}

// ParseRuntimeVersion maps a runtime specification version to its feature
// number: "1.8" and "1.8.0_292" give 8, "17" and "17.0.2+8" give 17.
func ParseRuntimeVersion(s string) (int, error) {
	v := strings.TrimSpace(s)
	if i := strings.IndexAny(v, "-+_"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	major := parts[0]
	if major == "1" && len(parts) > 1 {
		major = parts[1]
	}
	n, err := strconv.Atoi(major)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid runtime version %q", s)
	}
	return n, nil
}
