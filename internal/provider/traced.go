package provider

import (
	"strconv"

	"hier/internal/trace"
)

// Traced wraps a Provider and emits one provider-scope span per round trip.
type Traced struct {
	inner  Provider
	tracer trace.Tracer
}

// NewTraced wraps p. When t does not record provider events, p is returned as is.
func NewTraced(p Provider, t trace.Tracer) Provider {
	if t == nil || !t.Level().ShouldEmit(trace.ScopeProvider) {
		return p
	}
	return &Traced{inner: p, tracer: t}
}

func (t *Traced) begin(op Op) *trace.Span {
	return trace.Begin(t.tracer, trace.ScopeProvider, "provider."+op.String(), 0)
}

func (t *Traced) FindByIdentifier(path string) (Handle, error) {
	span := t.begin(OpFind).WithExtra("path", path)
	h, err := t.inner.FindByIdentifier(path)
	span.EndErr(err)
	return h, err
}

func (t *Traced) IsAssignableFrom(target, source Handle) (bool, error) {
	span := t.begin(OpAssignable)
	ok, err := t.inner.IsAssignableFrom(target, source)
	if err == nil {
		span.End(strconv.FormatBool(ok))
	} else {
		span.EndErr(err)
	}
	return ok, err
}

func (t *Traced) Superclass(h Handle) (Handle, bool, error) {
	span := t.begin(OpSuperclass)
	super, ok, err := t.inner.Superclass(h)
	if err == nil && !ok {
		span.End("none")
	} else {
		span.EndErr(err)
	}
	return super, ok, err
}

func (t *Traced) Modifiers(h Handle) (int32, error) {
	span := t.begin(OpModifiers)
	mods, err := t.inner.Modifiers(h)
	if err == nil {
		span.End("0x" + strconv.FormatInt(int64(mods), 16))
	} else {
		span.EndErr(err)
	}
	return mods, err
}

func (t *Traced) Interfaces(h Handle) ([]Handle, error) {
	span := t.begin(OpInterfaces)
	ifaces, err := t.inner.Interfaces(h)
	if err == nil {
		span.End(strconv.Itoa(len(ifaces)))
	} else {
		span.EndErr(err)
	}
	return ifaces, err
}

func (t *Traced) Name(h Handle) (string, error) {
	span := t.begin(OpName)
	name, err := t.inner.Name(h)
	if err == nil {
		span.End(name)
	} else {
		span.EndErr(err)
	}
	return name, err
}

func (t *Traced) SameIdentity(a, b Handle) (bool, error) {
	span := t.begin(OpSameIdentity)
	same, err := t.inner.SameIdentity(a, b)
	if err == nil {
		span.End(strconv.FormatBool(same))
	} else {
		span.EndErr(err)
	}
	return same, err
}

func (t *Traced) PrimitiveType(name string) (Handle, error) {
	span := t.begin(OpPrimitive).WithExtra("name", name)
	h, err := t.inner.PrimitiveType(name)
	span.EndErr(err)
	return h, err
}
