// Package provider defines the capability set the class cache consumes from
// an external runtime. Implementations bind to a live runtime or, for tests
// and offline use, to a canned hierarchy (see package fixture).
package provider

import "errors"

// Handle is an opaque reference to one type object owned by the runtime.
// The cache never inspects it; it is only passed back to the Provider.
type Handle any

// ErrNotFound reports that an identifier does not name a type the runtime knows.
var ErrNotFound = errors.New("type not found")

// Provider answers single questions about runtime type objects. Every method
// is a blocking round trip and must be safe for concurrent use.
type Provider interface {
	// FindByIdentifier locates a type by descriptor path (java/lang/String, [I).
	FindByIdentifier(path string) (Handle, error)
	// IsAssignableFrom reports whether a value of source may be used where target is expected.
	IsAssignableFrom(target, source Handle) (bool, error)
	// Superclass returns the direct superclass; ok is false when there is none.
	Superclass(h Handle) (super Handle, ok bool, err error)
	// Modifiers returns the raw modifier word.
	Modifiers(h Handle) (int32, error)
	// Interfaces returns the directly declared interfaces in declaration order.
	Interfaces(h Handle) ([]Handle, error)
	// Name returns the runtime's binary name: java.lang.Integer, [I, int.
	Name(h Handle) (string, error)
	SameIdentity(a, b Handle) (bool, error)
	// PrimitiveType returns the class object for a primitive name such as "int",
	// read from the boxed wrapper's TYPE constant.
	PrimitiveType(name string) (Handle, error)
}

// Op names one Provider method, used by decorators for counting and tracing.
type Op uint8

const (
	OpFind Op = iota + 1
	OpAssignable
	OpSuperclass
	OpModifiers
	OpInterfaces
	OpName
	OpSameIdentity
	OpPrimitive
)

func (o Op) String() string {
	switch o {
	case OpFind:
		return "find"
	case OpAssignable:
		return "assignable"
	case OpSuperclass:
		return "superclass"
	case OpModifiers:
		return "modifiers"
	case OpInterfaces:
		return "interfaces"
	case OpName:
		return "name"
	case OpSameIdentity:
		return "same_identity"
	case OpPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}
