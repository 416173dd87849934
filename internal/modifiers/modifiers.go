// Package modifiers models the access and property flags a runtime reports for
// classes, members and parameters.
package modifiers

import (
	"fmt"
	"strings"
)

// Modifiers is the 16-bit flag word attached to a declaration.
type Modifiers uint16

const (
	Public       Modifiers = 0x0001
	Private      Modifiers = 0x0002
	Protected    Modifiers = 0x0004
	Static       Modifiers = 0x0008
	Final        Modifiers = 0x0010
	Synchronized Modifiers = 0x0020
	Volatile     Modifiers = 0x0040
	Transient    Modifiers = 0x0080
	Native       Modifiers = 0x0100
	Interface    Modifiers = 0x0200
	Abstract     Modifiers = 0x0400
	Strict       Modifiers = 0x0800

	// Bridge and Varargs reuse the Volatile and Transient bits; the meaning
	// depends on whether the word belongs to a method or a field.
	Bridge     Modifiers = 0x0040
	Varargs    Modifiers = 0x0080
	Synthetic  Modifiers = 0x1000
	Annotation Modifiers = 0x2000
	Enum       Modifiers = 0x4000
	Mandated   Modifiers = 0x8000
)

// Masks of the flags that may legally appear on each kind of declaration.
const (
	ClassModifiers       = Public | Protected | Private | Abstract | Static | Final | Strict
	InterfaceModifiers   = Public | Protected | Private | Abstract | Static | Strict
	ConstructorModifiers = Public | Protected | Private
	MethodModifiers      = Public | Protected | Private | Abstract | Static | Final | Synchronized | Native | Strict
	FieldModifiers       = Public | Protected | Private | Static | Final | Transient | Volatile
	ParameterModifiers   = Final
	AccessModifiers      = Public | Protected | Private
)

// keywordMask covers the bits that correspond to source-level keywords.
const keywordMask = Modifiers(0x0FFF)

// Bits returns the raw flag word.
func (m Modifiers) Bits() uint16 { return uint16(m) }

// Has reports whether every bit of flag is set in m.
func (m Modifiers) Has(flag Modifiers) bool { return flag != 0 && m&flag == flag }

// Masked keeps only the bits allowed by mask.
func (m Modifiers) Masked(mask Modifiers) Modifiers { return m & mask }

func (m Modifiers) IsPublic() bool       { return m.Has(Public) }
func (m Modifiers) IsPrivate() bool      { return m.Has(Private) }
func (m Modifiers) IsProtected() bool    { return m.Has(Protected) }
func (m Modifiers) IsStatic() bool       { return m.Has(Static) }
func (m Modifiers) IsFinal() bool        { return m.Has(Final) }
func (m Modifiers) IsSynchronized() bool { return m.Has(Synchronized) }
func (m Modifiers) IsVolatile() bool     { return m.Has(Volatile) }
func (m Modifiers) IsTransient() bool    { return m.Has(Transient) }
func (m Modifiers) IsNative() bool       { return m.Has(Native) }
func (m Modifiers) IsInterface() bool    { return m.Has(Interface) }
func (m Modifiers) IsAbstract() bool     { return m.Has(Abstract) }
func (m Modifiers) IsStrict() bool       { return m.Has(Strict) }
func (m Modifiers) IsBridge() bool       { return m.Has(Bridge) }
func (m Modifiers) IsVarargs() bool      { return m.Has(Varargs) }
func (m Modifiers) IsSynthetic() bool    { return m.Has(Synthetic) }
func (m Modifiers) IsAnnotation() bool   { return m.Has(Annotation) }
func (m Modifiers) IsEnum() bool         { return m.Has(Enum) }
func (m Modifiers) IsMandated() bool     { return m.Has(Mandated) }

// The *Bits forms let callers holding only a raw flag word skip the conversion.

func IsPublicBits(bits uint16) bool       { return Modifiers(bits).IsPublic() }
func IsPrivateBits(bits uint16) bool      { return Modifiers(bits).IsPrivate() }
func IsProtectedBits(bits uint16) bool    { return Modifiers(bits).IsProtected() }
func IsStaticBits(bits uint16) bool       { return Modifiers(bits).IsStatic() }
func IsFinalBits(bits uint16) bool        { return Modifiers(bits).IsFinal() }
func IsSynchronizedBits(bits uint16) bool { return Modifiers(bits).IsSynchronized() }
func IsVolatileBits(bits uint16) bool     { return Modifiers(bits).IsVolatile() }
func IsTransientBits(bits uint16) bool    { return Modifiers(bits).IsTransient() }
func IsNativeBits(bits uint16) bool       { return Modifiers(bits).IsNative() }
func IsInterfaceBits(bits uint16) bool    { return Modifiers(bits).IsInterface() }
func IsAbstractBits(bits uint16) bool     { return Modifiers(bits).IsAbstract() }
func IsStrictBits(bits uint16) bool       { return Modifiers(bits).IsStrict() }
func IsBridgeBits(bits uint16) bool       { return Modifiers(bits).IsBridge() }
func IsVarargsBits(bits uint16) bool      { return Modifiers(bits).IsVarargs() }
func IsSyntheticBits(bits uint16) bool    { return Modifiers(bits).IsSynthetic() }
func IsAnnotationBits(bits uint16) bool   { return Modifiers(bits).IsAnnotation() }
func IsEnumBits(bits uint16) bool         { return Modifiers(bits).IsEnum() }
func IsMandatedBits(bits uint16) bool     { return Modifiers(bits).IsMandated() }

// keywordOrder is the canonical order used when rendering modifiers as source keywords.
var keywordOrder = []struct {
	flag Modifiers
	word string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Transient, "transient"},
	{Volatile, "volatile"},
	{Synchronized, "synchronized"},
	{Native, "native"},
	{Strict, "strictfp"},
	{Interface, "interface"},
}

// Strings returns the source keywords for the keyword bits of m, in canonical order.
func (m Modifiers) Strings() []string {
	if m&keywordMask == 0 {
		return nil
	}
	words := make([]string, 0, 4)
	for _, kw := range keywordOrder {
		if m&kw.flag != 0 {
			words = append(words, kw.word)
		}
	}
	return words
}

// String renders the keyword bits separated by spaces.
func (m Modifiers) String() string {
	return strings.Join(m.Strings(), " ")
}

var byName = map[string]Modifiers{
	"public":       Public,
	"private":      Private,
	"protected":    Protected,
	"static":       Static,
	"final":        Final,
	"synchronized": Synchronized,
	"volatile":     Volatile,
	"transient":    Transient,
	"native":       Native,
	"interface":    Interface,
	"abstract":     Abstract,
	"strict":       Strict,
	"strictfp":     Strict,
	"bridge":       Bridge,
	"varargs":      Varargs,
	"synthetic":    Synthetic,
	"annotation":   Annotation,
	"enum":         Enum,
	"mandated":     Mandated,
}

// Parse folds a list of flag names into a flag word.
func Parse(names []string) (Modifiers, error) {
	var m Modifiers
	for _, name := range names {
		flag, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", name)
		}
		m |= flag
	}
	return m, nil
}
