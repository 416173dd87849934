// Package classpath converts type paths between the dotted source spelling
// (java.lang.String, int[][]) and the descriptor spelling a runtime resolves
// (java/lang/String, [[I).
package classpath

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Dialect names the spelling a Path is written in.
type Dialect uint8

const (
	// Source is the dotted spelling used in source code: java.util.Map$Entry[].
	Source Dialect = iota + 1
	// Descriptor is the slash spelling with array markers: [Ljava/util/Map$Entry;.
	Descriptor
)

func (d Dialect) String() string {
	switch d {
	case Source:
		return "source"
	case Descriptor:
		return "descriptor"
	default:
		return "unknown"
	}
}

const (
	arrayMarker   = '['
	arraySuffix   = "[]"
	objectPrefix  = 'L'
	objectSuffix  = ';'
	sourceSep     = "."
	descriptorSep = "/"
)

// Path is a type path tagged with its dialect.
type Path struct {
	Dialect Dialect
	Value   string
}

// SourcePath wraps a dotted type path. Input is trimmed and NFC-normalized so
// composed and decomposed spellings of the same identifier compare equal.
func SourcePath(s string) Path {
	return Path{Dialect: Source, Value: canonicalText(s)}
}

// DescriptorPath wraps a descriptor type path.
func DescriptorPath(s string) Path {
	return Path{Dialect: Descriptor, Value: canonicalText(s)}
}

func canonicalText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Convert flips the path into the other dialect.
func (p Path) Convert() Path {
	switch p.Dialect {
	case Source:
		return Path{Dialect: Descriptor, Value: ToDescriptor(p.Value)}
	case Descriptor:
		return Path{Dialect: Source, Value: ToSource(p.Value)}
	default:
		return p
	}
}

// AsDescriptor returns p in the descriptor dialect.
func (p Path) AsDescriptor() Path {
	if p.Dialect == Source {
		return p.Convert()
	}
	return p
}

// AsSource returns p in the source dialect.
func (p Path) AsSource() Path {
	if p.Dialect == Descriptor {
		return p.Convert()
	}
	return p
}

func (p Path) String() string { return p.Value }

// ToDescriptor converts a dotted path into its descriptor spelling. Primitive
// names without array dimensions are returned unchanged.
func ToDescriptor(source string) string {
	base, dims := splitSourceDims(source)
	if dims == 0 {
		return strings.ReplaceAll(base, sourceSep, descriptorSep)
	}
	var b strings.Builder
	b.Grow(dims + len(base) + 2)
	for range dims {
		b.WriteByte(arrayMarker)
	}
	if code, ok := primitiveCodes[base]; ok {
		b.WriteByte(code)
		return b.String()
	}
	b.WriteByte(objectPrefix)
	b.WriteString(strings.ReplaceAll(base, sourceSep, descriptorSep))
	b.WriteByte(objectSuffix)
	return b.String()
}

// ToSource converts a descriptor path back into its dotted spelling.
func ToSource(desc string) string {
	elem, dims := Element(desc)
	if dims > 0 && len(desc)-dims == 1 {
		if name, ok := codePrimitives[elem[0]]; ok {
			elem = name
		}
	}
	elem = strings.ReplaceAll(elem, descriptorSep, sourceSep)
	if dims == 0 {
		return elem
	}
	return elem + strings.Repeat(arraySuffix, dims)
}

// Element splits a descriptor into its element part and array dimension count.
// The L...; envelope of an object element is stripped; a primitive element is
// returned as its single-letter code.
func Element(desc string) (elem string, dims int) {
	for dims < len(desc) && desc[dims] == arrayMarker {
		dims++
	}
	elem = desc[dims:]
	if dims > 0 && len(elem) >= 2 && elem[0] == objectPrefix && elem[len(elem)-1] == objectSuffix {
		elem = elem[1 : len(elem)-1]
	}
	return elem, dims
}

// IsArray reports whether desc names an array type.
func IsArray(desc string) bool {
	return strings.HasPrefix(desc, string(arrayMarker))
}

// FromBinaryName converts the name a runtime reports for a class object
// (java.lang.String, [Ljava.lang.String;, [I, int) into descriptor spelling.
func FromBinaryName(name string) string {
	return strings.ReplaceAll(canonicalText(name), sourceSep, descriptorSep)
}

// ToBinaryName is the inverse of FromBinaryName.
func ToBinaryName(desc string) string {
	return strings.ReplaceAll(desc, descriptorSep, sourceSep)
}

func splitSourceDims(source string) (string, int) {
	dims := 0
	for strings.HasSuffix(source, arraySuffix) {
		source = strings.TrimSuffix(source, arraySuffix)
		dims++
	}
	return source, dims
}
