package classpath

import "sort"

var primitiveCodes = map[string]byte{
	"boolean": 'Z',
	"byte":    'B',
	"char":    'C',
	"short":   'S',
	"int":     'I',
	"long":    'J',
	"float":   'F',
	"double":  'D',
	"void":    'V',
}

var codePrimitives = func() map[byte]string {
	out := make(map[byte]string, len(primitiveCodes))
	for name, code := range primitiveCodes {
		out[code] = name
	}
	return out
}()

var wrapperClasses = map[byte]string{
	'Z': "java/lang/Boolean",
	'B': "java/lang/Byte",
	'C': "java/lang/Character",
	'S': "java/lang/Short",
	'I': "java/lang/Integer",
	'J': "java/lang/Long",
	'F': "java/lang/Float",
	'D': "java/lang/Double",
	'V': "java/lang/Void",
}

// ObjectClass is the descriptor path of the root type.
const ObjectClass = "java/lang/Object"

// IsPrimitive reports whether name is a primitive type name such as "int" or "void".
func IsPrimitive(name string) bool {
	_, ok := primitiveCodes[name]
	return ok
}

// PrimitiveCode returns the single-letter descriptor for a primitive name.
func PrimitiveCode(name string) (byte, bool) {
	code, ok := primitiveCodes[name]
	return code, ok
}

// PrimitiveName returns the primitive name for a single-letter descriptor.
func PrimitiveName(code byte) (string, bool) {
	name, ok := codePrimitives[code]
	return name, ok
}

// WrapperClass returns the descriptor path of the boxed wrapper class for a
// primitive name, e.g. "int" -> "java/lang/Integer".
func WrapperClass(primitive string) (string, bool) {
	code, ok := primitiveCodes[primitive]
	if !ok {
		return "", false
	}
	return wrapperClasses[code], true
}

// Primitives lists every primitive name in sorted order.
func Primitives() []string {
	names := make([]string, 0, len(primitiveCodes))
	for name := range primitiveCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
