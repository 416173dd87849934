package classpath

import (
	"strings"
	"testing"
)

const maxFuzzInput = 1 << 12

func plainSource(s string) bool {
	base := strings.TrimRight(s, "[]")
	if strings.Count(s[len(base):], "[]")*2 != len(s)-len(base) {
		return false
	}
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '$', r == '.':
		default:
			return false
		}
	}
	return true
}

func FuzzConvert(f *testing.F) {
	for _, seed := range []string{"int", "int[]", "[[J", "java.lang.String[]", "[Ljava/lang/Class;", "I[]", "[L;", "[", ";", "void[][]"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		// Arbitrary input must never panic.
		_ = ToSource(input)
		_, _ = Element(input)
		_ = FromBinaryName(input)
		_ = SourcePath(input).Convert().Convert()

		if plainSource(input) {
			if got := ToSource(ToDescriptor(input)); got != input {
				t.Fatalf("round trip of %q gave %q", input, got)
			}
		}
	})
}
