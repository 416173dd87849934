package fixture

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hier/internal/modifiers"
	"hier/internal/provider"
)

func mustBuiltin(t *testing.T, name string) *Provider {
	t.Helper()
	p, err := NewBuiltin(name)
	require.NoError(t, err)
	return p
}

func find(t *testing.T, p *Provider, desc string) provider.Handle {
	t.Helper()
	h, err := p.FindByIdentifier(desc)
	require.NoError(t, err, desc)
	return h
}

func names(t *testing.T, p *Provider, hs []provider.Handle) []string {
	t.Helper()
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		name, err := p.Name(h)
		require.NoError(t, err)
		out = append(out, name)
	}
	return out
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"jdk17", "jdk8"}, Builtins())
	_, err := Builtin("jdk1")
	require.Error(t, err)
}

func TestDirectInterfacesPerGeneration(t *testing.T) {
	cases := []struct {
		gen  string
		want []string
	}{
		{"jdk8", []string{"java.lang.Comparable"}},
		{"jdk17", []string{"java.lang.Comparable", "java.lang.constant.Constable", "java.lang.constant.ConstantDesc"}},
	}
	for _, tc := range cases {
		t.Run(tc.gen, func(t *testing.T) {
			p := mustBuiltin(t, tc.gen)
			ifaces, err := p.Interfaces(find(t, p, "java/lang/Integer"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(t, p, ifaces))
		})
	}
}

func TestSuperclassAndModifiers(t *testing.T) {
	p := mustBuiltin(t, "jdk8")

	super, ok, err := p.Superclass(find(t, p, "java/lang/Integer"))
	require.NoError(t, err)
	require.True(t, ok)
	name, err := p.Name(super)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Number", name)

	_, ok, err = p.Superclass(find(t, p, "java/lang/Object"))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = p.Superclass(find(t, p, "java/lang/Comparable"))
	require.NoError(t, err)
	assert.False(t, ok, "interfaces have no superclass")

	mods, err := p.Modifiers(find(t, p, "java/lang/Override"))
	require.NoError(t, err)
	assert.Equal(t, int32(0x2601), mods)
	mods, err = p.Modifiers(find(t, p, "java/lang/Integer"))
	require.NoError(t, err)
	assert.Equal(t, int32(0x11), mods)
}

func TestArrays(t *testing.T) {
	p := mustBuiltin(t, "jdk17")

	ints := find(t, p, "[I")
	again := find(t, p, "[I")
	same, err := p.SameIdentity(ints, again)
	require.NoError(t, err)
	assert.True(t, same, "array classes are synthesized once")

	name, err := p.Name(ints)
	require.NoError(t, err)
	assert.Equal(t, "[I", name)

	super, ok, err := p.Superclass(ints)
	require.NoError(t, err)
	require.True(t, ok)
	name, err = p.Name(super)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Object", name)

	ifaces, err := p.Interfaces(ints)
	require.NoError(t, err)
	assert.Equal(t, []string{"java.lang.Cloneable", "java.io.Serializable"}, names(t, p, ifaces))

	mods, err := p.Modifiers(ints)
	require.NoError(t, err)
	assert.Equal(t, int32(modifiers.Public|modifiers.Abstract|modifiers.Final), mods)

	strs := find(t, p, "[[Ljava/lang/String;")
	name, err = p.Name(strs)
	require.NoError(t, err)
	assert.Equal(t, "[[Ljava.lang.String;", name)
}

func TestArrayErrors(t *testing.T) {
	p := mustBuiltin(t, "jdk17")

	_, err := p.FindByIdentifier("[V")
	require.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrNotFound, "void arrays are malformed, not missing")

	_, err = p.FindByIdentifier("[Lno/such/Type;")
	assert.ErrorIs(t, err, provider.ErrNotFound)
	_, err = p.FindByIdentifier("[Q")
	assert.ErrorIs(t, err, provider.ErrNotFound)
	_, err = p.FindByIdentifier("no/such/Type")
	assert.ErrorIs(t, err, provider.ErrNotFound)
	_, err = p.FindByIdentifier("int")
	assert.ErrorIs(t, err, provider.ErrNotFound, "primitives go through PrimitiveType")
}

func TestPrimitiveType(t *testing.T) {
	p := mustBuiltin(t, "jdk8")

	prim, err := p.PrimitiveType("int")
	require.NoError(t, err)
	name, err := p.Name(prim)
	require.NoError(t, err)
	assert.Equal(t, "int", name)

	same, err := p.SameIdentity(prim, find(t, p, "java/lang/Integer"))
	require.NoError(t, err)
	assert.False(t, same)

	_, ok, err := p.Superclass(prim)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.PrimitiveType("string")
	assert.ErrorIs(t, err, provider.ErrNotFound)
}

func TestIsAssignableFrom(t *testing.T) {
	p := mustBuiltin(t, "jdk8")
	intType, err := p.PrimitiveType("int")
	require.NoError(t, err)
	handle := func(desc string) provider.Handle {
		if desc == "int" {
			return intType
		}
		return find(t, p, desc)
	}

	cases := []struct {
		target, source string
		want           bool
	}{
		{"java/lang/Number", "java/lang/Integer", true},
		{"java/lang/Integer", "java/lang/Number", false},
		{"java/lang/Comparable", "java/lang/Integer", true},
		{"java/lang/Object", "java/lang/Comparable", true},
		{"java/util/Collection", "java/util/ArrayList", true},
		{"java/util/Map", "java/util/EnumMap", true},
		{"java/util/AbstractMap", "java/util/LinkedHashMap", true},
		{"java/util/HashMap", "java/util/TreeMap", false},
		{"java/lang/Object", "[I", true},
		{"java/lang/Cloneable", "[I", true},
		{"[Ljava/lang/Object;", "[Ljava/lang/String;", true},
		{"[Ljava/lang/String;", "[Ljava/lang/Object;", false},
		{"[Ljava/lang/Object;", "[I", false},
		{"[I", "[J", false},
		{"[Ljava/lang/Object;", "[[I", true},
		{"int", "int", true},
		{"int", "java/lang/Integer", false},
		{"java/lang/Object", "int", false},
	}
	for _, tc := range cases {
		t.Run(tc.target+"<-"+tc.source, func(t *testing.T) {
			got, err := p.IsAssignableFrom(handle(tc.target), handle(tc.source))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestForeignHandle(t *testing.T) {
	p := mustBuiltin(t, "jdk8")
	_, err := p.Name("java.lang.Object")
	require.Error(t, err)
	_, err = p.SameIdentity(nil, find(t, p, "java/lang/Object"))
	require.Error(t, err)
}

func TestNewRejectsBrokenHierarchies(t *testing.T) {
	object := ClassDef{Name: "java.lang.Object", Modifiers: []string{"public"}}
	iface := ClassDef{Name: "a.I", Modifiers: []string{"public", "interface", "abstract"}}
	cases := []struct {
		name    string
		classes []ClassDef
		want    string
	}{
		{"no root", []ClassDef{{Name: "a.B"}}, "no java.lang.Object"},
		{"unknown super", []ClassDef{object, {Name: "a.B", Super: "a.Missing"}}, "unknown class a.Missing"},
		{"duplicate", []ClassDef{object, object}, "duplicate class"},
		{"bad modifier", []ClassDef{object, {Name: "a.B", Modifiers: []string{"sealed"}}}, "unknown modifier"},
		{"extends interface", []ClassDef{object, iface, {Name: "a.B", Super: "a.I"}}, "extends interface"},
		{"implements class", []ClassDef{object, {Name: "a.B", Interfaces: []string{"java.lang.Object"}}}, "non-interface"},
		{"cycle", []ClassDef{object, {Name: "a.B", Super: "a.C"}, {Name: "a.C", Super: "a.B"}}, "cycle"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(&Hierarchy{Classes: tc.classes})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestHierarchyFiles(t *testing.T) {
	h, err := Builtin("jdk17")
	require.NoError(t, err)
	dir := t.TempDir()

	mp := filepath.Join(dir, "out", "jdk17.msgpack")
	require.NoError(t, WriteMsgpack(mp, h))
	fromMsgpack, err := Load(mp)
	require.NoError(t, err)
	assert.Equal(t, h, fromMsgpack)

	var buf bytes.Buffer
	require.NoError(t, EncodeTOML(&buf, h))
	fromTOML, err := DecodeTOML(&buf, "export")
	require.NoError(t, err)
	assert.Equal(t, h, fromTOML)

	_, err = Load(filepath.Join(dir, "h.json"))
	require.Error(t, err)
}

func TestDecodeTOMLRejectsUnknownKeys(t *testing.T) {
	src := `runtime = "17"
[[class]]
name = "java.lang.Object"
superclass = "nope"
`
	_, err := DecodeTOML(strings.NewReader(src), "inline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "superclass")
}

func TestParseRuntimeVersion(t *testing.T) {
	cases := map[string]int{
		"1.8":       8,
		"1.8.0_292": 8,
		"9":         9,
		"11.0.2":    11,
		"17":        17,
		"17.0.2+8":  17,
		"21-ea":     21,
	}
	for in, want := range cases {
		got, err := ParseRuntimeVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "x", "1.", "0"} {
		_, err := ParseRuntimeVersion(bad)
		assert.Error(t, err, bad)
	}

	p := mustBuiltin(t, "jdk8")
	v, err := ParseRuntimeVersion(p.Runtime())
	require.NoError(t, err)
	assert.Equal(t, 8, v)
}
