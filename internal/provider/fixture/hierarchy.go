package fixture

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion is bumped when the msgpack layout of Hierarchy changes.
const schemaVersion uint16 = 1

//go:embed data/*.toml
var builtinFS embed.FS

// Hierarchy is a canned class hierarchy as stored on disk.
type Hierarchy struct {
	Schema  uint16     `toml:"-" msgpack:"schema"`
	Runtime string     `toml:"runtime" msgpack:"runtime"`
	Classes []ClassDef `toml:"class" msgpack:"classes"`
}

// ClassDef describes one class or interface. Names use the dotted binary
// spelling (java.util.Map$Entry); Super is empty for the root and for interfaces.
type ClassDef struct {
	Name       string   `toml:"name" msgpack:"name"`
	Super      string   `toml:"super,omitempty" msgpack:"super,omitempty"`
	Interfaces []string `toml:"interfaces,omitempty" msgpack:"interfaces,omitempty"`
	Modifiers  []string `toml:"modifiers,omitempty" msgpack:"modifiers,omitempty"`
}

// Builtins lists the names of the embedded hierarchies.
func Builtins() []string {
	entries, err := builtinFS.ReadDir("data")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// Builtin decodes the embedded hierarchy called name ("jdk8", "jdk17").
func Builtin(name string) (*Hierarchy, error) {
	data, err := builtinFS.ReadFile("data/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin hierarchy %q (available: %s)", name, strings.Join(Builtins(), ", "))
	}
	return DecodeTOML(bytes.NewReader(data), name)
}

// Open resolves ref as a builtin name first and as a file path otherwise.
func Open(ref string) (*Hierarchy, error) {
	for _, name := range Builtins() {
		if name == ref {
			return Builtin(name)
		}
	}
	return Load(ref)
}

// Load reads a hierarchy file, choosing the decoder by extension.
func Load(path string) (*Hierarchy, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(path)
	case ".msgpack", ".mp":
		return LoadMsgpack(path)
	default:
		return nil, fmt.Errorf("%s: unsupported hierarchy format (expected .toml or .msgpack)", path)
	}
}

// LoadTOML reads a TOML hierarchy file. Unknown keys are rejected.
func LoadTOML(path string) (*Hierarchy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTOML(f, path)
}

// DecodeTOML decodes a TOML hierarchy from r; origin labels errors.
func DecodeTOML(r io.Reader, origin string) (*Hierarchy, error) {
	var h Hierarchy
	meta, err := toml.NewDecoder(r).Decode(&h)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", origin, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", origin, strings.Join(keys, ", "))
	}
	h.Schema = schemaVersion
	return &h, nil
}

// EncodeTOML writes h as TOML.
func EncodeTOML(w io.Writer, h *Hierarchy) error {
	return toml.NewEncoder(w).Encode(h)
}

// LoadMsgpack reads a msgpack hierarchy file written by WriteMsgpack.
func LoadMsgpack(path string) (*Hierarchy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeMsgpack(f, path)
}

// DecodeMsgpack decodes a msgpack hierarchy from r; origin labels errors.
func DecodeMsgpack(r io.Reader, origin string) (*Hierarchy, error) {
	var h Hierarchy
	if err := msgpack.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("%s: failed to decode msgpack: %w", origin, err)
	}
	if h.Schema != schemaVersion {
		return nil, fmt.Errorf("%s: unsupported schema %d (want %d)", origin, h.Schema, schemaVersion)
	}
	return &h, nil
}

// EncodeMsgpack writes h as msgpack.
func EncodeMsgpack(w io.Writer, h *Hierarchy) error {
	out := *h
	out.Schema = schemaVersion
	return msgpack.NewEncoder(w).Encode(&out)
}

// WriteMsgpack writes h to path through a temp file and rename.
func WriteMsgpack(path string, h *Hierarchy) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := EncodeMsgpack(f, h); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
