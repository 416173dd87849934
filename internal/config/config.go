// Package config loads hier.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"hier/internal/provider/fixture"
	"hier/internal/trace"
)

// FileName is the name searched for by Find.
const FileName = "hier.toml"

// DefaultFixture is the hierarchy used when none is configured.
const DefaultFixture = "jdk17"

// Config is the decoded hier.toml.
type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path     string         `toml:"-"`
	Provider ProviderConfig `toml:"provider"`
	Cache    CacheConfig    `toml:"cache"`
	Trace    TraceConfig    `toml:"trace"`
}

// ProviderConfig selects the runtime binding.
type ProviderConfig struct {
	// Fixture is a builtin hierarchy name or a path to a .toml/.msgpack file.
	Fixture string `toml:"fixture"`
}

// CacheConfig tunes the class pool and resolver.
type CacheConfig struct {
	Assignability int `toml:"assignability"`
	Capacity      int `toml:"capacity"`
	PrefetchJobs  int `toml:"prefetch_jobs"`
}

// TraceConfig mirrors the --trace* flags.
type TraceConfig struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Format   string `toml:"format"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

var (
	// ErrNegativeSize indicates a size or limit below zero.
	ErrNegativeSize = errors.New("value must not be negative")
	// ErrEmptyFixture indicates [provider].fixture was set to an empty string.
	ErrEmptyFixture = errors.New("[provider].fixture must not be empty")
)

// Default returns the configuration used without a hier.toml.
func Default() Config {
	return Config{
		Provider: ProviderConfig{Fixture: DefaultFixture},
		Trace: TraceConfig{
			Level:    "off",
			Mode:     "stream",
			Format:   "auto",
			Output:   "-",
			RingSize: 4096,
		},
	}
}

// Find walks up from startDir to locate hier.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest hier.toml above startDir, or returns Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads path over the defaults. Keys not listed above are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if meta.IsDefined("provider", "fixture") {
		fx := strings.TrimSpace(cfg.Provider.Fixture)
		if fx == "" {
			return Config{}, fmt.Errorf("%s: %w", path, ErrEmptyFixture)
		}
		if !slices.Contains(fixture.Builtins(), fx) && !filepath.IsAbs(fx) {
			fx = filepath.Join(filepath.Dir(path), fx)
		}
		cfg.Provider.Fixture = fx
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerations and limits.
func (c Config) Validate() error {
	for name, v := range map[string]int{
		"cache.assignability": c.Cache.Assignability,
		"cache.capacity":      c.Cache.Capacity,
		"cache.prefetch_jobs": c.Cache.PrefetchJobs,
		"trace.ring_size":     c.Trace.RingSize,
	} {
		if v < 0 {
			return fmt.Errorf("%s: %w", name, ErrNegativeSize)
		}
	}
	_, err := c.TracerConfig()
	return err
}

// TracerConfig converts the [trace] section into a trace.Config.
func (c Config) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}, nil
}
