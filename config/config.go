// Package config provides configuration loading and access for normangles.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/normangles/angles"
	"github.com/pthm-cable/normangles/report"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all normalizer and output settings.
type Config struct {
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// NormalizerConfig selects the evaluation path and default bounds.
type NormalizerConfig struct {
	Bulk      bool         `yaml:"bulk"`       // true = sequences only, false = scalars only
	Strategy  string       `yaml:"strategy"`   // vectorized | elementwise | chunked
	Range     angles.Range `yaml:"range"`      // default [lower, upper)
	ChunkSize int          `yaml:"chunk_size"` // chunked strategy: values per chunk
	Workers   int          `yaml:"workers"`    // chunked strategy: 0 = GOMAXPROCS
}

// InputConfig controls how the command reads values.
type InputConfig struct {
	BatchSize int `yaml:"batch_size"` // stdin values normalized and written per batch
}

// OutputConfig controls how results are written by the command.
type OutputConfig struct {
	Format    string `yaml:"format"`    // text | csv
	Precision int    `yaml:"precision"` // text output digits after the point, -1 = shortest
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Mode      angles.Mode
	Evaluator angles.Evaluator
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it again after changing fields by hand (e.g. from CLI flags).
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// Validate checks the config for values the normalizer cannot use.
func (c *Config) Validate() error {
	if err := c.Normalizer.Range.Validate(); err != nil {
		return fmt.Errorf("normalizer.range: %w", err)
	}
	if c.Normalizer.ChunkSize < 0 {
		return fmt.Errorf("normalizer.chunk_size must be >= 0, got %d", c.Normalizer.ChunkSize)
	}
	if c.Normalizer.Workers < 0 {
		return fmt.Errorf("normalizer.workers must be >= 0, got %d", c.Normalizer.Workers)
	}
	if c.Input.BatchSize <= 0 {
		return fmt.Errorf("input.batch_size must be > 0, got %d", c.Input.BatchSize)
	}
	switch c.Output.Format {
	case report.FormatText, report.FormatCSV:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Output.Precision < -1 {
		return fmt.Errorf("output.precision must be >= -1, got %d", c.Output.Precision)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	e, err := angles.NewEvaluator(c.Normalizer.Strategy, c.Normalizer.ChunkSize, c.Normalizer.Workers)
	if err != nil {
		return fmt.Errorf("normalizer.strategy: %w", err)
	}
	c.Derived.Evaluator = e
	c.Derived.Mode = angles.ModeFor(c.Normalizer.Bulk)
	return nil
}

// NewNormalizer builds a normalizer from the config.
func (c *Config) NewNormalizer() *angles.Normalizer {
	return angles.New(c.Derived.Mode,
		angles.WithEvaluator(c.Derived.Evaluator),
		angles.WithRange(c.Normalizer.Range),
	)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
