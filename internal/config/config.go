package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"go.cog.dev/pkg"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "COG_CONFIG"

// Config holds the complete cogc configuration
type Config struct {
	// Requires is a semver constraint the running tool version must satisfy
	Requires string `toml:"requires"`

	Parser ParserConfig `toml:"parser"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults
	Path string `toml:"-"`
}

// ParserConfig holds parser settings
type ParserConfig struct {
	MaxDepth   int  `toml:"max_depth"`
	PointerOps bool `toml:"pointer_ops"`
}

// OutputConfig holds settings for printed trees and generated files
type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
	Dir    string `toml:"dir"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

var (
	formats = []string{"tree", "json", "yaml"}
	colors  = []string{"auto", "always", "never"}
)

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	cfg.Path = path
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadFromEnv loads the file named by COG_CONFIG, or the first of
// ./cog.toml and ~/.config/cog/config.toml that exists. Without any of them
// the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}

	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default(), nil
}

func defaultPaths() []string {
	paths := []string{"./cog.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "cog", "config.toml"))
	}

	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Parser.MaxDepth <= 0 {
		c.Parser.MaxDepth = cog.DefaultMaxDepth
	}

	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks enumerated settings and the version constraint against
// the version of the running tool.
func (c *Config) Validate(version string) error {
	if !contains(formats, c.Output.Format) {
		return errors.Errorf("output.format must be one of %s, got %q", strings.Join(formats, ", "), c.Output.Format)
	}

	if !contains(colors, c.Output.Color) {
		return errors.Errorf("output.color must be one of %s, got %q", strings.Join(colors, ", "), c.Output.Color)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	if c.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return errors.Wrapf(err, "invalid requires constraint %q", c.Requires)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid tool version %q", version)
	}

	if !constraint.Check(v) {
		return errors.Errorf("cogc %s does not satisfy requires %q", v, c.Requires)
	}

	return nil
}

// ParserOptions translates the parser section into parser options.
func (c *Config) ParserOptions() []cog.Option {
	return []cog.Option{
		cog.WithMaxDepth(c.Parser.MaxDepth),
		cog.WithPointerOps(c.Parser.PointerOps),
	}
}

func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errors.Wrapf(err, "invalid log.level %q", l.Level)
	}

	return level, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}

	return false
}
