package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.cog.dev/pkg"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "cog.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, cog.DefaultMaxDepth, cfg.Parser.MaxDepth)
	assert.False(t, cfg.Parser.PointerOps)
	assert.Equal(t, "tree", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Path)
	assert.NoError(t, cfg.Validate("0.1.0"))
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
requires = ">= 0.1"

[parser]
max_depth = 64
pointer_ops = true

[output]
format = "json"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, ">= 0.1", cfg.Requires)
	assert.Equal(t, 64, cfg.Parser.MaxDepth)
	assert.True(t, cfg.Parser.PointerOps)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Equal(t, "debug", cfg.Log.Level)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	assert.Len(t, cfg.ParserOptions(), 2)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, dir, "[parser\nmax_depth = 1"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[output]\nformat = \"yaml\"\n")

	t.Setenv(EnvVar, path)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)

	t.Setenv(EnvVar, filepath.Join(dir, "nope.toml"))
	_, err = LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", t.TempDir())

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		modify  func(c *Config)
		version string
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, "1.0.0", false},
		{"satisfied constraint", func(c *Config) { c.Requires = "^0.3" }, "0.3.2", false},
		{"unsatisfied constraint", func(c *Config) { c.Requires = ">= 2.0" }, "1.4.0", true},
		{"bad constraint", func(c *Config) { c.Requires = "not a version" }, "1.0.0", true},
		{"bad tool version", func(c *Config) { c.Requires = ">= 1.0" }, "dev", true},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "1.0.0", true},
		{"bad color", func(c *Config) { c.Output.Color = "sometimes" }, "1.0.0", true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "1.0.0", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.modify(cfg)

			err := cfg.Validate(c.version)
			if c.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
