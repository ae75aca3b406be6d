package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigNames are the file names LoadFrom looks for, in order.
var ConfigNames = []string{"sn.toml", "sn.yaml", "sn.yml"}

var OutputFormats = []string{"tree", "json", "source", "compact"}

// Config is the project configuration read from sn.toml or sn.yaml.
//
//	[source]
//	dirs = ["src"]
//	extensions = [".sn"]
//
//	[log]
//	verbosity = 1
//	file = "sn.log"
//
//	[output]
//	format = "tree"
type Config struct {
	Source SourceConfig `toml:"source" yaml:"source"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Output OutputConfig `toml:"output" yaml:"output"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

type SourceConfig struct {
	Dirs       []string `toml:"dirs" yaml:"dirs"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Source.Dirs) == 0 {
		c.Source.Dirs = []string{"."}
	}
	if len(c.Source.Extensions) == 0 {
		c.Source.Extensions = []string{".sn"}
	}
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
}

// Load reads the configuration of the project in the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads the first of ConfigNames found in dir. Without any of
// them it returns Default with source dirs relative to dir.
func LoadFrom(dir string) (*Config, error) {
	for _, name := range ConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat config: %w", err)
		}
		return LoadFile(path)
	}

	cfg := Default()
	cfg.Source.Dirs = []string{dir}
	return cfg, nil
}

// LoadFile reads a configuration file. The format follows the extension:
// .yaml and .yml are YAML, anything else is TOML. Relative source dirs are
// resolved against the directory of the file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.Path = path
	cfg.applyDefaults()
	base := filepath.Dir(path)
	for i, dir := range cfg.Source.Dirs {
		if !filepath.IsAbs(dir) {
			cfg.Source.Dirs[i] = filepath.Join(base, dir)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("output.format: unknown format %q (want one of %s)", c.Output.Format, strings.Join(OutputFormats, ", "))
	}
	for _, ext := range c.Source.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("source.extensions: %q must start with a dot", ext)
		}
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity: must not be negative")
	}
	return nil
}

// Matches reports whether path has one of the configured source extensions.
func (c *Config) Matches(path string) bool {
	return slices.Contains(c.Source.Extensions, filepath.Ext(path))
}
