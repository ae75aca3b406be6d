package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadFrom(t *testing.T) {
	tomlDir := t.TempDir()
	writeFile(t, filepath.Join(tomlDir, "sn.toml"), `
[source]
dirs = ["src", "/abs"]
extensions = [".sn", ".expr"]

[log]
verbosity = 2
file = "sn.log"

[output]
format = "json"
`)

	yamlDir := t.TempDir()
	writeFile(t, filepath.Join(yamlDir, "sn.yaml"), `
source:
  dirs: [src, /abs]
  extensions: [.sn, .expr]
log:
  verbosity: 2
  file: sn.log
output:
  format: json
`)

	for name, dir := range map[string]string{"toml": tomlDir, "yaml": yamlDir} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadFrom(dir)
			require.NoError(t, err)

			assert.Equal(t, []string{filepath.Join(dir, "src"), "/abs"}, cfg.Source.Dirs)
			assert.Equal(t, []string{".sn", ".expr"}, cfg.Source.Extensions)
			assert.Equal(t, 2, cfg.Log.Verbosity)
			assert.Equal(t, "sn.log", cfg.Log.File)
			assert.Equal(t, "json", cfg.Output.Format)
			assert.NotEmpty(t, cfg.Path)
		})
	}
}

func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, cfg.Source.Dirs)
	assert.Equal(t, []string{".sn"}, cfg.Source.Extensions)
	assert.Equal(t, "tree", cfg.Output.Format)
	assert.Empty(t, cfg.Path)
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sn.yml")
	writeFile(t, path, "log:\n  verbosity: 1\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Log.Verbosity)
	assert.Equal(t, "tree", cfg.Output.Format)
	assert.Equal(t, []string{".sn"}, cfg.Source.Extensions)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "sn.toml", "[source\n"},
		{"bad yaml", "sn.yaml", "source: [\n"},
		{"unknown format", "sn.toml", "[output]\nformat = \"xml\"\n"},
		{"extension without dot", "sn.toml", "[source]\nextensions = [\"sn\"]\n"},
		{"negative verbosity", "sn.yaml", "log:\n  verbosity: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Matches("a/b/main.sn"))
	assert.False(t, cfg.Matches("main.go"))
	assert.False(t, cfg.Matches("sn"))
}
