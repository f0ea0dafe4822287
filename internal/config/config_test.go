package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultReader, cfg.Reader)
	assert.Equal(t, DefaultWriter, cfg.Writer)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.File)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "docpipe.yaml", `
reader: mdsimple
writer: html
log_level: debug
writers:
  pdf:
    page_size: Letter
    font_size: 12
readers:
  markdown:
    math: false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mdsimple", cfg.Reader)
	assert.Equal(t, "html", cfg.Writer)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, path, cfg.File)

	pdf := cfg.WriterSettings("PDF")
	require.NotNil(t, pdf)
	assert.Equal(t, "Letter", pdf["page_size"])
	assert.EqualValues(t, 12, pdf["font_size"])

	assert.Equal(t, false, cfg.ReaderSettings("markdown")["math"])
	assert.Nil(t, cfg.ReaderSettings("mdsimple"))
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "docpipe.toml", `
writer = "dumper"

[writers.dumper]
preview_width = 20
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dumper", cfg.Writer)
	assert.EqualValues(t, 20, cfg.WriterSettings("dumper")["preview_width"])
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DOCPIPE_WRITER", "html")
	t.Setenv("DOCPIPE_DEBUG", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "html", cfg.Writer)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWriteTOML(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Writers = map[string]map[string]interface{}{"pdf": {"page_size": "A5"}}

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteTOML(&buf))

	var back Config
	_, err := toml.Decode(buf.String(), &back)
	require.NoError(t, err)
	assert.Equal(t, cfg.Reader, back.Reader)
	assert.Equal(t, cfg.Writer, back.Writer)
	assert.Equal(t, "A5", back.Writers["pdf"]["page_size"])
	assert.NotContains(t, buf.String(), "File")
}
