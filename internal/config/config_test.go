package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "escrido.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
include: [src, lib]
template_dir: tpl
namespaces: [core]
relabel:
  Details: Einzelheiten
html:
  out_dir: out
latex:
  enabled: true
search_index:
  enabled: true
  encoding: js
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"src", "lib"}, cfg.Include)
	assert.Equal(t, "tpl", cfg.TemplateDir)
	assert.Equal(t, []string{"core"}, cfg.Namespaces)
	assert.Equal(t, "Einzelheiten", cfg.Relabel["Details"])
	assert.Equal(t, "out", cfg.HTML.OutDir)
	assert.True(t, cfg.HTML.Enabled, "defaults survive partial sections")
	assert.Equal(t, ".html", cfg.HTML.Postfix)
	assert.True(t, cfg.LaTeX.Enabled)
	assert.Equal(t, "js", cfg.SearchIndex.Encoding)
	assert.Equal(t, "srchidx.json", cfg.SearchIndex.File)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "html:\n  out_dir: out\n")
	t.Setenv("ESCRIDO_HTML_DIR", "env-out")
	t.Setenv("ESCRIDO_INCLUDE", "a b")
	t.Setenv("ESCRIDO_LATEX", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-out", cfg.HTML.OutDir)
	assert.Equal(t, []string{"a", "b"}, cfg.Include)
	assert.True(t, cfg.LaTeX.Enabled)

	t.Setenv("ESCRIDO_LATEX", "maybe")
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "ESCRIDO_LATEX")
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	_, err = LoadConfig(writeConfig(t, "include: [\n"))
	assert.ErrorContains(t, err, "parse")

	_, err = LoadConfig(writeConfig(t, "search_index:\n  encoding: xml\n"))
	assert.EqualError(t, err, `unknown search index encoding "xml"`)
}

func TestLoadConfig_DefaultPathOptional(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_Database(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "report: build.json\n"))
	require.NoError(t, err)
	assert.Equal(t, "escrido.db", cfg.DB)
	assert.Equal(t, "build.json", cfg.Report)

	t.Setenv("ESCRIDO_DB", "other.db")
	cfg, err = LoadConfig(writeConfig(t, "db: pages.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "other.db", cfg.DB)
}
