package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adnsv/texmk/compile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "pdflatex", cfg.Engine)
	assert.Equal(t, "bibtex", cfg.BibTool)
	assert.Equal(t, 60*time.Second, time.Duration(cfg.EngineTimeout))
	assert.Equal(t, 30*time.Second, time.Duration(cfg.BibTimeout))
	assert.Equal(t, 5, cfg.MaxDiagnostics)
	assert.Equal(t, time.Second, time.Duration(cfg.PollInterval))
	assert.Equal(t, compile.DefaultAuxSuffixes, cfg.AuxSuffixes)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, FileName), []byte(
		"engine: xelatex\n"+
			"engine-timeout: 90s\n"+
			"max-diagnostics: 10\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "xelatex", cfg.Engine)
	assert.Equal(t, 90*time.Second, time.Duration(cfg.EngineTimeout))
	assert.Equal(t, 10, cfg.MaxDiagnostics)
	// untouched entries keep their defaults
	assert.Equal(t, "bibtex", cfg.BibTool)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.BibTimeout))
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, FileName), []byte("engine-timeout: soon\n"), 0644)
	require.NoError(t, err)

	_, err = Load(dir)
	assert.Error(t, err)
}

func TestLoadEnvOverridesToolNames(t *testing.T) {
	t.Setenv("TEXMK_ENGINE", "lualatex")
	t.Setenv("TEXMK_BIBTOOL", "biber")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "lualatex", cfg.Engine)
	assert.Equal(t, "biber", cfg.BibTool)
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TEXMK_ENGINE=tectonic\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TEXMK_ENGINE") })

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "tectonic", cfg.Engine)
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Engine = "xelatex"
	cfg.EngineTimeout = Duration(2 * time.Minute)
	cfg.AuxSuffixes = []string{".aux"}

	r := compile.NewRunner()
	cfg.Apply(r)

	assert.Equal(t, "xelatex", r.Engine)
	assert.Equal(t, 2*time.Minute, r.EngineTimeout)
	assert.Equal(t, []string{".aux"}, r.AuxSuffixes)
}
