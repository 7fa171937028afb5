package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagepress.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Test Site\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultContentDir, cfg.Content.Dir)
	require.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	require.Equal(t, DefaultConcurrency, cfg.Build.Concurrency)
	require.Equal(t, DefaultPreviewPort, cfg.Preview.Port)
	require.Equal(t, DefaultDebounce, cfg.Preview.Debounce)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `site:
  title: Docs
  base_url: https://docs.example.org
content:
  dir: ./chapters
  default_permalinks: true
output:
  directory: ./site
build:
  concurrency: 8
  state_file: .pagepress/state.db
preview:
  port: 8080
  debounce: 500ms
  rebuild_interval: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Docs", cfg.Site.Title)
	require.Equal(t, "./chapters", cfg.Content.Dir)
	require.True(t, cfg.Content.DefaultPermalinks)
	require.Equal(t, "./site", cfg.Output.Directory)
	require.Equal(t, 8, cfg.Build.Concurrency)
	require.Equal(t, ".pagepress/state.db", cfg.Build.StateFile)
	require.Equal(t, 8080, cfg.Preview.Port)
	require.Equal(t, 500*time.Millisecond, cfg.Preview.Debounce.Std())
	require.Equal(t, 5*time.Minute, cfg.Preview.RebuildInterval.Std())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, pperrors.IsCategory(err, pperrors.CategoryConfig))
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "site: [broken\n")

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, pperrors.IsCategory(err, pperrors.CategoryConfig))
}

func TestValidate_RejectsMissingTitle(t *testing.T) {
	path := writeConfig(t, "content:\n  dir: ./content\n")

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, pperrors.IsCategory(err, pperrors.CategoryValidation))
}

func TestValidate_RejectsOverlappingDirs(t *testing.T) {
	path := writeConfig(t, "site:\n  title: T\ncontent:\n  dir: ./x\noutput:\n  directory: ./x\n")

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, pperrors.IsCategory(err, pperrors.CategoryValidation))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PAGEPRESS_CONTENT_DIR", "./elsewhere")
	path := writeConfig(t, "site:\n  title: T\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./elsewhere", cfg.Content.Dir)
}

func TestWriteSample_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagepress.yaml")

	require.NoError(t, WriteSample(path, false))
	require.Error(t, WriteSample(path, false))
	require.NoError(t, WriteSample(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Site", cfg.Site.Title)
}
