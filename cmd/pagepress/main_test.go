package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagepress/internal/config"
)

func writeTestConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Site.Title = "Test Site"
	cfg.Content.Dir = filepath.Join(root, "content")
	cfg.Content.DefaultPermalinks = true
	cfg.Output.Directory = filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(cfg.Content.Dir, 0o755))
	return cfg
}

func TestRunInitWritesSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagepress.yaml")

	require.NoError(t, runInit(path, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "site:")

	err = runInit(path, false)
	require.Error(t, err, "existing config should not be overwritten without force")
	require.NoError(t, runInit(path, true))
}

func TestRunBuildRendersContent(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)

	doc := "---\ntitle: Hello\npermalink: /hello/\n---\n# Hello\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Dir, "hello.md"), []byte(doc), 0o644))

	require.NoError(t, runBuild(cfg, false))

	out, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "hello", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<h1>Hello</h1>")
}

func TestRunBuildReportsDocumentFailures(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)
	cfg.Content.DefaultPermalinks = false

	doc := "# No permalink here\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Dir, "broken.md"), []byte(doc), 0o644))

	err := runBuild(cfg, false)
	require.Error(t, err)
}

func TestRunNormalizeStampsSources(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)

	path := filepath.Join(cfg.Content.Dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: Post\n---\n# Post\n"), 0o644))

	require.NoError(t, runNormalize(cfg, true))
	unchanged, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(unchanged), "uid:")

	require.NoError(t, runNormalize(cfg, false))
	stamped, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(stamped), "uid:")
}

func TestRunDiscoverListsSources(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Content.Dir, "posts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Dir, "posts", "a.md"), []byte("# A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Dir, "readme.txt"), []byte("skip"), 0o644))

	require.NoError(t, runDiscover(cfg, ""))
	require.NoError(t, runDiscover(cfg, "posts"))
}
