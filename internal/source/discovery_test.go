package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("# "+rel+"\n"), 0o600))
}

func TestDiscover_FindsMarkdownOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md")
	writeFile(t, root, "chapters/adt.md")
	writeFile(t, root, "chapters/types.markdown")
	writeFile(t, root, "chapters/diagram.png")
	writeFile(t, root, "notes.txt")

	files, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	rels := make([]string, 0, len(files))
	for _, f := range files {
		rels = append(rels, f.RelativePath)
	}
	require.Contains(t, rels, "index.md")
	require.Contains(t, rels, "chapters/adt.md")
	require.Contains(t, rels, "chapters/types.markdown")
}

func TestDiscover_SkipsHiddenAndUnderscoreDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "visible.md")
	writeFile(t, root, ".git/hidden.md")
	writeFile(t, root, "_drafts/wip.md")
	writeFile(t, root, ".hidden.md")

	files, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "visible.md", files[0].RelativePath)
}

func TestDiscover_SectionAndName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "chapters/pattern-matching.md")
	writeFile(t, root, "about.md")

	files, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	byRel := map[string]File{}
	for _, f := range files {
		byRel[f.RelativePath] = f
	}

	ch := byRel["chapters/pattern-matching.md"]
	require.Equal(t, "chapters", ch.Section)
	require.Equal(t, "pattern-matching", ch.Name)

	about := byRel["about.md"]
	require.Equal(t, "", about.Section)
	require.Equal(t, "about", about.Name)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.True(t, pperrors.IsCategory(err, pperrors.CategoryNotFound))
}
