package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagepress/internal/document"
	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

func mustDoc(t *testing.T, content, source string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(content))
	require.NoError(t, err)
	return doc.WithSource(source)
}

func TestCompute_PermalinkField(t *testing.T) {
	doc := mustDoc(t, "---\npermalink: /x/\n---\nBody\n", "chapters/x.md")

	route, err := Compute(doc, Policy{})
	require.NoError(t, err)
	require.Equal(t, "/x/", route.Permalink)
	require.Equal(t, "x/index.html", route.File)
}

func TestCompute_PermalinkNormalized(t *testing.T) {
	cases := map[string]string{
		"/a/b/": "/a/b/",
		"a/b":   "/a/b/",
		"/a/b":  "/a/b/",
		" /a/ ": "/a/",
		"/":     "/",
	}

	for raw, want := range cases {
		doc := mustDoc(t, "---\npermalink: "+raw+"\n---\nBody\n", "x.md")
		route, err := Compute(doc, Policy{})
		require.NoError(t, err)
		require.Equal(t, want, route.Permalink, "permalink %q", raw)
	}
}

func TestCompute_MissingPermalinkDefaultDisabled(t *testing.T) {
	doc := mustDoc(t, "---\ntitle: No Permalink\n---\nBody\n", "chapters/intro.md")

	_, err := Compute(doc, Policy{})
	require.Error(t, err)
	require.True(t, pperrors.IsCategory(err, pperrors.CategoryMissingField))
}

func TestCompute_DefaultFromSource(t *testing.T) {
	doc := mustDoc(t, "---\ntitle: Intro\n---\nBody\n", "chapters/Pattern Matching.md")

	route, err := Compute(doc, Policy{DefaultFromSource: true})
	require.NoError(t, err)
	require.Equal(t, "/chapters/pattern-matching/", route.Permalink)
	require.Equal(t, "chapters/pattern-matching/index.html", route.File)
}

func TestCompute_Deterministic(t *testing.T) {
	doc := mustDoc(t, "---\npermalink: /adt/\n---\nBody\n", "adt.md")

	first, err := Compute(doc, Policy{})
	require.NoError(t, err)
	second, err := Compute(doc, Policy{})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Algebraic Types":   "algebraic-types",
		"Café au Lait":      "cafe-au-lait",
		"already-sluggy":    "already-sluggy",
		"Mixed__Separators": "mixed-separators",
		"trailing!!":        "trailing",
		"":                  "",
	}

	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}
