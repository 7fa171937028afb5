package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
	"git.home.luguber.info/inful/pagepress/internal/markdown"
)

func TestHTML_HeadingRoundTrip(t *testing.T) {
	nodes, err := markdown.Parse([]byte("## Title\n"))
	require.NoError(t, err)

	out, err := HTML(nodes)
	require.NoError(t, err)
	require.Equal(t, "<h2>Title</h2>\n", out)
}

func TestHTML_CodeBlockVerbatimWithLanguageTag(t *testing.T) {
	nodes, err := markdown.Parse([]byte("```haskell\ndata Foo = Bar | Baz\n```\n"))
	require.NoError(t, err)

	out, err := HTML(nodes)
	require.NoError(t, err)
	require.Equal(t, "<pre><code class=\"language-haskell\">data Foo = Bar | Baz\n</code></pre>\n", out)
}

func TestHTML_CodeBlockEscapesOnlyFormatCharacters(t *testing.T) {
	nodes := []markdown.Node{
		&markdown.CodeBlock{Literal: "if x < y && y > 0 then *ok*\n"},
	}

	out, err := HTML(nodes)
	require.NoError(t, err)
	require.Equal(t, "<pre><code>if x &lt; y &amp;&amp; y &gt; 0 then *ok*\n</code></pre>\n", out)
}

func TestHTML_Deterministic(t *testing.T) {
	nodes, err := markdown.Parse([]byte("# A\n\npara with *em* and a [link](/x/)\n\n- one\n- two\n"))
	require.NoError(t, err)

	first, err := HTML(nodes)
	require.NoError(t, err)
	second, err := HTML(nodes)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestHTML_ParagraphInlineMarkup(t *testing.T) {
	nodes := []markdown.Node{
		&markdown.Paragraph{Children: []markdown.Node{
			&markdown.Text{Literal: "see "},
			&markdown.Link{Href: "/adt/", Children: []markdown.Node{&markdown.Text{Literal: "types"}}},
			&markdown.Text{Literal: " and "},
			&markdown.Emphasis{Strong: true, Children: []markdown.Node{&markdown.Text{Literal: "more"}}},
		}},
	}

	out, err := HTML(nodes)
	require.NoError(t, err)
	require.Equal(t, "<p>see <a href=\"/adt/\">types</a> and <strong>more</strong></p>\n", out)
}

func TestHTML_ListRendering(t *testing.T) {
	nodes := []markdown.Node{
		&markdown.List{Ordered: true, Items: [][]markdown.Node{
			{&markdown.Text{Literal: "first"}},
			{&markdown.Text{Literal: "second"}},
		}},
	}

	out, err := HTML(nodes)
	require.NoError(t, err)
	require.Equal(t, "<ol>\n<li>first</li>\n<li>second</li>\n</ol>\n", out)
}

func TestHTML_ImageAttributeEscaping(t *testing.T) {
	nodes := []markdown.Node{
		&markdown.Image{Alt: `a "quoted" alt`, Src: "img/x.png"},
	}

	out, err := HTML(nodes)
	require.NoError(t, err)
	require.Equal(t, "<img src=\"img/x.png\" alt=\"a &quot;quoted&quot; alt\">", out)
}

func TestHTML_HeadingLevelClamped(t *testing.T) {
	out, err := HTML([]markdown.Node{&markdown.Heading{Level: 9, Children: []markdown.Node{&markdown.Text{Literal: "deep"}}}})
	require.NoError(t, err)
	require.Equal(t, "<h6>deep</h6>\n", out)
}

type bogusNode struct{}

func (bogusNode) Kind() markdown.NodeKind { return "bogus" }

func TestHTML_UnknownVariantIsFatal(t *testing.T) {
	_, err := HTML([]markdown.Node{bogusNode{}})
	require.Error(t, err)
	require.True(t, pperrors.IsCategory(err, pperrors.CategoryRender))
}
