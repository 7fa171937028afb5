// Package render transforms parsed node sequences into HTML.
//
// Rendering is a pure function of the node sequence: the same input always
// produces byte-identical output. Escaping follows the target format rules;
// code block literals pass through verbatim apart from HTML escaping.
package render

import (
	"fmt"
	"strings"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
	"git.home.luguber.info/inful/pagepress/internal/markdown"
)

// HTML renders a node sequence to an HTML fragment.
//
// An implementation of markdown.Node outside the closed variant set is a
// fatal error; with the shipped parser it is unreachable.
func HTML(nodes []markdown.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := renderNode(&sb, n); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func renderNode(sb *strings.Builder, n markdown.Node) error {
	switch node := n.(type) {
	case *markdown.Heading:
		level := node.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		fmt.Fprintf(sb, "<h%d>", level)
		if err := renderAll(sb, node.Children); err != nil {
			return err
		}
		fmt.Fprintf(sb, "</h%d>\n", level)
	case *markdown.Paragraph:
		sb.WriteString("<p>")
		if err := renderAll(sb, node.Children); err != nil {
			return err
		}
		sb.WriteString("</p>\n")
	case *markdown.CodeBlock:
		if node.Language != "" {
			fmt.Fprintf(sb, "<pre><code class=\"language-%s\">", escapeAttr(node.Language))
		} else {
			sb.WriteString("<pre><code>")
		}
		sb.WriteString(escapeText(node.Literal))
		sb.WriteString("</code></pre>\n")
	case *markdown.List:
		tag := "ul"
		if node.Ordered {
			tag = "ol"
		}
		fmt.Fprintf(sb, "<%s>\n", tag)
		for _, item := range node.Items {
			sb.WriteString("<li>")
			if err := renderAll(sb, item); err != nil {
				return err
			}
			sb.WriteString("</li>\n")
		}
		fmt.Fprintf(sb, "</%s>\n", tag)
	case *markdown.Image:
		fmt.Fprintf(sb, "<img src=\"%s\" alt=\"%s\">", escapeAttr(node.Src), escapeAttr(node.Alt))
	case *markdown.Link:
		fmt.Fprintf(sb, "<a href=\"%s\">", escapeAttr(node.Href))
		if err := renderAll(sb, node.Children); err != nil {
			return err
		}
		sb.WriteString("</a>")
	case *markdown.Emphasis:
		tag := "em"
		if node.Strong {
			tag = "strong"
		}
		fmt.Fprintf(sb, "<%s>", tag)
		if err := renderAll(sb, node.Children); err != nil {
			return err
		}
		fmt.Fprintf(sb, "</%s>", tag)
	case *markdown.Text:
		sb.WriteString(escapeText(node.Literal))
	default:
		return pperrors.UnknownNodeVariant(fmt.Sprintf("%T", n))
	}
	return nil
}

func renderAll(sb *strings.Builder, nodes []markdown.Node) error {
	for _, n := range nodes {
		if err := renderNode(sb, n); err != nil {
			return err
		}
	}
	return nil
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
