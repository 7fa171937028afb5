package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse parses a Markdown body into the closed node set.
//
// Parsing is delegated to Goldmark; its AST is converted node by node.
// Constructs outside the node set degrade to their text content instead of
// failing, so a parse error indicates genuinely unreadable input.
//
// Fenced code blocks keep their literal text verbatim. An unterminated fence
// captures the remaining body as block content (CommonMark fail-open
// semantics), it does not raise.
func Parse(body []byte) ([]Node, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))
	return convertBlocks(root, body), nil
}

func convertBlocks(parent gmast.Node, body []byte) []Node {
	var out []Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, convertBlock(child, body)...)
	}
	return out
}

// convertBlock converts a single Goldmark block node. Block constructs outside
// the node set (blockquotes, thematic breaks, raw HTML blocks) flatten into
// their converted children or literal text.
func convertBlock(n gmast.Node, body []byte) []Node {
	switch node := n.(type) {
	case *gmast.Heading:
		return []Node{&Heading{Level: node.Level, Children: convertInlines(node, body)}}
	case *gmast.Paragraph:
		return []Node{&Paragraph{Children: convertInlines(node, body)}}
	case *gmast.TextBlock:
		return []Node{&Paragraph{Children: convertInlines(node, body)}}
	case *gmast.FencedCodeBlock:
		lang := ""
		if node.Info != nil {
			lang = string(node.Language(body))
		}
		return []Node{&CodeBlock{Language: lang, Literal: blockLines(node, body)}}
	case *gmast.CodeBlock:
		return []Node{&CodeBlock{Literal: blockLines(node, body)}}
	case *gmast.List:
		return []Node{convertList(node, body)}
	case *gmast.HTMLBlock:
		literal := blockLines(node, body)
		if node.HasClosure() {
			literal += string(node.ClosureLine.Value(body))
		}
		return []Node{&Paragraph{Children: []Node{&Text{Literal: literal}}}}
	case *gmast.ThematicBreak:
		return nil
	default:
		// Unknown container (e.g. blockquote): flatten to converted children.
		return convertBlocks(n, body)
	}
}

func convertList(list *gmast.List, body []byte) *List {
	out := &List{Ordered: list.IsOrdered()}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var content []Node
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			// Tight list items carry a TextBlock; splice its inline
			// content directly so items render without paragraph wrappers.
			if tb, ok := child.(*gmast.TextBlock); ok {
				content = append(content, convertInlines(tb, body)...)
				continue
			}
			content = append(content, convertBlock(child, body)...)
		}
		out.Items = append(out.Items, content)
	}
	return out
}

func convertInlines(parent gmast.Node, body []byte) []Node {
	var out []Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, convertInline(child, body)...)
	}
	return out
}

// convertInline converts a single Goldmark inline node. Inline constructs
// outside the node set (code spans, raw HTML) degrade to literal text.
func convertInline(n gmast.Node, body []byte) []Node {
	switch node := n.(type) {
	case *gmast.Text:
		literal := string(node.Segment.Value(body))
		if node.SoftLineBreak() || node.HardLineBreak() {
			literal += "\n"
		}
		return []Node{&Text{Literal: literal}}
	case *gmast.String:
		return []Node{&Text{Literal: string(node.Value)}}
	case *gmast.CodeSpan:
		return []Node{&Text{Literal: inlineText(node, body)}}
	case *gmast.Emphasis:
		return []Node{&Emphasis{Strong: node.Level >= 2, Children: convertInlines(node, body)}}
	case *gmast.Link:
		return []Node{&Link{Href: string(node.Destination), Children: convertInlines(node, body)}}
	case *gmast.AutoLink:
		url := string(node.URL(body))
		return []Node{&Link{Href: url, Children: []Node{&Text{Literal: string(node.Label(body))}}}}
	case *gmast.Image:
		return []Node{&Image{Alt: inlineText(node, body), Src: string(node.Destination)}}
	case *gmast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(body))
		}
		return []Node{&Text{Literal: buf.String()}}
	default:
		// Unknown inline: degrade to its text content.
		if literal := inlineText(n, body); literal != "" {
			return []Node{&Text{Literal: literal}}
		}
		return nil
	}
}

// inlineText collects the raw text content under an inline node.
func inlineText(n gmast.Node, body []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *gmast.Text:
			buf.Write(node.Segment.Value(body))
		case *gmast.String:
			buf.Write(node.Value)
		default:
			buf.WriteString(inlineText(child, body))
		}
	}
	return buf.String()
}

// blockLines collects the literal lines of a block node.
func blockLines(n gmast.Node, body []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(body))
	}
	return buf.String()
}
