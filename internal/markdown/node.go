// Package markdown parses Markdown bodies (frontmatter already removed) into
// a closed set of block and inline nodes consumed by the renderer.
package markdown

// NodeKind identifies a node variant.
type NodeKind string

const (
	KindHeading   NodeKind = "heading"
	KindParagraph NodeKind = "paragraph"
	KindCodeBlock NodeKind = "code_block"
	KindList      NodeKind = "list"
	KindImage     NodeKind = "image"
	KindLink      NodeKind = "link"
	KindEmphasis  NodeKind = "emphasis"
	KindText      NodeKind = "text"
)

// Node is a parsed block or inline element. The variant set is closed; the
// renderer treats any other implementation as fatal.
type Node interface {
	Kind() NodeKind
}

// Heading is a section heading with inline children.
type Heading struct {
	Level    int
	Children []Node
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Children []Node
}

// CodeBlock is a verbatim block of literal text. The literal is never
// reinterpreted as markup.
type CodeBlock struct {
	Language string
	Literal  string
}

// List is an ordered or unordered list; each item holds its converted content.
type List struct {
	Ordered bool
	Items   [][]Node
}

// Image references an image by source URL with alternative text.
type Image struct {
	Alt string
	Src string
}

// Link wraps inline children pointing at a destination.
type Link struct {
	Href     string
	Children []Node
}

// Emphasis wraps inline children; Strong distinguishes ** from *.
type Emphasis struct {
	Strong   bool
	Children []Node
}

// Text is a literal text run.
type Text struct {
	Literal string
}

func (*Heading) Kind() NodeKind   { return KindHeading }
func (*Paragraph) Kind() NodeKind { return KindParagraph }
func (*CodeBlock) Kind() NodeKind { return KindCodeBlock }
func (*List) Kind() NodeKind      { return KindList }
func (*Image) Kind() NodeKind     { return KindImage }
func (*Link) Kind() NodeKind      { return KindLink }
func (*Emphasis) Kind() NodeKind  { return KindEmphasis }
func (*Text) Kind() NodeKind      { return KindText }
