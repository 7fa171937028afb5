// Package document provides the immutable document model produced by the loader.
//
// A Document is a Markdown source split into scalar string metadata (from the
// YAML frontmatter header) and a raw Markdown body. It is created once by the
// loader and never mutated afterwards; all accessors return copies.
package document

import (
	"maps"

	"git.home.luguber.info/inful/pagepress/internal/frontmatter"
)

// Document is a loaded source document.
type Document struct {
	source   string
	original []byte
	meta     map[string]string
	fields   map[string]any
	body     []byte
	hadFM    bool
	style    frontmatter.Style
}

// Original returns a copy of the raw bytes the document was parsed from.
func (d *Document) Original() []byte {
	out := make([]byte, len(d.original))
	copy(out, d.original)
	return out
}

// Source returns the source identifier the document was loaded from
// (path relative to the content root for discovered documents).
func (d *Document) Source() string { return d.source }

// WithSource returns a copy of the document carrying the given source
// identifier. The receiver is not modified.
func (d *Document) WithSource(source string) *Document {
	dup := *d
	dup.source = source
	return &dup
}

// Metadata returns a copy of the scalar metadata mapping.
func (d *Document) Metadata() map[string]string {
	return maps.Clone(d.meta)
}

// Meta returns a single metadata value and whether it was present.
func (d *Document) Meta(key string) (string, bool) {
	v, ok := d.meta[key]
	return v, ok
}

// Fields returns a copy of the full parsed frontmatter mapping, including
// non-scalar values the flattened metadata omits.
func (d *Document) Fields() map[string]any {
	return maps.Clone(d.fields)
}

// Body returns a copy of the Markdown body bytes (frontmatter removed).
func (d *Document) Body() []byte {
	out := make([]byte, len(d.body))
	copy(out, d.body)
	return out
}

// HadFrontmatter reports whether the source contained a frontmatter block.
func (d *Document) HadFrontmatter() bool { return d.hadFM }

// Style returns the newline style detected while splitting.
func (d *Document) Style() frontmatter.Style { return d.style }
