package document

import (
	"io"
	"os"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
	"git.home.luguber.info/inful/pagepress/internal/frontmatter"
)

// Load reads a source file and parses it into a Document.
//
// Failure modes: a missing file surfaces as a not_found error, a malformed
// metadata header as a metadata error. Loading has no side effects.
func Load(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 -- paths come from discovery over the configured content root.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pperrors.SourceNotFound(path)
		}
		return nil, pperrors.Wrap(err, pperrors.CategoryFileSystem, pperrors.SeverityError, "failed to open document").
			WithContext("path", path)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, pperrors.Wrap(err, pperrors.CategoryFileSystem, pperrors.SeverityError, "failed to read document").
			WithContext("path", path)
	}

	doc, err := Parse(content)
	if err != nil {
		if ppe, ok := err.(*pperrors.PagePressError); ok {
			return nil, ppe.WithContext("path", path)
		}
		return nil, err
	}
	doc.source = path
	return doc, nil
}

// Parse parses raw document content into a Document.
//
// The source identifier is left empty; Load and the discovery pipeline set it.
func Parse(content []byte) (*Document, error) {
	fmRaw, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return nil, pperrors.MetadataParseError("", err)
	}

	fields, err := frontmatter.Parse(fmRaw)
	if err != nil {
		return nil, pperrors.MetadataParseError("", err)
	}

	orig := make([]byte, len(content))
	copy(orig, content)
	bodyCopy := make([]byte, len(body))
	copy(bodyCopy, body)

	return &Document{
		original: orig,
		meta:     frontmatter.Flatten(fields),
		fields:   fields,
		body:     bodyCopy,
		hadFM:    had,
		style:    style,
	}, nil
}
