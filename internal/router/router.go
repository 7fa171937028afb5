// Package router maps document metadata to published output paths.
package router

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/pagepress/internal/document"
	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

// PermalinkField is the metadata key the router reads.
const PermalinkField = "permalink"

// Policy controls fallback behavior when a document has no permalink field.
type Policy struct {
	// DefaultFromSource derives a permalink from the source identifier when
	// the metadata field is absent. When false, absence is a missing_field
	// error.
	DefaultFromSource bool
}

// Route is a computed publishing target.
type Route struct {
	// Permalink is the canonical URL path, always starting and ending with "/".
	Permalink string
	// File is the output file path relative to the site root.
	File string
}

// Compute determines the output route for a document.
//
// The computation is deterministic: identical metadata and source identifier
// always yield the same route.
func Compute(doc *document.Document, policy Policy) (Route, error) {
	if permalink, ok := doc.Meta(PermalinkField); ok && strings.TrimSpace(permalink) != "" {
		return fromPermalink(permalink), nil
	}

	if !policy.DefaultFromSource {
		return Route{}, pperrors.MissingField(PermalinkField)
	}

	return fromSource(doc.Source()), nil
}

func fromPermalink(permalink string) Route {
	p := strings.TrimSpace(permalink)
	p = "/" + strings.Trim(p, "/")
	if p != "/" {
		p += "/"
	}
	return Route{Permalink: p, File: fileFor(p)}
}

func fromSource(source string) Route {
	trimmed := strings.TrimSuffix(source, path.Ext(source))
	segments := strings.Split(path.Clean("/"+trimmed), "/")

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if slug := Slugify(seg); slug != "" {
			parts = append(parts, slug)
		}
	}

	p := "/" + strings.Join(parts, "/")
	if p != "/" {
		p += "/"
	}
	return Route{Permalink: p, File: fileFor(p)}
}

func fileFor(permalink string) string {
	if permalink == "/" {
		return "index.html"
	}
	return strings.TrimPrefix(permalink, "/") + "index.html"
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes a path segment: diacritics stripped, lowercased, runs of
// non-alphanumerics collapsed to single dashes.
func Slugify(s string) string {
	if normalized, _, err := transform.String(stripMarks, s); err == nil {
		s = normalized
	}

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		default:
			if !dash && sb.Len() > 0 {
				sb.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(sb.String(), "-")
}
