// Package site writes rendered pages into the flat output tree.
package site

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

// Writer places rendered pages under the output root, wrapping each body
// fragment in a minimal HTML shell.
type Writer struct {
	root      string
	siteTitle string
	baseURL   string
}

// NewWriter creates a writer rooted at the output directory.
func NewWriter(root, siteTitle, baseURL string) *Writer {
	return &Writer{root: root, siteTitle: siteTitle, baseURL: baseURL}
}

// Root returns the output root directory.
func (w *Writer) Root() string { return w.root }

// Page is the rendered content for one output file.
type Page struct {
	// File is the output path relative to the site root (from the router).
	File string
	// Title is the page title; falls back to the site title when empty.
	Title string
	// Body is the rendered HTML fragment.
	Body string
}

// WritePage writes one page, creating parent directories as needed.
// It returns the absolute path written.
func (w *Writer) WritePage(p Page) (string, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(p.File, "/"))
	dest := filepath.Join(w.root, rel)

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return "", pperrors.OutputWriteError(dest, err)
	}
	if err := os.WriteFile(dest, []byte(w.shell(p)), 0o644); err != nil { // #nosec G306 -- published pages are world readable.
		return "", pperrors.OutputWriteError(dest, err)
	}
	return dest, nil
}

func (w *Writer) shell(p Page) string {
	title := p.Title
	if title == "" {
		title = w.siteTitle
	} else if w.siteTitle != "" && title != w.siteTitle {
		title = fmt.Sprintf("%s | %s", title, w.siteTitle)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	if w.baseURL != "" {
		fmt.Fprintf(&sb, "<base href=\"%s\">\n", html.EscapeString(w.baseURL))
	}
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(p.Body)
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
