// Package linkverify checks rendered output for broken internal links.
package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

// Link is a reference extracted from a rendered page.
type Link struct {
	URL        string // raw href/src value
	Tag        string // a or img
	IsInternal bool   // site-relative (not absolute with host, mailto, anchor-only)
}

// Issue is an internal link whose target does not exist in the output tree.
type Issue struct {
	Page   string // output file the link was found in, relative to the site root
	Target string // raw link value
}

// ExtractFromReader extracts anchor and image references from HTML.
func ExtractFromReader(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, pperrors.Wrap(err, pperrors.CategoryValidation, pperrors.SeverityError, "failed to parse rendered HTML")
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if href := attr(n, "href"); href != "" {
					links = append(links, Link{URL: href, Tag: "a", IsInternal: isInternal(href)})
				}
			case "img":
				if src := attr(n, "src"); src != "" {
					links = append(links, Link{URL: src, Tag: "img", IsInternal: isInternal(src)})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// VerifyTree walks the output root and reports internal links whose targets
// are missing from the tree. External links are not checked.
func VerifyTree(root string) ([]Issue, error) {
	var issues []Issue

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		f, err := os.Open(path) // #nosec G304 -- path comes from walking our own output tree.
		if err != nil {
			return err
		}
		links, perr := ExtractFromReader(f)
		_ = f.Close()
		if perr != nil {
			return perr
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, link := range links {
			if !link.IsInternal {
				continue
			}
			if !targetExists(root, rel, link.URL) {
				issues = append(issues, Issue{Page: rel, Target: link.URL})
			}
		}
		return nil
	})
	if err != nil {
		return nil, pperrors.Wrap(err, pperrors.CategoryFileSystem, pperrors.SeverityError, "link verification walk failed").
			WithContext("root", root)
	}
	return issues, nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// isInternal reports whether a link is a site-relative reference.
func isInternal(raw string) bool {
	if raw == "" || strings.HasPrefix(raw, "#") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// targetExists resolves an internal link against the page location and checks
// the output tree for the target file.
func targetExists(root, page, raw string) bool {
	target := raw
	if idx := strings.IndexAny(target, "#?"); idx >= 0 {
		target = target[:idx]
	}
	if target == "" {
		return true
	}

	var resolved string
	if strings.HasPrefix(target, "/") {
		resolved = strings.TrimPrefix(target, "/")
	} else {
		resolved = filepath.ToSlash(filepath.Join(filepath.Dir(filepath.FromSlash(page)), filepath.FromSlash(target)))
	}

	candidates := []string{resolved}
	if strings.HasSuffix(resolved, "/") || filepath.Ext(resolved) == "" {
		candidates = append(candidates, filepath.ToSlash(filepath.Join(filepath.FromSlash(resolved), "index.html")))
	}

	for _, c := range candidates {
		if c == "" {
			c = "index.html"
		}
		// A bare directory is not a servable target; only a regular file
		// (typically the directory's index.html candidate) satisfies the link.
		if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(c))); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
