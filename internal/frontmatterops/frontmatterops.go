// Package frontmatterops provides read-modify-write helpers over the raw
// frontmatter split layer, used by normalization tooling.
package frontmatterops

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pagepress/internal/frontmatter"
	"git.home.luguber.info/inful/pagepress/internal/source"
)

// Read splits a document into parsed frontmatter fields and body.
//
// Contract:
//   - No leading delimiter: had=false and body is the full input.
//   - Missing closing delimiter: frontmatter.ErrMissingClosingDelimiter.
//   - Present but empty frontmatter: fields is an empty map.
func Read(content []byte) (fields map[string]any, body []byte, had bool, style frontmatter.Style, err error) {
	raw, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return nil, nil, false, style, err
	}

	fields, err = frontmatter.Parse(raw)
	if err != nil {
		return nil, nil, had, style, err
	}

	return fields, body, had, style, nil
}

// Write serializes frontmatter fields and joins them with body.
//
// If had is false, Write returns body as-is (even if fields is non-empty).
func Write(fields map[string]any, body []byte, had bool, style frontmatter.Style) ([]byte, error) {
	if !had {
		return body, nil
	}

	raw, err := frontmatter.Serialize(fields, style)
	if err != nil {
		return nil, err
	}

	return frontmatter.Join(raw, body, true, style), nil
}

// EnsureUID ensures fields contains a uid, generating one only when missing.
func EnsureUID(fields map[string]any) (uidStr string, changed bool, err error) {
	if fields == nil {
		return "", false, errors.New("fields map is nil")
	}

	if v, ok := fields["uid"]; ok {
		return strings.TrimSpace(fmt.Sprint(v)), false, nil
	}

	uidStr = uuid.NewString()
	fields["uid"] = uidStr
	return uidStr, true, nil
}

// Result is the outcome of normalizing one source document.
type Result struct {
	Source  string // path relative to the content root
	UID     string
	Changed bool
}

// NormalizeTree stamps a uid into every discovered Markdown source that
// carries a frontmatter block but no uid. Documents without frontmatter are
// left untouched. With dryRun set, changes are reported but not written.
func NormalizeTree(root string, dryRun bool) ([]Result, error) {
	files, err := source.Discover(root)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, f := range files {
		content, err := os.ReadFile(f.Path) // #nosec G304 -- path comes from walking the content root.
		if err != nil {
			return results, err
		}

		fields, body, had, style, err := Read(content)
		if err != nil {
			return results, fmt.Errorf("normalize %s: %w", f.RelativePath, err)
		}
		if !had {
			continue
		}

		uid, changed, err := EnsureUID(fields)
		if err != nil {
			return results, fmt.Errorf("normalize %s: %w", f.RelativePath, err)
		}
		if changed && !dryRun {
			updated, err := Write(fields, body, had, style)
			if err != nil {
				return results, fmt.Errorf("normalize %s: %w", f.RelativePath, err)
			}
			if err := os.WriteFile(f.Path, updated, 0o644); err != nil { // #nosec G306 -- source files keep their usual mode.
				return results, fmt.Errorf("normalize %s: %w", f.RelativePath, err)
			}
		}
		results = append(results, Result{Source: f.RelativePath, UID: uid, Changed: changed})
	}
	return results, nil
}
