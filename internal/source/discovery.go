// Package source discovers Markdown documents under a content root.
package source

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
	"git.home.luguber.info/inful/pagepress/internal/logfields"
)

// File is a discovered source document.
type File struct {
	Path         string // Absolute path to the file
	RelativePath string // Path relative to the content root, slash separated
	Section      string // Top-level directory under the root, "" for root files
	Name         string // File name without extension
}

var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Discover walks the content root and returns every Markdown source file.
//
// Hidden entries and directories prefixed with underscore are skipped, as are
// non-Markdown files. Results are returned in walk order (lexical), so
// discovery is deterministic for a given tree.
func Discover(root string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, pperrors.Wrap(err, pperrors.CategoryFileSystem, pperrors.SeverityFatal, "failed to resolve content root").
			WithContext("root", root)
	}

	if _, err := os.Stat(absRoot); os.IsNotExist(err) {
		return nil, pperrors.New(pperrors.CategoryNotFound, pperrors.SeverityFatal, "content root does not exist").
			WithContext("root", root)
	}

	var files []File
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != absRoot && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !markdownExtensions[ext] {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		files = append(files, File{
			Path:         path,
			RelativePath: rel,
			Section:      sectionOf(rel),
			Name:         strings.TrimSuffix(name, filepath.Ext(name)),
		})
		return nil
	})
	if err != nil {
		return nil, pperrors.Wrap(err, pperrors.CategoryFileSystem, pperrors.SeverityFatal, "content walk failed").
			WithContext("root", root)
	}

	slog.Debug("Source discovery complete", logfields.Count(len(files)), slog.String("root", absRoot))
	return files, nil
}

func sectionOf(rel string) string {
	if idx := strings.IndexByte(rel, '/'); idx >= 0 {
		return rel[:idx]
	}
	return ""
}
