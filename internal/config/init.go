package config

import (
	"os"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

const sampleConfig = `# PagePress configuration
site:
  title: "My Site"
  base_url: "https://example.org"

content:
  dir: ./content
  # Derive output paths from source file names when no permalink is set.
  default_permalinks: true

output:
  directory: ./public

build:
  concurrency: 4
  state_file: .pagepress/state.db
  verify_links: true
`

// WriteSample writes a commented sample configuration file.
//
// An existing file is preserved unless force is set.
func WriteSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return pperrors.New(pperrors.CategoryConfig, pperrors.SeverityError, "configuration file already exists").
				WithContext("path", path)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil { // #nosec G306 -- config file is not sensitive.
		return pperrors.Wrap(err, pperrors.CategoryFileSystem, pperrors.SeverityError, "failed to write configuration").
			WithContext("path", path)
	}
	return nil
}
