// Package config loads and validates the PagePress configuration file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	pperrors "git.home.luguber.info/inful/pagepress/internal/errors"
)

// Config is the top-level configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build,omitempty"`
	Preview PreviewConfig `yaml:"preview,omitempty"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ContentConfig locates and interprets the source tree.
type ContentConfig struct {
	// Dir is the content root walked for Markdown sources.
	Dir string `yaml:"dir"`
	// DefaultPermalinks derives output paths from source identifiers when a
	// document carries no permalink field. When false such documents fail.
	DefaultPermalinks bool `yaml:"default_permalinks"`
}

// OutputConfig controls where rendered documents are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// BuildConfig holds build tuning knobs. Zero values trigger defaults.
type BuildConfig struct {
	// Concurrency caps how many documents render in parallel.
	Concurrency int `yaml:"concurrency,omitempty"`
	// StateFile is the SQLite build-state database used for incremental
	// rebuild skipping. Empty disables incremental state.
	StateFile string `yaml:"state_file,omitempty"`
	// VerifyLinks enables the post-build internal link check.
	VerifyLinks bool `yaml:"verify_links,omitempty"`
}

// PreviewConfig tunes the preview daemon.
type PreviewConfig struct {
	Port int `yaml:"port,omitempty"`
	// Debounce is the quiet period after a filesystem event before rebuilding.
	Debounce Duration `yaml:"debounce,omitempty"`
	// RebuildInterval triggers a periodic full rebuild as a safety net.
	RebuildInterval Duration `yaml:"rebuild_interval,omitempty"`
}

// Duration wraps time.Duration so YAML values like "500ms" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults applied during normalization.
const (
	DefaultContentDir      = "./content"
	DefaultOutputDir       = "./public"
	DefaultConcurrency     = 4
	DefaultPreviewPort     = 1313
	DefaultDebounce        = Duration(300 * time.Millisecond)
	DefaultRebuildInterval = Duration(10 * time.Minute)
)

// Default returns a normalized configuration with placeholder site metadata.
func Default() *Config {
	cfg := &Config{}
	cfg.Site.Title = "PagePress Site"
	cfg.Normalize()
	return cfg
}

// Load reads, normalizes, and validates a configuration file.
//
// Environment variables loaded from .env/.env.local (existing process env
// wins) and PAGEPRESS_* overrides are applied on top of file values.
func Load(path string) (*Config, error) {
	loadEnvOverlay()

	data, err := os.ReadFile(path) // #nosec G304 -- path is the user-supplied config flag.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pperrors.ConfigNotFound(path)
		}
		return nil, pperrors.Wrap(err, pperrors.CategoryConfig, pperrors.SeverityFatal, "failed to read configuration").
			WithContext("path", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, pperrors.Wrap(err, pperrors.CategoryConfig, pperrors.SeverityFatal, "malformed configuration").
			WithContext("path", path)
	}

	cfg.applyEnvOverrides()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvOverlay loads .env files without overriding existing process env.
func loadEnvOverlay() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
			return
		}
	}
}

// applyEnvOverrides lets PAGEPRESS_* variables override file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PAGEPRESS_CONTENT_DIR"); v != "" {
		c.Content.Dir = v
	}
	if v := os.Getenv("PAGEPRESS_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("PAGEPRESS_BASE_URL"); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv("PAGEPRESS_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Build.Concurrency = n
		}
	}
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Build.Concurrency <= 0 {
		c.Build.Concurrency = DefaultConcurrency
	}
	if c.Preview.Port <= 0 {
		c.Preview.Port = DefaultPreviewPort
	}
	if c.Preview.Debounce <= 0 {
		c.Preview.Debounce = DefaultDebounce
	}
	if c.Preview.RebuildInterval <= 0 {
		c.Preview.RebuildInterval = DefaultRebuildInterval
	}
}

// Validate checks normalized configuration for consistency.
func (c *Config) Validate() error {
	if c.Site.Title == "" {
		return pperrors.ValidationFailed("site.title", "must not be empty")
	}
	if c.Content.Dir == c.Output.Directory {
		return pperrors.ValidationFailed("output.directory", "must differ from content.dir")
	}
	return nil
}
