// Package config loads kidsnews settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "kidsnews.yaml"

// Config holds all kidsnews configuration.
type Config struct {
	Newspaper NewspaperConfig `yaml:"newspaper"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Output    OutputConfig    `yaml:"output"`
	Images    ImagesConfig    `yaml:"images"`
	Capture   CaptureConfig   `yaml:"capture"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NewspaperConfig describes the paper itself.
type NewspaperConfig struct {
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"` // IANA name used to pick the edition date
}

// GeminiConfig configures the text and image backends.
type GeminiConfig struct {
	APIKey      string `yaml:"api_key"`
	TextModel   string `yaml:"text_model"`
	ImageModel  string `yaml:"image_model"`
	AspectRatio string `yaml:"aspect_ratio"`
	Timeout     string `yaml:"timeout"`
	// RepairJSON lets the decoder repair malformed replies instead of
	// treating them as empty.
	RepairJSON bool `yaml:"repair_json"`
}

// OutputConfig places editions on disk.
type OutputConfig struct {
	DocsDir     string `yaml:"docs_dir"`
	ArchivePath string `yaml:"archive_path"` // empty means <docs_dir>/issues.db
}

// ImagesConfig configures image fetching.
type ImagesConfig struct {
	Workers   int    `yaml:"workers"`
	SetPrefix string `yaml:"set_prefix"`
}

// CaptureConfig configures page capture.
type CaptureConfig struct {
	Enabled           bool    `yaml:"enabled"`
	Headless          bool    `yaml:"headless"`
	Bin               string  `yaml:"bin"`
	DebuggerURL       string  `yaml:"debugger_url"`
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	Scale             float64 `yaml:"scale"`
	NavigationTimeout string  `yaml:"navigation_timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	File       string `yaml:"file"`  // optional JSON log file, rotated
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Newspaper: NewspaperConfig{
			Name:     "Haha Kids News",
			Timezone: "Asia/Seoul",
		},
		Gemini: GeminiConfig{
			TextModel:   "gemini-3-flash-preview",
			ImageModel:  "imagen-4.0-generate-001",
			AspectRatio: "16:9",
			Timeout:     "120s",
		},
		Output: OutputConfig{
			DocsDir: "docs",
		},
		Images: ImagesConfig{
			Workers:   3,
			SetPrefix: "Same character, cartoon style, ",
		},
		Capture: CaptureConfig{
			Enabled:           true,
			Headless:          true,
			Width:             794,
			Height:            1123,
			Scale:             2,
			NavigationTimeout: "30s",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	// GEMINI_API_KEY wins when both are set.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("KIDSNEWS_TEXT_MODEL"); model != "" {
		c.Gemini.TextModel = model
	}
	if model := os.Getenv("KIDSNEWS_IMAGE_MODEL"); model != "" {
		c.Gemini.ImageModel = model
	}
	if dir := os.Getenv("KIDSNEWS_DOCS_DIR"); dir != "" {
		c.Output.DocsDir = dir
	}
	if level := os.Getenv("KIDSNEWS_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

// GetGeminiTimeout returns the backend call timeout.
func (c *Config) GetGeminiTimeout() time.Duration {
	d, err := time.ParseDuration(c.Gemini.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// GetNavigationTimeout returns the page load timeout for capture.
func (c *Config) GetNavigationTimeout() time.Duration {
	d, err := time.ParseDuration(c.Capture.NavigationTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetLocation returns the newspaper time zone, or UTC when it is unknown.
func (c *Config) GetLocation() *time.Location {
	if c.Newspaper.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Newspaper.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetArchivePath returns the issue ledger path.
func (c *Config) GetArchivePath() string {
	if c.Output.ArchivePath != "" {
		return c.Output.ArchivePath
	}
	return filepath.Join(c.Output.DocsDir, "issues.db")
}

// HasAPIKey reports whether a Gemini key is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidAspectRatios lists the aspect ratios the image model accepts.
var ValidAspectRatios = []string{"1:1", "3:4", "4:3", "9:16", "16:9"}

// Validate validates the configuration. A missing API key is not an error:
// the pipeline runs degraded without one.
func (c *Config) Validate() error {
	if c.Output.DocsDir == "" {
		return fmt.Errorf("output.docs_dir must not be empty")
	}
	if !contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if !contains(ValidAspectRatios, c.Gemini.AspectRatio) {
		return fmt.Errorf("invalid gemini aspect_ratio: %s (valid: %v)", c.Gemini.AspectRatio, ValidAspectRatios)
	}
	if c.Images.Workers <= 0 {
		return fmt.Errorf("images.workers must be positive, got %d", c.Images.Workers)
	}
	if c.Capture.Width <= 0 || c.Capture.Height <= 0 {
		return fmt.Errorf("capture size must be positive, got %dx%d", c.Capture.Width, c.Capture.Height)
	}
	if c.Capture.Scale <= 0 {
		return fmt.Errorf("capture.scale must be positive, got %v", c.Capture.Scale)
	}
	if c.Newspaper.Timezone != "" {
		if _, err := time.LoadLocation(c.Newspaper.Timezone); err != nil {
			return fmt.Errorf("invalid newspaper timezone %q: %w", c.Newspaper.Timezone, err)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
