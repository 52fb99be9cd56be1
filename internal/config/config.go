package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ngsreport/internal/fileutil"
	"github.com/alnah/go-ngsreport/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096 // PATH_MAX on Linux
	MaxExtensionLength   = 16   // ".png", ".tiff"
	MaxSuffixLength      = 64   // "_report.pdf"
	MaxTitleFormatLength = 200  // "NGS Report for {sample}"
	MaxFilenameLength    = 255  // NAME_MAX
	MaxTextLength        = 500  // Footer free-form text
	MaxDateLength        = 30   // "2025-12-31" or "auto"
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxStyleLength       = 100  // style name
)

// Layout bounds in inches.
const (
	MaxImageWidthLimit = 20.0
	MaxBodyIndent      = 3.0
)

// SampleToken is replaced by the directory name in Report.TitleFormat.
const SampleToken = "{sample}"

// configDirName is the directory under os.UserConfigDir searched for named configs.
const configDirName = "go-ngsreport"

// Config holds all configuration for report generation.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Header HeaderConfig `yaml:"header"`
	Report ReportConfig `yaml:"report"`
	Notes  NotesConfig  `yaml:"notes"`
	Layout LayoutConfig `yaml:"layout"`
	Page   PageConfig   `yaml:"page"`
	Footer FooterConfig `yaml:"footer"`
	Assets AssetsConfig `yaml:"assets"`
	Style  string       `yaml:"style"` // Style name or CSS file path
}

// InputConfig defines where images are discovered.
type InputConfig struct {
	Dir       string `yaml:"dir"`       // Pipeline output root (empty = must specify)
	Extension string `yaml:"extension"` // Qualifying image extension
}

// OutputConfig defines where reports are written.
type OutputConfig struct {
	Dir       string `yaml:"dir"`       // Output directory (empty = current directory)
	Suffix    string `yaml:"suffix"`    // Appended to the directory name
	CreateDir bool   `yaml:"createDir"` // Create Dir if missing
}

// HeaderConfig defines the header band drawn above the title.
type HeaderConfig struct {
	Image  string `yaml:"image"`  // Empty = no header band
	Repeat bool   `yaml:"repeat"` // Draw on every page instead of the first only
}

// ReportConfig defines report text.
type ReportConfig struct {
	TitleFormat string `yaml:"titleFormat"` // {sample} is replaced by the directory name
}

// NotesConfig defines the optional per-directory Markdown notes.
type NotesConfig struct {
	Filename string `yaml:"filename"` // Looked up directly inside each directory
	Disabled bool   `yaml:"disabled"`
}

// LayoutConfig defines image placement, in inches.
type LayoutConfig struct {
	MaxImageWidth float64 `yaml:"maxImageWidth"`
	BodyIndent    float64 `yaml:"bodyIndent"`
	ForceBreaks   bool    `yaml:"forceBreaks"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Date           string `yaml:"date"` // "auto" = generation date, or literal
	Text           string `yaml:"text"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.dir", c.Input.Dir, MaxPathLength},
		{"input.extension", c.Input.Extension, MaxExtensionLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"output.suffix", c.Output.Suffix, MaxSuffixLength},
		{"header.image", c.Header.Image, MaxPathLength},
		{"report.titleFormat", c.Report.TitleFormat, MaxTitleFormatLength},
		{"notes.filename", c.Notes.Filename, MaxFilenameLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"footer.date", c.Footer.Date, MaxDateLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"style", c.Style, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if err := validatePlainName("input.extension", c.Input.Extension); err != nil {
		return err
	}
	if err := validatePlainName("output.suffix", c.Output.Suffix); err != nil {
		return err
	}
	if err := validatePlainName("notes.filename", c.Notes.Filename); err != nil {
		return err
	}

	if c.Layout.MaxImageWidth < 0 || c.Layout.MaxImageWidth > MaxImageWidthLimit {
		return fmt.Errorf("%w: layout.maxImageWidth must be between 0 and %.0f inches, got %.2f",
			ErrInvalidValue, MaxImageWidthLimit, c.Layout.MaxImageWidth)
	}
	if c.Layout.BodyIndent < 0 || c.Layout.BodyIndent > MaxBodyIndent {
		return fmt.Errorf("%w: layout.bodyIndent must be between 0 and %.0f inches, got %.2f",
			ErrInvalidValue, MaxBodyIndent, c.Layout.BodyIndent)
	}
	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin must not be negative, got %.2f", ErrInvalidValue, c.Page.Margin)
	}

	if c.Footer.Position != "" {
		switch strings.ToLower(c.Footer.Position) {
		case "left", "center", "right":
		default:
			return fmt.Errorf("%w: footer.position %q (must be left, center, or right)", ErrInvalidValue, c.Footer.Position)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validatePlainName rejects values that would escape the directory they are joined to.
func validatePlainName(fieldName, value string) error {
	if strings.ContainsAny(value, "/\\\x00") {
		return fmt.Errorf("%w: %s %q must not contain path separators", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{Extension: ".png"},
		Output: OutputConfig{Suffix: "_report.pdf"},
		Report: ReportConfig{TitleFormat: "NGS Report for " + SampleToken},
		Notes:  NotesConfig{Filename: "notes.md"},
		Layout: LayoutConfig{
			MaxImageWidth: 6,
			BodyIndent:    0.5,
			ForceBreaks:   true,
		},
		Page: PageConfig{
			Size:        "letter",
			Orientation: "portrait",
			Margin:      1,
		},
		Style: "default",
	}
}

// Title formats the report title for a directory name.
func (c *Config) Title(dirName string) string {
	if !strings.Contains(c.Report.TitleFormat, SampleToken) {
		return c.Report.TitleFormat
	}
	return strings.ReplaceAll(c.Report.TitleFormat, SampleToken, dirName)
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in SearchPaths.
// Fields absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory first, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
