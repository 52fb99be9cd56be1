package ngsreport

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// PointsPerInch converts inches to PDF points.
const PointsPerInch = 72.0

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

// paperSizes holds portrait width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
// Margin applies to the top, right and bottom edges; the left edge has no
// margin so the header band can span the page (see Layout.BodyIndent).
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// PaperInches returns the paper width and height in inches, orientation applied.
func (p *PageSettings) PaperInches() (width, height float64) {
	dims, ok := paperSizes[strings.ToLower(p.Size)]
	if !ok {
		dims = paperSizes[PageSizeLetter]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

// Dimensions returns the paper width and height in points.
func (p *PageSettings) Dimensions() (width, height float64) {
	w, h := p.PaperInches()
	return w * PointsPerInch, h * PointsPerInch
}

// MarginPoints returns the margin in points.
func (p *PageSettings) MarginPoints() float64 {
	return p.Margin * PointsPerInch
}

// Layout controls image placement. All lengths are in points.
type Layout struct {
	MaxImageWidth  float64 // wider images are scaled down to this width
	BodyIndent     float64 // left offset of the title and entries
	CaptionSpacing float64 // between a caption and its image
	EntrySpacing   float64 // after each caption+image group
	TitleSpacing   float64 // after the title
	ForceBreaks    bool    // apply NeedsPageBreak after each entry
}

// DefaultLayout returns the standard report layout: 6in image cap,
// half-inch body indent, page break heuristic on.
func DefaultLayout() *Layout {
	return &Layout{
		MaxImageWidth:  6 * PointsPerInch,
		BodyIndent:     0.5 * PointsPerInch,
		CaptionSpacing: 0.1 * PointsPerInch,
		EntrySpacing:   0.25 * PointsPerInch,
		TitleSpacing:   0.5 * PointsPerInch,
		ForceBreaks:    true,
	}
}

// Validate checks that lengths are usable.
// Returns nil if l is nil (nil means use defaults).
func (l *Layout) Validate() error {
	if l == nil {
		return nil
	}
	if l.MaxImageWidth <= 0 {
		return fmt.Errorf("%w: max image width must be positive, got %.2f", ErrInvalidLayout, l.MaxImageWidth)
	}
	for name, v := range map[string]float64{
		"body indent":     l.BodyIndent,
		"caption spacing": l.CaptionSpacing,
		"entry spacing":   l.EntrySpacing,
		"title spacing":   l.TitleSpacing,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %.2f", ErrInvalidLayout, name, v)
		}
	}
	return nil
}

// Header configures the header band drawn above the title.
type Header struct {
	ImagePath string  // PNG/JPEG/GIF/WebP/BMP file (required)
	Repeat    bool    // draw in the top margin of every page instead of once
	Width     float64 // points; 0 = usable page width
}

// Footer configures the PDF footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Date           string
	Text           string
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Input contains the parameters of one report.
type Input struct {
	Title     string        // Report title (required)
	Images    []string      // Image paths, any order (required, at least one)
	Header    *Header       // Header band (optional)
	Notes     string        // Markdown shown under the title (optional)
	SourceDir string        // Base for relative image links in Notes (optional)
	CSS       string        // Extra CSS appended after the style (optional)
	Page      *PageSettings // Page settings (optional, nil = defaults)
	Layout    *Layout       // Layout (optional, nil = defaults)
	Footer    *Footer       // Footer (optional, nil = no footer)
	HTMLOnly  bool          // Skip PDF generation
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML   []byte  // Intermediate report document
	PDF    []byte  // Empty when Input.HTMLOnly is set
	Report *Report // Laid-out entries and skipped images
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	logger        *slog.Logger
	assetPath     string
	styleInput    string
	resolvedStyle string
	templateSet   string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the page load and print timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("ngsreport: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger used for skipped images and browser lifecycle.
// A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets for anything dir does not provide.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithStyle selects the report stylesheet: a style name ("default",
// "compact"), a CSS file path, or inline CSS content.
// An empty string disables the stylesheet.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithTemplateSet selects the template set by name.
func WithTemplateSet(name string) Option {
	return func(c *Converter) {
		c.cfg.templateSet = name
	}
}
