package ngsreport

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"

	"github.com/alnah/go-ngsreport/internal/assets"
	"github.com/alnah/go-ngsreport/internal/fileutil"
	"github.com/alnah/go-ngsreport/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownRenderer = (*pipeline.GoldmarkRenderer)(nil)
	_ pipeline.CSSInjector      = (*pipeline.CSSInjection)(nil)
)

// Converter lays out and renders reports.
// Create with NewConverter, use Convert for each report, and Close when done.
// A Converter is not safe for concurrent use; use ConverterPool for parallelism.
type Converter struct {
	cfg          converterConfig
	logger       *slog.Logger
	assetLoader  assets.AssetLoader
	notes        pipeline.MarkdownRenderer
	cssInjector  pipeline.CSSInjector
	renderer     *reportRenderer
	measure      ImageMeasurer
	pdfConverter pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithStyle, WithAssetPath).
// Returns error if asset loading or template parsing fails.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:     defaultTimeout,
			styleInput:  assets.DefaultStyleName,
			templateSet: assets.DefaultTemplateSetName,
		},
		notes:       pipeline.NewGoldmarkRenderer(),
		cssInjector: &pipeline.CSSInjection{},
		measure:     MeasureImage,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.cfg.logger
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.assetLoader = resolver

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	templateSet, err := c.assetLoader.LoadTemplateSet(c.cfg.templateSet)
	if err != nil {
		return nil, fmt.Errorf("loading template set %q: %w", c.cfg.templateSet, err)
	}
	c.renderer, err = newReportRenderer(templateSet)
	if err != nil {
		return nil, err
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout, c.logger)
	}

	return c, nil
}

// Convert lays out one report and renders it to HTML and, unless
// input.HTMLOnly is set, to PDF. Images that cannot be read are logged at
// Warn level, listed in the result's Report.Skipped, and left out.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	page := input.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	layout := input.Layout
	if layout == nil {
		layout = DefaultLayout()
	}
	header := input.Header
	if header != nil && header.ImagePath == "" {
		header = nil
	}

	report := BuildReport(ReportInput{
		Title:  input.Title,
		Images: input.Images,
		Header: header,
		Page:   page,
		Layout: layout,
	}, c.measure)

	for _, s := range report.Skipped {
		c.logger.Warn("skipping image", "path", s.Path, "error", s.Err)
	}
	c.logger.Debug("report laid out",
		"title", report.Title,
		"entries", len(report.Entries),
		"skipped", len(report.Skipped))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notesHTML, err := c.renderNotes(ctx, input.Notes, input.SourceDir)
	if err != nil {
		return nil, err
	}

	repeatHeader := header != nil && header.Repeat
	view := newReportView(report, layout, notesHTML, repeatHeader)

	htmlContent, err := c.renderer.renderReport(view)
	if err != nil {
		return nil, err
	}

	// Style first, user CSS last so it can override.
	cssContent := c.cfg.resolvedStyle
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ConvertResult{
		HTML:   []byte(htmlContent),
		Report: report,
	}

	if input.HTMLOnly {
		return res, nil
	}

	pdfOpts := &pdfOptions{Page: page, Footer: input.Footer}
	if repeatHeader {
		pdfOpts.HeaderTemplate, err = c.renderPageHeader(report)
		if err != nil {
			return nil, err
		}
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, pdfOpts)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// renderNotes converts the notes Markdown and rewrites its relative image
// links against sourceDir.
func (c *Converter) renderNotes(ctx context.Context, notes, sourceDir string) (template.HTML, error) {
	if strings.TrimSpace(notes) == "" {
		return "", nil
	}

	fragment, err := c.notes.Render(ctx, notes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotesRender, err)
	}

	fragment, err = pipeline.RewriteImagePaths(fragment, sourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting image paths: %v", ErrNotesRender, err)
	}

	// #nosec G203 -- goldmark output without raw HTML
	return template.HTML(fragment), nil
}

// renderPageHeader renders the header band for Chrome's page header area,
// with the image inlined.
func (c *Converter) renderPageHeader(report *Report) (string, error) {
	src, err := dataURI(report.HeaderPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHeaderImageNotFound, err)
	}
	return c.renderer.renderHeader(&headerView{
		Src:    src,
		Width:  report.Header.Width,
		Height: report.Header.Height,
		Left:   report.Header.Left,
	})
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}

	// CSS content?
	if strings.Contains(input, "{") {
		c.cfg.resolvedStyle = input
		return nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
func (c *Converter) validateInput(input Input) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrEmptyTitle
	}
	if len(input.Images) == 0 {
		return ErrNoImages
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Layout.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	if input.Header != nil && input.Header.ImagePath != "" && !fileutil.FileExists(input.Header.ImagePath) {
		return fmt.Errorf("%w: %s", ErrHeaderImageNotFound, input.Header.ImagePath)
	}
	return nil
}
