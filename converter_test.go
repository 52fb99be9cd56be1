package ngsreport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-ngsreport/internal/pipeline"
)

// mockPDFConverter records the last call and returns canned output.
type mockPDFConverter struct {
	mu       sync.Mutex
	calls    int
	lastHTML string
	lastOpts *pdfOptions
	output   []byte
	err      error
	closed   bool
}

func (m *mockPDFConverter) ToPDF(_ context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastHTML = htmlContent
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

// newTestConverter returns a Converter whose PDF backend is mocked.
func newTestConverter(t *testing.T, opts ...Option) (*Converter, *mockPDFConverter) {
	t.Helper()

	c, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	mock := &mockPDFConverter{output: []byte("%PDF-1.4 mock")}
	c.pdfConverter = mock
	t.Cleanup(func() { _ = c.Close() })
	return c, mock
}

// sampleDir lays out a pipeline sample directory with two plots and a header.
func sampleDir(t *testing.T) (images []string, header string) {
	t.Helper()

	dir := t.TempDir()
	images = []string{
		writePNG(t, dir, "sample1/b.png", 4000, 1000),
		writePNG(t, dir, "sample1/a.png", 800, 400),
	}
	header = writePNG(t, dir, "dna.png", 300, 40)
	return images, header
}

// ---------------------------------------------------------------------------
// NewConverter
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestConverter(t)
		if c.cfg.timeout != defaultTimeout {
			t.Errorf("timeout = %v, want %v", c.cfg.timeout, defaultTimeout)
		}
		if !strings.Contains(c.cfg.resolvedStyle, "break-after") {
			t.Error("default style not loaded")
		}
		if c.logger == nil {
			t.Error("logger = nil, want discard logger")
		}
	})

	t.Run("inline CSS style", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestConverter(t, WithStyle("body { color: teal; }"))
		if c.cfg.resolvedStyle != "body { color: teal; }" {
			t.Errorf("resolvedStyle = %q", c.cfg.resolvedStyle)
		}
	})

	t.Run("style file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "lab.css", "h1 { color: navy; }")
		c, _ := newTestConverter(t, WithStyle(path))
		if c.cfg.resolvedStyle != "h1 { color: navy; }" {
			t.Errorf("resolvedStyle = %q", c.cfg.resolvedStyle)
		}
	})

	t.Run("empty style disables stylesheet", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestConverter(t, WithStyle(""))
		if c.cfg.resolvedStyle != "" {
			t.Errorf("resolvedStyle = %q, want empty", c.cfg.resolvedStyle)
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		_, err := NewConverter(WithStyle("nonexistent"))
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("unknown template set", func(t *testing.T) {
		t.Parallel()

		_, err := NewConverter(WithTemplateSet("nonexistent"))
		if !errors.Is(err, ErrTemplateSetNotFound) {
			t.Errorf("error = %v, want ErrTemplateSetNotFound", err)
		}
	})

	t.Run("invalid asset path", func(t *testing.T) {
		t.Parallel()

		_, err := NewConverter(WithAssetPath(filepath.Join(t.TempDir(), "missing")))
		if !errors.Is(err, ErrInvalidAssetPath) {
			t.Errorf("error = %v, want ErrInvalidAssetPath", err)
		}
	})
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t, WithTimeout(5*time.Second))
	if c.cfg.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.cfg.timeout)
	}
}

// ---------------------------------------------------------------------------
// Convert - validation
// ---------------------------------------------------------------------------

func TestConvert_Validation(t *testing.T) {
	t.Parallel()

	c, mock := newTestConverter(t)

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"empty title", Input{Title: "  ", Images: []string{"a.png"}}, ErrEmptyTitle},
		{"no images", Input{Title: "t"}, ErrNoImages},
		{"bad page size", Input{Title: "t", Images: []string{"a.png"}, Page: &PageSettings{Size: "tabloid", Orientation: "portrait", Margin: 1}}, ErrInvalidPageSize},
		{"bad orientation", Input{Title: "t", Images: []string{"a.png"}, Page: &PageSettings{Size: "a4", Orientation: "diagonal", Margin: 1}}, ErrInvalidOrientation},
		{"bad margin", Input{Title: "t", Images: []string{"a.png"}, Page: &PageSettings{Size: "a4", Orientation: "portrait", Margin: 5}}, ErrInvalidMargin},
		{"bad layout", Input{Title: "t", Images: []string{"a.png"}, Layout: &Layout{}}, ErrInvalidLayout},
		{"bad footer", Input{Title: "t", Images: []string{"a.png"}, Footer: &Footer{Position: "top"}}, ErrInvalidFooterPosition},
		{"missing header", Input{Title: "t", Images: []string{"a.png"}, Header: &Header{ImagePath: "/nonexistent/dna.png"}}, ErrHeaderImageNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if mock.calls != 0 {
		t.Errorf("PDF backend called %d times for invalid input", mock.calls)
	}
}

// ---------------------------------------------------------------------------
// Convert - output
// ---------------------------------------------------------------------------

func TestConvert_SampleReport(t *testing.T) {
	t.Parallel()

	images, header := sampleDir(t)
	c, mock := newTestConverter(t)

	result, err := c.Convert(context.Background(), Input{
		Title:  "NGS Report for sample1",
		Images: images,
		Header: &Header{ImagePath: header},
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if string(result.PDF) != "%PDF-1.4 mock" {
		t.Errorf("PDF = %q, want mock output", result.PDF)
	}
	if mock.calls != 1 {
		t.Errorf("PDF backend calls = %d, want 1", mock.calls)
	}
	if mock.lastOpts.HeaderTemplate != "" {
		t.Error("HeaderTemplate set without Repeat")
	}

	html := string(result.HTML)
	if !strings.Contains(html, "NGS Report for sample1") {
		t.Error("HTML missing title")
	}
	if !strings.Contains(html, `class="report-header"`) {
		t.Error("HTML missing in-body header")
	}
	if strings.Index(html, ">a</p>") > strings.Index(html, ">b</p>") {
		t.Error("captions out of order")
	}
	// 4000x1000 capped at 432 keeps its 4:1 ratio.
	if !strings.Contains(html, "width: 432pt; height: 108pt;") {
		t.Error("HTML missing scaled size of b")
	}
	if mock.lastHTML != html {
		t.Error("PDF backend did not receive the returned HTML")
	}

	if len(result.Report.Entries) != 2 {
		t.Errorf("len(Entries) = %d, want 2", len(result.Report.Entries))
	}
}

func TestConvert_HTMLOnly(t *testing.T) {
	t.Parallel()

	images, _ := sampleDir(t)
	c, mock := newTestConverter(t)

	result, err := c.Convert(context.Background(), Input{Title: "t", Images: images, HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(result.PDF) != 0 {
		t.Errorf("PDF = %d bytes, want none", len(result.PDF))
	}
	if len(result.HTML) == 0 {
		t.Error("HTML empty")
	}
	if mock.calls != 0 {
		t.Errorf("PDF backend calls = %d, want 0", mock.calls)
	}
}

func TestConvert_SkippedImageLogged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	images := []string{
		writePNG(t, dir, "s/1.png", 10, 10),
		writeFile(t, dir, "s/2.png", "not a png"),
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, mock := newTestConverter(t, WithLogger(logger))

	result, err := c.Convert(context.Background(), Input{Title: "t", Images: images})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(result.Report.Skipped) != 1 {
		t.Fatalf("len(Skipped) = %d, want 1", len(result.Report.Skipped))
	}
	if mock.calls != 1 {
		t.Error("report with a skipped image should still be printed")
	}

	out := logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "skipping image") {
		t.Errorf("log missing skip warning:\n%s", out)
	}
	if !strings.Contains(out, "2.png") {
		t.Errorf("log missing skipped path:\n%s", out)
	}
	if strings.Contains(string(result.HTML), "2.png") {
		t.Error("skipped image rendered")
	}
}

func TestConvert_RepeatHeader(t *testing.T) {
	t.Parallel()

	images, header := sampleDir(t)
	c, mock := newTestConverter(t)

	result, err := c.Convert(context.Background(), Input{
		Title:  "t",
		Images: images,
		Header: &Header{ImagePath: header, Repeat: true},
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if !strings.Contains(mock.lastOpts.HeaderTemplate, "data:image/png;base64,") {
		t.Errorf("HeaderTemplate = %.80q, want inlined image", mock.lastOpts.HeaderTemplate)
	}
	if strings.Contains(string(result.HTML), `class="report-header"`) {
		t.Error("repeated header also drawn in body")
	}
}

func TestConvert_EmptyHeaderPathIgnored(t *testing.T) {
	t.Parallel()

	images, _ := sampleDir(t)
	c, _ := newTestConverter(t)

	result, err := c.Convert(context.Background(), Input{
		Title:  "t",
		Images: images,
		Header: &Header{Repeat: true},
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.Report.Header != nil {
		t.Error("header placed without an image")
	}
}

func TestConvert_Notes(t *testing.T) {
	t.Parallel()

	images, _ := sampleDir(t)
	sourceDir := filepath.Dir(images[0])
	c, _ := newTestConverter(t)

	result, err := c.Convert(context.Background(), Input{
		Title:     "t",
		Images:    images,
		Notes:     "Library prep **failed** QC.\n\n![gel](gel.png)\n",
		SourceDir: sourceDir,
		HTMLOnly:  true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	html := string(result.HTML)
	if !strings.Contains(html, "<strong>failed</strong>") {
		t.Error("notes Markdown not rendered")
	}
	if !strings.Contains(html, "report-notes") {
		t.Error("notes section missing")
	}
	wantSrc := pipeline.FileURL(filepath.Join(sourceDir, "gel.png"))
	if !strings.Contains(html, `src="`+wantSrc+`"`) {
		t.Error("notes image not rewritten to file URL")
	}
}

func TestConvert_CSSOrder(t *testing.T) {
	t.Parallel()

	images, _ := sampleDir(t)
	c, _ := newTestConverter(t, WithStyle("h1 { color: navy; }"))

	result, err := c.Convert(context.Background(), Input{
		Title:    "t",
		Images:   images,
		CSS:      "h1 { color: red; }",
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	html := string(result.HTML)
	style, user := strings.Index(html, "navy"), strings.Index(html, "red;")
	if style == -1 || user == -1 {
		t.Fatalf("CSS missing from HTML")
	}
	if style > user {
		t.Error("user CSS should come after the style")
	}
	if strings.Index(html, "<style>") > strings.Index(html, "</head>") {
		t.Error("CSS not injected into head")
	}
}

func TestConvert_PDFError(t *testing.T) {
	t.Parallel()

	images, _ := sampleDir(t)
	c, mock := newTestConverter(t)
	mock.err = ErrBrowserConnect

	_, err := c.Convert(context.Background(), Input{Title: "t", Images: images})
	if !errors.Is(err, ErrBrowserConnect) {
		t.Errorf("Convert() error = %v, want ErrBrowserConnect", err)
	}
}

func TestConvert_CanceledContext(t *testing.T) {
	t.Parallel()

	images, _ := sampleDir(t)
	c, mock := newTestConverter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, Input{Title: "t", Images: images})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
	if mock.calls != 0 {
		t.Error("PDF backend called after cancel")
	}
}

func TestConvert_PassesPageAndFooter(t *testing.T) {
	t.Parallel()

	images, _ := sampleDir(t)
	c, mock := newTestConverter(t)

	page := &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 0.5}
	footer := &Footer{ShowPageNumber: true}

	if _, err := c.Convert(context.Background(), Input{Title: "t", Images: images, Page: page, Footer: footer}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if mock.lastOpts.Page != page || mock.lastOpts.Footer != footer {
		t.Errorf("pdfOptions = %+v, want page and footer passed through", mock.lastOpts)
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	c, mock := newTestConverter(t)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mock.closed {
		t.Error("PDF backend not closed")
	}
}
