package ngsreport

import (
	"encoding/base64"
	"html/template"
	"strings"
	"testing"

	"github.com/alnah/go-ngsreport/internal/assets"
)

func TestPt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want template.CSS
	}{
		{432, "432pt"},
		{7.2, "7.2pt"},
		{0, "0pt"},
		{1000.0 / 3, "333.33pt"},
		{18.004, "18pt"},
	}

	for _, tt := range tests {
		if got := pt(tt.in); got != tt.want {
			t.Errorf("pt(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// newReportView
// ---------------------------------------------------------------------------

func testReport() *Report {
	return &Report{
		Title:      "NGS Report for sample1",
		HeaderPath: "/lab/dna.png",
		Header:     &HeaderBox{Width: 540, Height: 72},
		Entries: []Entry{
			{Caption: "a", Path: "/run/sample1/a.png", NaturalWidth: 800, NaturalHeight: 400, Width: 432, Height: 216},
			{Caption: "b", Path: "/run/sample1/b.png", NaturalWidth: 400, NaturalHeight: 700, Width: 400, Height: 700, BreakAfter: true},
		},
	}
}

func TestNewReportView(t *testing.T) {
	t.Parallel()

	layout := DefaultLayout()

	t.Run("header in body", func(t *testing.T) {
		t.Parallel()

		view := newReportView(testReport(), layout, "<p>n</p>", false)

		if view.Header == nil {
			t.Fatal("Header = nil, want in-body header")
		}
		if view.Header.Src != "file:///lab/dna.png" {
			t.Errorf("Header.Src = %q", view.Header.Src)
		}
		if view.BodyIndent != 36 || view.TitleSpacing != 36 {
			t.Errorf("BodyIndent, TitleSpacing = %v, %v, want 36, 36", view.BodyIndent, view.TitleSpacing)
		}
		if len(view.Entries) != 2 {
			t.Fatalf("len(Entries) = %d, want 2", len(view.Entries))
		}
		e := view.Entries[1]
		if e.Caption != "b" || !e.BreakAfter || e.EntrySpacing != 18 || e.CaptionSpacing != 7.2 {
			t.Errorf("Entries[1] = %+v", e)
		}
		if view.Notes != "<p>n</p>" {
			t.Errorf("Notes = %q", view.Notes)
		}
	})

	t.Run("repeated header left to page header", func(t *testing.T) {
		t.Parallel()

		view := newReportView(testReport(), layout, "", true)
		if view.Header != nil {
			t.Errorf("Header = %+v, want nil", view.Header)
		}
	})
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

func loadDefaultRenderer(t *testing.T) *reportRenderer {
	t.Helper()

	ts, err := assets.NewEmbeddedLoader().LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		t.Fatalf("loading templates: %v", err)
	}
	r, err := newReportRenderer(ts)
	if err != nil {
		t.Fatalf("newReportRenderer() error = %v", err)
	}
	return r
}

func TestReportRenderer_RenderReport(t *testing.T) {
	t.Parallel()

	r := loadDefaultRenderer(t)
	view := newReportView(testReport(), DefaultLayout(), "", false)

	html, err := r.renderReport(view)
	if err != nil {
		t.Fatalf("renderReport() error = %v", err)
	}

	wants := []string{
		"<title>NGS Report for sample1</title>",
		`src="file:///lab/dna.png"`,
		`src="file:///run/sample1/a.png"`,
		"width: 432pt; height: 216pt;",
		"margin-left: 36pt;",
		`class="report-entry break-after"`,
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("report HTML missing %q", want)
		}
	}
	if strings.Index(html, "sample1/a.png") > strings.Index(html, "sample1/b.png") {
		t.Error("entries rendered out of order")
	}
	if strings.Contains(html, "report-notes") {
		t.Error("empty notes should not render a section")
	}
}

func TestReportRenderer_EscapesCaption(t *testing.T) {
	t.Parallel()

	r := loadDefaultRenderer(t)
	report := &Report{
		Title:   "<b>x</b>",
		Entries: []Entry{{Caption: "<script>", Path: "/r/s.png", Width: 1, Height: 1}},
	}

	html, err := r.renderReport(newReportView(report, DefaultLayout(), "", false))
	if err != nil {
		t.Fatalf("renderReport() error = %v", err)
	}
	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>x</b>") {
		t.Error("caption and title should be escaped")
	}
}

func TestReportRenderer_RenderHeader(t *testing.T) {
	t.Parallel()

	r := loadDefaultRenderer(t)
	html, err := r.renderHeader(&headerView{Src: "data:image/png;base64,AAAA", Width: 540, Height: 72, Left: 0})
	if err != nil {
		t.Fatalf("renderHeader() error = %v", err)
	}
	if !strings.Contains(html, `src="data:image/png;base64,AAAA"`) {
		t.Errorf("header HTML missing data URI: %s", html)
	}
	if !strings.Contains(html, "height: 72pt") {
		t.Errorf("header HTML missing height: %s", html)
	}
}

func TestNewReportRenderer_ParseError(t *testing.T) {
	t.Parallel()

	_, err := newReportRenderer(&assets.TemplateSet{Name: "broken", Report: "{{.Title", Header: ""})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q should name the template set", err)
	}
}

// ---------------------------------------------------------------------------
// dataURI
// ---------------------------------------------------------------------------

func TestDataURI(t *testing.T) {
	t.Parallel()

	path := writePNG(t, t.TempDir(), "dna.png", 4, 2)

	got, err := dataURI(path)
	if err != nil {
		t.Fatalf("dataURI() error = %v", err)
	}
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(string(got), prefix) {
		t.Fatalf("dataURI() = %.40q..., want %s prefix", got, prefix)
	}
	if _, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(string(got), prefix)); err != nil {
		t.Errorf("payload is not base64: %v", err)
	}

	if _, err := dataURI(path + ".missing"); err == nil {
		t.Error("dataURI(missing) expected error")
	}
}
