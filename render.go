package ngsreport

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alnah/go-ngsreport/internal/assets"
	"github.com/alnah/go-ngsreport/internal/pipeline"
)

// reportView is the data of the report.html template.
type reportView struct {
	Title        string
	Header       *headerView // nil when absent or drawn by the page header
	BodyIndent   float64
	TitleSpacing float64
	Notes        template.HTML
	Entries      []entryView
}

// headerView is the data of the header band, also used by header.html.
type headerView struct {
	Src    template.URL
	Width  float64
	Height float64
	Left   float64
}

type entryView struct {
	Caption        string
	Src            template.URL
	Width          float64
	Height         float64
	BreakAfter     bool
	EntrySpacing   float64
	CaptionSpacing float64
}

// templateFuncs are available to every report template.
var templateFuncs = template.FuncMap{
	"pt": pt,
}

// pt formats a length in points as a CSS value, rounded to 0.01pt.
func pt(v float64) template.CSS {
	v = math.Round(v*100) / 100
	return template.CSS(strconv.FormatFloat(v, 'f', -1, 64) + "pt")
}

// reportRenderer holds the parsed templates of one template set.
type reportRenderer struct {
	report *template.Template
	header *template.Template
}

// newReportRenderer parses the templates of ts.
func newReportRenderer(ts *assets.TemplateSet) (*reportRenderer, error) {
	report, err := template.New("report").Funcs(templateFuncs).Parse(ts.Report)
	if err != nil {
		return nil, fmt.Errorf("parsing report template of %q: %w", ts.Name, err)
	}
	header, err := template.New("header").Funcs(templateFuncs).Parse(ts.Header)
	if err != nil {
		return nil, fmt.Errorf("parsing header template of %q: %w", ts.Name, err)
	}
	return &reportRenderer{report: report, header: header}, nil
}

func (r *reportRenderer) renderReport(view *reportView) (string, error) {
	var buf bytes.Buffer
	if err := r.report.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}
	return buf.String(), nil
}

func (r *reportRenderer) renderHeader(view *headerView) (string, error) {
	var buf bytes.Buffer
	if err := r.header.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: header: %v", ErrHTMLRender, err)
	}
	return buf.String(), nil
}

// newReportView maps a laid-out report to template data. The header band
// is left out when repeatHeader is set; the page header draws it instead.
func newReportView(report *Report, layout *Layout, notes template.HTML, repeatHeader bool) *reportView {
	view := &reportView{
		Title:        report.Title,
		BodyIndent:   layout.BodyIndent,
		TitleSpacing: layout.TitleSpacing,
		Notes:        notes,
		Entries:      make([]entryView, 0, len(report.Entries)),
	}

	if report.Header != nil && !repeatHeader {
		view.Header = &headerView{
			Src:    localURL(report.HeaderPath),
			Width:  report.Header.Width,
			Height: report.Header.Height,
			Left:   report.Header.Left,
		}
	}

	for _, e := range report.Entries {
		view.Entries = append(view.Entries, entryView{
			Caption:        e.Caption,
			Src:            localURL(e.Path),
			Width:          e.Width,
			Height:         e.Height,
			BreakAfter:     e.BreakAfter,
			EntrySpacing:   layout.EntrySpacing,
			CaptionSpacing: layout.CaptionSpacing,
		})
	}

	return view
}

// localURL returns the file:// URL of path, made absolute.
func localURL(path string) template.URL {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return template.URL(pipeline.FileURL(path)) // #nosec G203 -- built from a local path
}

// dataURI inlines an image file. Chrome's page header template cannot load
// external resources.
func dataURI(path string) (template.URL, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided header image
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)), nil // #nosec G203 -- encoded image bytes
}
