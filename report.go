package ngsreport

import (
	"slices"

	"github.com/alnah/go-ngsreport/internal/fileutil"
)

// Entry is one captioned image of a report. Width and Height are the drawn
// size in points.
type Entry struct {
	Caption       string
	Path          string
	NaturalWidth  int
	NaturalHeight int
	Width         float64
	Height        float64
	BreakAfter    bool
}

// Scaled reports whether the image was reduced to fit the width cap.
func (e Entry) Scaled() bool {
	return e.Width < float64(e.NaturalWidth)
}

// SkippedImage records an image left out of a report.
type SkippedImage struct {
	Path string
	Err  error
}

// Report is the laid-out content of one PDF.
type Report struct {
	Title      string
	HeaderPath string     // empty when there is no header
	Header     *HeaderBox // nil when there is no header
	Entries    []Entry    // sorted by Path
	Skipped    []SkippedImage
}

// ReportInput holds what BuildReport needs. Nil Page and Layout use the defaults.
type ReportInput struct {
	Title  string
	Images []string
	Header *Header
	Page   *PageSettings
	Layout *Layout
}

// BuildReport sorts the images, measures and scales each one, and marks
// page breaks. Images that measure fails on are recorded in Skipped and
// left out; a report whose images all fail still has its title and header.
func BuildReport(in ReportInput, measure ImageMeasurer) *Report {
	page := in.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	layout := in.Layout
	if layout == nil {
		layout = DefaultLayout()
	}
	if measure == nil {
		measure = MeasureImage
	}

	report := &Report{Title: in.Title}

	if in.Header != nil && in.Header.ImagePath != "" {
		box := HeaderPlacement(UsableWidth(page), page.MarginPoints(), in.Header.Width)
		report.Header = &box
		report.HeaderPath = in.Header.ImagePath
	}

	paths := slices.Clone(in.Images)
	slices.Sort(paths)

	report.Entries = make([]Entry, 0, len(paths))
	for _, p := range paths {
		w, h, err := measure(p)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedImage{Path: p, Err: err})
			continue
		}
		if w <= 0 || h <= 0 {
			report.Skipped = append(report.Skipped, SkippedImage{Path: p, Err: ErrEmptyImage})
			continue
		}

		width, height := ScaleToMaxWidth(float64(w), float64(h), layout.MaxImageWidth)
		report.Entries = append(report.Entries, Entry{
			Caption:       fileutil.Stem(p),
			Path:          p,
			NaturalWidth:  w,
			NaturalHeight: h,
			Width:         width,
			Height:        height,
			BreakAfter:    layout.ForceBreaks && NeedsPageBreak(page, layout, height),
		})
	}

	return report
}
