package ngsreport

// ScaleToMaxWidth caps width at maxWidth, keeping the aspect ratio.
// Images at or under the cap keep their size; height is never capped on
// its own.
func ScaleToMaxWidth(width, height, maxWidth float64) (float64, float64) {
	if maxWidth <= 0 || width <= maxWidth || height <= 0 {
		return width, height
	}
	ratio := width / height
	return maxWidth, maxWidth / ratio
}

// FrameHeight returns the height available to content on one page, in points.
func FrameHeight(page *PageSettings) float64 {
	_, h := page.Dimensions()
	return h - 2*page.MarginPoints()
}

// NeedsPageBreak reports whether an entry of imageHeight points should be
// followed by a page break.
//
// The test is static: it compares the image with the frame height reduced
// by the top and bottom margins a second time, and ignores what is already
// on the current page. A caption and its image never split (the renderer
// keeps them together), so this only pushes the next entry to a new page
// after a tall image.
func NeedsPageBreak(page *PageSettings, layout *Layout, imageHeight float64) bool {
	margin := page.MarginPoints()
	return FrameHeight(page)-2*margin < imageHeight+layout.EntrySpacing
}

// HeaderBox positions the header image, in points.
type HeaderBox struct {
	Width  float64
	Height float64
	Left   float64 // offset from the left page edge
}

// HeaderPlacement sizes the header band: requestedWidth (or the usable
// width when zero or larger) by the top margin, centered in usableWidth.
func HeaderPlacement(usableWidth, topMargin, requestedWidth float64) HeaderBox {
	w := usableWidth
	if requestedWidth > 0 && requestedWidth < usableWidth {
		w = requestedWidth
	}
	return HeaderBox{
		Width:  w,
		Height: topMargin,
		Left:   (usableWidth - w) / 2,
	}
}

// UsableWidth returns the page width minus the right margin. The left edge
// has no margin.
func UsableWidth(page *PageSettings) float64 {
	w, _ := page.Dimensions()
	return w - page.MarginPoints()
}
