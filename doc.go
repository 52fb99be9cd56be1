// Package ngsreport builds paginated PDF reports from the image outputs of
// sequencing analysis pipelines (CRISPResso2 plots and similar).
//
// # Quick Start
//
// Discover the images of one sample directory, convert, and close when done:
//
//	images, err := ngsreport.FindImages("/runs/MiSeq-042/sample1", ".png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv, err := ngsreport.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, ngsreport.Input{
//	    Title:  "NGS Report for sample1",
//	    Images: images,
//	    Header: &ngsreport.Header{ImagePath: "/lab/dna.png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("sample1_report.pdf", result.PDF, 0644)
//
// result.Report describes the laid-out entries and the images that were
// skipped because they could not be read. result.HTML holds the intermediate
// document. Use Input.HTMLOnly to skip PDF generation.
//
// # Layout
//
// Images are sorted by path and captioned with their file name stem. An image
// wider than Layout.MaxImageWidth (6in by default) is scaled down keeping its
// aspect ratio; narrower images keep their natural size, one pixel per point.
// A caption and its image are never split across pages. When
// Layout.ForceBreaks is set, an entry taller than the page frame allows is
// followed by a page break (see NeedsPageBreak).
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := ngsreport.NewConverter(
//	    ngsreport.WithTimeout(2 * time.Minute),
//	    ngsreport.WithStyle("compact"),
//	    ngsreport.WithAssetPath("/lab/report-assets"),
//	    ngsreport.WithLogger(slog.Default()),
//	)
//
// # Parallel Processing
//
// Reports are independent. ConverterPool manages one browser per worker:
//
//	pool := ngsreport.NewConverterPool(ngsreport.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. go-rod downloads a managed
// Chromium on first run when none is installed.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package ngsreport
