package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// inputFlags holds image discovery flags.
type inputFlags struct {
	extension string
	notes     string
	noNotes   bool
}

// headerFlags holds header band flags.
type headerFlags struct {
	image  string
	repeat bool
}

// layoutFlags holds image layout flags, in inches.
type layoutFlags struct {
	maxWidth      float64
	bodyIndent    float64
	noForceBreaks bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position   string
	text       string
	date       string
	pageNumber bool
	disabled   bool
}

// assetFlags holds asset-related flags (CSS, templates, custom asset path).
type assetFlags struct {
	style     string // Name, path, or inline CSS
	template  string // Template set name
	assetPath string // Override asset directory
	noStyle   bool   // Disable CSS styling
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html      bool // Output HTML alongside PDF
	htmlOnly  bool // Output HTML only, skip PDF
	createDir bool // Create the output directory if missing
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common      commonFlags
	output      string
	workers     int
	timeout     string
	titleFormat string
	input       inputFlags
	header      headerFlags
	layout      layoutFlags
	page        pageFlags
	footer      footerFlags
	assets      assetFlags
	outputMode  outputFlags

	// changed reports whether a flag was set on the command line, so an
	// explicit zero is told apart from an absent flag.
	changed func(name string) bool
}

// isSet reports whether the named flag was given explicitly.
func (f *generateFlags) isSet(name string) bool {
	return f.changed != nil && f.changed(name)
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVar(&f.extension, "ext", "", "qualifying image extension (default .png)")
	fs.StringVar(&f.notes, "notes", "", "notes file name looked up in each directory")
	fs.BoolVar(&f.noNotes, "no-notes", false, "ignore notes files")
}

func addHeaderFlags(fs *flag.FlagSet, f *headerFlags) {
	fs.StringVar(&f.image, "header", "", "header band image path")
	fs.BoolVar(&f.repeat, "repeat-header", false, "draw the header band on every page")
}

func addLayoutFlags(fs *flag.FlagSet, f *layoutFlags) {
	fs.Float64Var(&f.maxWidth, "max-width", 0, "max image width in inches (default 6)")
	fs.Float64Var(&f.bodyIndent, "body-indent", 0, "title and image indent in inches (default 0.5)")
	fs.BoolVar(&f.noForceBreaks, "no-force-breaks", false, "disable the page break after tall images")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.StringVar(&f.date, "footer-date", "", "footer date (\"auto\" = today)")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.template, "template", "", "template set name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "output HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDF")
	fs.BoolVar(&f.createDir, "create-output-dir", false, "create the output directory if missing")
}

// registerGenerateFlags adds every generate flag to fs. Parsing and shell
// completion share it.
func registerGenerateFlags(fs *flag.FlagSet, f *generateFlags) {
	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel reports (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout per report (e.g., 30s, 2m)")
	fs.StringVar(&f.titleFormat, "title-format", "", "report title, {sample} = directory name")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addHeaderFlags(fs, &f.header)
	addLayoutFlags(fs, &f.layout)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)
}

// parseGenerateFlags parses generate command flags and returns positional args.
// Usage goes to usageOut on --help or a parse error.
func parseGenerateFlags(args []string, usageOut io.Writer) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	f := &generateFlags{}
	registerGenerateFlags(fs, f)

	fs.Usage = func() { printGenerateUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = fs.Changed
	return f, fs.Args(), nil
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json   bool
	config string
	output string
	input  string // optional positional input-dir
}

func addDoctorFlags(fs *flag.FlagSet, f *doctorFlags) {
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path to check")
	fs.StringVarP(&f.output, "output", "o", "", "output directory to check")
}

// parseDoctorFlags parses doctor flags; the first positional argument is the
// input directory to check.
func parseDoctorFlags(args []string, usageOut io.Writer) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	f := &doctorFlags{}
	addDoctorFlags(fs, f)

	fs.Usage = func() { printDoctorUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		f.input = fs.Arg(0)
	}
	return f, nil
}
