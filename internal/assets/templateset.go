package assets

// Template file names inside a template set directory.
const (
	reportTemplateFile = "report.html"
	headerTemplateFile = "header.html"
)

// TemplateSet holds the HTML templates a report is rendered with.
type TemplateSet struct {
	Name   string // Identifier (name or directory path)
	Report string // Full report document
	Header string // Header band for Chrome's page header area
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"
