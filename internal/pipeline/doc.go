// Package pipeline holds the HTML stages that surround report rendering:
//   - Markdown notes to HTML via Goldmark (GFM, syntax highlighting)
//   - relative image paths in notes rewritten to file:// URLs
//   - CSS injection into the rendered report document
//
// Laying out the report itself and printing it to PDF are handled by the
// root ngsreport package.
package pipeline
