package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownRender indicates the notes could not be converted to HTML.
var ErrMarkdownRender = errors.New("markdown rendering failed")

// MarkdownRenderer turns Markdown into an HTML fragment.
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// GoldmarkRenderer renders sample notes (run parameters, command lines,
// tables of editing rates) with GFM tables and highlighted code blocks.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a GoldmarkRenderer.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline colors, the report CSS knows no chroma classes
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// No WithUnsafe: raw HTML in notes is dropped.
		),
	)
	return &GoldmarkRenderer{md: md}
}

// Render converts markdown to an HTML fragment. Goldmark has no context
// support, so conversion runs in a goroutine raced against ctx.
func (r *GoldmarkRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if markdown == "" {
		return "", nil
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdownRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
