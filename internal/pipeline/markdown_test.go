package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestGoldmarkRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewGoldmarkRenderer()

	tests := []struct {
		name         string
		markdown     string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "empty notes",
			markdown:     "",
			wantExcludes: []string{"<p>"},
		},
		{
			name:         "paragraph and emphasis",
			markdown:     "Run **MiSeq-042**, amplicon *HBB*.",
			wantContains: []string{"<strong>MiSeq-042</strong>", "<em>HBB</em>"},
		},
		{
			name:         "GFM table",
			markdown:     "| sample | reads |\n|---|---|\n| s1 | 10213 |",
			wantContains: []string{"<table>", "<td>10213</td>"},
		},
		{
			name:         "highlighted code block uses inline styles",
			markdown:     "```bash\nCRISPResso --fastq_r1 r1.fq.gz\n```",
			wantContains: []string{"<pre", "style="},
		},
		{
			name:         "raw HTML dropped",
			markdown:     "<script>alert(1)</script>",
			wantExcludes: []string{"<script>"},
		},
		{
			name:         "fragment only",
			markdown:     "text",
			wantExcludes: []string{"<html", "<body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Render(context.Background(), tt.markdown)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Render() missing %q in %q", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Render() unexpectedly contains %q in %q", exclude, got)
				}
			}
		})
	}
}

func TestGoldmarkRenderer_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkRenderer().Render(ctx, "# notes")
	if err != context.Canceled {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}
