package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	ngsreport "github.com/alnah/go-ngsreport"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock converter and pool
// ---------------------------------------------------------------------------

// mockConverter returns a fake PDF, or err, for every input.
type mockConverter struct {
	mu     sync.Mutex
	inputs []ngsreport.Input
	err    error
	// failTitle fails only the report with this title.
	failTitle string
}

func (m *mockConverter) Convert(_ context.Context, in ngsreport.Input) (*ngsreport.ConvertResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, in)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.failTitle != "" && in.Title == m.failTitle {
		return nil, ngsreport.ErrPDFGeneration
	}
	return &ngsreport.ConvertResult{
		HTML:   []byte("<html>" + in.Title + "</html>"),
		PDF:    []byte("%PDF-1.4 " + in.Title),
		Report: &ngsreport.Report{Title: in.Title},
	}, nil
}

func (m *mockConverter) titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.inputs))
	for _, in := range m.inputs {
		out = append(out, in.Title)
	}
	return out
}

// mockPool hands out a single shared converter, or nil when conv is nil.
type mockPool struct {
	conv     CLIConverter
	size     int
	initErr  error
	mu       sync.Mutex
	acquired int
	released int
	closed   bool
	opts     []ngsreport.Option
}

func (p *mockPool) Acquire() CLIConverter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conv == nil {
		return nil
	}
	p.acquired++
	return p.conv
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *mockPool) Size() int {
	if p.size == 0 {
		return 1
	}
	return p.size
}

func (p *mockPool) InitError() error { return p.initErr }

func (p *mockPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// testEnv returns an Environment with captured output and pool creating
// pools around conv.
func testEnv(conv CLIConverter) (*Environment, *bytes.Buffer, *bytes.Buffer, *mockPool) {
	var stdout, stderr bytes.Buffer
	pool := &mockPool{conv: conv, initErr: errors.New("no converter")}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		NewPool: func(size int, opts ...ngsreport.Option) Pool {
			pool.size = size
			pool.opts = opts
			return pool
		},
	}
	return env, &stdout, &stderr, pool
}

// writePNG creates a w x h PNG at dir/rel, creating parent directories.
func writePNG(t *testing.T, dir, rel string, w, h int) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// writeFile creates dir/rel with content, creating parent directories.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// pipelineTree lays out a pipeline output root:
//
//	root/sample1/a.png, b.png, notes.md
//	root/sample2/sub/c.png
//	root/empty/readme.txt
func pipelineTree(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "run42")
	writePNG(t, root, "sample1/a.png", 800, 400)
	writePNG(t, root, "sample1/b.png", 4000, 1000)
	writeFile(t, root, "sample1/notes.md", "Library prep **passed**.\n")
	writePNG(t, root, "sample2/sub/c.png", 100, 100)
	writeFile(t, root, "empty/readme.txt", "no plots")
	return root
}
