package ngsreport

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG creates a w x h PNG at dir/rel, creating parent directories.
func writePNG(t *testing.T, dir, rel string, w, h int) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}

	img := image.NewGray(image.Rect(0, 0, w, h))
	img.SetGray(0, 0, color.Gray{Y: 128})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("setup: encoding %s: %v", rel, err)
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

// fixedMeasurer returns preset sizes by base name and an error for unknown files.
func fixedMeasurer(sizes map[string][2]int) ImageMeasurer {
	return func(path string) (int, int, error) {
		s, ok := sizes[filepath.Base(path)]
		if !ok {
			return 0, 0, ErrImageDecode
		}
		return s[0], s[1], nil
	}
}
