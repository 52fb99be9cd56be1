package ngsreport

import (
	"fmt"
	"image"
	"os"

	// Registered decoders: every format Chrome can also display.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageMeasurer returns the pixel dimensions of an image file.
type ImageMeasurer func(path string) (width, height int, err error)

// MeasureImage reads the image header of path and returns its pixel size.
// Only the header is decoded.
func MeasureImage(path string) (width, height int, err error) {
	f, err := os.Open(path) // #nosec G304 -- discovered path
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("%w: %s %dx%d", ErrEmptyImage, format, cfg.Width, cfg.Height)
	}

	return cfg.Width, cfg.Height, nil
}
