package ngsreport

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ngsreport/internal/fileutil"
)

// FindImages returns every file under root, at any depth, whose name ends
// with ext. Paths are returned in walk order; callers sort them.
//
// ext may omit its leading dot ("png" matches like ".png"). Matching is
// case-sensitive. Subdirectories that cannot be read are skipped; an
// unreadable root is an error.
func FindImages(root, ext string) ([]string, error) {
	ext = fileutil.NormalizeExtension(ext)
	if ext == "" {
		return nil, ErrEmptyExtension
	}

	var images []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	return images, nil
}
