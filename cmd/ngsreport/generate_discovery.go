package main

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	ngsreport "github.com/alnah/go-ngsreport"
	"github.com/alnah/go-ngsreport/internal/config"
)

// sampleDir is a directory whose subtree holds at least one image.
type sampleDir struct {
	Path   string
	Name   string // base name, used for the title and output file
	Images []string
}

// reportJob is one report to generate.
type reportJob struct {
	Dir        string
	Title      string
	Images     []string
	NotesPath  string // empty when notes are disabled
	OutputPath string
}

// ListSampleDirs walks root in lexical order, the root included, and returns
// every directory whose subtree contains at least one file ending in ext.
// Each visited directory is logged. Unreadable subdirectories are skipped;
// an unreadable root is an error.
func ListSampleDirs(root, ext string, logger *slog.Logger) ([]sampleDir, error) {
	var dirs []sampleDir

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable directory", "dir", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		logger.Info("processing directory", "dir", path)

		images, err := ngsreport.FindImages(path, ext)
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping directory", "dir", path, "error", err)
			return fs.SkipDir
		}
		if len(images) == 0 {
			logger.Debug("no images, no report", "dir", path)
			return nil
		}

		dirs = append(dirs, sampleDir{
			Path:   path,
			Name:   dirName(path),
			Images: images,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dirs, nil
}

// dirName returns the base name of dir, resolving "." and trailing
// separators to the real directory name.
func dirName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(filepath.Clean(dir))
}

// planReports maps sample directories to jobs writing into outputDir.
// Directories sharing a base name share an output file: the later one in
// walk order replaces the earlier job, with a warning.
func planReports(dirs []sampleDir, outputDir string, cfg *config.Config, logger *slog.Logger) []reportJob {
	jobs := make([]reportJob, 0, len(dirs))
	byOutput := make(map[string]int, len(dirs))

	for _, d := range dirs {
		job := reportJob{
			Dir:        d.Path,
			Title:      cfg.Title(d.Name),
			Images:     d.Images,
			OutputPath: filepath.Join(outputDir, d.Name+cfg.Output.Suffix),
		}
		if !cfg.Notes.Disabled && cfg.Notes.Filename != "" {
			job.NotesPath = filepath.Join(d.Path, cfg.Notes.Filename)
		}

		if i, dup := byOutput[job.OutputPath]; dup {
			logger.Warn("duplicate directory name, later directory wins",
				"output", job.OutputPath,
				"replaced", jobs[i].Dir,
				"dir", job.Dir)
			jobs[i] = job
			continue
		}
		byOutput[job.OutputPath] = len(jobs)
		jobs = append(jobs, job)
	}

	return jobs
}
