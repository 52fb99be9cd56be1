package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ngsreport "github.com/alnah/go-ngsreport"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadNotes     = errors.New("failed to read notes file")
	ErrWritePDF      = errors.New("failed to write PDF file")
	ErrWriteHTML     = errors.New("failed to write HTML file")
	ErrConverterInit = errors.New("failed to initialize converter")
)

// reportParams groups settings shared by every report of a run.
type reportParams struct {
	header     *ngsreport.Header
	page       *ngsreport.PageSettings
	layout     *ngsreport.Layout
	footer     *ngsreport.Footer
	css        string
	htmlOnly   bool
	htmlOutput bool
}

// ReportResult holds the outcome of a single report.
type ReportResult struct {
	Dir        string
	OutputPath string
	Skipped    int
	Err        error
	Duration   time.Duration
}

// generateBatch runs jobs concurrently on the converter pool.
// Results are in job order.
func generateBatch(ctx context.Context, pool Pool, jobs []reportJob, params *reportParams) []ReportResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))

	results := make([]ReportResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			if conv == nil {
				// Converter creation failed, fail whatever this worker would have run.
				initErr := ErrConverterInit
				if cause := pool.InitError(); cause != nil {
					initErr = fmt.Errorf("%w: %w", ErrConverterInit, cause)
				}
				for idx := range queue {
					results[idx] = ReportResult{Dir: jobs[idx].Dir, Err: initErr}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = ReportResult{Dir: jobs[idx].Dir, Err: err}
					continue
				}
				results[idx] = generateReport(ctx, conv, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// generateReport converts one directory and writes its files.
// Existing files are overwritten.
func generateReport(ctx context.Context, conv CLIConverter, job reportJob, params *reportParams) ReportResult {
	start := time.Now()
	result := ReportResult{
		Dir:        job.Dir,
		OutputPath: job.OutputPath,
	}
	fail := func(err error) ReportResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	notes, err := readNotes(job.NotesPath)
	if err != nil {
		return fail(err)
	}

	res, err := conv.Convert(ctx, ngsreport.Input{
		Title:     job.Title,
		Images:    job.Images,
		Header:    params.header,
		Notes:     notes,
		SourceDir: job.Dir,
		CSS:       params.css,
		Page:      params.page,
		Layout:    params.layout,
		Footer:    params.footer,
		HTMLOnly:  params.htmlOnly,
	})
	if err != nil {
		return fail(err)
	}
	if res.Report != nil {
		result.Skipped = len(res.Report.Skipped)
	}

	if params.htmlOnly || params.htmlOutput {
		htmlPath := htmlOutputPath(job.OutputPath)
		// #nosec G306 -- reports are meant to be readable
		if err := os.WriteFile(htmlPath, res.HTML, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteHTML, err))
		}
		if params.htmlOnly {
			result.OutputPath = htmlPath
			result.Duration = time.Since(start)
			return result
		}
	}

	// #nosec G306 -- reports are meant to be readable
	if err := os.WriteFile(job.OutputPath, res.PDF, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWritePDF, err))
	}

	result.Duration = time.Since(start)
	return result
}

// readNotes returns the notes file content, or "" when path is empty or
// the file does not exist.
func readNotes(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- notes file inside a discovered directory
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrReadNotes, err)
	}
	return string(data), nil
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"
}

// ResultSummary holds the count of succeeded and failed reports.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed reports.
func countResults(results []ReportResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs report results and returns the failure count.
func printResultsWithWriter(results []ReportResult, quiet, verbose bool, stdout, stderr io.Writer) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "FAILED %s: %v\n", r.Dir, r.Err)
			continue
		}

		if quiet {
			continue
		}

		switch {
		case verbose:
			fmt.Fprintf(stdout, "%s -> %s (%v)", r.Dir, r.OutputPath, r.Duration.Round(time.Millisecond))
			if r.Skipped > 0 {
				fmt.Fprintf(stdout, " [%d skipped]", r.Skipped)
			}
			fmt.Fprintln(stdout)
		case r.Skipped > 0:
			fmt.Fprintf(stdout, "Created %s (%d image(s) skipped)\n", r.OutputPath, r.Skipped)
		default:
			fmt.Fprintf(stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// firstFailure returns the error of the first failed report.
func firstFailure(results []ReportResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
