package main

import (
	"errors"
	"os"

	ngsreport "github.com/alnah/go-ngsreport"
	"github.com/alnah/go-ngsreport/internal/config"
	"github.com/alnah/go-ngsreport/internal/dateutil"
)

// Exit codes for the ngsreport CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every report generated
	ExitGeneral = 1 // Some reports failed, or unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Missing input/output directory, unreadable or unwritable file
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, ngsreport.ErrBrowserConnect) ||
		errors.Is(err, ngsreport.ErrPageCreate) ||
		errors.Is(err, ngsreport.ErrPageLoad) ||
		errors.Is(err, ngsreport.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ngsreport.ErrEmptyExtension) ||
		errors.Is(err, ngsreport.ErrInvalidPageSize) ||
		errors.Is(err, ngsreport.ErrInvalidOrientation) ||
		errors.Is(err, ngsreport.ErrInvalidMargin) ||
		errors.Is(err, ngsreport.ErrInvalidLayout) ||
		errors.Is(err, ngsreport.ErrInvalidFooterPosition) ||
		errors.Is(err, ngsreport.ErrStyleNotFound) ||
		errors.Is(err, ngsreport.ErrTemplateSetNotFound) ||
		errors.Is(err, ngsreport.ErrIncompleteTemplateSet) ||
		errors.Is(err, ngsreport.ErrInvalidAssetPath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInputNotDir) ||
		errors.Is(err, ErrOutputDirMissing) ||
		errors.Is(err, ErrReadNotes) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ngsreport.ErrHeaderImageNotFound) {
		return ExitIO
	}

	return ExitGeneral
}
