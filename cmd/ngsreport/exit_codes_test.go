package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	ngsreport "github.com/alnah/go-ngsreport"
	"github.com/alnah/go-ngsreport/internal/config"
	"github.com/alnah/go-ngsreport/internal/dateutil"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"canceled", context.Canceled, ExitGeneral},

		{"browser connect", ngsreport.ErrBrowserConnect, ExitBrowser},
		{"page load", fmt.Errorf("converting: %w", ngsreport.ErrPageLoad), ExitBrowser},
		{"pdf generation wrapped twice", fmt.Errorf("1 of 2 failed: %w", fmt.Errorf("x: %w", ngsreport.ErrPDFGeneration)), ExitBrowser},

		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config value", config.ErrInvalidValue, ExitUsage},
		{"date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"worker count", ErrInvalidWorkerCount, ExitUsage},
		{"timeout", ErrInvalidTimeout, ExitUsage},
		{"page size", ngsreport.ErrInvalidPageSize, ExitUsage},
		{"layout", ngsreport.ErrInvalidLayout, ExitUsage},
		{"style not found", fmt.Errorf("%w: %w", ErrConverterInit, ngsreport.ErrStyleNotFound), ExitUsage},
		{"asset path", ngsreport.ErrInvalidAssetPath, ExitUsage},

		{"not exist", fmt.Errorf("input directory: %w", fs.ErrNotExist), ExitIO},
		{"permission", fs.ErrPermission, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"input not dir", ErrInputNotDir, ExitIO},
		{"output missing", ErrOutputDirMissing, ExitIO},
		{"read notes", ErrReadNotes, ExitIO},
		{"write pdf", ErrWritePDF, ExitIO},
		{"header image", ngsreport.ErrHeaderImageNotFound, ExitIO},

		{"converter init without cause", ErrConverterInit, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Values are part of the CLI contract
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	codes := map[string]int{
		"ExitSuccess": ExitSuccess,
		"ExitGeneral": ExitGeneral,
		"ExitUsage":   ExitUsage,
		"ExitIO":      ExitIO,
		"ExitBrowser": ExitBrowser,
	}
	want := map[string]int{
		"ExitSuccess": 0,
		"ExitGeneral": 1,
		"ExitUsage":   2,
		"ExitIO":      3,
		"ExitBrowser": 4,
	}
	for name, got := range codes {
		if got != want[name] {
			t.Errorf("%s = %d, want %d", name, got, want[name])
		}
	}
}
