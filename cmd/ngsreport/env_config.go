package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-ngsreport/internal/config"
	"github.com/alnah/go-ngsreport/internal/fileutil"
)

// envPrefix is shared by every recognized environment variable.
const envPrefix = "NGSREPORT_"

// envConfig holds configuration from environment variables.
// Provides pipeline-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // NGSREPORT_CONFIG: config name or path
	InputDir    string        // NGSREPORT_INPUT_DIR: pipeline output root
	OutputDir   string        // NGSREPORT_OUTPUT_DIR: report directory
	HeaderImage string        // NGSREPORT_HEADER_IMAGE: header band image
	Extension   string        // NGSREPORT_EXTENSION: qualifying image extension
	PageSize    string        // NGSREPORT_PAGE_SIZE: letter, a4, legal
	Timeout     time.Duration // NGSREPORT_TIMEOUT: per-report PDF timeout
	Workers     int           // NGSREPORT_WORKERS: parallel reports
}

// knownEnvVars lists valid NGSREPORT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"NGSREPORT_CONFIG":       true,
	"NGSREPORT_INPUT_DIR":    true,
	"NGSREPORT_OUTPUT_DIR":   true,
	"NGSREPORT_HEADER_IMAGE": true,
	"NGSREPORT_EXTENSION":    true,
	"NGSREPORT_PAGE_SIZE":    true,
	"NGSREPORT_TIMEOUT":      true,
	"NGSREPORT_WORKERS":      true,
	"NGSREPORT_CONTAINER":    true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed timeout and worker values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("NGSREPORT_CONFIG"),
		InputDir:    os.Getenv("NGSREPORT_INPUT_DIR"),
		OutputDir:   os.Getenv("NGSREPORT_OUTPUT_DIR"),
		HeaderImage: os.Getenv("NGSREPORT_HEADER_IMAGE"),
		Extension:   os.Getenv("NGSREPORT_EXTENSION"),
		PageSize:    os.Getenv("NGSREPORT_PAGE_SIZE"),
	}

	if timeout := os.Getenv("NGSREPORT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("NGSREPORT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized NGSREPORT_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config with every set environment variable.
// Called after the config file is loaded and before mergeFlags, giving
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" {
		cfg.Input.Dir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.HeaderImage != "" {
		cfg.Header.Image = env.HeaderImage
	}
	if env.Extension != "" {
		cfg.Input.Extension = fileutil.NormalizeExtension(env.Extension)
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
}
