package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// - applyEnvConfig: env values override the config file; CLI flags and
//   arguments override env values.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-ngsreport/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("NGSREPORT_CONFIG", "lab")
		t.Setenv("NGSREPORT_INPUT_DIR", "/data/crispresso")
		t.Setenv("NGSREPORT_OUTPUT_DIR", "/data/reports")
		t.Setenv("NGSREPORT_HEADER_IMAGE", "/data/dna.png")
		t.Setenv("NGSREPORT_EXTENSION", ".jpg")
		t.Setenv("NGSREPORT_PAGE_SIZE", "a4")
		t.Setenv("NGSREPORT_TIMEOUT", "2m")
		t.Setenv("NGSREPORT_WORKERS", "4")

		cfg := loadEnvConfig()

		want := envConfig{
			ConfigPath:  "lab",
			InputDir:    "/data/crispresso",
			OutputDir:   "/data/reports",
			HeaderImage: "/data/dna.png",
			Extension:   ".jpg",
			PageSize:    "a4",
			Timeout:     2 * time.Minute,
			Workers:     4,
		}
		if *cfg != want {
			t.Errorf("loadEnvConfig() = %+v, want %+v", *cfg, want)
		}
	})

	t.Run("malformed numbers are ignored", func(t *testing.T) {
		tests := []struct {
			name    string
			timeout string
			workers string
		}{
			{"not a duration", "soon", "four"},
			{"negative", "-5s", "-2"},
			{"zero", "0s", "0"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv("NGSREPORT_TIMEOUT", tt.timeout)
				t.Setenv("NGSREPORT_WORKERS", tt.workers)

				cfg := loadEnvConfig()
				if cfg.Timeout != 0 {
					t.Errorf("Timeout = %v, want 0", cfg.Timeout)
				}
				if cfg.Workers != 0 {
					t.Errorf("Workers = %d, want 0", cfg.Workers)
				}
			})
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("NGSREPORT_OUTPUT_DIRR", "/typo")
	t.Setenv("NGSREPORT_INPUT_DIR", "/data")
	t.Setenv("NGSREPORT_CONTAINER", "1")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)
	out := buf.String()

	if !strings.Contains(out, "unknown environment variable NGSREPORT_OUTPUT_DIRR") {
		t.Errorf("output = %q, want warning for NGSREPORT_OUTPUT_DIRR", out)
	}
	for _, known := range []string{"NGSREPORT_INPUT_DIR ", "NGSREPORT_CONTAINER "} {
		if strings.Contains(out, known) {
			t.Errorf("output = %q, should not warn about %s", out, strings.TrimSpace(known))
		}
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority between env and config
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		InputDir:    "/env/in",
		OutputDir:   "/env/out",
		HeaderImage: "/env/dna.png",
		Extension:   ".jpg",
		PageSize:    "a4",
	}

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.Input.Dir != "/env/in" || cfg.Output.Dir != "/env/out" {
			t.Errorf("dirs = %q, %q", cfg.Input.Dir, cfg.Output.Dir)
		}
		if cfg.Header.Image != "/env/dna.png" {
			t.Errorf("Header.Image = %q", cfg.Header.Image)
		}
		if cfg.Input.Extension != ".jpg" {
			t.Errorf("Input.Extension = %q, want .jpg over the default", cfg.Input.Extension)
		}
		if cfg.Page.Size != "a4" {
			t.Errorf("Page.Size = %q, want a4 over the default", cfg.Page.Size)
		}
	})

	t.Run("env overrides config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Input.Dir = "/cfg/in"
		cfg.Output.Dir = "/cfg/out"
		cfg.Header.Image = "/cfg/logo.png"
		cfg.Input.Extension = ".gif"
		cfg.Page.Size = "legal"
		applyEnvConfig(env, cfg)

		if cfg.Input.Dir != "/env/in" || cfg.Output.Dir != "/env/out" || cfg.Header.Image != "/env/dna.png" {
			t.Errorf("env paths not applied: %+v", cfg)
		}
		if cfg.Input.Extension != ".jpg" || cfg.Page.Size != "a4" {
			t.Errorf("env values not applied: ext %q, size %q", cfg.Input.Extension, cfg.Page.Size)
		}
	})

	t.Run("extension without dot", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{Extension: "jpg"}, cfg)

		if cfg.Input.Extension != ".jpg" {
			t.Errorf("Input.Extension = %q, want .jpg", cfg.Input.Extension)
		}
	})

	t.Run("empty env changes nothing", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Input.Dir != "" || cfg.Input.Extension != ".png" || cfg.Page.Size != "letter" {
			t.Errorf("config changed: %+v", cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunGenerate_EnvInput - Environment drives a run
// ---------------------------------------------------------------------------

func TestRunGenerate_EnvInput(t *testing.T) {
	root := t.TempDir()
	writePNG(t, root, "s1/a.png", 10, 10)
	outDir := t.TempDir()
	t.Setenv("NGSREPORT_INPUT_DIR", root)
	t.Setenv("NGSREPORT_OUTPUT_DIR", outDir)
	t.Setenv("NGSREPORT_WORKERS", "3")

	conv := &mockConverter{}
	env, _, _, pool := testEnv(conv)

	if err := runWithArgs(t, env, "-q"); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}
	if pool.size != 3 {
		t.Errorf("pool size = %d, want 3 from NGSREPORT_WORKERS", pool.size)
	}
	if len(conv.titles()) != 2 {
		t.Errorf("reports = %v, want root and s1", conv.titles())
	}
}

func TestRunGenerate_EnvOverridesConfig(t *testing.T) {
	root := t.TempDir()
	writePNG(t, root, "cfgin/s1/a.png", 10, 10)
	writePNG(t, root, "envin/s2/b.png", 10, 10)
	outDir := t.TempDir()
	cfgPath := writeFile(t, root, "lab.yaml", "input:\n  dir: "+filepath.Join(root, "cfgin")+"\n")
	t.Setenv("NGSREPORT_INPUT_DIR", filepath.Join(root, "envin"))

	conv := &mockConverter{}
	env, _, _, _ := testEnv(conv)

	if err := runWithArgs(t, env, "-q", "-c", cfgPath, "-o", outDir); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "s2_report.pdf")); err != nil {
		t.Errorf("s2_report.pdf from NGSREPORT_INPUT_DIR missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "s1_report.pdf")); !os.IsNotExist(err) {
		t.Errorf("s1_report.pdf from the config file written: %v", err)
	}
}

func TestRunGenerate_FlagOverridesEnv(t *testing.T) {
	root := t.TempDir()
	writePNG(t, root, "envin/s2/b.png", 10, 10)
	writePNG(t, root, "argin/s3/c.png", 10, 10)
	outDir := t.TempDir()
	t.Setenv("NGSREPORT_INPUT_DIR", filepath.Join(root, "envin"))

	conv := &mockConverter{}
	env, _, _, _ := testEnv(conv)

	if err := runWithArgs(t, env, "-q", filepath.Join(root, "argin"), "-o", outDir); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "s3_report.pdf")); err != nil {
		t.Errorf("s3_report.pdf from the argument missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "s2_report.pdf")); !os.IsNotExist(err) {
		t.Errorf("s2_report.pdf from NGSREPORT_INPUT_DIR written: %v", err)
	}
}
