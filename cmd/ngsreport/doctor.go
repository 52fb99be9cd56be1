package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	ngsreport "github.com/alnah/go-ngsreport"
	"github.com/alnah/go-ngsreport/internal/assets"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Inputs   *inputInfo `json:"inputs,omitempty"` // nil when no run is configured
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool     `json:"temp_writable"`
	Templates    bool     `json:"templates"`
	Styles       []string `json:"styles"`
	ImageFormats []string `json:"image_formats"`
}

// inputInfo holds the checks of a configured run: where images come from,
// the header band and where reports go.
type inputInfo struct {
	Config         string `json:"config,omitempty"`
	InputDir       string `json:"input_dir,omitempty"`
	Extension      string `json:"extension"`
	Images         int    `json:"images"`
	HeaderImage    string `json:"header_image,omitempty"`
	HeaderSize     string `json:"header_size,omitempty"` // "WxH" in pixels
	OutputDir      string `json:"output_dir"`
	OutputWritable bool   `json:"output_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	result := runDoctor(flags)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(flags *doctorFlags) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result)
	checkSystem(result)
	checkAssets(result)
	checkInputs(result, flags)

	result.Status = finalStatus(result)
	return result
}

// finalStatus derives the overall status from collected errors and warnings.
func finalStatus(r *doctorResult) string {
	switch {
	case len(r.Errors) > 0:
		return statusErrors
	case len(r.Warnings) > 0:
		return statusWarnings
	default:
		return statusReady
	}
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from rod lookup or ROD_BROWSER_BIN
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("NGSREPORT_CONTAINER") == "1" {
		return true, "NGSREPORT_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory, where each report's HTML is
// written before printing.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "ngsreport-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// checkAssets verifies the embedded templates and lists styles and the
// image formats whose dimensions can be read.
func checkAssets(result *doctorResult) {
	loader := assets.NewEmbeddedLoader()
	if _, err := loader.LoadTemplateSet(assets.DefaultTemplateSetName); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Embedded templates: %v", err))
	} else {
		result.System.Templates = true
	}
	result.System.Styles = loader.Styles()
	result.System.ImageFormats = registeredImageFormats()
}

// registeredImageFormats probes the image decoders linked into the binary.
func registeredImageFormats() []string {
	probes := []struct {
		name  string
		magic string
	}{
		{"png", "\x89PNG\r\n\x1a\n"},
		{"jpeg", "\xff\xd8"},
		{"gif", "GIF89a"},
		{"bmp", "BM\x00\x00\x00\x00\x00\x00\x00\x00"},
		{"webp", "RIFF\x00\x00\x00\x00WEBPVP8"},
	}

	var formats []string
	for _, p := range probes {
		// Truncated input: a registered decoder fails later than format sniffing.
		if _, _, err := image.DecodeConfig(strings.NewReader(p.magic)); !errors.Is(err, image.ErrFormat) {
			formats = append(formats, p.name)
		}
	}
	return formats
}

// checkInputs checks the run described by the config file, NGSREPORT_*
// variables and flags. Skipped when none of them names an input, header or
// config.
func checkInputs(result *doctorResult, flags *doctorFlags) {
	envCfg := loadEnvConfig()
	configName := flags.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName == "" && flags.input == "" && envCfg.InputDir == "" && envCfg.HeaderImage == "" {
		return
	}

	cfg, err := loadConfig(flags.config, envCfg.ConfigPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return
	}
	applyEnvConfig(envCfg, cfg)

	info := &inputInfo{
		Config:      configName,
		Extension:   cfg.Input.Extension,
		HeaderImage: cfg.Header.Image,
	}
	result.Inputs = info

	var args []string
	if flags.input != "" {
		args = []string{flags.input}
	}
	inputDir, err := resolveInputDir(args, cfg)
	switch {
	case errors.Is(err, ErrNoInput):
		result.Warnings = append(result.Warnings, "No input directory configured")
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("Input directory: %v", err))
	default:
		info.InputDir = inputDir
		images, err := ngsreport.FindImages(inputDir, cfg.Input.Extension)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Input directory %s: %v", inputDir, err))
			break
		}
		info.Images = len(images)
		if len(images) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("No %s images under %s", cfg.Input.Extension, inputDir))
		}
	}

	if cfg.Header.Image != "" {
		if w, h, err := ngsreport.MeasureImage(cfg.Header.Image); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Header image %s: %v", cfg.Header.Image, err))
		} else {
			info.HeaderSize = fmt.Sprintf("%dx%d", w, h)
		}
	}

	info.OutputDir = resolveOutputDir(flags.output, cfg)
	checkOutputDir(result, info, cfg.Output.CreateDir)
}

// checkOutputDir creates and removes a probe file in the output directory.
// A missing directory is only a warning when the run would create it.
func checkOutputDir(result *doctorResult, info *inputInfo, createDir bool) {
	if _, err := os.Stat(info.OutputDir); os.IsNotExist(err) {
		if createDir {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Output directory %s does not exist and will be created", info.OutputDir))
			return
		}
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory %s does not exist (set output.createDir or --create-output-dir)", info.OutputDir))
		return
	}

	f, err := os.CreateTemp(info.OutputDir, ".ngsreport-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory %s not writable: %v", info.OutputDir, err))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	info.OutputWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "ngsreport doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.Templates {
		fmt.Fprintln(w, "  [OK] Templates: embedded")
	} else {
		fmt.Fprintln(w, "  [ERROR] Templates: not loadable")
	}
	if len(r.System.Styles) > 0 {
		fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.System.Styles, ", "))
	}
	if len(r.System.ImageFormats) > 0 {
		fmt.Fprintf(w, "  [OK] Image formats: %s\n", strings.Join(r.System.ImageFormats, ", "))
	}
	fmt.Fprintln(w)

	if in := r.Inputs; in != nil {
		fmt.Fprintln(w, "Report inputs")
		if in.Config != "" {
			fmt.Fprintf(w, "  [OK] Config: %s\n", in.Config)
		}
		if in.InputDir != "" {
			fmt.Fprintf(w, "  [OK] Input: %s (%d %s images)\n", in.InputDir, in.Images, in.Extension)
		}
		if in.HeaderSize != "" {
			fmt.Fprintf(w, "  [OK] Header image: %s (%s px)\n", in.HeaderImage, in.HeaderSize)
		}
		if in.OutputWritable {
			fmt.Fprintf(w, "  [OK] Output: %s (writable)\n", in.OutputDir)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to generate reports")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
