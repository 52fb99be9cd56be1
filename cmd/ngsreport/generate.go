package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	ngsreport "github.com/alnah/go-ngsreport"
	"github.com/alnah/go-ngsreport/internal/assets"
	"github.com/alnah/go-ngsreport/internal/config"
	"github.com/alnah/go-ngsreport/internal/dateutil"
	"github.com/alnah/go-ngsreport/internal/fileutil"
	"github.com/alnah/go-ngsreport/internal/hints"
)

// Sentinel errors for the generate command.
var (
	ErrNoInput            = errors.New("no input directory specified")
	ErrInputNotDir        = errors.New("input is not a directory")
	ErrOutputDirMissing   = errors.New("output directory does not exist")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// runGenerateCmd parses flags, runs the generate command, and maps the
// outcome to an exit code.
func runGenerateCmd(args []string, env *Environment) int {
	flags, positional, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runGenerate(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runGenerate orchestrates one run: configuration, discovery, conversion
// and result reporting.
func runGenerate(ctx context.Context, positionalArgs []string, flags *generateFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	// Resolve "auto" date once for the whole run
	cfg.Footer.Date, err = dateutil.ResolveDate(cfg.Footer.Date, env.Now())
	if err != nil {
		return err
	}

	inputDir, err := resolveInputDir(positionalArgs, cfg)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	if err := ensureOutputDir(outputDir, cfg.Output.CreateDir); err != nil {
		return err
	}

	if cfg.Header.Image != "" && !fileutil.FileExists(cfg.Header.Image) {
		return fmt.Errorf("%w: %s%s", ngsreport.ErrHeaderImageNotFound, cfg.Header.Image, hints.ForHeaderImage())
	}

	dirs, err := ListSampleDirs(inputDir, cfg.Input.Extension, logger)
	if err != nil {
		return fmt.Errorf("discovering images: %w", err)
	}

	jobs := planReports(dirs, outputDir, cfg, logger)
	if len(jobs) == 0 {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "No %s images found under %s, no report generated\n", cfg.Input.Extension, inputDir)
		}
		return nil
	}

	params := buildReportParams(flags, cfg)
	if err := validateReportParams(params); err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := ngsreport.ResolvePoolSize(workers)
	logger.Debug("starting reports", "reports", len(jobs), "workers", poolSize)

	pool := env.NewPool(poolSize, converterOptions(flags, cfg, timeout, logger)...)
	defer func() { _ = pool.Close() }()

	// Surface style and template errors once, before any report runs.
	conv := pool.Acquire()
	if conv == nil {
		return converterInitError(pool.InitError())
	}
	pool.Release(conv)

	results := generateBatch(ctx, pool, jobs, params)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env.Stdout, env.Stderr)
	if failed > 0 {
		first := firstFailure(results)
		return fmt.Errorf("%d of %d report(s) failed: %w%s", failed, len(results), first, hintFor(first))
	}

	return nil
}

// newLogger returns a text logger on w: Debug with verbose, Warn with quiet,
// Info otherwise.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the config named by the flag, else by NGSREPORT_CONFIG,
// else returns the defaults.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *generateFlags, cfg *config.Config) {
	if flags.input.extension != "" {
		cfg.Input.Extension = fileutil.NormalizeExtension(flags.input.extension)
	}
	if flags.input.notes != "" {
		cfg.Notes.Filename = flags.input.notes
	}
	if flags.input.noNotes {
		cfg.Notes.Disabled = true
	}

	if flags.outputMode.createDir {
		cfg.Output.CreateDir = true
	}
	if flags.titleFormat != "" {
		cfg.Report.TitleFormat = flags.titleFormat
	}

	// Header flags
	if flags.header.image != "" {
		cfg.Header.Image = flags.header.image
	}
	if flags.header.repeat {
		cfg.Header.Repeat = true
	}

	// Layout flags
	if flags.isSet("max-width") {
		cfg.Layout.MaxImageWidth = flags.layout.maxWidth
	}
	if flags.isSet("body-indent") {
		cfg.Layout.BodyIndent = flags.layout.bodyIndent
	}
	if flags.layout.noForceBreaks {
		cfg.Layout.ForceBreaks = false
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.isSet("margin") {
		cfg.Page.Margin = flags.page.margin
	}

	// Footer flags
	if flags.footer.position != "" {
		cfg.Footer.Position = flags.footer.position
	}
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
		cfg.Footer.Enabled = true
	}
	if flags.footer.date != "" {
		cfg.Footer.Date = flags.footer.date
		cfg.Footer.Enabled = true
	}
	if flags.footer.pageNumber {
		cfg.Footer.ShowPageNumber = true
		cfg.Footer.Enabled = true
	}
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}

	// Asset flags
	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// resolveTimeout picks the flag value, else the environment value.
// Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > ngsreport.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, ngsreport.MaxPoolSize)
	}
	return nil
}

// resolveInputDir determines the input root from args or config and checks
// that it is a directory.
func resolveInputDir(args []string, cfg *config.Config) (string, error) {
	dir := cfg.Input.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return "", fmt.Errorf("%w%s", ErrNoInput, hints.ForInputDirectory())
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInputNotDir, dir)
	}
	return dir, nil
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	if cfg.Output.Dir != "" {
		return cfg.Output.Dir
	}
	return "."
}

// ensureOutputDir checks that dir exists, creating it when create is set.
func ensureOutputDir(dir string, create bool) error {
	if fileutil.DirExists(dir) {
		return nil
	}
	if !create {
		return fmt.Errorf("%w: %s%s", ErrOutputDirMissing, dir, hints.ForOutputDirectory())
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// converterOptions builds the library options of every pooled converter.
func converterOptions(flags *generateFlags, cfg *config.Config, timeout time.Duration, logger *slog.Logger) []ngsreport.Option {
	opts := []ngsreport.Option{
		ngsreport.WithLogger(logger),
		ngsreport.WithAssetPath(cfg.Assets.BasePath),
	}
	if timeout > 0 {
		opts = append(opts, ngsreport.WithTimeout(timeout))
	}
	if flags.assets.noStyle {
		opts = append(opts, ngsreport.WithStyle(""))
	} else if cfg.Style != "" {
		opts = append(opts, ngsreport.WithStyle(cfg.Style))
	}
	if flags.assets.template != "" {
		opts = append(opts, ngsreport.WithTemplateSet(flags.assets.template))
	}
	return opts
}

// buildReportParams converts config, in inches, to the library's settings.
func buildReportParams(flags *generateFlags, cfg *config.Config) *reportParams {
	params := &reportParams{
		page:       buildPageSettings(cfg),
		layout:     buildLayout(cfg),
		footer:     buildFooter(cfg),
		htmlOnly:   flags.outputMode.htmlOnly,
		htmlOutput: flags.outputMode.html,
	}
	if cfg.Header.Image != "" {
		params.header = &ngsreport.Header{ImagePath: cfg.Header.Image, Repeat: cfg.Header.Repeat}
	}
	return params
}

// validateReportParams checks page, layout and footer once per run instead
// of failing every report.
func validateReportParams(p *reportParams) error {
	if err := p.page.Validate(); err != nil {
		return err
	}
	if err := p.layout.Validate(); err != nil {
		return err
	}
	return p.footer.Validate()
}

// buildPageSettings fills unset config fields with the defaults.
func buildPageSettings(cfg *config.Config) *ngsreport.PageSettings {
	page := ngsreport.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin > 0 {
		page.Margin = cfg.Page.Margin
	}
	return page
}

// buildLayout converts the inch-based layout config to points.
func buildLayout(cfg *config.Config) *ngsreport.Layout {
	layout := ngsreport.DefaultLayout()
	if cfg.Layout.MaxImageWidth > 0 {
		layout.MaxImageWidth = cfg.Layout.MaxImageWidth * ngsreport.PointsPerInch
	}
	layout.BodyIndent = cfg.Layout.BodyIndent * ngsreport.PointsPerInch
	layout.ForceBreaks = cfg.Layout.ForceBreaks
	return layout
}

// buildFooter returns nil when the footer is disabled.
func buildFooter(cfg *config.Config) *ngsreport.Footer {
	if !cfg.Footer.Enabled {
		return nil
	}
	return &ngsreport.Footer{
		Position:       cfg.Footer.Position,
		ShowPageNumber: cfg.Footer.ShowPageNumber,
		Date:           cfg.Footer.Date,
		Text:           cfg.Footer.Text,
	}
}

// converterInitError wraps a pool creation failure with a hint.
func converterInitError(cause error) error {
	if cause == nil {
		return ErrConverterInit
	}
	hint := ""
	if errors.Is(cause, ngsreport.ErrStyleNotFound) {
		hint = hints.ForStyleNotFound(assets.NewEmbeddedLoader().Styles())
	}
	return fmt.Errorf("%w: %w%s", ErrConverterInit, cause, hint)
}

// hintFor returns an actionable hint for a report failure.
func hintFor(err error) string {
	switch {
	case errors.Is(err, ngsreport.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ngsreport.ErrPageLoad):
		return hints.ForTimeout()
	}
	return ""
}
