package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ngsreport <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Build one PDF report per directory of pipeline images")
	fmt.Fprintln(w, "  doctor     Check the system for report generation")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ngsreport help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ngsreport generate [input-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Walk input-dir and write <dir>_report.pdf for every directory whose")
	fmt.Fprintln(w, "subtree holds at least one image. Images are sorted by path and captioned")
	fmt.Fprintln(w, "with their file name; unreadable images are logged and skipped.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input-dir    Pipeline output root (optional if config has input.dir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>         Output directory (default: current directory)")
	fmt.Fprintln(w, "      --create-output-dir    Create the output directory if missing")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel reports (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>          PDF timeout per report (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --ext <ext>            Image extension (default: .png)")
	fmt.Fprintln(w, "      --notes <name>         Notes Markdown file per directory (default: notes.md)")
	fmt.Fprintln(w, "      --no-notes             Ignore notes files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report:")
	fmt.Fprintln(w, "      --title-format <s>     Title, {sample} = directory name")
	fmt.Fprintln(w, "      --header <path>        Header band image")
	fmt.Fprintln(w, "      --repeat-header        Draw the header on every page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Layout:")
	fmt.Fprintln(w, "      --max-width <in>       Max image width in inches (default: 6)")
	fmt.Fprintln(w, "      --body-indent <in>     Body indent in inches (default: 0.5)")
	fmt.Fprintln(w, "      --no-force-breaks      Disable the page break after tall images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>        Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>      Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <in>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-position <s>  Position: left, center, right")
	fmt.Fprintln(w, "      --footer-text <s>      Custom footer text")
	fmt.Fprintln(w, "      --footer-date <s>      Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                             Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm")
	fmt.Fprintln(w, "                             Presets: iso, stamp, european, us, long")
	fmt.Fprintln(w, "      --footer-page-number   Show page numbers")
	fmt.Fprintln(w, "      --no-footer            Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>            Style name (default, compact) or CSS file")
	fmt.Fprintln(w, "      --template <name>      Template set name")
	fmt.Fprintln(w, "      --asset-path <dir>     Custom styles and templates directory")
	fmt.Fprintln(w, "      --no-style             Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Debug:")
	fmt.Fprintln(w, "      --html                 Write HTML alongside each PDF")
	fmt.Fprintln(w, "      --html-only            Write HTML only, skip PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NGSREPORT_CONFIG, NGSREPORT_INPUT_DIR, NGSREPORT_OUTPUT_DIR,")
	fmt.Fprintln(w, "  NGSREPORT_HEADER_IMAGE, NGSREPORT_EXTENSION, NGSREPORT_PAGE_SIZE,")
	fmt.Fprintln(w, "  NGSREPORT_TIMEOUT, NGSREPORT_WORKERS")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ngsreport doctor [input-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, sandbox settings, embedded templates and the temp directory.")
	fmt.Fprintln(w, "With a config, input-dir or NGSREPORT_* variables, also check the run:")
	fmt.Fprintln(w, "images under the input root, the header image and the output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -o, --output <dir>         Output directory")
	fmt.Fprintln(w, "      --json                 Print results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: ngsreport version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: ngsreport help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
