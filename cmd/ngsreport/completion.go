package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma separated
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name     string
	Desc     string
	Flags    []flagDef
	TakesDir bool     // accepts an input directory argument
	Args     []string // fixed argument values (shells, command names)
}

// completionMeta holds completion hints the FlagSet cannot express.
// Flag names, types and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"page-size":       {Values: []string{"letter", "a4", "legal"}},
	"orientation":     {Values: []string{"portrait", "landscape"}},
	"footer-position": {Values: []string{"left", "center", "right"}},
	"ext":             {Values: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}},
	"footer-date":     {Values: []string{"auto", "auto:iso", "auto:european", "auto:us", "auto:long"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},
	"header": {FileGlob: "*.png,*.jpg,*.jpeg,*.gif,*.bmp,*.webp"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// shellNames lists the shells in the order they are offered.
var shellNames = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// commandNames lists every top-level command.
var commandNames = []string{"generate", "doctor", "completion", "version", "help"}

// buildGenerateFlagSet creates a FlagSet with all generate command flags.
func buildGenerateFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	registerGenerateFlags(fs, &generateFlags{})
	return fs
}

// buildDoctorFlagSet creates a FlagSet with all doctor command flags.
func buildDoctorFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	addDoctorFlags(fs, &doctorFlags{})
	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:     "generate",
			Desc:     "Build one PDF report per directory of pipeline images",
			Flags:    extractFlagsFromFlagSet(buildGenerateFlagSet()),
			TakesDir: true,
		},
		{
			Name:     "doctor",
			Desc:     "Check the system for report generation",
			Flags:    extractFlagsFromFlagSet(buildDoctorFlagSet()),
			TakesDir: true,
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: shellNames,
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: commandNames,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	commands := getCommands()
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(commands)
	case ShellZsh:
		script = zshScript(commands)
	case ShellFish:
		script = fishScript(commands)
	case ShellPowerShell:
		script = powerShellScript(commands)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ngsreport completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(ngsreport completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(ngsreport completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    ngsreport completion fish > ~/.config/fish/completions/ngsreport.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    ngsreport completion powershell | Out-String | Invoke-Expression")
}

// flagNames returns "-o" and "--output" style names for f, short first.
func flagNames(f flagDef) []string {
	if f.Short != "" {
		return []string{"-" + f.Short, "--" + f.Long}
	}
	return []string{"--" + f.Long}
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashScript(commands []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for ngsreport\n")
	b.WriteString("_ngsreport_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(commandNames, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, cmd := range commands {
		if len(cmd.Flags) == 0 && len(cmd.Args) == 0 && !cmd.TakesDir {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", cmd.Name)
		if len(cmd.Flags) > 0 {
			writeBashFlagValues(&b, cmd.Flags)
		}
		writeBashWords(&b, cmd)
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _ngsreport_completions ngsreport\n")
	return b.String()
}

// writeBashFlagValues completes the value of the flag in prev.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	var plain []string
	b.WriteString("            case \"${prev}\" in\n")
	for _, f := range flags {
		if !f.takesValue() {
			continue
		}
		pattern := strings.Join(flagNames(f), "|")
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(b, "                %s)\n", pattern)
			fmt.Fprintf(b, "                    COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(b, "                %s)\n", pattern)
			b.WriteString("                    COMPREPLY=($(compgen -d -- \"${cur}\"))\n")
			for _, ext := range globExtensions(f.FileGlob) {
				fmt.Fprintf(b, "                    COMPREPLY+=($(compgen -G \"${cur}*.%s\"))\n", ext)
			}
		case flagDir:
			fmt.Fprintf(b, "                %s)\n", pattern)
			b.WriteString("                    COMPREPLY=($(compgen -d -- \"${cur}\"))\n")
		default:
			plain = append(plain, pattern)
			continue
		}
		b.WriteString("                    return\n")
		b.WriteString("                    ;;\n")
	}
	if len(plain) > 0 {
		// Free-form values: offer nothing.
		fmt.Fprintf(b, "                %s)\n", strings.Join(plain, "|"))
		b.WriteString("                    return\n")
		b.WriteString("                    ;;\n")
	}
	b.WriteString("            esac\n")
}

// writeBashWords completes flag names, fixed arguments or directories.
func writeBashWords(b *strings.Builder, cmd commandDef) {
	var names []string
	for _, f := range cmd.Flags {
		names = append(names, flagNames(f)...)
	}

	var positional string
	switch {
	case len(cmd.Args) > 0:
		positional = fmt.Sprintf("COMPREPLY=($(compgen -W %q -- \"${cur}\"))", strings.Join(cmd.Args, " "))
	case cmd.TakesDir:
		positional = "COMPREPLY=($(compgen -d -- \"${cur}\"))"
	}

	if len(names) == 0 {
		fmt.Fprintf(b, "            %s\n", positional)
		return
	}
	b.WriteString("            if [[ \"${cur}\" == -* ]]; then\n")
	fmt.Fprintf(b, "                COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(names, " "))
	if positional != "" {
		b.WriteString("            else\n")
		fmt.Fprintf(b, "                %s\n", positional)
	}
	b.WriteString("            fi\n")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshEscape escapes a description for an _arguments spec in single quotes.
var zshEscape = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

func zshScript(commands []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef ngsreport\n\n")
	b.WriteString("_ngsreport() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", cmd.Name, zshEscape.Replace(cmd.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, cmd := range commands {
		if len(cmd.Flags) == 0 && len(cmd.Args) == 0 && !cmd.TakesDir {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", cmd.Name)
		b.WriteString("            _arguments -s")
		for _, f := range cmd.Flags {
			fmt.Fprintf(&b, " \\\n                %s", zshFlagSpec(f))
		}
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(&b, " \\\n                '1:argument:(%s)'", strings.Join(cmd.Args, " "))
		case cmd.TakesDir:
			b.WriteString(" \\\n                '1:input directory:_files -/'")
		}
		b.WriteString("\n            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_ngsreport \"$@\"\n")
	return b.String()
}

// zshFlagSpec renders one _arguments option spec.
func zshFlagSpec(f flagDef) string {
	desc := zshEscape.Replace(f.Desc)

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		exts := globExtensions(f.FileGlob)
		if len(exts) == 1 {
			action = fmt.Sprintf(":file:_files -g \"*.%s\"", exts[0])
		} else {
			action = fmt.Sprintf(":file:_files -g \"*.(%s)\"", strings.Join(exts, "|"))
		}
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value: "
	}

	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishEscape escapes a string for fish single quotes.
var fishEscape = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func fishScript(commands []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for ngsreport\n\n")
	b.WriteString("function __fish_ngsreport_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_ngsreport_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = \"$argv[1]\"\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c ngsreport -f\n\n")

	for _, cmd := range commands {
		fmt.Fprintf(&b, "complete -c ngsreport -n __fish_ngsreport_needs_command -a %s -d '%s'\n",
			cmd.Name, fishEscape.Replace(cmd.Desc))
	}

	for _, cmd := range commands {
		cond := fmt.Sprintf("-n '__fish_ngsreport_using_command %s'", cmd.Name)
		if len(cmd.Flags) > 0 || len(cmd.Args) > 0 || cmd.TakesDir {
			b.WriteString("\n")
		}
		for _, f := range cmd.Flags {
			b.WriteString("complete -c ngsreport " + cond)
			if f.Short != "" {
				b.WriteString(" -s " + f.Short)
			}
			b.WriteString(" -l " + f.Long)
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&b, " -r -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -r -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -r")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishEscape.Replace(f.Desc))
		}
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(&b, "complete -c ngsreport %s -a '%s'\n", cond, strings.Join(cmd.Args, " "))
		case cmd.TakesDir:
			fmt.Fprintf(&b, "complete -c ngsreport %s -a '(__fish_complete_directories)'\n", cond)
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

// psEscape escapes a string for PowerShell single quotes.
var psEscape = strings.NewReplacer(`'`, `''`)

// psList renders a PowerShell array literal of quoted strings.
func psList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "'" + psEscape.Replace(it) + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func powerShellScript(commands []commandDef) string {
	var b strings.Builder
	b.WriteString("# powershell completion for ngsreport\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName ngsreport -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", cmd.Name, psEscape.Replace(cmd.Desc))
	}
	b.WriteString("    }\n")

	b.WriteString("    $flags = @{\n")
	for _, cmd := range commands {
		if len(cmd.Flags) == 0 {
			continue
		}
		var names []string
		for _, f := range cmd.Flags {
			names = append(names, flagNames(f)...)
		}
		fmt.Fprintf(&b, "        '%s' = %s\n", cmd.Name, psList(names))
	}
	b.WriteString("    }\n")

	b.WriteString("    $values = @{\n")
	seen := map[string]bool{}
	for _, cmd := range commands {
		for _, f := range cmd.Flags {
			if f.Type != flagEnum {
				continue
			}
			for _, name := range flagNames(f) {
				if seen[name] {
					continue
				}
				seen[name] = true
				fmt.Fprintf(&b, "        '%s' = %s\n", name, psList(f.Values))
			}
		}
	}
	b.WriteString("    }\n")

	b.WriteString("    $arguments = @{\n")
	for _, cmd := range commands {
		if len(cmd.Args) > 0 {
			fmt.Fprintf(&b, "        '%s' = %s\n", cmd.Name, psList(cmd.Args))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString(`    $words = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })
    if ($wordToComplete -ne '') { $words = $words[0..($words.Count - 2)] }

    if ($words.Count -le 1) {
        $commands.GetEnumerator() | Where-Object { $_.Key -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)
        }
        return
    }

    $cmd = $words[1]
    $prev = $words[-1]
    if ($values.ContainsKey($prev)) {
        $values[$prev] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    if ($wordToComplete -notlike '-*' -and $arguments.ContainsKey($cmd)) {
        $arguments[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    if ($flags.ContainsKey($cmd)) {
        $flags[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)
        }
    }
}
`)
	return b.String()
}
