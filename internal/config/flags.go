package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into paths, tools, behavior, display, and utility.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, missing positional arg).
func ParseFlags(cfg *Config, version string) error {
	n, err := parseArgs(cfg, os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}
	if n.showHelp {
		printUsage(os.Stderr, version)
		os.Exit(0)
	}
	if n.showVersion {
		fmt.Fprintln(os.Stdout, "cruiseprep v"+version)
		os.Exit(0)
	}
	return nil
}

// parseArgs does the work of ParseFlags without exiting, so tests can drive it.
func parseArgs(cfg *Config, args []string, usageOut io.Writer) (*negatedFlags, error) {
	fs := flag.NewFlagSet("cruiseprep", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	fs.Usage = func() {}

	var negated negatedFlags

	definePathFlags(fs, cfg)
	defineToolFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	applyNegatedFlags(cfg, &negated)
	if negated.showHelp || negated.showVersion {
		return &negated, nil
	}

	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if cfg.ConfigFile != "" {
		if err := LoadFile(cfg, cfg.ConfigFile, setFlags); err != nil {
			return nil, err
		}
	}

	if err := parsePositionalArgs(fs, cfg); err != nil {
		return nil, err
	}
	return &negated, nil
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// definePathFlags registers -C/--dir and --config.
func definePathFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&dirValue{&cfg.BaseDir}, "dir", "Directory holding the cruise folders")
	fs.Var(&dirValue{&cfg.BaseDir}, "C", "Same as --dir")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Optional YAML config file")
}

// defineToolFlags registers extractor and compressor selection.
func defineToolFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&extractorValue{&cfg.Extractor}, "extractor", "Archive extractor: ditto | unzip | builtin")
	fs.StringVar(&cfg.ExtractorBin, "extractor-bin", "", "Path to the extractor executable")
	fs.Var(&compressorValue{&cfg.Compressor}, "compressor", "Compressor: pigz | builtin")
	fs.StringVar(&cfg.CompressorBin, "compressor-bin", "", "Path to the compressor executable")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "pigz threads (0 = pigz default)")
	fs.IntVar(&cfg.Threads, "j", cfg.Threads, "Same as --threads")
	fs.StringVar(&cfg.DataPattern, "pattern", cfg.DataPattern, "Glob for data files inside each day folder")
}

// defineBehaviorFlags registers --dry-run.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not modify anything")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Check external tools and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets CruiseFile from the single positional arg when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return errors.Errorf("need exactly one cruise_list argument (got %d)", len(args))
	}
	cfg.CruiseFile = args[0]
	return nil
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 32
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "cruiseprep v" + version + " - unzip, clean and gzip SeaFlow cruise data"},
		{"", ""},
		{"  cruiseprep [OPTIONS] <cruise_list>", ""},
		{"", ""},
		{"Paths", ""},
		{"  -C, --dir <path>", "Directory holding the cruise folders (default: .)"},
		{"  --config <file>", "Optional YAML config file"},
		{"", ""},
		{"Tools", ""},
		{"  --extractor <ditto|unzip|builtin>", "Archive extractor (default: ditto)"},
		{"  --extractor-bin <path>", "Extractor executable"},
		{"  --compressor <pigz|builtin>", "Compressor (default: pigz)"},
		{"  --compressor-bin <path>", "Compressor executable"},
		{"  -j, --threads <n>", "pigz threads (default: pigz decides)"},
		{"  --pattern <glob>", "Data files to compress (default: " + DefaultDataPattern + ")"},
		{"", ""},
		{"Behavior & display", ""},
		{"  -d, --dry-run", "Preview only; do not modify anything"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (tool stderr is shown live)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "Check external tools and exit"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum types with flag.Var.

type extractorValue struct{ p *ExtractorMode }

func (e *extractorValue) String() string {
	if e.p == nil {
		return ""
	}
	return string(*e.p)
}
func (e *extractorValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "ditto":
		*e.p = ExtractorDitto
	case "unzip":
		*e.p = ExtractorUnzip
	case "builtin":
		*e.p = ExtractorBuiltin
	default:
		return errors.Errorf("invalid extractor %q (use 'ditto', 'unzip' or 'builtin')", s)
	}
	return nil
}

type compressorValue struct{ p *CompressorMode }

func (c *compressorValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}
func (c *compressorValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "pigz":
		*c.p = CompressorPigz
	case "builtin":
		*c.p = CompressorBuiltin
	default:
		return errors.Errorf("invalid compressor %q (use 'pigz' or 'builtin')", s)
	}
	return nil
}

type dirValue struct{ p *string }

func (d *dirValue) String() string {
	if d.p == nil {
		return ""
	}
	return *d.p
}
func (d *dirValue) Set(s string) error {
	if s == "" {
		return errors.New("directory must not be empty")
	}
	*d.p = NormalizeDirArg(s)
	return nil
}
