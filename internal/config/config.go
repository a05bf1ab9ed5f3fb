// Package config holds runtime configuration: defaults, CLI flag parsing, an
// optional YAML config file, and validation. Defaults reproduce the legacy
// extract-compress script (ditto, pigz, "*0?-00", __MACOSX/.DS_Store).
package config

import (
	"path"
	"strings"

	"github.com/pkg/errors"
)

// --- Enum types for validated string fields ---

// ExtractorMode selects the archive extraction backend.
type ExtractorMode string

const (
	ExtractorDitto   ExtractorMode = "ditto"   // macOS ditto -xk (default).
	ExtractorUnzip   ExtractorMode = "unzip"   // Info-ZIP unzip, for Linux hosts.
	ExtractorBuiltin ExtractorMode = "builtin" // In-process zip reader.
)

// CompressorMode selects the data-file compression backend.
type CompressorMode string

const (
	CompressorPigz    CompressorMode = "pigz"    // Parallel gzip (default).
	CompressorBuiltin CompressorMode = "builtin" // In-process gzip writer.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultDataPattern matches SeaFlow EVT files such as
// "2014-07-04T00-00-00+00-00" by their "+00-00" UTC offset suffix.
const DefaultDataPattern = "*0?-00"

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [ParseFlags] (and an optional config file), and is passed by
// pointer to the packages that need it.
type Config struct {
	// Paths.
	CruiseFile string // Positional argument: list of cruise names.
	BaseDir    string // Default: ".". Directory holding one folder per cruise.
	ConfigFile string // Optional YAML file (--config).

	// Cruise list.
	CommentPrefix string // Default: "#".

	// Archive handling.
	ArchiveExt   string        // Default: ".zip".
	Extractor    ExtractorMode // Default: "ditto".
	ExtractorBin string        // Default: derived from Extractor.

	// Metadata cleanup.
	Denylist []string // Default: __MACOSX, .DS_Store.

	// Compression.
	Compressor    CompressorMode // Default: "pigz".
	CompressorBin string         // Default: "pigz".
	Threads       int            // pigz -p; 0 leaves the pigz default.
	DataPattern   string         // Default: "*0?-00".

	// Behavior and display.
	DryRun    bool
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config matching the legacy script's behavior.
func DefaultConfig() Config {
	return Config{
		BaseDir:       ".",
		CommentPrefix: "#",
		ArchiveExt:    ".zip",
		Extractor:     ExtractorDitto,
		Denylist:      []string{"__MACOSX", ".DS_Store"},
		Compressor:    CompressorPigz,
		DataPattern:   DefaultDataPattern,
		ColorMode:     ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(p string) string {
	if p == "/" {
		return "/"
	}
	return strings.TrimRight(p, "/")
}

// ExtractorBinary returns the executable used by the selected extractor,
// or "" for the builtin backend.
func (c *Config) ExtractorBinary() string {
	if c.Extractor == ExtractorBuiltin {
		return ""
	}
	if c.ExtractorBin != "" {
		return c.ExtractorBin
	}
	return string(c.Extractor)
}

// CompressorBinary returns the executable used by the selected compressor,
// or "" for the builtin backend.
func (c *Config) CompressorBinary() string {
	if c.Compressor == CompressorBuiltin {
		return ""
	}
	if c.CompressorBin != "" {
		return c.CompressorBin
	}
	return string(c.Compressor)
}

// Validate checks enum fields and value ranges. When not in CheckOnly mode
// it also requires the cruise list path.
func (c *Config) Validate() error {
	switch c.Extractor {
	case ExtractorDitto, ExtractorUnzip, ExtractorBuiltin:
	default:
		return errors.New("invalid extractor (use 'ditto', 'unzip' or 'builtin')")
	}

	switch c.Compressor {
	case CompressorPigz, CompressorBuiltin:
	default:
		return errors.New("invalid compressor (use 'pigz' or 'builtin')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Threads < 0 {
		return errors.Errorf("threads must not be negative (got %d)", c.Threads)
	}
	if c.DataPattern == "" {
		return errors.New("data file pattern must not be empty")
	}
	if _, err := path.Match(c.DataPattern, ""); err != nil {
		return errors.Errorf("invalid data file pattern %q: %v", c.DataPattern, err)
	}
	if !strings.HasPrefix(c.ArchiveExt, ".") || len(c.ArchiveExt) < 2 || strings.ContainsAny(c.ArchiveExt, `/\*?[`) {
		return errors.Errorf("invalid archive extension %q (use e.g. '.zip')", c.ArchiveExt)
	}
	if c.CommentPrefix == "" {
		return errors.New("comment prefix must not be empty")
	}
	for _, name := range c.Denylist {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return errors.Errorf("invalid denylist entry %q (use a plain file or directory name)", name)
		}
	}
	if c.BaseDir == "" {
		return errors.New("base directory must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.CruiseFile == "" {
		return errors.New("need exactly one cruise_list argument")
	}
	return nil
}
