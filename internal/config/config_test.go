package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/data/seaflow", "/data/seaflow"},
		{"single trailing slash", "/data/seaflow/", "/data/seaflow"},
		{"multiple trailing slashes", "/data/seaflow///", "/data/seaflow"},
		{"root path", "/", "/"},
		{"relative path", "cruises", "cruises"},
		{"relative with slash", "cruises/", "cruises"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig_LegacyParity(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Extractor != ExtractorDitto {
		t.Errorf("Extractor = %q, want ditto", cfg.Extractor)
	}
	if cfg.Compressor != CompressorPigz {
		t.Errorf("Compressor = %q, want pigz", cfg.Compressor)
	}
	if cfg.DataPattern != "*0?-00" {
		t.Errorf("DataPattern = %q, want *0?-00", cfg.DataPattern)
	}
	if diff := cmp.Diff([]string{"__MACOSX", ".DS_Store"}, cfg.Denylist); diff != "" {
		t.Errorf("Denylist mismatch (-want +got):\n%s", diff)
	}
	if cfg.ArchiveExt != ".zip" || cfg.CommentPrefix != "#" || cfg.BaseDir != "." {
		t.Errorf("unexpected defaults: ext=%q comment=%q dir=%q", cfg.ArchiveExt, cfg.CommentPrefix, cfg.BaseDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with cruise file", func(c *Config) {}, false},
		{"missing cruise file", func(c *Config) { c.CruiseFile = "" }, true},
		{"missing cruise file in check mode", func(c *Config) { c.CruiseFile = ""; c.CheckOnly = true }, false},
		{"unzip extractor", func(c *Config) { c.Extractor = ExtractorUnzip }, false},
		{"builtin extractor", func(c *Config) { c.Extractor = ExtractorBuiltin }, false},
		{"unknown extractor", func(c *Config) { c.Extractor = "7z" }, true},
		{"builtin compressor", func(c *Config) { c.Compressor = CompressorBuiltin }, false},
		{"unknown compressor", func(c *Config) { c.Compressor = "zstd" }, true},
		{"empty compressor", func(c *Config) { c.Compressor = "" }, true},
		{"bad color mode", func(c *Config) { c.ColorMode = "sometimes" }, true},
		{"negative threads", func(c *Config) { c.Threads = -1 }, true},
		{"empty pattern", func(c *Config) { c.DataPattern = "" }, true},
		{"malformed pattern", func(c *Config) { c.DataPattern = "[0-" }, true},
		{"archive ext without dot", func(c *Config) { c.ArchiveExt = "zip" }, true},
		{"archive ext with glob", func(c *Config) { c.ArchiveExt = ".z*" }, true},
		{"empty comment prefix", func(c *Config) { c.CommentPrefix = "" }, true},
		{"denylist with path", func(c *Config) { c.Denylist = []string{"a/b"} }, true},
		{"denylist with dotdot", func(c *Config) { c.Denylist = []string{".."} }, true},
		{"extended denylist", func(c *Config) { c.Denylist = append(c.Denylist, "Thumbs.db") }, false},
		{"empty base dir", func(c *Config) { c.BaseDir = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CruiseFile = "cruises.txt"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ErrorsCarryStack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CruiseFile = "cruises.txt"
	cfg.Threads = -2
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted negative threads")
	}
	if err.Error() != "threads must not be negative (got -2)" {
		t.Errorf("message = %q", err.Error())
	}
	if trace := fmt.Sprintf("%+v", err); !strings.Contains(trace, "Validate") {
		t.Errorf("error has no stack trace:\n%s", trace)
	}

	cfg = DefaultConfig()
	if _, err := parseArgs(&cfg, []string{"--extractor", "tar", "a.txt"}, io.Discard); err == nil {
		t.Fatal("parseArgs accepted an unknown extractor")
	} else if !strings.Contains(err.Error(), `invalid extractor "tar"`) {
		t.Errorf("message = %q", err.Error())
	}
}

func TestToolBinaries(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ExtractorBinary(); got != "ditto" {
		t.Errorf("ExtractorBinary() = %q, want ditto", got)
	}
	if got := cfg.CompressorBinary(); got != "pigz" {
		t.Errorf("CompressorBinary() = %q, want pigz", got)
	}

	cfg.Extractor = ExtractorUnzip
	if got := cfg.ExtractorBinary(); got != "unzip" {
		t.Errorf("ExtractorBinary() = %q, want unzip", got)
	}
	cfg.ExtractorBin = "/opt/bin/unzip"
	if got := cfg.ExtractorBinary(); got != "/opt/bin/unzip" {
		t.Errorf("ExtractorBinary() = %q, want override", got)
	}

	cfg.Extractor = ExtractorBuiltin
	cfg.Compressor = CompressorBuiltin
	cfg.CompressorBin = "/usr/bin/pigz"
	if cfg.ExtractorBinary() != "" || cfg.CompressorBinary() != "" {
		t.Errorf("builtin backends should not name a binary: %q %q", cfg.ExtractorBinary(), cfg.CompressorBinary())
	}
}

func TestParseArgs(t *testing.T) {
	cfg := DefaultConfig()
	n, err := parseArgs(&cfg, []string{
		"-C", "/data/cruises/", "--extractor", "UNZIP", "--compressor", "builtin",
		"-j", "8", "--pattern", "*-00", "-d", "-v", "--no-color", "list.txt",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if n.showHelp || n.showVersion {
		t.Fatalf("unexpected help/version: %+v", n)
	}

	want := DefaultConfig()
	want.CruiseFile = "list.txt"
	want.BaseDir = "/data/cruises"
	want.Extractor = ExtractorUnzip
	want.Compressor = CompressorBuiltin
	want.Threads = 8
	want.DataPattern = "*-00"
	want.DryRun = true
	want.Verbose = true
	want.ColorMode = ColorNever
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no positional", []string{}},
		{"two positionals", []string{"a.txt", "b.txt"}},
		{"bad extractor", []string{"--extractor", "tar", "a.txt"}},
		{"bad compressor", []string{"--compressor", "xz", "a.txt"}},
		{"unknown flag", []string{"--frobnicate", "a.txt"}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "a.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if _, err := parseArgs(&cfg, tt.args, io.Discard); err == nil {
				t.Errorf("parseArgs(%v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestParseArgs_CheckNeedsNoList(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := parseArgs(&cfg, []string{"--check"}, io.Discard); err != nil {
		t.Fatalf("parseArgs(--check): %v", err)
	}
	if !cfg.CheckOnly {
		t.Error("CheckOnly not set")
	}
}

func TestParseArgs_ConfigFilePrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cruiseprep.yaml")
	content := `dir: /srv/seaflow
extractor: unzip
compressor: builtin
threads: 4
pattern: "*-00"
denylist:
  - __MACOSX
  - .DS_Store
  - Thumbs.db
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	_, err := parseArgs(&cfg, []string{"--config", file, "--threads", "16", "--extractor", "builtin", "list.txt"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}

	if cfg.BaseDir != "/srv/seaflow" {
		t.Errorf("BaseDir = %q, want value from file", cfg.BaseDir)
	}
	if cfg.Compressor != CompressorBuiltin {
		t.Errorf("Compressor = %q, want value from file", cfg.Compressor)
	}
	if cfg.DataPattern != "*-00" {
		t.Errorf("DataPattern = %q, want value from file", cfg.DataPattern)
	}
	if cfg.Threads != 16 {
		t.Errorf("Threads = %d, want flag value 16", cfg.Threads)
	}
	if cfg.Extractor != ExtractorBuiltin {
		t.Errorf("Extractor = %q, want flag value builtin", cfg.Extractor)
	}
	if diff := cmp.Diff([]string{"__MACOSX", ".DS_Store", "Thumbs.db"}, cfg.Denylist); diff != "" {
		t.Errorf("Denylist mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(file, []byte("bucket: routeviews\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, file, nil); err == nil {
		t.Error("LoadFile accepted an unknown key")
	}
}

func TestLoadFile_BadEnum(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(file, []byte("compressor: lzma\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, file, nil); err == nil {
		t.Error("LoadFile accepted an invalid compressor")
	}
}
