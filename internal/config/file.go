package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// fileConfig is the on-disk YAML shape. Pointer fields distinguish "absent"
// from zero values so only keys present in the file are applied.
type fileConfig struct {
	Dir           *string  `yaml:"dir"`
	Extractor     *string  `yaml:"extractor"`
	ExtractorBin  *string  `yaml:"extractor_bin"`
	Compressor    *string  `yaml:"compressor"`
	CompressorBin *string  `yaml:"compressor_bin"`
	Threads       *int     `yaml:"threads"`
	Pattern       *string  `yaml:"pattern"`
	ArchiveExt    *string  `yaml:"archive_ext"`
	CommentPrefix *string  `yaml:"comment_prefix"`
	Denylist      []string `yaml:"denylist"`
	LogFile       *string  `yaml:"log_file"`
}

// fileKeyFlags maps each YAML key to the CLI flags that override it.
var fileKeyFlags = map[string][]string{
	"dir":            {"dir", "C"},
	"extractor":      {"extractor"},
	"extractor_bin":  {"extractor-bin"},
	"compressor":     {"compressor"},
	"compressor_bin": {"compressor-bin"},
	"threads":        {"threads", "j"},
	"pattern":        {"pattern"},
	"log_file":       {"log", "l"},
}

// LoadFile reads a YAML config file and applies its values to cfg. Keys
// whose flag appears in setFlags are skipped so the command line wins.
// Unknown keys are rejected.
func LoadFile(cfg *Config, filename string, setFlags map[string]bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	var fc fileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return errors.Wrapf(err, "parse config file %s", filename)
	}

	overridden := func(key string) bool {
		for _, f := range fileKeyFlags[key] {
			if setFlags[f] {
				return true
			}
		}
		return false
	}

	if fc.Dir != nil && !overridden("dir") {
		cfg.BaseDir = NormalizeDirArg(*fc.Dir)
	}
	if fc.Extractor != nil && !overridden("extractor") {
		if err := (&extractorValue{&cfg.Extractor}).Set(*fc.Extractor); err != nil {
			return errors.Wrap(err, filename)
		}
	}
	if fc.ExtractorBin != nil && !overridden("extractor_bin") {
		cfg.ExtractorBin = *fc.ExtractorBin
	}
	if fc.Compressor != nil && !overridden("compressor") {
		if err := (&compressorValue{&cfg.Compressor}).Set(*fc.Compressor); err != nil {
			return errors.Wrap(err, filename)
		}
	}
	if fc.CompressorBin != nil && !overridden("compressor_bin") {
		cfg.CompressorBin = *fc.CompressorBin
	}
	if fc.Threads != nil && !overridden("threads") {
		cfg.Threads = *fc.Threads
	}
	if fc.Pattern != nil && !overridden("pattern") {
		cfg.DataPattern = *fc.Pattern
	}
	if fc.ArchiveExt != nil {
		cfg.ArchiveExt = *fc.ArchiveExt
	}
	if fc.CommentPrefix != nil {
		cfg.CommentPrefix = *fc.CommentPrefix
	}
	if fc.Denylist != nil {
		cfg.Denylist = append([]string(nil), fc.Denylist...)
	}
	if fc.LogFile != nil && !overridden("log_file") {
		cfg.LogFile = *fc.LogFile
	}
	return nil
}
