// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation (CheckDeps) for the extraction and compression tools.
package check

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/seaflow/cruiseprep/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrExtractorNotFound  = errors.New("extractor not found on PATH")
	ErrCompressorNotFound = errors.New("compressor not found on PATH")
)

// versionTimeout bounds the informational version probes in --check mode.
const versionTimeout = 5 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// versionArgs lists the flag each known tool prints its version with.
// ditto has none; it is identified by path only.
var versionArgs = map[string][]string{
	"unzip": {"-v"},
	"pigz":  {"--version"},
}

// RunCheck logs where each selected tool lives and its version. It returns
// false when a selected external tool is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	ok := true

	log.Info("Extractor: %s", cfg.Extractor)
	if bin := cfg.ExtractorBinary(); bin != "" {
		ok = checkTool(log, bin) && ok
	} else {
		log.Success("builtin zip reader available")
	}

	log.Info("Compressor: %s", cfg.Compressor)
	if bin := cfg.CompressorBinary(); bin != "" {
		ok = checkTool(log, bin) && ok
	} else {
		log.Success("builtin gzip writer available")
	}

	log.Info("Data file pattern: %s", cfg.DataPattern)
	log.Info("Metadata denylist: %s", strings.Join(cfg.Denylist, ", "))
	return ok
}

// CheckDeps verifies that every external tool the selected backends need is
// on PATH. Builtin backends need nothing.
func CheckDeps(cfg *config.Config) error {
	if bin := cfg.ExtractorBinary(); bin != "" {
		if _, err := exec.LookPath(bin); err != nil {
			return errors.Wrapf(ErrExtractorNotFound, "%s", bin)
		}
	}
	if bin := cfg.CompressorBinary(); bin != "" {
		if _, err := exec.LookPath(bin); err != nil {
			return errors.Wrapf(ErrCompressorNotFound, "%s", bin)
		}
	}
	return nil
}

// checkTool resolves bin on PATH and logs its first version line.
func checkTool(log Logger, bin string) bool {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error("%s not found", bin)
		return false
	}
	log.Success("%s: %s", bin, path)

	args, known := versionArgs[toolName(bin)]
	if !known {
		return true
	}
	line, err := firstLine(path, args...)
	if err != nil {
		log.Warn("%s found but version query failed: %v", bin, err)
		return true
	}
	log.Info("  %s", line)
	return true
}

// firstLine runs name with args and returns the first non-empty line of its
// combined output. pigz prints its version on stderr.
func firstLine(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return "", err
	}
	for _, l := range strings.Split(string(out), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l, nil
		}
	}
	return "", errors.New("no output")
}

func toolName(bin string) string {
	if i := strings.LastIndexAny(bin, `/\`); i >= 0 {
		bin = bin[i+1:]
	}
	return strings.TrimSuffix(bin, ".exe")
}
