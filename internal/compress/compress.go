// Package compress gzips extracted EVT files in place. Every input f becomes
// f.gz and the original is removed, whichever backend runs.
package compress

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/seaflow/cruiseprep/internal/config"
	"github.com/seaflow/cruiseprep/internal/toolexec"
)

// Compressor gzips files, given relative to dir.
type Compressor interface {
	Name() string
	Compress(ctx context.Context, dir string, files []string) error
}

// New returns the compressor selected by cfg.Compressor.
func New(cfg *config.Config) (Compressor, error) {
	switch cfg.Compressor {
	case config.CompressorPigz:
		return &Pigz{Bin: cfg.CompressorBinary(), Threads: cfg.Threads, Tee: cfg.Verbose}, nil
	case config.CompressorBuiltin:
		return &Builtin{}, nil
	}
	return nil, errors.Errorf("unknown compressor %q", cfg.Compressor)
}

// MatchDataFiles returns the names of regular files directly inside dir that
// match pattern (path.Match syntax), sorted. Hidden names never match, as in
// a shell glob.
func MatchDataFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ok, err := path.Match(pattern, e.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %q", pattern)
		}
		if ok && e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Pigz compresses with the pigz executable in a single invocation.
type Pigz struct {
	Bin     string
	Threads int // -p; 0 keeps the pigz default (one per core).
	Tee     bool
}

// Name returns the executable's base name.
func (p *Pigz) Name() string { return filepath.Base(p.Bin) }

// Args returns the argument vector for files. "--" ends option parsing so a
// file name can never be read as a flag.
func (p *Pigz) Args(files []string) []string {
	args := make([]string, 0, len(files)+3)
	if p.Threads > 0 {
		args = append(args, "-p", strconv.Itoa(p.Threads))
	}
	args = append(args, "--")
	return append(args, files...)
}

// Compress runs pigz with dir as its working directory.
func (p *Pigz) Compress(ctx context.Context, dir string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	res := toolexec.Run(ctx, toolexec.Command{
		Dir:  dir,
		Name: p.Bin,
		Args: p.Args(files),
		Tee:  p.Tee,
	})
	return res.AsError()
}
