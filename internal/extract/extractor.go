// Package extract unpacks day-of-year archives into their cruise directory.
//
// Three backends share one interface: ditto (the macOS tool the cruise
// archives were made with; the default), Info-ZIP unzip, and an in-process
// reader. Each extracts the archive's full contents into dir, preserving the
// directory structure recorded in the archive.
package extract

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/seaflow/cruiseprep/internal/config"
	"github.com/seaflow/cruiseprep/internal/toolexec"
)

// Extractor unpacks archive (a file name inside dir) into dir.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, dir, archive string) error
}

// New returns the extractor selected by cfg.Extractor.
func New(cfg *config.Config) (Extractor, error) {
	switch cfg.Extractor {
	case config.ExtractorDitto:
		return &ToolExtractor{Bin: cfg.ExtractorBinary(), Args: DittoArgs, Tee: cfg.Verbose}, nil
	case config.ExtractorUnzip:
		return &ToolExtractor{Bin: cfg.ExtractorBinary(), Args: UnzipArgs, Tee: cfg.Verbose}, nil
	case config.ExtractorBuiltin:
		return &Builtin{}, nil
	}
	return nil, errors.Errorf("unknown extractor %q", cfg.Extractor)
}

// ToolExtractor runs an external extraction tool inside the cruise directory.
type ToolExtractor struct {
	Bin  string
	Args func(archive string) []string
	Tee  bool
}

// Name returns the executable's base name.
func (e *ToolExtractor) Name() string { return filepath.Base(e.Bin) }

// Extract runs the tool with dir as its working directory.
func (e *ToolExtractor) Extract(ctx context.Context, dir, archive string) error {
	res := toolexec.Run(ctx, toolexec.Command{
		Dir:  dir,
		Name: e.Bin,
		Args: e.Args(archive),
		Tee:  e.Tee,
	})
	return res.AsError()
}

// DittoArgs extracts a PKZip archive, keeping resource forks and extended
// attributes, into the working directory.
func DittoArgs(archive string) []string {
	return []string{"-xk", localPath(archive), "."}
}

// UnzipArgs extracts quietly, overwriting existing files as ditto does.
func UnzipArgs(archive string) []string {
	return []string{"-o", "-q", localPath(archive), "-d", "."}
}

// localPath prefixes name with "./" so a leading '-' is never read as an option.
func localPath(name string) string {
	return "." + string(filepath.Separator) + name
}
