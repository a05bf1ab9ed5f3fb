package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/seaflow/cruiseprep/internal/cleanup"
	"github.com/seaflow/cruiseprep/internal/compress"
	"github.com/seaflow/cruiseprep/internal/config"
	"github.com/seaflow/cruiseprep/internal/display"
	"github.com/seaflow/cruiseprep/internal/extract"
	"github.com/seaflow/cruiseprep/internal/logging"
)

// Sentinel errors for directory-state failures and cancellation.
var (
	ErrNotDirectory      = errors.New("not a directory")
	ErrMissingExtractDir = errors.New("archive did not produce its day directory")
	ErrInterrupted       = errors.New("interrupted")
)

// runner carries the per-batch state shared by every collection.
type runner struct {
	cfg        *config.Config
	log        *logging.Logger
	extractor  extract.Extractor
	compressor compress.Compressor
	stats      RunStats
}

// Run processes each collection in names, in order, under cfg.BaseDir. It
// returns at the first error; the stats then cover only the work done so far
// and no summary is logged.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, names []string) (RunStats, error) {
	ex, err := extract.New(cfg)
	if err != nil {
		return RunStats{}, err
	}
	comp, err := compress.New(cfg)
	if err != nil {
		return RunStats{}, err
	}
	r := &runner{cfg: cfg, log: log, extractor: ex, compressor: comp}

	logBatchHeader(cfg, log, ex, comp, len(names))
	start := time.Now()

	for _, name := range names {
		if ctx.Err() != nil {
			return r.stats, errors.Wrapf(ErrInterrupted, "before %s", name)
		}
		if err := r.collection(ctx, name); err != nil {
			if ctx.Err() != nil {
				return r.stats, errors.Wrapf(ErrInterrupted, "%s: %v", name, err)
			}
			return r.stats, err
		}
		r.stats.Collections++
	}

	logSummary(cfg, log, &r.stats, time.Since(start))
	return r.stats, nil
}

// collection creates, enters and processes one cruise directory.
func (r *runner) collection(ctx context.Context, name string) error {
	dir := filepath.Join(r.cfg.BaseDir, name)

	if r.cfg.DryRun {
		return r.dryRunCollection(name, dir)
	}

	if err := os.Mkdir(dir, 0o755); err != nil && !os.IsExist(err) {
		return errors.Wrapf(err, "create %s", dir)
	}
	if err := enter(dir); err != nil {
		return err
	}
	r.log.Info("Entering %s", name)

	archives, err := DiscoverArchives(dir, r.cfg.ArchiveExt)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		r.log.Info("No %s archives in %s", r.cfg.ArchiveExt, name)
	}

	clog := r.log.WithField("cruise", name)
	for _, z := range archives {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.archive(ctx, clog, dir, z); err != nil {
			return errors.Wrapf(err, "%s/%s", name, z)
		}
		r.stats.Archives++
	}

	r.log.Info("Leaving %s", name)
	return nil
}

// archive extracts z inside dir, deletes it, cleans metadata artifacts and
// compresses the data files of its day directory.
func (r *runner) archive(ctx context.Context, log *logging.Logger, dir, z string) error {
	log.Info("Extracting %s", z)
	if err := r.extractor.Extract(ctx, dir, z); err != nil {
		return errors.Wrap(err, "extract")
	}

	log.Info("Removing %s", z)
	if err := os.Remove(filepath.Join(dir, z)); err != nil {
		return errors.Wrap(err, "remove archive")
	}

	removed, err := cleanup.Remove(dir, r.cfg.Denylist, log)
	r.stats.ArtifactsRemoved += len(removed)
	if err != nil {
		return err
	}

	day := strings.TrimSuffix(z, r.cfg.ArchiveExt)
	return r.compressDay(ctx, log, dir, day)
}

// compressDay compresses the files of dir/day matching the data pattern.
func (r *runner) compressDay(ctx context.Context, log *logging.Logger, dir, day string) error {
	dayDir := filepath.Join(dir, day)
	if err := enter(dayDir); err != nil {
		return errors.Wrapf(ErrMissingExtractDir, "%s: %v", day, err)
	}

	files, err := compress.MatchDataFiles(dayDir, r.cfg.DataPattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("No files matching %s in %s, nothing to compress", r.cfg.DataPattern, day)
		return nil
	}

	rel := make([]string, len(files))
	for i, f := range files {
		rel[i] = filepath.Join(day, f)
	}
	before := totalSize(dir, rel, "")

	log.Info("Compressing %s (%s)", day, display.Plural(len(files), "file"))
	log.Debug("%s %s", r.compressor.Name(), strings.Join(rel, " "))
	if err := r.compressor.Compress(ctx, dir, rel); err != nil {
		return errors.Wrap(err, "compress")
	}

	after := totalSize(dir, rel, ".gz")
	r.stats.FilesCompressed += len(files)
	r.stats.TotalInputBytes += before
	r.stats.TotalOutputBytes += after
	log.Debug("%s: %s -> %s", day, display.FormatBytes(before), display.FormatBytes(after))
	return nil
}

// dryRunCollection reports what collection would do without touching the
// filesystem or running any tool.
func (r *runner) dryRunCollection(name, dir string) error {
	fi, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		r.log.Info("[DRY] Would create %s", name)
		return nil
	case err != nil:
		return errors.Wrapf(err, "stat %s", dir)
	case !fi.IsDir():
		return errors.Wrapf(ErrNotDirectory, "%s", dir)
	}

	r.log.Info("Entering %s", name)
	archives, err := DiscoverArchives(dir, r.cfg.ArchiveExt)
	if err != nil {
		return err
	}
	for _, z := range archives {
		day := strings.TrimSuffix(z, r.cfg.ArchiveExt)
		r.log.Info("[DRY] Would extract %s with %s, remove it, clean %s and compress %s/%s",
			z, r.extractor.Name(), strings.Join(r.cfg.Denylist, ", "), day, r.cfg.DataPattern)
		r.stats.Archives++
	}
	r.log.Info("Leaving %s", name)
	return nil
}

// enter checks that dir exists and is a directory.
func enter(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "enter %s", dir)
	}
	if !fi.IsDir() {
		return errors.Wrapf(ErrNotDirectory, "enter %s", dir)
	}
	return nil
}

// totalSize sums the sizes of dir/f+suffix, ignoring files that are missing.
func totalSize(dir string, files []string, suffix string) int64 {
	var n int64
	for _, f := range files {
		if fi, err := os.Stat(filepath.Join(dir, f+suffix)); err == nil {
			n += fi.Size()
		}
	}
	return n
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, ex extract.Extractor, comp compress.Compressor, n int) {
	log.Info("Found %s in list", display.Plural(n, "cruise"))
	log.Info("Base directory: %s", cfg.BaseDir)
	log.Info("Extractor: %s, compressor: %s", ex.Name(), comp.Name())
	log.Info("Data files: %s", cfg.DataPattern)
	if cfg.Threads > 0 {
		log.Info("Compression threads: %d", cfg.Threads)
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats, elapsed time.Duration) {
	log.Info("==============================")
	log.Info("Done: %s, %s in %s",
		display.Plural(stats.Collections, "cruise"),
		display.Plural(stats.Archives, "archive"),
		elapsed.Round(time.Second))

	if cfg.DryRun {
		log.Info("  Nothing was changed (dry run)")
		return
	}

	log.Info("  Metadata artifacts removed: %d", stats.ArtifactsRemoved)
	log.Info("  Files compressed: %d", stats.FilesCompressed)
	if stats.FilesCompressed == 0 {
		return
	}
	log.Success("  Compressed %s -> %s (%s of original)",
		display.FormatBytes(stats.TotalInputBytes),
		display.FormatBytes(stats.TotalOutputBytes),
		display.Percent(stats.TotalOutputBytes, stats.TotalInputBytes))
}
