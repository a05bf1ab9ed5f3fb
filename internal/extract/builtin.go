package extract

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// Errors returned by the builtin extractor for entries it will not write.
var (
	ErrUnsafePath       = errors.New("archive entry escapes the target directory")
	ErrUnsupportedEntry = errors.New("unsupported archive entry type")
)

// Builtin extracts zip archives in-process.
type Builtin struct{}

// Name identifies the backend in logs.
func (*Builtin) Name() string { return "builtin" }

// Extract writes every entry of dir/archive under dir, restoring permission
// bits and modification times. Symlinks and other special entries are
// rejected.
func (*Builtin) Extract(ctx context.Context, dir, archive string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return errors.WithStack(err)
	}
	zr, err := zip.OpenReader(filepath.Join(root, archive))
	if err != nil {
		return errors.Wrapf(err, "open %s", archive)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := extractEntry(root, f); err != nil {
			return errors.Wrapf(err, "%s: %s", archive, f.Name)
		}
	}
	return nil
}

func extractEntry(root string, f *zip.File) error {
	target := filepath.Join(root, filepath.FromSlash(f.Name))
	if !within(root, target) {
		return ErrUnsafePath
	}

	mode := f.Mode()
	switch {
	case mode.IsDir() || strings.HasSuffix(f.Name, "/"):
		return os.MkdirAll(target, 0o755)
	case !mode.IsRegular():
		return errors.Wrapf(ErrUnsupportedEntry, "mode %s", mode)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	if err := writeEntry(f, target, perm); err != nil {
		return err
	}
	if !f.Modified.IsZero() {
		return os.Chtimes(target, f.Modified, f.Modified)
	}
	return nil
}

func writeEntry(f *zip.File, target string, perm os.FileMode) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// within reports whether target is root or below it.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
