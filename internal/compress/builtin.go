package compress

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Builtin compresses in-process, one file at a time.
type Builtin struct {
	Level int // 0 means gzip.DefaultCompression.
}

// Name identifies the backend in logs.
func (*Builtin) Name() string { return "builtin" }

// Compress gzips each file like pigz does: the output keeps the input's
// name, mode and mtime, an existing .gz is never overwritten, and the input
// is removed only after the output is complete.
func (b *Builtin) Compress(ctx context.Context, dir string, files []string) error {
	level := b.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := gzipFile(filepath.Join(dir, f), level); err != nil {
			return errors.Wrapf(err, "compress %s", f)
		}
	}
	return nil
}

func gzipFile(src string, level int) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return errors.Errorf("%s is not a regular file", src)
	}

	dst := src + ".gz"
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fi.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(dst)
		}
	}()

	zw, err := gzip.NewWriterLevel(out, level)
	if err != nil {
		return err
	}
	zw.Name = filepath.Base(src)
	zw.ModTime = fi.ModTime()
	if _, err = io.Copy(zw, in); err != nil {
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	if err = os.Chtimes(dst, fi.ModTime(), fi.ModTime()); err != nil {
		return err
	}
	in.Close()
	return os.Remove(src)
}
