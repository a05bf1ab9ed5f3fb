// Package cleanup removes platform metadata artifacts (AppleDouble
// __MACOSX folders, Finder .DS_Store files) from a cruise directory after
// extraction.
package cleanup

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultDenylist names the artifacts macOS adds to every archive it makes.
var DefaultDenylist = []string{"__MACOSX", ".DS_Store"}

// ErrUnclassifiedArtifact is returned when a denylisted name is neither a
// directory nor a regular file (a symlink, socket, device or FIFO).
var ErrUnclassifiedArtifact = errors.New("could not determine type of artifact")

// Logger is the subset of logging.Logger used here.
type Logger interface {
	Info(string, ...interface{})
	Debug(string, ...interface{})
}

// Remove deletes every denylisted name found in dir and in each immediate,
// non-hidden subdirectory of dir, including subdirectories reached through a
// symlink. Directories are removed recursively and
// regular files individually. It returns the removed paths relative to dir,
// in removal order, and stops at the first failure.
func Remove(dir string, denylist []string, log Logger) ([]string, error) {
	removed, err := removeIn(dir, "", denylist, log)
	if err != nil {
		return removed, err
	}

	// Re-read after the root pass so removed folders are not descended into.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return removed, errors.Wrapf(err, "read %s", dir)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !isDir(dir, e) {
			continue
		}
		sub, err := removeIn(filepath.Join(dir, e.Name()), e.Name(), denylist, log)
		removed = append(removed, sub...)
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// isDir reports whether e is a directory, following a symlink to one as a
// shell glob does.
func isDir(dir string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.IsDir()
}

// removeIn removes the denylisted names directly inside dir. rel is dir's
// path relative to the cruise directory, used for the returned names.
func removeIn(dir, rel string, denylist []string, log Logger) ([]string, error) {
	var removed []string
	for _, name := range denylist {
		target := filepath.Join(dir, name)
		fi, err := os.Lstat(target)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return removed, errors.Wrapf(err, "stat %s", target)
		}

		shown := filepath.Join(rel, name)
		switch {
		case fi.IsDir():
			log.Info("Removing directory %s", shown)
			if err := os.RemoveAll(target); err != nil {
				return removed, errors.Wrapf(err, "remove directory %s", target)
			}
		case fi.Mode().IsRegular():
			log.Info("Removing file %s", shown)
			if err := os.Remove(target); err != nil {
				return removed, errors.Wrapf(err, "remove file %s", target)
			}
		default:
			return removed, errors.Wrapf(ErrUnclassifiedArtifact, "%s (mode %s)", shown, fi.Mode().Type())
		}
		log.Debug("removed %s", target)
		removed = append(removed, shown)
	}
	return removed, nil
}
