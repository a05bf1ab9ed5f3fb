// Package cruise reads the list of cruise (collection) names to process.
//
// The list is plain text with one name per line. Lines that begin with the
// comment prefix are skipped. Only the line terminator is stripped; any
// other whitespace is part of the name.
package cruise

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidName is returned for a line that cannot name a directory
// directly under the base directory.
var ErrInvalidName = errors.New("invalid cruise name")

// ReadList opens path and parses it with [ParseList].
func ReadList(path, commentPrefix string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "read cruise list")
	}
	defer f.Close()

	names, err := ParseList(f, commentPrefix)
	if err != nil {
		return nil, errors.Wrapf(err, "cruise list %s", path)
	}
	return names, nil
}

// ParseList returns the cruise names in r, in order. Every name is
// validated before any is returned, so a bad line fails the whole list.
func ParseList(r io.Reader, commentPrefix string) ([]string, error) {
	var names []string
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if line == "" && err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		lineNo++

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, commentPrefix) {
			if verr := ValidateName(line); verr != nil {
				return nil, errors.Wrapf(verr, "line %d", lineNo)
			}
			names = append(names, line)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return names, nil
}

// ValidateName rejects names that are empty, "." or "..", or that contain a
// path separator.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidName, "empty name (blank line; check for a trailing empty line)")
	case name == "." || name == "..":
		return errors.Wrapf(ErrInvalidName, "%q", name)
	case strings.ContainsAny(name, `/\`):
		return errors.Wrapf(ErrInvalidName, "%q contains a path separator", name)
	case strings.ContainsRune(name, 0):
		return errors.Wrapf(ErrInvalidName, "%q contains a NUL byte", name)
	}
	return nil
}
