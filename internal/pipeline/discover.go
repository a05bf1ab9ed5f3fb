package pipeline

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DiscoverArchives returns the names of non-directory entries directly in
// dir that end in ext, sorted lexicographically for deterministic processing
// order. Hidden names (such as AppleDouble "._001.zip") are skipped.
func DiscoverArchives(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}
	var archives []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		archives = append(archives, name)
	}
	sort.Strings(archives)
	return archives, nil
}
