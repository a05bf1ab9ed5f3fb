// Package testutil builds on-disk fixtures for tests: day-of-year zip
// archives shaped like instrument exports, and fake tool executables.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

// Entry is one member of a fixture archive. Names ending in "/" are
// directories.
type Entry struct {
	Name    string
	Content string
	Mode    os.FileMode
}

// FixtureTime is the modification time stamped on fixture entries.
var FixtureTime = time.Date(2019, 6, 12, 0, 0, 0, 0, time.UTC)

// WriteZip creates a zip archive at path holding entries, in order.
func WriteZip(t *testing.T, path string, entries []Entry) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate, Modified: FixtureTime}
		mode := e.Mode
		if mode == 0 {
			mode = 0o644
			if isDirName(e.Name) {
				mode = os.ModeDir | 0o755
			}
		}
		hdr.SetMode(mode)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if !isDirName(e.Name) {
			if _, err := w.Write([]byte(e.Content)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

// DayArchive returns the entries of a typical macOS-made day archive: the
// day folder with EVT files, a .DS_Store, and AppleDouble __MACOSX twins.
func DayArchive(day string, evtFiles map[string]string) []Entry {
	names := make([]string, 0, len(evtFiles))
	for n := range evtFiles {
		names = append(names, n)
	}
	sort.Strings(names)

	entries := []Entry{{Name: day + "/"}}
	for _, n := range names {
		entries = append(entries, Entry{Name: day + "/" + n, Content: evtFiles[n]})
	}
	entries = append(entries,
		Entry{Name: day + "/.DS_Store", Content: "finder"},
		Entry{Name: "__MACOSX/"},
		Entry{Name: "__MACOSX/" + day + "/"},
		Entry{Name: "__MACOSX/" + day + "/._.DS_Store", Content: "appledouble"},
	)
	return entries
}

// WriteScript creates an executable shell script in dir and returns its
// path. The test is skipped on platforms without /bin/sh.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// Touch writes content to dir/name, creating parent directories.
func Touch(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
	return path
}

// Exists reports whether path exists (without following a final symlink).
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func isDirName(name string) bool {
	return len(name) > 0 && name[len(name)-1] == '/'
}
