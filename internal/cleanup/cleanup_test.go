package cleanup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seaflow/cruiseprep/internal/testutil"
)

type nopLogger struct{ lines []string }

func (l *nopLogger) Info(f string, a ...interface{})  { l.lines = append(l.lines, f) }
func (l *nopLogger) Debug(f string, a ...interface{}) {}

func TestRemove_RootAndOneLevelDown(t *testing.T) {
	dir := t.TempDir()
	testutil.Touch(t, dir, "__MACOSX/001/._.DS_Store", "x")
	testutil.Touch(t, dir, ".DS_Store", "x")
	testutil.Touch(t, dir, "001/.DS_Store", "x")
	testutil.Touch(t, dir, "001/__MACOSX/._a", "x")
	testutil.Touch(t, dir, "001/2019-06-12T00-00-00+00-00", "evt")
	testutil.Touch(t, dir, "002/sub/.DS_Store", "deeper levels are left alone")

	log := &nopLogger{}
	removed, err := Remove(dir, DefaultDenylist, log)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	want := []string{"__MACOSX", ".DS_Store", "001/__MACOSX", "001/.DS_Store"}
	if diff := cmp.Diff(want, removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	for _, gone := range want {
		if testutil.Exists(filepath.Join(dir, gone)) {
			t.Errorf("%s still present", gone)
		}
	}
	for _, kept := range []string{"001/2019-06-12T00-00-00+00-00", "002/sub/.DS_Store"} {
		if !testutil.Exists(filepath.Join(dir, kept)) {
			t.Errorf("%s was removed", kept)
		}
	}
	if len(log.lines) != len(want) {
		t.Errorf("logged %d removals, want %d", len(log.lines), len(want))
	}
}

func TestRemove_NothingToDo(t *testing.T) {
	dir := t.TempDir()
	testutil.Touch(t, dir, "001/2019-06-12T00-00-00+00-00.gz", "gz")
	removed, err := Remove(dir, DefaultDenylist, &nopLogger{})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %v, want none", removed)
	}
}

func TestRemove_SkipsHiddenSubdirs(t *testing.T) {
	dir := t.TempDir()
	testutil.Touch(t, dir, ".Trashes/.DS_Store", "x")
	if _, err := Remove(dir, DefaultDenylist, &nopLogger{}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !testutil.Exists(filepath.Join(dir, ".Trashes", ".DS_Store")) {
		t.Error("hidden subdirectory was scanned")
	}
}

func TestRemove_UnclassifiedArtifact(t *testing.T) {
	dir := t.TempDir()
	target := testutil.Touch(t, t.TempDir(), "elsewhere", "keep me")
	if err := os.Symlink(target, filepath.Join(dir, ".DS_Store")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := Remove(dir, DefaultDenylist, &nopLogger{})
	if !errors.Is(err, ErrUnclassifiedArtifact) {
		t.Fatalf("Remove: err %v, want ErrUnclassifiedArtifact", err)
	}
	if !testutil.Exists(filepath.Join(dir, ".DS_Store")) {
		t.Error("unclassified artifact was removed")
	}
	if !testutil.Exists(target) {
		t.Error("symlink target was removed")
	}
}

func TestRemove_ExtendedDenylist(t *testing.T) {
	dir := t.TempDir()
	testutil.Touch(t, dir, "001/Thumbs.db", "x")
	removed, err := Remove(dir, append(DefaultDenylist, "Thumbs.db"), &nopLogger{})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join("001", "Thumbs.db")}, removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove_FollowsSymlinkedDayDir(t *testing.T) {
	dir := t.TempDir()
	dayDir := filepath.Join(t.TempDir(), "realdir")
	testutil.Touch(t, dayDir, ".DS_Store", "x")
	testutil.Touch(t, dayDir, "2019-06-12T00-00-00+00-00", "evt")
	if err := os.Symlink(dayDir, filepath.Join(dir, "001")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	removed, err := Remove(dir, DefaultDenylist, &nopLogger{})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join("001", ".DS_Store")}, removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if testutil.Exists(filepath.Join(dayDir, ".DS_Store")) {
		t.Error(".DS_Store inside the symlinked day directory survived")
	}
	if !testutil.Exists(filepath.Join(dir, "001")) || !testutil.Exists(filepath.Join(dayDir, "2019-06-12T00-00-00+00-00")) {
		t.Error("symlink or its data was removed")
	}
}
