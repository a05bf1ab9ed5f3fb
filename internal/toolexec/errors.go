package toolexec

import (
	"fmt"
	"regexp"
	"strings"
)

const maxStderrLines = 20

// ToolError describes a failed tool invocation.
type ToolError struct {
	Tool     string
	Args     []string
	Dir      string
	ExitCode int // -1 when the tool did not start or was killed.
	Stderr   string
	Hint     string
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (in %s): %v", e.Tool, strings.Join(e.Args, " "), e.Dir, e.Err)
	if e.Hint != "" {
		fmt.Fprintf(&b, " [%s]", e.Hint)
	}
	return b.String()
}

func (e *ToolError) Unwrap() error { return e.Err }

// Pre-compiled stderr classifiers, checked in order by [Classify]. Messages
// come from ditto, Info-ZIP unzip, and pigz.
var classifiers = []struct {
	re   *regexp.Regexp
	hint string
}{
	{regexp.MustCompile(`(?i)no space left on device|disk full|write error`), "disk full"},
	{regexp.MustCompile(`(?i)permission denied|operation not permitted`), "permission denied"},
	{regexp.MustCompile(`(?i)end-of-central-directory|not a zipfile|zipfile is empty|` +
		`couldn't read (metadata|pkzip signature)|bad zipfile offset|invalid compressed data|crc error|` +
		`unexpected end of file|truncated`), "archive is corrupt or truncated"},
	{regexp.MustCompile(`(?i)no such file or directory|does not exist|cannot find|skipping: .* not found`), "input missing"},
	{regexp.MustCompile(`(?i)already exists`), "output already exists"},
}

// Classify returns a short hint for the first classifier matching stderr,
// or "" when nothing matches.
func Classify(stderr string) string {
	for _, c := range classifiers {
		if c.re.MatchString(stderr) {
			return c.hint
		}
	}
	return ""
}

// lastLines keeps the final n lines of s.
func lastLines(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
