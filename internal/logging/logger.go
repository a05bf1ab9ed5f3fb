// Package logging provides the leveled narration logger used by every stage
// of a run. It is a thin layer over logrus: a line formatter reproduces the
// classic "timestamp [LEVEL] message" trail, ERROR lines go to stderr and
// everything else to stdout, and an optional log file receives the same
// lines without color.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/seaflow/cruiseprep/internal/config"
	"github.com/seaflow/cruiseprep/internal/term"
)

// statusKey marks an INFO entry as a success line; the formatter renders it
// as [SUCCESS] and drops the field.
const statusKey = "status"

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	sinks *sinkHook
}

// NewLogger initializes colors from cfg and optionally opens cfg.LogFile.
// Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return newLogger(cfg, term.Stdout(), term.Stderr(), term.Enabled())
}

func newLogger(cfg *config.Config, stdout, stderr io.Writer, color bool) (*Logger, error) {
	hook := &sinkHook{
		stdout:  stdout,
		stderr:  stderr,
		console: &lineFormatter{color: color},
		plain:   &lineFormatter{},
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, errors.Wrap(err, "create log directory")
		}
		f, err := os.OpenFile(filepath.Clean(cfg.LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		hook.file = f
	}

	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetFormatter(hook.plain)
	base.AddHook(hook)
	base.SetLevel(logrus.InfoLevel)
	if cfg.Verbose {
		base.SetLevel(logrus.DebugLevel)
	}

	return &Logger{base: base, entry: logrus.NewEntry(base), sinks: hook}, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	return l.sinks.close()
}

// WithField returns a Logger that appends key=value to every line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithField(key, value), sinks: l.sinks}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Success logs at INFO level, rendered as SUCCESS (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.entry.WithField(statusKey, "success").Infof(format, args...)
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Debug logs at DEBUG level (cyan); only emitted with --verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// sinkHook writes every entry to the console stream matching its level and,
// when configured, to the log file.
type sinkHook struct {
	mu      sync.Mutex
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
	console logrus.Formatter
	plain   logrus.Formatter
}

func (h *sinkHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *sinkHook) Fire(e *logrus.Entry) error {
	line, err := h.console.Format(e)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	out := h.stdout
	if e.Level <= logrus.ErrorLevel {
		out = h.stderr
	}
	_, _ = out.Write(line)

	if h.file != nil {
		plain, err := h.plain.Format(e)
		if err != nil {
			return err
		}
		_, _ = h.file.Write(plain)
	}
	return nil
}

func (h *sinkHook) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}
