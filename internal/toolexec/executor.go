package toolexec

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// Command describes one external tool invocation.
type Command struct {
	Dir  string   // Working directory for the tool; required.
	Name string   // Executable name or path.
	Args []string // Arguments, passed verbatim (no shell).
	Tee  bool     // Also copy stderr to os.Stderr while running.
}

// Result holds the outcome of a single invocation.
type Result struct {
	Command Command
	Stderr  string
	Err     error
}

// Run executes c and waits for it to exit. There is no timeout; ctx
// cancellation kills the process.
func Run(ctx context.Context, c Command) Result {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stderrBuf bytes.Buffer
	if c.Tee {
		cmd.Stdout = os.Stdout
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return Result{
		Command: c,
		Stderr:  stderrBuf.String(),
		Err:     err,
	}
}

// AsError returns nil on success, otherwise a *ToolError.
func (r Result) AsError() error {
	if r.Err == nil {
		return nil
	}
	code := -1
	if ee, ok := r.Err.(*exec.ExitError); ok {
		code = ee.ExitCode()
	}
	return &ToolError{
		Tool:     r.Command.Name,
		Args:     r.Command.Args,
		Dir:      r.Command.Dir,
		ExitCode: code,
		Stderr:   lastLines(r.Stderr, maxStderrLines),
		Hint:     Classify(r.Stderr),
		Err:      r.Err,
	}
}
