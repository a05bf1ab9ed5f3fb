// Package toolexec runs the external archive and compression tools.
//
// Every invocation names its working directory explicitly; the process
// working directory is never changed. Stderr is captured so a failure can
// be reported with the tool's own last words and a short hint derived from
// them, and is tee'd to the terminal in verbose mode.
package toolexec
