// Package process runs external tools (the Gradle wrapper, upload CLIs, OS
// helpers) behind an interface so callers can be tested without them.
package process

import (
	"context"
)

// Runner starts external processes and resolves executables on PATH.
type Runner interface {
	// Run starts name with args in dir and waits for it. A non-zero exit code is
	// reported through Result, not as an error; the error is reserved for
	// processes that could not be started at all.
	Run(ctx context.Context, dir, name string, args ...string) (*Result, error)

	// LookPath searches PATH for an executable named name.
	LookPath(name string) (string, error)
}

// Result captures a finished process.
type Result struct {
	// ExitCode is -1 when the process was terminated without an exit status
	ExitCode int
	Stdout   string
	Stderr   string

	// Combined holds stdout and stderr in the order they were written
	Combined string
}

// Success reports whether the process exited with code 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}
