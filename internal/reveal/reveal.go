// Package reveal opens a directory in the platform's file manager.
package reveal

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/process"
)

// Opener reveals directories through an external file manager.
type Opener struct {
	fs     filesystem.FileSystem
	runner process.Runner
	goos   string
}

func NewOpener(fs filesystem.FileSystem, runner process.Runner) *Opener {
	return &Opener{fs: fs, runner: runner, goos: runtime.GOOS}
}

// Command returns the file-manager executable for goos.
func Command(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// Reveal opens path, which must be an existing directory.
func (o *Opener) Reveal(ctx context.Context, path string) error {
	info, err := o.fs.Stat(path)
	if err != nil {
		return errs.NotFound("directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return errs.InvalidRequest("path is not a directory: %s", path)
	}

	res, err := o.runner.Run(ctx, "", Command(o.goos), path)
	if err != nil {
		return errs.Process("failed to open directory", err)
	}
	if !res.Success() {
		return errs.Process(fmt.Sprintf("failed to open directory: %s", strings.TrimSpace(res.Stderr)), nil)
	}
	return nil
}
