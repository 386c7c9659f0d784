package gradle

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abtkit/abt/internal/filesystem"
)

// Stage empties dest, recreates it and copies every artifact into it by base
// name. Failures are narrated into log and never abort the remaining copies.
// The returned slice holds the destination paths that were written.
func Stage(fs filesystem.FileSystem, dest string, artifacts []string, log *strings.Builder) []string {
	if fs.Exists(dest) {
		fmt.Fprintf(log, "Cleaning output directory: %s\n", dest)
		clean(fs, dest, log)
	}

	if err := fs.MkdirAll(dest, 0755); err != nil {
		fmt.Fprintf(log, "❌ Failed to create output directory: %v\n", err)
		return nil
	}

	var staged []string
	for _, artifact := range artifacts {
		name := filepath.Base(artifact)
		target := filepath.Join(dest, name)

		if !fs.Exists(artifact) {
			fmt.Fprintf(log, "❌ Source file missing: %s\n", artifact)
			continue
		}
		if err := fs.CopyFile(artifact, target); err != nil {
			fmt.Fprintf(log, "❌ Copy failed %s: %v\n", name, err)
			continue
		}

		fmt.Fprintf(log, "✅ Copied: %s -> %s\n", name, target)
		staged = append(staged, target)
	}
	return staged
}

// clean removes the entries of dir one by one.
func clean(fs filesystem.FileSystem, dir string, log *strings.Builder) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := fs.RemoveAll(path); err != nil {
			fmt.Fprintf(log, "⚠️ Failed to clean %s: %v\n", path, err)
		}
	}
}
