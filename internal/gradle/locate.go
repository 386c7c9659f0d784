package gradle

import (
	"path/filepath"

	"github.com/abtkit/abt/internal/filesystem"
)

// artifactRoots maps each output subtree to the extension collected from it.
var artifactRoots = []struct {
	dir string
	ext string
}{
	{dir: filepath.Join("build", "outputs", "apk"), ext: ".apk"},
	{dir: filepath.Join("build", "outputs", "bundle"), ext: ".aab"},
}

// Locate returns every .apk under build/outputs/apk and every .aab under
// build/outputs/bundle of moduleDir. Missing or unreadable directories are
// skipped.
func Locate(fs filesystem.FileSystem, moduleDir string) []string {
	var artifacts []string
	for _, root := range artifactRoots {
		dir := filepath.Join(moduleDir, root.dir)
		if !fs.Exists(dir) {
			continue
		}
		artifacts = collect(fs, dir, root.ext, artifacts)
	}
	return artifacts
}

func collect(fs filesystem.FileSystem, dir, ext string, acc []string) []string {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return acc
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			acc = collect(fs, path, ext, acc)
			continue
		}
		if filepath.Ext(entry.Name()) == ext {
			acc = append(acc, path)
		}
	}
	return acc
}
