// Package notes reads release-notes files: markdown with optional YAML front
// matter selecting the publish profile and install password.
//
//	---
//	profile: beta
//	password: "1234"
//	---
//
//	Fixed the crash on the checkout screen.
package notes

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/abtkit/abt/internal/filesystem"
	"github.com/adrg/frontmatter"
)

// Notes is a parsed release-notes file.
type Notes struct {
	// Profile names the publish profile to use; empty when not set
	Profile string `yaml:"profile"`

	// Password overrides the profile's install password; empty when not set
	Password string `yaml:"password"`

	// Body is the trimmed markdown used as the changelog
	Body string `yaml:"-"`
}

// Load reads and parses the notes file at path.
func Load(fs filesystem.FileSystem, path string) (*Notes, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read release notes: %w", err)
	}
	return Parse(data)
}

// Parse parses notes data. A file without front matter is all body.
func Parse(data []byte) (*Notes, error) {
	var n Notes
	rest, err := frontmatter.Parse(bytes.NewReader(data), &n)
	if err != nil {
		return nil, fmt.Errorf("failed to parse release notes front matter: %w", err)
	}

	n.Profile = strings.TrimSpace(n.Profile)
	n.Body = strings.TrimSpace(string(rest))
	return &n, nil
}
