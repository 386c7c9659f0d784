package models

import (
	"fmt"
	"strings"
)

// Platform identifies a distribution service.
type Platform string

const (
	PlatformPgyer  Platform = "pgyer"
	PlatformFir    Platform = "fir"
	PlatformGitHub Platform = "github"
)

// Platforms lists every supported platform tag.
var Platforms = []Platform{PlatformPgyer, PlatformFir, PlatformGitHub}

// ParsePlatform validates a platform tag.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.TrimSpace(s))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported publish platform: %q (supported: pgyer, fir, github)", s)
}

// PublishProfile holds the credentials and defaults for one distribution target.
type PublishProfile struct {
	Name               string   `json:"name"`
	Platform           Platform `json:"platform"`
	APIKey             *string  `json:"api_key"`
	APIToken           *string  `json:"api_token"`
	Password           *string  `json:"password"`
	DefaultDescription *string  `json:"default_description"`
	GoFirCLIPath       *string  `json:"go_fir_cli_path"`

	// Repository is "owner/repo" (github only)
	Repository *string `json:"repository,omitempty"`

	// ReleaseTag overrides the release tag derived from the artifact name (github only)
	ReleaseTag *string `json:"release_tag,omitempty"`
}

// ProfilesDocument is the on-disk shape of the publish-profile registry.
type ProfilesDocument struct {
	Platforms []PublishProfile `json:"platforms"`
}

// PublishResult is the normalized outcome of a publish call. It is produced
// for failures too so callers always have something to render.
type PublishResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	DownloadURL      string `json:"download_url,omitempty"`
	QRCodeURL        string `json:"qr_code_url,omitempty"`
	BuildKey         string `json:"build_key,omitempty"`
	BuildShortcutURL string `json:"build_shortcut_url,omitempty"`
}

// FailedPublish builds a failed result carrying message.
func FailedPublish(message string) PublishResult {
	return PublishResult{Success: false, Message: message}
}
