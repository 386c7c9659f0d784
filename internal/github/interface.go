package github

import (
	"context"
	"errors"
	"time"
)

// ErrReleaseNotFound is returned by GetReleaseByTag when no release carries the tag.
var ErrReleaseNotFound = errors.New("release not found")

// ReleaseClient provides the GitHub release operations used to publish artifacts
type ReleaseClient interface {
	// Release operations
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error)
	CreateRelease(ctx context.Context, owner, repo string, release *CreateReleaseRequest) (*Release, error)

	// Asset operations
	UploadReleaseAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) (*ReleaseAsset, error)
	DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error
}

// Release represents a GitHub release
type Release struct {
	ID          int64
	TagName     string
	Name        string
	Body        string
	HTMLURL     string
	Draft       bool
	Prerelease  bool
	CreatedAt   time.Time
	PublishedAt time.Time
	Assets      []*ReleaseAsset
}

// CreateReleaseRequest represents a request to create a release
type CreateReleaseRequest struct {
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}

// ReleaseAsset represents a file attached to a release
type ReleaseAsset struct {
	ID                 int64
	Name               string
	Size               int
	BrowserDownloadURL string
}

// FindAsset returns the asset called name, or nil.
func (r *Release) FindAsset(name string) *ReleaseAsset {
	for _, a := range r.Assets {
		if a.Name == name {
			return a
		}
	}
	return nil
}
