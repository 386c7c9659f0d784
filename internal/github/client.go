package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client implements ReleaseClient using the real GitHub API
type Client struct {
	client *github.Client
}

// NewClient creates a new GitHub API client
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
	}
}

// NewClientWithBaseURL creates a client against a GitHub Enterprise or test
// server. baseURL must end with a slash.
func NewClientWithBaseURL(token, baseURL string) (*Client, error) {
	c := NewClient(token)
	enterprise, err := c.client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub base URL %q: %w", baseURL, err)
	}
	c.client = enterprise
	return c, nil
}

func (c *Client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error) {
	release, _, err := c.client.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("tag %s: %w", tag, ErrReleaseNotFound)
		}
		return nil, fmt.Errorf("failed to get release by tag %s: %w", tag, err)
	}
	return convertRelease(release), nil
}

func (c *Client) CreateRelease(ctx context.Context, owner, repo string, req *CreateReleaseRequest) (*Release, error) {
	ghRelease := &github.RepositoryRelease{
		TagName:    &req.TagName,
		Name:       &req.Name,
		Body:       &req.Body,
		Draft:      &req.Draft,
		Prerelease: &req.Prerelease,
	}

	release, _, err := c.client.Repositories.CreateRelease(ctx, owner, repo, ghRelease)
	if err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}
	return convertRelease(release), nil
}

func (c *Client) UploadReleaseAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) (*ReleaseAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	asset, _, err := c.client.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID, &github.UploadOptions{
		Name: name,
	}, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload release asset %s: %w", name, err)
	}
	return convertAsset(asset), nil
}

func (c *Client) DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error {
	_, err := c.client.Repositories.DeleteReleaseAsset(ctx, owner, repo, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete release asset %d: %w", assetID, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

func convertRelease(r *github.RepositoryRelease) *Release {
	release := &Release{
		ID:         r.GetID(),
		TagName:    r.GetTagName(),
		Name:       r.GetName(),
		Body:       r.GetBody(),
		HTMLURL:    r.GetHTMLURL(),
		Draft:      r.GetDraft(),
		Prerelease: r.GetPrerelease(),
	}

	if !r.GetCreatedAt().IsZero() {
		release.CreatedAt = r.GetCreatedAt().Time
	}
	if !r.GetPublishedAt().IsZero() {
		release.PublishedAt = r.GetPublishedAt().Time
	}

	for _, a := range r.Assets {
		if a != nil {
			release.Assets = append(release.Assets, convertAsset(a))
		}
	}

	return release
}

func convertAsset(a *github.ReleaseAsset) *ReleaseAsset {
	return &ReleaseAsset{
		ID:                 a.GetID(),
		Name:               a.GetName(),
		Size:               a.GetSize(),
		BrowserDownloadURL: a.GetBrowserDownloadURL(),
	}
}
