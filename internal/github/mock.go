package github

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient implements ReleaseClient for testing
type MockClient struct {
	mu       sync.RWMutex
	releases map[string][]*Release // key: "owner/repo"
	nextID   int64

	// Uploads records "owner/repo/tag/name" for every uploaded asset
	Uploads []string

	// Hooks for testing error scenarios
	GetReleaseByTagError    error
	CreateReleaseError      error
	UploadReleaseAssetError error
	DeleteReleaseAssetError error
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{
		releases: make(map[string][]*Release),
	}
}

// AddRelease adds a release to the mock
func (m *MockClient) AddRelease(owner, repo string, release *Release) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s/%s", owner, repo)
	if release.ID == 0 {
		m.nextID++
		release.ID = m.nextID
	}
	m.releases[key] = append(m.releases[key], release)
}

func (m *MockClient) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error) {
	if m.GetReleaseByTagError != nil {
		return nil, m.GetReleaseByTagError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fmt.Sprintf("%s/%s", owner, repo)
	for _, r := range m.releases[key] {
		if r.TagName == tag {
			return r, nil
		}
	}

	return nil, fmt.Errorf("tag %s: %w", tag, ErrReleaseNotFound)
}

func (m *MockClient) CreateRelease(ctx context.Context, owner, repo string, req *CreateReleaseRequest) (*Release, error) {
	if m.CreateReleaseError != nil {
		return nil, m.CreateReleaseError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s/%s", owner, repo)

	// Check if tag already exists
	for _, r := range m.releases[key] {
		if r.TagName == req.TagName {
			return nil, fmt.Errorf("release with tag %s already exists", req.TagName)
		}
	}

	m.nextID++
	release := &Release{
		ID:          m.nextID,
		TagName:     req.TagName,
		Name:        req.Name,
		Body:        req.Body,
		HTMLURL:     fmt.Sprintf("https://github.com/%s/releases/tag/%s", key, req.TagName),
		Draft:       req.Draft,
		Prerelease:  req.Prerelease,
		CreatedAt:   time.Now(),
		PublishedAt: time.Now(),
	}

	m.releases[key] = append(m.releases[key], release)
	return release, nil
}

func (m *MockClient) UploadReleaseAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) (*ReleaseAsset, error) {
	if m.UploadReleaseAssetError != nil {
		return nil, m.UploadReleaseAssetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	release := m.findByID(owner, repo, releaseID)
	if release == nil {
		return nil, fmt.Errorf("release %d not found", releaseID)
	}
	if release.FindAsset(name) != nil {
		return nil, fmt.Errorf("asset %s already exists on release %s", name, release.TagName)
	}

	m.nextID++
	asset := &ReleaseAsset{
		ID:                 m.nextID,
		Name:               name,
		BrowserDownloadURL: fmt.Sprintf("https://github.com/%s/%s/releases/download/%s/%s", owner, repo, release.TagName, name),
	}
	release.Assets = append(release.Assets, asset)
	m.Uploads = append(m.Uploads, fmt.Sprintf("%s/%s/%s/%s", owner, repo, release.TagName, name))
	return asset, nil
}

func (m *MockClient) DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error {
	if m.DeleteReleaseAssetError != nil {
		return m.DeleteReleaseAssetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s/%s", owner, repo)
	for _, r := range m.releases[key] {
		for i, a := range r.Assets {
			if a.ID == assetID {
				r.Assets = append(r.Assets[:i], r.Assets[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("asset %d not found", assetID)
}

// GetAllReleases returns all releases for a repository (helper for testing)
func (m *MockClient) GetAllReleases(owner, repo string) []*Release {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fmt.Sprintf("%s/%s", owner, repo)
	return m.releases[key]
}

func (m *MockClient) findByID(owner, repo string, id int64) *Release {
	key := fmt.Sprintf("%s/%s", owner, repo)
	for _, r := range m.releases[key] {
		if r.ID == id {
			return r
		}
	}
	return nil
}
