package publish

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/github"
	"github.com/abtkit/abt/internal/models"
	"github.com/go-logr/logr"
)

// ReleaseClientFactory builds a GitHub client for a token.
type ReleaseClientFactory func(token string) github.ReleaseClient

// ReleaseAsset publishes an artifact as an asset of a GitHub release, creating
// the release when the tag has none yet.
type ReleaseAsset struct {
	newClient ReleaseClientFactory
	log       logr.Logger
}

func NewReleaseAsset(newClient ReleaseClientFactory, log logr.Logger) *ReleaseAsset {
	return &ReleaseAsset{
		newClient: newClient,
		log:       log,
	}
}

func (p *ReleaseAsset) Publish(ctx context.Context, req Request) (*models.PublishResult, error) {
	token := strings.TrimSpace(models.Deref(req.Profile.APIToken))
	if token == "" {
		return nil, errs.Configuration("GitHub token (api_token) is not configured")
	}

	owner, repo, ok := strings.Cut(strings.TrimSpace(models.Deref(req.Profile.Repository)), "/")
	if !ok || owner == "" || repo == "" {
		return nil, errs.Configuration("GitHub repository must be set as owner/repo")
	}

	name := filepath.Base(req.ArtifactPath)
	tag := strings.TrimSpace(models.Deref(req.Profile.ReleaseTag))
	if tag == "" {
		tag = strings.TrimSuffix(name, filepath.Ext(name))
	}
	log := p.log.WithValues("repository", owner+"/"+repo, "tag", tag)

	client := p.newClient(token)

	release, err := client.GetReleaseByTag(ctx, owner, repo, tag)
	switch {
	case errors.Is(err, github.ErrReleaseNotFound):
		log.Info("creating release")
		release, err = client.CreateRelease(ctx, owner, repo, &github.CreateReleaseRequest{
			TagName: tag,
			Name:    tag,
			Body:    req.Description,
		})
		if err != nil {
			return nil, errs.Service("failed to create GitHub release", err)
		}
	case err != nil:
		return nil, errs.Service("failed to look up GitHub release", err)
	}

	if existing := release.FindAsset(name); existing != nil {
		log.Info("replacing existing asset", "asset", name)
		if err := client.DeleteReleaseAsset(ctx, owner, repo, existing.ID); err != nil {
			return nil, errs.Service("failed to replace existing release asset", err)
		}
	}

	asset, err := client.UploadReleaseAsset(ctx, owner, repo, release.ID, name, req.ArtifactPath)
	if err != nil {
		return nil, errs.Service("failed to upload release asset", err)
	}

	return &models.PublishResult{
		Success:     true,
		Message:     fmt.Sprintf("uploaded %s to release %s", name, tag),
		DownloadURL: asset.BrowserDownloadURL,
		BuildKey:    tag,
	}, nil
}
