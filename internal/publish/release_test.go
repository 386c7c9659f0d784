package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/github"
	"github.com/abtkit/abt/internal/models"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"
)

func releaseRequest() Request {
	return Request{
		ArtifactPath: "/out/shop-1.4.0.apk",
		Description:  "new checkout flow",
		Profile: models.PublishProfile{
			Name:       "gh",
			Platform:   models.PlatformGitHub,
			APIToken:   models.StringPtr("ghp_token"),
			Repository: models.StringPtr("acme/shop"),
		},
	}
}

func newReleaseAsset(client *github.MockClient) (*ReleaseAsset, *[]string) {
	var tokens []string
	p := NewReleaseAsset(func(token string) github.ReleaseClient {
		tokens = append(tokens, token)
		return client
	}, logr.Discard())
	return p, &tokens
}

func TestReleaseAsset_CreatesMissingRelease(t *testing.T) {
	client := github.NewMockClient()
	p, tokens := newReleaseAsset(client)

	result, err := p.Publish(context.Background(), releaseRequest())
	require.NoError(t, err)
	require.Equal(t, []string{"ghp_token"}, *tokens)
	require.Equal(t, &models.PublishResult{
		Success:     true,
		Message:     "uploaded shop-1.4.0.apk to release shop-1.4.0",
		DownloadURL: "https://github.com/acme/shop/releases/download/shop-1.4.0/shop-1.4.0.apk",
		BuildKey:    "shop-1.4.0",
	}, result)

	releases := client.GetAllReleases("acme", "shop")
	require.Len(t, releases, 1)
	require.Equal(t, "new checkout flow", releases[0].Body)
}

func TestReleaseAsset_ReusesExistingRelease(t *testing.T) {
	client := github.NewMockClient()
	client.AddRelease("acme", "shop", &github.Release{TagName: "nightly", Body: "existing"})
	p, _ := newReleaseAsset(client)

	req := releaseRequest()
	req.Profile.ReleaseTag = models.StringPtr("nightly")

	_, err := p.Publish(context.Background(), req)
	require.NoError(t, err)
	_, err = p.Publish(context.Background(), req)
	require.NoError(t, err, "re-publishing replaces the asset")

	releases := client.GetAllReleases("acme", "shop")
	require.Len(t, releases, 1)
	require.Equal(t, "existing", releases[0].Body)
	require.Len(t, releases[0].Assets, 1)
	require.Equal(t, []string{"acme/shop/nightly/shop-1.4.0.apk", "acme/shop/nightly/shop-1.4.0.apk"}, client.Uploads)
}

func TestReleaseAsset_Errors(t *testing.T) {
	t.Run("missing repository", func(t *testing.T) {
		req := releaseRequest()
		req.Profile.Repository = nil
		p, _ := newReleaseAsset(github.NewMockClient())

		_, err := p.Publish(context.Background(), req)
		require.True(t, errs.IsKind(err, errs.KindConfiguration))
	})

	t.Run("missing token", func(t *testing.T) {
		req := releaseRequest()
		req.Profile.APIToken = nil
		p, tokens := newReleaseAsset(github.NewMockClient())

		_, err := p.Publish(context.Background(), req)
		require.True(t, errs.IsKind(err, errs.KindConfiguration))
		require.Empty(t, *tokens)
	})

	t.Run("lookup failure", func(t *testing.T) {
		client := github.NewMockClient()
		client.GetReleaseByTagError = errors.New("502 bad gateway")
		p, _ := newReleaseAsset(client)

		_, err := p.Publish(context.Background(), releaseRequest())
		require.True(t, errs.IsKind(err, errs.KindService))
		require.Empty(t, client.GetAllReleases("acme", "shop"))
	})

	t.Run("upload failure", func(t *testing.T) {
		client := github.NewMockClient()
		client.UploadReleaseAssetError = errors.New("422 validation failed")
		p, _ := newReleaseAsset(client)

		_, err := p.Publish(context.Background(), releaseRequest())
		require.True(t, errs.IsKind(err, errs.KindService))
		require.ErrorContains(t, err, "422 validation failed")
	})
}
