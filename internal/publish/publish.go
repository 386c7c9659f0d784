// Package publish uploads build artifacts to distribution services.
package publish

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/models"
	"github.com/go-logr/logr"
)

// Strategy uploads one artifact to one kind of service.
type Strategy interface {
	Publish(ctx context.Context, req Request) (*models.PublishResult, error)
}

// Request is a single upload with the effective profile settings applied.
type Request struct {
	ArtifactPath string
	Profile      models.PublishProfile

	// Description is the trimmed changelog text, empty when none applies
	Description string
}

// Overrides are per-call values that take precedence over the profile.
type Overrides struct {
	Description string
	Password    string
}

// Strategies maps each platform tag to its uploader.
type Strategies map[models.Platform]Strategy

// Service validates artifacts and dispatches them to the strategy selected by
// the profile's platform.
type Service struct {
	fs         filesystem.FileSystem
	strategies Strategies
	log        logr.Logger
}

// NewService creates a new Service
func NewService(fs filesystem.FileSystem, strategies Strategies, log logr.Logger) *Service {
	return &Service{
		fs:         fs,
		strategies: strategies,
		log:        log,
	}
}

// Publish uploads artifactPath using profile. It never returns an error: every
// failure is reported through a result with Success=false.
func (s *Service) Publish(ctx context.Context, artifactPath string, profile models.PublishProfile, overrides Overrides) models.PublishResult {
	log := s.log.WithValues("platform", profile.Platform, "profile", profile.Name, "file", artifactPath)

	result, err := s.publish(ctx, artifactPath, profile, overrides)
	if err != nil {
		log.Error(err, "publish failed")
		return models.FailedPublish(err.Error())
	}

	log.Info("publish finished", "success", result.Success, "url", result.DownloadURL)
	return *result
}

// PublishAll publishes the artifacts in order and stops at the first failure.
// The returned slice holds one result per attempted artifact.
func (s *Service) PublishAll(ctx context.Context, artifactPaths []string, profile models.PublishProfile, overrides Overrides) []models.PublishResult {
	results := make([]models.PublishResult, 0, len(artifactPaths))
	for _, path := range artifactPaths {
		result := s.Publish(ctx, path, profile, overrides)
		results = append(results, result)
		if !result.Success {
			break
		}
	}
	return results
}

func (s *Service) publish(ctx context.Context, artifactPath string, profile models.PublishProfile, overrides Overrides) (*models.PublishResult, error) {
	if !s.fs.Exists(artifactPath) {
		return nil, errs.NotFound("file not found: %s", artifactPath)
	}
	if !IsArtifact(artifactPath) {
		return nil, errs.InvalidRequest("unsupported file type %q, only .apk or .aab files can be published", filepath.Base(artifactPath))
	}

	strategy, ok := s.strategies[profile.Platform]
	if !ok {
		return nil, errs.Configuration("unsupported publish platform: %s", profile.Platform)
	}

	req := Request{
		ArtifactPath: artifactPath,
		Profile:      profile,
		Description:  strings.TrimSpace(models.Deref(profile.DefaultDescription)),
	}
	if d := strings.TrimSpace(overrides.Description); d != "" {
		req.Description = d
	}
	if p := strings.TrimSpace(overrides.Password); p != "" {
		req.Profile.Password = &p
	}

	return strategy.Publish(ctx, req)
}

// IsArtifact reports whether path names an installable package.
func IsArtifact(path string) bool {
	return strings.HasSuffix(path, ".apk") || strings.HasSuffix(path, ".aab")
}

// redact shortens a secret for logging.
func redact(secret string) string {
	if len(secret) <= 10 {
		return secret[:len(secret)/2] + "..."
	}
	return secret[:10] + "..."
}
