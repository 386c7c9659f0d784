package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/models"
)

// ProfileRegistry stores PublishProfile records in <dir>/publish_platforms.json.
type ProfileRegistry struct {
	doc *document[models.ProfilesDocument]
}

func NewProfileRegistry(fs filesystem.FileSystem, dir string) *ProfileRegistry {
	return &ProfileRegistry{
		doc: &document[models.ProfilesDocument]{
			fs:     fs,
			path:   filepath.Join(dir, ProfilesFile),
			schema: "publish_platforms.schema.json",
			empty: func() *models.ProfilesDocument {
				return &models.ProfilesDocument{Platforms: []models.PublishProfile{}}
			},
		},
	}
}

func (r *ProfileRegistry) Path() string {
	return r.doc.path
}

func (r *ProfileRegistry) List() ([]models.PublishProfile, error) {
	doc, err := r.doc.read()
	if err != nil {
		return nil, err
	}
	return doc.Platforms, nil
}

func (r *ProfileRegistry) Get(name string) (*models.PublishProfile, error) {
	profiles, err := r.List()
	if err != nil {
		return nil, err
	}
	i := indexOfProfile(profiles, name)
	if i < 0 {
		return nil, errs.NotFound("publish profile %q not found", name)
	}
	return &profiles[i], nil
}

func (r *ProfileRegistry) Add(profile models.PublishProfile) error {
	if err := validateProfile(&profile); err != nil {
		return err
	}

	return r.doc.update(func(doc *models.ProfilesDocument) error {
		if indexOfProfile(doc.Platforms, profile.Name) >= 0 {
			return errs.InvalidRequest("publish profile %q already exists", profile.Name)
		}
		doc.Platforms = append(doc.Platforms, profile)
		return nil
	})
}

// Update replaces the profile called name. An empty profile.Name keeps the
// existing name.
func (r *ProfileRegistry) Update(name string, profile models.PublishProfile) error {
	if profile.Name == "" {
		profile.Name = name
	}
	if err := validateProfile(&profile); err != nil {
		return err
	}

	return r.doc.update(func(doc *models.ProfilesDocument) error {
		i := indexOfProfile(doc.Platforms, name)
		if i < 0 {
			return errs.NotFound("publish profile %q not found", name)
		}
		if profile.Name != name && indexOfProfile(doc.Platforms, profile.Name) >= 0 {
			return errs.InvalidRequest("publish profile %q already exists", profile.Name)
		}
		doc.Platforms[i] = profile
		return nil
	})
}

func (r *ProfileRegistry) Delete(name string) error {
	return r.doc.update(func(doc *models.ProfilesDocument) error {
		i := indexOfProfile(doc.Platforms, name)
		if i < 0 {
			return errs.NotFound("publish profile %q not found", name)
		}
		doc.Platforms = slices.Delete(doc.Platforms, i, i+1)
		return nil
	})
}

// validateProfile normalizes the platform tag and rejects unknown ones.
func validateProfile(profile *models.PublishProfile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return errs.InvalidRequest("publish profile name is required")
	}
	platform, err := models.ParsePlatform(string(profile.Platform))
	if err != nil {
		return errs.New(errs.KindConfiguration, "invalid publish profile", err)
	}
	profile.Platform = platform

	if repo := models.Deref(profile.Repository); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return errs.InvalidRequest("repository must be owner/repo, got %q", repo)
		}
	}
	return nil
}

func indexOfProfile(profiles []models.PublishProfile, name string) int {
	return slices.IndexFunc(profiles, func(p models.PublishProfile) bool {
		return p.Name == name
	})
}
