package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/gradle"
	"github.com/abtkit/abt/internal/models"
)

// ProjectRegistry stores Project records in <dir>/projects.json.
type ProjectRegistry struct {
	fs  filesystem.FileSystem
	doc *document[models.ProjectsDocument]
}

// NewProjectRegistry creates a registry rooted at dir. The file is created on
// first access.
func NewProjectRegistry(fs filesystem.FileSystem, dir string) *ProjectRegistry {
	return &ProjectRegistry{
		fs: fs,
		doc: &document[models.ProjectsDocument]{
			fs:     fs,
			path:   filepath.Join(dir, ProjectsFile),
			schema: "projects.schema.json",
			empty: func() *models.ProjectsDocument {
				return &models.ProjectsDocument{Projects: []models.Project{}}
			},
		},
	}
}

// Path returns the registry file location.
func (r *ProjectRegistry) Path() string {
	return r.doc.path
}

// List returns every project in registry order.
func (r *ProjectRegistry) List() ([]models.Project, error) {
	doc, err := r.doc.read()
	if err != nil {
		return nil, err
	}
	return doc.Projects, nil
}

// Get returns the project called name.
func (r *ProjectRegistry) Get(name string) (*models.Project, error) {
	projects, err := r.List()
	if err != nil {
		return nil, err
	}
	i := indexOfProject(projects, name)
	if i < 0 {
		return nil, errs.NotFound("project %q not found", name)
	}
	return &projects[i], nil
}

// Add appends a project. The name must be unused and the path must contain the
// Gradle wrapper.
func (r *ProjectRegistry) Add(project models.Project) error {
	if err := r.validate(project); err != nil {
		return err
	}
	if err := r.checkLauncher(project.Path); err != nil {
		return err
	}

	return r.doc.update(func(doc *models.ProjectsDocument) error {
		if indexOfProject(doc.Projects, project.Name) >= 0 {
			return errs.InvalidRequest("project %q already exists", project.Name)
		}
		doc.Projects = append(doc.Projects, project)
		return nil
	})
}

// Update replaces the project called name. An empty project.Name keeps the
// existing name; renaming onto another project's name is rejected. The wrapper
// is checked again only when the path changed.
func (r *ProjectRegistry) Update(name string, project models.Project) error {
	if project.Name == "" {
		project.Name = name
	}
	if err := r.validate(project); err != nil {
		return err
	}

	return r.doc.update(func(doc *models.ProjectsDocument) error {
		i := indexOfProject(doc.Projects, name)
		if i < 0 {
			return errs.NotFound("project %q not found", name)
		}
		if project.Name != name && indexOfProject(doc.Projects, project.Name) >= 0 {
			return errs.InvalidRequest("project %q already exists", project.Name)
		}
		if filepath.Clean(doc.Projects[i].Path) != filepath.Clean(project.Path) {
			if err := r.checkLauncher(project.Path); err != nil {
				return err
			}
		}
		doc.Projects[i] = project
		return nil
	})
}

// Delete removes the project called name.
func (r *ProjectRegistry) Delete(name string) error {
	return r.doc.update(func(doc *models.ProjectsDocument) error {
		i := indexOfProject(doc.Projects, name)
		if i < 0 {
			return errs.NotFound("project %q not found", name)
		}
		doc.Projects = slices.Delete(doc.Projects, i, i+1)
		return nil
	})
}

func (r *ProjectRegistry) validate(project models.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return errs.InvalidRequest("project name is required")
	}
	if strings.TrimSpace(project.Path) == "" {
		return errs.InvalidRequest("project path is required")
	}
	return nil
}

func (r *ProjectRegistry) checkLauncher(root string) error {
	if !r.fs.Exists(gradle.LauncherPath(root)) {
		return errs.Configuration("%s not found in %s, check the project path", gradle.LauncherName(), root)
	}
	return nil
}

func indexOfProject(projects []models.Project, name string) int {
	return slices.IndexFunc(projects, func(p models.Project) bool {
		return p.Name == name
	})
}
