package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/abtkit/abt/internal/models"
)

// Forms runs the interactive huh forms. Accessible mode swaps the TUI for
// plain line prompts, which is also what tests drive.
type Forms struct {
	theme      *huh.Theme
	accessible bool
}

// NewForms creates the form runner with the CLI theme.
func NewForms(accessible bool) *Forms {
	return &Forms{theme: NewHuhTheme(), accessible: accessible}
}

func (f *Forms) run(groups ...*huh.Group) error {
	return huh.NewForm(groups...).
		WithTheme(f.theme).
		WithShowHelp(true).
		WithAccessible(f.accessible).
		Run()
}

// Project asks for a new project record. Returns nil on user abort.
func (f *Forms) Project() (*models.Project, error) {
	var (
		name, path, modules, variants string
		buildType                     = models.BuildTypeDebug
	)

	err := f.run(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&name).
				Validate(required("name")),
			huh.NewInput().
				Title("Path").
				Description("Project root containing the Gradle wrapper").
				Value(&path).
				Validate(required("path")),
		).Title("Project"),
		huh.NewGroup(
			huh.NewInput().
				Title("Modules").
				Description("Comma separated, first one is the default").
				Placeholder("app").
				Value(&modules),
			huh.NewInput().
				Title("Variants").
				Description("Comma separated product flavors, first one is the default").
				Value(&variants),
			huh.NewSelect[string]().
				Title("Build type").
				Options(
					huh.NewOption(models.BuildTypeDebug, models.BuildTypeDebug),
					huh.NewOption(models.BuildTypeRelease, models.BuildTypeRelease),
				).
				Value(&buildType),
		).Title("Build defaults"),
	)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	return &models.Project{
		Name:      strings.TrimSpace(name),
		Path:      strings.TrimSpace(path),
		Modules:   SplitList(modules),
		Variants:  SplitList(variants),
		BuildType: models.StringPtr(buildType),
	}, nil
}

// PickArtifact asks which of the staged artifacts to publish. Returns "" on
// user abort.
func (f *Forms) PickArtifact(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("no artifacts to choose from")
	}
	if len(paths) == 1 {
		return paths[0], nil
	}

	opts := make([]huh.Option[string], 0, len(paths))
	for _, p := range paths {
		opts = append(opts, huh.NewOption(filepath.Base(p), p))
	}

	picked := paths[0]
	err := f.run(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(opts...).
				Value(&picked),
		).
			Title("Artifact").
			Description("Select the artifact to publish."),
	)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}
	return picked, nil
}

func required(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// SplitList splits a comma separated list, dropping blanks. Returns nil for
// an empty list so the registry stores null.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
