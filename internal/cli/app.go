package cli

import (
	"fmt"
	"io"

	"github.com/abtkit/abt/internal/config"
	"github.com/abtkit/abt/internal/github"
	"github.com/abtkit/abt/internal/gradle"
	"github.com/abtkit/abt/internal/logging"
	"github.com/abtkit/abt/internal/models"
	"github.com/abtkit/abt/internal/publish"
	"github.com/abtkit/abt/internal/registry"
	"github.com/abtkit/abt/internal/tui"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by every subcommand once the configuration has
// been resolved.
type app struct {
	deps Dependencies
	v    *viper.Viper

	cfg      *config.Config
	log      logr.Logger
	projects *registry.ProjectRegistry
	profiles *registry.ProfileRegistry
}

func newApp(deps Dependencies) *app {
	return &app{deps: deps, v: config.New()}
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.deps.FS)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	if cfg.File != "" {
		a.log.V(1).Info("using config file", "path", cfg.File)
	}

	if cfg.GitHubBaseURL != "" {
		if _, err := github.NewClientWithBaseURL("", cfg.GitHubBaseURL); err != nil {
			return err
		}
	}

	a.projects = registry.NewProjectRegistry(a.deps.FS, cfg.RegistryDir)
	a.profiles = registry.NewProfileRegistry(a.deps.FS, cfg.RegistryDir)
	a.log.V(1).Info("registries", "projects", a.projects.Path(), "platforms", a.profiles.Path())
	return nil
}

// interactive reports whether prompts, spinners and progress bars may be
// drawn on w.
func (a *app) interactive(w io.Writer) bool {
	if a.deps.Interactive != nil {
		return *a.deps.Interactive
	}
	return !a.cfg.NoSpinner && tui.IsTerminal(w)
}

func (a *app) orchestrator() *gradle.Orchestrator {
	return gradle.NewOrchestrator(a.deps.FS, a.deps.Runner, a.projects, a.log)
}

// publisher wires every platform strategy. progress receives the pgyer
// upload bar when non-nil.
func (a *app) publisher(progress io.Writer) *publish.Service {
	pgyer := publish.NewSignedUpload(a.deps.FS, a.log)
	pgyer.BaseURL = a.cfg.PgyerBaseURL
	pgyer.MaxAttempts = a.cfg.PgyerMaxAttempts
	pgyer.Progress = progress
	if a.deps.HTTPClient != nil {
		pgyer.Client = a.deps.HTTPClient
	}
	if a.deps.Sleep != nil {
		pgyer.Sleep = a.deps.Sleep
	}

	return publish.NewService(a.deps.FS, publish.Strategies{
		models.PlatformPgyer:  pgyer,
		models.PlatformFir:    publish.NewDelegatedCLI(a.deps.FS, a.deps.Runner, a.log),
		models.PlatformGitHub: publish.NewReleaseAsset(a.releaseClient, a.log),
	}, a.log)
}

func (a *app) releaseClient(token string) github.ReleaseClient {
	if a.deps.NewReleaseClient != nil {
		return a.deps.NewReleaseClient(token)
	}
	if a.cfg.GitHubBaseURL == "" {
		return github.NewClient(token)
	}
	// base URL was validated in init
	c, _ := github.NewClientWithBaseURL(token, a.cfg.GitHubBaseURL)
	return c
}

// confirm asks before a destructive change unless --yes was given. Without a
// terminal to prompt on, the change is refused.
func (a *app) confirm(cmd *cobra.Command, message string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	if !a.interactive(cmd.OutOrStdout()) {
		return false, fmt.Errorf("confirmation required, pass --yes to run non-interactively")
	}

	ok, err := tui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), message)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
	}
	return ok, nil
}
