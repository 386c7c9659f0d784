package cli

import (
	"fmt"
	"net/http"

	"github.com/abtkit/abt/internal/config"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/process"
	"github.com/abtkit/abt/internal/publish"
	"github.com/spf13/cobra"
)

// Dependencies are the side-effecting collaborators of the CLI. Tests replace
// them with mocks; zero values fall back to the real implementations.
type Dependencies struct {
	FS     filesystem.FileSystem
	Runner process.Runner

	// NewReleaseClient overrides the GitHub client construction
	NewReleaseClient publish.ReleaseClientFactory

	// HTTPClient and Sleep override the pgyer transport and poll wait
	HTTPClient *http.Client
	Sleep      publish.SleepFunc

	// Interactive forces prompts and spinners on or off; nil detects a terminal
	Interactive *bool
}

// NewRootCommand creates the root command
func NewRootCommand(deps Dependencies) *cobra.Command {
	app := newApp(deps)

	rootCmd := &cobra.Command{
		Use:   "abt",
		Short: "Build Android projects and publish the artifacts",
		Long: `A CLI tool for building registered Android projects with their Gradle
wrapper and publishing the resulting APK/AAB files to pgyer, fir.im or GitHub
releases.

Projects and publish platforms are kept in JSON registries under the
registry directory (--registry-dir, ABT_REGISTRY_DIR or abt.yaml).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyConfigFile, "", "Config file (default abt.yaml in the working or user config directory)")
	flags.String(config.KeyRegistryDir, "", "Directory holding projects.json and publish_platforms.json")
	flags.BoolP(config.KeyVerbose, "v", false, "Log diagnostics to stderr")
	flags.Bool(config.KeyNoSpinner, false, "Disable spinners, progress bars and prompts")
	for _, key := range []string{config.KeyConfigFile, config.KeyRegistryDir, config.KeyVerbose, config.KeyNoSpinner} {
		_ = app.v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(NewEnvCommand(app))
	rootCmd.AddCommand(NewProjectsCommand(app))
	rootCmd.AddCommand(NewPlatformsCommand(app))
	rootCmd.AddCommand(NewBuildCommand(app))
	rootCmd.AddCommand(NewPublishCommand(app))
	rootCmd.AddCommand(NewOpenCommand(app))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand(Dependencies{
		FS:     filesystem.NewOSFileSystem(),
		Runner: process.NewOSRunner(),
	})

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
