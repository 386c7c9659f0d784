package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/abtkit/abt/internal/models"
	"github.com/abtkit/abt/internal/notes"
	"github.com/abtkit/abt/internal/publish"
	"github.com/spf13/cobra"
)

// PublishCommand uploads existing artifacts
type PublishCommand struct {
	app *app
}

// publishOptions are the flags shared by publish and build --publish.
type publishOptions struct {
	profile     string
	description string
	password    string
	notesPath   string
}

// NewPublishCommand creates the publish command
func NewPublishCommand(a *app) *cobra.Command {
	cmd := &PublishCommand{app: a}

	cobraCmd := &cobra.Command{
		Use:   "publish <artifact>...",
		Short: "Upload APK/AAB files to a publish platform",
		Long: `Upload one or more .apk/.aab files using a named publish profile.

Artifacts are published in order; the first failure stops the run. A release
notes file (--notes) supplies the changelog and may name the profile and
install password in its YAML front matter:

  ---
  profile: beta
  password: s3cret
  ---
  Fixed the login crash.`,
		Example: `  abt publish build/out/app-release.apk --profile beta
  abt publish out/*.apk --notes RELEASE.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: cmd.Run,
	}

	addPublishFlags(cobraCmd, "profile")
	cobraCmd.Flags().Bool("json", false, "Print the results as JSON")

	return cobraCmd
}

func addPublishFlags(cmd *cobra.Command, profileFlag string) {
	cmd.Flags().String(profileFlag, "", "Publish profile name")
	cmd.Flags().String("description", "", "Changelog text (overrides the profile default and notes)")
	cmd.Flags().String("password", "", "Install password (overrides the profile)")
	cmd.Flags().String("notes", "", "Markdown release notes file")
}

func publishOptionsFromCmd(cmd *cobra.Command, profileFlag string) publishOptions {
	var opts publishOptions
	opts.profile, _ = cmd.Flags().GetString(profileFlag)
	opts.description, _ = cmd.Flags().GetString("description")
	opts.password, _ = cmd.Flags().GetString("password")
	opts.notesPath, _ = cmd.Flags().GetString("notes")
	return opts
}

func (c *PublishCommand) Run(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	results, err := c.app.publishArtifacts(cmd, args, publishOptionsFromCmd(cmd, "profile"))
	if err != nil {
		return err
	}

	if asJSON {
		if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		renderPublishResults(cmd.OutOrStdout(), args, results)
	}
	return publishError(results)
}

// publishArtifacts resolves the profile and overrides, then publishes paths
// in order.
func (a *app) publishArtifacts(cmd *cobra.Command, paths []string, opts publishOptions) ([]models.PublishResult, error) {
	overrides := publish.Overrides{
		Description: opts.description,
		Password:    opts.password,
	}
	profileName := opts.profile

	if opts.notesPath != "" {
		n, err := notes.Load(a.deps.FS, opts.notesPath)
		if err != nil {
			return nil, err
		}
		if overrides.Description == "" {
			overrides.Description = n.Body
		}
		if overrides.Password == "" {
			overrides.Password = n.Password
		}
		if profileName == "" {
			profileName = n.Profile
		}
	}

	if profileName == "" {
		return nil, fmt.Errorf("a publish profile is required (flag or notes front matter)")
	}
	profile, err := a.profiles.Get(profileName)
	if err != nil {
		return nil, err
	}

	var progress io.Writer
	if a.interactive(cmd.ErrOrStderr()) {
		progress = cmd.ErrOrStderr()
	}

	a.log.V(1).Info("publishing", "profile", profile.Name, "platform", profile.Platform, "artifacts", len(paths))
	return a.publisher(progress).PublishAll(cmd.Context(), paths, *profile, overrides), nil
}

func renderPublishResults(w io.Writer, paths []string, results []models.PublishResult) {
	for i, res := range results {
		renderPublishResult(w, filepath.Base(paths[i]), res)
	}
	if skipped := len(paths) - len(results); skipped > 0 {
		fmt.Fprintf(w, "Skipped %d remaining artifact(s)\n", skipped)
	}
}

// publishError turns a failed run into a command error so the exit status
// reflects it.
func publishError(results []models.PublishResult) error {
	if n := len(results); n > 0 && !results[n-1].Success {
		return fmt.Errorf("publish failed: %s", results[n-1].Message)
	}
	return nil
}
