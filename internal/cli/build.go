package cli

import (
	"fmt"

	"github.com/abtkit/abt/internal/models"
	"github.com/abtkit/abt/internal/tui"
	"github.com/spf13/cobra"
)

// BuildCommand runs a Gradle build for a registered project
type BuildCommand struct {
	app *app
}

type buildOutput struct {
	Project   string                 `json:"project"`
	Task      string                 `json:"task"`
	OutputDir string                 `json:"output_dir"`
	Staged    []string               `json:"staged"`
	Build     *models.BuildResult    `json:"build"`
	Publish   []models.PublishResult `json:"publish,omitempty"`
}

// NewBuildCommand creates the build command
func NewBuildCommand(a *app) *cobra.Command {
	cmd := &BuildCommand{app: a}

	cobraCmd := &cobra.Command{
		Use:   "build <project>",
		Short: "Build a registered project and stage its artifacts",
		Long: `Run ./gradlew assemble<Variant><BuildType> for a registered project.

Module, variant and build type default to the first entries registered for the
project (build type falls back to Debug). APK and AAB files found under the
module's build/outputs are copied into the output directory, which defaults to
<project>/<module>/<variant>/<BuildType>.

With --publish the staged artifacts are uploaded afterwards using the named
publish profile.`,
		Example: `  abt build demo
  abt build shop --variant paid --build-type Release --output-dir ./dist
  abt build shop --build-type Release --publish beta --notes RELEASE.md
  abt build demo --arg --offline --arg -Pci=true`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("module", "", "Gradle module")
	cobraCmd.Flags().String("variant", "", "Product flavor")
	cobraCmd.Flags().String("build-type", "", "Build type, e.g. Debug or Release")
	cobraCmd.Flags().String("output-dir", "", "Directory to stage the artifacts in (cleared first)")
	cobraCmd.Flags().StringArray("arg", nil, "Extra argument passed to Gradle (repeatable)")
	cobraCmd.Flags().Bool("json", false, "Print the result as JSON instead of the build log")
	addPublishFlags(cobraCmd, "publish")

	return cobraCmd
}

func (c *BuildCommand) Run(cmd *cobra.Command, args []string) error {
	name := args[0]
	flags := cmd.Flags()

	var req models.BuildRequest
	req.Module, _ = flags.GetString("module")
	req.Variant, _ = flags.GetString("variant")
	req.BuildType, _ = flags.GetString("build-type")
	req.OutputDir, _ = flags.GetString("output-dir")
	req.ExtraArgs, _ = flags.GetStringArray("arg")
	asJSON, _ := flags.GetBool("json")
	opts := publishOptionsFromCmd(cmd, "publish")

	stderr := cmd.ErrOrStderr()
	interactive := c.app.interactive(stderr)

	result, err := tui.Spin(stderr, fmt.Sprintf("Building %s", name), interactive, func() (*models.BuildResult, error) {
		return c.app.orchestrator().Build(cmd.Context(), name, req)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report := buildOutput{
		Project:   name,
		Task:      result.Params.Task,
		OutputDir: result.Params.OutputDir,
		Staged:    result.Staged,
		Build:     result,
	}

	if !asJSON {
		fmt.Fprintln(out, result.Output)
		if result.Succeeded() {
			fmt.Fprintf(out, "%s %s (%d artifact(s) in %s)\n", tui.SuccessStyle.Render("✅ Build succeeded:"), report.Task, len(result.Staged), report.OutputDir)
		} else {
			fmt.Fprintf(out, "%s %s exited with code %d\n", tui.ErrorStyle.Render("❌ Build failed:"), report.Task, result.Code)
		}
	}

	if !result.Succeeded() {
		if asJSON {
			_ = writeJSON(out, report)
		}
		return fmt.Errorf("build failed with exit code %d", result.Code)
	}

	if opts.profile == "" && opts.notesPath == "" {
		if asJSON {
			return writeJSON(out, report)
		}
		return nil
	}

	artifacts := result.Staged
	if len(artifacts) == 0 {
		return fmt.Errorf("no artifacts were staged, nothing to publish")
	}
	if interactive && len(artifacts) > 1 {
		picked, err := tui.NewForms(false).PickArtifact(artifacts)
		if err != nil {
			return err
		}
		if picked == "" {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
		artifacts = []string{picked}
	}

	results, err := c.app.publishArtifacts(cmd, artifacts, opts)
	if err != nil {
		return err
	}
	report.Publish = results

	if asJSON {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		renderPublishResults(out, artifacts, results)
	}
	return publishError(results)
}
