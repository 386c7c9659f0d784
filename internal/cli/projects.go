package cli

import (
	"fmt"
	"strings"

	"github.com/abtkit/abt/internal/models"
	"github.com/abtkit/abt/internal/tui"
	"github.com/spf13/cobra"
)

// ProjectsCommand manages the project registry
type ProjectsCommand struct {
	app *app
}

// NewProjectsCommand creates the projects command group
func NewProjectsCommand(a *app) *cobra.Command {
	c := &ProjectsCommand{app: a}

	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage registered projects",
		Long: `Manage the Android projects abt can build.

A project's path must contain the Gradle wrapper (gradlew, gradlew.bat on
Windows). The first module and variant listed are the build defaults.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		Args:  cobra.NoArgs,
		RunE:  c.List,
	}
	list.Flags().Bool("json", false, "Print the projects as JSON")

	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a project",
		Example: `  # Register a single-module project
  abt projects add demo --path ~/src/demo --module app

  # With product flavors and a release default
  abt projects add shop --path ~/src/shop --module app --variant free --variant paid --build-type Release

  # Fill in the fields interactively
  abt projects add --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.Add,
	}
	addProjectFlags(add)
	add.Flags().BoolP("interactive", "i", false, "Prompt for the project fields")

	update := &cobra.Command{
		Use:   "update <name>",
		Short: "Change a registered project",
		Long: `Change a registered project. Only the flags given are applied; pass an
empty value (--module "") to clear a list.`,
		Args: cobra.ExactArgs(1),
		RunE: c.Update,
	}
	addProjectFlags(update)
	update.Flags().String("name", "", "Rename the project")

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a project from the registry",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Delete,
	}
	del.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(list, add, update, del)
	return cmd
}

func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().String("path", "", "Project root containing the Gradle wrapper")
	cmd.Flags().StringSlice("module", nil, "Gradle module (repeatable, first is the default)")
	cmd.Flags().StringSlice("variant", nil, "Product flavor (repeatable, first is the default)")
	cmd.Flags().String("build-type", "", "Default build type, e.g. Debug or Release")
}

func (c *ProjectsCommand) List(cmd *cobra.Command, args []string) error {
	projects, err := c.app.projects.List()
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), models.ProjectsDocument{Projects: projects})
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintf(out, "No projects registered (%s)\n", c.app.projects.Path())
		return nil
	}

	tw := newTable(out, "Name", "Path", "Modules", "Variants", "Build type")
	for _, p := range projects {
		modules := p.Modules
		if len(modules) == 0 && p.DefaultModule != nil {
			modules = []string{*p.DefaultModule}
		}
		variants := p.Variants
		if len(variants) == 0 && p.DefaultVariant != nil {
			variants = []string{*p.DefaultVariant}
		}
		tw.AppendRow([]any{p.Name, p.Path, joinOrDash(modules), joinOrDash(variants), orDash(p.BuildType)})
	}
	tw.Render()
	return nil
}

func (c *ProjectsCommand) Add(cmd *cobra.Command, args []string) error {
	var project models.Project

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		p, err := tui.NewForms(!c.app.interactive(cmd.OutOrStdout())).Project()
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
		project = *p
	} else {
		if len(args) == 0 {
			return fmt.Errorf("project name is required (or use --interactive)")
		}
		project.Name = args[0]
		applyProjectFlags(cmd, &project)
	}

	if err := c.app.projects.Add(project); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.SuccessStyle.Render("✓ Added project"), project.Name)
	return nil
}

func (c *ProjectsCommand) Update(cmd *cobra.Command, args []string) error {
	existing, err := c.app.projects.Get(args[0])
	if err != nil {
		return err
	}

	updated := *existing
	if cmd.Flags().Changed("name") {
		updated.Name, _ = cmd.Flags().GetString("name")
	}
	applyProjectFlags(cmd, &updated)

	if err := c.app.projects.Update(args[0], updated); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.SuccessStyle.Render("✓ Updated project"), updated.Name)
	return nil
}

func (c *ProjectsCommand) Delete(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, err := c.app.projects.Get(name); err != nil {
		return err
	}

	ok, err := c.app.confirm(cmd, fmt.Sprintf("Delete project %s?", name))
	if err != nil || !ok {
		return err
	}

	if err := c.app.projects.Delete(name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.SuccessStyle.Render("✓ Deleted project"), name)
	return nil
}

// applyProjectFlags copies the flags the user set onto project.
func applyProjectFlags(cmd *cobra.Command, project *models.Project) {
	flags := cmd.Flags()
	if flags.Changed("path") {
		project.Path, _ = flags.GetString("path")
	}
	if flags.Changed("module") {
		modules, _ := flags.GetStringSlice("module")
		project.Modules = nonEmpty(modules)
		project.DefaultModule = nil
	}
	if flags.Changed("variant") {
		variants, _ := flags.GetStringSlice("variant")
		project.Variants = nonEmpty(variants)
		project.DefaultVariant = nil
	}
	if flags.Changed("build-type") {
		buildType, _ := flags.GetString("build-type")
		project.BuildType = models.StringPtr(strings.TrimSpace(buildType))
	}
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
