package cli

import (
	"fmt"
	"strings"

	"github.com/abtkit/abt/internal/models"
	"github.com/abtkit/abt/internal/tui"
	"github.com/spf13/cobra"
)

// PlatformsCommand manages the publish-profile registry
type PlatformsCommand struct {
	app *app
}

// NewPlatformsCommand creates the platforms command group
func NewPlatformsCommand(a *app) *cobra.Command {
	c := &PlatformsCommand{app: a}

	cmd := &cobra.Command{
		Use:     "platforms",
		Aliases: []string{"platform", "profiles"},
		Short:   "Manage publish platforms",
		Long: `Manage the named publish profiles used by 'abt publish' and 'abt build --publish'.

Supported platforms:
  pgyer   needs --api-key
  fir     needs --api-token and go-fir-cli (on PATH or --go-fir-cli-path)
  github  needs --api-token and --repository owner/repo`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List publish platforms",
		Args:  cobra.NoArgs,
		RunE:  c.List,
	}
	list.Flags().Bool("json", false, "Print the profiles as JSON (secrets included)")

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a publish platform",
		Example: `  abt platforms add beta --platform pgyer --api-key $PGYER_API_KEY --description "Nightly build"
  abt platforms add fir --platform fir --api-token $FIR_TOKEN --go-fir-cli-path /opt/bin/go-fir-cli
  abt platforms add releases --platform github --api-token $GITHUB_TOKEN --repository acme/app`,
		Args: cobra.ExactArgs(1),
		RunE: c.Add,
	}
	addProfileFlags(add)

	update := &cobra.Command{
		Use:   "update <name>",
		Short: "Change a publish platform",
		Long:  "Change a publish platform. Only the flags given are applied; an empty value clears a field.",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Update,
	}
	addProfileFlags(update)
	update.Flags().String("name", "", "Rename the profile")

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a publish platform",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Delete,
	}
	del.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(list, add, update, del)
	return cmd
}

var profileStringFlags = []struct {
	flag  string
	usage string
	field func(p *models.PublishProfile) **string
}{
	{"api-key", "pgyer API key", func(p *models.PublishProfile) **string { return &p.APIKey }},
	{"api-token", "fir or GitHub API token", func(p *models.PublishProfile) **string { return &p.APIToken }},
	{"password", "Install password (pgyer)", func(p *models.PublishProfile) **string { return &p.Password }},
	{"description", "Default changelog text", func(p *models.PublishProfile) **string { return &p.DefaultDescription }},
	{"go-fir-cli-path", "Path to the go-fir-cli executable", func(p *models.PublishProfile) **string { return &p.GoFirCLIPath }},
	{"repository", "GitHub repository as owner/repo", func(p *models.PublishProfile) **string { return &p.Repository }},
	{"release-tag", "GitHub release tag (default: artifact name)", func(p *models.PublishProfile) **string { return &p.ReleaseTag }},
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("platform", "", "Platform: pgyer, fir or github")
	for _, f := range profileStringFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
}

func (c *PlatformsCommand) List(cmd *cobra.Command, args []string) error {
	profiles, err := c.app.profiles.List()
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), models.ProfilesDocument{Platforms: profiles})
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintf(out, "No publish platforms configured (%s)\n", c.app.profiles.Path())
		return nil
	}

	tw := newTable(out, "Name", "Platform", "API key", "API token", "Target", "Description")
	for _, p := range profiles {
		target := orDash(p.Repository)
		if p.Platform == models.PlatformFir {
			target = orDash(p.GoFirCLIPath)
		}
		tw.AppendRow([]any{p.Name, p.Platform, mask(p.APIKey), mask(p.APIToken), target, orDash(p.DefaultDescription)})
	}
	tw.Render()
	return nil
}

func (c *PlatformsCommand) Add(cmd *cobra.Command, args []string) error {
	profile := models.PublishProfile{Name: args[0]}
	applyProfileFlags(cmd, &profile)

	if err := c.app.profiles.Add(profile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.SuccessStyle.Render("✓ Added platform"), profile.Name)
	return nil
}

func (c *PlatformsCommand) Update(cmd *cobra.Command, args []string) error {
	existing, err := c.app.profiles.Get(args[0])
	if err != nil {
		return err
	}

	updated := *existing
	if cmd.Flags().Changed("name") {
		updated.Name, _ = cmd.Flags().GetString("name")
	}
	applyProfileFlags(cmd, &updated)

	if err := c.app.profiles.Update(args[0], updated); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.SuccessStyle.Render("✓ Updated platform"), updated.Name)
	return nil
}

func (c *PlatformsCommand) Delete(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, err := c.app.profiles.Get(name); err != nil {
		return err
	}

	ok, err := c.app.confirm(cmd, fmt.Sprintf("Delete publish platform %s?", name))
	if err != nil || !ok {
		return err
	}

	if err := c.app.profiles.Delete(name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.SuccessStyle.Render("✓ Deleted platform"), name)
	return nil
}

func applyProfileFlags(cmd *cobra.Command, profile *models.PublishProfile) {
	flags := cmd.Flags()
	if flags.Changed("platform") {
		platform, _ := flags.GetString("platform")
		profile.Platform = models.Platform(strings.TrimSpace(platform))
	}
	for _, f := range profileStringFlags {
		if !flags.Changed(f.flag) {
			continue
		}
		v, _ := flags.GetString(f.flag)
		*f.field(profile) = models.StringPtr(strings.TrimSpace(v))
	}
}
