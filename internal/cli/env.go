package cli

import (
	"github.com/abtkit/abt/internal/envcheck"
	"github.com/abtkit/abt/internal/tui"
	"github.com/spf13/cobra"
)

// EnvCommand reports on the local build toolchain
type EnvCommand struct {
	app *app
}

// NewEnvCommand creates the env command
func NewEnvCommand(a *app) *cobra.Command {
	cmd := &EnvCommand{app: a}

	cobraCmd := &cobra.Command{
		Use:   "env",
		Short: "Check the local build toolchain",
		Long: `Check for a JDK, JAVA_HOME and the Xcode Command Line Tools.

Missing tools are reported, not treated as errors.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}
	cobraCmd.Flags().Bool("json", false, "Print the checks as JSON")

	return cobraCmd
}

func (c *EnvCommand) Run(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	checks := envcheck.Run(cmd.Context(), c.app.deps.Runner)
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), checks)
	}

	tw := newTable(cmd.OutOrStdout(), "Tool", "Status", "Message")
	for _, check := range checks {
		status := tui.ErrorStyle.Render("missing")
		if check.OK {
			status = tui.SuccessStyle.Render("ok")
		}
		tw.AppendRow([]any{check.Tool, status, check.Message})
	}
	tw.Render()
	return nil
}
