package cli

import (
	"fmt"

	"github.com/abtkit/abt/internal/reveal"
	"github.com/spf13/cobra"
)

// NewOpenCommand creates the open command
func NewOpenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <dir>",
		Short: "Reveal a directory in the system file manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := reveal.NewOpener(a.deps.FS, a.deps.Runner).Reveal(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", args[0])
			return nil
		},
	}
}
