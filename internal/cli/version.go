package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		// Printing the version must not depend on a loadable config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ttsum %s\n", version.Info())
		},
	}
}
