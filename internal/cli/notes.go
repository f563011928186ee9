package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newNotesCommand(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "List the notes a file: directive can refer to.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.vault.Documents(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintf(out, "No notes in %s\n", a.vault.BasePath())
				return nil
			}
			for _, doc := range docs {
				fmt.Fprintf(out, "%s\t%s\n", doc.Basename, a.vault.Relative(doc))
			}
			return nil
		},
	}
}
