package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect ttsum configuration.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show merged configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(a.cfg)
				if err != nil {
					return fmt.Errorf("marshal config: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "# Merged configuration (defaults + global + vault + env)")
				fmt.Fprint(out, string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file paths",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				out := cmd.OutOrStdout()
				global := config.GlobalPath()
				if a.configFlag != "" {
					global = a.configFlag
				}
				fmt.Fprintf(out, "Global: %s\n", global)
				fmt.Fprintf(out, "Vault:  %s\n", config.VaultPath(a.cfg.Vault))
			},
		},
	)

	return cmd
}
