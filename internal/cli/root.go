package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/ui"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context) *cobra.Command {
	return newRootCommand(ctx, newApp())
}

func newRootCommand(ctx context.Context, a *app) *cobra.Command {
	var noteFlag string

	cmd := &cobra.Command{
		Use:   "ttsum",
		Short: "Summarise time tracker tables from your markdown notes.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if noteFlag == "" {
				return cmd.Help()
			}
			if !a.interactive() {
				return errors.New("the block browser needs a terminal; use `ttsum render` instead")
			}

			m := ui.NewModel(ctx, a.vault, ui.Options{
				Note:       noteFlag,
				Language:   a.cfg.Language,
				Color:      a.cfg.ColorMode(),
				SectionEnd: a.cfg.End(),
				BarWidth:   a.cfg.BarWidth,
				Log:        a.log,
			})
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.vaultFlag, "vault", "", "Vault directory (default: $TTSUM_VAULT or the working directory)")
	flags.StringVar(&a.configFlag, "config", "", "Config file (default: ~/.config/ttsum/config.yaml)")
	flags.StringVar(&a.logLevelFlag, "log-level", "", "Log level: debug|info|warn|error")
	flags.StringVar(&a.colorFlag, "color", "", "Colour output: auto|always|never")
	flags.StringVar(&a.endFlag, "section-end", "", "Where a section stops without a next heading: heading|document")
	cmd.Flags().StringVar(&noteFlag, "note", "", "Browse the summary blocks of a note interactively")

	cmd.AddCommand(
		newSummaryCommand(ctx, a),
		newRenderCommand(ctx, a),
		newNotesCommand(ctx, a),
		newServeCommand(ctx, a),
		newConfigCommand(a),
		newVersionCommand(),
	)

	return cmd
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	cmd := NewRootCommand(ctx)
	return cmd.ExecuteContext(ctx)
}

// Main is a helper used by cmd/ttsum/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
