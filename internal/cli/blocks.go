package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/notes"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

func newSummaryCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		fileFlag    string
		sectionFlag string
		formatFlag  string
		outFlag     string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarise one section of a note, like a single timeTracker block.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}

			if (fileFlag == "" || sectionFlag == "") && a.interactive() {
				if err := a.promptDirectives(ctx, &fileFlag, &sectionFlag); err != nil {
					return err
				}
			}
			source := tracker.Directives{File: fileFlag, Section: sectionFlag}.Source()

			w, closeOut, err := openOutput(cmd, outFlag)
			if err != nil {
				return err
			}
			defer closeOut()

			if format == formatHTML {
				return a.renderHTMLPage(cmd, w, chart.Title, []string{""}, []string{source})
			}

			surface, p := a.terminal(w)
			return p.Render(ctx, source, surface)
		},
	}

	cmd.Flags().StringVar(&fileFlag, "file", "", "Basename of the note holding the time table")
	cmd.Flags().StringVar(&sectionFlag, "section", "", "Text identifying the section heading")
	cmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text|html")
	cmd.Flags().StringVar(&outFlag, "out", "", "Write output to a file instead of stdout")

	return cmd
}

// promptDirectives asks for whichever of file and section is still empty.
func (a *app) promptDirectives(ctx context.Context, file, section *string) error {
	var fields []huh.Field

	if *file == "" {
		docs, err := a.vault.Documents(ctx)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no notes in %s", a.vault.BasePath())
		}
		options := make([]huh.Option[string], 0, len(docs))
		for _, doc := range docs {
			options = append(options, huh.NewOption(a.vault.Relative(doc), doc.Basename))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("File").
			Options(options...).
			Value(file))
	}

	if *section == "" {
		fields = append(fields, huh.NewInput().
			Title("Section").
			Placeholder("## Week 1").
			Value(section).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("section is required")
				}
				return nil
			}))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(false).RunWithContext(ctx)
}

func newRenderCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		formatFlag string
		outFlag    string
	)

	cmd := &cobra.Command{
		Use:   "render <note>",
		Short: "Render every timeTracker block of a note.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(args[0])
			doc, err := a.vault.Lookup(ctx, name)
			if err != nil {
				if errors.Is(err, tracker.ErrTargetFileNotFound) {
					return fmt.Errorf("note %q not found", name)
				}
				return err
			}
			content, err := a.vault.Read(ctx, doc)
			if err != nil {
				return err
			}

			blocks := notes.Blocks([]byte(content), a.cfg.Language)

			w, closeOut, err := openOutput(cmd, outFlag)
			if err != nil {
				return err
			}
			defer closeOut()

			if format == formatHTML {
				headings := make([]string, 0, len(blocks))
				sources := make([]string, 0, len(blocks))
				for _, block := range blocks {
					headings = append(headings, blockHeading(block))
					sources = append(sources, block.Source)
				}
				if err := a.renderHTMLPage(cmd, w, doc.Basename, headings, sources); err != nil && !tracker.IsWarning(err) {
					return err
				}
				return nil
			}

			if len(blocks) == 0 {
				fmt.Fprintf(w, "No %s blocks in %s\n", a.cfg.Language, a.vault.Relative(doc))
				return nil
			}

			surface, p := a.terminal(w)
			for i, block := range blocks {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, blockHeading(block))
				if err := p.Render(ctx, block.Source, surface); err != nil {
					if !tracker.IsWarning(err) {
						return err
					}
					a.log.Debug("block ended with warning", "note", name, "line", block.Line, "warning", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text|html")
	cmd.Flags().StringVar(&outFlag, "out", "", "Write output to a file instead of stdout")

	return cmd
}

func blockHeading(block notes.Block) string {
	return fmt.Sprintf("Block %d (line %d)", block.Index+1, block.Line)
}
