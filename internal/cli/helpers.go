package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/config"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/files"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/render"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	vaultFlag    string
	configFlag   string
	logLevelFlag string
	colorFlag    string
	endFlag      string

	cfg   config.Config
	vault *files.Vault
	log   *slog.Logger

	// interactive reports whether prompts and the TUI may take over stdin.
	interactive func() bool
}

func newApp() *app {
	return &app{interactive: stdinIsTerminal}
}

// load resolves configuration, the vault and the logger. It runs before
// every subcommand.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFlag, a.vaultFlag, config.Overrides{
		LogLevel:   a.logLevelFlag,
		Color:      a.colorFlag,
		SectionEnd: a.endFlag,
	})
	if err != nil {
		return err
	}

	vault, err := files.NewVault(cfg.Vault)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.vault = vault
	a.log = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, false)
	return nil
}

// processor builds a processor drawing with charter.
func (a *app) processor(charter tracker.Charter) *tracker.Processor {
	return tracker.NewProcessor(a.vault, charter, a.cfg.End(), a.log)
}

// terminal returns a terminal surface for out along with a processor that
// draws bar charts with the surface's colour profile.
func (a *app) terminal(out io.Writer) (*render.Terminal, *tracker.Processor) {
	surface := render.NewTerminal(out, a.cfg.ColorMode())
	return surface, a.processor(surface.Charter(a.cfg.BarWidth))
}

func newLogger(w io.Writer, level string, json bool) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

type outputFormat string

const (
	formatText outputFormat = "text"
	formatHTML outputFormat = "html"
)

func parseFormat(value string) (outputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text":
		return formatText, nil
	case "html":
		return formatHTML, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected text|html)", value)
	}
}

// openOutput returns the command's stdout, or a created file when path is
// set. The returned close func is always safe to call.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

// renderHTMLPage draws each source as its own HTML block and writes a page.
// Warnings are shown inside their block; the first one is returned once the
// page has been written.
func (a *app) renderHTMLPage(cmd *cobra.Command, w io.Writer, title string, headings, sources []string) error {
	p := a.processor(chart.ChartJS{})
	sections := make([]render.Section, 0, len(sources))
	var warning error
	for i, source := range sources {
		surface := render.NewHTML()
		if err := p.Render(cmd.Context(), source, surface); err != nil {
			if !tracker.IsWarning(err) {
				return err
			}
			if warning == nil {
				warning = err
			}
		}
		sections = append(sections, render.Section{Heading: headings[i], Block: surface})
	}
	if err := render.Page(w, title, sections); err != nil {
		return err
	}
	return warning
}
