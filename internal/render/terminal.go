package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

// Palette shared with the TUI.
var (
	ColorGreen = lipgloss.Color("#8ec07c")
	ColorRed   = lipgloss.Color("#fb4934")
	ColorDim   = lipgloss.Color("#928374")
)

// ColorMode controls whether terminal output carries ANSI styling.
type ColorMode uint8

const (
	// ColorAuto styles output only when the writer is a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces styling.
	ColorAlways
	// ColorNever writes plain text.
	ColorNever
)

// ParseColorMode maps auto|always|never onto a ColorMode.
func ParseColorMode(value string) (ColorMode, error) {
	switch value {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (expected auto|always|never)", value)
	}
}

// Terminal is a surface that prints lines to a writer and draws the chart
// right below them.
type Terminal struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	info     lipgloss.Style
	entry    lipgloss.Style
	warn     lipgloss.Style
}

// NewTerminal builds a terminal surface writing to out.
func NewTerminal(out io.Writer, mode ColorMode) *Terminal {
	r := lipgloss.NewRenderer(out)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.TrueColor)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}

	return &Terminal{
		out:      out,
		renderer: r,
		info:     r.NewStyle().Foreground(ColorGreen).Faint(true),
		entry:    r.NewStyle().Foreground(ColorGreen).Bold(true),
		warn:     r.NewStyle().Foreground(ColorRed),
	}
}

// Text prints one styled line.
func (t *Terminal) Text(line tracker.Line) {
	style := t.info
	switch {
	case line.Level == tracker.LevelWarn:
		style = t.warn
	case line.Size >= tracker.SizeEntry:
		style = t.entry
	}
	fmt.Fprintln(t.out, style.Render(line.Text))
}

// Canvas hands out the writer itself as the drawing area, separated from
// the text by a blank line.
func (t *Terminal) Canvas() (chart.Context, error) {
	if t.out == nil {
		return nil, fmt.Errorf("terminal has no output")
	}
	if _, err := fmt.Fprintln(t.out); err != nil {
		return nil, err
	}
	return terminalCanvas{Writer: t.out}, nil
}

type terminalCanvas struct {
	io.Writer
}

func (terminalCanvas) ID() string { return "" }

// Charter returns a terminal chart drawer sharing this surface's colour profile.
func (t *Terminal) Charter(width int) chart.Terminal {
	return chart.Terminal{Width: width, Renderer: t.renderer}
}
