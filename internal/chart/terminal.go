package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/timeutil"
)

const defaultBarWidth = 40

// Terminal draws a pie chart as one proportional bar per slice, coloured
// with the same hues the browser chart uses.
type Terminal struct {
	// Width is the length of a bar at 100%.
	Width int
	// Renderer decides the colour profile; nil uses lipgloss' default.
	Renderer *lipgloss.Renderer
}

func (t Terminal) style() lipgloss.Style {
	if t.Renderer != nil {
		return t.Renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// Draw renders cfg as text into dc.
func (t Terminal) Draw(dc Context, cfg Config) error {
	if dc == nil {
		return fmt.Errorf("terminal chart needs a drawing context")
	}

	width := t.Width
	if width <= 0 {
		width = defaultBarWidth
	}

	var values []Value
	if len(cfg.Data.Datasets) > 0 {
		values = cfg.Data.Datasets[0].Data
	}

	labelWidth := 0
	for _, label := range cfg.Data.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(label))
	}

	var b strings.Builder
	if cfg.Options.Plugins.Title.Display {
		b.WriteString(t.style().Bold(true).Render(cfg.Options.Plugins.Title.Text))
		b.WriteByte('\n')
	}

	for i, label := range cfg.Data.Labels {
		v := math.NaN()
		if i < len(values) {
			v = float64(values[i])
		}

		cells := barCells(v, width)
		bar := t.style().Foreground(hueColor(Hue(i, len(cfg.Data.Labels)))).Render(strings.Repeat("█", cells))
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))
		fmt.Fprintf(&b, "%s%s %s%s %s\n",
			label, pad,
			bar, strings.Repeat(" ", width-cells),
			t.style().Faint(true).Render(formatPercent(v)),
		)
	}

	_, err := dc.Write([]byte(b.String()))
	return err
}

func barCells(percent float64, width int) int {
	if math.IsNaN(percent) || percent <= 0 {
		return 0
	}
	if math.IsInf(percent, 1) || percent >= 100 {
		return width
	}
	return int(math.Round(percent / 100 * float64(width)))
}

func formatPercent(v float64) string {
	return timeutil.Fixed(v, 2) + "%"
}

func hueColor(h float64) lipgloss.Color {
	return lipgloss.Color(colorful.Hsl(h, 1, 0.5).Hex())
}
