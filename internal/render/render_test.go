package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

type staticStore map[string]string

func (s staticStore) Documents(ctx context.Context) ([]tracker.Document, error) {
	var docs []tracker.Document
	for name := range s {
		docs = append(docs, tracker.Document{Basename: name, Path: name})
	}
	return docs, nil
}

func (s staticStore) Read(ctx context.Context, doc tracker.Document) (string, error) {
	return s[doc.Path], nil
}

var notes = staticStore{"Log": "## Week1\nA:1:00:00\nB:0:30:00\nA:0:10:00\n\n# End\n"}

func TestTerminalRendersSummary(t *testing.T) {
	var out bytes.Buffer
	surface := NewTerminal(&out, ColorNever)
	p := tracker.NewProcessor(notes, surface.Charter(20), tracker.SectionEndHeading, nil)

	require.NoError(t, p.Render(context.Background(), "file:Log\nsection:Week1", surface))

	got := out.String()
	assert.Contains(t, got, "file: Log | section: Week1\n")
	assert.Contains(t, got, "A: 1:10:00, 70.00%\n")
	assert.Contains(t, got, "B: 0:30:00, 30.00%\n")
	assert.Contains(t, got, chart.Title)
	assert.Equal(t, 20, strings.Count(got, "█"), "bars for 70% and 30% fill one full width")
	assert.NotContains(t, got, "\x1b[", "ColorNever output must be plain")
}

func TestTerminalRendersWarning(t *testing.T) {
	var out bytes.Buffer
	surface := NewTerminal(&out, ColorNever)
	p := tracker.NewProcessor(notes, surface.Charter(20), tracker.SectionEndHeading, nil)

	err := p.Render(context.Background(), "section:Week1", surface)
	assert.ErrorIs(t, err, tracker.ErrFileNotDefined)
	assert.Equal(t, "file is not defined\n", out.String())
}

func TestTerminalColorAlwaysStyles(t *testing.T) {
	var out bytes.Buffer
	NewTerminal(&out, ColorAlways).Text(tracker.Line{Text: "oops", Level: tracker.LevelWarn, Size: tracker.SizeSmall})
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "oops")
}

func TestParseColorMode(t *testing.T) {
	mode, err := ParseColorMode("never")
	require.NoError(t, err)
	assert.Equal(t, ColorNever, mode)

	mode, err = ParseColorMode("")
	require.NoError(t, err)
	assert.Equal(t, ColorAuto, mode)

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestHTMLRendersBlock(t *testing.T) {
	surface := NewHTML()
	surface.newID = func() string { return "chart-container-test" }
	p := tracker.NewProcessor(notes, chart.ChartJS{}, tracker.SectionEndHeading, nil)

	require.NoError(t, p.Render(context.Background(), "file:Log\nsection:Week1", surface))

	var out bytes.Buffer
	require.NoError(t, surface.Render(&out))
	got := out.String()

	assert.True(t, strings.HasPrefix(got, `<div class="time-tracker">`), got)
	assert.Contains(t, got, `<p style="color: green; font-size: 11px">file: Log | section: Week1</p>`)
	assert.Contains(t, got, `<p style="color: green; font-size: 14px">A: 1:10:00, 70.00%</p>`)
	assert.Contains(t, got, `<canvas id="chart-container-test"></canvas>`)
	assert.Contains(t, got, `<script>new Chart(document.getElementById("chart-container-test")`)
	assert.Contains(t, got, `"backgroundColor":["hsl(0, 100%, 50%)","hsl(180, 100%, 50%)"]`)
}

func TestHTMLWarningEscapesText(t *testing.T) {
	surface := NewHTML()
	surface.Text(tracker.Line{Text: "<b>bad</b>", Level: tracker.LevelWarn, Size: tracker.SizeSmall})

	var out bytes.Buffer
	require.NoError(t, surface.Render(&out))
	assert.Contains(t, out.String(), `<p style="color: red; font-size: 11px">&lt;b&gt;bad&lt;/b&gt;</p>`)
}

func TestHTMLCanvasIDsAreUnique(t *testing.T) {
	surface := NewHTML()
	first, err := surface.Canvas()
	require.NoError(t, err)
	second, err := surface.Canvas()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.ID(), canvasIDPrefix))
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestPage(t *testing.T) {
	block := NewHTML()
	block.Text(tracker.Line{Text: "hello", Level: tracker.LevelInfo, Size: tracker.SizeSmall})

	var out bytes.Buffer
	require.NoError(t, Page(&out, "Weekly", []Section{{Heading: "Block 1", Block: block}}))
	got := out.String()

	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>"), got)
	assert.Contains(t, got, `<script src="`+ChartJSURL+`"></script>`)
	assert.Contains(t, got, "<title>Weekly</title>")
	assert.Contains(t, got, "<h2>Block 1</h2>")
	assert.Contains(t, got, "hello")
}
