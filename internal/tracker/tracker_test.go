package tracker

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
)

type memoryStore struct {
	docs     []Document
	contents map[string]string
	listErr  error
	readErr  error
	listed   int
}

func (s *memoryStore) Documents(ctx context.Context) ([]Document, error) {
	s.listed++
	return s.docs, s.listErr
}

func (s *memoryStore) Read(ctx context.Context, doc Document) (string, error) {
	if s.readErr != nil {
		return "", s.readErr
	}
	return s.contents[doc.Path], nil
}

func newMemoryStore(notes map[string]string) *memoryStore {
	s := &memoryStore{contents: map[string]string{}}
	for name, content := range notes {
		path := name + ".md"
		s.docs = append(s.docs, Document{Basename: name, Path: path})
		s.contents[path] = content
	}
	return s
}

type canvasContext struct {
	bytes.Buffer
}

func (c *canvasContext) ID() string { return "canvas" }

type recordingSurface struct {
	lines     []Line
	canvas    *canvasContext
	canvasErr error
}

func (s *recordingSurface) Text(line Line) { s.lines = append(s.lines, line) }

func (s *recordingSurface) Canvas() (chart.Context, error) {
	if s.canvasErr != nil {
		return nil, s.canvasErr
	}
	s.canvas = &canvasContext{}
	return s.canvas, nil
}

func (s *recordingSurface) warnings() []string {
	var out []string
	for _, l := range s.lines {
		if l.Level == LevelWarn {
			out = append(out, l.Text)
		}
	}
	return out
}

type recordingCharter struct {
	configs []chart.Config
	err     error
}

func (c *recordingCharter) Draw(dc chart.Context, cfg chart.Config) error {
	c.configs = append(c.configs, cfg)
	return c.err
}

const weekNote = "# Log\n\n## Week1\n`A:1:00:00`\n`B:0:30:00`\nA:0:10:00\n\n## Week2\nC:1:00:00\n\n"

func TestParseDirectives(t *testing.T) {
	d, err := ParseDirectives("file:Notes\nsection:Week1\n")
	require.NoError(t, err)
	assert.Equal(t, Directives{File: "Notes", Section: "Week1"}, d)
}

func TestParseDirectivesFirstMatchAndTruncation(t *testing.T) {
	d, err := ParseDirectives("section:Week:1\nfile:Daily\nfile:Other\n")
	require.NoError(t, err)
	assert.Equal(t, "Daily", d.File)
	assert.Equal(t, "Week", d.Section)
}

func TestParseDirectivesErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{"no file", "section:Week1", ErrFileNotDefined},
		{"no section", "file:Notes", ErrSectionNotDefined},
		{"both missing reports file", "hello", ErrFileNotDefined},
		{"empty file value", "file:\nsection:Week1", ErrFileValueNotDefined},
		{"empty section value", "file:Notes\nsection:", ErrSectionValueNotDefined},
		{"missing line before missing value", "file:\nfoo", ErrSectionNotDefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDirectives(tt.source)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDirectivesSourceRoundTrips(t *testing.T) {
	d := Directives{File: "Notes", Section: "Week1"}
	got, err := ParseDirectives(d.Source())
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestExtractSection(t *testing.T) {
	lines := SplitLines(weekNote)

	got, err := ExtractSection(lines, "Week1", SectionEndHeading)
	require.NoError(t, err)
	assert.Equal(t, []string{"## Week1", "`A:1:00:00`", "`B:0:30:00`", "A:0:10:00"}, got)
}

func TestExtractSectionDropsRowAboveNextHeading(t *testing.T) {
	lines := []string{"## W", "A:1:00:00", "B:1:00:00", "# next"}

	got, err := ExtractSection(lines, "W", SectionEndHeading)
	require.NoError(t, err)
	assert.Equal(t, []string{"## W", "A:1:00:00"}, got)
}

func TestExtractSectionUnterminated(t *testing.T) {
	lines := []string{"# Log", "## Last", "A:1:00:00"}

	got, err := ExtractSection(lines, "Last", SectionEndHeading)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ExtractSection(lines, "Last", SectionEndDocument)
	require.NoError(t, err)
	assert.Equal(t, []string{"## Last", "A:1:00:00"}, got)
}

func TestExtractSectionHeadingIsLastLine(t *testing.T) {
	got, err := ExtractSection([]string{"A:1:00:00", "## Week9"}, "Week9", SectionEndHeading)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractSectionMissing(t *testing.T) {
	_, err := ExtractSection(SplitLines(weekNote), "Week7", SectionEndHeading)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestParseSectionEnd(t *testing.T) {
	end, err := ParseSectionEnd("")
	require.NoError(t, err)
	assert.Equal(t, SectionEndHeading, end)

	end, err = ParseSectionEnd("Document")
	require.NoError(t, err)
	assert.Equal(t, SectionEndDocument, end)
	assert.Equal(t, "document", end.String())

	_, err = ParseSectionEnd("sometimes")
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	summary := Aggregate(ParseRecords([]string{"## Week1", "`A:1:00:00`", "B:0:30:00", "A:0:10:00"}))

	require.Len(t, summary.Entries, 2)
	assert.Equal(t, "A", summary.Entries[0].Title)
	assert.Equal(t, 4200.0, summary.Entries[0].Seconds)
	assert.Equal(t, "B", summary.Entries[1].Title)
	assert.Equal(t, 1800.0, summary.Entries[1].Seconds)
	assert.Equal(t, 6000.0, summary.Total)
	assert.Equal(t, "70.00", summary.Entries[0].PercentText())
	assert.Equal(t, "30.00", summary.Entries[1].PercentText())
	assert.Equal(t, []float64{70, 30}, summary.Percentages())
	assert.Equal(t, []string{"A", "B"}, summary.Titles())
}

func TestParseRecordsKeepsOnlyRowsWithHours(t *testing.T) {
	records := ParseRecords([]string{"## Week1", "", "plain prose", "A:1", "B:0:1:2:3"})

	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Title)
	assert.True(t, math.IsNaN(records[0].Total()), "missing minutes should poison the total")
	assert.Equal(t, float64(62), records[1].Total())
}

func TestAggregateNaNPropagates(t *testing.T) {
	summary := Aggregate(ParseRecords([]string{"A:1:00:00", "B:x:00:00"}))

	require.Len(t, summary.Entries, 2)
	assert.True(t, math.IsNaN(summary.Total))
	assert.Equal(t, "NaN", summary.Entries[0].PercentText())
	assert.Equal(t, "undefined", summary.Entries[1].Duration())
}

func TestAggregateZeroTotal(t *testing.T) {
	summary := Aggregate(ParseRecords([]string{"A:0:00:00"}))
	require.Len(t, summary.Entries, 1)
	assert.Equal(t, "0:00:00", summary.Entries[0].Duration())
	assert.Equal(t, "NaN", summary.Entries[0].PercentText())

	summary = Aggregate(ParseRecords([]string{"A:1:00:00", "B:-1:00:00"}))
	assert.Equal(t, "Infinity", summary.Entries[0].PercentText())
	assert.Equal(t, "-Infinity", summary.Entries[1].PercentText())
	assert.True(t, math.IsInf(summary.Percentages()[0], 1))
}

func TestAggregateRoundsHalvesUp(t *testing.T) {
	summary := Aggregate(ParseRecords([]string{"A:0:00:36", "B:7:59:24"}))
	require.Len(t, summary.Entries, 2)
	assert.Equal(t, "0.13", summary.Entries[0].PercentText())
	assert.Equal(t, "99.88", summary.Entries[1].PercentText())
	assert.Equal(t, []float64{0.13, 99.88}, summary.Percentages())

	summary = Aggregate(ParseRecords([]string{"A:0:00:03", "B:0:13:17"}))
	assert.Equal(t, "0.38", summary.Entries[0].PercentText())
	assert.Equal(t, "99.63", summary.Entries[1].PercentText())
}

func TestAggregateDigitSeparatorPoisonsTotal(t *testing.T) {
	summary := Aggregate(ParseRecords([]string{"A:1_000:00:00", "B:1:00:00"}))
	require.Len(t, summary.Entries, 2)
	assert.True(t, math.IsNaN(summary.Entries[0].Seconds))
	assert.Equal(t, "undefined", summary.Entries[0].Duration())
	assert.Equal(t, "NaN", summary.Entries[1].PercentText())
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)
	assert.Empty(t, summary.Entries)
	assert.Zero(t, summary.Total)
}

func TestProcessorRender(t *testing.T) {
	store := newMemoryStore(map[string]string{"Notes": weekNote})
	charter := &recordingCharter{}
	surface := &recordingSurface{}

	p := NewProcessor(store, charter, SectionEndHeading, nil)
	require.NoError(t, p.Render(context.Background(), "file:Notes\nsection:Week1\n", surface))

	assert.Empty(t, surface.warnings())
	require.Len(t, surface.lines, 3)
	assert.Equal(t, Line{Text: "file: Notes | section: Week1", Level: LevelInfo, Size: SizeSmall}, surface.lines[0])
	assert.Equal(t, Line{Text: "A: 1:10:00, 70.00%", Level: LevelInfo, Size: SizeEntry}, surface.lines[1])
	assert.Equal(t, Line{Text: "B: 0:30:00, 30.00%", Level: LevelInfo, Size: SizeEntry}, surface.lines[2])

	require.Len(t, charter.configs, 1)
	cfg := charter.configs[0]
	assert.Equal(t, "pie", cfg.Type)
	assert.Equal(t, []string{"A", "B"}, cfg.Data.Labels)
	assert.Equal(t, []chart.Value{70, 30}, cfg.Data.Datasets[0].Data)
	assert.Equal(t, []string{"hsl(0, 100%, 50%)", "hsl(180, 100%, 50%)"}, cfg.Data.Datasets[0].BackgroundColor)
}

func TestProcessorRenderMissingFileSkipsLookup(t *testing.T) {
	store := newMemoryStore(map[string]string{"Notes": weekNote})
	surface := &recordingSurface{}

	err := NewProcessor(store, &recordingCharter{}, SectionEndHeading, nil).
		Render(context.Background(), "section:Week1", surface)

	assert.ErrorIs(t, err, ErrFileNotDefined)
	assert.Equal(t, []string{"file is not defined"}, surface.warnings())
	assert.Len(t, surface.lines, 1)
	assert.Zero(t, store.listed, "no lookup should happen")
}

func TestProcessorRenderWarnings(t *testing.T) {
	tests := []struct {
		name   string
		source string
		store  *memoryStore
		want   error
	}{
		{
			name:   "unknown file",
			source: "file:Missing\nsection:Week1",
			store:  newMemoryStore(map[string]string{"Notes": weekNote}),
			want:   ErrTargetFileNotFound,
		},
		{
			name:   "unknown section",
			source: "file:Notes\nsection:Week7",
			store:  newMemoryStore(map[string]string{"Notes": weekNote}),
			want:   ErrSectionNotFound,
		},
		{
			name:   "unreadable file",
			source: "file:Notes\nsection:Week1",
			store: func() *memoryStore {
				s := newMemoryStore(map[string]string{"Notes": weekNote})
				s.readErr = errors.New("permission denied")
				return s
			}(),
			want: ErrTargetFileUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charter := &recordingCharter{}
			surface := &recordingSurface{}

			err := NewProcessor(tt.store, charter, SectionEndHeading, nil).
				Render(context.Background(), tt.source, surface)

			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsWarning(err))
			warnings := surface.warnings()
			require.Len(t, warnings, 1)
			assert.True(t, strings.HasPrefix(warnings[0], tt.want.Error()), warnings[0])
			assert.Empty(t, charter.configs)
			assert.Nil(t, surface.canvas)
		})
	}
}

func TestProcessorRenderWithoutCanvas(t *testing.T) {
	store := newMemoryStore(map[string]string{"Notes": weekNote})
	charter := &recordingCharter{}
	surface := &recordingSurface{canvasErr: errors.New("no 2d context")}

	err := NewProcessor(store, charter, SectionEndHeading, nil).
		Render(context.Background(), "file:Notes\nsection:Week1", surface)

	assert.ErrorIs(t, err, ErrChartContainerNotFound)
	assert.Equal(t, []string{"chart container is not found"}, surface.warnings())
	assert.Empty(t, charter.configs)
}

func TestProcessorResolveFirstMatchWins(t *testing.T) {
	store := &memoryStore{
		docs: []Document{
			{Basename: "Notes", Path: "a/Notes.md"},
			{Basename: "Notes", Path: "b/Notes.md"},
		},
	}

	doc, err := NewProcessor(store, nil, SectionEndHeading, nil).Resolve(context.Background(), "Notes")
	require.NoError(t, err)
	assert.Equal(t, "a/Notes.md", doc.Path)
}

func TestProcessorSummarizeSectionEndDocument(t *testing.T) {
	store := newMemoryStore(map[string]string{"Notes": "## Tail\nA:0:01:00\nB:0:03:00"})

	summary, err := NewProcessor(store, nil, SectionEndDocument, nil).
		Summarize(context.Background(), Directives{File: "Notes", Section: "Tail"})
	require.NoError(t, err)
	require.Len(t, summary.Entries, 2)
	assert.Equal(t, "25.00", summary.Entries[0].PercentText())

	summary, err = NewProcessor(store, nil, SectionEndHeading, nil).
		Summarize(context.Background(), Directives{File: "Notes", Section: "Tail"})
	require.NoError(t, err)
	assert.Empty(t, summary.Entries)
}
