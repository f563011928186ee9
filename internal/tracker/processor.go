package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
)

// Processor renders timeTracker blocks. It holds no per-render state, so a
// single Processor may serve concurrent renders.
type Processor struct {
	store   Store
	charter Charter
	end     SectionEnd
	log     *slog.Logger
}

// NewProcessor wires a processor to its note store and charting library.
// A nil logger discards output.
func NewProcessor(store Store, charter Charter, end SectionEnd, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Processor{store: store, charter: charter, end: end, log: log}
}

// Render processes one block's source onto surface. The first failing step
// writes a single warning line and stops; the returned error wraps the same
// sentinel so callers can tell what happened, but it has already been shown.
func (p *Processor) Render(ctx context.Context, source string, surface Surface) error {
	d, err := ParseDirectives(source)
	if err != nil {
		return warn(surface, err)
	}

	surface.Text(Line{
		Text:  fmt.Sprintf("file: %s | section: %s", d.File, d.Section),
		Level: LevelInfo,
		Size:  SizeSmall,
	})

	summary, err := p.Summarize(ctx, d)
	if err != nil {
		return warn(surface, err)
	}

	for _, e := range summary.Entries {
		surface.Text(Line{
			Text:  fmt.Sprintf("%s: %s, %s%%", e.Title, e.Duration(), e.PercentText()),
			Level: LevelInfo,
			Size:  SizeEntry,
		})
	}

	dc, err := surface.Canvas()
	if err != nil || dc == nil {
		p.log.Debug("canvas unavailable", "error", err)
		return warn(surface, ErrChartContainerNotFound)
	}

	cfg := chart.Pie(summary.Titles(), summary.Percentages())
	if err := p.charter.Draw(dc, cfg); err != nil {
		return warn(surface, fmt.Errorf("draw chart: %w", err))
	}
	return nil
}

// Summarize resolves the note named by d and aggregates its section
// without rendering anything.
func (p *Processor) Summarize(ctx context.Context, d Directives) (Summary, error) {
	doc, err := p.Resolve(ctx, d.File)
	if err != nil {
		return Summary{}, err
	}

	content, err := p.store.Read(ctx, doc)
	if err != nil {
		p.log.Debug("read failed", "path", doc.Path, "error", err)
		return Summary{}, fmt.Errorf("%w: %v", ErrTargetFileUnreadable, err)
	}

	lines, err := ExtractSection(SplitLines(content), d.Section, p.end)
	if err != nil {
		return Summary{}, err
	}

	records := ParseRecords(lines)
	p.log.Debug("section parsed",
		"path", doc.Path,
		"section", d.Section,
		"lines", len(lines),
		"records", len(records),
	)
	return Aggregate(records), nil
}

// Resolve finds the first document whose basename is name.
func (p *Processor) Resolve(ctx context.Context, name string) (Document, error) {
	if p == nil || p.store == nil {
		return Document{}, errors.New("processor not initialized with a store")
	}

	docs, err := p.store.Documents(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("list documents: %w", err)
	}
	for _, doc := range docs {
		if doc.Basename == name {
			p.log.Debug("resolved file", "name", name, "path", doc.Path)
			return doc, nil
		}
	}
	return Document{}, ErrTargetFileNotFound
}

// IsWarning reports whether err is one of the warnings a block can end with.
func IsWarning(err error) bool {
	for _, target := range []error{
		ErrFileNotDefined,
		ErrSectionNotDefined,
		ErrFileValueNotDefined,
		ErrSectionValueNotDefined,
		ErrTargetFileNotFound,
		ErrTargetFileUnreadable,
		ErrSectionNotFound,
		ErrChartContainerNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func warn(surface Surface, err error) error {
	surface.Text(Line{Text: err.Error(), Level: LevelWarn, Size: SizeSmall})
	return err
}
