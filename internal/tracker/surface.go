package tracker

import (
	"context"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
)

// Document is a note the store can hand out.
type Document struct {
	Basename string
	Path     string
}

// Store enumerates and reads notes.
type Store interface {
	Documents(ctx context.Context) ([]Document, error)
	Read(ctx context.Context, doc Document) (string, error)
}

// Level tells a surface how to style a line of text.
type Level uint8

const (
	// LevelInfo marks status and summary lines.
	LevelInfo Level = iota
	// LevelWarn marks the single line explaining why rendering stopped.
	LevelWarn
)

const (
	// SizeSmall is the font size of status and warning lines.
	SizeSmall = 11
	// SizeEntry is the font size of per-title summary lines.
	SizeEntry = 14
)

// Line is a styled text element.
type Line struct {
	Text  string
	Level Level
	Size  int
}

// Surface is where a block renders: it accepts text elements and can
// create a canvas for the chart.
type Surface interface {
	Text(line Line)
	Canvas() (chart.Context, error)
}

// Charter draws a chart configuration onto a canvas context.
type Charter interface {
	Draw(dc chart.Context, cfg chart.Config) error
}
