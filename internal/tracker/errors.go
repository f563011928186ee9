package tracker

import "errors"

// Each error's text is the warning shown to the reader of the note.
var (
	// ErrFileNotDefined is returned when no block line carries a file: directive.
	ErrFileNotDefined = errors.New("file is not defined")
	// ErrSectionNotDefined is returned when no block line carries a section: directive.
	ErrSectionNotDefined = errors.New("section is not defined")
	// ErrFileValueNotDefined indicates a file: directive with nothing after the colon.
	ErrFileValueNotDefined = errors.New("file value is not defined")
	// ErrSectionValueNotDefined indicates a section: directive with nothing after the colon.
	ErrSectionValueNotDefined = errors.New("section value is not defined")

	// ErrTargetFileNotFound is returned when no document has the requested basename.
	ErrTargetFileNotFound = errors.New("target file is not found")
	// ErrTargetFileUnreadable wraps failures reading the resolved document.
	ErrTargetFileUnreadable = errors.New("target file could not be read")
	// ErrSectionNotFound is returned when no line of the document mentions the section.
	ErrSectionNotFound = errors.New("section in target file is not found")

	// ErrChartContainerNotFound is returned when the surface cannot provide a canvas.
	ErrChartContainerNotFound = errors.New("chart container is not found")
)
