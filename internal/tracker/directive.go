package tracker

import "strings"

const (
	fileKey    = "file:"
	sectionKey = "section:"
)

// Directives names the note and section a timeTracker block summarises.
type Directives struct {
	File    string
	Section string
}

// ParseDirectives reads the file: and section: lines of a block. The first
// line mentioning a key wins, and a value stops at the next colon, so
// "section:Week:1" selects "Week". Missing lines are reported before
// missing values.
func ParseDirectives(source string) (Directives, error) {
	rows := strings.Split(source, "\n")

	fileRow, ok := firstContaining(rows, fileKey)
	if !ok {
		return Directives{}, ErrFileNotDefined
	}
	sectionRow, ok := firstContaining(rows, sectionKey)
	if !ok {
		return Directives{}, ErrSectionNotDefined
	}

	file, ok := directiveValue(fileRow)
	if !ok {
		return Directives{}, ErrFileValueNotDefined
	}
	section, ok := directiveValue(sectionRow)
	if !ok {
		return Directives{}, ErrSectionValueNotDefined
	}

	return Directives{File: file, Section: section}, nil
}

// Source renders d back into block source.
func (d Directives) Source() string {
	return fileKey + d.File + "\n" + sectionKey + d.Section + "\n"
}

func firstContaining(rows []string, key string) (string, bool) {
	for _, row := range rows {
		if strings.Contains(row, key) {
			return row, true
		}
	}
	return "", false
}

// directiveValue returns the second colon-separated field of row.
func directiveValue(row string) (string, bool) {
	fields := strings.Split(strings.TrimRight(row, "\r"), ":")
	if len(fields) < 2 || fields[1] == "" {
		return "", false
	}
	return fields[1], true
}
