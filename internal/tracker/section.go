package tracker

import (
	"fmt"
	"strings"
)

// SectionEnd decides where a section stops when no heading follows it.
type SectionEnd uint8

const (
	// SectionEndHeading only accepts sections closed by a later heading; an
	// unterminated section is empty.
	SectionEndHeading SectionEnd = iota
	// SectionEndDocument lets an unterminated section run to the end of the document.
	SectionEndDocument
)

// String implements fmt.Stringer.
func (e SectionEnd) String() string {
	switch e {
	case SectionEndDocument:
		return "document"
	default:
		return "heading"
	}
}

// ParseSectionEnd maps a configuration value onto a SectionEnd.
func ParseSectionEnd(value string) (SectionEnd, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "heading":
		return SectionEndHeading, nil
	case "document", "eof":
		return SectionEndDocument, nil
	default:
		return SectionEndHeading, fmt.Errorf("invalid section end %q (expected heading|document)", value)
	}
}

// ExtractSection returns the lines of the section whose heading mentions
// name. The slice starts at the heading line itself and stops one line
// short of the next line starting with '#'.
func ExtractSection(lines []string, name string, end SectionEnd) ([]string, error) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, name) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, ErrSectionNotFound
	}

	offset := -1
	for i, line := range lines[start+1:] {
		if strings.HasPrefix(line, "#") {
			offset = i
			break
		}
	}

	if offset == -1 {
		if end == SectionEndDocument {
			return lines[start:], nil
		}
		return nil, nil
	}
	return lines[start : start+offset], nil
}

// SplitLines breaks document text into lines, treating CRLF as LF.
func SplitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
