package tracker

import (
	"math"
	"strconv"
	"strings"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/timeutil"
)

// Record is one `title:h:m:s` row of a section. The numeric fields stay as
// raw text until they are summed.
type Record struct {
	Title   string
	Hours   string
	Minutes string
	Seconds string

	// fields counts the colon-separated parts the row had, capped at 4.
	fields int
}

// Total converts the record to seconds. Text that is not a number, and
// fields the row did not have, turn the total into NaN.
func (r Record) Total() float64 {
	return field(r.Hours, r.fields > 1)*3600 + field(r.Minutes, r.fields > 2)*60 + field(r.Seconds, r.fields > 3)
}

func field(raw string, present bool) float64 {
	if !present {
		return math.NaN()
	}
	return timeutil.Number(raw)
}

// ParseRecords turns section lines into records. Backticks are ignored and
// lines without an hours field (headings, prose, blanks) are dropped.
func ParseRecords(lines []string) []Record {
	var records []Record
	for _, line := range lines {
		parts := strings.Split(strings.ReplaceAll(line, "`", ""), ":")
		if len(parts) < 2 {
			continue
		}

		r := Record{Title: parts[0], Hours: parts[1], fields: min(len(parts), 4)}
		if len(parts) > 2 {
			r.Minutes = parts[2]
		}
		if len(parts) > 3 {
			r.Seconds = parts[3]
		}
		records = append(records, r)
	}
	return records
}

// Entry is the summed time of one title and its share of the whole.
type Entry struct {
	Title      string
	Seconds    float64
	Percentage float64
}

// Duration renders the entry's total as h:mm:ss, or "undefined" when the
// total is not a whole number of seconds.
func (e Entry) Duration() string {
	if s, ok := timeutil.Format(e.Seconds); ok {
		return s
	}
	return "undefined"
}

// PercentText renders the share with two decimals.
func (e Entry) PercentText() string {
	return FormatPercent(e.Percentage)
}

// Summary holds one entry per distinct title, in order of first appearance.
type Summary struct {
	Entries []Entry
	Total   float64
}

// Titles lists the entry titles in order.
func (s Summary) Titles() []string {
	titles := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		titles[i] = e.Title
	}
	return titles
}

// Percentages lists the entry shares rounded to two decimals, the values a
// chart receives.
func (s Summary) Percentages() []float64 {
	values := make([]float64, len(s.Entries))
	for i, e := range s.Entries {
		// ParseFloat reads back NaN and Infinity too.
		v, err := strconv.ParseFloat(e.PercentText(), 64)
		if err != nil {
			v = math.NaN()
		}
		values[i] = v
	}
	return values
}

// Aggregate groups records by exact title and sums their totals. A zero
// grand total leaves every percentage NaN.
func Aggregate(records []Record) Summary {
	var (
		entries []Entry
		index   = map[string]int{}
	)
	for _, r := range records {
		i, ok := index[r.Title]
		if !ok {
			i = len(entries)
			index[r.Title] = i
			entries = append(entries, Entry{Title: r.Title})
		}
		entries[i].Seconds += r.Total()
	}

	var total float64
	for _, e := range entries {
		total += e.Seconds
	}
	for i := range entries {
		entries[i].Percentage = entries[i].Seconds / total * 100
	}

	return Summary{Entries: entries, Total: total}
}

// FormatPercent renders v with exactly two decimals, halves rounding up,
// spelling non-finite values as NaN, Infinity and -Infinity.
func FormatPercent(v float64) string {
	return timeutil.Fixed(v, 2)
}
