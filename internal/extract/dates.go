package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Recognized date shapes, in the order they are tried at a given offset:
// year-first numeric (2025-12-09), year-last numeric (15/03/2024, 09.12.25),
// and long form (March 15, 2024). Separators mix freely like the notices do.
var (
	reYearFirst = regexp.MustCompile(`\b(\d{4})[./-](\d{1,2})[./-](\d{1,2})\b`)
	reYearLast  = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})\b`)
	reLongForm  = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// findDate scans text for the first date-shaped substring in document order
// and parses it. ok is false when nothing date-shaped appears, or when the
// first match is not a valid calendar date; the extractor never fabricates a
// date on a miss.
func findDate(text string, opts Options) (time.Time, bool) {
	type hit struct {
		start int
		parse func(m []string) (time.Time, bool)
		match []string
	}
	var first *hit
	consider := func(loc []int, match []string, parse func([]string) (time.Time, bool)) {
		if loc == nil {
			return
		}
		if first == nil || loc[0] < first.start {
			first = &hit{start: loc[0], parse: parse, match: match}
		}
	}

	consider(reYearFirst.FindStringIndex(text), reYearFirst.FindStringSubmatch(text), parseYearFirst)
	consider(reYearLast.FindStringIndex(text), reYearLast.FindStringSubmatch(text), func(m []string) (time.Time, bool) {
		return parseYearLast(m, opts)
	})
	consider(reLongForm.FindStringIndex(text), reLongForm.FindStringSubmatch(text), parseLongForm)

	if first == nil {
		return time.Time{}, false
	}
	return first.parse(first.match)
}

func parseYearFirst(m []string) (time.Time, bool) {
	y := atoi(m[1])
	return makeDate(y, atoi(m[2]), atoi(m[3]))
}

// parseYearLast resolves the day/month order for the a/b/yyyy form. a > 12
// can only be a day and b > 12 can only be a month; when both could be
// either, the configured order decides. The month-first default is a lossy
// guess and is surfaced as a known accuracy limitation.
func parseYearLast(m []string, opts Options) (time.Time, bool) {
	a, b := atoi(m[1]), atoi(m[2])
	y := atoi(m[3])
	if len(m[3]) == 2 {
		y = expandYear(y)
	} else if len(m[3]) != 4 {
		return time.Time{}, false
	}

	switch {
	case a > 12:
		return makeDate(y, b, a) // day-month-year
	case b > 12:
		return makeDate(y, a, b) // month-day-year
	case opts.DayFirst:
		return makeDate(y, b, a)
	default:
		return makeDate(y, a, b)
	}
}

func parseLongForm(m []string) (time.Time, bool) {
	month, ok := monthsByName[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, false
	}
	return makeDate(atoi(m[3]), int(month), atoi(m[2]))
}

// expandYear maps two-digit years with the POSIX convention: 00-68 land in
// the 2000s, 69-99 in the 1900s. So 24 -> 2024 and 70 -> 1970.
func expandYear(y int) int {
	if y >= 69 {
		return 1900 + y
	}
	return 2000 + y
}

// makeDate builds a midnight-UTC instant and rejects impossible calendar
// dates (time.Date would silently normalize them otherwise).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
