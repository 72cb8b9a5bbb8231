package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
)

// Options controls extraction behavior.
type Options struct {
	// DayFirst prefers day-month-year when a numeric date such as
	// 03/04/2024 could be read either way. See parseYearLast.
	DayFirst bool
}

// fieldRule binds one label set to one candidate field. Rules scan the same
// text independently, so their evaluation order never changes the result.
type fieldRule struct {
	field  string
	re     *regexp.Regexp
	assign func(c *entity.CandidateRecord, value string)
}

// labelRegexp builds the per-field line scanner: any label from the set,
// followed by a colon or horizontal whitespace, capturing the remainder of
// that line. Longer labels come first so "Building Name" is not swallowed by
// "Building". The optional decoy alternative consumes lines that belong to
// another field's label set without producing a match.
func labelRegexp(decoy string, labels ...string) *regexp.Regexp {
	pat := `(?i)(?:`
	if decoy != "" {
		pat += decoy + `[:\t ]|`
	}
	pat += `(?:` + strings.Join(labels, "|") + `)[:\t ][\t ]*([^\n]*))`
	return regexp.MustCompile(pat)
}

var (
	reBuilding = labelRegexp(`Property[\t ]+Owner`, `Building[\t ]+Name`, `Building`, `Property`, `Structure`)
	reOwner    = labelRegexp(``, `Property[\t ]+Owner`, `Owner[\t ]+Name`, `Owner`, `Applicant`)
	reLocation = labelRegexp(``, `Location`, `Address`, `Site`, `Zone`, `Area`, `District`, `Territory`, `Region`)
)

// Extractor derives a candidate record from recognized notice text.
type Extractor struct {
	opts   Options
	logger *slog.Logger
	rules  []fieldRule
}

func NewExtractor(opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		opts:   opts,
		logger: logger,
		rules: []fieldRule{
			{field: "building_name", re: reBuilding, assign: func(c *entity.CandidateRecord, v string) { c.BuildingName = v }},
			{field: "owner_name", re: reOwner, assign: func(c *entity.CandidateRecord, v string) { c.OwnerName = &v }},
			{field: "location", re: reLocation, assign: func(c *entity.CandidateRecord, v string) { c.Location = &v }},
		},
	}
}

// Extract scans rawText with every field rule plus the date scanner. A field
// whose labels never match is simply left absent; the only fatal condition
// is empty or whitespace-only input.
func (e *Extractor) Extract(rawText string) (entity.CandidateRecord, error) {
	if strings.TrimSpace(rawText) == "" {
		return entity.CandidateRecord{}, common.ErrEmptyInput
	}

	cand := entity.CandidateRecord{ExtractedText: rawText}
	for _, rule := range e.rules {
		value, found := matchLabel(rule.re, rawText)
		if !found {
			e.logger.Debug("field label not found", "field", rule.field)
			continue
		}
		rule.assign(&cand, value)
	}

	if t, ok := findDate(rawText, Options{DayFirst: e.opts.DayFirst}); ok {
		cand.DemolitionDate = t
	} else {
		e.logger.Debug("no parseable date in notice text")
	}
	return cand, nil
}

// matchLabel returns the trimmed remainder of the first line matching the
// rule. A first match with an empty remainder counts as not found; later
// occurrences are not consulted.
func matchLabel(re *regexp.Regexp, text string) (string, bool) {
	for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
		if idx[2] < 0 {
			continue // decoy alternative; not this field's line
		}
		value := strings.TrimSpace(text[idx[2]:idx[3]])
		if value == "" {
			return "", false
		}
		return value, true
	}
	return "", false
}
