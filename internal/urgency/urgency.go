// Package urgency derives time-to-demolition classes used by listing sort,
// reminders, and exports. Nothing here is persisted.
package urgency

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Korixo/demolition-tracker/constants"
	"github.com/Korixo/demolition-tracker/internal/entity"
)

// Classify buckets a record by signed hours until its demolition date.
func Classify(demolitionDate, now time.Time) constants.UrgencyClass {
	hours := demolitionDate.Sub(now).Hours()
	switch {
	case hours < 0:
		return constants.Overdue
	case hours <= constants.UrgentWindowHours:
		return constants.Urgent
	default:
		return constants.Upcoming
	}
}

// SortSchedule orders records for listing: Urgent records first by ascending
// demolition date, then everything else by ascending demolition date.
// Overdue records keep their date-order position rather than jumping to the
// front; past-due work is surfaced by Classify and TimeRemaining instead.
func SortSchedule(records []*entity.DemolitionRecord, now time.Time) {
	sort.SliceStable(records, func(i, j int) bool {
		ui := Classify(records[i].DemolitionDate, now) == constants.Urgent
		uj := Classify(records[j].DemolitionDate, now) == constants.Urgent
		if ui != uj {
			return ui
		}
		return records[i].DemolitionDate.Before(records[j].DemolitionDate)
	})
}

// Reminders returns the records inside the urgent window, soonest first.
// Overdue notices are excluded; they are no longer actionable.
func Reminders(records []*entity.DemolitionRecord, now time.Time) []*entity.DemolitionRecord {
	var due []*entity.DemolitionRecord
	for _, r := range records {
		if Classify(r.DemolitionDate, now) == constants.Urgent {
			due = append(due, r)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DemolitionDate.Before(due[j].DemolitionDate)
	})
	return due
}

// Filter returns the records whose building or owner name contains query,
// case-insensitively. An empty query returns the input unchanged.
func Filter(records []*entity.DemolitionRecord, query string) []*entity.DemolitionRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}
	var out []*entity.DemolitionRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.BuildingName), query) {
			out = append(out, r)
			continue
		}
		if r.OwnerName != nil && strings.Contains(strings.ToLower(*r.OwnerName), query) {
			out = append(out, r)
		}
	}
	return out
}

// TimeRemaining formats the countdown to a demolition date: "2d 4h",
// "3h 12m", "45m", or "OVERDUE" once the date has passed.
func TimeRemaining(target, now time.Time) string {
	d := target.Sub(now)
	if d < 0 {
		return "OVERDUE"
	}
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
