package event

import (
	"strings"
	"time"

	"github.com/dhis2-sre/campus-events/pkg/model"
)

// Filter narrows down the events shown on the dashboard
type Filter struct {
	// Search is matched case-insensitively against title, description and location
	Search string
	// Category is matched exactly. Empty or "All" matches any category.
	Category string
	// Date keeps events starting on the given day. The zero value matches any day.
	Date time.Time
}

// OversightFilter narrows down the events shown to administrators
type OversightFilter struct {
	Search   string
	Category string
	// Status is one of upcoming, ongoing or past. Empty matches any status.
	Status model.EventStatus
}

const allCategories = "All"

// apply returns the events matching the filter in their original order. Dates are compared in the
// given location.
func (f Filter) apply(events []model.Event, location *time.Location) []model.Event {
	filtered := make([]model.Event, 0, len(events))
	for _, event := range events {
		if !matchesSearch(event, f.Search) || !matchesCategory(event, f.Category) {
			continue
		}
		if !f.Date.IsZero() && !sameDay(event.StartTime, f.Date, location) {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}

func (f OversightFilter) apply(events []model.Event, now time.Time) []model.Event {
	filtered := make([]model.Event, 0, len(events))
	for _, event := range events {
		if !matchesSearch(event, f.Search) || !matchesCategory(event, f.Category) {
			continue
		}
		if f.Status != "" && event.Status(now) != f.Status {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}

func matchesSearch(event model.Event, search string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(event.Title), search) ||
		strings.Contains(strings.ToLower(event.Description), search) ||
		strings.Contains(strings.ToLower(event.Location), search)
}

func matchesCategory(event model.Event, category string) bool {
	if category == "" || category == allCategories {
		return true
	}
	return string(event.Category) == category
}

func sameDay(a, b time.Time, location *time.Location) bool {
	ay, am, ad := a.In(location).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
