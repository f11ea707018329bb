package event

import (
	"testing"
	"time"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/stretchr/testify/assert"
)

func ids(events []model.Event) []uint {
	result := make([]uint, len(events))
	for i, event := range events {
		result[i] = event.ID
	}
	return result
}

func TestFilter_apply(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	assert.NoError(t, err)
	events := []model.Event{
		{ID: 1, Title: "Spring Career Fair", Location: "Main Hall", Category: model.CategoryCareer, StartTime: time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)},
		{ID: 2, Title: "Jazz Night", Description: "Live music by the campus band", Location: "Student Union", Category: model.CategoryEntertainment, StartTime: time.Date(2026, 10, 20, 22, 30, 0, 0, time.UTC)},
		{ID: 3, Title: "Go Workshop", Description: "Learn GO", Location: "Lab 3", Category: model.CategoryWorkshop, StartTime: time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC)},
	}

	tests := map[string]struct {
		filter Filter
		want   []uint
	}{
		"NoFilter": {
			filter: Filter{},
			want:   []uint{1, 2, 3},
		},
		"SearchTitleCaseInsensitive": {
			filter: Filter{Search: "jazz"},
			want:   []uint{2},
		},
		"SearchDescription": {
			filter: Filter{Search: "MUSIC"},
			want:   []uint{2},
		},
		"SearchLocation": {
			filter: Filter{Search: "hall"},
			want:   []uint{1},
		},
		"SearchMatchesSeveralFields": {
			filter: Filter{Search: "go"},
			want:   []uint{3},
		},
		"Category": {
			filter: Filter{Category: "Workshop"},
			want:   []uint{3},
		},
		"CategoryAll": {
			filter: Filter{Category: "All"},
			want:   []uint{1, 2, 3},
		},
		"CategoryIsExact": {
			filter: Filter{Category: "workshop"},
			want:   []uint{},
		},
		"Date": {
			filter: Filter{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, oslo)},
			// 22:30 UTC on the 20th is the 21st in Oslo
			want: []uint{1},
		},
		"Combined": {
			filter: Filter{Search: "night", Category: "Entertainment", Date: time.Date(2026, 10, 21, 0, 0, 0, 0, oslo)},
			want:   []uint{2},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := test.filter.apply(events, oslo)

			assert.Equal(t, test.want, ids(got))
		})
	}
}

func TestOversightFilter_apply(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	events := []model.Event{
		{ID: 1, Title: "Past Lecture", Category: model.CategoryAcademic, StartTime: now.Add(-3 * time.Hour), EndTime: now.Add(-time.Hour)},
		{ID: 2, Title: "Ongoing Lecture", Category: model.CategoryAcademic, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
		{ID: 3, Title: "Upcoming Match", Category: model.CategorySports, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
	}

	tests := map[string]struct {
		filter OversightFilter
		want   []uint
	}{
		"NoFilter": {
			filter: OversightFilter{},
			want:   []uint{1, 2, 3},
		},
		"Upcoming": {
			filter: OversightFilter{Status: model.EventStatusUpcoming},
			want:   []uint{3},
		},
		"Ongoing": {
			filter: OversightFilter{Status: model.EventStatusOngoing},
			want:   []uint{2},
		},
		"Past": {
			filter: OversightFilter{Status: model.EventStatusPast},
			want:   []uint{1},
		},
		"SearchAndCategory": {
			filter: OversightFilter{Search: "lecture", Category: "Academic"},
			want:   []uint{1, 2},
		},
		"SearchCategoryAndStatus": {
			filter: OversightFilter{Search: "lecture", Category: "Academic", Status: model.EventStatusPast},
			want:   []uint{1},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := test.filter.apply(events, now)

			assert.Equal(t, test.want, ids(got))
		})
	}
}
