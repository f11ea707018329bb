package event

import (
	"testing"
	"time"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	location, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("Empty", func(t *testing.T) {
		first, err := parseMonth("", now, location)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, location), first)
	})

	t.Run("Month", func(t *testing.T) {
		first, err := parseMonth("2027-02", now, location)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2027, 2, 1, 0, 0, 0, 0, location), first)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := parseMonth("October", now, location)

		assert.True(t, errdef.IsBadRequest(err))
	})
}

func TestParseWeekStart(t *testing.T) {
	weekStart, err := parseWeekStart("")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, weekStart)

	weekStart, err = parseWeekStart("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, weekStart)

	_, err = parseWeekStart("friday")
	assert.True(t, errdef.IsBadRequest(err))
}

func TestNewCalendar(t *testing.T) {
	first := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	at := func(day, hour int) time.Time {
		return time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC)
	}
	events := []model.Event{
		{ID: 1, Title: "Career Fair", Category: model.CategoryCareer, StartTime: at(5, 9), EndTime: at(5, 15)},
		{ID: 2, Title: "Morning Run", Category: model.CategorySports, StartTime: at(19, 7), EndTime: at(19, 8)},
		{ID: 3, Title: "Lecture", Category: model.CategoryAcademic, StartTime: at(19, 10), EndTime: at(19, 12)},
		{ID: 4, Title: "Jazz Night", Category: model.CategoryEntertainment, StartTime: at(19, 20), EndTime: at(19, 23)},
		{ID: 5, Title: "Late Party", Category: model.CategorySocial, StartTime: at(19, 22), EndTime: at(20, 2)},
		{ID: 6, Title: "Next Month", Category: model.CategoryOther, StartTime: time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)},
	}

	t.Run("SundayFirst", func(t *testing.T) {
		calendar := newCalendar(first, time.Sunday, events, now)

		assert.Equal(t, "2026-10", calendar.Month)
		assert.Equal(t, "October 2026", calendar.Title)
		assert.Equal(t, "sunday", calendar.WeekStart)
		assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, calendar.Weekdays)
		assert.Equal(t, 4, calendar.LeadingBlanks)
		require.Len(t, calendar.Days, 31)

		day5 := calendar.Days[4]
		assert.Equal(t, 5, day5.Day)
		assert.Equal(t, "2026-10-05", day5.Date)
		require.Len(t, day5.Events, 1)
		assert.Equal(t, "Career Fair", day5.Events[0].Title)
		assert.Equal(t, 0, day5.More)
		assert.False(t, day5.IsToday)

		day19 := calendar.Days[18]
		assert.True(t, day19.IsToday)
		require.Len(t, day19.Events, 2)
		assert.Equal(t, uint(2), day19.Events[0].ID)
		assert.Equal(t, uint(3), day19.Events[1].ID)
		assert.Equal(t, 2, day19.More)

		for _, day := range calendar.Days {
			for _, event := range day.Events {
				assert.NotEqual(t, uint(6), event.ID, "events of other months are left out")
			}
		}
	})

	t.Run("MondayFirst", func(t *testing.T) {
		calendar := newCalendar(first, time.Monday, events, now)

		assert.Equal(t, "monday", calendar.WeekStart)
		assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, calendar.Weekdays)
		assert.Equal(t, 3, calendar.LeadingBlanks)
	})

	t.Run("MonthStartingOnWeekStart", func(t *testing.T) {
		november := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

		calendar := newCalendar(november, time.Sunday, events, now)

		assert.Equal(t, 0, calendar.LeadingBlanks)
		assert.Equal(t, 6, newCalendar(november, time.Monday, nil, now).LeadingBlanks)
		require.Len(t, calendar.Days, 30)
		require.Len(t, calendar.Days[0].Events, 1)
		for _, day := range calendar.Days {
			assert.False(t, day.IsToday)
		}
	})

	t.Run("February", func(t *testing.T) {
		february := time.Date(2028, 2, 1, 0, 0, 0, 0, time.UTC)

		calendar := newCalendar(february, time.Sunday, nil, now)

		assert.Len(t, calendar.Days, 29)
	})

	t.Run("DaysInLocation", func(t *testing.T) {
		location, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		firstInNewYork := time.Date(2026, 10, 1, 0, 0, 0, 0, location)
		// 02:00 UTC on the 20th is the evening of the 19th in New York
		late := model.Event{ID: 7, Title: "Late", StartTime: time.Date(2026, 10, 20, 2, 0, 0, 0, time.UTC)}

		calendar := newCalendar(firstInNewYork, time.Sunday, []model.Event{late}, now)

		require.Len(t, calendar.Days[18].Events, 1)
		assert.Empty(t, calendar.Days[19].Events)
	})
}
