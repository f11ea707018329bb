package event

import (
	"strings"
	"time"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/pkg/model"
)

const maxEventsPerDay = 2

// Calendar is a month grid
// swagger:model
type Calendar struct {
	// Month in the format YYYY-MM
	Month string `json:"month"`
	// Title like "October 2026"
	Title     string   `json:"title"`
	WeekStart string   `json:"weekStart"`
	Weekdays  []string `json:"weekdays"`
	// LeadingBlanks is the number of empty cells before the first day of the month
	LeadingBlanks int           `json:"leadingBlanks"`
	Days          []CalendarDay `json:"days"`
}

type CalendarDay struct {
	Day     int             `json:"day"`
	Date    string          `json:"date"`
	IsToday bool            `json:"isToday"`
	Events  []CalendarEvent `json:"events"`
	// More is the number of events not included in Events
	More int `json:"more"`
}

type CalendarEvent struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Category  model.Category `json:"category"`
	StartTime time.Time      `json:"startTime"`
}

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// parseMonth returns the first day of the given month (YYYY-MM) in location. An empty month is the
// month of now.
func parseMonth(month string, now time.Time, location *time.Location) (time.Time, error) {
	if month == "" {
		year, m, _ := now.In(location).Date()
		return time.Date(year, m, 1, 0, 0, 0, 0, location), nil
	}

	t, err := time.ParseInLocation("2006-01", month, location)
	if err != nil {
		return time.Time{}, errdef.NewBadRequest("invalid month %q, expected YYYY-MM", month)
	}
	return t, nil
}

func parseWeekStart(weekStart string) (time.Weekday, error) {
	switch strings.ToLower(weekStart) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return 0, errdef.NewBadRequest("invalid week start %q, expected sunday or monday", weekStart)
	}
}

// newCalendar lays out the month starting at first. Events are expected ordered by start time and
// are placed on the day they start in the location of first.
func newCalendar(first time.Time, weekStart time.Weekday, events []model.Event, now time.Time) Calendar {
	location := first.Location()
	year, month, _ := first.Date()
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, location).Day()

	byDay := make(map[int][]model.Event)
	for _, event := range events {
		start := event.StartTime.In(location)
		if start.Year() != year || start.Month() != month {
			continue
		}
		byDay[start.Day()] = append(byDay[start.Day()], event)
	}

	today := now.In(location)
	days := make([]CalendarDay, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, location)
		dayEvents := byDay[day]

		shown := dayEvents
		if len(shown) > maxEventsPerDay {
			shown = shown[:maxEventsPerDay]
		}

		calendarEvents := make([]CalendarEvent, len(shown))
		for i, event := range shown {
			calendarEvents[i] = CalendarEvent{
				ID:        event.ID,
				Title:     event.Title,
				Category:  event.Category,
				StartTime: event.StartTime,
			}
		}

		days = append(days, CalendarDay{
			Day:     day,
			Date:    date.Format(time.DateOnly),
			IsToday: sameDay(today, date, location),
			Events:  calendarEvents,
			More:    len(dayEvents) - len(shown),
		})
	}

	weekdays := make([]string, 7)
	for i := range weekdays {
		weekdays[i] = weekdayNames[(int(weekStart)+i)%7]
	}

	return Calendar{
		Month:         first.Format("2006-01"),
		Title:         first.Format("January 2006"),
		WeekStart:     strings.ToLower(weekStart.String()),
		Weekdays:      weekdays,
		LeadingBlanks: (int(first.Weekday()) - int(weekStart) + 7) % 7,
		Days:          days,
	}
}
