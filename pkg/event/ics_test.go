package event

import (
	"net/url"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewICS(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)
	event := model.Event{
		ID:        12,
		Title:     "Jazz Night",
		Location:  "Student Union",
		StartTime: time.Date(2026, 10, 20, 20, 0, 0, 0, oslo),
		EndTime:   time.Date(2026, 10, 20, 23, 0, 0, 0, oslo),
	}

	content := newICS("", []model.Event{event}, now)

	assert.Contains(t, content, "PRODID:-//Campus Events//EN")
	assert.Contains(t, content, "UID:12@campusevents.com")
	assert.Contains(t, content, "DTSTAMP:20261019T120000Z")
	assert.Contains(t, content, "DTSTART:20261020T180000Z")
	assert.Contains(t, content, "DTEND:20261020T210000Z")
	assert.Contains(t, content, "SUMMARY:Jazz Night")
	assert.Contains(t, content, "LOCATION:Student Union")
	assert.Contains(t, content, "DESCRIPTION:Campus Event: Jazz Night")
	assert.NotContains(t, content, "X-WR-CALNAME")

	cal, err := ical.ParseCalendar(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	start, err := cal.Events()[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, event.StartTime.Equal(start))
}

func TestNewICS_Feed(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	events := []model.Event{
		{ID: 1, Title: "Lecture", Location: "Room 1", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
		{ID: 2, Title: "Match", Location: "Stadium", StartTime: now.Add(24 * time.Hour), EndTime: now.Add(26 * time.Hour)},
	}

	content := newICS("Campus Events", events, now)

	assert.Contains(t, content, "X-WR-CALNAME:Campus Events")
	cal, err := ical.ParseCalendar(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)
	assert.Equal(t, "1@campusevents.com", cal.Events()[0].Id())
	assert.Equal(t, "2@campusevents.com", cal.Events()[1].Id())
}

func TestIcsFileName(t *testing.T) {
	assert.Equal(t, "spring_career_fair.ics", icsFileName("Spring Career Fair"))
	assert.Equal(t, "jazz_night.ics", icsFileName("Jazz Night!"))
	assert.Equal(t, "event.ics", icsFileName("!!!"))
}

func TestShareURL(t *testing.T) {
	assert.Equal(t, "https://events.campus.edu/events/12", shareURL("https://events.campus.edu", 12))
	assert.Equal(t, "https://events.campus.edu/events/12", shareURL("https://events.campus.edu/", 12))
}

func TestGoogleCalendarURL(t *testing.T) {
	event := model.Event{
		Title:     "Jazz & Blues",
		Location:  "Student Union",
		StartTime: time.Date(2026, 10, 20, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 10, 20, 21, 0, 0, 0, time.UTC),
	}

	link := googleCalendarURL(event)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", u.Host)
	assert.Equal(t, "/calendar/render", u.Path)
	query := u.Query()
	assert.Equal(t, "TEMPLATE", query.Get("action"))
	assert.Equal(t, "Jazz & Blues", query.Get("text"))
	assert.Equal(t, "20261020T180000Z/20261020T210000Z", query.Get("dates"))
	assert.Equal(t, "Student Union", query.Get("location"))
	assert.Equal(t, "Event: Jazz & Blues\nLocation: Student Union", query.Get("details"))
}
