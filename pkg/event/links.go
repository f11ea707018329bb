package event

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dhis2-sre/campus-events/pkg/model"
)

const (
	googleCalendarBaseURL = "https://calendar.google.com/calendar/render"
	googleCalendarTime    = "20060102T150405Z"
)

func shareURL(uiURL string, id uint) string {
	return fmt.Sprintf("%s/events/%d", strings.TrimSuffix(uiURL, "/"), id)
}

// googleCalendarURL returns a link which opens the event template in Google Calendar
func googleCalendarURL(event model.Event) string {
	dates := event.StartTime.UTC().Format(googleCalendarTime) + "/" + event.EndTime.UTC().Format(googleCalendarTime)

	values := url.Values{}
	values.Set("action", "TEMPLATE")
	values.Set("text", event.Title)
	values.Set("dates", dates)
	values.Set("location", event.Location)
	values.Set("details", fmt.Sprintf("Event: %s\nLocation: %s", event.Title, event.Location))

	return googleCalendarBaseURL + "?" + values.Encode()
}
