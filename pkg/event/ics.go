package event

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/gosimple/slug"
)

const (
	icsProductId = "-//Campus Events//EN"
	icsUidDomain = "campusevents.com"
)

// newICS serializes the events as one iCalendar. A non-empty name is set as the calendar name.
func newICS(name string, events []model.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(icsProductId)
	cal.SetMethod(ical.MethodPublish)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, event := range events {
		vEvent := cal.AddEvent(fmt.Sprintf("%d@%s", event.ID, icsUidDomain))
		vEvent.SetDtStampTime(now)
		vEvent.SetStartAt(event.StartTime)
		vEvent.SetEndAt(event.EndTime)
		vEvent.SetSummary(event.Title)
		vEvent.SetLocation(event.Location)
		vEvent.SetDescription("Campus Event: " + event.Title)
	}

	return cal.Serialize()
}

// icsFileName derives a file name from the title, like "spring_career_fair.ics"
func icsFileName(title string) string {
	name := strings.ReplaceAll(slug.Make(title), "-", "_")
	if name == "" {
		name = "event"
	}
	return name + ".ics"
}
