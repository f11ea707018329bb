package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"gorm.io/datatypes"
)

// Message is what producers put on the notification queue. The consumer turns it into a
// model.Notification.
type Message struct {
	UserID  uint                   `json:"userId"`
	EventID *uint                  `json:"eventId,omitempty"`
	Type    model.NotificationType `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]any         `json:"data,omitempty"`
}

const timeLayout = "Mon, Jan 2 2006 at 15:04 MST"

func eventData(event model.Event) map[string]any {
	return map[string]any{
		"eventTitle": event.Title,
		"startTime":  event.StartTime.UTC().Format(time.RFC3339),
		"location":   event.Location,
	}
}

func RegistrationConfirmed(userId uint, event model.Event, location *time.Location) Message {
	id := event.ID
	return Message{
		UserID:  userId,
		EventID: &id,
		Type:    model.NotificationRegistrationConfirmed,
		Title:   "Registration confirmed",
		Message: fmt.Sprintf("You are registered for %q on %s at %s.", event.Title, event.StartTime.In(location).Format(timeLayout), event.Location),
		Data:    eventData(event),
	}
}

func EventUpdated(userId uint, event model.Event, location *time.Location) Message {
	id := event.ID
	return Message{
		UserID:  userId,
		EventID: &id,
		Type:    model.NotificationEventUpdate,
		Title:   "Event updated",
		Message: fmt.Sprintf("%q has been updated. It now takes place on %s at %s.", event.Title, event.StartTime.In(location).Format(timeLayout), event.Location),
		Data:    eventData(event),
	}
}

// EventCancelled carries no event id since the event is gone by the time the message is consumed
func EventCancelled(userId uint, event model.Event, location *time.Location) Message {
	return Message{
		UserID:  userId,
		Type:    model.NotificationEventCancelled,
		Title:   "Event cancelled",
		Message: fmt.Sprintf("%q planned for %s has been cancelled.", event.Title, event.StartTime.In(location).Format(timeLayout)),
		Data:    eventData(event),
	}
}

func EventReminder(userId uint, event model.Event, location *time.Location) Message {
	id := event.ID
	return Message{
		UserID:  userId,
		EventID: &id,
		Type:    model.NotificationEventReminder,
		Title:   "Upcoming event",
		Message: fmt.Sprintf("%q starts %s at %s.", event.Title, event.StartTime.In(location).Format(timeLayout), event.Location),
		Data:    eventData(event),
	}
}

func (m Message) validate() error {
	if m.UserID == 0 {
		return fmt.Errorf("message without user id")
	}
	switch m.Type {
	case model.NotificationRegistrationConfirmed, model.NotificationEventReminder, model.NotificationEventUpdate, model.NotificationEventCancelled:
	default:
		return fmt.Errorf("unknown notification type %q", m.Type)
	}
	if m.Title == "" {
		return fmt.Errorf("message without title")
	}
	return nil
}

func (m Message) toNotification() (*model.Notification, error) {
	var data datatypes.JSON
	if m.Data != nil {
		b, err := json.Marshal(m.Data)
		if err != nil {
			return nil, err
		}
		data = b
	}

	return &model.Notification{
		UserID:  m.UserID,
		EventID: m.EventID,
		Type:    m.Type,
		Title:   m.Title,
		Message: m.Message,
		Data:    data,
	}, nil
}
