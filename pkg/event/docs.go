package event

import "github.com/dhis2-sre/campus-events/pkg/model"

// swagger:parameters listEvents
type _ struct {
	// Case-insensitive search over title, description and location
	// in: query
	// required: false
	Search string `json:"search"`

	// in: query
	// required: false
	// enum: All,Academic,Career,Sports,Entertainment,Social,Workshop,Other
	Category string `json:"category"`

	// Day the event starts on, YYYY-MM-DD
	// in: query
	// required: false
	Date string `json:"date"`
}

// swagger:parameters createEvent
type _ struct {
	// Create event request body parameter
	// in: body
	// required: true
	Body eventRequest
}

// swagger:parameters updateEvent
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`

	// Update event request body parameter
	// in: body
	// required: true
	Body eventRequest
}

// swagger:parameters uploadEventImage
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`

	// in: formData
	// required: true
	// swagger:file
	Image any `json:"image"`
}

// swagger:parameters eventCalendar
type _ struct {
	// Month in the format YYYY-MM, defaults to the current month
	// in: query
	// required: false
	Month string `json:"month"`

	// in: query
	// required: false
	// enum: sunday,monday
	WeekStart string `json:"weekStart"`
}

// swagger:parameters eventOversight
type _ struct {
	// in: query
	// required: false
	Search string `json:"search"`

	// in: query
	// required: false
	Category string `json:"category"`

	// in: query
	// required: false
	// enum: upcoming,ongoing,past
	Status string `json:"status"`
}

// swagger:response EventItems
type _ struct {
	//in: body
	_ []Item
}

// swagger:response EventDetail
type _ struct {
	//in: body
	_ Detail
}

// swagger:response Event
type _ struct {
	//in: body
	_ model.Event
}

// swagger:response Calendar
type _ struct {
	//in: body
	_ Calendar
}

// swagger:response Stats
type _ struct {
	//in: body
	_ Stats
}

// swagger:response ICS
type _ struct {
	// iCalendar content
	//in: body
	_ string
}
