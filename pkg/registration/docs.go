package registration

import "github.com/dhis2-sre/campus-events/pkg/model"

// swagger:parameters register unregister attendance
type _ struct {
	// Event id
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:parameters updateAttendance
type _ struct {
	// Registration id
	// in: path
	// required: true
	ID uint `json:"id"`

	// Update attendance request body parameter
	// in: body
	// required: true
	Body updateAttendanceRequest
}

// swagger:response Registration
type _ struct {
	//in: body
	_ model.Registration
}

// swagger:response Registrations
type _ struct {
	//in: body
	_ []model.Registration
}

// swagger:response Attendance
type _ struct {
	//in: body
	_ Attendance
}
