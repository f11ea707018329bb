package notification

import "github.com/dhis2-sre/campus-events/pkg/model"

// swagger:response Notifications
type _ struct {
	//in: body
	_ []model.Notification
}

// swagger:response Unread
type _ struct {
	//in: body
	_ Unread
}

// Server-sent events, one per notification
// swagger:response Stream
type _ struct {
	//in: body
	_ string
}
