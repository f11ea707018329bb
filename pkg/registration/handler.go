package registration

import (
	"context"
	"net/http"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/internal/handler"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/gin-gonic/gin"
)

func NewHandler(registrationService registrationService, eventService eventService) Handler {
	return Handler{
		registrationService: registrationService,
		eventService:        eventService,
	}
}

type Handler struct {
	registrationService registrationService
	eventService        eventService
}

type registrationService interface {
	Register(ctx context.Context, user *model.User, eventId uint) (*model.Registration, error)
	Unregister(ctx context.Context, user *model.User, eventId uint) error
	FindById(ctx context.Context, id uint) (*model.Registration, error)
	Mine(ctx context.Context, user *model.User) ([]model.Registration, error)
	Attendance(ctx context.Context, eventId uint) (*Attendance, error)
	UpdateAttendance(ctx context.Context, registration *model.Registration, status model.AttendanceStatus) (*model.Registration, error)
}

type eventService interface {
	FindById(ctx context.Context, id uint) (*model.Event, error)
}

// Register for an event
func (h Handler) Register(c *gin.Context) {
	// swagger:route POST /events/{id}/registrations register
	//
	// Register
	//
	// Register the current user for an event. Registering for an event which has ended or is full is not possible.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	201: Registration
	//	400: Error
	//	401: Error
	//	404: Error
	//	409: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	registration, err := h.registrationService.Register(c.Request.Context(), user, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

// Unregister from an event
func (h Handler) Unregister(c *gin.Context) {
	// swagger:route DELETE /events/{id}/registrations unregister
	//
	// Unregister
	//
	// Cancel the registration of the current user for an event
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	202:
	//	400: Error
	//	401: Error
	//	404: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	err = h.registrationService.Unregister(c.Request.Context(), user, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// Mine lists the registrations of the current user
func (h Handler) Mine(c *gin.Context) {
	// swagger:route GET /me/registrations myRegistrations
	//
	// My registrations
	//
	// The registrations of the current user with their events ordered by start time
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Registrations
	//	401: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	registrations, err := h.registrationService.Mine(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, registrations)
}

// Attendance of an event
func (h Handler) Attendance(c *gin.Context) {
	// swagger:route GET /events/{id}/registrations attendance
	//
	// Attendance
	//
	// The registrations of an event with the names and student ids of the attendees ordered by registration time. Only the organizer of the event and administrators can see the attendance.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Attendance
	//	400: Error
	//	401: Error
	//	403: Error
	//	404: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	event, err := h.eventService.FindById(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if !handler.CanManageEvent(user, event) {
		_ = c.Error(errdef.NewForbidden("access denied, event %d is organized by someone else", event.ID))
		return
	}

	attendance, err := h.registrationService.Attendance(ctx, event.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, attendance)
}

type updateAttendanceRequest struct {
	Status model.AttendanceStatus `json:"status" binding:"required,oneOf=registered attended no_show"`
}

// UpdateAttendance of a registration
func (h Handler) UpdateAttendance(c *gin.Context) {
	// swagger:route PUT /registrations/{id}/attendance updateAttendance
	//
	// Update attendance
	//
	// Mark an attendee as attended or as a no show
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Registration
	//	400: Error
	//	401: Error
	//	403: Error
	//	404: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request updateAttendanceRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	registration, err := h.registrationService.FindById(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if registration.Event == nil || !handler.CanManageEvent(user, registration.Event) {
		_ = c.Error(errdef.NewForbidden("access denied, event %d is organized by someone else", registration.EventID))
		return
	}

	updated, err := h.registrationService.UpdateAttendance(ctx, registration, request.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
