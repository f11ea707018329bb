package event

import (
	"context"
	"net/http"
	"time"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/internal/handler"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/gin-gonic/gin"
)

func NewHandler(eventService eventService, location *time.Location) Handler {
	return Handler{
		eventService: eventService,
		location:     location,
	}
}

type Handler struct {
	eventService eventService
	location     *time.Location
}

type eventService interface {
	List(ctx context.Context, filter Filter) ([]Item, error)
	FindById(ctx context.Context, id uint) (*model.Event, error)
	Detail(ctx context.Context, user *model.User, event *model.Event) (*Detail, error)
	Create(ctx context.Context, organizer *model.User, input Input) (*model.Event, error)
	Update(ctx context.Context, event *model.Event, input Input) (*model.Event, error)
	Delete(ctx context.Context, event *model.Event) error
	Managed(ctx context.Context, organizer *model.User) ([]Item, error)
	UploadImage(ctx context.Context, event *model.Event, image Image) (*model.Event, error)
	Calendar(ctx context.Context, month string, weekStart string) (*Calendar, error)
	ICS(event *model.Event) (string, string)
	Feed(ctx context.Context, user *model.User) (string, error)
	Oversight(ctx context.Context, filter OversightFilter) ([]Item, error)
	Stats(ctx context.Context) (*Stats, error)
}

type listRequest struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneOf=All Academic Career Sports Entertainment Social Workshop Other"`
	// Date in the format YYYY-MM-DD
	Date string `form:"date"`
}

// List events
func (h Handler) List(c *gin.Context) {
	// swagger:route GET /events listEvents
	//
	// List events
	//
	// List the events which haven't ended yet ordered by start time. Optionally filtered by a search term matching title, description or location, by category and by the day the event starts on.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: EventItems
	//	400: Error
	//	401: Error
	//	415: Error
	var request listRequest
	if err := handler.QueryBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	filter := Filter{Search: request.Search, Category: request.Category}
	if request.Date != "" {
		date, err := time.ParseInLocation(time.DateOnly, request.Date, h.location)
		if err != nil {
			_ = c.Error(errdef.NewBadRequest("invalid date %q, expected YYYY-MM-DD", request.Date))
			return
		}
		filter.Date = date
	}

	events, err := h.eventService.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// Find event
func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /events/{id} findEvent
	//
	// Find event
	//
	// Find an event by its id. The response tells whether the current user is registered for the event and has it as a favorite.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: EventDetail
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

	ctx := c.Request.Context()
	event, err := h.eventService.FindById(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	detail, err := h.eventService.Detail(ctx, user, event)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

type eventRequest struct {
	Title       string         `json:"title" binding:"required,lte=200"`
	Description string         `json:"description" binding:"lte=5000"`
	Location    string         `json:"location" binding:"required,lte=200"`
	StartTime   time.Time      `json:"startTime" binding:"required"`
	EndTime     time.Time      `json:"endTime" binding:"required"`
	MaxCapacity *uint          `json:"maxCapacity" binding:"omitempty,gte=1"`
	Category    model.Category `json:"category" binding:"required,oneOf=Academic Career Sports Entertainment Social Workshop Other"`
	ImageURL    string         `json:"imageUrl" binding:"omitempty,url"`
}

func (r eventRequest) input() Input {
	return Input{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MaxCapacity: r.MaxCapacity,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
	}
}

// Create event
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /events createEvent
	//
	// Create event
	//
	// Create an event organized by the current user. Leave out maxCapacity for an unlimited number of registrations.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	201: Event
	//	400: Error
	//	401: Error
	//	403: Error
	//	415: Error
	var request eventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), user, request.input())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// findManagedEvent finds the event from the path and ensures the current user can manage it
func (h Handler) findManagedEvent(c *gin.Context) (*model.Event, bool) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return nil, false
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}

	if !handler.CanManageEvent(user, event) {
		_ = c.Error(errdef.NewForbidden("access denied, event %d is organized by someone else", event.ID))
		return nil, false
	}

	return event, true
}

// Update event
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /events/{id} updateEvent
	//
	// Update event
	//
	// Update an event. Only its organizer and administrators can update an event. Everyone registered for the event is notified.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Event
	//	400: Error
	//	401: Error
	//	403: Error
	//	404: Error
	//	415: Error
	var request eventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	event, ok := h.findManagedEvent(c)
	if !ok {
		return
	}

	updated, err := h.eventService.Update(c.Request.Context(), event, request.input())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete event
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /events/{id} deleteEvent
	//
	// Delete event
	//
	// Delete an event together with its registrations and favorites. Only its organizer and administrators can delete an event. Everyone registered for the event is notified.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	202:
	//	400: Error
	//	401: Error
	//	403: Error
	//	404: Error
	//	415: Error
	event, ok := h.findManagedEvent(c)
	if !ok {
		return
	}

	err := h.eventService.Delete(c.Request.Context(), event)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// Managed events
func (h Handler) Managed(c *gin.Context) {
	// swagger:route GET /me/events managedEvents
	//
	// Managed events
	//
	// The events organized by the current user ordered by start time
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: EventItems
	//	401: Error
	//	403: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	events, err := h.eventService.Managed(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// UploadImage of an event
func (h Handler) UploadImage(c *gin.Context) {
	// swagger:route POST /events/{id}/image uploadEventImage
	//
	// Upload event image
	//
	// Upload the image shown for the event. The file is expected in the multipart field "image".
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Event
	//	400: Error
	//	401: Error
	//	403: Error
	//	404: Error
	//	415: Error
	event, ok := h.findManagedEvent(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error reading image: %v", err))
		return
	}

	file, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer file.Close()

	updated, err := h.eventService.UploadImage(c.Request.Context(), event, Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

type calendarRequest struct {
	// Month in the format YYYY-MM
	Month     string `form:"month"`
	WeekStart string `form:"weekStart" binding:"omitempty,oneOf=sunday monday"`
}

// Calendar of a month
func (h Handler) Calendar(c *gin.Context) {
	// swagger:route GET /events/calendar eventCalendar
	//
	// Event calendar
	//
	// The month grid with the events starting on each day. At most two events are listed per day, the number of remaining events is given as "more".
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Calendar
	//	400: Error
	//	401: Error
	//	415: Error
	var request calendarRequest
	if err := handler.QueryBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	calendar, err := h.eventService.Calendar(c.Request.Context(), request.Month, request.WeekStart)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, calendar)
}

const icsContentType = "text/calendar; charset=utf-8"

// ICS of an event
func (h Handler) ICS(c *gin.Context) {
	// swagger:route GET /events/{id}/ics eventICS
	//
	// Download event
	//
	// Download the event as an iCalendar file
	//
	// security:
	//	oauth2:
	//
	// produces:
	//	- text/calendar
	//
	// responses:
	//	200: ICS
	//	400: Error
	//	401: Error
	//	404: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filename, content := h.eventService.ICS(event)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, icsContentType, []byte(content))
}

// Feed of the current user
func (h Handler) Feed(c *gin.Context) {
	// swagger:route GET /me/calendar.ics calendarFeed
	//
	// Calendar feed
	//
	// Every event the current user is registered for as one iCalendar
	//
	// security:
	//	oauth2:
	//
	// produces:
	//	- text/calendar
	//
	// responses:
	//	200: ICS
	//	401: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	content, err := h.eventService.Feed(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, icsContentType, []byte(content))
}

type oversightRequest struct {
	Search   string            `form:"search"`
	Category string            `form:"category" binding:"omitempty,oneOf=All Academic Career Sports Entertainment Social Workshop Other"`
	Status   model.EventStatus `form:"status" binding:"omitempty,oneOf=upcoming ongoing past"`
}

// Oversight of all events
func (h Handler) Oversight(c *gin.Context) {
	// swagger:route GET /admin/events eventOversight
	//
	// Event oversight
	//
	// All events, newest first. Optionally filtered by a search term, by category and by status.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: EventItems
	//	400: Error
	//	401: Error
	//	403: Error
	//	415: Error
	var request oversightRequest
	if err := handler.QueryBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	events, err := h.eventService.Oversight(c.Request.Context(), OversightFilter{
		Search:   request.Search,
		Category: request.Category,
		Status:   request.Status,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// Stats for administrators
func (h Handler) Stats(c *gin.Context) {
	// swagger:route GET /admin/stats stats
	//
	// Statistics
	//
	// Totals of events, users and registrations and the number of upcoming events
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Stats
	//	401: Error
	//	403: Error
	//	415: Error
	stats, err := h.eventService.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
