package event

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/dhis2-sre/campus-events/pkg/notification"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, repository eventRepository, images imageStore, publisher publisher, location *time.Location, uiURL string, imagesURL string) *Service {
	return &Service{
		logger:     logger,
		repository: repository,
		images:     images,
		publisher:  publisher,
		location:   location,
		uiURL:      uiURL,
		imagesURL:  strings.TrimSuffix(imagesURL, "/"),
	}
}

type eventRepository interface {
	create(ctx context.Context, event *model.Event) error
	findById(ctx context.Context, id uint) (*model.Event, error)
	update(ctx context.Context, event *model.Event) error
	updateImageURL(ctx context.Context, id uint, url string) error
	delete(ctx context.Context, id uint) ([]uint, error)
	findUpcoming(ctx context.Context, now time.Time) ([]model.Event, error)
	findAll(ctx context.Context) ([]model.Event, error)
	findByOrganizer(ctx context.Context, organizerId uint) ([]model.Event, error)
	findStartingBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
	findRegisteredByUser(ctx context.Context, userId uint) ([]model.Event, error)
	isRegistered(ctx context.Context, eventId, userId uint) (bool, error)
	isFavorite(ctx context.Context, eventId, userId uint) (bool, error)
	findRegistrantIds(ctx context.Context, eventId uint) ([]uint, error)
	countEvents(ctx context.Context) (int64, error)
	countUpcomingEvents(ctx context.Context, now time.Time) (int64, error)
	countUsers(ctx context.Context) (int64, error)
	countRegistrations(ctx context.Context) (int64, error)
}

type imageStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

type publisher interface {
	Publish(ctx context.Context, message notification.Message) error
}

type Service struct {
	logger     *slog.Logger
	repository eventRepository
	images     imageStore
	publisher  publisher
	location   *time.Location
	uiURL      string
	imagesURL  string
}

// Item is an event as listed on the dashboard and in the admin oversight
// swagger:model EventItem
type Item struct {
	model.Event
	Status model.EventStatus `json:"status"`
	IsFull bool              `json:"isFull"`
}

// Detail is an event as seen by a given user
// swagger:model EventDetail
type Detail struct {
	model.Event
	Status            model.EventStatus `json:"status"`
	IsRegistered      bool              `json:"isRegistered"`
	IsFavorite        bool              `json:"isFavorite"`
	IsFull            bool              `json:"isFull"`
	IsPast            bool              `json:"isPast"`
	SpotsLeft         *uint             `json:"spotsLeft,omitempty"`
	ShareURL          string            `json:"shareUrl"`
	GoogleCalendarURL string            `json:"googleCalendarUrl"`
}

// Stats summarizes the system for administrators
// swagger:model
type Stats struct {
	TotalEvents        int64 `json:"totalEvents"`
	TotalUsers         int64 `json:"totalUsers"`
	TotalRegistrations int64 `json:"totalRegistrations"`
	UpcomingEvents     int64 `json:"upcomingEvents"`
}

// Input holds the fields organizers set on create and update
type Input struct {
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	MaxCapacity *uint
	Category    model.Category
	ImageURL    string
}

// Image is an uploaded event image
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func newItems(events []model.Event, now time.Time) []Item {
	items := make([]Item, len(events))
	for i, event := range events {
		items[i] = Item{Event: event, Status: event.Status(now), IsFull: event.IsFull()}
	}
	return items
}

// List returns the events which haven't ended yet, filtered
func (s Service) List(ctx context.Context, filter Filter) ([]Item, error) {
	now := time.Now()
	events, err := s.repository.findUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}

	return newItems(filter.apply(events, s.location), now), nil
}

func (s Service) FindById(ctx context.Context, id uint) (*model.Event, error) {
	return s.repository.findById(ctx, id)
}

// Detail decorates the event with the state relative to the user and now
func (s Service) Detail(ctx context.Context, user *model.User, event *model.Event) (*Detail, error) {
	g, ctx := errgroup.WithContext(ctx)

	var isRegistered, isFavorite bool
	g.Go(func() error {
		var err error
		isRegistered, err = s.repository.isRegistered(ctx, event.ID, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		isFavorite, err = s.repository.isFavorite(ctx, event.ID, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now()
	detail := &Detail{
		Event:             *event,
		Status:            event.Status(now),
		IsRegistered:      isRegistered,
		IsFavorite:        isFavorite,
		IsFull:            event.IsFull(),
		IsPast:            event.IsPast(now),
		ShareURL:          shareURL(s.uiURL, event.ID),
		GoogleCalendarURL: googleCalendarURL(*event),
	}
	if left, ok := event.SpotsLeft(); ok {
		detail.SpotsLeft = &left
	}

	return detail, nil
}

func validateInput(input Input) error {
	if input.EndTime.Before(input.StartTime) {
		return errdef.NewBadRequest("end time %s is before start time %s", input.EndTime.Format(time.RFC3339), input.StartTime.Format(time.RFC3339))
	}
	if input.MaxCapacity != nil && *input.MaxCapacity < 1 {
		return errdef.NewBadRequest("max capacity must be at least 1")
	}
	return nil
}

func (s Service) Create(ctx context.Context, organizer *model.User, input Input) (*model.Event, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		MaxCapacity: input.MaxCapacity,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		OrganizerID: organizer.ID,
	}

	err := s.repository.create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Event created", "eventId", event.ID, "organizerId", organizer.ID)
	return event, nil
}

// Update saves the input on the event and notifies everyone registered for it
func (s Service) Update(ctx context.Context, event *model.Event, input Input) (*model.Event, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.MaxCapacity != nil && *input.MaxCapacity < event.CurrentRegistrations {
		return nil, errdef.NewBadRequest("max capacity %d is below the %d current registrations", *input.MaxCapacity, event.CurrentRegistrations)
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Location = input.Location
	event.StartTime = input.StartTime
	event.EndTime = input.EndTime
	event.MaxCapacity = input.MaxCapacity
	event.Category = input.Category
	// an uploaded image is kept unless replaced
	if input.ImageURL != "" {
		event.ImageURL = input.ImageURL
	}

	err := s.repository.update(ctx, event)
	if err != nil {
		return nil, err
	}

	registrants, err := s.repository.findRegistrantIds(ctx, event.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to find registrants of updated event", "eventId", event.ID, "error", err)
		return event, nil
	}

	for _, userId := range registrants {
		s.publish(ctx, notification.EventUpdated(userId, *event, s.location))
	}

	return event, nil
}

// Delete removes the event and notifies everyone who was registered for it
func (s Service) Delete(ctx context.Context, event *model.Event) error {
	registrants, err := s.repository.delete(ctx, event.ID)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Event deleted", "eventId", event.ID, "registrants", len(registrants))

	for _, userId := range registrants {
		s.publish(ctx, notification.EventCancelled(userId, *event, s.location))
	}

	if key, ok := s.storedKey(event.ImageURL); ok {
		if err := s.images.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete event image", "eventId", event.ID, "key", key, "error", err)
		}
	}

	return nil
}

// DeleteOrganizedBy deletes every event of the organizer the same way Delete does. It returns the
// number of deleted events.
func (s Service) DeleteOrganizedBy(ctx context.Context, organizerId uint) (int, error) {
	events, err := s.repository.findByOrganizer(ctx, organizerId)
	if err != nil {
		return 0, err
	}

	for i, event := range events {
		if err := s.Delete(ctx, &event); err != nil {
			return i, fmt.Errorf("failed to delete event %d of organizer %d: %v", event.ID, organizerId, err)
		}
	}

	return len(events), nil
}

// publish logs failures and never fails the caller
func (s Service) publish(ctx context.Context, message notification.Message) {
	err := s.publisher.Publish(ctx, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish notification", "userId", message.UserID, "type", message.Type, "error", err)
	}
}

// Managed returns the events organized by the user
func (s Service) Managed(ctx context.Context, organizer *model.User) ([]Item, error) {
	events, err := s.repository.findByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, err
	}

	return newItems(events, time.Now()), nil
}

// UploadImage stores the image and points the event to it. A previously uploaded image is removed.
func (s Service) UploadImage(ctx context.Context, event *model.Event, image Image) (*model.Event, error) {
	if !strings.HasPrefix(image.ContentType, "image/") {
		return nil, errdef.NewUnsupportedMediaType("event images must be of type image/*, got %q", image.ContentType)
	}

	key := imageKey(event.ID, image.Filename)
	err := s.images.Upload(ctx, key, image.ContentType, image.Body, image.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image for event %d: %v", event.ID, err)
	}

	previous := event.ImageURL
	event.ImageURL = s.imagesURL + "/" + key

	err = s.repository.updateImageURL(ctx, event.ID, event.ImageURL)
	if err != nil {
		return nil, err
	}

	if previousKey, ok := s.storedKey(previous); ok {
		if err := s.images.Delete(ctx, previousKey); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete previous event image", "eventId", event.ID, "key", previousKey, "error", err)
		}
	}

	return event, nil
}

// imageKey returns a key like "events/12/5f0c...-poster.png"
func imageKey(eventId uint, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := slug.Make(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("events/%d/%s-%s%s", eventId, uuid.NewString(), name, ext)
}

// storedKey returns the object key of an image url pointing into our image store
func (s Service) storedKey(url string) (string, bool) {
	prefix := s.imagesURL + "/"
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Calendar returns the month grid for month (YYYY-MM). The current month is used if month is empty.
func (s Service) Calendar(ctx context.Context, month string, weekStart string) (*Calendar, error) {
	now := time.Now()
	first, err := parseMonth(month, now, s.location)
	if err != nil {
		return nil, err
	}

	start, err := parseWeekStart(weekStart)
	if err != nil {
		return nil, err
	}

	events, err := s.repository.findStartingBetween(ctx, first, first.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	calendar := newCalendar(first, start, events, now)
	return &calendar, nil
}

// ICS returns the event as an iCalendar file and its name
func (s Service) ICS(event *model.Event) (string, string) {
	return icsFileName(event.Title), newICS("", []model.Event{*event}, time.Now())
}

// Feed returns every event the user is registered for as one iCalendar
func (s Service) Feed(ctx context.Context, user *model.User) (string, error) {
	events, err := s.repository.findRegisteredByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}

	return newICS("Campus Events", events, time.Now()), nil
}

// Oversight returns all events, newest first, filtered
func (s Service) Oversight(ctx context.Context, filter OversightFilter) ([]Item, error) {
	events, err := s.repository.findAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return newItems(filter.apply(events, now), now), nil
}

func (s Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	now := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalEvents, err = s.repository.countEvents(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.repository.countUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRegistrations, err = s.repository.countRegistrations(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.UpcomingEvents, err = s.repository.countUpcomingEvents(ctx, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect stats: %v", err)
	}

	return &stats, nil
}
