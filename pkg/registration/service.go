package registration

import (
	"context"
	"log/slog"
	"time"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/dhis2-sre/campus-events/pkg/notification"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, repository registrationRepository, publisher publisher, location *time.Location) *Service {
	return &Service{
		logger:     logger,
		repository: repository,
		publisher:  publisher,
		location:   location,
	}
}

type registrationRepository interface {
	create(ctx context.Context, eventId, userId uint, now time.Time) (*model.Registration, *model.Event, error)
	delete(ctx context.Context, eventId, userId uint) error
	findById(ctx context.Context, id uint) (*model.Registration, error)
	findByUser(ctx context.Context, userId uint) ([]model.Registration, error)
	findByEvent(ctx context.Context, eventId uint) ([]model.Registration, error)
	updateAttendance(ctx context.Context, id uint, status model.AttendanceStatus) error
}

type publisher interface {
	Publish(ctx context.Context, message notification.Message) error
}

type Service struct {
	logger     *slog.Logger
	repository registrationRepository
	publisher  publisher
	location   *time.Location
}

// Attendee is a registration as seen by the organizer of the event
type Attendee struct {
	ID               uint                   `json:"id"`
	UserID           uint                   `json:"userId"`
	FullName         string                 `json:"fullName"`
	StudentID        string                 `json:"studentId"`
	RegisteredAt     time.Time              `json:"registeredAt"`
	AttendanceStatus model.AttendanceStatus `json:"attendanceStatus"`
}

// Attendance of an event
// swagger:model
type Attendance struct {
	Attendees  []Attendee `json:"attendees"`
	Total      int        `json:"total"`
	Registered int        `json:"registered"`
	Attended   int        `json:"attended"`
	NoShow     int        `json:"noShow"`
}

// Register the user for the event and queue a confirmation
func (s Service) Register(ctx context.Context, user *model.User, eventId uint) (*model.Registration, error) {
	registration, event, err := s.repository.create(ctx, eventId, user.ID, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered for event", "eventId", eventId, "registrations", event.CurrentRegistrations)

	err = s.publisher.Publish(ctx, notification.RegistrationConfirmed(user.ID, *event, s.location))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish registration confirmation", "eventId", eventId, "error", err)
	}

	registration.Event = event
	return registration, nil
}

func (s Service) Unregister(ctx context.Context, user *model.User, eventId uint) error {
	return s.repository.delete(ctx, eventId, user.ID)
}

func (s Service) FindById(ctx context.Context, id uint) (*model.Registration, error) {
	return s.repository.findById(ctx, id)
}

// Mine returns the registrations of the user together with the events
func (s Service) Mine(ctx context.Context, user *model.User) ([]model.Registration, error) {
	return s.repository.findByUser(ctx, user.ID)
}

func (s Service) Attendance(ctx context.Context, eventId uint) (*Attendance, error) {
	registrations, err := s.repository.findByEvent(ctx, eventId)
	if err != nil {
		return nil, err
	}

	attendance := &Attendance{
		Attendees: make([]Attendee, len(registrations)),
		Total:     len(registrations),
	}
	for i, registration := range registrations {
		attendee := Attendee{
			ID:               registration.ID,
			UserID:           registration.UserID,
			RegisteredAt:     registration.RegisteredAt,
			AttendanceStatus: registration.AttendanceStatus,
		}
		if registration.Profile != nil {
			attendee.FullName = registration.Profile.FullName
			attendee.StudentID = registration.Profile.StudentID
		}
		attendance.Attendees[i] = attendee

		switch registration.AttendanceStatus {
		case model.AttendanceAttended:
			attendance.Attended++
		case model.AttendanceNoShow:
			attendance.NoShow++
		default:
			attendance.Registered++
		}
	}

	return attendance, nil
}

func (s Service) UpdateAttendance(ctx context.Context, registration *model.Registration, status model.AttendanceStatus) (*model.Registration, error) {
	err := s.repository.updateAttendance(ctx, registration.ID, status)
	if err != nil {
		return nil, err
	}

	registration.AttendanceStatus = status
	return registration, nil
}
