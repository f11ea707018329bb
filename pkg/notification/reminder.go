package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/robfig/cron/v3"
)

type reminderRepository interface {
	findDueReminders(ctx context.Context, from, to time.Time) ([]model.Registration, error)
}

type publisher interface {
	Publish(ctx context.Context, message Message) error
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewReminder(logger *slog.Logger, repository reminderRepository, publisher publisher, leadTime time.Duration, location *time.Location) *Reminder {
	return &Reminder{
		logger:     logger,
		repository: repository,
		publisher:  publisher,
		leadTime:   leadTime,
		location:   location,
		now:        time.Now,
	}
}

// Reminder queues event_reminder notifications for registrations of events starting soon
type Reminder struct {
	logger     *slog.Logger
	repository reminderRepository
	publisher  publisher
	leadTime   time.Duration
	location   *time.Location
	now        func() time.Time
}

// Run queues a reminder for every registration of an event starting within the lead time. The
// number of reminders queued is returned.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	now := r.now()
	registrations, err := r.repository.findDueReminders(ctx, now, now.Add(r.leadTime))
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, registration := range registrations {
		if registration.Event == nil {
			continue
		}
		err := r.publisher.Publish(ctx, EventReminder(registration.UserID, *registration.Event, r.location))
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to queue reminder", "userId", registration.UserID, "eventId", registration.EventID, "error", err)
			continue
		}
		queued++
	}

	return queued, nil
}

// Schedule returns a stopped cron running the reminder on the given schedule. Start it with
// Start and stop it with Stop.
func (r *Reminder) Schedule(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(r.location))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		queued, err := r.Run(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to run reminders", "error", err)
			return
		}
		if queued > 0 {
			r.logger.InfoContext(ctx, "Queued reminders", "count", queued)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %v", schedule, err)
	}
	return c, nil
}
