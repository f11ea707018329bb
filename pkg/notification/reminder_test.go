package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReminder_Run(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	event := &model.Event{ID: 1, Title: "Career Fair", Location: "Main Hall", StartTime: now.Add(30 * time.Minute)}
	repository := &mockReminderRepository{}
	repository.
		On("findDueReminders", now, now.Add(time.Hour)).
		Return([]model.Registration{
			{ID: 1, EventID: 1, UserID: 3, Event: event},
			{ID: 2, EventID: 1, UserID: 4, Event: event},
			{ID: 3, EventID: 1, UserID: 5, Event: event},
		}, nil)
	publisher := &mockPublisher{}
	publisher.
		On("Publish", mock.MatchedBy(func(m Message) bool { return m.UserID == 3 || m.UserID == 5 })).
		Return(nil)
	publisher.
		On("Publish", mock.MatchedBy(func(m Message) bool { return m.UserID == 4 })).
		Return(errors.New("channel closed"))
	reminder := NewReminder(slog.New(slog.NewTextHandler(io.Discard, nil)), repository, publisher, time.Hour, time.UTC)
	reminder.now = func() time.Time { return now }

	queued, err := reminder.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, queued)
	publisher.AssertNumberOfCalls(t, "Publish", 3)
	message := publisher.Calls[0].Arguments.Get(0).(Message)
	assert.Equal(t, model.NotificationEventReminder, message.Type)
	assert.Equal(t, uint(1), *message.EventID)
	assert.Equal(t, "Career Fair", message.Data["eventTitle"])
}

func TestReminder_Run_RepositoryError(t *testing.T) {
	repository := &mockReminderRepository{}
	repository.On("findDueReminders", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	publisher := &mockPublisher{}
	reminder := NewReminder(slog.New(slog.NewTextHandler(io.Discard, nil)), repository, publisher, time.Hour, time.UTC)

	_, err := reminder.Run(context.Background())

	assert.ErrorContains(t, err, "connection refused")
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestReminder_Schedule(t *testing.T) {
	reminder := NewReminder(slog.New(slog.NewTextHandler(io.Discard, nil)), &mockReminderRepository{}, &mockPublisher{}, time.Hour, time.UTC)

	c, err := reminder.Schedule("*/5 * * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = reminder.Schedule("every now and then")
	assert.ErrorContains(t, err, "invalid reminder schedule")
}

type mockReminderRepository struct{ mock.Mock }

func (m *mockReminderRepository) findDueReminders(_ context.Context, from, to time.Time) ([]model.Registration, error) {
	called := m.Called(from, to)
	registrations, _ := called.Get(0).([]model.Registration)
	return registrations, called.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(_ context.Context, message Message) error {
	return m.Called(message).Error(0)
}
