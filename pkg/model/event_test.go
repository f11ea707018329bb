package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Status(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		start time.Time
		end   time.Time
		want  EventStatus
	}{
		"Upcoming": {
			start: now.Add(time.Hour),
			end:   now.Add(2 * time.Hour),
			want:  EventStatusUpcoming,
		},
		"Ongoing": {
			start: now.Add(-time.Hour),
			end:   now.Add(time.Hour),
			want:  EventStatusOngoing,
		},
		"OngoingStartsNow": {
			start: now,
			end:   now.Add(time.Hour),
			want:  EventStatusOngoing,
		},
		"OngoingEndsNow": {
			start: now.Add(-time.Hour),
			end:   now,
			want:  EventStatusOngoing,
		},
		"Past": {
			start: now.Add(-2 * time.Hour),
			end:   now.Add(-time.Nanosecond),
			want:  EventStatusPast,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			event := Event{StartTime: test.start, EndTime: test.end}

			assert.Equal(t, test.want, event.Status(now))
		})
	}
}

func TestEvent_IsFull(t *testing.T) {
	capacity := uint(2)

	assert.False(t, Event{CurrentRegistrations: 100}.IsFull(), "no capacity means unlimited")
	assert.False(t, Event{MaxCapacity: &capacity, CurrentRegistrations: 1}.IsFull())
	assert.True(t, Event{MaxCapacity: &capacity, CurrentRegistrations: 2}.IsFull())
	assert.True(t, Event{MaxCapacity: &capacity, CurrentRegistrations: 3}.IsFull())
}

func TestEvent_SpotsLeft(t *testing.T) {
	capacity := uint(5)

	_, ok := Event{}.SpotsLeft()
	assert.False(t, ok)

	left, ok := Event{MaxCapacity: &capacity, CurrentRegistrations: 3}.SpotsLeft()
	assert.True(t, ok)
	assert.Equal(t, uint(2), left)

	left, ok = Event{MaxCapacity: &capacity, CurrentRegistrations: 7}.SpotsLeft()
	assert.True(t, ok)
	assert.Equal(t, uint(0), left)
}
