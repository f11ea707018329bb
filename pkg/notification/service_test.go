package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBadge(t *testing.T) {
	tests := map[string]struct {
		count int64
		want  string
	}{
		"None":       {count: 0, want: ""},
		"One":        {count: 1, want: "1"},
		"NinetyNine": {count: 99, want: "99"},
		"Hundred":    {count: 100, want: "99+"},
		"Many":       {count: 1234, want: "99+"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, badge(test.count))
		})
	}
}

func TestService_Unread(t *testing.T) {
	repository := &mockRepository{}
	repository.On("countUnread", uint(3)).Return(int64(120), nil)
	service := NewService(repository)

	unread, err := service.Unread(context.Background(), &model.User{ID: 3})

	require.NoError(t, err)
	assert.Equal(t, int64(120), unread.Count)
	assert.Equal(t, "99+", unread.Badge)
	repository.AssertExpectations(t)
}

func TestService_Unread_Error(t *testing.T) {
	repository := &mockRepository{}
	repository.On("countUnread", uint(3)).Return(int64(0), errors.New("connection refused"))
	service := NewService(repository)

	_, err := service.Unread(context.Background(), &model.User{ID: 3})

	assert.ErrorContains(t, err, "connection refused")
}

func TestService_MarkRead(t *testing.T) {
	t.Run("Own", func(t *testing.T) {
		repository := &mockRepository{}
		repository.On("markRead", uint(3), uint(9)).Return(nil)
		service := NewService(repository)

		err := service.MarkRead(context.Background(), &model.User{ID: 3}, 9)

		require.NoError(t, err)
		repository.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repository := &mockRepository{}
		repository.On("markRead", uint(3), uint(9)).Return(errdef.NewNotFound("notification not found by id: 9"))
		service := NewService(repository)

		err := service.MarkRead(context.Background(), &model.User{ID: 3}, 9)

		assert.True(t, errdef.IsNotFound(err))
	})
}

func TestService_List(t *testing.T) {
	repository := &mockRepository{}
	repository.On("findByUser", uint(3)).Return([]model.Notification{{ID: 2}, {ID: 1}}, nil)
	service := NewService(repository)

	notifications, err := service.List(context.Background(), &model.User{ID: 3})

	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}

type mockRepository struct{ mock.Mock }

func (m *mockRepository) create(_ context.Context, notification *model.Notification) error {
	return m.Called(notification).Error(0)
}

func (m *mockRepository) reminded(_ context.Context, userId, eventId uint) (bool, error) {
	called := m.Called(userId, eventId)
	return called.Bool(0), called.Error(1)
}

func (m *mockRepository) findByUser(_ context.Context, userId uint) ([]model.Notification, error) {
	called := m.Called(userId)
	notifications, _ := called.Get(0).([]model.Notification)
	return notifications, called.Error(1)
}

func (m *mockRepository) countUnread(_ context.Context, userId uint) (int64, error) {
	called := m.Called(userId)
	return called.Get(0).(int64), called.Error(1)
}

func (m *mockRepository) markRead(_ context.Context, userId, id uint) error {
	return m.Called(userId, id).Error(0)
}

func (m *mockRepository) markAllRead(_ context.Context, userId uint) error {
	return m.Called(userId).Error(0)
}
