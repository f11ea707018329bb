package notification

import (
	"context"
	"strconv"

	"github.com/dhis2-sre/campus-events/pkg/model"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(repository notificationRepository) *Service {
	return &Service{repository: repository}
}

type notificationRepository interface {
	findByUser(ctx context.Context, userId uint) ([]model.Notification, error)
	countUnread(ctx context.Context, userId uint) (int64, error)
	markRead(ctx context.Context, userId, id uint) error
	markAllRead(ctx context.Context, userId uint) error
}

type Service struct {
	repository notificationRepository
}

// Unread notifications of a user
// swagger:model
type Unread struct {
	Count int64 `json:"count"`
	// Badge is the count as displayed. Empty when there are no unread notifications and "99+" when there are more than 99.
	Badge string `json:"badge"`
}

// List the latest notifications of the user
func (s Service) List(ctx context.Context, user *model.User) ([]model.Notification, error) {
	return s.repository.findByUser(ctx, user.ID)
}

func (s Service) Unread(ctx context.Context, user *model.User) (*Unread, error) {
	count, err := s.repository.countUnread(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Unread{Count: count, Badge: badge(count)}, nil
}

func badge(count int64) string {
	switch {
	case count <= 0:
		return ""
	case count > 99:
		return "99+"
	default:
		return strconv.FormatInt(count, 10)
	}
}

// MarkRead marks a notification of the user as read
func (s Service) MarkRead(ctx context.Context, user *model.User, id uint) error {
	return s.repository.markRead(ctx, user.ID, id)
}

func (s Service) MarkAllRead(ctx context.Context, user *model.User) error {
	return s.repository.markAllRead(ctx, user.ID)
}
