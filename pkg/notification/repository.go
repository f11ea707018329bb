package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"gorm.io/gorm"
)

// listLimit is the number of notifications returned by a listing
const listLimit = 20

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, notification *model.Notification) error {
	err := r.db.WithContext(ctx).Create(notification).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errdef.NewNotFound("user %d or event of notification not found", notification.UserID)
	}
	return err
}

func (r repository) findByUser(ctx context.Context, userId uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.
		WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at desc, id desc").
		Limit(listLimit).
		Find(&notifications).Error
	return notifications, err
}

func (r repository) countUnread(ctx context.Context, userId uint) (int64, error) {
	var count int64
	err := r.db.
		WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Count(&count).Error
	return count, err
}

func (r repository) markRead(ctx context.Context, userId, id uint) error {
	db := r.db.
		WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userId).
		Update("is_read", true)
	if db.Error != nil {
		return db.Error
	}

	if db.RowsAffected < 1 {
		return errdef.NewNotFound("notification not found by id: %d", id)
	}

	return nil
}

func (r repository) markAllRead(ctx context.Context, userId uint) error {
	return r.db.
		WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Update("is_read", true).Error
}

func (r repository) reminded(ctx context.Context, userId, eventId uint) (bool, error) {
	var count int64
	err := r.db.
		WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND event_id = ? AND type = ?", userId, eventId, model.NotificationEventReminder).
		Count(&count).Error
	return count > 0, err
}

// findDueReminders returns the registrations, with their event, of events starting in [from, to)
// whose registrant hasn't been reminded yet
func (r repository) findDueReminders(ctx context.Context, from, to time.Time) ([]model.Registration, error) {
	var registrations []model.Registration
	err := r.db.
		WithContext(ctx).
		Joins("Event").
		Where(`"Event"."start_time" >= ? AND "Event"."start_time" < ?`, from, to).
		Where(`NOT EXISTS (SELECT 1 FROM notifications n WHERE n.user_id = event_registrations.user_id AND n.event_id = event_registrations.event_id AND n.type = ?)`, model.NotificationEventReminder).
		Order(`"Event"."start_time"`).
		Find(&registrations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %v", err)
	}
	return registrations, nil
}
