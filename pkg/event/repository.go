package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r repository) findById(ctx context.Context, id uint) (*model.Event, error) {
	var event *model.Event
	err := r.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("event not found by id: %d", id)
	}
	return event, err
}

// update saves the editable fields of the event. The registration counter and the organizer are left
// untouched. The event is locked so a capacity below the current registrations can't slip in while
// someone registers.
func (r repository) update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Event
		err := tx.
			Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			First(&current, event.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errdef.NewNotFound("event not found by id: %d", event.ID)
		}
		if err != nil {
			return err
		}

		if event.MaxCapacity != nil && *event.MaxCapacity < current.CurrentRegistrations {
			return errdef.NewBadRequest("max capacity %d is below the %d current registrations", *event.MaxCapacity, current.CurrentRegistrations)
		}

		err = tx.
			Model(event).
			Select("Title", "Description", "Location", "StartTime", "EndTime", "MaxCapacity", "Category", "ImageURL").
			Updates(event).Error
		if err != nil {
			return err
		}
		event.CurrentRegistrations = current.CurrentRegistrations

		return nil
	})
}

func (r repository) updateImageURL(ctx context.Context, id uint, url string) error {
	return r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		Update("image_url", url).Error
}

// delete removes the event together with its registrations and favorites and returns the ids of
// the users who were registered.
func (r repository) delete(ctx context.Context, id uint) ([]uint, error) {
	var registrants []uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&model.Registration{}).
			Where("event_id = ?", id).
			Pluck("user_id", &registrants).Error
		if err != nil {
			return err
		}

		err = tx.Where("event_id = ?", id).Delete(&model.Registration{}).Error
		if err != nil {
			return err
		}

		err = tx.Where("event_id = ?", id).Delete(&model.Favorite{}).Error
		if err != nil {
			return err
		}

		db := tx.Delete(&model.Event{}, id)
		if db.Error != nil {
			return db.Error
		}

		if db.RowsAffected < 1 {
			return errdef.NewNotFound("event not found by id: %d", id)
		}

		return nil
	})

	return registrants, err
}

// findUpcoming returns the events which haven't ended yet ordered by start time
func (r repository) findUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Where("end_time >= ?", now).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find upcoming events: %v", err)
	}
	return events, nil
}

func (r repository) findAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %v", err)
	}
	return events, nil
}

func (r repository) findByOrganizer(ctx context.Context, organizerId uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Where("organizer_id = ?", organizerId).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find events by organizer %d: %v", organizerId, err)
	}
	return events, nil
}

// findStartingBetween returns the events starting in [from, to)
func (r repository) findStartingBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find events between %s and %s: %v", from, to, err)
	}
	return events, nil
}

func (r repository) findRegisteredByUser(ctx context.Context, userId uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Joins("JOIN event_registrations ON event_registrations.event_id = events.id").
		Where("event_registrations.user_id = ?", userId).
		Order("events.start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find events registered by user %d: %v", userId, err)
	}
	return events, nil
}

func (r repository) isRegistered(ctx context.Context, eventId, userId uint) (bool, error) {
	var count int64
	err := r.db.
		WithContext(ctx).
		Model(&model.Registration{}).
		Where("event_id = ? AND user_id = ?", eventId, userId).
		Count(&count).Error
	return count > 0, err
}

func (r repository) isFavorite(ctx context.Context, eventId, userId uint) (bool, error) {
	var count int64
	err := r.db.
		WithContext(ctx).
		Model(&model.Favorite{}).
		Where("event_id = ? AND user_id = ?", eventId, userId).
		Count(&count).Error
	return count > 0, err
}

func (r repository) findRegistrantIds(ctx context.Context, eventId uint) ([]uint, error) {
	var ids []uint
	err := r.db.
		WithContext(ctx).
		Model(&model.Registration{}).
		Where("event_id = ?", eventId).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r repository) countEvents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error
	return count, err
}

func (r repository) countUpcomingEvents(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Where("start_time >= ?", now).Count(&count).Error
	return count, err
}

func (r repository) countUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserProfile{}).Count(&count).Error
	return count, err
}

func (r repository) countRegistrations(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).Count(&count).Error
	return count, err
}
