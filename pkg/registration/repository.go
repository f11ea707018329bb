package registration

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

// create registers the user for the event. The event row is locked for the duration of the
// transaction so concurrent registrations can't exceed the capacity.
func (r repository) create(ctx context.Context, eventId, userId uint, now time.Time) (*model.Registration, *model.Event, error) {
	var registration *model.Registration
	var event *model.Event

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			First(&event, eventId).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errdef.NewNotFound("event not found by id: %d", eventId)
			}
			return err
		}

		if event.IsPast(now) {
			return errdef.NewBadRequest("event %d has already ended", eventId)
		}

		var count int64
		err = tx.
			Model(&model.Registration{}).
			Where("event_id = ? AND user_id = ?", eventId, userId).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return errdef.NewDuplicated("already registered for event %d", eventId)
		}

		if event.IsFull() {
			return errdef.NewConflict("Event is full")
		}

		registration = &model.Registration{
			EventID:          eventId,
			UserID:           userId,
			AttendanceStatus: model.AttendanceRegistered,
		}
		err = tx.Create(registration).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errdef.NewDuplicated("already registered for event %d", eventId)
			}
			return err
		}

		err = tx.
			Model(event).
			UpdateColumn("current_registrations", gorm.Expr("current_registrations + 1")).Error
		if err != nil {
			return err
		}
		event.CurrentRegistrations++

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return registration, event, nil
}

// delete unregisters the user from the event and decrements the counter
func (r repository) delete(ctx context.Context, eventId, userId uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		db := tx.
			Where("event_id = ? AND user_id = ?", eventId, userId).
			Delete(&model.Registration{})
		if db.Error != nil {
			return db.Error
		}

		if db.RowsAffected < 1 {
			return errdef.NewNotFound("registration not found for event %d", eventId)
		}

		return tx.
			Model(&model.Event{}).
			Where("id = ? AND current_registrations > 0", eventId).
			UpdateColumn("current_registrations", gorm.Expr("current_registrations - 1")).Error
	})
}

func (r repository) findById(ctx context.Context, id uint) (*model.Registration, error) {
	var registration *model.Registration
	err := r.db.
		WithContext(ctx).
		Preload("Event").
		First(&registration, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("registration not found by id: %d", id)
	}
	return registration, err
}

// findByUser returns the registrations of the user with their events ordered by the start of the event
func (r repository) findByUser(ctx context.Context, userId uint) ([]model.Registration, error) {
	var registrations []model.Registration
	err := r.db.
		WithContext(ctx).
		Joins("Event").
		Where("event_registrations.user_id = ?", userId).
		Order(`"Event"."start_time" ASC`).
		Find(&registrations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find registrations of user %d: %v", userId, err)
	}
	return registrations, nil
}

// findByEvent returns the registrations of the event with the profiles of the users ordered by registration time
func (r repository) findByEvent(ctx context.Context, eventId uint) ([]model.Registration, error) {
	var registrations []model.Registration
	err := r.db.
		WithContext(ctx).
		Preload("Profile").
		Where("event_id = ?", eventId).
		Order("registered_at ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find registrations of event %d: %v", eventId, err)
	}
	return registrations, nil
}

func (r repository) updateAttendance(ctx context.Context, id uint, status model.AttendanceStatus) error {
	db := r.db.
		WithContext(ctx).
		Model(&model.Registration{}).
		Where("id = ?", id).
		Update("attendance_status", status)
	if db.Error != nil {
		return db.Error
	}

	if db.RowsAffected < 1 {
		return errdef.NewNotFound("registration not found by id: %d", id)
	}

	return nil
}
