package favorite

import (
	"context"
	"errors"
	"fmt"

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

// add is a no-op if the event is already a favorite of the user
func (r repository) add(ctx context.Context, userId, eventId uint) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", eventId).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errdef.NewNotFound("event not found by id: %d", eventId)
	}

	err = r.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Favorite{UserID: userId, EventID: eventId}).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errdef.NewNotFound("event not found by id: %d", eventId)
	}
	return err
}

func (r repository) remove(ctx context.Context, userId, eventId uint) error {
	return r.db.
		WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userId, eventId).
		Delete(&model.Favorite{}).Error
}

// findByUser returns the favorites of the user with their events, most recently added first
func (r repository) findByUser(ctx context.Context, userId uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Joins("JOIN event_favorites ON event_favorites.event_id = events.id").
		Where("event_favorites.user_id = ?", userId).
		Order("event_favorites.created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites of user %d: %v", userId, err)
	}
	return events, nil
}
