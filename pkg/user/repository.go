package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dhis2-sre/campus-events/internal/errdef"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

// create inserts the user together with its profile
func (r repository) create(ctx context.Context, u *model.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %q already exists", u.Email)
	}

	return err
}

// likeEscaper makes the wildcards of a LIKE pattern match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type userFilter struct {
	search string
	role   model.Role
}

func (r repository) findAll(ctx context.Context, filter userFilter) ([]*model.User, error) {
	var users []*model.User

	query := r.db.
		WithContext(ctx).
		Joins("Profile").
		Order(`"Profile"."created_at" DESC`)

	if filter.search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.search)) + "%"
		query = query.Where(`LOWER("Profile"."full_name") LIKE ? ESCAPE '\' OR LOWER("Profile"."student_id") LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	if filter.role != "" {
		query = query.Where(`"Profile"."role" = ?`, filter.role)
	}

	err := query.Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %v", err)
	}

	return users, nil
}

func (r repository) findByEmail(ctx context.Context, email string) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		Preload("Profile").
		Where("email = ?", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with email %q", email)
	}
	return u, err
}

func (r repository) findById(ctx context.Context, id uint) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		Preload("Profile").
		First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with id %d", id)
	}
	return u, err
}

func (r repository) updateProfile(ctx context.Context, profile *model.UserProfile) error {
	db := r.db.
		WithContext(ctx).
		Model(&model.UserProfile{ID: profile.ID}).
		Select("FullName", "StudentID", "Year", "Major").
		Updates(profile)
	if db.Error != nil {
		return fmt.Errorf("failed to update profile of user %d: %v", profile.ID, db.Error)
	} else if db.RowsAffected < 1 {
		return errdef.NewNotFound("failed to find profile of user %d", profile.ID)
	}

	return nil
}

func (r repository) updateRole(ctx context.Context, id uint, role model.Role) error {
	db := r.db.
		WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("id = ?", id).
		Update("role", role)
	if db.Error != nil {
		return fmt.Errorf("failed to update role of user %d: %v", id, db.Error)
	} else if db.RowsAffected < 1 {
		return errdef.NewNotFound("failed to find user with id %d", id)
	}

	return nil
}

// delete removes the user. The registration counter of every event the user is registered for is
// decremented first. The profile, registrations, favorites and notifications are removed by the
// database through cascading foreign keys.
func (r repository) delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&model.Event{}).
			Where("id IN (?) AND current_registrations > 0", tx.Model(&model.Registration{}).Select("event_id").Where("user_id = ?", id)).
			UpdateColumn("current_registrations", gorm.Expr("current_registrations - 1")).Error
		if err != nil {
			return fmt.Errorf("failed to release registrations of user %d: %v", id, err)
		}

		db := tx.Unscoped().Delete(&model.User{}, id)
		if db.Error != nil {
			return fmt.Errorf("failed to delete user with id %d: %v", id, db.Error)
		} else if db.RowsAffected < 1 {
			return errdef.NewNotFound("failed to find user with id %d", id)
		}

		return nil
	})
}
