package model

import (
	"context"
	"time"
)

type Role string

const (
	RoleStudent       Role = "student"
	RoleOrganizer     Role = "organizer"
	RoleAdministrator Role = "admin"
)

// User domain object defining a user account
// swagger:model
type User struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Email     string       `gorm:"index;unique" json:"email"`
	Password  string       `json:"-"`
	Profile   *UserProfile `gorm:"foreignKey:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"profile,omitempty"`
}

// UserProfile holds the personal details and the role of a user. Its ID is the ID of the user.
// swagger:model
type UserProfile struct {
	ID        uint      `gorm:"primarykey;autoIncrement:false" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	FullName  string    `json:"fullName,omitempty"`
	StudentID string    `json:"studentId,omitempty"`
	Year      string    `json:"year,omitempty"`
	Major     string    `json:"major,omitempty"`
	Role      Role      `gorm:"type:varchar(16);not null;default:student;index" json:"role"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (u *User) Role() Role {
	if u.Profile == nil {
		return RoleStudent
	}
	return u.Profile.Role
}

func (u *User) IsAdministrator() bool {
	return u.Role() == RoleAdministrator
}

func (u *User) IsOrganizer() bool {
	return u.Role() == RoleOrganizer
}

// HasRole returns true if the user has one of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	role := u.Role()
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

type userCtxKey int

var userKey userCtxKey

// NewContextWithUser returns a new [context.Context] that carries given user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user stored in the ctx, if any.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey).(*User)
	return u, ok
}
