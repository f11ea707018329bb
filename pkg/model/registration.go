package model

import "time"

type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "registered"
	AttendanceAttended   AttendanceStatus = "attended"
	AttendanceNoShow     AttendanceStatus = "no_show"
)

// Registration of a user for an event
// swagger:model
type Registration struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	EventID          uint             `gorm:"not null;uniqueIndex:idx_registration_event_user" json:"eventId"`
	Event            *Event           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"event,omitempty"`
	UserID           uint             `gorm:"not null;uniqueIndex:idx_registration_event_user;index" json:"userId"`
	Profile          *UserProfile     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"profile,omitempty"`
	RegisteredAt     time.Time        `gorm:"autoCreateTime;index" json:"registeredAt"`
	AttendanceStatus AttendanceStatus `gorm:"type:varchar(16);not null;default:registered" json:"attendanceStatus"`
}

func (Registration) TableName() string {
	return "event_registrations"
}

// Favorite marks an event as a favorite of a user
// swagger:model
type Favorite struct {
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	EventID   uint      `gorm:"primaryKey" json:"eventId"`
	Event     *Event    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"event,omitempty"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Favorite) TableName() string {
	return "event_favorites"
}
