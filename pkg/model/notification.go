package model

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationRegistrationConfirmed NotificationType = "registration_confirmed"
	NotificationEventReminder         NotificationType = "event_reminder"
	NotificationEventUpdate           NotificationType = "event_update"
	NotificationEventCancelled        NotificationType = "event_cancelled"
)

// Notification domain object defining a message for a user
// swagger:model
type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	CreatedAt time.Time        `gorm:"index" json:"createdAt"`
	UserID    uint             `gorm:"not null;index" json:"userId"`
	User      *User            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	EventID   *uint            `gorm:"index" json:"eventId,omitempty"`
	Event     *Event           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Type      NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `json:"message"`
	Data      datatypes.JSON   `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool             `gorm:"not null;default:false" json:"isRead"`
}
