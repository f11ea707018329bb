package model

import "time"

type Category string

const (
	CategoryAcademic      Category = "Academic"
	CategoryCareer        Category = "Career"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategorySocial        Category = "Social"
	CategoryWorkshop      Category = "Workshop"
	CategoryOther         Category = "Other"
)

// Categories in the order they are presented.
var Categories = []Category{
	CategoryAcademic,
	CategoryCareer,
	CategorySports,
	CategoryEntertainment,
	CategorySocial,
	CategoryWorkshop,
	CategoryOther,
}

type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusOngoing  EventStatus = "ongoing"
	EventStatusPast     EventStatus = "past"
)

// Event domain object defining a campus event
// swagger:model
type Event struct {
	ID                   uint      `gorm:"primarykey" json:"id"`
	CreatedAt            time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	Title                string    `gorm:"not null" json:"title"`
	Description          string    `json:"description,omitempty"`
	Location             string    `gorm:"not null" json:"location"`
	StartTime            time.Time `gorm:"not null;index" json:"startTime"`
	EndTime              time.Time `gorm:"not null;index" json:"endTime"`
	MaxCapacity          *uint     `json:"maxCapacity,omitempty"`
	CurrentRegistrations uint      `gorm:"not null;default:0" json:"currentRegistrations"`
	Category             Category  `gorm:"type:varchar(32);not null;index" json:"category"`
	ImageURL             string    `json:"imageUrl,omitempty"`
	OrganizerID          uint      `gorm:"not null;index" json:"organizerId"`
	Organizer            *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsFull returns true if the event has a capacity and it has been reached.
func (e Event) IsFull() bool {
	return e.MaxCapacity != nil && e.CurrentRegistrations >= *e.MaxCapacity
}

func (e Event) IsPast(now time.Time) bool {
	return e.EndTime.Before(now)
}

func (e Event) IsOngoing(now time.Time) bool {
	return !e.StartTime.After(now) && !e.EndTime.Before(now)
}

// Status classifies the event relative to now. Past takes precedence over ongoing.
func (e Event) Status(now time.Time) EventStatus {
	if e.IsPast(now) {
		return EventStatusPast
	}
	if e.IsOngoing(now) {
		return EventStatusOngoing
	}
	return EventStatusUpcoming
}

// SpotsLeft returns the number of free spots and false if the event has no capacity.
func (e Event) SpotsLeft() (uint, bool) {
	if e.MaxCapacity == nil {
		return 0, false
	}
	if e.CurrentRegistrations >= *e.MaxCapacity {
		return 0, true
	}
	return *e.MaxCapacity - e.CurrentRegistrations, true
}
