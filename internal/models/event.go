package models

import (
	"time"

	"gorm.io/gorm"
)

// Event statuses.
const (
	EventScheduled = "scheduled"
	EventCancelled = "cancelled"
)

// Event is a scheduled gathering. Invariants: the creator is always a
// participant, and attendees are a subset of participants. RSVP only ever
// touches the attendee list.
type Event struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	CreatedBy      uint           `gorm:"not null;index" json:"created_by"`
	StartTime      time.Time      `gorm:"not null;index" json:"start_time"`
	EndTime        time.Time      `gorm:"not null" json:"end_time"`
	Location       string         `json:"location"`
	ParticipantIDs UintList       `gorm:"type:json" json:"participant_ids"`
	AttendeeIDs    UintList       `gorm:"type:json" json:"attendee_ids"`
	Status         string         `gorm:"not null;default:scheduled" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Validate checks the event's structural invariants.
func (e *Event) Validate() error {
	if e.Title == "" {
		return NewValidationError("event title is required")
	}
	if e.EndTime.Before(e.StartTime) {
		return NewValidationError("event end time precedes start time")
	}
	if !e.ParticipantIDs.Contains(e.CreatedBy) {
		return NewValidationError("event creator must be a participant")
	}
	for _, id := range e.AttendeeIDs {
		if !e.ParticipantIDs.Contains(id) {
			return NewValidationError("attendee is not a participant")
		}
	}
	return nil
}
