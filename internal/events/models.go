package events

import (
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the textual format for registration window timestamps.
// Values are naive local times with no timezone component.
const TimeLayout = "2006-01-02T15:04:05"

type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`

	// OrganizerID is the account that created the event. Organizers may
	// not join their own waitlists.
	OrganizerID string `json:"organizer_id" gorm:"not null;index;size:64"`

	// Registration window bounds, stored as naive local timestamps in
	// TimeLayout format. Missing or unparseable values close the window.
	RegistrationOpensAt  string `json:"registration_opens_at" gorm:"size:32"`
	RegistrationClosesAt string `json:"registration_closes_at" gorm:"size:32"`

	// MaxCapacity limits the waitlist size. Nil or non-positive means
	// unlimited.
	MaxCapacity *int `json:"max_capacity,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// WithinRegistrationWindow reports whether now falls inside the event's
// registration window. Both bounds are inclusive. A missing or malformed
// bound closes the window rather than opening it.
func (e *Event) WithinRegistrationWindow(now time.Time) bool {
	if e == nil {
		return false
	}
	if e.RegistrationOpensAt == "" || e.RegistrationClosesAt == "" {
		return false
	}

	openTime, err := time.ParseInLocation(TimeLayout, e.RegistrationOpensAt, now.Location())
	if err != nil {
		return false
	}
	closeTime, err := time.ParseInLocation(TimeLayout, e.RegistrationClosesAt, now.Location())
	if err != nil {
		return false
	}

	return !now.Before(openTime) && !now.After(closeTime)
}

// HasWaitlistCapacity reports whether another entrant fits on the waitlist.
func (e *Event) HasWaitlistCapacity(waitlistCount int) bool {
	if e == nil {
		return false
	}
	if e.MaxCapacity == nil || *e.MaxCapacity <= 0 {
		return true
	}
	return waitlistCount < *e.MaxCapacity
}

// Request/Response Models

type CreateEventRequest struct {
	Name                 string `json:"name" binding:"required,min=3,max=255"`
	Description          string `json:"description" binding:"max=2000"`
	RegistrationOpensAt  string `json:"registration_opens_at" binding:"required"`
	RegistrationClosesAt string `json:"registration_closes_at" binding:"required"`
	MaxCapacity          *int   `json:"max_capacity"`
}

type EventResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	OrganizerID          string    `json:"organizer_id"`
	RegistrationOpensAt  string    `json:"registration_opens_at"`
	RegistrationClosesAt string    `json:"registration_closes_at"`
	MaxCapacity          *int      `json:"max_capacity,omitempty"`
	RegistrationOpen     bool      `json:"registration_open"`
	CreatedAt            time.Time `json:"created_at"`
}

// ToResponse converts an event to its API representation.
func (e *Event) ToResponse(now time.Time) *EventResponse {
	return &EventResponse{
		ID:                   e.ID.String(),
		Name:                 e.Name,
		Description:          e.Description,
		OrganizerID:          e.OrganizerID,
		RegistrationOpensAt:  e.RegistrationOpensAt,
		RegistrationClosesAt: e.RegistrationClosesAt,
		MaxCapacity:          e.MaxCapacity,
		RegistrationOpen:     e.WithinRegistrationWindow(now),
		CreatedAt:            e.CreatedAt,
	}
}
