package entrants

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories used across the service.
const (
	CategoryWinner      = "winner"
	CategoryReplacement = "replacement"
	CategoryGeneral     = "general"
)

// Entrant is a device-scoped participant profile. Devices exist before
// profiles do; Registered flips true once the entrant submits a profile.
type Entrant struct {
	DeviceID             string    `json:"device_id" gorm:"primaryKey;size:64"`
	Name                 string    `json:"name" gorm:"size:255"`
	Email                string    `json:"email" gorm:"size:255"`
	Registered           bool      `json:"registered" gorm:"not null;default:false"`
	Banned               bool      `json:"banned" gorm:"not null;default:false"`
	NotificationsEnabled bool      `json:"notifications_enabled" gorm:"not null;default:true"`
	CreatedAt            time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Notification is an inbox entry for a device. Response and RespondedAt are
// set only for invitation notifications the entrant has acted on.
type Notification struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DeviceID    string     `json:"device_id" gorm:"not null;index;size:64"`
	EventID     uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	Message     string     `json:"message" gorm:"type:text;not null"`
	Category    string     `json:"category" gorm:"not null;size:32"`
	Read        bool       `json:"read" gorm:"not null;default:false"`
	Response    *string    `json:"response,omitempty" gorm:"size:32"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// RegistrationHistory is an append-only log of waitlist joins per device.
type RegistrationHistory struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DeviceID  string    `json:"device_id" gorm:"not null;index;size:64"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null"`
	Action    string    `json:"action" gorm:"not null;size:32"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Request/Response Models

type UpsertProfileRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Email string `json:"email" binding:"required,email"`
}

type PreferenceRequest struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
}

type ProfileResponse struct {
	DeviceID             string `json:"device_id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Registered           bool   `json:"registered"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

func (e *Entrant) ToResponse() *ProfileResponse {
	return &ProfileResponse{
		DeviceID:             e.DeviceID,
		Name:                 e.Name,
		Email:                e.Email,
		Registered:           e.Registered,
		NotificationsEnabled: e.NotificationsEnabled,
	}
}
