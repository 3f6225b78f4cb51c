package waitlist

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusWaitlisted      Status = "WAITLISTED"
	StatusWinner          Status = "WINNER"
	StatusReplacementPool Status = "REPLACEMENT_POOL"
	StatusEnrolled        Status = "ENROLLED"
	StatusDeclined        Status = "DECLINED"
)

// IsValid checks if the waitlist status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusWaitlisted, StatusWinner, StatusReplacementPool, StatusEnrolled, StatusDeclined:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaitlisted:      {StatusWinner, StatusReplacementPool},
		StatusReplacementPool: {StatusWinner},
		StatusWinner:          {StatusEnrolled, StatusDeclined},
		StatusEnrolled:        {},
		StatusDeclined:        {},
	}

	for _, valid := range validTransitions[s] {
		if valid == target {
			return true
		}
	}
	return false
}

// Entry is a device's position on an event waitlist. A device joins an event
// at most once; the unique index backs up the service-level check.
type Entry struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID  uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_waitlist_event_device"`
	DeviceID string    `json:"device_id" gorm:"not null;size:64;uniqueIndex:idx_waitlist_event_device"`
	Status   Status    `json:"status" gorm:"not null;default:'WAITLISTED';size:32;index"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Audit sources for decline replacements.
const (
	SourcePool     = "pool"
	SourceWaitlist = "waitlist"
)

// DeclineAudit records the outcome of one decline-triggered replacement
// attempt. Append-only. ReplacementDeviceID is nil when no candidate existed.
type DeclineAudit struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID             uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	DeclinedDeviceID    string    `json:"declined_device_id" gorm:"not null;size:64"`
	ReplacementDeviceID *string   `json:"replacement_device_id,omitempty" gorm:"size:64"`
	Source              string    `json:"source" gorm:"size:16"`
	ReplacementNotified bool      `json:"replacement_notified" gorm:"not null;default:false"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// JoinResult is the caller-facing outcome of an admission attempt. A refusal
// is data, not an error; Message explains it.
type JoinResult struct {
	Success                  bool   `json:"success"`
	Message                  string `json:"message"`
	NeedsProfileRegistration bool   `json:"needs_profile_registration,omitempty"`
}

type WaitlistStatusResponse struct {
	EventID       string  `json:"event_id"`
	WaitlistCount int     `json:"waitlist_count"`
	Joined        bool    `json:"joined"`
	Status        *Status `json:"status,omitempty"`
}
