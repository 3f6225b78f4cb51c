package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PushMessage is the Kafka payload handed to the push transport. The inbox
// row is the source of truth; this is a best-effort delivery hint.
type PushMessage struct {
	NotificationID uuid.UUID `json:"notification_id"`
	DeviceID       string    `json:"device_id"`
	EventID        uuid.UUID `json:"event_id"`
	Message        string    `json:"message"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"created_at"`
}

func (m *PushMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PushMessageFromJSON(data []byte) (*PushMessage, error) {
	var m PushMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Broadcast target groups, mapped to waitlist entry statuses.
const (
	GroupWaitlist  = "waitlist"
	GroupWinners   = "winners"
	GroupEnrolled  = "enrolled"
	GroupCancelled = "cancelled"
)

type BroadcastRequest struct {
	Message string `json:"message" binding:"required,max=500" validate:"required,max=500"`
	Group   string `json:"group" binding:"required,oneof=waitlist winners enrolled cancelled" validate:"required,oneof=waitlist winners enrolled cancelled"`
}

type BroadcastResult struct {
	EventID  string `json:"event_id"`
	Group    string `json:"group"`
	Notified int    `json:"notified"`
	Failed   int    `json:"failed"`
	Skipped  int    `json:"skipped"`
}
