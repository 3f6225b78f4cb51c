package notifications

import (
	"context"
	"fmt"
	"time"

	"raffly/internal/entrants"
	"raffly/pkg/logger"

	"github.com/google/uuid"
)

// Inbox is the slice of the entrants service the dispatcher writes through.
type Inbox interface {
	CreateNotification(ctx context.Context, deviceID string, eventID uuid.UUID, message, category string) (*entrants.Notification, error)
}

// Dispatcher delivers one notification: the inbox write must succeed, the
// Kafka publish for the push transport is best-effort.
type Dispatcher interface {
	Send(ctx context.Context, deviceID string, eventID uuid.UUID, message, category string) error
}

type dispatcher struct {
	inbox    Inbox
	producer Producer
	log      *logger.Logger
}

// NewDispatcher wires the inbox and the optional push producer. A nil
// producer disables the push leg entirely (local development without Kafka).
func NewDispatcher(inbox Inbox, producer Producer) Dispatcher {
	return &dispatcher{
		inbox:    inbox,
		producer: producer,
		log:      logger.GetDefault(),
	}
}

func (d *dispatcher) Send(ctx context.Context, deviceID string, eventID uuid.UUID, message, category string) error {
	n, err := d.inbox.CreateNotification(ctx, deviceID, eventID, message, category)
	if err != nil {
		return fmt.Errorf("failed to write inbox notification: %w", err)
	}

	if d.producer == nil {
		return nil
	}

	push := &PushMessage{
		NotificationID: n.ID,
		DeviceID:       deviceID,
		EventID:        eventID,
		Message:        message,
		Category:       category,
		CreatedAt:      time.Now(),
	}
	if err := d.producer.Publish(ctx, push); err != nil {
		d.log.WithError(err).WithDevice(deviceID).Warn("push publish failed, inbox write kept")
	}

	return nil
}
