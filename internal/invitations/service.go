package invitations

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"raffly/internal/entrants"
	"raffly/internal/waitlist"
	"raffly/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotYourNotification  = errors.New("notification does not belong to this device")
	ErrAlreadyResponded     = errors.New("invitation has already been responded to")
)

const (
	ResponseAccepted = "accepted"
	ResponseDeclined = "declined"
)

const replacementMessage = "Good news! A spot opened up and you have been selected. Open the app to accept or decline your spot."

// WaitlistStore is the slice of the waitlist repository the cascade needs.
type WaitlistStore interface {
	GetWaitlist(eventID uuid.UUID) ([]waitlist.Entry, error)
	GetReplacementPool(eventID uuid.UUID) ([]waitlist.Entry, error)
	MarkReplacement(eventID uuid.UUID, deviceID string) error
	PromoteFromWaitlist(eventID uuid.UUID, deviceID string) error
	SetEnrolledStatus(eventID uuid.UUID, deviceID string, enrolled bool) error
	LogDeclineReplacement(audit *waitlist.DeclineAudit) error
}

// NotificationStore covers the invitation notification reads and writes.
type NotificationStore interface {
	GetNotification(id uuid.UUID) (*entrants.Notification, error)
	MarkResponded(id uuid.UUID, response string) error
}

// Dispatcher delivers a notification to one device.
type Dispatcher interface {
	Send(ctx context.Context, deviceID string, eventID uuid.UUID, message, category string) error
}

type Service interface {
	Accept(ctx context.Context, eventID uuid.UUID, deviceID string, notificationID uuid.UUID) error
	Decline(ctx context.Context, eventID uuid.UUID, deviceID string, notificationID uuid.UUID) error
}

type service struct {
	store         WaitlistStore
	notifications NotificationStore
	dispatcher    Dispatcher
	log           *logger.Logger
}

func NewService(store WaitlistStore, notifications NotificationStore, dispatcher Dispatcher) Service {
	return &service{
		store:         store,
		notifications: notifications,
		dispatcher:    dispatcher,
		log:           logger.GetDefault(),
	}
}

// Accept enrolls a winner. Both writes must succeed; there is nothing
// best-effort about accepting.
func (s *service) Accept(ctx context.Context, eventID uuid.UUID, deviceID string, notificationID uuid.UUID) error {
	if err := s.checkOwnership(deviceID, notificationID); err != nil {
		return err
	}

	if err := s.store.SetEnrolledStatus(eventID, deviceID, true); err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}

	if err := s.notifications.MarkResponded(notificationID, ResponseAccepted); err != nil {
		return fmt.Errorf("failed to record response: %w", err)
	}

	return nil
}

// Decline releases a winner's spot and then tries to fill it. The decline
// itself succeeds once the status and notification writes land; everything
// after that is best-effort and only ever logged.
func (s *service) Decline(ctx context.Context, eventID uuid.UUID, deviceID string, notificationID uuid.UUID) error {
	if err := s.checkOwnership(deviceID, notificationID); err != nil {
		return err
	}

	if err := s.store.SetEnrolledStatus(eventID, deviceID, false); err != nil {
		return fmt.Errorf("failed to record decline: %w", err)
	}

	if err := s.notifications.MarkResponded(notificationID, ResponseDeclined); err != nil {
		return fmt.Errorf("failed to record response: %w", err)
	}

	s.cascade(ctx, eventID, deviceID)
	return nil
}

func (s *service) checkOwnership(deviceID string, notificationID uuid.UUID) error {
	n, err := s.notifications.GetNotification(notificationID)
	if err != nil {
		if errors.Is(err, entrants.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	if n.DeviceID != deviceID {
		return ErrNotYourNotification
	}
	if n.Response != nil {
		return ErrAlreadyResponded
	}
	return nil
}

// cascade picks a replacement for a declined spot. The replacement pool is
// consumed oldest join first; when the pool is empty the pick falls back to a
// fresh random draw from the remaining waitlist. Lookup failures fall through
// to the next source rather than aborting, and when no candidate exists the
// audit row still gets written.
func (s *service) cascade(ctx context.Context, eventID uuid.UUID, declinedDeviceID string) {
	log := s.log.WithEvent(eventID.String())

	if deviceID, ok := s.pickFromPool(eventID, log); ok {
		s.promote(ctx, eventID, declinedDeviceID, deviceID, waitlist.SourcePool, s.store.MarkReplacement)
		return
	}

	if deviceID, ok := s.pickFromWaitlist(eventID, log); ok {
		s.promote(ctx, eventID, declinedDeviceID, deviceID, waitlist.SourceWaitlist, s.store.PromoteFromWaitlist)
		return
	}

	s.writeAudit(&waitlist.DeclineAudit{
		EventID:          eventID,
		DeclinedDeviceID: declinedDeviceID,
	})
	s.log.LogCascadeOutcome(ctx, eventID.String(), declinedDeviceID, "", "", false)
}

func (s *service) pickFromPool(eventID uuid.UUID, log *logger.Logger) (string, bool) {
	pool, err := s.store.GetReplacementPool(eventID)
	if err != nil {
		log.WithError(err).Warn("replacement pool lookup failed, trying waitlist")
		return "", false
	}
	if len(pool) == 0 {
		return "", false
	}
	if pool[0].DeviceID == "" {
		log.Warn("replacement pool head has no device ID, trying waitlist")
		return "", false
	}
	return pool[0].DeviceID, true
}

func (s *service) pickFromWaitlist(eventID uuid.UUID, log *logger.Logger) (string, bool) {
	entries, err := s.store.GetWaitlist(eventID)
	if err != nil {
		log.WithError(err).Warn("waitlist lookup failed, no replacement possible")
		return "", false
	}
	if len(entries) == 0 {
		return "", false
	}
	return entries[rand.Intn(len(entries))].DeviceID, true
}

func (s *service) promote(ctx context.Context, eventID uuid.UUID, declinedDeviceID, deviceID, source string, mark func(uuid.UUID, string) error) {
	audit := &waitlist.DeclineAudit{
		EventID:             eventID,
		DeclinedDeviceID:    declinedDeviceID,
		ReplacementDeviceID: &deviceID,
		Source:              source,
	}

	if err := mark(eventID, deviceID); err != nil {
		s.log.WithError(err).WithEvent(eventID.String()).Warn("replacement promotion failed")
		s.writeAudit(audit)
		s.log.LogCascadeOutcome(ctx, eventID.String(), declinedDeviceID, deviceID, source, false)
		return
	}

	err := s.dispatcher.Send(ctx, deviceID, eventID, replacementMessage, entrants.CategoryReplacement)
	if err != nil {
		s.log.WithError(err).WithDevice(deviceID).Warn("replacement notification failed")
	}
	audit.ReplacementNotified = err == nil

	s.writeAudit(audit)
	s.log.LogCascadeOutcome(ctx, eventID.String(), declinedDeviceID, deviceID, source, audit.ReplacementNotified)
}

func (s *service) writeAudit(audit *waitlist.DeclineAudit) {
	if err := s.store.LogDeclineReplacement(audit); err != nil {
		s.log.WithError(err).WithEvent(audit.EventID.String()).Warn("failed to write decline audit")
	}
}
