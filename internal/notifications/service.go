package notifications

import (
	"context"
	"errors"
	"fmt"

	"raffly/internal/waitlist"
	"raffly/pkg/fanin"
	"raffly/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrInvalidGroup   = errors.New("unknown broadcast group")
	ErrInvalidMessage = errors.New("message must be non-empty and at most 500 characters")
)

var validate = validator.New()

// GroupStore resolves a broadcast group to its waitlist entries.
type GroupStore interface {
	GetByStatus(eventID uuid.UUID, status waitlist.Status) ([]waitlist.Entry, error)
}

// PreferenceReader checks a device's notification opt-in.
type PreferenceReader interface {
	NotificationsEnabled(deviceID string) (bool, error)
}

type Service interface {
	Broadcast(ctx context.Context, eventID uuid.UUID, req BroadcastRequest) (*BroadcastResult, error)
}

type service struct {
	store      GroupStore
	prefs      PreferenceReader
	dispatcher Dispatcher
	log        *logger.Logger
}

func NewService(store GroupStore, prefs PreferenceReader, dispatcher Dispatcher) Service {
	return &service{
		store:      store,
		prefs:      prefs,
		dispatcher: dispatcher,
		log:        logger.GetDefault(),
	}
}

var groupStatuses = map[string]waitlist.Status{
	GroupWaitlist:  waitlist.StatusWaitlisted,
	GroupWinners:   waitlist.StatusWinner,
	GroupEnrolled:  waitlist.StatusEnrolled,
	GroupCancelled: waitlist.StatusDeclined,
}

// Broadcast sends a message to every member of a status group. Recipients who
// opted out are skipped; a preference lookup failure counts the device as
// opted in rather than silently dropping it. Both the preference stage and
// the send stage fan out concurrently.
func (s *service) Broadcast(ctx context.Context, eventID uuid.UUID, req BroadcastRequest) (*BroadcastResult, error) {
	if err := validate.Struct(req); err != nil {
		if _, ok := groupStatuses[req.Group]; !ok {
			return nil, ErrInvalidGroup
		}
		return nil, ErrInvalidMessage
	}

	status := groupStatuses[req.Group]
	entries, err := s.store.GetByStatus(eventID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s group: %w", req.Group, err)
	}

	result := &BroadcastResult{EventID: eventID.String(), Group: req.Group}
	if len(entries) == 0 {
		return result, nil
	}

	recipients := s.filterByPreference(entries)
	result.Skipped = len(entries) - len(recipients)
	if len(recipients) == 0 {
		return result, nil
	}

	sendDone := make(chan fanin.Result, 1)
	agg := fanin.New(len(recipients), func(r fanin.Result) {
		sendDone <- r
	})
	for _, deviceID := range recipients {
		go func(deviceID string) {
			err := s.dispatcher.Send(ctx, deviceID, eventID, req.Message, "general")
			if err != nil {
				s.log.WithError(err).WithDevice(deviceID).Warn("broadcast send failed")
			}
			agg.Done(fanin.Outcome{ID: deviceID, Err: err})
		}(deviceID)
	}

	sends := <-sendDone
	result.Notified = sends.Succeeded
	result.Failed = sends.Failed

	s.log.LogBroadcastSummary(ctx, eventID.String(), req.Group, result.Notified, result.Failed)
	return result, nil
}

func (s *service) filterByPreference(entries []waitlist.Entry) []string {
	done := make(chan fanin.Result, 1)
	agg := fanin.New(len(entries), func(r fanin.Result) {
		done <- r
	})

	for _, entry := range entries {
		go func(deviceID string) {
			enabled, err := s.prefs.NotificationsEnabled(deviceID)
			if err != nil {
				s.log.WithError(err).WithDevice(deviceID).Warn("preference check failed, sending anyway")
				enabled = true
			}
			agg.Done(fanin.Outcome{ID: deviceID, Value: enabled, Err: err})
		}(entry.DeviceID)
	}

	result := <-done
	recipients := make([]string, 0, len(entries))
	for _, outcome := range result.Outcomes {
		if enabled, ok := outcome.Value.(bool); ok && enabled {
			recipients = append(recipients, outcome.ID)
		}
	}
	return recipients
}
