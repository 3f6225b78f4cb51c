package draw

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"raffly/internal/entrants"
	"raffly/internal/waitlist"
	"raffly/pkg/fanin"
	"raffly/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNoEntrants      = errors.New("no entrants found")
	ErrInvalidWinners  = errors.New("number of winners must be at least 1")
	ErrInvalidPoolSize = errors.New("pool size must not be negative")
	ErrInvalidEventID  = errors.New("event ID is required")
)

const winnerMessage = "Congratulations! You have been selected. Open the app to accept or decline your spot."

// WaitlistStore is the slice of the waitlist repository the draw needs.
type WaitlistStore interface {
	GetWaitlist(eventID uuid.UUID) ([]waitlist.Entry, error)
	MarkWinners(eventID uuid.UUID, winnerIDs, replacementIDs []string) error
	ListDeclineAudits(eventID uuid.UUID) ([]waitlist.DeclineAudit, error)
}

// NotificationReader checks for previously delivered winner notifications.
type NotificationReader interface {
	HasWinnerNotification(deviceID string, eventID uuid.UUID) (bool, error)
}

// Dispatcher delivers a notification to one device.
type Dispatcher interface {
	Send(ctx context.Context, deviceID string, eventID uuid.UUID, message, category string) error
}

type Service interface {
	Run(ctx context.Context, eventID uuid.UUID, numWinners, poolSize int) (*DrawResult, error)
	ListAudits(eventID uuid.UUID) ([]waitlist.DeclineAudit, error)
}

type service struct {
	store      WaitlistStore
	reader     NotificationReader
	dispatcher Dispatcher
	log        *logger.Logger
}

func NewService(store WaitlistStore, reader NotificationReader, dispatcher Dispatcher) Service {
	return &service{
		store:      store,
		reader:     reader,
		dispatcher: dispatcher,
		log:        logger.GetDefault(),
	}
}

// Run executes one lottery draw. The whole waitlist is shuffled uniformly;
// the first numWinners entries win and the next poolSize form the replacement
// pool. Both status changes land in a single transaction. Winner
// notifications go out afterwards and their failures never fail the draw.
func (s *service) Run(ctx context.Context, eventID uuid.UUID, numWinners, poolSize int) (*DrawResult, error) {
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	if numWinners < 1 {
		return nil, ErrInvalidWinners
	}
	if poolSize < 0 {
		return nil, ErrInvalidPoolSize
	}

	entries, err := s.store.GetWaitlist(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load waitlist: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoEntrants
	}

	shuffled := make([]waitlist.Entry, len(entries))
	copy(shuffled, entries)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	winnerCount := min(numWinners, len(shuffled))
	replacementCount := min(poolSize, len(shuffled)-winnerCount)

	winners := make([]string, 0, winnerCount)
	for _, entry := range shuffled[:winnerCount] {
		winners = append(winners, entry.DeviceID)
	}
	replacements := make([]string, 0, replacementCount)
	for _, entry := range shuffled[winnerCount : winnerCount+replacementCount] {
		replacements = append(replacements, entry.DeviceID)
	}

	if err := s.store.MarkWinners(eventID, winners, replacements); err != nil {
		return nil, fmt.Errorf("failed to record draw result: %w", err)
	}

	s.log.LogDrawCompleted(ctx, eventID.String(), len(winners), len(replacements))

	notified, failed := s.broadcastToWinners(ctx, eventID, winners)

	return &DrawResult{
		EventID:       eventID.String(),
		TotalEntrants: len(entries),
		Winners:       winners,
		Replacements:  replacements,
		Notified:      notified,
		NotifyFailed:  failed,
	}, nil
}

// broadcastToWinners notifies each fresh winner. Winners already holding a
// winner notification for this event are skipped; if the dedup lookup itself
// fails, everyone gets notified rather than nobody.
func (s *service) broadcastToWinners(ctx context.Context, eventID uuid.UUID, winners []string) (notified, failed int) {
	recipients := make([]string, 0, len(winners))
	for _, deviceID := range winners {
		already, err := s.reader.HasWinnerNotification(deviceID, eventID)
		if err != nil {
			s.log.WithError(err).WithEvent(eventID.String()).Warn("winner dedup check failed, notifying all")
			recipients = winners
			break
		}
		if !already {
			recipients = append(recipients, deviceID)
		}
	}

	if len(recipients) == 0 {
		return 0, 0
	}

	done := make(chan fanin.Result, 1)
	agg := fanin.New(len(recipients), func(r fanin.Result) {
		done <- r
	})

	for _, deviceID := range recipients {
		go func(deviceID string) {
			err := s.dispatcher.Send(ctx, deviceID, eventID, winnerMessage, entrants.CategoryWinner)
			if err != nil {
				s.log.WithError(err).WithDevice(deviceID).Warn("winner notification failed")
			}
			agg.Done(fanin.Outcome{ID: deviceID, Err: err})
		}(deviceID)
	}

	result := <-done
	s.log.LogBroadcastSummary(ctx, eventID.String(), entrants.CategoryWinner, result.Succeeded, result.Failed)
	return result.Succeeded, result.Failed
}

func (s *service) ListAudits(eventID uuid.UUID) ([]waitlist.DeclineAudit, error) {
	audits, err := s.store.ListDeclineAudits(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decline audits: %w", err)
	}
	return audits, nil
}
