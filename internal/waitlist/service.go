package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raffly/internal/events"
	"raffly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

// EventStore is the slice of the events service the admission gate needs.
type EventStore interface {
	GetEvent(id uuid.UUID) (*events.Event, error)
}

// EntrantDirectory is the slice of the entrants service the admission gate
// needs for profile, ban and history checks.
type EntrantDirectory interface {
	IsRegistered(deviceID string) (bool, error)
	IsBanned(deviceID string) (bool, error)
	RecordRegistrationHistory(ctx context.Context, deviceID string, eventID uuid.UUID) error
}

type Service interface {
	Join(ctx context.Context, eventID uuid.UUID, deviceID string) (*JoinResult, error)
	GetStatus(ctx context.Context, eventID uuid.UUID, deviceID string) (*WaitlistStatusResponse, error)
}

type service struct {
	repo     Repository
	events   EventStore
	entrants EntrantDirectory
	log      *logger.Logger
}

func NewService(repo Repository, eventStore EventStore, directory EntrantDirectory) Service {
	return &service{
		repo:     repo,
		events:   eventStore,
		entrants: directory,
		log:      logger.GetDefault(),
	}
}

// Join runs the admission checks in order and creates a WAITLISTED entry when
// all pass. A refusal comes back as an unsuccessful JoinResult; an error means
// the attempt itself could not be completed. The checks are not transactional
// with the insert, so two racing joins can both pass the capacity check; the
// unique index on (event_id, device_id) still blocks duplicate entries.
func (s *service) Join(ctx context.Context, eventID uuid.UUID, deviceID string) (*JoinResult, error) {
	if deviceID == "" {
		return &JoinResult{Success: false, Message: "Device ID is required"}, nil
	}

	event, err := s.events.GetEvent(eventID)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	if event.OrganizerID == deviceID {
		return &JoinResult{Success: false, Message: "Organizers cannot join their own event"}, nil
	}

	registered, err := s.entrants.IsRegistered(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify profile: %w", err)
	}
	if !registered {
		return &JoinResult{
			Success:                  false,
			Message:                  "Profile registration is required before joining",
			NeedsProfileRegistration: true,
		}, nil
	}

	// A failed ban lookup does not block admission; the join proceeds.
	banned, err := s.entrants.IsBanned(deviceID)
	if err != nil {
		s.log.WithError(err).WithDevice(deviceID).Warn("ban check failed, continuing")
	} else if banned {
		return &JoinResult{Success: false, Message: "You are not allowed to join this event"}, nil
	}

	joined, err := s.repo.IsEntrantOnWaitlist(eventID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check waitlist membership: %w", err)
	}
	if joined {
		return &JoinResult{Success: false, Message: "You have already joined this waitlist"}, nil
	}

	now := time.Now()
	if !event.WithinRegistrationWindow(now) {
		return &JoinResult{Success: false, Message: "Registration is not open for this event"}, nil
	}

	count, err := s.repo.GetWaitlistCount(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check waitlist capacity: %w", err)
	}
	if !event.HasWaitlistCapacity(count) {
		return &JoinResult{Success: false, Message: "The waitlist for this event is full"}, nil
	}

	entry := &Entry{
		EventID:  eventID,
		DeviceID: deviceID,
		Status:   StatusWaitlisted,
		JoinedAt: now,
	}
	if err := s.repo.JoinWaitlist(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to join waitlist: %w", err)
	}

	s.log.LogWaitlistJoined(ctx, eventID.String(), deviceID)

	// History is advisory; its failure never affects the join outcome.
	go func() {
		hctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.entrants.RecordRegistrationHistory(hctx, deviceID, eventID); err != nil {
			s.log.WithError(err).WithDevice(deviceID).Warn("failed to record registration history")
		}
	}()

	return &JoinResult{Success: true, Message: "You have joined the waitlist"}, nil
}

func (s *service) GetStatus(ctx context.Context, eventID uuid.UUID, deviceID string) (*WaitlistStatusResponse, error) {
	count, err := s.repo.GetWaitlistCount(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get waitlist count: %w", err)
	}

	resp := &WaitlistStatusResponse{
		EventID:       eventID.String(),
		WaitlistCount: count,
	}

	entry, err := s.repo.GetEntry(eventID, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		return nil, fmt.Errorf("failed to get waitlist entry: %w", err)
	}

	resp.Joined = true
	resp.Status = &entry.Status
	return resp, nil
}
