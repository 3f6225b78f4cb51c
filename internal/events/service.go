package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raffly/internal/shared/constants"
	"raffly/pkg/cache"
	"raffly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Service interface {
	CreateEvent(organizerID string, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	GetEvent(id uuid.UUID) (*Event, error)
	GetAllEvents(limit, offset int) ([]EventResponse, int64, error)
	GetOrganizerEvents(organizerID string) ([]EventResponse, error)
	UpdateEvent(organizerID string, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(organizerID string, id uuid.UUID) error
}

type UpdateEventRequest struct {
	Name                 *string `json:"name" binding:"omitempty,min=3,max=255"`
	Description          *string `json:"description" binding:"omitempty,max=2000"`
	RegistrationOpensAt  *string `json:"registration_opens_at"`
	RegistrationClosesAt *string `json:"registration_closes_at"`
	MaxCapacity          *int    `json:"max_capacity"`
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault(),
	}
}

func (s *service) CreateEvent(organizerID string, req CreateEventRequest) (*EventResponse, error) {
	if err := validateWindow(req.RegistrationOpensAt, req.RegistrationClosesAt); err != nil {
		return nil, err
	}

	event := &Event{
		Name:                 req.Name,
		Description:          req.Description,
		OrganizerID:          organizerID,
		RegistrationOpensAt:  req.RegistrationOpensAt,
		RegistrationClosesAt: req.RegistrationClosesAt,
		MaxCapacity:          req.MaxCapacity,
	}

	if err := s.repo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event.ToResponse(time.Now()), nil
}

// GetEventByID serves the API representation through the detail cache.
func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	var event Event
	err := s.cache.GetOrSet(ctx, constants.EventDetailKey(id.String()), constants.TTL_EVENT_DETAIL, func() (interface{}, error) {
		fresh, err := s.repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		return fresh, nil
	}, &event)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event.ToResponse(time.Now()), nil
}

// GetEvent returns the raw model, bypassing the cache. Admission and draw
// paths use this so window checks always see current data.
func (s *service) GetEvent(id uuid.UUID) (*Event, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *service) GetAllEvents(limit, offset int) ([]EventResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	events, total, err := s.repo.GetAll(limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	now := time.Now()
	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = *events[i].ToResponse(now)
	}
	return responses, total, nil
}

func (s *service) GetOrganizerEvents(organizerID string) ([]EventResponse, error) {
	events, err := s.repo.GetByOrganizer(organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}

	now := time.Now()
	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = *events[i].ToResponse(now)
	}
	return responses, nil
}

func (s *service) UpdateEvent(organizerID string, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if existing.OrganizerID != organizerID {
		return nil, errors.New("event belongs to another organizer")
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	opensAt := existing.RegistrationOpensAt
	closesAt := existing.RegistrationClosesAt
	if req.RegistrationOpensAt != nil {
		opensAt = *req.RegistrationOpensAt
	}
	if req.RegistrationClosesAt != nil {
		closesAt = *req.RegistrationClosesAt
	}
	if req.RegistrationOpensAt != nil || req.RegistrationClosesAt != nil {
		if err := validateWindow(opensAt, closesAt); err != nil {
			return nil, err
		}
		updates["registration_opens_at"] = opensAt
		updates["registration_closes_at"] = closesAt
	}
	if req.MaxCapacity != nil {
		updates["max_capacity"] = *req.MaxCapacity
	}

	if len(updates) == 0 {
		return existing.ToResponse(time.Now()), nil
	}

	updated, err := s.repo.Update(id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateDetail(id)
	return updated.ToResponse(time.Now()), nil
}

func (s *service) DeleteEvent(organizerID string, id uuid.UUID) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	if existing.OrganizerID != organizerID {
		return errors.New("event belongs to another organizer")
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateDetail(id)
	return nil
}

func (s *service) invalidateDetail(id uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Delete(ctx, constants.EventDetailKey(id.String())); err != nil {
			s.log.WithError(err).Warn("failed to invalidate event detail cache", "event_id", id.String())
		}
	}()
}

func validateWindow(opensAt, closesAt string) error {
	open, err := time.Parse(TimeLayout, opensAt)
	if err != nil {
		return fmt.Errorf("invalid registration_opens_at: expected %s format", TimeLayout)
	}
	closeT, err := time.Parse(TimeLayout, closesAt)
	if err != nil {
		return fmt.Errorf("invalid registration_closes_at: expected %s format", TimeLayout)
	}
	if closeT.Before(open) {
		return errors.New("registration_closes_at must not be before registration_opens_at")
	}
	return nil
}
