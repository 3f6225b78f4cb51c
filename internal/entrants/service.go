package entrants

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

type Service interface {
	// Profile operations
	GetProfile(deviceID string) (*ProfileResponse, error)
	UpsertProfile(deviceID string, req UpsertProfileRequest) (*ProfileResponse, error)
	SetNotificationPreference(deviceID string, enabled bool) error

	// Directory lookups used by admission, draw and broadcast flows
	IsRegistered(deviceID string) (bool, error)
	IsBanned(deviceID string) (bool, error)
	NotificationsEnabled(deviceID string) (bool, error)

	// Notification inbox
	CreateNotification(ctx context.Context, deviceID string, eventID uuid.UUID, message, category string) (*Notification, error)
	GetNotification(id uuid.UUID) (*Notification, error)
	ListNotifications(deviceID string) ([]Notification, error)
	HasWinnerNotification(deviceID string, eventID uuid.UUID) (bool, error)
	MarkResponded(id uuid.UUID, response string) error

	// Registration history
	RecordRegistrationHistory(ctx context.Context, deviceID string, eventID uuid.UUID) error
	ListHistory(deviceID string) ([]RegistrationHistory, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(deviceID string) (*ProfileResponse, error) {
	entrant, err := s.repo.GetByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return entrant.ToResponse(), nil
}

func (s *service) UpsertProfile(deviceID string, req UpsertProfileRequest) (*ProfileResponse, error) {
	entrant := &Entrant{
		DeviceID:             deviceID,
		Name:                 req.Name,
		Email:                req.Email,
		Registered:           true,
		NotificationsEnabled: true,
	}

	if err := s.repo.Upsert(entrant); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	// Re-read so the response reflects persisted preference/ban flags.
	saved, err := s.repo.GetByDeviceID(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved profile: %w", err)
	}
	return saved.ToResponse(), nil
}

func (s *service) SetNotificationPreference(deviceID string, enabled bool) error {
	err := s.repo.SetNotificationsEnabled(deviceID, enabled)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to update preference: %w", err)
	}
	return nil
}

func (s *service) IsRegistered(deviceID string) (bool, error) {
	entrant, err := s.repo.GetByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return entrant.Registered, nil
}

func (s *service) IsBanned(deviceID string) (bool, error) {
	entrant, err := s.repo.GetByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check ban status: %w", err)
	}
	return entrant.Banned, nil
}

// NotificationsEnabled defaults to true for devices without a stored profile
// so broadcast delivery never silently drops unknown recipients.
func (s *service) NotificationsEnabled(deviceID string) (bool, error) {
	entrant, err := s.repo.GetByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check notification preference: %w", err)
	}
	return entrant.NotificationsEnabled, nil
}

func (s *service) CreateNotification(ctx context.Context, deviceID string, eventID uuid.UUID, message, category string) (*Notification, error) {
	n := &Notification{
		DeviceID: deviceID,
		EventID:  eventID,
		Message:  message,
		Category: category,
	}
	if err := s.repo.CreateNotification(n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (s *service) GetNotification(id uuid.UUID) (*Notification, error) {
	n, err := s.repo.GetNotification(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (s *service) ListNotifications(deviceID string) ([]Notification, error) {
	notifications, err := s.repo.ListNotifications(deviceID, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *service) HasWinnerNotification(deviceID string, eventID uuid.UUID) (bool, error) {
	return s.repo.HasNotification(deviceID, eventID, CategoryWinner)
}

func (s *service) MarkResponded(id uuid.UUID, response string) error {
	err := s.repo.MarkResponded(id, response)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to record response: %w", err)
	}
	return nil
}

func (s *service) RecordRegistrationHistory(ctx context.Context, deviceID string, eventID uuid.UUID) error {
	h := &RegistrationHistory{
		DeviceID: deviceID,
		EventID:  eventID,
		Action:   "joined",
	}
	if err := s.repo.AppendHistory(h); err != nil {
		return fmt.Errorf("failed to append registration history: %w", err)
	}
	return nil
}

func (s *service) ListHistory(deviceID string) ([]RegistrationHistory, error) {
	history, err := s.repo.ListHistory(deviceID, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list registration history: %w", err)
	}
	return history, nil
}
