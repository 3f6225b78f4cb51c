package entrants

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByDeviceID(deviceID string) (*Entrant, error)
	Upsert(entrant *Entrant) error
	SetNotificationsEnabled(deviceID string, enabled bool) error

	CreateNotification(n *Notification) error
	GetNotification(id uuid.UUID) (*Notification, error)
	ListNotifications(deviceID string, limit int) ([]Notification, error)
	HasNotification(deviceID string, eventID uuid.UUID, category string) (bool, error)
	MarkResponded(id uuid.UUID, response string) error
	MarkRead(id uuid.UUID) error

	AppendHistory(h *RegistrationHistory) error
	ListHistory(deviceID string, limit int) ([]RegistrationHistory, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByDeviceID(deviceID string) (*Entrant, error) {
	var entrant Entrant
	err := r.db.Where("device_id = ?", deviceID).First(&entrant).Error
	if err != nil {
		return nil, err
	}
	return &entrant, nil
}

func (r *repository) Upsert(entrant *Entrant) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "registered", "updated_at"}),
	}).Create(entrant).Error
}

func (r *repository) SetNotificationsEnabled(deviceID string, enabled bool) error {
	result := r.db.Model(&Entrant{}).
		Where("device_id = ?", deviceID).
		Update("notifications_enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateNotification(n *Notification) error {
	return r.db.Create(n).Error
}

func (r *repository) GetNotification(id uuid.UUID) (*Notification, error) {
	var n Notification
	err := r.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) ListNotifications(deviceID string, limit int) ([]Notification, error) {
	var notifications []Notification
	err := r.db.Where("device_id = ?", deviceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repository) HasNotification(deviceID string, eventID uuid.UUID, category string) (bool, error) {
	var count int64
	err := r.db.Model(&Notification{}).
		Where("device_id = ? AND event_id = ? AND category = ?", deviceID, eventID, category).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) MarkResponded(id uuid.UUID, response string) error {
	result := r.db.Model(&Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"read":         true,
			"response":     response,
			"responded_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) MarkRead(id uuid.UUID) error {
	return r.db.Model(&Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (r *repository) AppendHistory(h *RegistrationHistory) error {
	return r.db.Create(h).Error
}

func (r *repository) ListHistory(deviceID string, limit int) ([]RegistrationHistory, error) {
	var history []RegistrationHistory
	err := r.db.Where("device_id = ?", deviceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
