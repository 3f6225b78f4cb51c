package auth

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(organizer *Organizer) error
	GetByEmail(email string) (*Organizer, error)
	EmailExists(email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(organizer *Organizer) error {
	return r.db.Create(organizer).Error
}

func (r *repository) GetByEmail(email string) (*Organizer, error) {
	var organizer Organizer
	err := r.db.Where("email = ?", email).First(&organizer).Error
	if err != nil {
		return nil, err
	}
	return &organizer, nil
}

func (r *repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&Organizer{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
