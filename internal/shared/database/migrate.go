package database

import (
	"raffly/internal/auth"
	"raffly/internal/entrants"
	"raffly/internal/events"
	"raffly/internal/waitlist"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auth.Organizer{},
		&events.Event{},
		&entrants.Entrant{},
		&entrants.Notification{},
		&entrants.RegistrationHistory{},
		&waitlist.Entry{},
		&waitlist.DeclineAudit{},
	)
}
