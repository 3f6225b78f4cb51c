package main

import (
	"fmt"
	"log"
	"time"

	"raffly/internal/auth"
	"raffly/internal/entrants"
	"raffly/internal/events"
	"raffly/internal/shared/config"
	"raffly/internal/shared/database"
	"raffly/internal/waitlist"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Raffly database seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"decline_audits",
		"entries",
		"notifications",
		"registration_histories",
		"entrants",
		"events",
		"organizers",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	organizer, err := s.seedOrganizer()
	if err != nil {
		return err
	}

	event, err := s.seedEvent(organizer)
	if err != nil {
		return err
	}

	return s.seedEntrants(event)
}

func (s *Seeder) seedOrganizer() (*auth.Organizer, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("raffly-demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	organizer := &auth.Organizer{
		Name:     "Demo Organizer",
		Email:    "organizer@raffly.dev",
		Password: string(hashed),
	}
	if err := s.db.GetPostgreSQL().Create(organizer).Error; err != nil {
		return nil, fmt.Errorf("failed to seed organizer: %w", err)
	}

	fmt.Printf("  organizer: %s (%s)\n", organizer.Email, organizer.ID)
	return organizer, nil
}

func (s *Seeder) seedEvent(organizer *auth.Organizer) (*events.Event, error) {
	now := time.Now()
	capacity := 100

	event := &events.Event{
		Name:                 "Launch Party",
		Description:          "Limited-capacity launch event. Spots are raffled off the waitlist.",
		OrganizerID:          organizer.ID.String(),
		RegistrationOpensAt:  now.Add(-time.Hour).Format(events.TimeLayout),
		RegistrationClosesAt: now.Add(14 * 24 * time.Hour).Format(events.TimeLayout),
		MaxCapacity:          &capacity,
	}
	if err := s.db.GetPostgreSQL().Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to seed event: %w", err)
	}

	fmt.Printf("  event: %s (%s)\n", event.Name, event.ID)
	return event, nil
}

func (s *Seeder) seedEntrants(event *events.Event) error {
	names := []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Radia", "Ken"}

	for i, name := range names {
		deviceID := fmt.Sprintf("demo-device-%02d", i+1)

		entrant := &entrants.Entrant{
			DeviceID:             deviceID,
			Name:                 name,
			Email:                fmt.Sprintf("%s@raffly.dev", name),
			Registered:           true,
			NotificationsEnabled: true,
		}
		if err := s.db.GetPostgreSQL().Create(entrant).Error; err != nil {
			return fmt.Errorf("failed to seed entrant %s: %w", deviceID, err)
		}

		entry := &waitlist.Entry{
			EventID:  event.ID,
			DeviceID: deviceID,
			Status:   waitlist.StatusWaitlisted,
			JoinedAt: time.Now().Add(-time.Duration(len(names)-i) * time.Minute),
		}
		if err := s.db.GetPostgreSQL().Create(entry).Error; err != nil {
			return fmt.Errorf("failed to seed waitlist entry for %s: %w", deviceID, err)
		}
	}

	fmt.Printf("  entrants: %d seeded onto the waitlist\n", len(names))
	return nil
}
