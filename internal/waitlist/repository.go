package waitlist

import (
	"context"
	"fmt"
	"time"

	"raffly/internal/shared/constants"
	"raffly/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	JoinWaitlist(ctx context.Context, entry *Entry) error
	GetWaitlist(eventID uuid.UUID) ([]Entry, error)
	GetWaitlistCount(ctx context.Context, eventID uuid.UUID) (int, error)
	IsEntrantOnWaitlist(eventID uuid.UUID, deviceID string) (bool, error)
	GetEntry(eventID uuid.UUID, deviceID string) (*Entry, error)
	GetByStatus(eventID uuid.UUID, status Status) ([]Entry, error)

	MarkWinners(eventID uuid.UUID, winnerIDs, replacementIDs []string) error
	GetReplacementPool(eventID uuid.UUID) ([]Entry, error)
	MarkReplacement(eventID uuid.UUID, deviceID string) error
	PromoteFromWaitlist(eventID uuid.UUID, deviceID string) error
	SetEnrolledStatus(eventID uuid.UUID, deviceID string, enrolled bool) error

	LogDeclineReplacement(audit *DeclineAudit) error
	ListDeclineAudits(eventID uuid.UUID) ([]DeclineAudit, error)
}

type repository struct {
	db    *gorm.DB
	cache cache.Service
}

func NewRepository(db *gorm.DB, cacheService cache.Service) Repository {
	return &repository{db: db, cache: cacheService}
}

func (r *repository) JoinWaitlist(ctx context.Context, entry *Entry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return err
	}
	r.invalidateCount(entry.EventID)
	return nil
}

// GetWaitlist returns entries still in the WAITLISTED state, the draw and
// promotion candidate set.
func (r *repository) GetWaitlist(eventID uuid.UUID) ([]Entry, error) {
	return r.GetByStatus(eventID, StatusWaitlisted)
}

// GetWaitlistCount serves the per-event count through the redis cache. The
// count is display-only, so brief staleness is acceptable.
func (r *repository) GetWaitlistCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.cache.GetOrSet(ctx, constants.WaitlistCountKey(eventID.String()), constants.TTL_WAITLIST_COUNT, func() (interface{}, error) {
		var fresh int64
		err := r.db.Model(&Entry{}).
			Where("event_id = ? AND status = ?", eventID, StatusWaitlisted).
			Count(&fresh).Error
		if err != nil {
			return nil, err
		}
		return int(fresh), nil
	}, &count)
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist: %w", err)
	}
	return count, nil
}

func (r *repository) IsEntrantOnWaitlist(eventID uuid.UUID, deviceID string) (bool, error) {
	var count int64
	err := r.db.Model(&Entry{}).
		Where("event_id = ? AND device_id = ?", eventID, deviceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) GetEntry(eventID uuid.UUID, deviceID string) (*Entry, error) {
	var entry Entry
	err := r.db.Where("event_id = ? AND device_id = ?", eventID, deviceID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) GetByStatus(eventID uuid.UUID, status Status) ([]Entry, error) {
	var entries []Entry
	err := r.db.Where("event_id = ? AND status = ?", eventID, status).
		Order("joined_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkWinners applies a draw result in one transaction: winners move to
// WINNER, replacements to REPLACEMENT_POOL. Everyone else stays WAITLISTED.
func (r *repository) MarkWinners(eventID uuid.UUID, winnerIDs, replacementIDs []string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(winnerIDs) > 0 {
			if err := tx.Model(&Entry{}).
				Where("event_id = ? AND device_id IN ? AND status = ?", eventID, winnerIDs, StatusWaitlisted).
				Update("status", StatusWinner).Error; err != nil {
				return fmt.Errorf("failed to mark winners: %w", err)
			}
		}
		if len(replacementIDs) > 0 {
			if err := tx.Model(&Entry{}).
				Where("event_id = ? AND device_id IN ? AND status = ?", eventID, replacementIDs, StatusWaitlisted).
				Update("status", StatusReplacementPool).Error; err != nil {
				return fmt.Errorf("failed to mark replacement pool: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.invalidateCount(eventID)
	return nil
}

// GetReplacementPool returns pool entries oldest join first. Promotion
// consumes the pool in FIFO order.
func (r *repository) GetReplacementPool(eventID uuid.UUID) ([]Entry, error) {
	return r.GetByStatus(eventID, StatusReplacementPool)
}

func (r *repository) MarkReplacement(eventID uuid.UUID, deviceID string) error {
	return r.transition(eventID, deviceID, StatusReplacementPool, StatusWinner)
}

func (r *repository) PromoteFromWaitlist(eventID uuid.UUID, deviceID string) error {
	if err := r.transition(eventID, deviceID, StatusWaitlisted, StatusWinner); err != nil {
		return err
	}
	r.invalidateCount(eventID)
	return nil
}

func (r *repository) SetEnrolledStatus(eventID uuid.UUID, deviceID string, enrolled bool) error {
	target := StatusEnrolled
	if !enrolled {
		target = StatusDeclined
	}
	return r.transition(eventID, deviceID, StatusWinner, target)
}

func (r *repository) transition(eventID uuid.UUID, deviceID string, from, to Status) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("invalid status transition %s -> %s", from, to)
	}
	result := r.db.Model(&Entry{}).
		Where("event_id = ? AND device_id = ? AND status = ?", eventID, deviceID, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) LogDeclineReplacement(audit *DeclineAudit) error {
	return r.db.Create(audit).Error
}

func (r *repository) ListDeclineAudits(eventID uuid.UUID) ([]DeclineAudit, error) {
	var audits []DeclineAudit
	err := r.db.Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&audits).Error
	if err != nil {
		return nil, err
	}
	return audits, nil
}

func (r *repository) invalidateCount(eventID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = r.cache.Delete(ctx, constants.WaitlistCountKey(eventID.String()))
	}()
}
