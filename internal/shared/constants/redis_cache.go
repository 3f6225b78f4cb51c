package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs used across the application.
// Pattern: raffly:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "raffly"
)

// TTLs
const (
	// Waitlist counts change on every join/draw, keep them short-lived.
	TTL_WAITLIST_COUNT = 30 * time.Second

	// Event details change rarely once registration opens.
	TTL_EVENT_DETAIL = 5 * time.Minute
)

// Keys
const (
	CACHE_KEY_WAITLIST_COUNT = CACHE_PREFIX + ":waitlist:count:event:" // + event-id
	CACHE_KEY_EVENT_DETAIL   = CACHE_PREFIX + ":events:detail:"        // + event-id
)

// WaitlistCountKey returns the cache key for an event's waitlist count.
func WaitlistCountKey(eventID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_WAITLIST_COUNT, eventID)
}

// EventDetailKey returns the cache key for an event's detail payload.
func EventDetailKey(eventID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_EVENT_DETAIL, eventID)
}
