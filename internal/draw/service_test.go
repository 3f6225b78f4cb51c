package draw

import (
	"context"
	"errors"
	"sync"
	"testing"

	"raffly/internal/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type mockStore struct {
	getWaitlistFn func(eventID uuid.UUID) ([]waitlist.Entry, error)
	markWinnersFn func(eventID uuid.UUID, winnerIDs, replacementIDs []string) error
	listAuditsFn  func(eventID uuid.UUID) ([]waitlist.DeclineAudit, error)
}

func (m *mockStore) GetWaitlist(eventID uuid.UUID) ([]waitlist.Entry, error) {
	return m.getWaitlistFn(eventID)
}

func (m *mockStore) MarkWinners(eventID uuid.UUID, winnerIDs, replacementIDs []string) error {
	if m.markWinnersFn != nil {
		return m.markWinnersFn(eventID, winnerIDs, replacementIDs)
	}
	return nil
}

func (m *mockStore) ListDeclineAudits(eventID uuid.UUID) ([]waitlist.DeclineAudit, error) {
	if m.listAuditsFn != nil {
		return m.listAuditsFn(eventID)
	}
	return nil, nil
}

type mockReader struct {
	hasFn func(deviceID string, eventID uuid.UUID) (bool, error)
}

func (m *mockReader) HasWinnerNotification(deviceID string, eventID uuid.UUID) (bool, error) {
	if m.hasFn != nil {
		return m.hasFn(deviceID, eventID)
	}
	return false, nil
}

type mockDispatcher struct {
	mu     sync.Mutex
	sent   []string
	sendFn func(deviceID string) error
}

func (m *mockDispatcher) Send(_ context.Context, deviceID string, _ uuid.UUID, _, _ string) error {
	m.mu.Lock()
	m.sent = append(m.sent, deviceID)
	m.mu.Unlock()
	if m.sendFn != nil {
		return m.sendFn(deviceID)
	}
	return nil
}

func (m *mockDispatcher) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func entriesFor(deviceIDs ...string) []waitlist.Entry {
	entries := make([]waitlist.Entry, len(deviceIDs))
	for i, id := range deviceIDs {
		entries[i] = waitlist.Entry{DeviceID: id, Status: waitlist.StatusWaitlisted}
	}
	return entries
}

func TestRun_ValidatesBeforeLoadingWaitlist(t *testing.T) {
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		t.Fatal("waitlist should not load when validation fails")
		return nil, nil
	}}
	svc := NewService(store, &mockReader{}, &mockDispatcher{})

	_, err := svc.Run(context.Background(), uuid.Nil, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidEventID)

	_, err = svc.Run(context.Background(), uuid.New(), 0, 3)
	assert.ErrorIs(t, err, ErrInvalidWinners)

	_, err = svc.Run(context.Background(), uuid.New(), 1, -1)
	assert.ErrorIs(t, err, ErrInvalidPoolSize)
}

func TestRun_EmptyWaitlist(t *testing.T) {
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		return nil, nil
	}}
	svc := NewService(store, &mockReader{}, &mockDispatcher{})

	_, err := svc.Run(context.Background(), uuid.New(), 2, 3)
	assert.ErrorIs(t, err, ErrNoEntrants)
}

func TestRun_MoreWinnersThanEntrants(t *testing.T) {
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		return entriesFor("a", "b"), nil
	}}
	svc := NewService(store, &mockReader{}, &mockDispatcher{})

	result, err := svc.Run(context.Background(), uuid.New(), 10, 3)

	assert.NoError(t, err)
	assert.Len(t, result.Winners, 2)
	assert.Empty(t, result.Replacements)
	assert.Equal(t, 2, result.TotalEntrants)
}

func TestRun_ReplacementPoolTruncatedToRemainder(t *testing.T) {
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		return entriesFor("a", "b", "c", "d"), nil
	}}
	svc := NewService(store, &mockReader{}, &mockDispatcher{})

	result, err := svc.Run(context.Background(), uuid.New(), 3, 5)

	assert.NoError(t, err)
	assert.Len(t, result.Winners, 3)
	assert.Len(t, result.Replacements, 1)
}

func TestRun_WinnersAndReplacementsAreDisjoint(t *testing.T) {
	all := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		return entriesFor(all...), nil
	}}
	svc := NewService(store, &mockReader{}, &mockDispatcher{})

	result, err := svc.Run(context.Background(), uuid.New(), 3, 3)
	assert.NoError(t, err)

	seen := make(map[string]bool)
	for _, id := range append(result.Winners, result.Replacements...) {
		assert.False(t, seen[id], "device %s selected twice", id)
		seen[id] = true
		assert.Contains(t, all, id)
	}
	assert.Len(t, result.Winners, 3)
	assert.Len(t, result.Replacements, 3)
}

func TestRun_MarkWinnersReceivesBothSlices(t *testing.T) {
	var gotWinners, gotReplacements []string
	store := &mockStore{
		getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return entriesFor("a", "b", "c", "d", "e"), nil
		},
		markWinnersFn: func(_ uuid.UUID, winnerIDs, replacementIDs []string) error {
			gotWinners = winnerIDs
			gotReplacements = replacementIDs
			return nil
		},
	}
	svc := NewService(store, &mockReader{}, &mockDispatcher{})

	result, err := svc.Run(context.Background(), uuid.New(), 2, 2)

	assert.NoError(t, err)
	assert.Equal(t, result.Winners, gotWinners)
	assert.Equal(t, result.Replacements, gotReplacements)
}

func TestRun_MarkWinnersFailurePropagates(t *testing.T) {
	store := &mockStore{
		getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return entriesFor("a", "b"), nil
		},
		markWinnersFn: func(uuid.UUID, []string, []string) error {
			return errors.New("db down")
		},
	}
	dispatcher := &mockDispatcher{}
	svc := NewService(store, &mockReader{}, dispatcher)

	_, err := svc.Run(context.Background(), uuid.New(), 1, 1)

	assert.Error(t, err)
	assert.Empty(t, dispatcher.sentTo())
}

func TestRun_NotifiesAllWinners(t *testing.T) {
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		return entriesFor("a", "b", "c"), nil
	}}
	dispatcher := &mockDispatcher{}
	svc := NewService(store, &mockReader{}, dispatcher)

	result, err := svc.Run(context.Background(), uuid.New(), 3, 0)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Notified)
	assert.Zero(t, result.NotifyFailed)
	assert.ElementsMatch(t, result.Winners, dispatcher.sentTo())
}

func TestRun_SkipsAlreadyNotifiedWinners(t *testing.T) {
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		return entriesFor("a", "b", "c"), nil
	}}
	dispatcher := &mockDispatcher{}
	reader := &mockReader{hasFn: func(deviceID string, _ uuid.UUID) (bool, error) {
		return deviceID == "b", nil
	}}
	svc := NewService(store, reader, dispatcher)

	result, err := svc.Run(context.Background(), uuid.New(), 3, 0)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Notified)
	assert.NotContains(t, dispatcher.sentTo(), "b")
}

func TestRun_DedupErrorNotifiesEveryone(t *testing.T) {
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		return entriesFor("a", "b", "c"), nil
	}}
	dispatcher := &mockDispatcher{}
	reader := &mockReader{hasFn: func(string, uuid.UUID) (bool, error) {
		return false, errors.New("inbox unavailable")
	}}
	svc := NewService(store, reader, dispatcher)

	result, err := svc.Run(context.Background(), uuid.New(), 3, 0)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Notified)
	assert.Len(t, dispatcher.sentTo(), 3)
}

func TestRun_SendFailuresDoNotFailDraw(t *testing.T) {
	store := &mockStore{getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
		return entriesFor("a", "b", "c", "d"), nil
	}}
	dispatcher := &mockDispatcher{sendFn: func(deviceID string) error {
		if deviceID == "a" || deviceID == "c" {
			return errors.New("push gateway timeout")
		}
		return nil
	}}
	svc := NewService(store, &mockReader{}, dispatcher)

	result, err := svc.Run(context.Background(), uuid.New(), 4, 0)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Notified)
	assert.Equal(t, 2, result.NotifyFailed)
}

func TestRun_UnchosenEntriesUntouched(t *testing.T) {
	var gotWinners, gotReplacements []string
	store := &mockStore{
		getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return entriesFor("a", "b", "c", "d", "e", "f"), nil
		},
		markWinnersFn: func(_ uuid.UUID, winnerIDs, replacementIDs []string) error {
			gotWinners = winnerIDs
			gotReplacements = replacementIDs
			return nil
		},
	}
	svc := NewService(store, &mockReader{}, &mockDispatcher{})

	_, err := svc.Run(context.Background(), uuid.New(), 2, 1)

	assert.NoError(t, err)
	assert.Len(t, gotWinners, 2)
	assert.Len(t, gotReplacements, 1)
}
