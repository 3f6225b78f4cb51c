package notifications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"raffly/internal/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type mockGroupStore struct {
	getFn func(eventID uuid.UUID, status waitlist.Status) ([]waitlist.Entry, error)
}

func (m *mockGroupStore) GetByStatus(eventID uuid.UUID, status waitlist.Status) ([]waitlist.Entry, error) {
	return m.getFn(eventID, status)
}

type mockPrefs struct {
	enabledFn func(deviceID string) (bool, error)
}

func (m *mockPrefs) NotificationsEnabled(deviceID string) (bool, error) {
	if m.enabledFn != nil {
		return m.enabledFn(deviceID)
	}
	return true, nil
}

type mockSender struct {
	mu     sync.Mutex
	sent   []string
	sendFn func(deviceID string) error
}

func (m *mockSender) Send(_ context.Context, deviceID string, _ uuid.UUID, _, _ string) error {
	m.mu.Lock()
	m.sent = append(m.sent, deviceID)
	m.mu.Unlock()
	if m.sendFn != nil {
		return m.sendFn(deviceID)
	}
	return nil
}

func (m *mockSender) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func groupEntries(deviceIDs ...string) []waitlist.Entry {
	entries := make([]waitlist.Entry, len(deviceIDs))
	for i, id := range deviceIDs {
		entries[i] = waitlist.Entry{DeviceID: id}
	}
	return entries
}

func TestBroadcast_NotifiesWholeGroup(t *testing.T) {
	var requestedStatus waitlist.Status
	store := &mockGroupStore{getFn: func(_ uuid.UUID, status waitlist.Status) ([]waitlist.Entry, error) {
		requestedStatus = status
		return groupEntries("a", "b", "c"), nil
	}}
	sender := &mockSender{}
	svc := NewService(store, &mockPrefs{}, sender)

	result, err := svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
		Message: "Doors open at 6pm",
		Group:   GroupWinners,
	})

	assert.NoError(t, err)
	assert.Equal(t, waitlist.StatusWinner, requestedStatus)
	assert.Equal(t, 3, result.Notified)
	assert.Zero(t, result.Failed)
	assert.Zero(t, result.Skipped)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, sender.sentTo())
}

func TestBroadcast_GroupStatusMapping(t *testing.T) {
	tests := map[string]waitlist.Status{
		GroupWaitlist:  waitlist.StatusWaitlisted,
		GroupWinners:   waitlist.StatusWinner,
		GroupEnrolled:  waitlist.StatusEnrolled,
		GroupCancelled: waitlist.StatusDeclined,
	}

	for group, wantStatus := range tests {
		var gotStatus waitlist.Status
		store := &mockGroupStore{getFn: func(_ uuid.UUID, status waitlist.Status) ([]waitlist.Entry, error) {
			gotStatus = status
			return nil, nil
		}}
		svc := NewService(store, &mockPrefs{}, &mockSender{})

		_, err := svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
			Message: "hello",
			Group:   group,
		})

		assert.NoError(t, err)
		assert.Equal(t, wantStatus, gotStatus, "group %s", group)
	}
}

func TestBroadcast_InvalidGroup(t *testing.T) {
	svc := NewService(&mockGroupStore{}, &mockPrefs{}, &mockSender{})

	_, err := svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
		Message: "hello",
		Group:   "everyone",
	})

	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func TestBroadcast_MessageValidation(t *testing.T) {
	svc := NewService(&mockGroupStore{}, &mockPrefs{}, &mockSender{})

	_, err := svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
		Message: "",
		Group:   GroupWaitlist,
	})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
		Message: strings.Repeat("x", 501),
		Group:   GroupWaitlist,
	})
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestBroadcast_SkipsOptedOutDevices(t *testing.T) {
	store := &mockGroupStore{getFn: func(uuid.UUID, waitlist.Status) ([]waitlist.Entry, error) {
		return groupEntries("a", "b", "c"), nil
	}}
	prefs := &mockPrefs{enabledFn: func(deviceID string) (bool, error) {
		return deviceID != "b", nil
	}}
	sender := &mockSender{}
	svc := NewService(store, prefs, sender)

	result, err := svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
		Message: "hello",
		Group:   GroupWaitlist,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Notified)
	assert.Equal(t, 1, result.Skipped)
	assert.NotContains(t, sender.sentTo(), "b")
}

func TestBroadcast_PreferenceErrorSendsAnyway(t *testing.T) {
	store := &mockGroupStore{getFn: func(uuid.UUID, waitlist.Status) ([]waitlist.Entry, error) {
		return groupEntries("a", "b"), nil
	}}
	prefs := &mockPrefs{enabledFn: func(string) (bool, error) {
		return false, errors.New("profile store down")
	}}
	sender := &mockSender{}
	svc := NewService(store, prefs, sender)

	result, err := svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
		Message: "hello",
		Group:   GroupWaitlist,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Notified)
	assert.Zero(t, result.Skipped)
}

func TestBroadcast_CountsSendFailures(t *testing.T) {
	store := &mockGroupStore{getFn: func(uuid.UUID, waitlist.Status) ([]waitlist.Entry, error) {
		return groupEntries("a", "b", "c"), nil
	}}
	sender := &mockSender{sendFn: func(deviceID string) error {
		if deviceID == "c" {
			return errors.New("inbox write failed")
		}
		return nil
	}}
	svc := NewService(store, &mockPrefs{}, sender)

	result, err := svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
		Message: "hello",
		Group:   GroupWaitlist,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Notified)
	assert.Equal(t, 1, result.Failed)
}

func TestBroadcast_EmptyGroup(t *testing.T) {
	store := &mockGroupStore{getFn: func(uuid.UUID, waitlist.Status) ([]waitlist.Entry, error) {
		return nil, nil
	}}
	sender := &mockSender{}
	svc := NewService(store, &mockPrefs{}, sender)

	result, err := svc.Broadcast(context.Background(), uuid.New(), BroadcastRequest{
		Message: "hello",
		Group:   GroupEnrolled,
	})

	assert.NoError(t, err)
	assert.Zero(t, result.Notified)
	assert.Empty(t, sender.sentTo())
}

func TestPushMessageRoundTrip(t *testing.T) {
	original := &PushMessage{
		NotificationID: uuid.New(),
		DeviceID:       "device-1",
		EventID:        uuid.New(),
		Message:        "hello",
		Category:       "general",
	}

	data, err := original.ToJSON()
	assert.NoError(t, err)

	decoded, err := PushMessageFromJSON(data)
	assert.NoError(t, err)
	assert.Equal(t, original.DeviceID, decoded.DeviceID)
	assert.Equal(t, original.NotificationID, decoded.NotificationID)
}
