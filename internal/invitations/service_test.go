package invitations

import (
	"context"
	"errors"
	"testing"

	"raffly/internal/entrants"
	"raffly/internal/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type mockStore struct {
	getWaitlistFn  func(eventID uuid.UUID) ([]waitlist.Entry, error)
	getPoolFn      func(eventID uuid.UUID) ([]waitlist.Entry, error)
	markReplFn     func(eventID uuid.UUID, deviceID string) error
	promoteFn      func(eventID uuid.UUID, deviceID string) error
	setEnrolledFn  func(eventID uuid.UUID, deviceID string, enrolled bool) error
	logAuditFn     func(audit *waitlist.DeclineAudit) error
	recordedAudits []*waitlist.DeclineAudit
}

func (m *mockStore) GetWaitlist(eventID uuid.UUID) ([]waitlist.Entry, error) {
	if m.getWaitlistFn != nil {
		return m.getWaitlistFn(eventID)
	}
	return nil, nil
}

func (m *mockStore) GetReplacementPool(eventID uuid.UUID) ([]waitlist.Entry, error) {
	if m.getPoolFn != nil {
		return m.getPoolFn(eventID)
	}
	return nil, nil
}

func (m *mockStore) MarkReplacement(eventID uuid.UUID, deviceID string) error {
	if m.markReplFn != nil {
		return m.markReplFn(eventID, deviceID)
	}
	return nil
}

func (m *mockStore) PromoteFromWaitlist(eventID uuid.UUID, deviceID string) error {
	if m.promoteFn != nil {
		return m.promoteFn(eventID, deviceID)
	}
	return nil
}

func (m *mockStore) SetEnrolledStatus(eventID uuid.UUID, deviceID string, enrolled bool) error {
	if m.setEnrolledFn != nil {
		return m.setEnrolledFn(eventID, deviceID, enrolled)
	}
	return nil
}

func (m *mockStore) LogDeclineReplacement(audit *waitlist.DeclineAudit) error {
	m.recordedAudits = append(m.recordedAudits, audit)
	if m.logAuditFn != nil {
		return m.logAuditFn(audit)
	}
	return nil
}

type mockNotifications struct {
	getFn  func(id uuid.UUID) (*entrants.Notification, error)
	markFn func(id uuid.UUID, response string) error
}

func (m *mockNotifications) GetNotification(id uuid.UUID) (*entrants.Notification, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &entrants.Notification{ID: id, DeviceID: "winner-1"}, nil
}

func (m *mockNotifications) MarkResponded(id uuid.UUID, response string) error {
	if m.markFn != nil {
		return m.markFn(id, response)
	}
	return nil
}

type mockDispatcher struct {
	sent   []string
	sendFn func(deviceID string) error
}

func (m *mockDispatcher) Send(_ context.Context, deviceID string, _ uuid.UUID, _, _ string) error {
	m.sent = append(m.sent, deviceID)
	if m.sendFn != nil {
		return m.sendFn(deviceID)
	}
	return nil
}

func poolEntries(deviceIDs ...string) []waitlist.Entry {
	entries := make([]waitlist.Entry, len(deviceIDs))
	for i, id := range deviceIDs {
		entries[i] = waitlist.Entry{DeviceID: id, Status: waitlist.StatusReplacementPool}
	}
	return entries
}

func TestAccept(t *testing.T) {
	eventID := uuid.New()
	notificationID := uuid.New()
	var enrolled *bool
	var response string

	store := &mockStore{setEnrolledFn: func(_ uuid.UUID, deviceID string, e bool) error {
		enrolled = &e
		assert.Equal(t, "winner-1", deviceID)
		return nil
	}}
	notifications := &mockNotifications{markFn: func(_ uuid.UUID, r string) error {
		response = r
		return nil
	}}
	svc := NewService(store, notifications, &mockDispatcher{})

	err := svc.Accept(context.Background(), eventID, "winner-1", notificationID)

	assert.NoError(t, err)
	assert.NotNil(t, enrolled)
	assert.True(t, *enrolled)
	assert.Equal(t, ResponseAccepted, response)
}

func TestAccept_EnrollFailureSurfaces(t *testing.T) {
	store := &mockStore{setEnrolledFn: func(uuid.UUID, string, bool) error {
		return errors.New("db down")
	}}
	notifications := &mockNotifications{markFn: func(uuid.UUID, string) error {
		t.Fatal("response should not be recorded when enrollment fails")
		return nil
	}}
	svc := NewService(store, notifications, &mockDispatcher{})

	err := svc.Accept(context.Background(), uuid.New(), "winner-1", uuid.New())
	assert.Error(t, err)
}

func TestAccept_WrongDevice(t *testing.T) {
	svc := NewService(&mockStore{}, &mockNotifications{}, &mockDispatcher{})

	err := svc.Accept(context.Background(), uuid.New(), "someone-else", uuid.New())
	assert.ErrorIs(t, err, ErrNotYourNotification)
}

func TestAccept_AlreadyResponded(t *testing.T) {
	responded := ResponseAccepted
	notifications := &mockNotifications{getFn: func(id uuid.UUID) (*entrants.Notification, error) {
		return &entrants.Notification{ID: id, DeviceID: "winner-1", Response: &responded}, nil
	}}
	svc := NewService(&mockStore{}, notifications, &mockDispatcher{})

	err := svc.Accept(context.Background(), uuid.New(), "winner-1", uuid.New())
	assert.ErrorIs(t, err, ErrAlreadyResponded)
}

func TestDecline_PromotesPoolHeadFIFO(t *testing.T) {
	eventID := uuid.New()
	var promoted string

	store := &mockStore{
		getPoolFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return poolEntries("oldest", "newer", "newest"), nil
		},
		markReplFn: func(_ uuid.UUID, deviceID string) error {
			promoted = deviceID
			return nil
		},
		promoteFn: func(uuid.UUID, string) error {
			t.Fatal("waitlist promotion should not run when the pool has a head")
			return nil
		},
	}
	dispatcher := &mockDispatcher{}
	svc := NewService(store, &mockNotifications{}, dispatcher)

	err := svc.Decline(context.Background(), eventID, "winner-1", uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "oldest", promoted)
	assert.Equal(t, []string{"oldest"}, dispatcher.sent)
	if assert.Len(t, store.recordedAudits, 1) {
		audit := store.recordedAudits[0]
		assert.Equal(t, waitlist.SourcePool, audit.Source)
		assert.Equal(t, "winner-1", audit.DeclinedDeviceID)
		assert.Equal(t, "oldest", *audit.ReplacementDeviceID)
		assert.True(t, audit.ReplacementNotified)
	}
}

func TestDecline_EmptyPoolFallsBackToWaitlist(t *testing.T) {
	var promoted string
	store := &mockStore{
		getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return []waitlist.Entry{{DeviceID: "hopeful", Status: waitlist.StatusWaitlisted}}, nil
		},
		promoteFn: func(_ uuid.UUID, deviceID string) error {
			promoted = deviceID
			return nil
		},
	}
	svc := NewService(store, &mockNotifications{}, &mockDispatcher{})

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "hopeful", promoted)
	if assert.Len(t, store.recordedAudits, 1) {
		assert.Equal(t, waitlist.SourceWaitlist, store.recordedAudits[0].Source)
	}
}

func TestDecline_PoolLookupErrorFallsThrough(t *testing.T) {
	var promoted string
	store := &mockStore{
		getPoolFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return nil, errors.New("pool query failed")
		},
		getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return []waitlist.Entry{{DeviceID: "hopeful"}}, nil
		},
		promoteFn: func(_ uuid.UUID, deviceID string) error {
			promoted = deviceID
			return nil
		},
	}
	svc := NewService(store, &mockNotifications{}, &mockDispatcher{})

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "hopeful", promoted)
}

func TestDecline_MalformedPoolHeadFallsThrough(t *testing.T) {
	var promoted string
	store := &mockStore{
		getPoolFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return poolEntries(""), nil
		},
		getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return []waitlist.Entry{{DeviceID: "hopeful"}}, nil
		},
		promoteFn: func(_ uuid.UUID, deviceID string) error {
			promoted = deviceID
			return nil
		},
	}
	svc := NewService(store, &mockNotifications{}, &mockDispatcher{})

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "hopeful", promoted)
}

func TestDecline_NoCandidatesWritesEmptyAudit(t *testing.T) {
	store := &mockStore{}
	dispatcher := &mockDispatcher{}
	svc := NewService(store, &mockNotifications{}, dispatcher)

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())

	assert.NoError(t, err)
	assert.Empty(t, dispatcher.sent)
	if assert.Len(t, store.recordedAudits, 1) {
		audit := store.recordedAudits[0]
		assert.Nil(t, audit.ReplacementDeviceID)
		assert.Empty(t, audit.Source)
		assert.False(t, audit.ReplacementNotified)
	}
}

func TestDecline_WaitlistLookupErrorWritesEmptyAudit(t *testing.T) {
	store := &mockStore{
		getWaitlistFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return nil, errors.New("waitlist query failed")
		},
	}
	svc := NewService(store, &mockNotifications{}, &mockDispatcher{})

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())

	assert.NoError(t, err)
	if assert.Len(t, store.recordedAudits, 1) {
		assert.Nil(t, store.recordedAudits[0].ReplacementDeviceID)
	}
}

func TestDecline_PromotionFailureStillAudits(t *testing.T) {
	store := &mockStore{
		getPoolFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return poolEntries("oldest"), nil
		},
		markReplFn: func(uuid.UUID, string) error {
			return errors.New("status update failed")
		},
	}
	dispatcher := &mockDispatcher{}
	svc := NewService(store, &mockNotifications{}, dispatcher)

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())

	assert.NoError(t, err)
	assert.Empty(t, dispatcher.sent)
	if assert.Len(t, store.recordedAudits, 1) {
		audit := store.recordedAudits[0]
		assert.Equal(t, "oldest", *audit.ReplacementDeviceID)
		assert.False(t, audit.ReplacementNotified)
	}
}

func TestDecline_NotificationSendFailureRecordedInAudit(t *testing.T) {
	store := &mockStore{
		getPoolFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			return poolEntries("oldest"), nil
		},
	}
	dispatcher := &mockDispatcher{sendFn: func(string) error {
		return errors.New("push gateway timeout")
	}}
	svc := NewService(store, &mockNotifications{}, dispatcher)

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())

	assert.NoError(t, err)
	if assert.Len(t, store.recordedAudits, 1) {
		assert.True(t, *store.recordedAudits[0].ReplacementDeviceID == "oldest")
		assert.False(t, store.recordedAudits[0].ReplacementNotified)
	}
}

func TestDecline_AuditWriteFailureSwallowed(t *testing.T) {
	store := &mockStore{
		logAuditFn: func(*waitlist.DeclineAudit) error {
			return errors.New("audit table locked")
		},
	}
	svc := NewService(store, &mockNotifications{}, &mockDispatcher{})

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())
	assert.NoError(t, err)
}

func TestDecline_InitialWriteFailureSurfaces(t *testing.T) {
	store := &mockStore{
		setEnrolledFn: func(uuid.UUID, string, bool) error {
			return errors.New("db down")
		},
		getPoolFn: func(uuid.UUID) ([]waitlist.Entry, error) {
			t.Fatal("cascade should not run when the decline write fails")
			return nil, nil
		},
	}
	svc := NewService(store, &mockNotifications{}, &mockDispatcher{})

	err := svc.Decline(context.Background(), uuid.New(), "winner-1", uuid.New())
	assert.Error(t, err)
}
