package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthurobs542/clock-timer/internal/domain/notification"
	"github.com/arthurobs542/clock-timer/internal/pkg/sse"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*notification.Notification
	prefs         map[string]map[notification.NotificationType]*notification.NotificationPreference
	createErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		prefs: make(map[string]map[notification.NotificationType]*notification.NotificationPreference),
	}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) failCreates(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createErr = err
}

func (r *fakeNotificationRepo) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, ns...)
	return nil
}

func (r *fakeNotificationRepo) GetByEmployeeID(ctx context.Context, employeeID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*notification.Notification
	for _, n := range r.notifications {
		if n.RecipientID != employeeID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		matched = append(matched, n)
	}
	return matched, len(matched), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, employeeID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == employeeID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, ids []string, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, n := range r.notifications {
		if n.RecipientID != employeeID {
			continue
		}
		for _, id := range ids {
			if n.ID == id {
				n.IsRead = true
				n.ReadAt = &now
			}
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, n := range r.notifications {
		if n.RecipientID == employeeID {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id string, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id && n.RecipientID == employeeID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) GetPreferences(ctx context.Context, employeeID string) ([]*notification.NotificationPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var prefs []*notification.NotificationPreference
	for _, p := range r.prefs[employeeID] {
		prefs = append(prefs, p)
	}
	return prefs, nil
}

func (r *fakeNotificationRepo) UpsertPreference(ctx context.Context, pref *notification.NotificationPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prefs[pref.EmployeeID] == nil {
		r.prefs[pref.EmployeeID] = make(map[notification.NotificationType]*notification.NotificationPreference)
	}
	r.prefs[pref.EmployeeID][pref.NotificationType] = pref
	return nil
}

func (r *fakeNotificationRepo) IsNotificationEnabled(ctx context.Context, employeeID string, notifType notification.NotificationType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.prefs[employeeID][notifType]; ok {
		return p.PushEnabled, nil
	}
	return true, nil
}

func (r *fakeNotificationRepo) stored() []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*notification.Notification(nil), r.notifications...)
}

func validRequest(recipientID string) notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		RecipientID: recipientID,
		Type:        notification.TypeClockIn,
		Title:       "Clocked in",
		Message:     "You clocked in at 09:00",
		Priority:    notification.PriorityLow,
	}
}

func TestQueueNotificationFlushedOnStop(t *testing.T) {
	repo := newFakeNotificationRepo()
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, Config{WorkerCount: 1})

	err := svc.QueueNotification(context.Background(), validRequest("emp-1"))
	require.NoError(t, err)

	svc.Stop()

	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, "emp-1", stored[0].RecipientID)
	assert.Equal(t, notification.TypeClockIn, stored[0].Type)
	assert.NotEmpty(t, stored[0].ID)
}

func TestQueueNotificationRespectsDisabledPreference(t *testing.T) {
	repo := newFakeNotificationRepo()
	require.NoError(t, repo.UpsertPreference(context.Background(), &notification.NotificationPreference{
		EmployeeID:       "emp-1",
		NotificationType: notification.TypeClockIn,
		PushEnabled:      false,
	}))

	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1})

	err := svc.QueueNotification(context.Background(), validRequest("emp-1"))
	require.NoError(t, err)

	svc.Stop()
	assert.Empty(t, repo.stored())
}

func TestQueueNotificationRejectsInvalidRequest(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		Type: notification.TypeClockIn,
	})
	assert.Error(t, err)
}

func TestQueuedNotificationDeliveredToSubscriber(t *testing.T) {
	repo := newFakeNotificationRepo()
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, Config{WorkerCount: 1, FlushInterval: 10 * time.Millisecond})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	require.NoError(t, svc.QueueNotification(context.Background(), validRequest("emp-1")))

	select {
	case event := <-events:
		assert.Equal(t, "notification", event.Event)
		assert.Equal(t, notification.TypeClockIn, event.Data.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SSE event")
	}
}

func TestQueueNotificationFullQueueSurfacesError(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1, QueueSize: 1})
	// With the workers stopped the queue buffer fills up.
	svc.Stop()

	require.NoError(t, svc.QueueNotification(context.Background(), validRequest("emp-1")))

	repo.failCreates(errors.New("insert failed"))
	err := svc.QueueNotification(context.Background(), validRequest("emp-1"))
	assert.ErrorIs(t, err, notification.ErrQueueFull)
}

func TestQueueNotificationFullQueueFallsBackToDirectInsert(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1, QueueSize: 1})
	svc.Stop()

	require.NoError(t, svc.QueueNotification(context.Background(), validRequest("emp-1")))
	require.NoError(t, svc.QueueNotification(context.Background(), validRequest("emp-2")))

	// The overflow notification is stored synchronously.
	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, "emp-2", stored[0].RecipientID)
}

func TestBroadcastStoresAndPushes(t *testing.T) {
	repo := newFakeNotificationRepo()
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, Config{WorkerCount: 1})
	defer svc.Stop()
	ctx := context.Background()

	// emp-2 opted out of system updates.
	require.NoError(t, repo.UpsertPreference(ctx, &notification.NotificationPreference{
		EmployeeID:       "emp-2",
		NotificationType: notification.TypeSystemUpdate,
		PushEnabled:      false,
	}))

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, cleanup := svc.Subscribe(subCtx, "emp-1")
	defer cleanup()

	recipients, err := svc.Broadcast(ctx, notification.BroadcastRequest{
		RecipientIDs: []string{"emp-1", "emp-2"},
		Title:        "Maintenance window",
		Message:      "The service restarts at 22:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, recipients)

	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, "emp-1", stored[0].RecipientID)
	assert.Equal(t, notification.TypeSystemUpdate, stored[0].Type)
	assert.Equal(t, notification.PriorityMedium, stored[0].Priority)

	select {
	case event := <-events:
		assert.Equal(t, "notification", event.Event)
		assert.Equal(t, "Maintenance window", event.Data.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}

func TestBroadcastRejectsMissingRecipients(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	_, err := svc.Broadcast(context.Background(), notification.BroadcastRequest{
		Title:   "Maintenance window",
		Message: "The service restarts at 22:00",
	})
	assert.Error(t, err)
}

func TestGetNotificationsWithUnreadCount(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &notification.Notification{ID: "n1", RecipientID: "emp-1", Type: notification.TypeClockIn}))
	require.NoError(t, repo.Create(ctx, &notification.Notification{ID: "n2", RecipientID: "emp-1", Type: notification.TypeClockOut}))

	require.NoError(t, svc.MarkAsRead(ctx, "emp-1", notification.MarkAsReadRequest{NotificationIDs: []string{"n1"}}))

	resp, err := svc.GetNotifications(ctx, "emp-1", 1, 20, false)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.UnreadCount)

	resp, err = svc.GetNotifications(ctx, "emp-1", 1, 20, true)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestMarkAllAsRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &notification.Notification{ID: "n1", RecipientID: "emp-1"}))
	require.NoError(t, repo.Create(ctx, &notification.Notification{ID: "n2", RecipientID: "emp-1"}))

	require.NoError(t, svc.MarkAllAsRead(ctx, "emp-1"))

	count, err := svc.GetUnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetPreferencesDefaults(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()
	ctx := context.Background()

	require.NoError(t, svc.UpdatePreference(ctx, "emp-1", notification.UpdatePreferenceRequest{
		NotificationType: notification.TypeClockReminder,
		EmailEnabled:     false,
		PushEnabled:      false,
	}))

	prefs, err := svc.GetPreferences(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, prefs, len(notification.AllNotificationTypes()))

	byType := make(map[notification.NotificationType]notification.PreferenceResponse)
	for _, p := range prefs {
		byType[p.NotificationType] = p
	}

	assert.False(t, byType[notification.TypeClockReminder].PushEnabled)
	// Types without a stored row default to enabled.
	assert.True(t, byType[notification.TypeClockIn].PushEnabled)
	assert.True(t, byType[notification.TypeClockIn].EmailEnabled)
}

func TestUpdatePreferenceRejectsUnknownType(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	err := svc.UpdatePreference(context.Background(), "emp-1", notification.UpdatePreferenceRequest{
		NotificationType: "BOGUS",
	})
	assert.ErrorIs(t, err, notification.ErrInvalidType)
}

func TestClockNotifierQueuesEvents(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1})
	notifier := NewClockNotifier(svc)

	at := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	notifier.ClockInRecorded(context.Background(), "emp-1", at)
	notifier.ClockOutRecorded(context.Background(), "emp-1", at.Add(8*time.Hour), 8.0)

	svc.Stop()

	stored := repo.stored()
	require.Len(t, stored, 2)
	assert.Equal(t, notification.TypeClockIn, stored[0].Type)
	assert.Equal(t, notification.TypeClockOut, stored[1].Type)
	assert.Equal(t, 8.0, stored[1].Data["total_hours"])
}
