package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNotificationDefaults(t *testing.T) {
	s := NewStore(nil)
	id := s.AddNotification(Notification{
		Type:    NotificationSuccess,
		Title:   "Level Up!",
		Message: "You reached level 2!",
	})

	require.NotEmpty(t, id)
	list := s.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, DefaultNotificationDuration, list[0].Duration)
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestNotificationAutoExpiry(t *testing.T) {
	s := NewStore(nil)
	s.AddNotification(Notification{
		Type:     NotificationInfo,
		Title:    "brief",
		Message:  "gone soon",
		Duration: 100 * time.Millisecond,
	})
	require.Len(t, s.Notifications(), 1)

	assert.Eventually(t, func() bool {
		return len(s.Notifications()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestRemoveNotificationBeforeExpiry(t *testing.T) {
	s := NewStore(nil)
	id := s.AddNotification(Notification{
		Type:     NotificationWarning,
		Title:    "hold",
		Message:  "dismiss me",
		Duration: time.Minute,
	})

	s.RemoveNotification(id)
	assert.Empty(t, s.Notifications())

	// A second removal (or the timer firing later) is a no-op.
	s.RemoveNotification(id)
	assert.Empty(t, s.Notifications())
}

func TestNotificationIDsAreUnique(t *testing.T) {
	s := NewStore(nil)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.AddNotification(Notification{
			Type:     NotificationInfo,
			Title:    "burst",
			Message:  "same tick",
			Duration: time.Minute,
		})
		require.False(t, seen[id], "duplicate notification id %s", id)
		seen[id] = true
	}
	assert.Len(t, s.Notifications(), 100)
}

func TestClearNotifications(t *testing.T) {
	s := NewStore(nil)
	for i := 0; i < 3; i++ {
		s.AddNotification(Notification{Type: NotificationInfo, Title: "n", Message: "m", Duration: time.Minute})
	}
	s.ClearNotifications()
	assert.Empty(t, s.Notifications())
}
