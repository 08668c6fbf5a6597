package session

import (
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Notification kinds.
const (
	NotificationSuccess = "success"
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// DefaultNotificationDuration applies when a notification carries no
// explicit duration.
const DefaultNotificationDuration = 5 * time.Second

// Notification is a transient announcement. It removes itself from the
// store after Duration elapses; ids are ULIDs and never reused.
type Notification struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// AddNotification assigns a fresh id and creation time, appends the
// notification and schedules its removal. Returns the assigned id.
func (s *Store) AddNotification(n Notification) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = ulid.Make().String()
	n.CreatedAt = time.Now()
	if n.Duration <= 0 {
		n.Duration = DefaultNotificationDuration
	}
	s.notifications = append(s.notifications, n)

	id := n.ID
	s.timers[id] = time.AfterFunc(n.Duration, func() {
		s.RemoveNotification(id)
	})

	if s.logger != nil {
		s.logger.Debug("notification added",
			zap.String("id", id),
			zap.String("type", n.Type),
			zap.Duration("duration", n.Duration),
		)
	}
	return id
}

// RemoveNotification drops the notification with the given id. Removing an
// id that already expired or was dismissed is a no-op, so a late timer
// firing after manual dismissal is harmless.
func (s *Store) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearNotifications drops every pending notification and cancels their
// timers.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearNotificationsLocked()
}

func (s *Store) clearNotificationsLocked() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.notifications = nil
}

// Notifications returns a copy of the pending notification list.
func (s *Store) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.notifications...)
}
