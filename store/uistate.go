package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Dashboard themes.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Notification levels.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// Notification is one transient dashboard message.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// UIState is the coarse dashboard chrome state: sidebar, theme, and the
// notification queue. It lives alongside the widget table so one snapshot
// covers the whole dashboard.
type UIState struct {
	SidebarOpen   bool           `json:"sidebarOpen"`
	Theme         string         `json:"theme"`
	Notifications []Notification `json:"notifications"`
}

// DefaultUIState is the chrome state before any user interaction.
var DefaultUIState = UIState{
	SidebarOpen: true,
	Theme:       ThemeSystem,
}

// UIState returns a copy of the current chrome state.
func (s *Store) UIState() UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.ui
	if s.ui.Notifications != nil {
		out.Notifications = make([]Notification, len(s.ui.Notifications))
		copy(out.Notifications, s.ui.Notifications)
	}
	return out
}

// SetSidebarOpen sets the sidebar state.
func (s *Store) SetSidebarOpen(open bool) {
	s.mu.Lock()
	s.ui.SidebarOpen = open
	s.mu.Unlock()
	s.publish(Event{Type: EventUIChanged})
}

// ToggleSidebar flips the sidebar state.
func (s *Store) ToggleSidebar() {
	s.mu.Lock()
	s.ui.SidebarOpen = !s.ui.SidebarOpen
	s.mu.Unlock()
	s.publish(Event{Type: EventUIChanged})
}

// SetTheme switches the dashboard theme.
func (s *Store) SetTheme(theme string) error {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("%q: %w", theme, ErrUnknownTheme)
	}
	s.mu.Lock()
	s.ui.Theme = theme
	s.mu.Unlock()
	s.publish(Event{Type: EventUIChanged})
	return nil
}

// AddNotification appends a message to the notification queue and returns its
// generated id.
func (s *Store) AddNotification(level, message string) string {
	note := Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.ui.Notifications = append(s.ui.Notifications, note)
	s.mu.Unlock()
	s.publish(Event{Type: EventUIChanged})
	return note.ID
}

// DismissNotification removes one notification by id.
func (s *Store) DismissNotification(id string) error {
	s.mu.Lock()
	found := false
	for i, note := range s.ui.Notifications {
		if note.ID == id {
			s.ui.Notifications = append(s.ui.Notifications[:i], s.ui.Notifications[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrNotificationNotFound
	}
	s.publish(Event{Type: EventUIChanged})
	return nil
}

// ClearNotifications drops the whole notification queue.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	s.ui.Notifications = nil
	s.mu.Unlock()
	s.publish(Event{Type: EventUIChanged})
}
