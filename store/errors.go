package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for store operations. Callers match them with errors.Is.
var (
	ErrWidgetNotFound       = errors.New("widget not found")
	ErrInvalidWidget        = errors.New("invalid widget")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnknownTheme         = errors.New("unknown theme")
)

func notFound(id string) error {
	return fmt.Errorf("widget %q: %w", id, ErrWidgetNotFound)
}

func invalid(id, reason string) error {
	return fmt.Errorf("widget %q: %s: %w", id, reason, ErrInvalidWidget)
}
