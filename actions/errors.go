package actions

import (
	"fmt"
)

// ActionError represents an action-configuration error with an actionable hint.
// These are programmer errors: they indicate a widget was authored with an
// invalid action declaration and must surface during development, never be
// swallowed at runtime.
type ActionError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ActionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for action configuration errors
const (
	ErrCodeConfigRequired = "ACTION_CONFIG_REQUIRED"
	ErrCodeInvalidConfig  = "ACTION_INVALID_CONFIG"
	ErrCodeUnknownType    = "ACTION_UNKNOWN_TYPE"
)

// ErrComplexActionRequiresConfig is returned when a complex action appears as
// a bare tag. The message names the factory helper to use instead.
func ErrComplexActionRequiresConfig(t ActionType) *ActionError {
	var factory string
	switch t {
	case ActionRemove:
		factory = "NewRemoveAction"
	case ActionExport:
		factory = "NewExportAction"
	default:
		factory = "a structured config"
	}
	return &ActionError{
		Code:    ErrCodeConfigRequired,
		Message: fmt.Sprintf("Complex action '%s' requires full configuration", t),
		Action:  fmt.Sprintf("Use the %s helper to build the action config", factory),
	}
}

// ErrInvalidActionConfig is returned when a structured config is missing the
// block its type requires.
func ErrInvalidActionConfig(t ActionType, reason string) *ActionError {
	return &ActionError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("Invalid configuration for action '%s': %s", t, reason),
	}
}

// ErrUnknownActionType is returned for action types outside the known set.
func ErrUnknownActionType(t string) *ActionError {
	return &ActionError{
		Code:    ErrCodeUnknownType,
		Message: fmt.Sprintf("Unknown action type: '%s'", t),
	}
}

// IsActionError checks if an error is an ActionError and returns it if so.
func IsActionError(err error) (*ActionError, bool) {
	if actionErr, ok := err.(*ActionError); ok {
		return actionErr, true
	}
	return nil, false
}
