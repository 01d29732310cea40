package webui

import (
	"time"

	"github.com/Izenberk/analytics-dashboard/store"
)

// WebSocket message types pushed to dashboard clients.
const (
	WSTypeInitial        = "initial"
	WSTypeWidgetUpdate   = "widget_update"
	WSTypeRefreshSummary = "refresh_summary"
	WSTypeError          = "error"
)

// WSMessage is the envelope for every message sent over the WebSocket feed.
type WSMessage struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// InitialData is the full dashboard snapshot sent to a newly connected
// client.
type InitialData struct {
	Widgets []store.WidgetRecord `json:"widgets"`
	Layout  store.LayoutConfig   `json:"layout"`
}

// WidgetUpdateData carries one store change. Widget is nil for removals.
type WidgetUpdateData struct {
	Event    store.EventType     `json:"event"`
	WidgetID string              `json:"widgetId,omitempty"`
	Widget   *store.WidgetRecord `json:"widget,omitempty"`
}

// ErrorData carries an error notification.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewInitialMessage builds an initial-state message.
func NewInitialMessage(data InitialData) WSMessage {
	return WSMessage{Type: WSTypeInitial, Timestamp: time.Now(), Data: data}
}

// NewWidgetUpdateMessage builds a widget-update message from a store event.
func NewWidgetUpdateMessage(event store.Event) WSMessage {
	return WSMessage{
		Type:      WSTypeWidgetUpdate,
		Timestamp: time.Now(),
		Data: WidgetUpdateData{
			Event:    event.Type,
			WidgetID: event.WidgetID,
			Widget:   event.Widget,
		},
	}
}

// NewRefreshSummaryMessage builds a message reporting a dashboard-wide
// refresh outcome.
func NewRefreshSummaryMessage(summary store.RefreshSummary) WSMessage {
	return WSMessage{Type: WSTypeRefreshSummary, Timestamp: time.Now(), Data: summary}
}

// NewErrorMessage builds an error notification message.
func NewErrorMessage(code, message string) WSMessage {
	return WSMessage{
		Type:      WSTypeError,
		Timestamp: time.Now(),
		Data:      ErrorData{Code: code, Message: message},
	}
}
