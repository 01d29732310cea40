package store

// EventType labels a store change for subscribers.
type EventType string

const (
	EventWidgetAdded     EventType = "widget_added"
	EventWidgetUpdated   EventType = "widget_updated"
	EventWidgetRemoved   EventType = "widget_removed"
	EventWidgetRefreshed EventType = "widget_refreshed"
	EventLayoutChanged   EventType = "layout_changed"
	EventUIChanged       EventType = "ui_changed"
	EventDashboardReset  EventType = "dashboard_reset"
)

// Event is one store change. Widget is a private copy for events that concern
// a single record; it is nil for removals and dashboard-wide events.
type Event struct {
	Type     EventType     `json:"type"`
	WidgetID string        `json:"widgetId,omitempty"`
	Widget   *WidgetRecord `json:"widget,omitempty"`
}

const subscriberBuffer = 16

// Subscribe registers for store change events. The returned cancel function
// removes the subscription and closes the channel. Slow subscribers drop
// events rather than blocking mutations.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) publish(event Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
