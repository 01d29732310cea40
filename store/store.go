package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Izenberk/analytics-dashboard/actions"
)

// RefreshFunc performs the actual data round trip for one widget. The store
// receives a copy of the record, so the function can read DatasetID and Kind
// but never mutate store state directly.
type RefreshFunc func(ctx context.Context, widget WidgetRecord) error

// Store is the normalized widget state container. All mutations copy the
// affected record before changing it, so snapshots handed to readers stay
// immutable after the fact.
type Store struct {
	mu      sync.RWMutex
	widgets map[string]*WidgetRecord
	layout  LayoutConfig
	ui      UIState
	dash    DashboardState

	refresh RefreshFunc
	logger  *zap.Logger

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewStore creates an empty store. refresh may be nil, in which case
// RefreshWidget stamps records without a data round trip. A nil logger
// disables logging.
func NewStore(refresh RefreshFunc, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		widgets: make(map[string]*WidgetRecord),
		layout:  DefaultLayout,
		ui:      DefaultUIState,
		refresh: refresh,
		logger:  logger,
		subs:    make(map[int]chan Event),
	}
}

// AddWidget inserts a widget and returns its id, generating one when the
// record carries none. An existing id is replaced wholesale, so re-adding a
// widget resets its runtime state.
func (s *Store) AddWidget(w WidgetRecord) (string, error) {
	if !w.Kind.Valid() {
		return "", invalid(w.ID, "unknown kind "+string(w.Kind))
	}
	if w.Size == "" {
		w.Size = SizeMedium
	}
	if !w.Size.Valid() {
		return "", invalid(w.ID, "unknown size "+string(w.Size))
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	w.LastUpdated = time.Now()

	s.mu.Lock()
	record := w.clone()
	s.widgets[w.ID] = record
	s.mu.Unlock()

	s.logger.Debug("Widget added",
		zap.String("widget_id", w.ID),
		zap.String("kind", string(w.Kind)))
	s.publish(Event{Type: EventWidgetAdded, WidgetID: w.ID, Widget: record.clone()})
	return w.ID, nil
}

// Widget returns a copy of the record for the given id.
func (s *Store) Widget(id string) (WidgetRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.widgets[id]
	if !ok {
		return WidgetRecord{}, false
	}
	return *record.clone(), true
}

// Widgets returns copies of every record, ordered by id for determinism.
func (s *Store) Widgets() []WidgetRecord {
	s.mu.RLock()
	out := make([]WidgetRecord, 0, len(s.widgets))
	for _, record := range s.widgets {
		out = append(out, *record.clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of widgets in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.widgets)
}

// UpdateWidget merges the non-nil fields of the update into the record and
// restamps LastUpdated.
func (s *Store) UpdateWidget(id string, update WidgetUpdate) error {
	s.mu.Lock()
	record, ok := s.widgets[id]
	if !ok {
		s.mu.Unlock()
		return notFound(id)
	}

	if update.Kind != nil && *update.Kind != record.Kind {
		s.mu.Unlock()
		return invalid(id, "kind is fixed at creation")
	}
	if update.Size != nil && !update.Size.Valid() {
		s.mu.Unlock()
		return invalid(id, "unknown size "+string(*update.Size))
	}

	next := record.clone()
	if update.Title != nil {
		next.Title = *update.Title
	}
	if update.DatasetID != nil {
		next.DatasetID = *update.DatasetID
	}
	if update.Position != nil {
		next.Position = *update.Position
	}
	if update.Size != nil {
		next.Size = *update.Size
	}
	if update.Visible != nil {
		next.Visible = *update.Visible
	}
	if update.Actions != nil {
		next.Actions = append([]actions.Descriptor(nil), update.Actions...)
	}
	if update.Data != nil {
		next.Data = update.Data
	}
	next.LastUpdated = time.Now()
	s.widgets[id] = next
	s.mu.Unlock()

	s.publish(Event{Type: EventWidgetUpdated, WidgetID: id, Widget: next.clone()})
	return nil
}

// RemoveWidget deletes the record for the given id.
func (s *Store) RemoveWidget(id string) error {
	s.mu.Lock()
	if _, ok := s.widgets[id]; !ok {
		s.mu.Unlock()
		return notFound(id)
	}
	delete(s.widgets, id)
	s.mu.Unlock()

	s.logger.Debug("Widget removed", zap.String("widget_id", id))
	s.publish(Event{Type: EventWidgetRemoved, WidgetID: id})
	return nil
}

// SetWidgetLoading flips the loading flag. Entering loading clears any
// standing error: a fresh attempt starts with a clean slate.
func (s *Store) SetWidgetLoading(id string, loading bool) error {
	return s.mutate(id, EventWidgetUpdated, func(w *WidgetRecord) {
		w.Loading = loading
		if loading {
			w.Err = ""
		}
	})
}

// SetWidgetError records a failure and ends loading.
func (s *Store) SetWidgetError(id, message string) error {
	return s.mutate(id, EventWidgetUpdated, func(w *WidgetRecord) {
		w.Err = message
		w.Loading = false
	})
}

// ClearWidgetError removes a recorded failure without touching anything else.
func (s *Store) ClearWidgetError(id string) error {
	return s.mutate(id, EventWidgetUpdated, func(w *WidgetRecord) {
		w.Err = ""
	})
}

// ToggleWidgetVisibility flips the visible flag.
func (s *Store) ToggleWidgetVisibility(id string) error {
	return s.mutate(id, EventWidgetUpdated, func(w *WidgetRecord) {
		w.Visible = !w.Visible
	})
}

// HideAllWidgets marks every widget hidden.
func (s *Store) HideAllWidgets() {
	s.setAllVisible(false)
}

// ShowAllWidgets marks every widget visible.
func (s *Store) ShowAllWidgets() {
	s.setAllVisible(true)
}

func (s *Store) setAllVisible(visible bool) {
	s.mu.Lock()
	changed := make([]*WidgetRecord, 0, len(s.widgets))
	for id, record := range s.widgets {
		if record.Visible == visible {
			continue
		}
		next := record.clone()
		next.Visible = visible
		s.widgets[id] = next
		changed = append(changed, next)
	}
	s.mu.Unlock()

	for _, record := range changed {
		s.publish(Event{Type: EventWidgetUpdated, WidgetID: record.ID, Widget: record.clone()})
	}
}

// Dashboard returns the dashboard-level lifecycle state.
func (s *Store) Dashboard() DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dash
}

// Layout returns the current grid configuration.
func (s *Store) Layout() LayoutConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout
}

// UpdateLayout replaces the grid configuration.
func (s *Store) UpdateLayout(layout LayoutConfig) {
	s.mu.Lock()
	s.layout = layout
	s.mu.Unlock()
	s.publish(Event{Type: EventLayoutChanged})
}

// ResetLayout restores the default grid.
func (s *Store) ResetLayout() {
	s.UpdateLayout(DefaultLayout)
}

// InitializeDashboard replaces all widgets with the given seed set. Records
// without ids get generated ones. On success the dashboard is marked
// initialized and LastSync is stamped.
func (s *Store) InitializeDashboard(widgets []WidgetRecord) error {
	for i := range widgets {
		if !widgets[i].Kind.Valid() {
			return invalid(widgets[i].ID, "unknown kind "+string(widgets[i].Kind))
		}
		if widgets[i].Size == "" {
			widgets[i].Size = SizeMedium
		}
		if !widgets[i].Size.Valid() {
			return invalid(widgets[i].ID, "unknown size "+string(widgets[i].Size))
		}
		if widgets[i].ID == "" {
			widgets[i].ID = uuid.New().String()
		}
	}

	s.mu.Lock()
	s.widgets = make(map[string]*WidgetRecord, len(widgets))
	for i := range widgets {
		s.widgets[widgets[i].ID] = widgets[i].clone()
	}
	s.dash = DashboardState{
		Initialized: true,
		LastSync:    time.Now(),
	}
	s.mu.Unlock()

	s.logger.Info("Dashboard initialized", zap.Int("widget_count", len(widgets)))
	s.publish(Event{Type: EventDashboardReset})
	return nil
}

// RefreshWidget runs the configured refresh for one widget. A data failure
// is recorded in the widget's state rather than returned; the only error
// this method reports is an unknown id.
func (s *Store) RefreshWidget(ctx context.Context, id string) error {
	_, err := s.refreshOne(ctx, id)
	if err != nil && !isRefreshFailure(err) {
		return err
	}
	return nil
}

// RefreshAllWidgets refreshes every visible widget concurrently and waits
// for all of them to settle. Hidden widgets are skipped; one widget failing
// never aborts the others. The summary counts both outcomes and carries the
// failure messages by widget id.
func (s *Store) RefreshAllWidgets(ctx context.Context) RefreshSummary {
	ids := make([]string, 0)
	s.mu.Lock()
	for id, record := range s.widgets {
		if record.Visible {
			ids = append(ids, id)
		}
	}
	s.dash.GlobalLoading = true
	s.mu.Unlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		summary = RefreshSummary{Errors: make(map[string]string)}
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.refreshOne(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				summary.Errors[id] = err.Error()
			} else {
				summary.Successful++
			}
		}(id)
	}
	wg.Wait()

	s.mu.Lock()
	s.dash.GlobalLoading = false
	s.dash.LastSync = time.Now()
	s.mu.Unlock()

	if len(summary.Errors) == 0 {
		summary.Errors = nil
	}
	s.logger.Info("Dashboard refresh settled",
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed))
	return summary
}

// refreshFailure marks errors produced by the refresh round trip, as opposed
// to an unknown widget id.
type refreshFailure struct{ err error }

func (e *refreshFailure) Error() string { return e.err.Error() }
func (e *refreshFailure) Unwrap() error { return e.err }

func isRefreshFailure(err error) bool {
	_, ok := err.(*refreshFailure)
	return ok
}

// refreshOne flips the widget into loading, runs the refresh outside the
// lock, and records the outcome. Returns the widget's post-refresh state.
func (s *Store) refreshOne(ctx context.Context, id string) (WidgetRecord, error) {
	s.mu.RLock()
	record, ok := s.widgets[id]
	var snapshot WidgetRecord
	if ok {
		snapshot = *record.clone()
	}
	s.mu.RUnlock()
	if !ok {
		return WidgetRecord{}, notFound(id)
	}

	if err := s.SetWidgetLoading(id, true); err != nil {
		return WidgetRecord{}, err
	}

	var refreshErr error
	if s.refresh != nil {
		refreshErr = s.refresh(ctx, snapshot)
	}

	if refreshErr != nil {
		// The widget may have been removed mid-refresh; nothing left to record.
		if err := s.SetWidgetError(id, refreshErr.Error()); err != nil {
			return WidgetRecord{}, &refreshFailure{err: refreshErr}
		}
		s.logger.Warn("Widget refresh failed",
			zap.String("widget_id", id),
			zap.Error(refreshErr))
		after, _ := s.Widget(id)
		return after, &refreshFailure{err: refreshErr}
	}

	err := s.mutate(id, EventWidgetRefreshed, func(w *WidgetRecord) {
		w.Loading = false
		w.Err = ""
		w.LastUpdated = time.Now()
	})
	if err != nil {
		return WidgetRecord{}, err
	}
	after, _ := s.Widget(id)
	return after, nil
}

// mutate clones the record, applies fn to the clone, swaps it in, and
// publishes the change.
func (s *Store) mutate(id string, event EventType, fn func(*WidgetRecord)) error {
	s.mu.Lock()
	record, ok := s.widgets[id]
	if !ok {
		s.mu.Unlock()
		return notFound(id)
	}
	next := record.clone()
	fn(next)
	s.widgets[id] = next
	s.mu.Unlock()

	s.publish(Event{Type: event, WidgetID: id, Widget: next.clone()})
	return nil
}
