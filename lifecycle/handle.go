// Package lifecycle binds a single widget id to the store and the action
// registry, giving callers one object that reads the widget's derived view,
// mutates its state, and resolves its available actions. Creating a handle
// for an unknown id registers the widget, so wiring order between dashboard
// seeding and handle creation does not matter.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Izenberk/analytics-dashboard/actions"
	"github.com/Izenberk/analytics-dashboard/store"
)

// StalenessWindow is how old a widget's data may get before the view flags
// it as needing a refresh.
const StalenessWindow = 5 * time.Minute

// Options seeds the widget record when the handle has to auto-register it.
// Zero values fall back to KindCustom and a title humanized from the id.
type Options struct {
	Kind      store.WidgetKind
	Title     string
	DatasetID string
	Actions   []actions.Descriptor
}

// Handle is a widget-scoped facade over the store and action registry.
type Handle struct {
	id       string
	store    *store.Store
	registry *actions.Registry
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandle binds a handle to the given widget id, registering the widget if
// the store does not know it yet. Registration is idempotent: an existing
// record is left untouched.
func NewHandle(s *store.Store, registry *actions.Registry, id string, opts Options, logger *zap.Logger) (*Handle, error) {
	if id == "" {
		return nil, fmt.Errorf("lifecycle: widget id must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, ok := s.Widget(id); !ok {
		kind := opts.Kind
		if kind == "" {
			kind = store.KindCustom
		}
		title := opts.Title
		if title == "" {
			title = HumanizeID(id)
		}
		record := store.WidgetRecord{
			ID:        id,
			Kind:      kind,
			Title:     title,
			DatasetID: opts.DatasetID,
			Visible:   true,
			Actions:   opts.Actions,
		}
		if _, err := s.AddWidget(record); err != nil {
			return nil, fmt.Errorf("lifecycle: failed to register widget %q: %w", id, err)
		}
		logger.Debug("Widget auto-registered",
			zap.String("widget_id", id),
			zap.String("kind", string(kind)))
	}

	return &Handle{
		id:       id,
		store:    s,
		registry: registry,
		logger:   logger.With(zap.String("widget_id", id)),
		now:      time.Now,
	}, nil
}

// ID returns the bound widget id.
func (h *Handle) ID() string { return h.id }

// View is the derived per-widget snapshot consumers render from.
type View struct {
	ID           string           `json:"id"`
	Kind         store.WidgetKind `json:"kind"`
	Title        string           `json:"title"`
	Loading      bool             `json:"loading"`
	Error        string           `json:"error,omitempty"`
	Visible      bool             `json:"visible"`
	LastUpdated  time.Time        `json:"lastUpdated"`
	HasError     bool             `json:"hasError"`
	IsActive     bool             `json:"isActive"`
	NeedsRefresh bool             `json:"needsRefresh"`
}

// View computes the current derived view. IsActive means visible and neither
// loading nor failed. NeedsRefresh means the data is older than the staleness
// window, or was never loaded at all.
func (h *Handle) View() (View, error) {
	record, ok := h.store.Widget(h.id)
	if !ok {
		return View{}, fmt.Errorf("widget %q: %w", h.id, store.ErrWidgetNotFound)
	}

	needsRefresh := record.LastUpdated.IsZero() ||
		h.now().Sub(record.LastUpdated) > StalenessWindow

	return View{
		ID:           record.ID,
		Kind:         record.Kind,
		Title:        record.Title,
		Loading:      record.Loading,
		Error:        record.Err,
		Visible:      record.Visible,
		LastUpdated:  record.LastUpdated,
		HasError:     record.HasError(),
		IsActive:     record.Visible && !record.Loading && !record.HasError(),
		NeedsRefresh: needsRefresh,
	}, nil
}

// SetLoading flips the bound widget's loading flag.
func (h *Handle) SetLoading(loading bool) error {
	return h.store.SetWidgetLoading(h.id, loading)
}

// SetError records a failure on the bound widget.
func (h *Handle) SetError(message string) error {
	return h.store.SetWidgetError(h.id, message)
}

// ClearError removes a recorded failure from the bound widget.
func (h *Handle) ClearError() error {
	return h.store.ClearWidgetError(h.id)
}

// ToggleVisibility flips the bound widget's visible flag.
func (h *Handle) ToggleVisibility() error {
	return h.store.ToggleWidgetVisibility(h.id)
}

// Show makes the bound widget visible.
func (h *Handle) Show() error {
	return h.setVisible(true)
}

// Hide hides the bound widget without removing it.
func (h *Handle) Hide() error {
	return h.setVisible(false)
}

func (h *Handle) setVisible(visible bool) error {
	return h.store.UpdateWidget(h.id, store.WidgetUpdate{Visible: &visible})
}

// Update applies a partial update to the bound widget.
func (h *Handle) Update(update store.WidgetUpdate) error {
	return h.store.UpdateWidget(h.id, update)
}

// UpdateTitle renames the bound widget.
func (h *Handle) UpdateTitle(title string) error {
	return h.store.UpdateWidget(h.id, store.WidgetUpdate{Title: &title})
}

// Remove deletes the bound widget from the store. The handle is dead after
// this; further calls report the widget as not found.
func (h *Handle) Remove() error {
	return h.store.RemoveWidget(h.id)
}

// Refresh runs the store's refresh for the bound widget. Data failures land
// in the widget's state, not in the return value.
func (h *Handle) Refresh(ctx context.Context) error {
	return h.store.RefreshWidget(ctx, h.id)
}

// RefreshSafely enters loading (which clears any standing error), runs the
// refresh, and guarantees the widget is out of loading afterwards no matter
// how the refresh ended.
func (h *Handle) RefreshSafely(ctx context.Context) error {
	if err := h.store.SetWidgetLoading(h.id, true); err != nil {
		return err
	}
	if err := h.store.RefreshWidget(ctx, h.id); err != nil {
		h.logger.Warn("Widget refresh failed", zap.Error(err))
		if recordErr := h.store.SetWidgetError(h.id, err.Error()); recordErr != nil {
			return err
		}
	}
	if record, ok := h.store.Widget(h.id); ok && record.Loading {
		return h.store.SetWidgetLoading(h.id, false)
	}
	return nil
}

// UpdateSafely applies a partial update, converting a failed update into a
// recorded widget error instead of propagating it. Unknown-widget errors
// still propagate since there is no record to write to.
func (h *Handle) UpdateSafely(update store.WidgetUpdate) error {
	err := h.store.UpdateWidget(h.id, update)
	if err == nil {
		return nil
	}
	h.logger.Warn("Widget update failed", zap.Error(err))
	if recordErr := h.store.SetWidgetError(h.id, err.Error()); recordErr != nil {
		return err
	}
	return nil
}

// Actions resolves the bound widget's visible actions for the given caller
// permissions, ordered by priority.
func (h *Handle) Actions(permissions []string) (actions.ProcessingResult, error) {
	record, ok := h.store.Widget(h.id)
	if !ok {
		return actions.ProcessingResult{}, fmt.Errorf("widget %q: %w", h.id, store.ErrWidgetNotFound)
	}

	actx := &actions.Context{
		WidgetID:    record.ID,
		WidgetType:  string(record.Kind),
		Permissions: permissions,
		State: &actions.WidgetState{
			Loading: record.Loading,
			Error:   record.Err,
			Visible: record.Visible,
		},
	}
	return h.registry.ProcessActions(record.Actions, actx)
}

// HumanizeID turns a kebab-case widget id into a display title, e.g.
// "revenue-metric" becomes "Revenue Metric".
func HumanizeID(id string) string {
	parts := strings.Split(id, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
