// Package store holds the normalized dashboard state: a flat map of widget
// records keyed by id, mutated only through copy-on-write operations behind a
// single RWMutex. Reads hand out copies, so callers can never alias the
// store's internal records.
package store

import (
	"time"

	"github.com/Izenberk/analytics-dashboard/actions"
)

// WidgetKind discriminates what a widget renders.
type WidgetKind string

const (
	KindMetric WidgetKind = "metric"
	KindChart  WidgetKind = "chart"
	KindTable  WidgetKind = "table"
	KindCustom WidgetKind = "custom"
)

// Valid reports whether the kind is one of the known widget kinds.
func (k WidgetKind) Valid() bool {
	switch k {
	case KindMetric, KindChart, KindTable, KindCustom:
		return true
	}
	return false
}

// WidgetSize is a widget's footprint tier on the grid.
type WidgetSize string

const (
	SizeSmall  WidgetSize = "small"
	SizeMedium WidgetSize = "medium"
	SizeLarge  WidgetSize = "large"
)

// Valid reports whether the size is one of the known tiers.
func (s WidgetSize) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// WidgetPosition is a presentation hint the store passes through untouched:
// a named grid area plus the widget's order in the single-column mobile
// layout.
type WidgetPosition struct {
	GridArea    string `json:"gridArea" yaml:"grid_area"`
	MobileOrder int    `json:"mobileOrder" yaml:"mobile_order"`
}

// WidgetRecord is one widget's full state. Loading and Err are mutually
// exclusive: entering loading clears any standing error, and recording an
// error ends loading.
type WidgetRecord struct {
	ID          string               `json:"id" yaml:"id"`
	Kind        WidgetKind           `json:"kind" yaml:"kind"`
	Title       string               `json:"title" yaml:"title"`
	DatasetID   string               `json:"datasetId" yaml:"dataset_id"`
	Position    WidgetPosition       `json:"position" yaml:"position"`
	Size        WidgetSize           `json:"size" yaml:"size"`
	Loading     bool                 `json:"loading" yaml:"-"`
	Err         string               `json:"error,omitempty" yaml:"-"`
	Visible     bool                 `json:"visible" yaml:"visible"`
	LastUpdated time.Time            `json:"lastUpdated" yaml:"-"`
	Actions     []actions.Descriptor `json:"actions,omitempty" yaml:"actions"`

	// Data is an opaque payload the store never interprets.
	Data any `json:"data,omitempty" yaml:"-"`
}

// HasError reports whether the widget has a recorded failure.
func (w *WidgetRecord) HasError() bool {
	return w.Err != ""
}

// clone returns a deep copy of the record. Action descriptors are copied by
// slice so appends on the copy never touch the original. Data is opaque and
// shared by reference; the store treats it as immutable.
func (w *WidgetRecord) clone() *WidgetRecord {
	cp := *w
	if w.Actions != nil {
		cp.Actions = make([]actions.Descriptor, len(w.Actions))
		copy(cp.Actions, w.Actions)
	}
	return &cp
}

// WidgetUpdate carries partial changes for UpdateWidget. Nil fields leave the
// record's current values alone. Kind is fixed at creation: a non-nil Kind
// must match the record's current kind or the update is rejected.
type WidgetUpdate struct {
	Title     *string
	DatasetID *string
	Position  *WidgetPosition
	Size      *WidgetSize
	Visible   *bool
	Kind      *WidgetKind
	Actions   []actions.Descriptor

	// Data replaces the opaque payload when non-nil.
	Data any
}
