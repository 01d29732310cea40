package store

import "time"

// LayoutConfig describes the dashboard grid.
type LayoutConfig struct {
	Columns   int `json:"columns" yaml:"columns"`
	RowHeight int `json:"rowHeight" yaml:"row_height"`
	Gap       int `json:"gap" yaml:"gap"`
}

// DefaultLayout is the grid used until a layout update arrives.
var DefaultLayout = LayoutConfig{
	Columns:   12,
	RowHeight: 120,
	Gap:       16,
}

// DashboardState tracks the dashboard's own lifecycle, separate from any one
// widget. LastSync is zero until the first successful initialization.
type DashboardState struct {
	Initialized   bool      `json:"initialized"`
	GlobalLoading bool      `json:"globalLoading"`
	LastSync      time.Time `json:"lastSync"`
}

// RefreshSummary reports the outcome of a dashboard-wide refresh. Successful
// and Failed always sum to the number of widgets that were refreshed.
type RefreshSummary struct {
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Total returns the number of widgets the refresh covered.
func (s RefreshSummary) Total() int {
	return s.Successful + s.Failed
}
