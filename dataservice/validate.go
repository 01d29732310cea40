package dataservice

import (
	"math"
	"strconv"
)

var validFormats = map[string]bool{
	FormatCurrency:   true,
	FormatPercentage: true,
	FormatNumber:     true,
}

var validChartTypes = map[string]bool{
	ChartLine: true,
	ChartBar:  true,
	ChartArea: true,
	ChartPie:  true,
}

// ValidateMetricPayload checks a metric payload's shape before it is handed
// to consumers. Errors name the widget id so the bad source is traceable.
func ValidateMetricPayload(id string, p MetricPayload) error {
	if p.Title == "" {
		return &ValidationError{WidgetID: id, Field: "title", Reason: "must not be empty"}
	}
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return &ValidationError{WidgetID: id, Field: "value", Reason: "must be a finite number"}
	}
	if p.PreviousValue != nil && (math.IsNaN(*p.PreviousValue) || math.IsInf(*p.PreviousValue, 0)) {
		return &ValidationError{WidgetID: id, Field: "previousValue", Reason: "must be a finite number"}
	}
	if !validFormats[p.Format] {
		return &ValidationError{WidgetID: id, Field: "format", Reason: "unknown format " + p.Format}
	}
	return nil
}

// ValidateChartPayload checks a chart payload's shape. A chart with an empty
// series is rejected: rendering it would produce a blank panel with no hint
// of what went wrong.
func ValidateChartPayload(id string, p ChartPayload) error {
	if p.Title == "" {
		return &ValidationError{WidgetID: id, Field: "title", Reason: "must not be empty"}
	}
	if len(p.Data) == 0 {
		return &ValidationError{WidgetID: id, Field: "data", Reason: "has no chart data"}
	}
	if !validChartTypes[p.ChartType] {
		return &ValidationError{WidgetID: id, Field: "chartType", Reason: "unknown chart type " + p.ChartType}
	}
	if !validFormats[p.Format] {
		return &ValidationError{WidgetID: id, Field: "format", Reason: "unknown format " + p.Format}
	}
	for i, point := range p.Data {
		if point.Label == "" {
			return &ValidationError{WidgetID: id, Field: "data", Reason: "point " + strconv.Itoa(i) + " has an empty label"}
		}
		if math.IsNaN(point.Value) || math.IsInf(point.Value, 0) {
			return &ValidationError{WidgetID: id, Field: "data", Reason: "point " + strconv.Itoa(i) + " has a non-finite value"}
		}
	}
	return nil
}
