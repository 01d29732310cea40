package dataservice

import "time"

// Value formats understood by the renderers.
const (
	FormatCurrency   = "currency"
	FormatPercentage = "percentage"
	FormatNumber     = "number"
)

// Chart styles understood by the renderers.
const (
	ChartLine = "line"
	ChartBar  = "bar"
	ChartArea = "area"
	ChartPie  = "pie"
)

// TrendDirection labels how a metric moved against its previous value.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// MetricPayload is a single headline figure with an optional prior value for
// trend derivation. PreviousValue is a pointer: zero is a legitimate reading
// and must be distinguishable from "no prior data".
type MetricPayload struct {
	Title         string         `json:"title"`
	Value         float64        `json:"value"`
	PreviousValue *float64       `json:"previousValue,omitempty"`
	Format        string         `json:"format"`
	Trend         TrendDirection `json:"trend,omitempty"`
}

// ChartPoint is one labeled sample in a chart series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartPayload is a titled series rendered in one of the supported styles.
type ChartPayload struct {
	Title     string       `json:"title"`
	Data      []ChartPoint `json:"data"`
	ChartType string       `json:"chartType"`
	Format    string       `json:"format"`
}

// Response wraps a fetched payload with when it was produced and how long
// the fetch took, so callers can surface staleness and latency.
type Response[T any] struct {
	Data      T             `json:"data"`
	Timestamp time.Time     `json:"timestamp"`
	LoadTime  time.Duration `json:"loadTime"`
}

func floatPtr(v float64) *float64 { return &v }
