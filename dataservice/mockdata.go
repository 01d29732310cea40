package dataservice

// Mock fixtures backing the simulated service. Keyed by dataset id; fetches
// for an unknown id fall back to the default entry rather than failing, so a
// misconfigured widget still renders something visible.

const (
	defaultMetricID = "total-revenue"
	defaultChartID  = "revenue-chart"
)

var mockMetrics = map[string]MetricPayload{
	"total-revenue": {
		Title:         "Total Revenue",
		Value:         125000,
		PreviousValue: floatPtr(112000),
		Format:        FormatCurrency,
		Trend:         TrendUp,
	},
	"conversion-rate": {
		Title:         "Conversion Rate",
		Value:         3.2,
		PreviousValue: floatPtr(2.8),
		Format:        FormatPercentage,
		Trend:         TrendUp,
	},
	"active-users": {
		Title:         "Active Users",
		Value:         8420,
		PreviousValue: floatPtr(8100),
		Format:        FormatNumber,
		Trend:         TrendUp,
	},
	"orders-today": {
		Title:  "Orders Today",
		Value:  89,
		Format: FormatNumber,
	},
}

var mockCharts = map[string]ChartPayload{
	"revenue-chart": {
		Title:     "Monthly Revenue",
		ChartType: ChartLine,
		Format:    FormatCurrency,
		Data: []ChartPoint{
			{Label: "Jan", Value: 18500},
			{Label: "Feb", Value: 19200},
			{Label: "Mar", Value: 21100},
			{Label: "Apr", Value: 20400},
			{Label: "May", Value: 22800},
			{Label: "Jun", Value: 23000},
		},
	},
	"users-chart": {
		Title:     "Active Users by Quarter",
		ChartType: ChartBar,
		Format:    FormatNumber,
		Data: []ChartPoint{
			{Label: "Q1", Value: 6200},
			{Label: "Q2", Value: 7100},
			{Label: "Q3", Value: 7900},
			{Label: "Q4", Value: 8420},
		},
	},
	"conversion-chart": {
		Title:     "Conversion Trend",
		ChartType: ChartArea,
		Format:    FormatPercentage,
		Data: []ChartPoint{
			{Label: "Week 1", Value: 2.6},
			{Label: "Week 2", Value: 2.9},
			{Label: "Week 3", Value: 3.0},
			{Label: "Week 4", Value: 3.2},
		},
	},
}

// MetricIDs returns the known metric dataset ids.
func MetricIDs() []string {
	ids := make([]string, 0, len(mockMetrics))
	for id := range mockMetrics {
		ids = append(ids, id)
	}
	return ids
}

// ChartIDs returns the known chart dataset ids.
func ChartIDs() []string {
	ids := make([]string, 0, len(mockCharts))
	for id := range mockCharts {
		ids = append(ids, id)
	}
	return ids
}

func metricFixture(id string) MetricPayload {
	if payload, ok := mockMetrics[id]; ok {
		return payload
	}
	return mockMetrics[defaultMetricID]
}

func chartFixture(id string) ChartPayload {
	if payload, ok := mockCharts[id]; ok {
		return payload
	}
	return mockCharts[defaultChartID]
}
