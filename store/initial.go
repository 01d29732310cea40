package store

import "github.com/Izenberk/analytics-dashboard/actions"

// DefaultWidgets is the seed dashboard used when no seed file is configured:
// two headline metrics and one trend chart, each carrying the standard action
// set for its kind.
func DefaultWidgets() []WidgetRecord {
	metricActions := []actions.Descriptor{
		actions.Simple(actions.ActionRefresh),
		actions.Simple(actions.ActionConfigure),
		actions.WithConfig(actions.NewRemoveAction()),
	}
	chartActions := []actions.Descriptor{
		actions.Simple(actions.ActionRefresh),
		actions.Simple(actions.ActionConfigure),
		actions.Simple(actions.ActionFullscreen),
		actions.WithConfig(actions.NewExportAction()),
		actions.WithConfig(actions.NewRemoveAction()),
	}

	return []WidgetRecord{
		{
			ID:        "revenue-metric",
			Kind:      KindMetric,
			Title:     "Total Revenue",
			DatasetID: "total-revenue",
			Position:  WidgetPosition{GridArea: "metric1", MobileOrder: 1},
			Size:      SizeMedium,
			Visible:   true,
			Actions:   metricActions,
		},
		{
			ID:        "users-metric",
			Kind:      KindMetric,
			Title:     "Active Users",
			DatasetID: "active-users",
			Position:  WidgetPosition{GridArea: "metric2", MobileOrder: 2},
			Size:      SizeMedium,
			Visible:   true,
			Actions:   metricActions,
		},
		{
			ID:        "trends-chart",
			Kind:      KindChart,
			Title:     "Monthly Revenue",
			DatasetID: "revenue-chart",
			Position:  WidgetPosition{GridArea: "chart1", MobileOrder: 3},
			Size:      SizeLarge,
			Visible:   true,
			Actions:   chartActions,
		},
	}
}
