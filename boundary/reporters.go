package boundary

import "go.uber.org/zap"

// LogReporter returns a reporter that logs faults under the given category.
// The category separates metric, chart, and table faults in the log stream
// so dashboards over the logs can break failures down by widget family.
func LogReporter(category string, logger *zap.Logger) Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("boundary").With(zap.String("category", category))
	return func(f Fault) {
		log.Error("Widget boundary fault",
			zap.String("fault_id", f.ID),
			zap.String("widget_id", f.WidgetID),
			zap.String("message", f.Message),
			zap.Time("occurred_at", f.Timestamp))
	}
}

// MetricReporter reports faults from metric widgets.
func MetricReporter(logger *zap.Logger) Reporter {
	return LogReporter("metric", logger)
}

// ChartReporter reports faults from chart widgets.
func ChartReporter(logger *zap.Logger) Reporter {
	return LogReporter("chart", logger)
}

// TableReporter reports faults from table widgets.
func TableReporter(logger *zap.Logger) Reporter {
	return LogReporter("table", logger)
}

// MultiReporter fans a fault out to several reporters in order.
func MultiReporter(reporters ...Reporter) Reporter {
	return func(f Fault) {
		for _, r := range reporters {
			if r != nil {
				r(f)
			}
		}
	}
}
