package dataservice

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Export formats accepted by the export endpoints.
const (
	ExportCSV  = "csv"
	ExportJSON = "json"
)

// ExportMetric renders a metric payload in the requested format.
func ExportMetric(format string, p MetricPayload) ([]byte, error) {
	switch format {
	case ExportJSON:
		return json.MarshalIndent(p, "", "  ")
	case ExportCSV:
		return metricCSV(p)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportChart renders a chart payload in the requested format.
func ExportChart(format string, p ChartPayload) ([]byte, error) {
	switch format {
	case ExportJSON:
		return json.MarshalIndent(p, "", "  ")
	case ExportCSV:
		return chartCSV(p)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func metricCSV(p MetricPayload) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"title", "value", "previous_value", "format", "exported_at"},
	}
	previous := ""
	if p.PreviousValue != nil {
		previous = strconv.FormatFloat(*p.PreviousValue, 'f', -1, 64)
	}
	records = append(records, []string{
		p.Title,
		strconv.FormatFloat(p.Value, 'f', -1, 64),
		previous,
		p.Format,
		time.Now().UTC().Format(time.RFC3339),
	})

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to encode metric CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func chartCSV(p ChartPayload) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"label", "value"}}
	for _, point := range p.Data {
		records = append(records, []string{
			point.Label,
			strconv.FormatFloat(point.Value, 'f', -1, 64),
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to encode chart CSV: %w", err)
	}
	return buf.Bytes(), nil
}
