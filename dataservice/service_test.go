package dataservice

import (
	"context"
	"testing"
	"time"
)

// fastConfig keeps simulated latency near zero so tests stay quick.
func fastConfig(failureRate float64) Config {
	return Config{
		FailureRate:    failureRate,
		MetricDelayMin: time.Millisecond,
		MetricDelayMax: 2 * time.Millisecond,
		ChartDelayMin:  time.Millisecond,
		ChartDelayMax:  2 * time.Millisecond,
		Seed:           1,
	}
}

func TestFetchMetric(t *testing.T) {
	svc := NewService(fastConfig(0), nil)

	tests := []struct {
		name       string
		id         string
		wantTitle  string
		wantValue  float64
		wantFormat string
	}{
		{name: "total revenue", id: "total-revenue", wantTitle: "Total Revenue", wantValue: 125000, wantFormat: FormatCurrency},
		{name: "conversion rate", id: "conversion-rate", wantTitle: "Conversion Rate", wantValue: 3.2, wantFormat: FormatPercentage},
		{name: "active users", id: "active-users", wantTitle: "Active Users", wantValue: 8420, wantFormat: FormatNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.FetchMetric(context.Background(), tt.id)
			if err != nil {
				t.Fatalf("FetchMetric() error = %v", err)
			}
			if resp.Data.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", resp.Data.Title, tt.wantTitle)
			}
			if resp.Data.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", resp.Data.Value, tt.wantValue)
			}
			if resp.Data.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", resp.Data.Format, tt.wantFormat)
			}
			if resp.Timestamp.IsZero() {
				t.Error("Timestamp not set")
			}
			if resp.LoadTime <= 0 {
				t.Error("LoadTime not measured")
			}
		})
	}

	t.Run("unknown id falls back to default fixture", func(t *testing.T) {
		resp, err := svc.FetchMetric(context.Background(), "no-such-dataset")
		if err != nil {
			t.Fatalf("FetchMetric() error = %v", err)
		}
		if resp.Data.Title == "" {
			t.Error("fallback fixture has no title")
		}
	})
}

func TestFetchChart(t *testing.T) {
	svc := NewService(fastConfig(0), nil)

	resp, err := svc.FetchChart(context.Background(), "revenue-chart")
	if err != nil {
		t.Fatalf("FetchChart() error = %v", err)
	}
	if resp.Data.ChartType != ChartLine {
		t.Errorf("ChartType = %q, want %q", resp.Data.ChartType, ChartLine)
	}
	if len(resp.Data.Data) == 0 {
		t.Error("chart fixture has no points")
	}
}

func TestFetchInjectedFailure(t *testing.T) {
	svc := NewService(fastConfig(1), nil)

	_, err := svc.FetchMetric(context.Background(), "total-revenue")
	if err == nil {
		t.Fatal("FetchMetric() error = nil with failure rate 1")
	}
	svcErr, ok := IsServiceError(err)
	if !ok {
		t.Fatalf("error is %T, want *ServiceError", err)
	}
	if !svcErr.Retryable {
		t.Error("injected failure not retryable")
	}
	switch svcErr.Code {
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeServer:
	default:
		t.Errorf("Code = %q, want one of the known failure codes", svcErr.Code)
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	svc := NewService(Config{
		FailureRate:    0,
		MetricDelayMin: 5 * time.Second,
		MetricDelayMax: 10 * time.Second,
		Seed:           1,
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.FetchMetric(ctx, "total-revenue")
	if err != context.DeadlineExceeded {
		t.Errorf("FetchMetric() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("fetch blocked %v past cancellation", elapsed)
	}
}

func TestSimulateWidgetRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := NewService(fastConfig(0), nil)
		if err := svc.SimulateWidgetRefresh(context.Background(), "w1"); err != nil {
			t.Errorf("SimulateWidgetRefresh() error = %v", err)
		}
	})

	t.Run("failure names the widget", func(t *testing.T) {
		svc := NewService(fastConfig(1), nil)
		err := svc.SimulateWidgetRefresh(context.Background(), "trends-chart")
		if err == nil {
			t.Fatal("SimulateWidgetRefresh() error = nil with failure rate 1")
		}
		want := "failed to refresh widget trends-chart: network timeout"
		if err.Error() != want {
			t.Errorf("error = %q, want %q", err.Error(), want)
		}
	})
}

func TestDeterministicWithSeed(t *testing.T) {
	cfg := fastConfig(0.5)
	a := NewService(cfg, nil)
	b := NewService(cfg, nil)

	for i := 0; i < 20; i++ {
		_, errA := a.FetchMetric(context.Background(), "total-revenue")
		_, errB := b.FetchMetric(context.Background(), "total-revenue")
		if (errA == nil) != (errB == nil) {
			t.Fatalf("attempt %d diverged: %v vs %v", i, errA, errB)
		}
	}
}
