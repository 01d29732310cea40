package dataservice

import (
	"math"
	"testing"
)

func TestCalculateTrend(t *testing.T) {
	tests := []struct {
		name            string
		current         float64
		previous        float64
		wantDirection   TrendDirection
		wantPct         float64
		wantSignificant bool
		wantFormatted   string
	}{
		{
			name:            "revenue up",
			current:         125000,
			previous:        112000,
			wantDirection:   TrendUp,
			wantPct:         11.607142857142858,
			wantSignificant: true,
			wantFormatted:   "+11.6%",
		},
		{
			name:            "clear decline",
			current:         90,
			previous:        100,
			wantDirection:   TrendDown,
			wantPct:         -10,
			wantSignificant: true,
			wantFormatted:   "-10.0%",
		},
		{
			name:            "sub-threshold move is neutral",
			current:         100.5,
			previous:        100,
			wantDirection:   TrendNeutral,
			wantPct:         0.5,
			wantSignificant: false,
			wantFormatted:   "+0.5%",
		},
		{
			name:            "no change",
			current:         100,
			previous:        100,
			wantDirection:   TrendNeutral,
			wantPct:         0,
			wantSignificant: false,
			wantFormatted:   "0.0%",
		},
		{
			name:            "zero previous with positive current",
			current:         50,
			previous:        0,
			wantDirection:   TrendUp,
			wantPct:         100,
			wantSignificant: true,
			wantFormatted:   "+100.0%",
		},
		{
			name:            "zero previous with negative current",
			current:         -50,
			previous:        0,
			wantDirection:   TrendDown,
			wantPct:         -100,
			wantSignificant: true,
			wantFormatted:   "-100.0%",
		},
		{
			name:            "zero previous and zero current",
			current:         0,
			previous:        0,
			wantDirection:   TrendNeutral,
			wantPct:         0,
			wantSignificant: false,
			wantFormatted:   "0.0%",
		},
		{
			name:            "negative previous uses magnitude",
			current:         -90,
			previous:        -100,
			wantDirection:   TrendUp,
			wantPct:         10,
			wantSignificant: true,
			wantFormatted:   "+10.0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTrend(tt.current, tt.previous)
			if got.Direction != tt.wantDirection {
				t.Errorf("Direction = %v, want %v", got.Direction, tt.wantDirection)
			}
			if math.Abs(got.PercentageChange-tt.wantPct) > 1e-9 {
				t.Errorf("PercentageChange = %v, want %v", got.PercentageChange, tt.wantPct)
			}
			if got.IsSignificant != tt.wantSignificant {
				t.Errorf("IsSignificant = %v, want %v", got.IsSignificant, tt.wantSignificant)
			}
			if got.FormattedChange != tt.wantFormatted {
				t.Errorf("FormattedChange = %q, want %q", got.FormattedChange, tt.wantFormatted)
			}
			if want := tt.current - tt.previous; got.AbsoluteChange != want {
				t.Errorf("AbsoluteChange = %v, want %v", got.AbsoluteChange, want)
			}
		})
	}
}

func TestMetricTrend(t *testing.T) {
	t.Run("with previous value", func(t *testing.T) {
		p := MetricPayload{Title: "Revenue", Value: 125000, PreviousValue: floatPtr(112000), Format: FormatCurrency}
		trend, ok := MetricTrend(p)
		if !ok {
			t.Fatal("MetricTrend() ok = false, want true")
		}
		if trend.Direction != TrendUp {
			t.Errorf("Direction = %v, want %v", trend.Direction, TrendUp)
		}
		if trend.FormattedChange != "+11.6%" {
			t.Errorf("FormattedChange = %q, want %q", trend.FormattedChange, "+11.6%")
		}
	})

	t.Run("without previous value", func(t *testing.T) {
		p := MetricPayload{Title: "Orders", Value: 89, Format: FormatNumber}
		if _, ok := MetricTrend(p); ok {
			t.Error("MetricTrend() ok = true without prior data")
		}
	})
}
