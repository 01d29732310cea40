package dataservice

import (
	"fmt"
	"math"
)

// SignificanceThreshold is the minimum absolute percentage change for a move
// to count as a real trend. Anything smaller reports as neutral movement.
const SignificanceThreshold = 1.0

// TrendCalculation describes how a metric moved against its previous value.
type TrendCalculation struct {
	Direction        TrendDirection `json:"direction"`
	PercentageChange float64        `json:"percentageChange"`
	AbsoluteChange   float64        `json:"absoluteChange"`
	IsSignificant    bool           `json:"isSignificant"`
	FormattedChange  string         `json:"formattedChange"`
}

// CalculateTrend derives the trend between a current and previous reading.
// A zero previous value makes a percentage undefined, so any nonzero current
// reads as a fully significant move in its sign's direction.
func CalculateTrend(current, previous float64) TrendCalculation {
	absolute := current - previous

	if previous == 0 {
		direction := TrendNeutral
		pct := 0.0
		if current > 0 {
			direction = TrendUp
			pct = 100
		} else if current < 0 {
			direction = TrendDown
			pct = -100
		}
		return TrendCalculation{
			Direction:        direction,
			PercentageChange: pct,
			AbsoluteChange:   absolute,
			IsSignificant:    current != 0,
			FormattedChange:  formatChange(pct),
		}
	}

	pct := (absolute / math.Abs(previous)) * 100
	significant := math.Abs(pct) >= SignificanceThreshold

	direction := TrendNeutral
	if significant {
		if pct > 0 {
			direction = TrendUp
		} else {
			direction = TrendDown
		}
	}

	return TrendCalculation{
		Direction:        direction,
		PercentageChange: pct,
		AbsoluteChange:   absolute,
		IsSignificant:    significant,
		FormattedChange:  formatChange(pct),
	}
}

// MetricTrend computes the trend for a metric payload, or reports that no
// prior value exists to compare against.
func MetricTrend(p MetricPayload) (TrendCalculation, bool) {
	if p.PreviousValue == nil {
		return TrendCalculation{}, false
	}
	return CalculateTrend(p.Value, *p.PreviousValue), true
}

// formatChange renders a signed percentage with one decimal, e.g. "+11.6%".
func formatChange(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}
