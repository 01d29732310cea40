package dataservice

import (
	"context"
	"fmt"
	"time"
)

// Refresh simulation parameters. Refreshes are a single round trip with a
// wider failure message than the typed fetch errors, matching what a flaky
// upstream actually reports.
const (
	DefaultRefreshDelayMin = 1 * time.Second
	DefaultRefreshDelayMax = 3 * time.Second
)

// SimulateWidgetRefresh performs a simulated refresh round trip for the given
// widget. It blocks for one to three seconds and fails roughly one time in
// ten with a network timeout. The returned error names the widget.
func (s *Service) SimulateWidgetRefresh(ctx context.Context, widgetID string) error {
	min, max := DefaultRefreshDelayMin, DefaultRefreshDelayMax
	if s.cfg.MetricDelayMax > 0 && s.cfg.MetricDelayMax < DefaultRefreshDelayMin {
		// Test configs with shrunken fetch windows shrink refreshes too.
		min, max = s.cfg.MetricDelayMin, s.cfg.MetricDelayMax
	}

	delay := s.randomDelay(min, max)
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if s.rollFailure() {
		return fmt.Errorf("failed to refresh widget %s: network timeout", widgetID)
	}
	return nil
}
