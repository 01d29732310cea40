package dataservice

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default simulation parameters. Metric fetches are quicker than chart
// fetches, and roughly one request in ten fails with a transient error.
const (
	DefaultFailureRate    = 0.10
	DefaultMetricDelayMin = 800 * time.Millisecond
	DefaultMetricDelayMax = 2500 * time.Millisecond
	DefaultChartDelayMin  = 1200 * time.Millisecond
	DefaultChartDelayMax  = 4000 * time.Millisecond
)

// Config tunes the simulated service. The zero value is usable: delays and
// failure rate fall back to the defaults. Tests set the delays to a tiny
// window and the failure rate to 0 or 1 to stay deterministic.
type Config struct {
	FailureRate    float64
	MetricDelayMin time.Duration
	MetricDelayMax time.Duration
	ChartDelayMin  time.Duration
	ChartDelayMax  time.Duration

	// Seed for the internal RNG. Zero means seed from the clock.
	Seed int64
}

// Service serves mock metric and chart payloads with simulated latency and
// injected failures. Safe for concurrent use.
type Service struct {
	cfg    Config
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a simulated data service. A nil logger disables logging.
func NewService(cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FailureRate < 0 || cfg.FailureRate > 1 {
		cfg.FailureRate = DefaultFailureRate
	}
	if cfg.MetricDelayMax <= 0 {
		cfg.MetricDelayMin = DefaultMetricDelayMin
		cfg.MetricDelayMax = DefaultMetricDelayMax
	}
	if cfg.ChartDelayMax <= 0 {
		cfg.ChartDelayMin = DefaultChartDelayMin
		cfg.ChartDelayMax = DefaultChartDelayMax
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Service{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// NewDefaultService creates a service with production simulation parameters.
func NewDefaultService(logger *zap.Logger) *Service {
	return NewService(Config{}, logger)
}

// FetchMetric returns the metric payload for the given dataset id after a
// simulated network round trip. Validation runs on the fixture before it is
// returned so a broken fixture surfaces as an error, not a blank widget.
func (s *Service) FetchMetric(ctx context.Context, id string) (*Response[MetricPayload], error) {
	start := time.Now()
	if err := s.simulateRoundTrip(ctx, s.cfg.MetricDelayMin, s.cfg.MetricDelayMax); err != nil {
		s.logger.Warn("Metric fetch failed",
			zap.String("dataset_id", id),
			zap.Error(err))
		return nil, err
	}

	payload := metricFixture(id)
	if err := ValidateMetricPayload(id, payload); err != nil {
		return nil, err
	}

	resp := &Response[MetricPayload]{
		Data:      payload,
		Timestamp: time.Now(),
		LoadTime:  time.Since(start),
	}
	s.logger.Debug("Metric fetched",
		zap.String("dataset_id", id),
		zap.Duration("load_time", resp.LoadTime))
	return resp, nil
}

// FetchChart returns the chart payload for the given dataset id after a
// simulated network round trip.
func (s *Service) FetchChart(ctx context.Context, id string) (*Response[ChartPayload], error) {
	start := time.Now()
	if err := s.simulateRoundTrip(ctx, s.cfg.ChartDelayMin, s.cfg.ChartDelayMax); err != nil {
		s.logger.Warn("Chart fetch failed",
			zap.String("dataset_id", id),
			zap.Error(err))
		return nil, err
	}

	payload := chartFixture(id)
	if err := ValidateChartPayload(id, payload); err != nil {
		return nil, err
	}

	resp := &Response[ChartPayload]{
		Data:      payload,
		Timestamp: time.Now(),
		LoadTime:  time.Since(start),
	}
	s.logger.Debug("Chart fetched",
		zap.String("dataset_id", id),
		zap.Duration("load_time", resp.LoadTime))
	return resp, nil
}

// simulateRoundTrip sleeps for a random duration in [min, max] and then rolls
// for an injected failure. Cancelled contexts abort the sleep early.
func (s *Service) simulateRoundTrip(ctx context.Context, min, max time.Duration) error {
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
		return s.randomFailure()
	}
	return nil
}

func (s *Service) randomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + time.Duration(s.rng.Int63n(int64(max-min)))
}

func (s *Service) rollFailure() bool {
	if s.cfg.FailureRate <= 0 {
		return false
	}
	if s.cfg.FailureRate >= 1 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.cfg.FailureRate
}

func (s *Service) randomFailure() *ServiceError {
	s.mu.Lock()
	n := s.rng.Intn(3)
	s.mu.Unlock()
	switch n {
	case 0:
		return NewNetworkError()
	case 1:
		return NewTimeoutError()
	default:
		return NewServerError()
	}
}
