package dataservice

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Default retry policy for transient fetch failures.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
)

// RetryRequest runs fn up to maxRetries times, sleeping between attempts with
// exponential backoff: baseDelay after the first failure, doubling after each
// subsequent one. Every error is retried unless it explicitly declares itself
// permanent (see IsRetryable). When every attempt fails, the error from the
// last attempt is returned.
//
// Example:
//
//	resp, err := dataservice.RetryRequest(ctx, logger, 3, time.Second,
//		func(ctx context.Context) (*dataservice.Response[dataservice.MetricPayload], error) {
//			return svc.FetchMetric(ctx, "total-revenue")
//		})
func RetryRequest[T any](ctx context.Context, logger *zap.Logger, maxRetries int, baseDelay time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			logger.Debug("Request failed with non-retryable error",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return zero, err
		}
		if attempt == maxRetries {
			break
		}

		delay := baseDelay << (attempt - 1)
		logger.Debug("Request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	logger.Warn("Request failed after all retries",
		zap.Int("max_retries", maxRetries),
		zap.Error(lastErr))
	return zero, lastErr
}
